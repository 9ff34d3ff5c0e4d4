package repository

import (
	"context"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

const userColumns = `id, name, email, mobile, password_hash, role, department_id, created_at`

func (r *SQLRepository) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	return r.insert(ctx, r.db, `
		INSERT INTO users (name, email, mobile, password_hash, role, department_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		user.Name, user.Email, user.Mobile, user.PasswordHash, user.Role, user.DepartmentID, user.CreatedAt,
	)
}

func (r *SQLRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users := []domain.UserSummary{}
	err := r.selectAll(ctx, &users, `
		SELECT u.id, u.name, u.email, u.role, u.department_id, d.name AS dept_name
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		ORDER BY u.id DESC`)
	return users, err
}

func (r *SQLRepository) UpdateUserRole(ctx context.Context, id int64, role domain.Role, departmentID *int64) error {
	return r.execOne(ctx, r.db, `UPDATE users SET role = ?, department_id = ? WHERE id = ?`, role, departmentID, id)
}

// DeleteUser removes the user's complaints and applications before the user
// row, in one transaction.
func (r *SQLRepository) DeleteUser(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM complaints WHERE citizen_id = ?`), id); err != nil {
		return classify(err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM job_applications WHERE citizen_id = ?`), id); err != nil {
		return classify(err)
	}
	if err := r.execOne(ctx, tx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
