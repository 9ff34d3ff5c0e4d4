package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

const complaintViewQuery = `
	SELECT c.id, c.citizen_id, c.department_id, c.category, c.description, c.status,
		c.latitude, c.longitude, c.image_url, c.resolution_notes, c.created_at,
		u.name AS citizen_name, d.name AS dept_name
	FROM complaints c
	JOIN users u ON u.id = c.citizen_id
	JOIN departments d ON d.id = c.department_id`

func (r *SQLRepository) CreateComplaint(ctx context.Context, c domain.Complaint) (int64, error) {
	return r.insert(ctx, r.db, `
		INSERT INTO complaints (citizen_id, department_id, category, description, status,
			latitude, longitude, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		c.CitizenID, c.DepartmentID, c.Category, c.Description, c.Status,
		c.Latitude, c.Longitude, c.ImageURL, c.CreatedAt,
	)
}

func (r *SQLRepository) FindComplaint(ctx context.Context, id int64) (*domain.ComplaintView, error) {
	var view domain.ComplaintView
	if err := r.get(ctx, &view, complaintViewQuery+` WHERE c.id = ?`, id); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *SQLRepository) ListComplaints(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error) {
	var (
		where []string
		args  []any
	)
	if filter.CitizenID != nil {
		where = append(where, "c.citizen_id = ?")
		args = append(args, *filter.CitizenID)
	}
	if filter.DepartmentID != nil {
		where = append(where, "c.department_id = ?")
		args = append(args, *filter.DepartmentID)
	}

	query := complaintViewQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.id DESC"

	views := []domain.ComplaintView{}
	err := r.selectAll(ctx, &views, query, args...)
	return views, err
}

func (r *SQLRepository) ListPublicComplaints(ctx context.Context) ([]domain.PublicComplaint, error) {
	feed := []domain.PublicComplaint{}
	err := r.selectAll(ctx, &feed, `
		SELECT c.id, c.category, c.description, c.status, c.latitude, c.longitude,
			c.image_url, c.created_at, d.name AS dept_name
		FROM complaints c
		JOIN departments d ON d.id = c.department_id
		ORDER BY c.created_at DESC, c.id DESC`)
	return feed, err
}

// UpdateComplaintStatus touches status and resolution_notes only, and writes the
// matching outbox event in the same transaction.
func (r *SQLRepository) UpdateComplaintStatus(ctx context.Context, update domain.ComplaintUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var owner struct {
		CitizenID    int64 `db:"citizen_id"`
		DepartmentID int64 `db:"department_id"`
	}
	err = tx.GetContext(ctx, &owner,
		r.db.Rebind(`SELECT citizen_id, department_id FROM complaints WHERE id = ?`), update.ComplaintID)
	if err != nil {
		return classify(err)
	}

	if err := r.execOne(ctx, tx,
		`UPDATE complaints SET status = ?, resolution_notes = ? WHERE id = ?`,
		update.Status, update.ResolutionNotes, update.ComplaintID,
	); err != nil {
		return err
	}

	evt := ports.ComplaintStatusChanged{
		EventID:         uuid.NewString(),
		ComplaintID:     update.ComplaintID,
		CitizenID:       owner.CitizenID,
		DepartmentID:    owner.DepartmentID,
		Status:          string(update.Status),
		ResolutionNotes: update.ResolutionNotes,
		ChangedBy:       update.ChangedBy,
		ChangedAt:       update.ChangedAt,
	}
	payload, err := sonic.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES (?, ?, ?, ?)`),
		evt.EventID, ports.ComplaintStatusChangedEvent, string(payload), update.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", classify(err))
	}

	return tx.Commit()
}

func (r *SQLRepository) ComplaintStats(ctx context.Context) (*domain.ComplaintStats, error) {
	stats := &domain.ComplaintStats{
		ByStatus:     []domain.StatusCount{},
		ByDepartment: []domain.DepartmentCount{},
	}
	if err := r.get(ctx, &stats.Total, `SELECT COUNT(*) FROM complaints`); err != nil {
		return nil, err
	}
	if err := r.selectAll(ctx, &stats.ByStatus, `
		SELECT status, COUNT(*) AS count
		FROM complaints
		GROUP BY status
		ORDER BY status`); err != nil {
		return nil, err
	}
	if err := r.selectAll(ctx, &stats.ByDepartment, `
		SELECT d.name, COUNT(c.id) AS count
		FROM departments d
		LEFT JOIN complaints c ON c.department_id = d.id
		GROUP BY d.name
		ORDER BY d.name`); err != nil {
		return nil, err
	}
	return stats, nil
}
