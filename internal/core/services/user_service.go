package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// UserService is the SUPER_ADMIN account management surface.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger, now: time.Now}
}

func (s *UserService) List(ctx context.Context, actor domain.Identity) ([]domain.UserSummary, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, actor domain.Identity, in ports.NewUser) (int64, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return 0, err
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	switch {
	case name == "":
		return 0, domain.Invalid("name", "is required")
	case email == "":
		return 0, domain.Invalid("email", "is required")
	case len(in.Password) < 6:
		return 0, domain.Invalid("password", "must be at least 6 characters")
	}
	deptID, err := departmentForRole(in.Role, in.DepartmentID)
	if err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		DepartmentID: deptID,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return 0, domain.ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", id),
		zap.String("role", string(in.Role)),
		zap.Int64("created_by", actor.UserID))
	return id, nil
}

// AssignRole moves a user to a new role or department. It takes effect on the
// user's next request because identities are re-read per request.
func (s *UserService) AssignRole(ctx context.Context, actor domain.Identity, id int64, in ports.RoleAssignment) error {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return err
	}
	deptID, err := departmentForRole(in.Role, in.DepartmentID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserRole(ctx, id, in.Role, deptID); err != nil {
		return err
	}
	s.logger.Info("user role changed",
		zap.Int64("user_id", id),
		zap.String("role", string(in.Role)),
		zap.Int64("changed_by", actor.UserID))
	return nil
}

// Delete removes a user and their complaints. Self-deletion is refused before
// any role check so that it reads the same for every caller.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	if actor.UserID == 0 {
		return domain.ErrUnauthenticated
	}
	if id == actor.UserID {
		return domain.ErrSelfDelete
	}
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("deleted_by", actor.UserID))
	return nil
}

// departmentForRole enforces that department_id is set iff role is DEPT_ADMIN.
func departmentForRole(role domain.Role, deptID *int64) (*int64, error) {
	if !role.Valid() {
		return nil, domain.Invalid("role", "must be one of CITIZEN, DEPT_ADMIN, SUPER_ADMIN")
	}
	if role != domain.RoleDeptAdmin {
		return nil, nil
	}
	if deptID == nil || *deptID <= 0 {
		return nil, domain.Invalid("department_id", "is required for DEPT_ADMIN")
	}
	return deptID, nil
}
