package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type DepartmentService struct {
	repo   ports.DepartmentRepository
	logger *zap.Logger
}

var _ ports.DepartmentService = (*DepartmentService)(nil)

func NewDepartmentService(repo ports.DepartmentRepository, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, logger: logger}
}

func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *DepartmentService) Create(ctx context.Context, actor domain.Identity, in ports.NewDepartment) (int64, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return 0, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, domain.Invalid("name", "is required")
	}
	id, err := s.repo.CreateDepartment(ctx, domain.Department{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return 0, fmt.Errorf("create department: %w", err)
	}
	s.logger.Info("department created", zap.Int64("department_id", id), zap.String("name", name))
	return id, nil
}
