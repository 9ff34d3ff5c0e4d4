package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type ComplaintService struct {
	repo    ports.ComplaintRepository
	metrics ports.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

var _ ports.ComplaintService = (*ComplaintService)(nil)

func NewComplaintService(repo ports.ComplaintRepository, metrics ports.Metrics, logger *zap.Logger) *ComplaintService {
	return &ComplaintService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create files a complaint owned by the caller. The owner is never read from input.
func (s *ComplaintService) Create(ctx context.Context, actor domain.Identity, in ports.NewComplaint) (int64, error) {
	if actor.UserID == 0 {
		return 0, domain.ErrUnauthenticated
	}
	category := strings.TrimSpace(in.Category)
	description := strings.TrimSpace(in.Description)
	switch {
	case in.DepartmentID <= 0:
		return 0, domain.Invalid("department_id", "is required")
	case category == "":
		return 0, domain.Invalid("category", "is required")
	case description == "":
		return 0, domain.Invalid("description", "is required")
	}

	id, err := s.repo.CreateComplaint(ctx, domain.Complaint{
		CitizenID:    actor.UserID,
		DepartmentID: in.DepartmentID,
		Category:     category,
		Description:  description,
		Status:       domain.StatusPending,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		ImageURL:     trimmedOrNil(in.ImageURL),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("create complaint: %w", err)
	}

	s.metrics.ComplaintCreated()
	s.logger.Info("complaint created",
		zap.Int64("complaint_id", id),
		zap.Int64("citizen_id", actor.UserID),
		zap.Int64("department_id", in.DepartmentID))
	return id, nil
}

func (s *ComplaintService) List(ctx context.Context, actor domain.Identity) ([]domain.ComplaintView, error) {
	var filter domain.ComplaintFilter
	switch actor.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleDeptAdmin:
		if actor.DepartmentID == nil {
			return []domain.ComplaintView{}, nil
		}
		filter.DepartmentID = actor.DepartmentID
	case domain.RoleCitizen:
		citizenID := actor.UserID
		filter.CitizenID = &citizenID
	default:
		return nil, domain.ErrForbidden
	}
	return s.repo.ListComplaints(ctx, filter)
}

func (s *ComplaintService) Get(ctx context.Context, actor domain.Identity, id int64) (*domain.ComplaintView, error) {
	complaint, err := s.repo.FindComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canSee(actor, &complaint.Complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// UpdateStatus changes status and resolution notes. Owner and department stay as filed.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor domain.Identity, id int64, in ports.StatusUpdate) error {
	if err := requireRole(actor, domain.RoleDeptAdmin, domain.RoleSuperAdmin); err != nil {
		return err
	}
	if !in.Status.Valid() {
		return domain.Invalid("status", "must be one of PENDING, IN_PROGRESS, RESOLVED")
	}

	current, err := s.repo.FindComplaint(ctx, id)
	if err != nil {
		return err
	}
	if err := canSee(actor, &current.Complaint); err != nil {
		return err
	}

	err = s.repo.UpdateComplaintStatus(ctx, domain.ComplaintUpdate{
		ComplaintID:     id,
		Status:          in.Status,
		ResolutionNotes: in.ResolutionNotes,
		ChangedBy:       actor.UserID,
		ChangedAt:       s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("update complaint %d: %w", id, err)
	}

	s.metrics.ComplaintStatusUpdated(in.Status)
	s.logger.Info("complaint status updated",
		zap.Int64("complaint_id", id),
		zap.String("status", string(in.Status)),
		zap.Int64("changed_by", actor.UserID))
	return nil
}

func (s *ComplaintService) PublicFeed(ctx context.Context) ([]domain.PublicComplaint, error) {
	return s.repo.ListPublicComplaints(ctx)
}

func canSee(actor domain.Identity, c *domain.Complaint) error {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleDeptAdmin:
		if actor.InDepartment(c.DepartmentID) {
			return nil
		}
	case domain.RoleCitizen:
		if c.CitizenID == actor.UserID {
			return nil
		}
	}
	return domain.ErrForbidden
}
