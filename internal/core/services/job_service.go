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

type JobService struct {
	repo   ports.JobRepository
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.JobService = (*JobService)(nil)

func NewJobService(repo ports.JobRepository, logger *zap.Logger) *JobService {
	return &JobService{repo: repo, logger: logger, now: time.Now}
}

func (s *JobService) List(ctx context.Context) ([]domain.Job, error) {
	return s.repo.ListJobs(ctx)
}

func (s *JobService) Create(ctx context.Context, actor domain.Identity, in ports.NewJob) (int64, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return 0, err
	}
	title := strings.TrimSpace(in.Title)
	department := strings.TrimSpace(in.Department)
	description := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return 0, domain.Invalid("title", "is required")
	case department == "":
		return 0, domain.Invalid("department", "is required")
	case description == "":
		return 0, domain.Invalid("description", "is required")
	case in.Deadline.IsZero():
		return 0, domain.Invalid("deadline", "is required (YYYY-MM-DD)")
	}

	id, err := s.repo.CreateJob(ctx, domain.Job{
		Title:       title,
		Department:  department,
		Description: description,
		Deadline:    in.Deadline,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info("job posted", zap.Int64("job_id", id))
	return id, nil
}

// Apply records a citizen's application. A second application to the same job
// fails with ErrAlreadyApplied and leaves the first untouched.
func (s *JobService) Apply(ctx context.Context, actor domain.Identity, jobID int64, resumeURL string) (int64, error) {
	if err := requireRole(actor, domain.RoleCitizen); err != nil {
		return 0, err
	}
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return 0, domain.Invalid("resume_url", "is required")
	}
	if _, err := s.repo.FindJob(ctx, jobID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateApplication(ctx, domain.JobApplication{
		JobID:     jobID,
		CitizenID: actor.UserID,
		ResumeURL: resumeURL,
		Status:    domain.ApplicationPending,
		AppliedAt: s.now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return 0, domain.ErrAlreadyApplied
	}
	if err != nil {
		return 0, fmt.Errorf("create application: %w", err)
	}
	s.logger.Info("job application received", zap.Int64("job_id", jobID), zap.Int64("application_id", id))
	return id, nil
}

// Application returns the caller's application to jobID, or nil when there is none.
func (s *JobService) Application(ctx context.Context, actor domain.Identity, jobID int64) (*domain.JobApplication, error) {
	if err := requireRole(actor, domain.RoleCitizen); err != nil {
		return nil, err
	}
	app, err := s.repo.FindApplication(ctx, jobID, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return app, err
}

func (s *JobService) MyApplications(ctx context.Context, actor domain.Identity) ([]domain.JobApplicationView, error) {
	if err := requireRole(actor, domain.RoleCitizen); err != nil {
		return nil, err
	}
	return s.repo.ListApplicationsByCitizen(ctx, actor.UserID)
}

func (s *JobService) Applicants(ctx context.Context, actor domain.Identity, jobID int64) ([]domain.JobApplicationView, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListApplicationsByJob(ctx, jobID)
}

func (s *JobService) ReviewApplication(ctx context.Context, actor domain.Identity, id int64, status domain.ApplicationStatus) error {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return err
	}
	if !status.Valid() {
		return domain.Invalid("status", "must be one of PENDING, ACCEPTED, REJECTED")
	}
	if err := s.repo.UpdateApplicationStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("job application reviewed", zap.Int64("application_id", id), zap.String("status", string(status)))
	return nil
}
