package services

import (
	"context"
	"fmt"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type AnalyticsService struct {
	repo     ports.ComplaintRepository
	renderer ports.ReportRenderer
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

func NewAnalyticsService(repo ports.ComplaintRepository, renderer ports.ReportRenderer) *AnalyticsService {
	return &AnalyticsService{repo: repo, renderer: renderer}
}

func (s *AnalyticsService) Stats(ctx context.Context, actor domain.Identity) (*domain.ComplaintStats, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.repo.ComplaintStats(ctx)
}

// Export renders the current stats and every complaint into a workbook.
func (s *AnalyticsService) Export(ctx context.Context, actor domain.Identity) ([]byte, error) {
	stats, err := s.Stats(ctx, actor)
	if err != nil {
		return nil, err
	}
	complaints, err := s.repo.ListComplaints(ctx, domain.ComplaintFilter{})
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	out, err := s.renderer.RenderComplaints(stats, complaints)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
