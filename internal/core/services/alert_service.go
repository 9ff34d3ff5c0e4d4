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

type AlertService struct {
	repo   ports.AlertRepository
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.AlertService = (*AlertService)(nil)

func NewAlertService(repo ports.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{repo: repo, logger: logger, now: time.Now}
}

// Recent returns the public feed, newest first.
func (s *AlertService) Recent(ctx context.Context) ([]domain.Alert, error) {
	return s.repo.ListRecentAlerts(ctx, domain.AlertFeedLimit)
}

func (s *AlertService) Create(ctx context.Context, actor domain.Identity, in ports.NewAlert) (int64, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return 0, err
	}
	title := strings.TrimSpace(in.Title)
	message := strings.TrimSpace(in.Message)
	switch {
	case title == "":
		return 0, domain.Invalid("title", "is required")
	case message == "":
		return 0, domain.Invalid("message", "is required")
	case !in.Type.Valid():
		return 0, domain.Invalid("type", "must be one of EMERGENCY, WEATHER, TRAFFIC, HEALTH")
	}

	id, err := s.repo.CreateAlert(ctx, domain.Alert{
		Title:     title,
		Message:   message,
		Type:      in.Type,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("create alert: %w", err)
	}
	s.logger.Info("alert broadcast", zap.Int64("alert_id", id), zap.String("type", string(in.Type)))
	return id, nil
}
