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

type LocationService struct {
	repo   ports.LocationRepository
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.LocationService = (*LocationService)(nil)

func NewLocationService(repo ports.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{repo: repo, logger: logger, now: time.Now}
}

func (s *LocationService) List(ctx context.Context) ([]domain.ExploreLocation, error) {
	return s.repo.ListLocations(ctx)
}

func (s *LocationService) Create(ctx context.Context, actor domain.Identity, in ports.NewLocation) (int64, error) {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return 0, err
	}
	loc := domain.ExploreLocation{
		Name:         strings.TrimSpace(in.Name),
		Address:      strings.TrimSpace(in.Address),
		CategorySlug: strings.ToLower(strings.TrimSpace(in.CategorySlug)),
		Rating:       in.Rating,
		CreatedBy:    actor.UserID,
		CreatedAt:    s.now().UTC(),
	}
	switch {
	case loc.Name == "":
		return 0, domain.Invalid("name", "is required")
	case loc.Address == "":
		return 0, domain.Invalid("address", "is required")
	case loc.CategorySlug == "":
		return 0, domain.Invalid("category_slug", "is required")
	case loc.Rating < 0 || loc.Rating > 5:
		return 0, domain.Invalid("rating", "must be between 0 and 5")
	}

	id, err := s.repo.CreateLocation(ctx, loc)
	if err != nil {
		return 0, fmt.Errorf("create location: %w", err)
	}
	s.logger.Info("explore location added", zap.Int64("location_id", id), zap.String("category", loc.CategorySlug))
	return id, nil
}

func (s *LocationService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	if err := requireRole(actor, domain.RoleSuperAdmin); err != nil {
		return err
	}
	return s.repo.DeleteLocation(ctx, id)
}
