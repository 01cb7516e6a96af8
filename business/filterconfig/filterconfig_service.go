package filterconfig

import (
	"context"
	"errors"

	"darbFilters/domain"
	"darbFilters/internal/repository/postgres"
	"darbFilters/pkg/logger"
)

// ConfigRepository contract interface
type ConfigRepository interface {
	FindByStore(ctx context.Context, storeID uint64) (domain.FilterConfig, error)
	Upsert(ctx context.Context, config *domain.FilterConfig) error
}

// SnapshotInvalidator contract interface
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, storeID uint64)
}

type filterConfigService struct {
	configRepo ConfigRepository
	snapshots  SnapshotInvalidator
}

func NewFilterConfigService(configRepo ConfigRepository, snapshots SnapshotInvalidator) *filterConfigService {
	return &filterConfigService{
		configRepo: configRepo,
		snapshots:  snapshots,
	}
}

// GetConfig falls back to defaults until the store saves its own.
func (s *filterConfigService) GetConfig(ctx context.Context, storeID uint64) (domain.FilterConfig, error) {
	config, err := s.configRepo.FindByStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, postgres.ErrConfigNotFound) {
			return domain.DefaultFilterConfig(storeID), nil
		}
		logger.Error("Failed to load filter config", err)
		return domain.FilterConfig{}, err
	}

	return config, nil
}

func (s *filterConfigService) UpdateConfig(ctx context.Context, config *domain.FilterConfig) (domain.FilterConfig, error) {
	if config.StoreID == 0 {
		return domain.FilterConfig{}, errors.New("store id is required")
	}
	if config.UseGradient && (config.GradientFrom == "" || config.GradientTo == "") {
		return domain.FilterConfig{}, errors.New("gradient colors are required when gradient is enabled")
	}

	if err := s.configRepo.Upsert(ctx, config); err != nil {
		logger.Error("Failed to save filter config", err)
		return domain.FilterConfig{}, err
	}

	s.snapshots.Invalidate(ctx, config.StoreID)

	return *config, nil
}
