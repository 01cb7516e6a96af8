package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"darbFilters/domain"
	redisrepo "darbFilters/internal/repository/redis"
	"darbFilters/pkg/logger"
	"darbFilters/pkg/metrics"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	FindBrands(ctx context.Context, storeID uint64) ([]domain.Brand, error)
	FindModels(ctx context.Context, storeID uint64) ([]domain.CarModel, error)
	FindYears(ctx context.Context, storeID uint64) ([]domain.ModelYear, error)
	FindSections(ctx context.Context, storeID uint64) ([]domain.Section, error)
	FindKeywords(ctx context.Context, storeID uint64) ([]domain.Keyword, error)
}

// ConfigRepository contract interface
type ConfigRepository interface {
	FindByStore(ctx context.Context, storeID uint64) (domain.FilterConfig, error)
}

// Cache contract interface
type Cache interface {
	Get(ctx context.Context, storeID uint64) (*domain.Snapshot, error)
	Set(ctx context.Context, storeID uint64, snapshot *domain.Snapshot, ttl time.Duration) error
	Invalidate(ctx context.Context, storeID uint64) error
}

type snapshotService struct {
	catalogRepo CatalogRepository
	configRepo  ConfigRepository
	cache       Cache
	ttl         time.Duration
}

func NewSnapshotService(catalogRepo CatalogRepository, configRepo ConfigRepository, cache Cache, ttl time.Duration) *snapshotService {
	return &snapshotService{
		catalogRepo: catalogRepo,
		configRepo:  configRepo,
		cache:       cache,
		ttl:         ttl,
	}
}

// Get returns the store's widget snapshot, serving from Redis when possible
// and rebuilding from Postgres on a miss.
func (s *snapshotService) Get(ctx context.Context, storeID uint64) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	cached, err := s.cache.Get(ctx, storeID)
	if err == nil {
		metrics.SnapshotCacheHits.Inc()
		return cached, nil
	}
	if !errors.Is(err, redisrepo.ErrSnapshotNotCached) {
		// Redis being down degrades to a Postgres rebuild, not an error.
		logger.Warn("snapshot cache read failed", err)
	}
	metrics.SnapshotCacheMisses.Inc()

	snapshot, err := s.Build(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, storeID, snapshot, s.ttl); err != nil {
		logger.Warn("snapshot cache write failed", err)
	}

	return snapshot, nil
}

// Build assembles the snapshot straight from Postgres.
func (s *snapshotService) Build(ctx context.Context, storeID uint64) (*domain.Snapshot, error) {
	start := time.Now()

	brands, err := s.catalogRepo.FindBrands(ctx, storeID)
	if err != nil {
		logger.Error("Failed to load brands for snapshot", err)
		return nil, err
	}

	models, err := s.catalogRepo.FindModels(ctx, storeID)
	if err != nil {
		logger.Error("Failed to load models for snapshot", err)
		return nil, err
	}

	years, err := s.catalogRepo.FindYears(ctx, storeID)
	if err != nil {
		logger.Error("Failed to load years for snapshot", err)
		return nil, err
	}

	sections, err := s.catalogRepo.FindSections(ctx, storeID)
	if err != nil {
		logger.Error("Failed to load sections for snapshot", err)
		return nil, err
	}

	keywords, err := s.catalogRepo.FindKeywords(ctx, storeID)
	if err != nil {
		logger.Error("Failed to load keywords for snapshot", err)
		return nil, err
	}

	config, err := s.configRepo.FindByStore(ctx, storeID)
	if err != nil {
		config = domain.DefaultFilterConfig(storeID)
	}

	metrics.SnapshotBuildLatency.Observe(time.Since(start).Seconds())

	return &domain.Snapshot{
		Brands:      brands,
		Models:      models,
		Years:       years,
		Sections:    sections,
		Keywords:    keywords,
		Config:      config,
		GeneratedAt: time.Now(),
	}, nil
}

// Invalidate drops the cached snapshot; catalog and config writes call this.
func (s *snapshotService) Invalidate(ctx context.Context, storeID uint64) {
	if err := s.cache.Invalidate(ctx, storeID); err != nil {
		logger.Warn("snapshot invalidation failed", err)
	}
}
