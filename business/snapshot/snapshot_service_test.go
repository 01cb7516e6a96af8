package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"darbFilters/domain"
	redisrepo "darbFilters/internal/repository/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	brands []domain.Brand
	calls  int
}

func (f *fakeCatalogRepo) FindBrands(_ context.Context, storeID uint64) ([]domain.Brand, error) {
	f.calls++
	return f.brands, nil
}

func (f *fakeCatalogRepo) FindModels(_ context.Context, storeID uint64) ([]domain.CarModel, error) {
	return []domain.CarModel{{ModelID: 1, BrandID: 1, Name: "Camry"}}, nil
}

func (f *fakeCatalogRepo) FindYears(_ context.Context, storeID uint64) ([]domain.ModelYear, error) {
	return []domain.ModelYear{{YearID: 1, ModelID: 1, Label: "2020"}}, nil
}

func (f *fakeCatalogRepo) FindSections(_ context.Context, storeID uint64) ([]domain.Section, error) {
	return []domain.Section{{SectionID: 1, Name: "فلاتر"}}, nil
}

func (f *fakeCatalogRepo) FindKeywords(_ context.Context, storeID uint64) ([]domain.Keyword, error) {
	return nil, nil
}

type fakeConfigRepo struct {
	config domain.FilterConfig
	err    error
}

func (f *fakeConfigRepo) FindByStore(_ context.Context, storeID uint64) (domain.FilterConfig, error) {
	if f.err != nil {
		return domain.FilterConfig{}, f.err
	}
	return f.config, nil
}

type fakeCache struct {
	store  map[uint64]*domain.Snapshot
	getErr error
	sets   int
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[uint64]*domain.Snapshot)}
}

func (f *fakeCache) Get(_ context.Context, storeID uint64) (*domain.Snapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	snap, ok := f.store[storeID]
	if !ok {
		return nil, redisrepo.ErrSnapshotNotCached
	}
	return snap, nil
}

func (f *fakeCache) Set(_ context.Context, storeID uint64, snapshot *domain.Snapshot, _ time.Duration) error {
	f.sets++
	f.store[storeID] = snapshot
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, storeID uint64) error {
	f.dels++
	delete(f.store, storeID)
	return nil
}

func TestGetBuildsOnMissThenServesFromCache(t *testing.T) {
	catalogRepo := &fakeCatalogRepo{brands: []domain.Brand{{BrandID: 1, Name: "Toyota"}}}
	cache := newFakeCache()
	svc := NewSnapshotService(catalogRepo, &fakeConfigRepo{}, cache, 30*time.Minute)

	snap, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, snap.Brands, 1)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, catalogRepo.calls)

	_, err = svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, catalogRepo.calls, "second read must come from cache")
}

func TestGetDegradesWhenCacheIsDown(t *testing.T) {
	catalogRepo := &fakeCatalogRepo{brands: []domain.Brand{{BrandID: 1, Name: "Toyota"}}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	svc := NewSnapshotService(catalogRepo, &fakeConfigRepo{}, cache, 30*time.Minute)

	snap, err := svc.Get(context.Background(), 7)
	require.NoError(t, err, "redis outage must not break the widget")
	assert.Len(t, snap.Brands, 1)
}

func TestBuildFallsBackToDefaultConfig(t *testing.T) {
	catalogRepo := &fakeCatalogRepo{}
	configRepo := &fakeConfigRepo{err: errors.New("filter config not found")}
	svc := NewSnapshotService(catalogRepo, configRepo, newFakeCache(), 30*time.Minute)

	snap, err := svc.Build(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFilterConfig(7).PrimaryColor, snap.Config.PrimaryColor)
	assert.False(t, snap.GeneratedAt.IsZero())
}

func TestInvalidateDropsCachedSnapshot(t *testing.T) {
	catalogRepo := &fakeCatalogRepo{}
	cache := newFakeCache()
	svc := NewSnapshotService(catalogRepo, &fakeConfigRepo{}, cache, 30*time.Minute)

	_, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)

	svc.Invalidate(context.Background(), 7)
	assert.Equal(t, 1, cache.dels)

	_, err = svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, catalogRepo.calls, "invalidation forces a rebuild")
}
