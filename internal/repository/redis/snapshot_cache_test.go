package redis

import (
	"context"
	"testing"
	"time"

	"darbFilters/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	return NewSnapshotCache(client), mr
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Brands:      []domain.Brand{{BrandID: 1, StoreID: 7, Name: "Toyota", SallaCategoryID: 100}},
		Sections:    []domain.Section{{SectionID: 1, StoreID: 7, Name: "فلاتر", SallaCategoryID: 200}},
		Config:      domain.DefaultFilterConfig(7),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, testSnapshot(), 30*time.Minute))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", got.Brands[0].Name)
	assert.Equal(t, uint64(200), got.Sections[0].SallaCategoryID)
}

func TestSnapshotCacheMissReturnsSentinel(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSnapshotNotCached)
}

func TestSnapshotCacheKeysAreScopedByStore(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, testSnapshot(), 30*time.Minute))

	_, err := cache.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrSnapshotNotCached)
}

func TestSnapshotCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, testSnapshot(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrSnapshotNotCached)
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, testSnapshot(), 30*time.Minute))
	require.NoError(t, cache.Invalidate(ctx, 7))

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrSnapshotNotCached)
}
