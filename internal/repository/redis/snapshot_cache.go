package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darbFilters/domain"

	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotCached = errors.New("snapshot not cached")

// SnapshotCache holds the precomputed widget blob per store so the
// widget-data endpoint stays off Postgres on the hot path.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{
		client: client,
	}
}

func snapshotKey(storeID uint64) string {
	return fmt.Sprintf("widget:snapshot:%d", storeID)
}

func (c *SnapshotCache) Get(ctx context.Context, storeID uint64) (*domain.Snapshot, error) {
	val, err := c.client.Get(ctx, snapshotKey(storeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotCached
		}
		return nil, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

func (c *SnapshotCache) Set(ctx context.Context, storeID uint64, snapshot *domain.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey(storeID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in Redis: %w", err)
	}

	return nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context, storeID uint64) error {
	if err := c.client.Del(ctx, snapshotKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}

	return nil
}
