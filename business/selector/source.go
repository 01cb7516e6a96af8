package selector

import (
	"context"

	"darbFilters/pkg/logger"
)

// Option is one row of a dropdown step.
type Option struct {
	ID              uint64 `json:"id"`
	Label           string `json:"label"`
	SallaCategoryID uint64 `json:"salla_category_id"`
}

// Query scopes a keyword lookup. Keywords are only meaningful for one
// (model, section) pair.
type Query struct {
	StoreID   uint64
	ModelID   uint64
	SectionID uint64
}

// OptionSource loads one step's options either from the authoritative API
// or from a previously cached bulk read.
type OptionSource interface {
	FetchLive(ctx context.Context, q Query) ([]Option, error)
	FetchFromCache(ctx context.Context, q Query) ([]Option, error)
}

// LoadFunc is a resolved option loader.
type LoadFunc func(ctx context.Context, q Query) ([]Option, error)

// WithFallback prefers the live read and degrades to the cached one when it
// fails. Both failing surfaces the cache error.
func WithFallback(src OptionSource) LoadFunc {
	return func(ctx context.Context, q Query) ([]Option, error) {
		options, err := src.FetchLive(ctx, q)
		if err == nil {
			return options, nil
		}

		logger.Warn("live option fetch failed, falling back to cache", err)

		return src.FetchFromCache(ctx, q)
	}
}

// CacheOnly skips the live read entirely.
func CacheOnly(src OptionSource) LoadFunc {
	return func(ctx context.Context, q Query) ([]Option, error) {
		return src.FetchFromCache(ctx, q)
	}
}
