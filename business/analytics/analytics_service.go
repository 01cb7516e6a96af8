package analytics

import (
	"context"
	"errors"
	"time"

	"darbFilters/domain"
	"darbFilters/pkg/logger"
)

// EventRepository contract interface
type EventRepository interface {
	CountByType(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.EventTypeCount, error)
	CountByDay(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.DailyEventCount, error)
	TopBrands(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.BrandEventCount, error)
	TopModels(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.ModelEventCount, error)
	List(ctx context.Context, storeID uint64, limit, offset int) ([]domain.WidgetEvent, int64, error)
	GlobalCountByType(ctx context.Context, from, to time.Time) ([]domain.EventTypeCount, error)
}

// StoreRepository contract interface
type StoreRepository interface {
	FindAll(ctx context.Context) ([]domain.Store, error)
}

const (
	defaultRangeDays = 30
	topBrandsLimit   = 10
)

// StoreSummary is the per-store dashboard payload.
type StoreSummary struct {
	StoreID      uint64                   `json:"store_id"`
	From         time.Time                `json:"from"`
	To           time.Time                `json:"to"`
	ByType       []domain.EventTypeCount  `json:"by_type"`
	ByDay        []domain.DailyEventCount `json:"by_day"`
	TopBrands    []domain.BrandEventCount `json:"top_brands"`
	TopModels    []domain.ModelEventCount `json:"top_models"`
	Submits      int64                    `json:"submits"`
	BrandSelects int64                    `json:"brand_selects"`
}

// GlobalSummary aggregates across every installed store.
type GlobalSummary struct {
	From         time.Time               `json:"from"`
	To           time.Time               `json:"to"`
	ActiveStores int                     `json:"active_stores"`
	ByType       []domain.EventTypeCount `json:"by_type"`
}

type analyticsService struct {
	eventRepo EventRepository
	storeRepo StoreRepository
}

func NewAnalyticsService(eventRepo EventRepository, storeRepo StoreRepository) *analyticsService {
	return &analyticsService{
		eventRepo: eventRepo,
		storeRepo: storeRepo,
	}
}

// resolveRange defaults open bounds to the last 30 days.
func resolveRange(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultRangeDays)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("to must be after from")
	}

	return from, to, nil
}

func (s *analyticsService) StoreSummary(ctx context.Context, storeID uint64, from, to time.Time) (*StoreSummary, error) {
	from, to, err := resolveRange(from, to)
	if err != nil {
		return nil, err
	}

	byType, err := s.eventRepo.CountByType(ctx, storeID, from, to)
	if err != nil {
		logger.Error("Failed to load event type counts", err)
		return nil, err
	}

	byDay, err := s.eventRepo.CountByDay(ctx, storeID, from, to)
	if err != nil {
		logger.Error("Failed to load daily event counts", err)
		return nil, err
	}

	topBrands, err := s.eventRepo.TopBrands(ctx, storeID, from, to, topBrandsLimit)
	if err != nil {
		logger.Error("Failed to load top brands", err)
		return nil, err
	}

	topModels, err := s.eventRepo.TopModels(ctx, storeID, from, to, topBrandsLimit)
	if err != nil {
		logger.Error("Failed to load top models", err)
		return nil, err
	}

	summary := StoreSummary{
		StoreID:   storeID,
		From:      from,
		To:        to,
		ByType:    byType,
		ByDay:     byDay,
		TopBrands: topBrands,
		TopModels: topModels,
	}
	for _, c := range byType {
		switch c.EventType {
		case domain.EventSearchSubmit:
			summary.Submits = c.Total
		case domain.EventBrandSelect:
			summary.BrandSelects = c.Total
		}
	}

	return &summary, nil
}

func (s *analyticsService) RecentEvents(ctx context.Context, storeID uint64, limit, offset int) ([]domain.WidgetEvent, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.eventRepo.List(ctx, storeID, limit, offset)
}

func (s *analyticsService) GlobalSummary(ctx context.Context, from, to time.Time) (*GlobalSummary, error) {
	from, to, err := resolveRange(from, to)
	if err != nil {
		return nil, err
	}

	byType, err := s.eventRepo.GlobalCountByType(ctx, from, to)
	if err != nil {
		logger.Error("Failed to load global event counts", err)
		return nil, err
	}

	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load stores", err)
		return nil, err
	}

	active := 0
	for _, st := range stores {
		if st.IsActive {
			active++
		}
	}

	return &GlobalSummary{
		From:         from,
		To:           to,
		ActiveStores: active,
		ByType:       byType,
	}, nil
}
