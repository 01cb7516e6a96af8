package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darbFilters/domain"
)

type fakeEventRepo struct {
	byType    []domain.EventTypeCount
	byDay     []domain.DailyEventCount
	topBrands []domain.BrandEventCount
	topModels []domain.ModelEventCount

	lastFrom  time.Time
	lastTo    time.Time
	lastLimit int
}

func (f *fakeEventRepo) CountByType(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.EventTypeCount, error) {
	f.lastFrom, f.lastTo = from, to
	return f.byType, nil
}

func (f *fakeEventRepo) CountByDay(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.DailyEventCount, error) {
	return f.byDay, nil
}

func (f *fakeEventRepo) TopBrands(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.BrandEventCount, error) {
	return f.topBrands, nil
}

func (f *fakeEventRepo) TopModels(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.ModelEventCount, error) {
	return f.topModels, nil
}

func (f *fakeEventRepo) List(ctx context.Context, storeID uint64, limit, offset int) ([]domain.WidgetEvent, int64, error) {
	f.lastLimit = limit
	return nil, 0, nil
}

func (f *fakeEventRepo) GlobalCountByType(ctx context.Context, from, to time.Time) ([]domain.EventTypeCount, error) {
	return f.byType, nil
}

type fakeStoreRepo struct {
	stores []domain.Store
}

func (f *fakeStoreRepo) FindAll(ctx context.Context) ([]domain.Store, error) {
	return f.stores, nil
}

func TestStoreSummaryExtractsHeadlineCounts(t *testing.T) {
	events := &fakeEventRepo{
		byType: []domain.EventTypeCount{
			{EventType: domain.EventBrandSelect, Total: 40},
			{EventType: domain.EventSearchSubmit, Total: 12},
		},
		topBrands: []domain.BrandEventCount{{BrandID: 1, Name: "Toyota", Total: 25}},
		topModels: []domain.ModelEventCount{{ModelID: 3, Name: "Camry", Total: 14}},
	}
	service := NewAnalyticsService(events, &fakeStoreRepo{})

	summary, err := service.StoreSummary(context.Background(), 7, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, int64(12), summary.Submits)
	assert.Equal(t, int64(40), summary.BrandSelects)
	assert.Len(t, summary.TopBrands, 1)
	assert.Len(t, summary.TopModels, 1)
}

func TestStoreSummaryDefaultsRangeToLastThirtyDays(t *testing.T) {
	events := &fakeEventRepo{}
	service := NewAnalyticsService(events, &fakeStoreRepo{})

	_, err := service.StoreSummary(context.Background(), 7, time.Time{}, time.Time{})
	require.NoError(t, err)

	span := events.lastTo.Sub(events.lastFrom)
	assert.InDelta(t, float64(30*24*time.Hour), float64(span), float64(2*time.Hour))
}

func TestStoreSummaryRejectsInvertedRange(t *testing.T) {
	service := NewAnalyticsService(&fakeEventRepo{}, &fakeStoreRepo{})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := service.StoreSummary(context.Background(), 7, from, to)
	assert.Error(t, err)
}

func TestRecentEventsClampsLimit(t *testing.T) {
	events := &fakeEventRepo{}
	service := NewAnalyticsService(events, &fakeStoreRepo{})

	_, _, err := service.RecentEvents(context.Background(), 7, 500, -3)
	require.NoError(t, err)
	assert.Equal(t, 50, events.lastLimit)
}

func TestGlobalSummaryCountsActiveStoresOnly(t *testing.T) {
	stores := &fakeStoreRepo{stores: []domain.Store{
		{StoreID: 1, IsActive: true},
		{StoreID: 2, IsActive: false},
		{StoreID: 3, IsActive: true},
	}}
	service := NewAnalyticsService(&fakeEventRepo{}, stores)

	summary, err := service.GlobalSummary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveStores)
}
