package postgres

import (
	"context"
	"fmt"
	"time"

	"darbFilters/domain"

	"gorm.io/gorm"
)

type WidgetEventRepository struct {
	DB *gorm.DB
}

func NewWidgetEventRepository(db *gorm.DB) *WidgetEventRepository {
	return &WidgetEventRepository{
		DB: db,
	}
}

func (r *WidgetEventRepository) Create(ctx context.Context, event *domain.WidgetEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create widget event: %w", err)
	}

	return nil
}

func (r *WidgetEventRepository) CountByType(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.EventTypeCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.EventTypeCount
	err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).
		Select("event_type, COUNT(*) AS total").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Group("event_type").
		Order("total DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events by type: %w", err)
	}

	return counts, nil
}

func (r *WidgetEventRepository) CountByDay(ctx context.Context, storeID uint64, from, to time.Time) ([]domain.DailyEventCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.DailyEventCount
	err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).
		Select("date_trunc('day', created_at) AS day, COUNT(*) AS total").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Group("day").
		Order("day").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events by day: %w", err)
	}

	return counts, nil
}

func (r *WidgetEventRepository) TopBrands(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.BrandEventCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.BrandEventCount
	err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).
		Select("widget_events.brand_id, brands.name, COUNT(*) AS total").
		Joins("JOIN brands ON brands.brand_id = widget_events.brand_id").
		Where("widget_events.store_id = ? AND widget_events.brand_id IS NOT NULL", storeID).
		Where("widget_events.created_at >= ? AND widget_events.created_at < ?", from, to).
		Group("widget_events.brand_id, brands.name").
		Order("total DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find top brands: %w", err)
	}

	return counts, nil
}

func (r *WidgetEventRepository) TopModels(ctx context.Context, storeID uint64, from, to time.Time, limit int) ([]domain.ModelEventCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.ModelEventCount
	err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).
		Select("widget_events.model_id, car_models.name, COUNT(*) AS total").
		Joins("JOIN car_models ON car_models.model_id = widget_events.model_id").
		Where("widget_events.store_id = ? AND widget_events.model_id IS NOT NULL", storeID).
		Where("widget_events.created_at >= ? AND widget_events.created_at < ?", from, to).
		Group("widget_events.model_id, car_models.name").
		Order("total DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find top models: %w", err)
	}

	return counts, nil
}

func (r *WidgetEventRepository) List(ctx context.Context, storeID uint64, limit, offset int) ([]domain.WidgetEvent, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).Where("store_id = ?", storeID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count widget events: %w", err)
	}

	var events []domain.WidgetEvent
	err := r.DB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list widget events: %w", err)
	}

	return events, total, nil
}

// GlobalCountByType powers the cross-store admin screen.
func (r *WidgetEventRepository) GlobalCountByType(ctx context.Context, from, to time.Time) ([]domain.EventTypeCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.EventTypeCount
	err := r.DB.WithContext(ctx).Model(&domain.WidgetEvent{}).
		Select("event_type, COUNT(*) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("event_type").
		Order("total DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count global events: %w", err)
	}

	return counts, nil
}
