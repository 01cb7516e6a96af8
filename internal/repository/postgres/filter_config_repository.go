package postgres

import (
	"context"
	"errors"
	"fmt"

	"darbFilters/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FilterConfigRepository struct {
	DB *gorm.DB
}

func NewFilterConfigRepository(db *gorm.DB) *FilterConfigRepository {
	return &FilterConfigRepository{
		DB: db,
	}
}

var ErrConfigNotFound = errors.New("filter config not found")

func (r *FilterConfigRepository) FindByStore(ctx context.Context, storeID uint64) (domain.FilterConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.FilterConfig{}, fmt.Errorf("context error: %w", err)
	}

	var config domain.FilterConfig

	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FilterConfig{}, ErrConfigNotFound
		}
		return domain.FilterConfig{}, fmt.Errorf("failed to find filter config: %w", err)
	}

	return config, nil
}

func (r *FilterConfigRepository) Upsert(ctx context.Context, config *domain.FilterConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"primary_color", "secondary_color", "use_gradient", "gradient_from",
			"gradient_to", "button_style", "button_text_color", "hero_title",
			"hero_subtitle", "search_button_label", "updated_at",
		}),
	}).Create(config).Error
	if err != nil {
		return fmt.Errorf("failed to upsert filter config: %w", err)
	}

	return nil
}
