package postgres

import (
	"context"
	"errors"
	"fmt"

	"darbFilters/domain"

	"gorm.io/gorm"
)

type StoreRepository struct {
	DB *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{
		DB: db,
	}
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id uint64) (domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return domain.Store{}, fmt.Errorf("context error: %w", err)
	}

	var store domain.Store

	err := r.DB.WithContext(ctx).Where("store_id = ?", id).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Store{}, errors.New("store not found")
		}
		return domain.Store{}, fmt.Errorf("failed to find store: %w", err)
	}

	return store, nil
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var stores []domain.Store
	err := r.DB.WithContext(ctx).Order("store_id").Find(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stores: %w", err)
	}

	return stores, nil
}

func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"store_name": store.StoreName,
		"domain":     store.Domain,
		"is_active":  store.IsActive,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Store{}).Where("store_id = ?", store.StoreID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update store: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("store not found")
	}

	return nil
}

func (r *StoreRepository) UpdateAccessToken(ctx context.Context, id uint64, token string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Store{}).Where("store_id = ?", id).Update("salla_access_token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to update store access token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("store not found")
	}

	return nil
}
