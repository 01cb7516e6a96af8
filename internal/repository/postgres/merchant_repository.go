package postgres

import (
	"context"
	"errors"
	"fmt"

	"darbFilters/domain"

	"gorm.io/gorm"
)

type MerchantRepository struct {
	DB *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{
		DB: db,
	}
}

func (r *MerchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(merchant).Error; err != nil {
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	return nil
}

func (r *MerchantRepository) FindByID(ctx context.Context, id uint64) (domain.Merchant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Merchant{}, fmt.Errorf("context error: %w", err)
	}

	var merchant domain.Merchant

	err := r.DB.WithContext(ctx).Where("merchant_id = ?", id).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Merchant{}, errors.New("merchant not found")
		}
		return domain.Merchant{}, fmt.Errorf("failed to find merchant: %w", err)
	}

	return merchant, nil
}

func (r *MerchantRepository) FindByEmail(ctx context.Context, email string) (domain.Merchant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Merchant{}, fmt.Errorf("context error: %w", err)
	}

	var merchant domain.Merchant

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Merchant{}, errors.New("merchant not found")
		}
		return domain.Merchant{}, fmt.Errorf("failed to find merchant: %w", err)
	}

	return merchant, nil
}
