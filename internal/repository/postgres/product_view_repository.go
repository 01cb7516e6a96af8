package postgres

import (
	"context"
	"fmt"

	"darbFilters/domain"

	"gorm.io/gorm"
)

type ProductViewRepository struct {
	DB *gorm.DB
}

func NewProductViewRepository(db *gorm.DB) *ProductViewRepository {
	return &ProductViewRepository{
		DB: db,
	}
}

func (r *ProductViewRepository) Create(ctx context.Context, view *domain.ProductView) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("failed to create product view: %w", err)
	}

	return nil
}

// DistinctViewers returns one row per customer who ever viewed the product,
// keeping the most recent name/email seen for that customer.
func (r *ProductViewRepository) DistinctViewers(ctx context.Context, storeID uint64, productID string) ([]domain.ProductView, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var views []domain.ProductView
	err := r.DB.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (customer_id) *
		     FROM product_views
		     WHERE store_id = ? AND product_id = ?
		     ORDER BY customer_id, viewed_at DESC`, storeID, productID).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find distinct viewers: %w", err)
	}

	return views, nil
}
