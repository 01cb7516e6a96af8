package postgres

import (
	"context"
	"errors"
	"fmt"

	"darbFilters/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// Brands

func (r *CatalogRepository) FindBrands(ctx context.Context, storeID uint64) ([]domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var brands []domain.Brand
	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("sort_order, brand_id").Find(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find brands: %w", err)
	}

	return brands, nil
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *CatalogRepository) UpdateBrand(ctx context.Context, brand *domain.Brand) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":              brand.Name,
		"salla_category_id": brand.SallaCategoryID,
		"sort_order":        brand.SortOrder,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Brand{}).
		Where("brand_id = ? AND store_id = ?", brand.BrandID, brand.StoreID).
		Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("brand not found")
	}

	return nil
}

func (r *CatalogRepository) DeleteBrand(ctx context.Context, storeID, brandID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("brand_id = ? AND store_id = ?", brandID, storeID).Delete(&domain.Brand{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("brand not found")
	}

	return nil
}

// Models

func (r *CatalogRepository) FindModels(ctx context.Context, storeID uint64) ([]domain.CarModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var models []domain.CarModel
	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("model_id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find models: %w", err)
	}

	return models, nil
}

func (r *CatalogRepository) FindModelsByBrand(ctx context.Context, storeID, brandID uint64) ([]domain.CarModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var models []domain.CarModel
	err := r.DB.WithContext(ctx).Where("store_id = ? AND brand_id = ?", storeID, brandID).Order("model_id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find models by brand: %w", err)
	}

	return models, nil
}

func (r *CatalogRepository) CreateModel(ctx context.Context, model *domain.CarModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

func (r *CatalogRepository) UpdateModel(ctx context.Context, model *domain.CarModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":              model.Name,
		"brand_id":          model.BrandID,
		"salla_category_id": model.SallaCategoryID,
	}

	result := r.DB.WithContext(ctx).Model(&domain.CarModel{}).
		Where("model_id = ? AND store_id = ?", model.ModelID, model.StoreID).
		Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update model: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("model not found")
	}

	return nil
}

func (r *CatalogRepository) DeleteModel(ctx context.Context, storeID, modelID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("model_id = ? AND store_id = ?", modelID, storeID).Delete(&domain.CarModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete model: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("model not found")
	}

	return nil
}

// Years

func (r *CatalogRepository) FindYears(ctx context.Context, storeID uint64) ([]domain.ModelYear, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var years []domain.ModelYear
	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("label").Find(&years).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find years: %w", err)
	}

	return years, nil
}

func (r *CatalogRepository) CreateYear(ctx context.Context, year *domain.ModelYear) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(year).Error; err != nil {
		return fmt.Errorf("failed to create year: %w", err)
	}

	return nil
}

func (r *CatalogRepository) DeleteYear(ctx context.Context, storeID, yearID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("year_id = ? AND store_id = ?", yearID, storeID).Delete(&domain.ModelYear{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete year: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("year not found")
	}

	return nil
}

// Sections

func (r *CatalogRepository) FindSections(ctx context.Context, storeID uint64) ([]domain.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sections []domain.Section
	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("sort_order, section_id").Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sections: %w", err)
	}

	return sections, nil
}

func (r *CatalogRepository) CreateSection(ctx context.Context, section *domain.Section) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}

	return nil
}

func (r *CatalogRepository) UpdateSection(ctx context.Context, section *domain.Section) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":              section.Name,
		"salla_category_id": section.SallaCategoryID,
		"sort_order":        section.SortOrder,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Section{}).
		Where("section_id = ? AND store_id = ?", section.SectionID, section.StoreID).
		Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update section: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("section not found")
	}

	return nil
}

func (r *CatalogRepository) DeleteSection(ctx context.Context, storeID, sectionID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("section_id = ? AND store_id = ?", sectionID, storeID).Delete(&domain.Section{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete section: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("section not found")
	}

	return nil
}

// Keywords

func (r *CatalogRepository) FindKeywords(ctx context.Context, storeID uint64) ([]domain.Keyword, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var keywords []domain.Keyword
	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("keyword_id").Find(&keywords).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find keywords: %w", err)
	}

	return keywords, nil
}

func (r *CatalogRepository) FindKeywordsForSelection(ctx context.Context, storeID, modelID, sectionID uint64) ([]domain.Keyword, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var keywords []domain.Keyword
	err := r.DB.WithContext(ctx).
		Where("store_id = ? AND model_id = ? AND section_id = ?", storeID, modelID, sectionID).
		Order("keyword_id").
		Find(&keywords).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find keywords for selection: %w", err)
	}

	return keywords, nil
}

func (r *CatalogRepository) CreateKeyword(ctx context.Context, keyword *domain.Keyword) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(keyword).Error; err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	return nil
}

func (r *CatalogRepository) DeleteKeyword(ctx context.Context, storeID, keywordID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("keyword_id = ? AND store_id = ?", keywordID, storeID).Delete(&domain.Keyword{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete keyword: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("keyword not found")
	}

	return nil
}
