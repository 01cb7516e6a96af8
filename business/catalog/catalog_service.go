package catalog

import (
	"context"
	"errors"
	"fmt"

	"darbFilters/domain"
	"darbFilters/pkg/logger"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	FindBrands(ctx context.Context, storeID uint64) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, brand *domain.Brand) error
	UpdateBrand(ctx context.Context, brand *domain.Brand) error
	DeleteBrand(ctx context.Context, storeID, brandID uint64) error

	FindModels(ctx context.Context, storeID uint64) ([]domain.CarModel, error)
	FindModelsByBrand(ctx context.Context, storeID, brandID uint64) ([]domain.CarModel, error)
	CreateModel(ctx context.Context, model *domain.CarModel) error
	UpdateModel(ctx context.Context, model *domain.CarModel) error
	DeleteModel(ctx context.Context, storeID, modelID uint64) error

	FindYears(ctx context.Context, storeID uint64) ([]domain.ModelYear, error)
	CreateYear(ctx context.Context, year *domain.ModelYear) error
	DeleteYear(ctx context.Context, storeID, yearID uint64) error

	FindSections(ctx context.Context, storeID uint64) ([]domain.Section, error)
	CreateSection(ctx context.Context, section *domain.Section) error
	UpdateSection(ctx context.Context, section *domain.Section) error
	DeleteSection(ctx context.Context, storeID, sectionID uint64) error

	FindKeywords(ctx context.Context, storeID uint64) ([]domain.Keyword, error)
	CreateKeyword(ctx context.Context, keyword *domain.Keyword) error
	DeleteKeyword(ctx context.Context, storeID, keywordID uint64) error
}

// SnapshotInvalidator contract interface
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, storeID uint64)
}

type catalogService struct {
	catalogRepo CatalogRepository
	snapshots   SnapshotInvalidator
}

func NewCatalogService(catalogRepo CatalogRepository, snapshots SnapshotInvalidator) *catalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		snapshots:   snapshots,
	}
}

func (s *catalogService) GetBrands(ctx context.Context, storeID uint64) ([]domain.Brand, error) {
	return s.catalogRepo.FindBrands(ctx, storeID)
}

func (s *catalogService) CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	if brand.Name == "" {
		return nil, errors.New("brand name is required")
	}
	if brand.SallaCategoryID == 0 {
		return nil, errors.New("salla category id is required")
	}

	if err := s.catalogRepo.CreateBrand(ctx, brand); err != nil {
		logger.Error("failed to create brand", err)
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	s.snapshots.Invalidate(ctx, brand.StoreID)

	return brand, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, brand *domain.Brand) error {
	if brand.BrandID == 0 {
		return errors.New("brand id is required")
	}
	if brand.Name == "" {
		return errors.New("brand name is required")
	}

	if err := s.catalogRepo.UpdateBrand(ctx, brand); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, brand.StoreID)

	return nil
}

func (s *catalogService) DeleteBrand(ctx context.Context, storeID, brandID uint64) error {
	if brandID == 0 {
		return errors.New("invalid brand id")
	}

	if err := s.catalogRepo.DeleteBrand(ctx, storeID, brandID); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, storeID)

	return nil
}

func (s *catalogService) GetModels(ctx context.Context, storeID uint64, brandID uint64) ([]domain.CarModel, error) {
	if brandID != 0 {
		return s.catalogRepo.FindModelsByBrand(ctx, storeID, brandID)
	}

	return s.catalogRepo.FindModels(ctx, storeID)
}

func (s *catalogService) CreateModel(ctx context.Context, model *domain.CarModel) (*domain.CarModel, error) {
	if model.Name == "" {
		return nil, errors.New("model name is required")
	}
	if model.BrandID == 0 {
		return nil, errors.New("brand id is required")
	}
	if model.SallaCategoryID == 0 {
		return nil, errors.New("salla category id is required")
	}

	if err := s.catalogRepo.CreateModel(ctx, model); err != nil {
		logger.Error("failed to create model", err)
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	s.snapshots.Invalidate(ctx, model.StoreID)

	return model, nil
}

func (s *catalogService) UpdateModel(ctx context.Context, model *domain.CarModel) error {
	if model.ModelID == 0 {
		return errors.New("model id is required")
	}
	if model.Name == "" {
		return errors.New("model name is required")
	}

	if err := s.catalogRepo.UpdateModel(ctx, model); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, model.StoreID)

	return nil
}

func (s *catalogService) DeleteModel(ctx context.Context, storeID, modelID uint64) error {
	if modelID == 0 {
		return errors.New("invalid model id")
	}

	if err := s.catalogRepo.DeleteModel(ctx, storeID, modelID); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, storeID)

	return nil
}

func (s *catalogService) GetYears(ctx context.Context, storeID uint64) ([]domain.ModelYear, error) {
	return s.catalogRepo.FindYears(ctx, storeID)
}

func (s *catalogService) CreateYear(ctx context.Context, year *domain.ModelYear) (*domain.ModelYear, error) {
	if year.Label == "" {
		return nil, errors.New("year label is required")
	}
	if year.ModelID == 0 {
		return nil, errors.New("model id is required")
	}

	if err := s.catalogRepo.CreateYear(ctx, year); err != nil {
		logger.Error("failed to create year", err)
		return nil, fmt.Errorf("failed to create year: %w", err)
	}

	s.snapshots.Invalidate(ctx, year.StoreID)

	return year, nil
}

func (s *catalogService) DeleteYear(ctx context.Context, storeID, yearID uint64) error {
	if yearID == 0 {
		return errors.New("invalid year id")
	}

	if err := s.catalogRepo.DeleteYear(ctx, storeID, yearID); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, storeID)

	return nil
}

func (s *catalogService) GetSections(ctx context.Context, storeID uint64) ([]domain.Section, error) {
	return s.catalogRepo.FindSections(ctx, storeID)
}

func (s *catalogService) CreateSection(ctx context.Context, section *domain.Section) (*domain.Section, error) {
	if section.Name == "" {
		return nil, errors.New("section name is required")
	}
	if section.SallaCategoryID == 0 {
		return nil, errors.New("salla category id is required")
	}

	if err := s.catalogRepo.CreateSection(ctx, section); err != nil {
		logger.Error("failed to create section", err)
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	s.snapshots.Invalidate(ctx, section.StoreID)

	return section, nil
}

func (s *catalogService) UpdateSection(ctx context.Context, section *domain.Section) error {
	if section.SectionID == 0 {
		return errors.New("section id is required")
	}
	if section.Name == "" {
		return errors.New("section name is required")
	}

	if err := s.catalogRepo.UpdateSection(ctx, section); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, section.StoreID)

	return nil
}

func (s *catalogService) DeleteSection(ctx context.Context, storeID, sectionID uint64) error {
	if sectionID == 0 {
		return errors.New("invalid section id")
	}

	if err := s.catalogRepo.DeleteSection(ctx, storeID, sectionID); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, storeID)

	return nil
}

func (s *catalogService) GetKeywords(ctx context.Context, storeID uint64) ([]domain.Keyword, error) {
	return s.catalogRepo.FindKeywords(ctx, storeID)
}

func (s *catalogService) CreateKeyword(ctx context.Context, keyword *domain.Keyword) (*domain.Keyword, error) {
	if keyword.Label == "" {
		return nil, errors.New("keyword label is required")
	}
	if keyword.ModelID == 0 || keyword.SectionID == 0 {
		return nil, errors.New("model id and section id are required")
	}

	if err := s.catalogRepo.CreateKeyword(ctx, keyword); err != nil {
		logger.Error("failed to create keyword", err)
		return nil, fmt.Errorf("failed to create keyword: %w", err)
	}

	s.snapshots.Invalidate(ctx, keyword.StoreID)

	return keyword, nil
}

func (s *catalogService) DeleteKeyword(ctx context.Context, storeID, keywordID uint64) error {
	if keywordID == 0 {
		return errors.New("invalid keyword id")
	}

	if err := s.catalogRepo.DeleteKeyword(ctx, storeID, keywordID); err != nil {
		return err
	}

	s.snapshots.Invalidate(ctx, storeID)

	return nil
}
