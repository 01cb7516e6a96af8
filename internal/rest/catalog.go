package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	GetBrands(ctx context.Context, storeID uint64) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, brand *domain.Brand) error
	DeleteBrand(ctx context.Context, storeID, brandID uint64) error

	GetModels(ctx context.Context, storeID uint64, brandID uint64) ([]domain.CarModel, error)
	CreateModel(ctx context.Context, model *domain.CarModel) (*domain.CarModel, error)
	UpdateModel(ctx context.Context, model *domain.CarModel) error
	DeleteModel(ctx context.Context, storeID, modelID uint64) error

	GetYears(ctx context.Context, storeID uint64) ([]domain.ModelYear, error)
	CreateYear(ctx context.Context, year *domain.ModelYear) (*domain.ModelYear, error)
	DeleteYear(ctx context.Context, storeID, yearID uint64) error

	GetSections(ctx context.Context, storeID uint64) ([]domain.Section, error)
	CreateSection(ctx context.Context, section *domain.Section) (*domain.Section, error)
	UpdateSection(ctx context.Context, section *domain.Section) error
	DeleteSection(ctx context.Context, storeID, sectionID uint64) error

	GetKeywords(ctx context.Context, storeID uint64) ([]domain.Keyword, error)
	CreateKeyword(ctx context.Context, keyword *domain.Keyword) (*domain.Keyword, error)
	DeleteKeyword(ctx context.Context, storeID, keywordID uint64) error
}

type CatalogHandler struct {
	catalogService CatalogService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateBrandRequest struct {
	Name            string `json:"name" validate:"required"`
	SallaCategoryID uint64 `json:"salla_category_id" validate:"required"`
	SortOrder       int    `json:"sort_order"`
}

type CreateModelRequest struct {
	BrandID         uint64 `json:"brand_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	SallaCategoryID uint64 `json:"salla_category_id" validate:"required"`
}

type CreateYearRequest struct {
	ModelID         uint64 `json:"model_id" validate:"required"`
	Label           string `json:"label" validate:"required"`
	SallaCategoryID uint64 `json:"salla_category_id" validate:"required"`
}

type CreateSectionRequest struct {
	Name            string `json:"name" validate:"required"`
	SallaCategoryID uint64 `json:"salla_category_id" validate:"required"`
	SortOrder       int    `json:"sort_order"`
}

type CreateKeywordRequest struct {
	ModelID         uint64 `json:"model_id" validate:"required"`
	SectionID       uint64 `json:"section_id" validate:"required"`
	Label           string `json:"label" validate:"required"`
	SallaCategoryID uint64 `json:"salla_category_id" validate:"required"`
}

func (h *CatalogHandler) GetBrands(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brands, err := h.catalogService.GetBrands(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get brands", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all brands",
		"brands":  brands,
	})
}

func (h *CatalogHandler) CreateBrand(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate brand request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brand := &domain.Brand{
		StoreID:         storeID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
		SortOrder:       req.SortOrder,
	}

	newBrand, err := h.catalogService.CreateBrand(ctx, brand)
	if err != nil {
		logger.Error("Failed to create brand", err)
		if err.Error() == "brand name is required" || err.Error() == "salla category id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "brand successfully created",
		"brand":   newBrand,
	})
}

func (h *CatalogHandler) UpdateBrand(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	brandID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid brand id"})
	}

	var req CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate brand request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brand := &domain.Brand{
		BrandID:         brandID,
		StoreID:         storeID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
		SortOrder:       req.SortOrder,
	}

	if err := h.catalogService.UpdateBrand(ctx, brand); err != nil {
		logger.Error("Failed to update brand", err)
		if err.Error() == "brand not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update brand",
		"brand":   brand,
	})
}

func (h *CatalogHandler) DeleteBrand(c echo.Context) error {
	return h.deleteCatalogEntry(c, "brand", h.catalogService.DeleteBrand)
}

func (h *CatalogHandler) GetModels(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var brandID uint64
	if brandIDStr := c.QueryParam("brand_id"); brandIDStr != "" {
		brandID, err = strconv.ParseUint(brandIDStr, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid brand id"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	models, err := h.catalogService.GetModels(ctx, storeID, brandID)
	if err != nil {
		logger.Error("Failed to get models", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all models",
		"models":  models,
	})
}

func (h *CatalogHandler) CreateModel(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateModelRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate model request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	model := &domain.CarModel{
		StoreID:         storeID,
		BrandID:         req.BrandID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
	}

	newModel, err := h.catalogService.CreateModel(ctx, model)
	if err != nil {
		logger.Error("Failed to create model", err)
		if err.Error() == "model name is required" || err.Error() == "brand id is required" || err.Error() == "salla category id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "model successfully created",
		"model":   newModel,
	})
}

func (h *CatalogHandler) UpdateModel(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	modelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid model id"})
	}

	var req CreateModelRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate model request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	model := &domain.CarModel{
		ModelID:         modelID,
		StoreID:         storeID,
		BrandID:         req.BrandID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
	}

	if err := h.catalogService.UpdateModel(ctx, model); err != nil {
		logger.Error("Failed to update model", err)
		if err.Error() == "model not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update model",
		"model":   model,
	})
}

func (h *CatalogHandler) DeleteModel(c echo.Context) error {
	return h.deleteCatalogEntry(c, "model", h.catalogService.DeleteModel)
}

func (h *CatalogHandler) GetYears(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	years, err := h.catalogService.GetYears(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get years", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all years",
		"years":   years,
	})
}

func (h *CatalogHandler) CreateYear(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateYearRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate year request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	year := &domain.ModelYear{
		StoreID:         storeID,
		ModelID:         req.ModelID,
		Label:           req.Label,
		SallaCategoryID: req.SallaCategoryID,
	}

	newYear, err := h.catalogService.CreateYear(ctx, year)
	if err != nil {
		logger.Error("Failed to create year", err)
		if err.Error() == "year label is required" || err.Error() == "model id is required" || err.Error() == "salla category id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "year successfully created",
		"year":    newYear,
	})
}

func (h *CatalogHandler) DeleteYear(c echo.Context) error {
	return h.deleteCatalogEntry(c, "year", h.catalogService.DeleteYear)
}

func (h *CatalogHandler) GetSections(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sections, err := h.catalogService.GetSections(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get sections", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all sections",
		"sections": sections,
	})
}

func (h *CatalogHandler) CreateSection(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateSectionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate section request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	section := &domain.Section{
		StoreID:         storeID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
		SortOrder:       req.SortOrder,
	}

	newSection, err := h.catalogService.CreateSection(ctx, section)
	if err != nil {
		logger.Error("Failed to create section", err)
		if err.Error() == "section name is required" || err.Error() == "salla category id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "section successfully created",
		"section": newSection,
	})
}

func (h *CatalogHandler) UpdateSection(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	sectionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid section id"})
	}

	var req CreateSectionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate section request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	section := &domain.Section{
		SectionID:       sectionID,
		StoreID:         storeID,
		Name:            req.Name,
		SallaCategoryID: req.SallaCategoryID,
		SortOrder:       req.SortOrder,
	}

	if err := h.catalogService.UpdateSection(ctx, section); err != nil {
		logger.Error("Failed to update section", err)
		if err.Error() == "section not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update section",
		"section": section,
	})
}

func (h *CatalogHandler) DeleteSection(c echo.Context) error {
	return h.deleteCatalogEntry(c, "section", h.catalogService.DeleteSection)
}

func (h *CatalogHandler) GetKeywords(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	keywords, err := h.catalogService.GetKeywords(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get keywords", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all keywords",
		"keywords": keywords,
	})
}

func (h *CatalogHandler) CreateKeyword(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateKeywordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate keyword request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	keyword := &domain.Keyword{
		StoreID:         storeID,
		ModelID:         req.ModelID,
		SectionID:       req.SectionID,
		Label:           req.Label,
		SallaCategoryID: req.SallaCategoryID,
	}

	newKeyword, err := h.catalogService.CreateKeyword(ctx, keyword)
	if err != nil {
		logger.Error("Failed to create keyword", err)
		if err.Error() == "keyword label is required" || err.Error() == "model id and section id are required" || err.Error() == "salla category id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "keyword successfully created",
		"keyword": newKeyword,
	})
}

func (h *CatalogHandler) DeleteKeyword(c echo.Context) error {
	return h.deleteCatalogEntry(c, "keyword", h.catalogService.DeleteKeyword)
}

// deleteCatalogEntry shares the param parsing and error mapping the five
// delete endpoints have in common.
func (h *CatalogHandler) deleteCatalogEntry(c echo.Context, kind string, del func(ctx context.Context, storeID, id uint64) error) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid " + kind + " id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := del(ctx, storeID, id); err != nil {
		logger.Error("Failed to delete "+kind, err)
		if err.Error() == kind+" not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "invalid "+kind+" id" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": kind + " successfully deleted",
		"id":      id,
	})
}
