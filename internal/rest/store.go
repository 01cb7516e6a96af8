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

type StoreService interface {
	Install(ctx context.Context, store *domain.Store) (domain.Store, error)
	GetStore(ctx context.Context, storeID uint64) (domain.Store, error)
	GetStores(ctx context.Context) ([]domain.Store, error)
	Deactivate(ctx context.Context, storeID uint64) error
	EmbedCode(ctx context.Context, storeID uint64) (string, error)
}

type StoreHandler struct {
	storeService StoreService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewStoreHandler(storeService StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type InstallStoreRequest struct {
	StoreID     uint64 `json:"store_id" validate:"required"`
	StoreName   string `json:"store_name"`
	Domain      string `json:"domain" validate:"required"`
	AccessToken string `json:"access_token"`
}

func (h *StoreHandler) Install(c echo.Context) error {
	var req InstallStoreRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate install request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	store := &domain.Store{
		StoreID:          req.StoreID,
		StoreName:        req.StoreName,
		Domain:           req.Domain,
		SallaAccessToken: req.AccessToken,
	}

	installed, err := h.storeService.Install(ctx, store)
	if err != nil {
		logger.Error("Failed to install store", err)
		if err.Error() == "store id is required" || err.Error() == "store domain is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "store successfully installed",
		"store":   installed,
	})
}

func (h *StoreHandler) GetStores(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stores, err := h.storeService.GetStores(ctx)
	if err != nil {
		logger.Error("Failed to get stores", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all stores",
		"stores":  stores,
	})
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	store, err := h.storeService.GetStore(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get store", err)
		if err.Error() == "store not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get store",
		"store":   store,
	})
}

func (h *StoreHandler) GetEmbedCode(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	code, err := h.storeService.EmbedCode(ctx, storeID)
	if err != nil {
		logger.Error("Failed to build embed code", err)
		if err.Error() == "store not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get embed code",
		"embed_code": code,
	})
}

func (h *StoreHandler) Deactivate(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.storeService.Deactivate(ctx, storeID); err != nil {
		logger.Error("Failed to deactivate store", err)
		if err.Error() == "store not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "store successfully deactivated",
		"store_id": storeID,
	})
}

// storeIDFromContext reads the store scope set by the auth middleware.
func storeIDFromContext(c echo.Context) (uint64, error) {
	switch v := c.Get("store_id").(type) {
	case uint64:
		return v, nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	default:
		return 0, echo.ErrUnauthorized
	}
}
