package rest

import (
	"context"
	"net/http"
	"time"

	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type FilterConfigService interface {
	GetConfig(ctx context.Context, storeID uint64) (domain.FilterConfig, error)
	UpdateConfig(ctx context.Context, config *domain.FilterConfig) (domain.FilterConfig, error)
}

type FilterConfigHandler struct {
	configService FilterConfigService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewFilterConfigHandler(configService FilterConfigService) *FilterConfigHandler {
	return &FilterConfigHandler{
		configService: configService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type UpdateFilterConfigRequest struct {
	PrimaryColor      string `json:"primary_color"`
	SecondaryColor    string `json:"secondary_color"`
	UseGradient       bool   `json:"use_gradient"`
	GradientFrom      string `json:"gradient_from"`
	GradientTo        string `json:"gradient_to"`
	ButtonStyle       string `json:"button_style"`
	ButtonTextColor   string `json:"button_text_color"`
	HeroTitle         string `json:"hero_title"`
	HeroSubtitle      string `json:"hero_subtitle"`
	SearchButtonLabel string `json:"search_button_label"`
}

func (h *FilterConfigHandler) GetConfig(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	config, err := h.configService.GetConfig(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get filter config", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get filter config",
		"config":  config,
	})
}

func (h *FilterConfigHandler) UpdateConfig(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req UpdateFilterConfigRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	config := &domain.FilterConfig{
		StoreID:           storeID,
		PrimaryColor:      req.PrimaryColor,
		SecondaryColor:    req.SecondaryColor,
		UseGradient:       req.UseGradient,
		GradientFrom:      req.GradientFrom,
		GradientTo:        req.GradientTo,
		ButtonStyle:       req.ButtonStyle,
		ButtonTextColor:   req.ButtonTextColor,
		HeroTitle:         req.HeroTitle,
		HeroSubtitle:      req.HeroSubtitle,
		SearchButtonLabel: req.SearchButtonLabel,
	}

	saved, err := h.configService.UpdateConfig(ctx, config)
	if err != nil {
		logger.Error("Failed to update filter config", err)
		if err.Error() == "gradient colors are required when gradient is enabled" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update filter config",
		"config":  saved,
	})
}
