package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"darbFilters/business/pricedrop"
	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PriceDropService interface {
	CreateCampaign(ctx context.Context, input pricedrop.CreateCampaignInput) (*domain.PriceDropCampaign, error)
	UpdateCampaign(ctx context.Context, storeID, campaignID uint64, input pricedrop.UpdateCampaignInput) (*domain.PriceDropCampaign, error)
	GetCampaign(ctx context.Context, storeID, campaignID uint64) (domain.PriceDropCampaign, error)
	GetCampaigns(ctx context.Context, storeID uint64) ([]domain.PriceDropCampaign, error)
	DeleteCampaign(ctx context.Context, storeID, campaignID uint64) error
	AttachNewViewers(ctx context.Context, storeID, campaignID uint64) (int64, error)
	GetTargets(ctx context.Context, storeID, campaignID uint64, limit, offset int) ([]domain.PriceDropTarget, int64, error)
	SendEmailBlast(ctx context.Context, storeID, campaignID uint64) (int, error)
	GetFunnelTotals(ctx context.Context, storeID, campaignID uint64) (domain.FunnelTotals, error)
}

type PriceDropHandler struct {
	priceDropService PriceDropService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewPriceDropHandler(priceDropService PriceDropService) *PriceDropHandler {
	return &PriceDropHandler{
		priceDropService: priceDropService,
		validator:        validator.New(),
		timeout:          15 * time.Second,
	}
}

type CreateCampaignRequest struct {
	ProductID       string    `json:"product_id" validate:"required"`
	ProductName     string    `json:"product_name" validate:"required"`
	DiscountType    string    `json:"discount_type" validate:"required,oneof=price coupon"`
	OriginalPrice   float64   `json:"original_price" validate:"required,gt=0"`
	NewPrice        float64   `json:"new_price"`
	CouponCode      string    `json:"coupon_code"`
	ChannelOnsite   bool      `json:"channel_onsite"`
	ChannelEmail    bool      `json:"channel_email"`
	ChannelWhatsapp bool      `json:"channel_whatsapp"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	EndsAt          time.Time `json:"ends_at" validate:"required"`
}

type UpdateCampaignRequest struct {
	NewPrice        *float64   `json:"new_price"`
	CouponCode      *string    `json:"coupon_code"`
	ChannelOnsite   *bool      `json:"channel_onsite"`
	ChannelEmail    *bool      `json:"channel_email"`
	ChannelWhatsapp *bool      `json:"channel_whatsapp"`
	EndsAt          *time.Time `json:"ends_at"`
	Status          *string    `json:"status"`
}

func (h *PriceDropHandler) CreateCampaign(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate campaign request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign, err := h.priceDropService.CreateCampaign(ctx, pricedrop.CreateCampaignInput{
		StoreID:         storeID,
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		DiscountType:    req.DiscountType,
		OriginalPrice:   req.OriginalPrice,
		NewPrice:        req.NewPrice,
		CouponCode:      req.CouponCode,
		ChannelOnsite:   req.ChannelOnsite,
		ChannelEmail:    req.ChannelEmail,
		ChannelWhatsapp: req.ChannelWhatsapp,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
	})
	if err != nil {
		logger.Error("Failed to create campaign", err)
		switch err.Error() {
		case "product id is required",
			"original price must be positive",
			"ends_at must be after starts_at",
			"new price must be positive and below the original price",
			"discount type must be price or coupon":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "campaign successfully created",
		"campaign": campaign,
	})
}

func (h *PriceDropHandler) GetCampaigns(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaigns, err := h.priceDropService.GetCampaigns(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get campaigns", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get all campaigns",
		"campaigns": campaigns,
	})
}

func (h *PriceDropHandler) GetCampaign(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign, err := h.priceDropService.GetCampaign(ctx, storeID, campaignID)
	if err != nil {
		logger.Error("Failed to get campaign", err)
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get campaign",
		"campaign": campaign,
	})
}

func (h *PriceDropHandler) UpdateCampaign(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	var req UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	campaign, err := h.priceDropService.UpdateCampaign(ctx, storeID, campaignID, pricedrop.UpdateCampaignInput{
		NewPrice:        req.NewPrice,
		CouponCode:      req.CouponCode,
		ChannelOnsite:   req.ChannelOnsite,
		ChannelEmail:    req.ChannelEmail,
		ChannelWhatsapp: req.ChannelWhatsapp,
		EndsAt:          req.EndsAt,
		Status:          req.Status,
	})
	if err != nil {
		logger.Error("Failed to update campaign", err)
		switch err.Error() {
		case "campaign not found":
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case "new price must be positive and below the original price",
			"coupon code only applies to coupon campaigns",
			"ends_at must be after starts_at",
			"invalid campaign status":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully update campaign",
		"campaign": campaign,
	})
}

func (h *PriceDropHandler) DeleteCampaign(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.priceDropService.DeleteCampaign(ctx, storeID, campaignID); err != nil {
		logger.Error("Failed to delete campaign", err)
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "campaign successfully deleted",
		"campaign_id": campaignID,
	})
}

// AttachNewViewers picks up viewers who arrived after the last run. Calling
// it again without new viewers reports added: 0.
func (h *PriceDropHandler) AttachNewViewers(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	added, err := h.priceDropService.AttachNewViewers(ctx, storeID, campaignID)
	if err != nil {
		logger.Error("Failed to attach new viewers", err)
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully attached new viewers",
		"added":   added,
	})
}

func (h *PriceDropHandler) GetTargets(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	targets, total, err := h.priceDropService.GetTargets(ctx, storeID, campaignID, limit, offset)
	if err != nil {
		logger.Error("Failed to get targets", err)
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get targets",
		"targets": targets,
		"total":   total,
	})
}

func (h *PriceDropHandler) SendEmailBlast(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sent, err := h.priceDropService.SendEmailBlast(ctx, storeID, campaignID)
	if err != nil {
		logger.Error("Failed to send email blast", err)
		switch err.Error() {
		case "campaign not found":
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case "email channel is disabled for this campaign":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "email blast sent",
		"sent":    sent,
	})
}

func (h *PriceDropHandler) GetFunnel(c echo.Context) error {
	storeID, campaignID, ok := h.campaignScope(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	totals, err := h.priceDropService.GetFunnelTotals(ctx, storeID, campaignID)
	if err != nil {
		logger.Error("Failed to get funnel totals", err)
		if err.Error() == "campaign not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get funnel",
		"funnel":  totals,
	})
}

// campaignScope resolves the authenticated store and the campaign path
// param, writing the error response itself when either is missing.
func (h *PriceDropHandler) campaignScope(c echo.Context) (uint64, uint64, bool) {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
		return 0, 0, false
	}

	campaignID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid campaign id"})
		return 0, 0, false
	}

	return storeID, campaignID, true
}
