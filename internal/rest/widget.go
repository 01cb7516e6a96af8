package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"darbFilters/business/widget"
	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type WidgetService interface {
	LogEvent(ctx context.Context, input widget.EventInput) error
	Keywords(ctx context.Context, storeID, modelID, sectionID uint64) ([]domain.Keyword, error)
	StoreDomain(ctx context.Context, storeID uint64) (string, error)
	BuildSearchURL(ctx context.Context, storeID uint64, sessionKey string, brandID, modelID, yearID, sectionID uint64, keywordIDs []uint64) (string, error)
}

type SnapshotService interface {
	Get(ctx context.Context, storeID uint64) (*domain.Snapshot, error)
}

type PopupService interface {
	PopupForCustomer(ctx context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error)
	RecordFunnelEvent(ctx context.Context, targetID uint64, eventType string) error
	TrackProductView(ctx context.Context, view *domain.ProductView) error
}

type WidgetHandler struct {
	widgetService   WidgetService
	snapshotService SnapshotService
	popupService    PopupService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewWidgetHandler(widgetService WidgetService, snapshotService SnapshotService, popupService PopupService) *WidgetHandler {
	return &WidgetHandler{
		widgetService:   widgetService,
		snapshotService: snapshotService,
		popupService:    popupService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type WidgetEventRequest struct {
	StoreID    uint64                 `json:"store_id" validate:"required"`
	SessionKey string                 `json:"session_key" validate:"required"`
	EventType  string                 `json:"event_type" validate:"required"`
	BrandID    *uint64                `json:"brand_id"`
	ModelID    *uint64                `json:"model_id"`
	YearID     *uint64                `json:"year_id"`
	SectionID  *uint64                `json:"section_id"`
	KeywordIDs []uint64               `json:"keyword_ids"`
	Meta       map[string]interface{} `json:"meta"`
}

type SearchURLRequest struct {
	StoreID    uint64   `json:"store_id" validate:"required"`
	SessionKey string   `json:"session_key" validate:"required"`
	BrandID    uint64   `json:"brand_id" validate:"required"`
	ModelID    uint64   `json:"model_id" validate:"required"`
	YearID     uint64   `json:"year_id" validate:"required"`
	SectionID  uint64   `json:"section_id" validate:"required"`
	KeywordIDs []uint64 `json:"keyword_ids"`
}

type PopupEventRequest struct {
	TargetID  uint64 `json:"target_id" validate:"required"`
	EventType string `json:"event_type" validate:"required"`
}

type ProductViewRequest struct {
	StoreID       uint64 `json:"store_id" validate:"required"`
	ProductID     string `json:"product_id" validate:"required"`
	CustomerID    string `json:"customer_id" validate:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// GetWidgetData serves the precomputed snapshot the widget boots from.
func (h *WidgetHandler) GetWidgetData(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid store id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snapshot, err := h.snapshotService.Get(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get widget snapshot", err)
		if err.Error() == "store not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *WidgetHandler) GetKeywords(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.QueryParam("store_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid store id"})
	}
	modelID, err := strconv.ParseUint(c.QueryParam("model_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid model id"})
	}
	sectionID, err := strconv.ParseUint(c.QueryParam("section_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid section id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	keywords, err := h.widgetService.Keywords(ctx, storeID, modelID, sectionID)
	if err != nil {
		logger.Error("Failed to get widget keywords", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"keywords": keywords,
	})
}

func (h *WidgetHandler) LogEvent(c echo.Context) error {
	var req WidgetEventRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate widget event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err := h.widgetService.LogEvent(ctx, widget.EventInput{
		StoreID:    req.StoreID,
		SessionKey: req.SessionKey,
		EventType:  req.EventType,
		BrandID:    req.BrandID,
		ModelID:    req.ModelID,
		YearID:     req.YearID,
		SectionID:  req.SectionID,
		KeywordIDs: req.KeywordIDs,
		Meta:       req.Meta,
	})
	if err != nil {
		logger.Error("Failed to log widget event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "event accepted",
	})
}

func (h *WidgetHandler) GetStoreDomain(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.QueryParam("store_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid store id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	storeDomain, err := h.widgetService.StoreDomain(ctx, storeID)
	if err != nil {
		logger.Error("Failed to get store domain", err)
		if err.Error() == "store not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"domain": storeDomain,
	})
}

func (h *WidgetHandler) BuildSearchURL(c echo.Context) error {
	var req SearchURLRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate search request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	url, err := h.widgetService.BuildSearchURL(ctx, req.StoreID, req.SessionKey, req.BrandID, req.ModelID, req.YearID, req.SectionID, req.KeywordIDs)
	if err != nil {
		logger.Error("Failed to build search url", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"url": url,
	})
}

// GetPopup returns the price drop popup payload for a known customer, or 204
// when there is nothing to show.
func (h *WidgetHandler) GetPopup(c echo.Context) error {
	storeID, err := strconv.ParseUint(c.QueryParam("store_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid store id"})
	}
	customerID := c.QueryParam("customer_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	target, campaign, err := h.popupService.PopupForCustomer(ctx, storeID, customerID)
	if err != nil {
		if err.Error() == "customer id is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"target_id":        target.TargetID,
		"product_id":       campaign.ProductID,
		"product_name":     campaign.ProductName,
		"discount_type":    campaign.DiscountType,
		"original_price":   campaign.OriginalPrice,
		"new_price":        campaign.NewPrice,
		"discount_percent": campaign.DiscountPercent,
		"coupon_code":      campaign.CouponCode,
		"ends_at":          campaign.EndsAt,
	})
}

func (h *WidgetHandler) LogPopupEvent(c echo.Context) error {
	var req PopupEventRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate popup event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.popupService.RecordFunnelEvent(ctx, req.TargetID, req.EventType); err != nil {
		logger.Error("Failed to record popup event", err)
		switch err.Error() {
		case "unknown funnel event type":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case "target not found":
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "event accepted",
	})
}

func (h *WidgetHandler) TrackProductView(c echo.Context) error {
	var req ProductViewRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product view", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	view := &domain.ProductView{
		StoreID:       req.StoreID,
		ProductID:     req.ProductID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}

	if err := h.popupService.TrackProductView(ctx, view); err != nil {
		logger.Error("Failed to track product view", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "view accepted",
	})
}
