package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"darbFilters/business/analytics"
	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	StoreSummary(ctx context.Context, storeID uint64, from, to time.Time) (*analytics.StoreSummary, error)
	RecentEvents(ctx context.Context, storeID uint64, limit, offset int) ([]domain.WidgetEvent, int64, error)
	GlobalSummary(ctx context.Context, from, to time.Time) (*analytics.GlobalSummary, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          15 * time.Second,
	}
}

func (h *AnalyticsHandler) GetStoreSummary(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	from, to, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.analyticsService.StoreSummary(ctx, storeID, from, to)
	if err != nil {
		logger.Error("Failed to get store summary", err)
		if err.Error() == "to must be after from" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

func (h *AnalyticsHandler) GetRecentEvents(c echo.Context) error {
	storeID, err := storeIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	events, total, err := h.analyticsService.RecentEvents(ctx, storeID, limit, offset)
	if err != nil {
		logger.Error("Failed to get recent events", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get events",
		"events":  events,
		"total":   total,
	})
}

// GetGlobalSummary is the cross-store admin screen.
func (h *AnalyticsHandler) GetGlobalSummary(c echo.Context) error {
	from, to, err := parseRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.analyticsService.GlobalSummary(ctx, from, to)
	if err != nil {
		logger.Error("Failed to get global summary", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// parseRange reads optional RFC 3339 from/to query params. Zero values let
// the service apply its default window.
func parseRange(c echo.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return from, to, nil
}
