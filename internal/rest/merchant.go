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

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type MerchantService interface {
	Register(ctx context.Context, merchant *domain.Merchant) (domain.Merchant, error)
	Login(ctx context.Context, email, password string) (string, domain.Merchant, error)
	GetMerchantByID(ctx context.Context, id uint64) (domain.Merchant, error)
}

type MerchantHandler struct {
	merchantService MerchantService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewMerchantHandler(merchantService MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type RegisterMerchantRequest struct {
	StoreID  uint64 `json:"store_id" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginMerchantRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *MerchantHandler) Register(c echo.Context) error {
	var req RegisterMerchantRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate merchant request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	merchant := &domain.Merchant{
		StoreID:  req.StoreID,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}

	newMerchant, err := h.merchantService.Register(ctx, merchant)
	if err != nil {
		logger.Error("Failed to register merchant", err)
		switch err.Error() {
		case "email already exists":
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case "invalid email format", "password must be at least 6 characters", "store not found":
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "merchant successfully registered",
		"merchant": newMerchant,
	})
}

func (h *MerchantHandler) Login(c echo.Context) error {
	var req LoginMerchantRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate login request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, merchant, err := h.merchantService.Login(ctx, req.Email, req.Password)
	if err != nil {
		logger.Error("Failed to login merchant", err)
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid email or password"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully logged in",
		"token":    token,
		"merchant": merchant,
	})
}

func (h *MerchantHandler) GetProfile(c echo.Context) error {
	merchantIDStr, ok := c.Get("merchant_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	merchantID, err := strconv.ParseUint(merchantIDStr, 10, 64)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	merchant, err := h.merchantService.GetMerchantByID(ctx, merchantID)
	if err != nil {
		logger.Error("Failed to get merchant profile", err)
		if err.Error() == "merchant not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get profile",
		"merchant": merchant,
	})
}
