package salla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"darbFilters/domain"
)

type SallaConfig struct {
	SallaApiBaseUrl string
}

// SallaRepository talks to the Salla admin API. The bearer token is
// per-store, so every call takes it as an argument instead of holding one.
type SallaRepository struct {
	sallaConfig SallaConfig
	client      *http.Client
}

func NewSallaRepository(cfg SallaConfig) *SallaRepository {
	return &SallaRepository{
		sallaConfig: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (r *SallaRepository) do(ctx context.Context, method, path, accessToken string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal salla payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.sallaConfig.SallaApiBaseUrl+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build salla request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("salla request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read salla response: %w", err)
	}

	if res.StatusCode >= 400 {
		var apiErr domain.SallaAPIError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Msg != "" {
			return nil, fmt.Errorf("salla api error %d: %s", res.StatusCode, apiErr.Msg)
		}
		return nil, fmt.Errorf("salla api error %d", res.StatusCode)
	}

	return raw, nil
}

// UpdateProductPrice pushes a sale price for one product through Salla's
// bulk price endpoint.
func (r *SallaRepository) UpdateProductPrice(ctx context.Context, accessToken, productID string, regularPrice, salePrice float64, saleEndsAt time.Time) error {
	payload := domain.SallaPriceUpdateRequest{
		Products: []domain.SallaProductPrice{
			{
				ID:        productID,
				Price:     regularPrice,
				SalePrice: salePrice,
				SaleEnd:   saleEndsAt.Format("2006-01-02"),
			},
		},
	}

	_, err := r.do(ctx, http.MethodPost, "/products/prices/bulk", accessToken, payload)
	if err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}

	return nil
}

// CreateCoupon registers a percentage coupon and returns Salla's coupon id.
func (r *SallaRepository) CreateCoupon(ctx context.Context, accessToken, code string, percent int, expiresAt time.Time) (string, error) {
	payload := domain.SallaCouponRequest{
		Code:       code,
		Type:       "percentage",
		Amount:     percent,
		ExpiryDate: expiresAt.Format("2006-01-02"),
	}

	raw, err := r.do(ctx, http.MethodPost, "/coupons", accessToken, payload)
	if err != nil {
		return "", fmt.Errorf("failed to create coupon: %w", err)
	}

	var res domain.SallaCouponResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("failed to unmarshal coupon response: %w", err)
	}

	return fmt.Sprintf("%d", res.Data.ID), nil
}

// UpdateCoupon rewrites an existing coupon's code, percent and expiry.
func (r *SallaRepository) UpdateCoupon(ctx context.Context, accessToken, couponID, code string, percent int, expiresAt time.Time) error {
	payload := domain.SallaCouponRequest{
		Code:       code,
		Type:       "percentage",
		Amount:     percent,
		ExpiryDate: expiresAt.Format("2006-01-02"),
	}

	_, err := r.do(ctx, http.MethodPut, "/coupons/"+couponID, accessToken, payload)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	return nil
}
