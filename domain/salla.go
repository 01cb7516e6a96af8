package domain

// Request/response shapes for the Salla admin API subset this service calls.

type SallaPriceUpdateRequest struct {
	Products []SallaProductPrice `json:"products"`
}

type SallaProductPrice struct {
	ID        string  `json:"id"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"sale_price"`
	SaleEnd   string  `json:"sale_end,omitempty"` // YYYY-MM-DD
}

type SallaCouponRequest struct {
	Code           string `json:"code"`
	Type           string `json:"type"` // percentage
	Amount         int    `json:"amount"`
	ExpiryDate     string `json:"expiry_date"` // YYYY-MM-DD
	FreeShipping   bool   `json:"free_shipping"`
	UsageLimit     int    `json:"usage_limit,omitempty"`
	IsGroupCoupons bool   `json:"is_group_coupons"`
}

type SallaCouponData struct {
	ID     uint64 `json:"id"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

type SallaCouponResponse struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Data    SallaCouponData `json:"data"`
}

type SallaAPIError struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Msg    string `json:"message"`
}
