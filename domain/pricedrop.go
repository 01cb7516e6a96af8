package domain

import "time"

const (
	DiscountTypePrice  = "price"
	DiscountTypeCoupon = "coupon"

	CampaignStatusActive = "active"
	CampaignStatusPaused = "paused"
	CampaignStatusEnded  = "ended"

	TargetStatusPending  = "pending"
	TargetStatusNotified = "notified"

	FunnelImpression = "impression"
	FunnelClick      = "click"
	FunnelClose      = "close"

	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusFailed  = "failed"
)

var ValidFunnelEventTypes = map[string]bool{
	FunnelImpression: true,
	FunnelClick:      true,
	FunnelClose:      true,
}

// CREATE TABLE public.price_drop_campaigns (
//     campaign_id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id          BIGINT NOT NULL REFERENCES stores(store_id),
//     product_id        TEXT NOT NULL, -- Salla product id
//     product_name      TEXT NOT NULL,
//     discount_type     TEXT NOT NULL, -- price | coupon, immutable after create
//     original_price    NUMERIC NOT NULL,
//     new_price         NUMERIC,
//     discount_percent  INT NOT NULL DEFAULT 0,
//     coupon_code       TEXT,
//     salla_coupon_id   TEXT,
//     channel_onsite    BOOLEAN DEFAULT TRUE,
//     channel_email     BOOLEAN DEFAULT FALSE,
//     channel_whatsapp  BOOLEAN DEFAULT FALSE,
//     starts_at         TIMESTAMPTZ NOT NULL,
//     ends_at           TIMESTAMPTZ NOT NULL,
//     status            TEXT NOT NULL DEFAULT 'active',
//     salla_sync_status TEXT NOT NULL DEFAULT 'pending',
//     salla_synced_at   TIMESTAMPTZ,
//     created_at        TIMESTAMPTZ DEFAULT NOW(),
//     updated_at        TIMESTAMPTZ DEFAULT NOW()
// );

type PriceDropCampaign struct {
	CampaignID      uint64     `gorm:"primaryKey;column:campaign_id;autoIncrement" json:"campaign_id"`
	StoreID         uint64     `gorm:"column:store_id;not null;index" json:"store_id"`
	ProductID       string     `gorm:"column:product_id;type:text;not null" json:"product_id"`
	ProductName     string     `gorm:"column:product_name;type:text;not null" json:"product_name"`
	DiscountType    string     `gorm:"column:discount_type;type:text;not null" json:"discount_type"`
	OriginalPrice   float64    `gorm:"column:original_price;not null" json:"original_price"`
	NewPrice        float64    `gorm:"column:new_price" json:"new_price"`
	DiscountPercent int        `gorm:"column:discount_percent;not null;default:0" json:"discount_percent"`
	CouponCode      string     `gorm:"column:coupon_code;type:text" json:"coupon_code,omitempty"`
	SallaCouponID   string     `gorm:"column:salla_coupon_id;type:text" json:"salla_coupon_id,omitempty"`
	ChannelOnsite   bool       `gorm:"column:channel_onsite;default:true" json:"channel_onsite"`
	ChannelEmail    bool       `gorm:"column:channel_email;default:false" json:"channel_email"`
	ChannelWhatsapp bool       `gorm:"column:channel_whatsapp;default:false" json:"channel_whatsapp"`
	StartsAt        time.Time  `gorm:"column:starts_at;not null" json:"starts_at"`
	EndsAt          time.Time  `gorm:"column:ends_at;not null" json:"ends_at"`
	Status          string     `gorm:"column:status;type:text;not null;default:active" json:"status"`
	SallaSyncStatus string     `gorm:"column:salla_sync_status;type:text;not null;default:pending" json:"salla_sync_status"`
	SallaSyncedAt   *time.Time `gorm:"column:salla_synced_at" json:"salla_synced_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (PriceDropCampaign) TableName() string {
	return "price_drop_campaigns"
}

// One (campaign x customer) pairing, deduped on (campaign_id, customer_id).

type PriceDropTarget struct {
	TargetID      uint64     `gorm:"primaryKey;column:target_id;autoIncrement" json:"target_id"`
	CampaignID    uint64     `gorm:"column:campaign_id;not null;uniqueIndex:idx_campaign_customer" json:"campaign_id"`
	StoreID       uint64     `gorm:"column:store_id;not null;index" json:"store_id"`
	CustomerID    string     `gorm:"column:customer_id;type:text;not null;uniqueIndex:idx_campaign_customer" json:"customer_id"`
	CustomerName  string     `gorm:"column:customer_name;type:text" json:"customer_name,omitempty"`
	CustomerEmail string     `gorm:"column:customer_email;type:text" json:"customer_email,omitempty"`
	Status        string     `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	OnsiteSeenAt  *time.Time `gorm:"column:onsite_seen_at" json:"onsite_seen_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (PriceDropTarget) TableName() string {
	return "price_drop_targets"
}

type PriceDropFunnelEvent struct {
	EventID    uint64    `gorm:"primaryKey;column:event_id;autoIncrement" json:"event_id"`
	TargetID   uint64    `gorm:"column:target_id;not null;index" json:"target_id"`
	CampaignID uint64    `gorm:"column:campaign_id;not null;index" json:"campaign_id"`
	EventType  string    `gorm:"column:event_type;type:text;not null" json:"event_type"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PriceDropFunnelEvent) TableName() string {
	return "price_drop_funnel_events"
}

type FunnelTotals struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Closes      int64 `json:"closes"`
	Targets     int64 `json:"targets"`
	Notified    int64 `json:"notified"`
}
