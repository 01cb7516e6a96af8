package domain

import "time"

// CREATE TABLE public.stores (
//     store_id            BIGINT PRIMARY KEY, -- Salla store id
//     store_name          TEXT NOT NULL,
//     domain              TEXT NOT NULL,
//     salla_access_token  TEXT NOT NULL,
//     widget_secret       TEXT NOT NULL,
//     is_active           BOOLEAN DEFAULT TRUE,
//     created_at          TIMESTAMPTZ DEFAULT NOW(),
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

type Store struct {
	StoreID          uint64    `gorm:"primaryKey;column:store_id" json:"store_id"`
	StoreName        string    `gorm:"column:store_name;type:text;not null" json:"store_name"`
	Domain           string    `gorm:"column:domain;type:text;not null" json:"domain"`
	SallaAccessToken string    `gorm:"column:salla_access_token;type:text;not null" json:"-"`
	WidgetSecret     string    `gorm:"column:widget_secret;type:text;not null" json:"-"`
	IsActive         bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
