package domain

import "time"

// CREATE TABLE public.merchants (
//     merchant_id  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id     BIGINT NOT NULL REFERENCES stores(store_id),
//     full_name    TEXT NOT NULL,
//     email        TEXT NOT NULL UNIQUE,
//     password     TEXT NOT NULL,
//     role         TEXT NOT NULL DEFAULT 'owner',
//     created_at   TIMESTAMPTZ DEFAULT NOW(),
//     updated_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Merchant struct {
	MerchantID uint64    `gorm:"primaryKey;column:merchant_id;autoIncrement" json:"merchant_id"`
	StoreID    uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	FullName   string    `gorm:"column:full_name;type:text;not null" json:"full_name"`
	Email      string    `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"column:password;type:text;not null" json:"password,omitempty"`
	Role       string    `gorm:"column:role;type:text;not null;default:owner" json:"role"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Merchant) TableName() string {
	return "merchants"
}
