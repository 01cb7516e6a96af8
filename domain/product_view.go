package domain

import "time"

// CREATE TABLE public.product_views (
//     view_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id     BIGINT NOT NULL,
//     product_id   TEXT NOT NULL,
//     customer_id  TEXT NOT NULL,
//     customer_name  TEXT,
//     customer_email TEXT,
//     viewed_at    TIMESTAMPTZ DEFAULT NOW()
// );

type ProductView struct {
	ViewID        uint64    `gorm:"primaryKey;column:view_id;autoIncrement" json:"view_id"`
	StoreID       uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	ProductID     string    `gorm:"column:product_id;type:text;not null;index" json:"product_id"`
	CustomerID    string    `gorm:"column:customer_id;type:text;not null" json:"customer_id"`
	CustomerName  string    `gorm:"column:customer_name;type:text" json:"customer_name,omitempty"`
	CustomerEmail string    `gorm:"column:customer_email;type:text" json:"customer_email,omitempty"`
	ViewedAt      time.Time `gorm:"column:viewed_at" json:"viewed_at"`
}

func (ProductView) TableName() string {
	return "product_views"
}
