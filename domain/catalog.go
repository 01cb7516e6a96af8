package domain

import "time"

// Catalog hierarchy driving the storefront filter widget: a brand owns
// models, a model owns years, sections are an independent list, and a
// keyword is only meaningful for one (model, section) pair. Every row
// keeps the Salla category id used to build the outbound category URL.

// CREATE TABLE public.brands (
//     brand_id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id            BIGINT NOT NULL REFERENCES stores(store_id),
//     name                TEXT NOT NULL,
//     salla_category_id   BIGINT NOT NULL,
//     sort_order          INT DEFAULT 0,
//     created_at          TIMESTAMPTZ DEFAULT NOW()
// );

type Brand struct {
	BrandID         uint64    `gorm:"primaryKey;column:brand_id;autoIncrement" json:"id"`
	StoreID         uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	Name            string    `gorm:"column:name;type:text;not null" json:"name"`
	SallaCategoryID uint64    `gorm:"column:salla_category_id;not null" json:"salla_category_id"`
	SortOrder       int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Brand) TableName() string {
	return "brands"
}

type CarModel struct {
	ModelID         uint64    `gorm:"primaryKey;column:model_id;autoIncrement" json:"id"`
	StoreID         uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	BrandID         uint64    `gorm:"column:brand_id;not null;index" json:"brand_id"`
	Name            string    `gorm:"column:name;type:text;not null" json:"name"`
	SallaCategoryID uint64    `gorm:"column:salla_category_id;not null" json:"salla_category_id"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (CarModel) TableName() string {
	return "car_models"
}

type ModelYear struct {
	YearID          uint64    `gorm:"primaryKey;column:year_id;autoIncrement" json:"id"`
	StoreID         uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	ModelID         uint64    `gorm:"column:model_id;not null;index" json:"model_id"`
	Label           string    `gorm:"column:label;type:text;not null" json:"label"`
	SallaCategoryID uint64    `gorm:"column:salla_category_id;not null" json:"salla_category_id"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ModelYear) TableName() string {
	return "model_years"
}

type Section struct {
	SectionID       uint64    `gorm:"primaryKey;column:section_id;autoIncrement" json:"id"`
	StoreID         uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	Name            string    `gorm:"column:name;type:text;not null" json:"name"`
	SallaCategoryID uint64    `gorm:"column:salla_category_id;not null" json:"salla_category_id"`
	SortOrder       int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Section) TableName() string {
	return "sections"
}

type Keyword struct {
	KeywordID       uint64    `gorm:"primaryKey;column:keyword_id;autoIncrement" json:"id"`
	StoreID         uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	ModelID         uint64    `gorm:"column:model_id;not null;index" json:"model_id"`
	SectionID       uint64    `gorm:"column:section_id;not null;index" json:"section_id"`
	Label           string    `gorm:"column:label;type:text;not null" json:"label"`
	SallaCategoryID uint64    `gorm:"column:salla_category_id;not null" json:"salla_category_id"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Keyword) TableName() string {
	return "keywords"
}
