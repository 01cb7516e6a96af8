package domain

import "time"

// CREATE TABLE public.filter_configs (
//     config_id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id            BIGINT NOT NULL UNIQUE REFERENCES stores(store_id),
//     primary_color       TEXT,
//     secondary_color     TEXT,
//     use_gradient        BOOLEAN DEFAULT FALSE,
//     gradient_from       TEXT,
//     gradient_to         TEXT,
//     button_style        TEXT,
//     button_text_color   TEXT,
//     hero_title          TEXT,
//     hero_subtitle       TEXT,
//     search_button_label TEXT,
//     created_at          TIMESTAMPTZ DEFAULT NOW(),
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

type FilterConfig struct {
	ConfigID          uint64    `gorm:"primaryKey;column:config_id;autoIncrement" json:"config_id"`
	StoreID           uint64    `gorm:"column:store_id;not null;uniqueIndex" json:"store_id"`
	PrimaryColor      string    `gorm:"column:primary_color;type:text" json:"primary_color"`
	SecondaryColor    string    `gorm:"column:secondary_color;type:text" json:"secondary_color"`
	UseGradient       bool      `gorm:"column:use_gradient;default:false" json:"use_gradient"`
	GradientFrom      string    `gorm:"column:gradient_from;type:text" json:"gradient_from"`
	GradientTo        string    `gorm:"column:gradient_to;type:text" json:"gradient_to"`
	ButtonStyle       string    `gorm:"column:button_style;type:text" json:"button_style"`
	ButtonTextColor   string    `gorm:"column:button_text_color;type:text" json:"button_text_color"`
	HeroTitle         string    `gorm:"column:hero_title;type:text" json:"hero_title"`
	HeroSubtitle      string    `gorm:"column:hero_subtitle;type:text" json:"hero_subtitle"`
	SearchButtonLabel string    `gorm:"column:search_button_label;type:text" json:"search_button_label"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (FilterConfig) TableName() string {
	return "filter_configs"
}

// DefaultFilterConfig is what the widget renders with before a store owner
// customizes anything.
func DefaultFilterConfig(storeID uint64) FilterConfig {
	return FilterConfig{
		StoreID:           storeID,
		PrimaryColor:      "#1a73e8",
		SecondaryColor:    "#ffffff",
		UseGradient:       false,
		ButtonStyle:       "rounded",
		ButtonTextColor:   "#ffffff",
		HeroTitle:         "ابحث عن قطع غيار سيارتك",
		HeroSubtitle:      "اختر الماركة والموديل والسنة",
		SearchButtonLabel: "بحث",
	}
}
