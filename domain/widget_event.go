package domain

import "time"

const (
	EventBrandSelect   = "brand_select"
	EventModelSelect   = "model_select"
	EventYearSelect    = "year_select"
	EventSectionSelect = "section_select"
	EventKeywordClick  = "keyword_click"
	EventSearchSubmit  = "search_submit"
)

var ValidEventTypes = map[string]bool{
	EventBrandSelect:   true,
	EventModelSelect:   true,
	EventYearSelect:    true,
	EventSectionSelect: true,
	EventKeywordClick:  true,
	EventSearchSubmit:  true,
}

// CREATE TABLE public.widget_events (
//     event_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     store_id     BIGINT NOT NULL,
//     session_key  TEXT NOT NULL,
//     event_type   TEXT NOT NULL,
//     brand_id     BIGINT,
//     model_id     BIGINT,
//     year_id      BIGINT,
//     section_id   BIGINT,
//     keyword_ids  TEXT, -- JSON array
//     meta         TEXT, -- JSON object
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type WidgetEvent struct {
	EventID    uint64    `gorm:"primaryKey;column:event_id;autoIncrement" json:"event_id"`
	StoreID    uint64    `gorm:"column:store_id;not null;index" json:"store_id"`
	SessionKey string    `gorm:"column:session_key;type:text;not null" json:"session_key"`
	EventType  string    `gorm:"column:event_type;type:text;not null" json:"event_type"`
	BrandID    *uint64   `gorm:"column:brand_id" json:"brand_id,omitempty"`
	ModelID    *uint64   `gorm:"column:model_id" json:"model_id,omitempty"`
	YearID     *uint64   `gorm:"column:year_id" json:"year_id,omitempty"`
	SectionID  *uint64   `gorm:"column:section_id" json:"section_id,omitempty"`
	KeywordIDs string    `gorm:"column:keyword_ids;type:text" json:"keyword_ids,omitempty"`
	Meta       string    `gorm:"column:meta;type:text" json:"meta,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (WidgetEvent) TableName() string {
	return "widget_events"
}

// Aggregates for the dashboard analytics screens.

type EventTypeCount struct {
	EventType string `json:"event_type"`
	Total     int64  `json:"total"`
}

type DailyEventCount struct {
	Day   time.Time `json:"day"`
	Total int64     `json:"total"`
}

type BrandEventCount struct {
	BrandID uint64 `json:"brand_id"`
	Name    string `json:"name"`
	Total   int64  `json:"total"`
}

type ModelEventCount struct {
	ModelID uint64 `json:"model_id"`
	Name    string `json:"name"`
	Total   int64  `json:"total"`
}
