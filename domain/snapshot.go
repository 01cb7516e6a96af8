package domain

import "time"

// Snapshot is the precomputed per-store blob the widget reads instead of
// hitting Postgres per dropdown. It is what GET /api/widget-data/:store_id
// returns and what the Redis cache stores.
type Snapshot struct {
	Brands      []Brand      `json:"brands"`
	Models      []CarModel   `json:"models"`
	Years       []ModelYear  `json:"years"`
	Sections    []Section    `json:"sections"`
	Keywords    []Keyword    `json:"keywords"`
	Config      FilterConfig `json:"config"`
	GeneratedAt time.Time    `json:"generated_at"`
}
