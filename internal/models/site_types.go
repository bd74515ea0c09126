package models

import "time"

// Site defines the model for the 'sites' table.
type Site struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"userId" db:"user_id"`
	Domain      string `json:"domain" db:"domain"`
	GSCProperty string `json:"gscProperty" db:"gsc_property"`

	// Per-engine auto-indexing toggles. Turning either one ON requires
	// the owner's plan to carry the autoIndexing capability.
	AutoIndexGoogle bool `json:"autoIndexGoogle" db:"auto_index_google"`
	AutoIndexBing   bool `json:"autoIndexBing" db:"auto_index_bing"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IndexedURL defines the model for the 'indexed_urls' table.
// Rows track individual URL submissions per site and engine; they are
// purged together with their site on a full GSC disconnect.
type IndexedURL struct {
	ID          int64     `json:"id" db:"id"`
	SiteID      int64     `json:"siteId" db:"site_id"`
	URL         string    `json:"url" db:"url"`
	Engine      string    `json:"engine" db:"engine"`
	Status      string    `json:"status" db:"status"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}
