package models

import "time"

// Plan defines the model for the 'plans' table.
// Rows are seeded reference data; 'id' is one of the fixed identifiers
// known to the plans package ("free", "starter", "pro", "agency").
type Plan struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	AuditsPerMonth  int       `json:"auditsPerMonth" db:"audits_per_month"`
	MaxPages        int       `json:"maxPages" db:"max_pages"`
	MaxSites        int       `json:"maxSites" db:"max_sites"`
	WhiteLabel      bool      `json:"whiteLabel" db:"white_label"`
	Price           float64   `json:"price" db:"price"`
	AutoIndexing    bool      `json:"autoIndexing" db:"auto_indexing"`
	ReportFrequency string    `json:"reportFrequency" db:"report_frequency"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
