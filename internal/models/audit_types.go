package models

import "time"

// Audit defines the model for the 'audits' table.
type Audit struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"userId" db:"user_id"`
	URL    string `json:"url" db:"url"`

	// FastAPIID is the audit's reference id inside the external
	// report/analyzer service. The live audit over there is eventually
	// evicted; after that, ResultJSON is the only source a report can
	// be regenerated from.
	FastAPIID  string  `json:"fastApiId" db:"fast_api_id"`
	ResultJSON *string `json:"-" db:"result_json"`

	// Language the audit was generated in ("en", "de", ...). Used as the
	// default export language when the caller passes no override.
	Language string `json:"language" db:"language"`

	Score     *int      `json:"score,omitempty" db:"score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
