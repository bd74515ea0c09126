package models

import "time"

// Account defines the model for the 'accounts' table (OAuth links).
// Disconnecting clears the token fields but keeps the row, so the user
// can re-login to the same provider without re-creating the link.
type Account struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"userId" db:"user_id"`
	Provider string `json:"provider" db:"provider"`

	AccessToken  *string    `json:"-" db:"access_token"`
	RefreshToken *string    `json:"-" db:"refresh_token"`
	TokenExpiry  *time.Time `json:"-" db:"token_expiry"`
	Scope        *string    `json:"scope,omitempty" db:"scope"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
