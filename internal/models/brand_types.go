package models

import "time"

// BrandSettings defines the model for the 'brand_settings' table.
// One row per user, created lazily on the first PUT. The row is only
// readable/writable while the owner's plan grants branding; that rule
// lives in the handlers, not in the schema.
type BrandSettings struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"userId" db:"user_id"`

	// All customization fields are optional (pointers = clean JSON).
	// LogoPath is always stored in the canonical /api/upload/logo/<file> form.
	CompanyName  *string `json:"companyName,omitempty" db:"company_name"`
	LogoPath     *string `json:"logoPath,omitempty" db:"logo_path"`
	PrimaryColor *string `json:"primaryColor,omitempty" db:"primary_color"`
	AccentColor  *string `json:"accentColor,omitempty" db:"accent_color"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
