package handlers

import (
	"database/sql"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"github.com/seopilot/seopilot-golang/internal/models"
	"github.com/seopilot/seopilot-golang/internal/uploads"
)

const maxCompanyNameLen = 100

// requireBranding enforces the white-label gate: every read or write of
// brand settings needs the branding-capable plan, no matter whether a
// row exists yet. Returns the userID and false if the request was
// already answered.
func (h *Handlers) requireBranding(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, false
	}

	caps, _, err := h.userCapabilities(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return 0, false
	}
	if !caps.CanUseBranding {
		c.JSON(http.StatusForbidden, gin.H{"error": "White-label branding requires the Agency plan"})
		return 0, false
	}

	return userID, true
}

// GetBrandSettings is the handler for GET /api/brand-settings.
func (h *Handlers) GetBrandSettings(c *gin.Context) {
	userID, ok := h.requireBranding(c)
	if !ok {
		return
	}

	var settings models.BrandSettings
	query := `
		SELECT id, user_id, company_name, logo_path, primary_color, accent_color, created_at, updated_at
		FROM brand_settings WHERE user_id = ?`
	err := h.DB.QueryRow(query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&settings.CompanyName,
		&settings.LogoPath,
		&settings.PrimaryColor,
		&settings.AccentColor,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// The row is created lazily on first write; until then the
			// settings are simply empty.
			c.JSON(http.StatusOK, gin.H{"brandSettings": models.BrandSettings{UserID: userID}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"brandSettings": settings})
}

// UpdateBrandSettingsInput is the JSON body for PUT /api/brand-settings.
// companyName is a raw interface so a wrong-typed value fails loudly
// instead of being coerced.
type UpdateBrandSettingsInput struct {
	CompanyName  interface{} `json:"companyName"`
	LogoPath     *string     `json:"logoPath"`
	PrimaryColor *string     `json:"primaryColor"`
	AccentColor  *string     `json:"accentColor"`
}

// UpdateBrandSettings is the handler for PUT /api/brand-settings.
// Validation runs fully before the upsert: an invalid logo value fails
// the whole write, never a partial update.
func (h *Handlers) UpdateBrandSettings(c *gin.Context) {
	userID, ok := h.requireBranding(c)
	if !ok {
		return
	}

	// 1. --- Bind & Validate JSON ---
	var input UpdateBrandSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var companyName *string
	if input.CompanyName != nil {
		name, isString := input.CompanyName.(string)
		if !isString {
			c.JSON(http.StatusBadRequest, gin.H{"error": "companyName must be a string"})
			return
		}
		if utf8.RuneCountInString(name) > maxCompanyNameLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "companyName must be 100 characters or fewer"})
			return
		}
		companyName = &name
	}

	// 2. --- Normalize the Logo Path ---
	// Whatever shape the client sent, only the canonical serving path
	// is ever stored. An invalid value rejects the entire write.
	var logoPath *string
	if input.LogoPath != nil && *input.LogoPath != "" {
		normalized := uploads.ToAPILogoPath(*input.LogoPath)
		if normalized == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid logo path"})
			return
		}
		logoPath = &normalized
	}

	// 3. --- Upsert (row is created lazily on first write) ---
	query := `
		INSERT INTO brand_settings
		(user_id, company_name, logo_path, primary_color, accent_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		company_name = VALUES(company_name),
		logo_path = VALUES(logo_path),
		primary_color = VALUES(primary_color),
		accent_color = VALUES(accent_color),
		updated_at = NOW()`

	if _, err := h.DB.Exec(query, userID, companyName, logoPath, input.PrimaryColor, input.AccentColor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save brand settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brandSettings": gin.H{
			"companyName":  companyName,
			"logoPath":     logoPath,
			"primaryColor": input.PrimaryColor,
			"accentColor":  input.AccentColor,
		},
	})
}

// DeleteBrandLogo is the handler for DELETE /api/brand-settings/logo.
// It clears the stored reference only; the uploaded file stays on disk.
func (h *Handlers) DeleteBrandLogo(c *gin.Context) {
	userID, ok := h.requireBranding(c)
	if !ok {
		return
	}

	if _, err := h.DB.Exec("UPDATE brand_settings SET logo_path = NULL, updated_at = NOW() WHERE user_id = ?", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove logo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
