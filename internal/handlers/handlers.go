package handlers

import (
	"database/sql"
	"os"

	"github.com/seopilot/seopilot-golang/internal/plans"
	"github.com/seopilot/seopilot-golang/internal/reports"
	"golang.org/x/oauth2"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB
	Reports *reports.Client

	// GSCOAuth drives the Google Search Console connect flow.
	GSCOAuth *oauth2.Config

	// RevokeURL is the provider's token revocation endpoint.
	// A field (not a constant) so tests can point it somewhere local.
	RevokeURL string

	// UploadDir is the root of uploaded files; logos live in UploadDir/logos.
	UploadDir string

	// BaseURL is this API's public base URL, used to turn stored logo
	// paths into absolute URLs the report service can fetch.
	BaseURL string
}

// PublicBaseURL resolves the API's externally reachable base URL.
func PublicBaseURL() string {
	if base := os.Getenv("BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:8080"
}

// userPlanID looks up the caller's current plan id. A user without a
// plan gets ("", nil) and falls through to the default capability set.
// sql.ErrNoRows is returned as-is so callers can 404 on a missing user.
func (h *Handlers) userPlanID(userID int64) (string, error) {
	var planID sql.NullString
	err := h.DB.QueryRow("SELECT plan_id FROM users WHERE id = ?", userID).Scan(&planID)
	if err != nil {
		return "", err
	}
	if !planID.Valid {
		return "", nil
	}
	return planID.String, nil
}

// userCapabilities resolves the caller's plan into its capability set.
func (h *Handlers) userCapabilities(userID int64) (plans.Capabilities, string, error) {
	planID, err := h.userPlanID(userID)
	if err != nil {
		return plans.Capabilities{}, "", err
	}
	return plans.ForPlan(planID), planID, nil
}
