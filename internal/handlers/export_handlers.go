package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"github.com/seopilot/seopilot-golang/internal/models"
	"github.com/seopilot/seopilot-golang/internal/plans"
	"github.com/seopilot/seopilot-golang/internal/reports"
	"github.com/seopilot/seopilot-golang/internal/uploads"
)

// ExportAudit is the handler for GET /api/audit/:id/export?format=&lang=.
//
// The flow is a two-step pipeline, not a retry loop: proxy the export
// against the live audit first; if the report service has evicted it
// (404) and we still hold the cached result payload, regenerate from
// that with the exact same parameters. Everything else propagates.
func (h *Handlers) ExportAudit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	// 1. --- Validate the Requested Format ---
	format := c.DefaultQuery("format", plans.FormatPDF)
	if !plans.IsKnownFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format: must be pdf, html or docx"})
		return
	}

	// 2. --- Resolve Plan Capabilities ---
	caps, _, err := h.userCapabilities(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if !caps.AllowsFormat(format) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("Your plan allows %s export only. Upgrade to Agency for HTML and DOCX reports.",
				strings.ToUpper(strings.Join(caps.AllowedExportFormats, "/"))),
		})
		return
	}

	// 3. --- Load the Audit (owned by the caller) ---
	// Absent and not-owned look identical on purpose.
	var audit models.Audit
	query := "SELECT id, user_id, url, fast_api_id, result_json, language FROM audits WHERE id = ? AND user_id = ?"
	err = h.DB.QueryRow(query, c.Param("id"), userID).Scan(
		&audit.ID,
		&audit.UserID,
		&audit.URL,
		&audit.FastAPIID,
		&audit.ResultJSON,
		&audit.Language,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Audit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	lang := c.Query("lang")
	if lang == "" {
		lang = audit.Language
	}

	// 4. --- Resolve Branding (agency only) ---
	params := reports.ExportParams{
		FastAPIID: audit.FastAPIID,
		Format:    format,
		Lang:      lang,
		Watermark: caps.ShowWatermark,
	}
	if caps.CanUseBranding {
		brand, err := h.resolveBranding(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
			return
		}
		params.Brand = brand
	}

	// 5. --- Try the Proxy, Fall Back to Regeneration ---
	artifact, err := h.Reports.Export(c.Request.Context(), params)
	if errors.Is(err, reports.ErrNotFound) && audit.ResultJSON != nil && *audit.ResultJSON != "" {
		artifact, err = h.Reports.Regenerate(c.Request.Context(), params, json.RawMessage(*audit.ResultJSON))
	}
	if err != nil {
		var ue *reports.UpstreamError
		switch {
		case errors.Is(err, reports.ErrNotFound):
			// Evicted upstream and nothing cached to rebuild from.
			c.JSON(http.StatusNotFound, gin.H{"error": "Report is no longer available"})
		case errors.As(err, &ue):
			c.JSON(ue.StatusCode, gin.H{"error": "Report service failed"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Report service is unreachable"})
		}
		return
	}
	defer artifact.Body.Close()

	// 6. --- Stream the Artifact Back ---
	// Upstream headers pass through verbatim; only a missing
	// disposition gets a generated filename.
	disposition := artifact.ContentDisposition
	if disposition == "" {
		disposition = fmt.Sprintf(`attachment; filename="%s-report.%s"`, slug.Make(audit.URL), format)
	}
	c.DataFromReader(http.StatusOK, artifact.ContentLength, artifact.ContentType, artifact.Body, map[string]string{
		"Content-Disposition": disposition,
	})
}

// resolveBranding loads the caller's brand settings for the report
// renderer. No row just means unbranded. The stored logo path is
// re-validated on the way out and expanded to an absolute URL so the
// report service can fetch it.
func (h *Handlers) resolveBranding(userID int64) (*reports.Branding, error) {
	var companyName, logoPath, primaryColor, accentColor sql.NullString
	query := "SELECT company_name, logo_path, primary_color, accent_color FROM brand_settings WHERE user_id = ?"
	err := h.DB.QueryRow(query, userID).Scan(&companyName, &logoPath, &primaryColor, &accentColor)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	brand := &reports.Branding{
		CompanyName:  companyName.String,
		PrimaryColor: primaryColor.String,
		AccentColor:  accentColor.String,
	}
	if logoPath.Valid {
		if apiPath := uploads.ToAPILogoPath(logoPath.String); apiPath != "" {
			brand.LogoURL = h.baseURL() + apiPath
		}
	}
	return brand, nil
}

func (h *Handlers) baseURL() string {
	if h.BaseURL != "" {
		return h.BaseURL
	}
	return PublicBaseURL()
}
