package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"github.com/seopilot/seopilot-golang/internal/models"
)

// GetMySites is the handler for GET /api/indexing/sites.
func (h *Handlers) GetMySites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	query := `
		SELECT id, user_id, domain, gsc_property, auto_index_google, auto_index_bing, created_at, updated_at
		FROM sites WHERE user_id = ? ORDER BY domain ASC`
	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(
			&site.ID,
			&site.UserID,
			&site.Domain,
			&site.GSCProperty,
			&site.AutoIndexGoogle,
			&site.AutoIndexBing,
			&site.CreatedAt,
			&site.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan site row"})
			return
		}
		sites = append(sites, &site)
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// AutoIndexInput is the JSON body for the auto-index toggle. Pointers:
// an absent flag means "leave it alone".
type AutoIndexInput struct {
	Google *bool `json:"google"`
	Bing   *bool `json:"bing"`
}

// UpdateAutoIndex is the handler for
// PATCH /api/indexing/sites/:siteId/auto-index.
//
// Turning a flag ON needs the plan's auto-indexing capability; turning
// one OFF is always allowed, so a downgrade never strands a site in an
// un-toggleable state.
func (h *Handlers) UpdateAutoIndex(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	// 1. --- Bind Input ---
	var input AutoIndexInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Google == nil && input.Bing == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide at least one of google, bing"})
		return
	}

	// 2. --- Load the Site (owned by the caller) ---
	var site models.Site
	query := "SELECT id, auto_index_google, auto_index_bing FROM sites WHERE id = ? AND user_id = ?"
	err := h.DB.QueryRow(query, c.Param("siteId"), userID).Scan(&site.ID, &site.AutoIndexGoogle, &site.AutoIndexBing)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// 3. --- Enforce the Plan Gate for Enabling ---
	turningOn := (input.Google != nil && *input.Google) || (input.Bing != nil && *input.Bing)
	if turningOn {
		// No plan row means no auto-indexing.
		var autoIndexing bool
		gate := `
			SELECT COALESCE(p.auto_indexing, false)
			FROM users u LEFT JOIN plans p ON u.plan_id = p.id
			WHERE u.id = ?`
		if err := h.DB.QueryRow(gate, userID).Scan(&autoIndexing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
			return
		}
		if !autoIndexing {
			c.JSON(http.StatusForbidden, gin.H{"error": "Auto-indexing is not included in your plan"})
			return
		}
	}

	// 4. --- Apply the Toggles ---
	if input.Google != nil {
		site.AutoIndexGoogle = *input.Google
	}
	if input.Bing != nil {
		site.AutoIndexBing = *input.Bing
	}

	update := "UPDATE sites SET auto_index_google = ?, auto_index_bing = ?, updated_at = NOW() WHERE id = ?"
	if _, err := h.DB.Exec(update, site.AutoIndexGoogle, site.AutoIndexBing, site.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"autoIndexGoogle": site.AutoIndexGoogle,
		"autoIndexBing":   site.AutoIndexBing,
	})
}

// GetMyAudits is the handler for GET /api/audits. Payloads are left
// out of the listing; they can be megabytes per audit.
func (h *Handlers) GetMyAudits(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	query := `
		SELECT id, user_id, url, fast_api_id, language, score, created_at
		FROM audits WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var audits []*models.Audit
	for rows.Next() {
		var audit models.Audit
		if err := rows.Scan(
			&audit.ID,
			&audit.UserID,
			&audit.URL,
			&audit.FastAPIID,
			&audit.Language,
			&audit.Score,
			&audit.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan audit row"})
			return
		}
		audits = append(audits, &audit)
	}

	c.JSON(http.StatusOK, gin.H{"audits": audits})
}
