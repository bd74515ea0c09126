package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// googleRevokeURL is where access/refresh tokens are invalidated.
const googleRevokeURL = "https://oauth2.googleapis.com/revoke"

// Revocation is best-effort and must never stall the disconnect, so
// the call gets a short deadline of its own.
var revokeClient = &http.Client{Timeout: 10 * time.Second}

// NewGSCOAuthConfig builds the OAuth config for the Google Search
// Console connection from the environment.
func NewGSCOAuthConfig() *oauth2.Config {
	redirect := os.Getenv("GSC_REDIRECT_URL")
	if redirect == "" {
		redirect = PublicBaseURL() + "/api/indexing/gsc/callback"
	}
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirect,
		Scopes:       []string{"https://www.googleapis.com/auth/webmasters.readonly"},
		Endpoint:     google.Endpoint,
	}
}

// ConnectGSC is the handler for GET /api/indexing/gsc/connect.
// It hands the dashboard the consent URL to redirect the browser to.
func (h *Handlers) ConnectGSC(c *gin.Context) {
	if _, ok := middleware.UserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if h.GSCOAuth == nil || h.GSCOAuth.ClientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google OAuth is not configured"})
		return
	}

	// offline access so we receive a refresh token.
	authURL := h.GSCOAuth.AuthCodeURL("gsc", oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"authUrl": authURL})
}

// GSCCallback is the handler for GET /api/indexing/gsc/callback.
// Exchanges the authorization code and stores the tokens on the
// user's provider link (creating it on first connect).
func (h *Handlers) GSCCallback(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := h.GSCOAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	scope := strings.Join(h.GSCOAuth.Scopes, " ")
	query := `
		INSERT INTO accounts
		(user_id, provider, access_token, refresh_token, token_expiry, scope, created_at, updated_at)
		VALUES (?, 'google', ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		access_token = VALUES(access_token),
		refresh_token = VALUES(refresh_token),
		token_expiry = VALUES(token_expiry),
		scope = VALUES(scope),
		updated_at = NOW()`
	if _, err := h.DB.Exec(query, userID, token.AccessToken, token.RefreshToken, token.Expiry, scope); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store tokens"})
		return
	}

	if _, err := h.DB.Exec("UPDATE users SET gsc_connected = true, updated_at = NOW() WHERE id = ?", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update connection flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// DisconnectGSC is the handler for
// DELETE /api/indexing/gsc/disconnect?deleteData=true|false.
//
// Token revocation at Google is best-effort: a failed revocation is
// logged and never fails the disconnect. The local cleanup is one
// transaction: tokens nulled (the accounts row survives so the user
// can re-connect later), connection flag cleared, and unless
// deleteData=false, the user's indexed URLs and sites purged. Either
// all of that lands or none of it.
func (h *Handlers) DisconnectGSC(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	// deleteData defaults to true; only an explicit "false" keeps data.
	deleteData := c.DefaultQuery("deleteData", "true") != "false"

	// 1. --- Best-Effort Token Revocation ---
	var accessToken sql.NullString
	err := h.DB.QueryRow("SELECT access_token FROM accounts WHERE user_id = ? AND provider = 'google'", userID).Scan(&accessToken)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if accessToken.Valid && accessToken.String != "" {
		h.revokeGoogleToken(accessToken.String)
	}

	// 2. --- Atomic Local Cleanup ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	clearTokens := `
		UPDATE accounts
		SET access_token = NULL, refresh_token = NULL, token_expiry = NULL, scope = NULL, updated_at = NOW()
		WHERE user_id = ? AND provider = 'google'`
	if _, err := tx.Exec(clearTokens, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear tokens"})
		return
	}

	if _, err := tx.Exec("UPDATE users SET gsc_connected = false, updated_at = NOW() WHERE id = ?", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear connection flag"})
		return
	}

	if deleteData {
		// indexed_urls hang off sites, so they go first.
		if _, err := tx.Exec("DELETE FROM indexed_urls WHERE site_id IN (SELECT id FROM sites WHERE user_id = ?)", userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete indexing data"})
			return
		}
		if _, err := tx.Exec("DELETE FROM sites WHERE user_id = ?", userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sites"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"disconnected": true,
		"dataDeleted":  deleteData,
	})
}

// revokeGoogleToken invalidates the token at the provider. Errors are
// logged only; the outer disconnect must not depend on Google being up.
func (h *Handlers) revokeGoogleToken(token string) {
	revokeURL := h.RevokeURL
	if revokeURL == "" {
		revokeURL = googleRevokeURL
	}

	resp, err := revokeClient.PostForm(revokeURL, url.Values{"token": {token}})
	if err != nil {
		log.Printf("GSC disconnect: token revocation failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("GSC disconnect: token revocation returned status %d", resp.StatusCode)
	}
}
