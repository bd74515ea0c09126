package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/seopilot/seopilot-golang/internal/uploads"
)

const maxLogoSizeBytes = 5 << 20 // 5 MB

// UploadLogo handles POST /api/upload/logo.
// Gated like the rest of branding: only the agency tier has a logo to
// upload. The file is stored under a generated name; the original
// filename only contributes its extension.
func (h *Handlers) UploadLogo(c *gin.Context) {
	if _, ok := h.requireBranding(c); !ok {
		return
	}

	// 1. --- Get the file from the request ---
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > maxLogoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Logo must be 5 MB or smaller"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !uploads.AllowedExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	// 2. --- Create the logos directory if it doesn't exist ---
	logoDir := filepath.Join(h.uploadDir(), "logos")
	if err := os.MkdirAll(logoDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	// 3. --- Generate a safe unique filename (uuid + extension) ---
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savePath := filepath.Join(logoDir, newFilename)

	// 4. --- Save the file ---
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 5. --- Return the canonical serving path ---
	c.JSON(http.StatusOK, gin.H{
		"logoPath": uploads.APILogoPrefix + newFilename,
	})
}

// ServeLogo handles GET /api/upload/logo/:filename. The route is
// public because exported reports embed these URLs. The filename runs
// through the same
// validator the write path uses, so nothing outside the logos
// directory is ever reachable.
func (h *Handlers) ServeLogo(c *gin.Context) {
	filename, ok := uploads.LogoFilename(c.Param("filename"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	contentType, ok := uploads.ContentTypeForExt(filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	fullPath := filepath.Join(h.uploadDir(), "logos", filename)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Logo not found"})
		return
	}

	// Logos are immutable (uuid names), so a day of caching is safe.
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(fullPath)
}

func (h *Handlers) uploadDir() string {
	if h.UploadDir != "" {
		return h.UploadDir
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}
