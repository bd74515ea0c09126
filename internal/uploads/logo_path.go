// Package uploads validates and canonicalizes uploaded-logo references.
//
// The same validator runs on both sides of the store: when a brand
// settings write normalizes what gets persisted, and when the serving
// endpoint decides what may be read from disk. Keeping one allow-list
// guarantees the two can never drift apart.
package uploads

import (
	"path"
	"regexp"
	"strings"
)

// APILogoPrefix is the canonical serving path every stored logo
// reference is normalized to.
const APILogoPrefix = "/api/upload/logo/"

// Filenames are a single path segment of safe characters. Anything
// else (separators, control characters, URL syntax) is rejected.
var logoFilenameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Extensions the logo endpoints will store and serve.
var logoContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// LogoFilename extracts and validates the filename from a logo
// reference. Accepted shapes: a bare filename, the canonical
// /api/upload/logo/<file> path, or a relative uploads/logos/<file>
// path (leading slash tolerated). Everything else (external URLs,
// traversal attempts, extra path segments) yields ok=false.
func LogoFilename(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	// Traversal is rejected outright, wherever it appears.
	if strings.Contains(raw, "..") || strings.Contains(raw, "\\") {
		return "", false
	}

	name := raw
	switch {
	case strings.HasPrefix(name, APILogoPrefix):
		name = strings.TrimPrefix(name, APILogoPrefix)
	case strings.HasPrefix(name, "/uploads/logos/"):
		name = strings.TrimPrefix(name, "/uploads/logos/")
	case strings.HasPrefix(name, "uploads/logos/"):
		name = strings.TrimPrefix(name, "uploads/logos/")
	}

	// Whatever is left must be a single segment: no scheme, no slashes.
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, ":") {
		return "", false
	}
	if !logoFilenameRE.MatchString(name) {
		return "", false
	}
	return name, true
}

// ToAPILogoPath normalizes a logo reference to its canonical serving
// path, or returns "" for anything invalid. Feeding its own output back
// in returns the same path.
func ToAPILogoPath(raw string) string {
	name, ok := LogoFilename(raw)
	if !ok {
		return ""
	}
	return APILogoPrefix + name
}

// ContentTypeForExt returns the content type for a validated logo
// filename, or ok=false when the extension is not served.
func ContentTypeForExt(filename string) (string, bool) {
	ct, ok := logoContentTypes[strings.ToLower(path.Ext(filename))]
	return ct, ok
}

// AllowedExt reports whether an extension (".png", ".svg", ...) is one
// the logo endpoints accept.
func AllowedExt(ext string) bool {
	_, ok := logoContentTypes[strings.ToLower(ext)]
	return ok
}
