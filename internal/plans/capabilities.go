// Package plans maps plan identifiers to the capabilities they unlock.
//
// The mapping is a small closed lookup over the seeded plan ids, not a
// hierarchy: every capability decision in the API goes through ForPlan
// so the policy lives in exactly one place.
package plans

// The fixed plan identifiers. These match the seeded 'plans' table rows.
const (
	PlanFree    = "free"
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanAgency  = "agency"
)

// Export formats the report service can produce.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatDOCX = "docx"
)

// Capabilities is the derived permission set for a plan.
type Capabilities struct {
	AllowedExportFormats []string `json:"allowedExportFormats"`
	CanUseBranding       bool     `json:"canUseBranding"`
	ShowWatermark        bool     `json:"showWatermark"`
	UnlimitedAudits      bool     `json:"unlimitedAudits"`
}

// ForPlan returns the capability set for a plan identifier.
// It is total: an empty or unrecognized id gets the restricted default
// (PDF-only, no branding, no watermark, limited audits). It never panics,
// so handlers can call it straight off a nullable plan column.
func ForPlan(planID string) Capabilities {
	switch planID {
	case PlanAgency:
		// The top tier is the only one with white-label exports.
		return Capabilities{
			AllowedExportFormats: []string{FormatPDF, FormatHTML, FormatDOCX},
			CanUseBranding:       true,
			ShowWatermark:        false,
			UnlimitedAudits:      true,
		}
	case PlanFree:
		// Free reports carry the product watermark.
		return Capabilities{
			AllowedExportFormats: []string{FormatPDF},
			CanUseBranding:       false,
			ShowWatermark:        true,
			UnlimitedAudits:      false,
		}
	default:
		return Capabilities{
			AllowedExportFormats: []string{FormatPDF},
			CanUseBranding:       false,
			ShowWatermark:        false,
			UnlimitedAudits:      false,
		}
	}
}

// AllowsFormat reports whether the capability set permits an export format.
func (c Capabilities) AllowsFormat(format string) bool {
	for _, f := range c.AllowedExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// IsKnownFormat reports whether the requested format is one the report
// service can produce at all, regardless of plan.
func IsKnownFormat(format string) bool {
	switch format {
	case FormatPDF, FormatHTML, FormatDOCX:
		return true
	}
	return false
}
