// Package reports talks to the external report-generation service.
//
// The service keeps finished audits around for a while and can render
// them into downloadable artifacts; once it evicts an audit, the only
// way back is regenerating from the result payload we cached at audit
// time. Export covers the first case, Regenerate the second.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Report rendering can take a while for large sites.
var httpc = &http.Client{Timeout: 60 * time.Second}

// ErrNotFound means the upstream no longer holds the live audit.
// The export path treats this as the trigger for regeneration.
var ErrNotFound = errors.New("report not found upstream")

// UpstreamError carries any other non-success status so handlers can
// propagate it verbatim.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("report service returned status %d", e.StatusCode)
}

// Branding holds the white-label fields forwarded to the renderer.
type Branding struct {
	CompanyName  string `json:"company_name,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
}

// ExportParams describes one export request. The same parameters feed
// both the proxy call and a regeneration, so a fallback renders the
// exact artifact the caller originally asked for.
type ExportParams struct {
	FastAPIID string
	Format    string
	Lang      string
	Watermark bool
	Brand     *Branding
}

// Artifact is a rendered report ready to stream back to the caller.
// Body must be closed by the consumer.
type Artifact struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Client is a thin HTTP client for the report service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClientFromEnv builds a client against REPORT_SERVICE_URL
// (the local analyzer service by default).
func NewClientFromEnv() *Client {
	base := os.Getenv("REPORT_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	return &Client{BaseURL: base, HTTPClient: httpc}
}

// Export asks the service to render the live audit identified by
// p.FastAPIID. Returns ErrNotFound on a 404 so the caller can decide
// whether a cached payload makes regeneration possible.
func (c *Client) Export(ctx context.Context, p ExportParams) (*Artifact, error) {
	q := url.Values{}
	q.Set("format", p.Format)
	if p.Lang != "" {
		q.Set("lang", p.Lang)
	}
	q.Set("watermark", strconv.FormatBool(p.Watermark))
	if p.Brand != nil {
		if p.Brand.CompanyName != "" {
			q.Set("company_name", p.Brand.CompanyName)
		}
		if p.Brand.LogoURL != "" {
			q.Set("logo_url", p.Brand.LogoURL)
		}
		if p.Brand.PrimaryColor != "" {
			q.Set("primary_color", p.Brand.PrimaryColor)
		}
		if p.Brand.AccentColor != "" {
			q.Set("accent_color", p.Brand.AccentColor)
		}
	}

	endpoint := fmt.Sprintf("%s/report/%s/export?%s", c.BaseURL, url.PathEscape(p.FastAPIID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// generatePayload is the body shape of POST /report/generate.
type generatePayload struct {
	Result    json.RawMessage `json:"result"`
	Format    string          `json:"format"`
	Lang      string          `json:"lang,omitempty"`
	Watermark bool            `json:"watermark"`
	Branding
}

// Regenerate renders a report from a cached result payload. Used when
// the upstream has evicted the live audit but we still hold its JSON.
func (c *Client) Regenerate(ctx context.Context, p ExportParams, result json.RawMessage) (*Artifact, error) {
	payload := generatePayload{
		Result:    result,
		Format:    p.Format,
		Lang:      p.Lang,
		Watermark: p.Watermark,
	}
	if p.Brand != nil {
		payload.Branding = *p.Brand
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/report/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Artifact, error) {
	client := c.HTTPClient
	if client == nil {
		client = httpc
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &Artifact{
			Body:               resp.Body,
			ContentType:        resp.Header.Get("Content-Type"),
			ContentDisposition: resp.Header.Get("Content-Disposition"),
			ContentLength:      resp.ContentLength,
		}, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	default:
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}
}
