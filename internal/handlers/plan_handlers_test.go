package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func planRouter(h *Handlers, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/plans", h.GetPlans)
	r.GET("/api/user/plan", asUser(userID), h.GetUserPlan)
	r.PATCH("/api/user/plan", asUser(userID), h.SwitchPlan)
	return r
}

func planRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "audits_per_month", "max_pages", "max_sites", "white_label",
		"price", "auto_indexing", "report_frequency", "created_at", "updated_at",
	}).
		AddRow("free", "Free", 3, 50, 1, false, 0.0, false, "monthly", now, now).
		AddRow("starter", "Starter", 10, 200, 3, false, 9.0, false, "weekly", now, now).
		AddRow("agency", "Agency", 0, 5000, 50, true, 99.0, true, "daily", now, now)
}

func TestGetPlansOrderedByPrice(t *testing.T) {
	h, mock := newTestHandlers(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM plans ORDER BY price ASC")).WillReturnRows(planRows())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	planRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Plans []struct {
			ID    string  `json:"id"`
			Price float64 `json:"price"`
		} `json:"plans"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(resp.Plans))
	}
	if resp.Plans[0].ID != "free" || resp.Plans[2].ID != "agency" {
		t.Fatalf("plan order = %+v", resp.Plans)
	}
}

func TestGetUserPlanIncludesCapabilities(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM plans WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "audits_per_month", "max_pages", "max_sites", "white_label",
			"price", "auto_indexing", "report_frequency", "created_at", "updated_at",
		}).AddRow("agency", "Agency", 0, 5000, 50, true, 99.0, true, "daily", now, now))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/plan", nil)
	planRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Plan         map[string]interface{} `json:"plan"`
		Capabilities struct {
			AllowedExportFormats []string `json:"allowedExportFormats"`
			CanUseBranding       bool     `json:"canUseBranding"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Plan["id"] != "agency" {
		t.Fatalf("plan = %v", resp.Plan)
	}
	if !resp.Capabilities.CanUseBranding || len(resp.Capabilities.AllowedExportFormats) != 3 {
		t.Fatalf("capabilities = %+v", resp.Capabilities)
	}
}

func TestSwitchPlanRejectsMissingOrNonStringPlanID(t *testing.T) {
	for _, body := range []string{`{}`, `{"planId":123}`, `{"planId":null}`, `{"planId":""}`} {
		h, mock := newTestHandlers(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/user/plan", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		planRouter(h, 1).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400 (resp %s)", body, w.Code, w.Body.String())
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unexpected DB traffic: %v", err)
		}
	}
}

func TestSwitchPlanUnknownPlanIs404(t *testing.T) {
	h, mock := newTestHandlers(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM plans WHERE id = ?)")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/user/plan", strings.NewReader(`{"planId":"platinum"}`))
	req.Header.Set("Content-Type", "application/json")
	planRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body.String())
	}
}

func TestSwitchPlanSuccess(t *testing.T) {
	h, mock := newTestHandlers(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM plans WHERE id = ?)")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET plan_id = ?")).
		WithArgs("agency", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/user/plan", strings.NewReader(`{"planId":"agency"}`))
	req.Header.Set("Content-Type", "application/json")
	planRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"planId":"agency"`) || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
