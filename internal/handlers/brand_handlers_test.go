package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func brandRouter(h *Handlers, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/brand-settings", asUser(userID), h.GetBrandSettings)
	r.PUT("/api/brand-settings", asUser(userID), h.UpdateBrandSettings)
	r.DELETE("/api/brand-settings/logo", asUser(userID), h.DeleteBrandLogo)
	return r
}

func TestBrandSettingsForbiddenForNonAgency(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut} {
		h, mock := newTestHandlers(t)
		expectPlanLookup(mock, "pro")

		var body *strings.Reader
		if method == http.MethodPut {
			body = strings.NewReader(`{"companyName":"Acme"}`)
		} else {
			body = strings.NewReader("")
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/brand-settings", body)
		req.Header.Set("Content-Type", "application/json")
		brandRouter(h, 1).ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("%s status = %d, want 403 (body %s)", method, w.Code, w.Body.String())
		}
		// The gate fires before any brand_settings query.
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unexpected DB traffic: %v", err)
		}
	}
}

func TestUpdateBrandSettingsRejectsInvalidLogo(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":"Acme","logoPath":"../../etc/passwd"}`))
	req.Header.Set("Content-Type", "application/json")
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
	// Invalid logo fails the whole write: no INSERT may have run.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB traffic: %v", err)
	}
}

func TestUpdateBrandSettingsRejectsNonStringCompanyName(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":12345}`))
	req.Header.Set("Content-Type", "application/json")
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateBrandSettingsRejectsLongCompanyName(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")

	long := strings.Repeat("a", 101)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":"`+long+`"}`))
	req.Header.Set("Content-Type", "application/json")
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateBrandSettingsCountsCharactersNotBytes(t *testing.T) {
	// 100 two-byte characters must pass the 100-character limit even
	// though the string is 200 bytes long.
	name := strings.Repeat("ü", 100)

	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO brand_settings")).
		WithArgs(int64(1), name, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":"`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	// 101 characters is still over the limit, ASCII or not.
	h2, mock2 := newTestHandlers(t)
	expectPlanLookup(mock2, "agency")

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":"`+strings.Repeat("ü", 101)+`"}`))
	req2.Header.Set("Content-Type", "application/json")
	brandRouter(h2, 1).ServeHTTP(w2, req2)

	if w2.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w2.Code, w2.Body.String())
	}
}

func TestUpdateBrandSettingsNormalizesLogoPath(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO brand_settings")).
		WithArgs(int64(1), "Acme SEO", "/api/upload/logo/a.png", "#112233", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/brand-settings",
		strings.NewReader(`{"companyName":"Acme SEO","logoPath":"uploads/logos/a.png","primaryColor":"#112233"}`))
	req.Header.Set("Content-Type", "application/json")
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"logoPath":"/api/upload/logo/a.png"`) {
		t.Fatalf("body should echo the canonical path, got %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBrandLogoClearsReferenceOnly(t *testing.T) {
	h, mock := newTestHandlers(t)
	expectPlanLookup(mock, "agency")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE brand_settings SET logo_path = NULL")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/brand-settings/logo", nil)
	brandRouter(h, 1).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
