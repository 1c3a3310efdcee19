// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/session"
	"github.com/olegiv/orealty/internal/testutil"
)

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

// newTestHealthHandler creates a health handler with a session manager.
func newTestHealthHandler(t *testing.T) (*HealthHandler, *scs.SessionManager) {
	t.Helper()
	db := testDB(t)
	sm := session.New(db, session.Options{IsDev: true})
	return NewHealthHandler(db, sm, t.TempDir()), sm
}

// loginCookies logs in a new user with role and returns the session cookies.
func loginCookies(t *testing.T, h *HealthHandler, sm *scs.SessionManager, role string) []*http.Cookie {
	t.Helper()
	user := testutil.CreateUser(t, h.db, role+"@example.com", "secret-password-1", role)

	login := sm.LoadAndSave(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if err := session.Login(r.Context(), sm, user.ID); err != nil {
			t.Errorf("Login: %v", err)
		}
	}))
	rr := httptest.NewRecorder()
	login.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}
	return cookies
}

// serveHealth runs fn behind the session middleware.
func serveHealth(sm *scs.SessionManager, fn http.HandlerFunc, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	sm.LoadAndSave(fn).ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Health_Public(t *testing.T) {
	handler, sm := newTestHealthHandler(t)

	w := serveHealth(sm, handler.Health, "/health?verbose=true", nil)

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, field := range []string{"uptime", "version", "checks", "timestamp", "system"} {
		if _, ok := resp[field]; ok {
			t.Errorf("public response should not contain %s", field)
		}
	}
}

func TestHealthHandler_Health_Admin(t *testing.T) {
	handler, sm := newTestHealthHandler(t)
	cookies := loginCookies(t, handler, sm, model.RoleAdmin)

	tests := []struct {
		name           string
		path           string
		wantSystemInfo bool
	}{
		{name: "full details without verbose", path: "/health"},
		{name: "full details with verbose", path: "/health?verbose=true", wantSystemInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveHealth(sm, handler.Health, tt.path, cookies)
			assertStatus(t, w.Code, http.StatusOK)

			var resp HealthStatus
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Status != "healthy" {
				t.Errorf("status = %q; want healthy", resp.Status)
			}
			if resp.Timestamp.IsZero() || resp.Uptime == "" || resp.Version == "" {
				t.Errorf("missing summary fields: %+v", resp)
			}
			if dbCheck, ok := resp.Checks["database"]; !ok || dbCheck.Status != "healthy" {
				t.Errorf("database check = %+v, ok=%v", dbCheck, ok)
			}
			if _, ok := resp.Checks["disk"]; !ok {
				t.Error("expected disk check in response")
			}
			if tt.wantSystemInfo != (resp.System != nil) {
				t.Errorf("system info present = %v, want %v", resp.System != nil, tt.wantSystemInfo)
			}
			if resp.System != nil && (resp.System.GoVersion == "" || resp.System.NumCPU <= 0 || resp.System.MemAlloc == "") {
				t.Errorf("incomplete system info: %+v", resp.System)
			}
		})
	}
}

func TestHealthHandler_Health_Editor(t *testing.T) {
	handler, sm := newTestHealthHandler(t)
	cookies := loginCookies(t, handler, sm, model.RoleEditor)

	w := serveHealth(sm, handler.Health, "/health?verbose=true", cookies)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Uptime == "" {
		t.Error("editor should see the summary")
	}
	if resp.Checks != nil || resp.System != nil {
		t.Error("editor should not see check details or system info")
	}
}

func TestHealthHandler_Health_UnhealthyDatabase(t *testing.T) {
	db := testDB(t)
	handler := NewHealthHandler(db, nil, t.TempDir())
	_ = db.Close()

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "degraded" {
		t.Errorf("status = %v; want degraded", resp["status"])
	}
	if _, ok := resp["checks"]; ok {
		t.Error("public degraded response should not contain checks")
	}
}

func TestHealthHandler_NoSessionLoaded(t *testing.T) {
	// Without LoadAndSave scs panics on access; the handler must treat it as anonymous.
	handler, _ := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assertStatus(t, w.Code, http.StatusOK)
	if body := w.Body.String(); body != "{\"status\":\"healthy\"}\n" {
		t.Errorf("body = %q", body)
	}
}

// testHealthProbe tests a health probe endpoint for expected status response.
func testHealthProbe(t *testing.T, path string, handlerFn func(http.ResponseWriter, *http.Request), expectedStatus string) {
	t.Helper()

	w := httptest.NewRecorder()
	handlerFn(w, httptest.NewRequest(http.MethodGet, path, nil))

	assertStatus(t, w.Code, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != expectedStatus {
		t.Errorf("status = %q; want %s", resp["status"], expectedStatus)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler, _ := newTestHealthHandler(t)
	testHealthProbe(t, "/health/live", handler.Liveness, "alive")
}

func TestHealthHandler_Readiness(t *testing.T) {
	handler, _ := newTestHealthHandler(t)
	testHealthProbe(t, "/health/ready", handler.Readiness, "ready")
}

func TestHealthHandler_Readiness_NotReady(t *testing.T) {
	db := testDB(t)
	handler := NewHealthHandler(db, nil, t.TempDir())
	_ = db.Close()

	w := httptest.NewRecorder()
	handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "not_ready" {
		t.Errorf("status = %q; want not_ready", resp["status"])
	}
	if _, ok := resp["message"]; ok {
		t.Error("public not_ready response should not contain error message")
	}
}

func TestHealthHandler_DiskCheck(t *testing.T) {
	handler, _ := newTestHealthHandler(t)

	for name, dir := range map[string]string{
		"existing directory":     t.TempDir(),
		"non-existent directory": filepath.Join(t.TempDir(), "nonexistent"),
	} {
		t.Run(name, func(t *testing.T) {
			handler.uploadsDir = dir
			if check := handler.checkDiskSpace(); check.Status == "unhealthy" {
				t.Errorf("disk check = %+v", check)
			}
		})
	}
}

func TestNewHealthHandler(t *testing.T) {
	db := testDB(t)
	uploadsDir := t.TempDir()

	handler := NewHealthHandler(db, nil, uploadsDir)

	if handler.db != db || handler.queries == nil || handler.sm != nil {
		t.Error("dependencies not set correctly")
	}
	if handler.uploadsDir != uploadsDir {
		t.Error("uploadsDir not set correctly")
	}
	if handler.StartTime().IsZero() {
		t.Error("startTime should not be zero")
	}
}
