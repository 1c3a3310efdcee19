// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/session"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/testutil"
)

func withUser(r *http.Request, u store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, u))
}

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user := GetUser(req); user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
		if id := GetUserID(req); id != 0 {
			t.Errorf("GetUserID() = %d, want 0", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := withUser(httptest.NewRequest(http.MethodGet, "/", nil), store.User{ID: 123, Email: "test@example.com", Role: model.RoleAdmin})
		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.Email != "test@example.com" {
			t.Errorf("GetUser().Email = %q", user.Email)
		}
		if GetUserID(req) != 123 {
			t.Errorf("GetUserID() = %d, want 123", GetUserID(req))
		}
	})
}

func TestRequireUser(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireUser(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/properties", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if code := decodeAPIError(t, rr).Error.Code; code != "unauthorized" {
		t.Errorf("code = %q", code)
	}

	rr = httptest.NewRecorder()
	RequireUser(okHandler).ServeHTTP(rr, withUser(httptest.NewRequest(http.MethodGet, "/", nil), store.User{ID: 1, Role: model.RoleEditor}))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required string
		want     int
	}{
		{"admin on admin route", model.RoleAdmin, model.RoleAdmin, http.StatusOK},
		{"admin on editor route", model.RoleAdmin, model.RoleEditor, http.StatusOK},
		{"editor on editor route", model.RoleEditor, model.RoleEditor, http.StatusOK},
		{"editor on admin route", model.RoleEditor, model.RoleAdmin, http.StatusForbidden},
		{"unknown role", "viewer", model.RoleEditor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", nil), store.User{ID: 5, Role: tt.role})
			rr := httptest.NewRecorder()
			RequireRole(tt.required, nil)(okHandler).ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}

	t.Run("no user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireRole(model.RoleEditor, nil)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})
}

func TestLoadUser(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "editor@example.com", "secret-password-1", model.RoleEditor)
	sm := session.New(db, session.Options{IsDev: true})

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := session.Login(r.Context(), sm, user.ID); err != nil {
			t.Errorf("Login: %v", err)
		}
	})
	mux.Handle("/me", LoadUser(sm, db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := GetUser(r); u != nil {
			_, _ = w.Write([]byte(u.Email))
		}
	})))
	h := sm.LoadAndSave(mux)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Body.String(); got != "editor@example.com" {
		t.Errorf("body = %q, want user email", got)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	if got := rr.Body.String(); got != "" {
		t.Errorf("anonymous body = %q, want empty", got)
	}
}
