// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/olegiv/orealty/internal/testutil"
)

func TestNew_Modes(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	dev := New(db, Options{IsDev: true})
	if dev.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if dev.Cookie.Name != "realty_session" {
		t.Errorf("dev cookie name = %q", dev.Cookie.Name)
	}
	if dev.Lifetime != DefaultLifetime {
		t.Errorf("Lifetime = %v, want %v", dev.Lifetime, DefaultLifetime)
	}

	prod := New(db, Options{Lifetime: time.Hour})
	if !prod.Cookie.Secure || !prod.Cookie.HttpOnly {
		t.Error("expected Secure and HttpOnly cookies in production")
	}
	if prod.Cookie.Name != "__Host-realty_session" {
		t.Errorf("prod cookie name = %q", prod.Cookie.Name)
	}
	if prod.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", prod.Cookie.SameSite)
	}
	if prod.Lifetime != time.Hour {
		t.Errorf("Lifetime = %v, want 1h", prod.Lifetime)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, Options{IsDev: true})

	login := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := Login(r.Context(), sm, 42); err != nil {
			t.Errorf("Login: %v", err)
		}
	}))
	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	me := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strconv.FormatInt(UserID(r.Context(), sm), 10)))
	}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	me.ServeHTTP(rec, req)

	if rec.Body.String() != "42" {
		t.Errorf("UserID = %q, want 42", rec.Body.String())
	}
}
