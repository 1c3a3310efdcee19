// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticCache(t *testing.T) {
	rr := httptest.NewRecorder()
	StaticCache(3600)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/x", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}

	rr = httptest.NewRecorder()
	StaticCache(31536000)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/x", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q", got)
	}

	rr = httptest.NewRecorder()
	NoStore(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
