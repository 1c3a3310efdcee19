// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		path     string
		wantHSTS bool
		wantCSP  string
	}{
		{"production api", false, "/api/v1/properties", true, "default-src 'none'"},
		{"development api", true, "/api/v1/properties", false, "frame-ancestors 'none'"},
		{"uploads", false, "/uploads/images/x/large.jpg", true, "img-src 'self'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			h := rr.Header()
			if got := h.Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			if csp := h.Get("Content-Security-Policy"); !strings.Contains(csp, tt.wantCSP) {
				t.Errorf("CSP = %q, want it to contain %q", csp, tt.wantCSP)
			}
			if h.Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff")
			}
			if h.Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q", h.Get("X-Frame-Options"))
			}
		})
	}
}

func TestBuildCSP_Sorted(t *testing.T) {
	got := buildCSP(map[string]string{"script-src": "'self'", "default-src": "'none'", "sandbox": ""})
	want := "default-src 'none'; sandbox; script-src 'self'"
	if got != want {
		t.Errorf("buildCSP = %q, want %q", got, want)
	}
}
