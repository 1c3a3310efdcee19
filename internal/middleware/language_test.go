// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/testutil"
)

func TestLanguage(t *testing.T) {
	db, cleanup := testutil.SeededDB(t)
	defer cleanup()
	testutil.CreateLanguage(t, db, "es", "Español")
	testutil.CreateLanguage(t, db, "ru", "Русский")

	lm := Language(db, nil)
	echo := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetLanguageCode(r)))
	}
	r := chi.NewRouter()
	r.With(lm).Get("/", echo)
	r.With(lm).Get("/{lang}/page", echo)

	tests := []struct {
		name       string
		target     string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{"default", "/", "", "", "en", false},
		{"query param sets cookie", "/?lang=es", "", "", "es", true},
		{"query param beats cookie", "/?lang=RU", "es", "", "ru", true},
		{"unknown query param ignored", "/?lang=de", "", "", "en", false},
		{"url prefix", "/ru/page", "", "", "ru", false},
		{"cookie", "/", "es", "", "es", false},
		{"cookie beats accept-language", "/", "ru", "es-ES,es;q=0.9", "ru", false},
		{"accept-language", "/", "", "es-AR,es;q=0.9,en;q=0.5", "es", false},
		{"accept-language without match", "/", "", "ja-JP", "en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if got := rr.Body.String(); got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			gotCookie := false
			for _, c := range rr.Result().Cookies() {
				if c.Name == LanguageCookieName {
					gotCookie = true
				}
			}
			if gotCookie != tt.wantCookie {
				t.Errorf("cookie set = %v, want %v", gotCookie, tt.wantCookie)
			}
		})
	}
}

func TestGetLanguageCode_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLanguageCode(req); got != "en" {
		t.Errorf("GetLanguageCode() = %q, want en", got)
	}
	if GetLanguage(req) != nil {
		t.Error("GetLanguage() should be nil without the middleware")
	}
}
