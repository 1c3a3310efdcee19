// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/store"
)

// Context keys for language data.
const (
	ContextKeyLanguage     ContextKey = "language"
	ContextKeyLanguageCode ContextKey = "language_code"
)

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "realty_lang"

// LanguageInfo holds language data for the request context.
type LanguageInfo struct {
	ID         int64
	Code       string
	Name       string
	NativeName string
	Direction  string
	IsDefault  bool
}

// Language creates middleware that detects and sets the request language.
// Priority order:
//  1. Query parameter ?lang=XX (explicit switch, updates the cookie)
//  2. URL parameter {lang} from the chi router
//  3. Cookie preference
//  4. Accept-Language header
//  5. Default language
//
// Active languages are read through cm when it is not nil.
func Language(db *sql.DB, cm *cache.Manager) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			activeLangs, err := cache.Remember(ctx, cm, cm.Key(cache.ResourceLanguages, "", "active"), queries.ListActiveLanguages)
			if err != nil || len(activeLangs) == 0 {
				if err != nil {
					slog.Error("failed to load languages", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			langMap := make(map[string]store.Language, len(activeLangs))
			codes := make([]string, 0, len(activeLangs))
			defaultLang := activeLangs[0]
			for _, lang := range activeLangs {
				langMap[strings.ToLower(lang.Code)] = lang
				codes = append(codes, lang.Code)
				if lang.IsDefault {
					defaultLang = lang
				}
			}

			if queryLang := strings.ToLower(r.URL.Query().Get("lang")); queryLang != "" {
				if lang, ok := langMap[queryLang]; ok {
					SetLanguageCookie(w, lang.Code)
					next.ServeHTTP(w, r.WithContext(setLanguageContext(ctx, lang)))
					return
				}
			}

			if langParam := strings.ToLower(chi.URLParam(r, "lang")); langParam != "" {
				if lang, ok := langMap[langParam]; ok {
					next.ServeHTTP(w, r.WithContext(setLanguageContext(ctx, lang)))
					return
				}
			}

			if cookie, err := r.Cookie(LanguageCookieName); err == nil {
				if lang, ok := langMap[strings.ToLower(cookie.Value)]; ok {
					next.ServeHTTP(w, r.WithContext(setLanguageContext(ctx, lang)))
					return
				}
			}

			if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
				code := i18n.Match(acceptLang, codes, "")
				if lang, ok := langMap[strings.ToLower(code)]; ok {
					next.ServeHTTP(w, r.WithContext(setLanguageContext(ctx, lang)))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(setLanguageContext(ctx, defaultLang)))
		})
	}
}

// setLanguageContext adds language info to the context.
func setLanguageContext(ctx context.Context, lang store.Language) context.Context {
	info := LanguageInfo{
		ID:         lang.ID,
		Code:       lang.Code,
		Name:       lang.Name,
		NativeName: lang.NativeName,
		Direction:  lang.Direction,
		IsDefault:  lang.IsDefault,
	}
	ctx = context.WithValue(ctx, ContextKeyLanguage, info)
	ctx = context.WithValue(ctx, ContextKeyLanguageCode, lang.Code)
	return ctx
}

// GetLanguage retrieves the current language from the request context.
// Returns nil if no language is in context.
func GetLanguage(r *http.Request) *LanguageInfo {
	info, ok := r.Context().Value(ContextKeyLanguage).(LanguageInfo)
	if !ok {
		return nil
	}
	return &info
}

// GetLanguageCode returns the request language code, or the i18n default
// when the Language middleware did not run.
func GetLanguageCode(r *http.Request) string {
	if code, ok := r.Context().Value(ContextKeyLanguageCode).(string); ok && code != "" {
		return code
	}
	return i18n.DefaultLanguage
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
