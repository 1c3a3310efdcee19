// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for cross-origin request protection.
// filippo.io/csrf/gorilla checks Fetch metadata and Origin headers, so no
// token has to travel through the JSON API.
type CSRFConfig struct {
	// AuthKey is a 32-byte key, the session secret is used.
	AuthKey []byte

	// TrustedOrigins are host[:port] values allowed to make cross-origin
	// unsafe requests, such as the frontend's origin.
	TrustedOrigins []string
}

// DefaultCSRFConfig trusts the hosts of allowedOrigins and, in
// development, localhost.
func DefaultCSRFConfig(authKey []byte, allowedOrigins []string, isDev bool) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}

	for _, origin := range allowedOrigins {
		if host := originHost(origin); host != "" {
			cfg.TrustedOrigins = append(cfg.TrustedOrigins, host)
		}
	}
	if isDev {
		cfg.TrustedOrigins = append(cfg.TrustedOrigins, "localhost:8080", "127.0.0.1:8080", "localhost:3000")
	}
	return cfg
}

// originHost turns "https://example.com" into "example.com". Bare hosts are
// returned unchanged.
func originHost(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return ""
	}
	if !strings.Contains(origin, "://") {
		return origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Host
}

// CSRF returns a middleware that rejects cross-origin unsafe requests with
// a JSON 403.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler))}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	WriteAPIError(w, http.StatusForbidden, "csrf_failed", "Cross-origin request rejected", nil)
}
