// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
)

// DemoModeMessage is returned when an action is blocked in demo mode.
const DemoModeMessage = "This action is disabled in demo mode"

// BlockInDemoMode rejects unsafe requests with 403 when enabled. It guards
// routes that would let a public demo visitor lock others out, such as
// user and language management.
func BlockInDemoMode(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Info("demo mode blocked request", "method", r.Method, "path", r.URL.Path)
			WriteAPIError(w, http.StatusForbidden, "demo_mode", DemoModeMessage, nil)
		})
	}
}
