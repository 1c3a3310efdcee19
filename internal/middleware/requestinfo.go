// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/olegiv/orealty/internal/logging"
	"github.com/olegiv/orealty/internal/util"
)

// RequestInfo attaches the request path and client IP to the context so
// mirrored log records and audit events can carry them.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestInfo(r.Context(), logging.RequestInfo{
			URL: r.URL.Path,
			IP:  util.ClientIP(r),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
