// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
)

// ContextKeyAccessRequest is the context key for the verified access request.
const ContextKeyAccessRequest ContextKey = "access_request"

// AccessAuthorizer resolves an access token cookie to a verified request.
type AccessAuthorizer interface {
	Authorize(ctx context.Context, token string) (store.AccessRequest, error)
}

// PrivateAccess guards private listings. Requests without a valid access
// token get a 401 and have their access cookies cleared.
func PrivateAccess(authz AccessAuthorizer, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(model.AccessCookieName); err == nil {
				token = c.Value
			}

			req, err := authz.Authorize(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrNoAccess) {
					slog.Error("failed to authorize access token", "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", i18n.T(GetLanguageCode(r), "error.internal"), nil)
					return
				}
				if token != "" {
					ClearAccessCookies(w, secure)
				}
				WriteAPIError(w, http.StatusUnauthorized, "access_required", i18n.T(GetLanguageCode(r), "access.required"), nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAccessRequest, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccessRequest returns the access request verified by PrivateAccess.
func GetAccessRequest(r *http.Request) *store.AccessRequest {
	req, ok := r.Context().Value(ContextKeyAccessRequest).(store.AccessRequest)
	if !ok {
		return nil
	}
	return &req
}

// SetAccessCookies stores the access token and its expiry as unix seconds.
func SetAccessCookies(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, accessCookie(model.AccessCookieName, token, maxAge, secure))
	http.SetCookie(w, accessCookie(model.AccessExpiryCookieName, strconv.FormatInt(expires.Unix(), 10), maxAge, secure))
}

// ClearAccessCookies removes both access cookies.
func ClearAccessCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, accessCookie(model.AccessCookieName, "", -1, secure))
	http.SetCookie(w, accessCookie(model.AccessExpiryCookieName, "", -1, secure))
}

func accessCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
