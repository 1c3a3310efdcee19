// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
)

type fakeAuthorizer struct {
	token string
	err   error
}

func (f fakeAuthorizer) Authorize(_ context.Context, token string) (store.AccessRequest, error) {
	if f.err != nil {
		return store.AccessRequest{}, f.err
	}
	if token == "" || token != f.token {
		return store.AccessRequest{}, service.ErrNoAccess
	}
	return store.AccessRequest{ID: 42, Email: "vip@example.com", Status: model.AccessVerified}, nil
}

func TestPrivateAccess(t *testing.T) {
	h := PrivateAccess(fakeAuthorizer{token: "good"}, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := GetAccessRequest(r)
		if req == nil {
			t.Error("access request missing from context")
			return
		}
		_, _ = w.Write([]byte(strconv.FormatInt(req.ID, 10)))
	}))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/private/properties", nil)
		req.AddCookie(&http.Cookie{Name: model.AccessCookieName, Value: "good"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || rr.Body.String() != "42" {
			t.Errorf("got %d %q", rr.Code, rr.Body.String())
		}
	})

	t.Run("no cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/private/properties", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		if code := decodeAPIError(t, rr).Error.Code; code != "access_required" {
			t.Errorf("code = %q", code)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Error("cookies should not be touched without a token")
		}
	})

	t.Run("stale token clears cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/private/properties", nil)
		req.AddCookie(&http.Cookie{Name: model.AccessCookieName, Value: "revoked"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		cleared := map[string]bool{}
		for _, c := range rr.Result().Cookies() {
			if c.MaxAge < 0 {
				cleared[c.Name] = true
			}
		}
		if !cleared[model.AccessCookieName] || !cleared[model.AccessExpiryCookieName] {
			t.Errorf("cleared cookies = %v", cleared)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		h := PrivateAccess(fakeAuthorizer{err: errors.New("db down")}, false)(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: model.AccessCookieName, Value: "good"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}

func TestSetAccessCookies(t *testing.T) {
	expires := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	rr := httptest.NewRecorder()
	SetAccessCookies(rr, "tok", expires, true)

	cookies := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		cookies[c.Name] = c
	}
	token := cookies[model.AccessCookieName]
	if token == nil || token.Value != "tok" || !token.HttpOnly || !token.Secure {
		t.Fatalf("token cookie = %+v", token)
	}
	exp := cookies[model.AccessExpiryCookieName]
	if exp == nil || exp.Value != strconv.FormatInt(expires.Unix(), 10) {
		t.Fatalf("expiry cookie = %+v", exp)
	}
	if token.MaxAge <= 0 || token.MaxAge > 2*60*60 {
		t.Errorf("MaxAge = %d", token.MaxAge)
	}
}
