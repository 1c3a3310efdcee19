// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	if lc.get("a") != lc.get("a") {
		t.Error("same key should return the same limiter")
	}
	if lc.get("a") == lc.get("b") {
		t.Error("different keys should not share a limiter")
	}
	if lc.clearIfExceeds(5) {
		t.Error("cache below the limit should not be cleared")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("cache above the limit should be cleared")
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	rl := NewIPRateLimiter("access", 0.001, 2)
	h := rl.Middleware(true)(okHandler)

	send := func(method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/access-requests", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send(http.MethodPost, "203.0.113.1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i+1, rr.Code)
		}
	}
	rr := send(http.MethodPost, "203.0.113.1")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", rr.Code)
	}
	if code := decodeAPIError(t, rr).Error.Code; code != "rate_limit_exceeded" {
		t.Errorf("code = %q", code)
	}

	if rr := send(http.MethodGet, "203.0.113.1"); rr.Code != http.StatusOK {
		t.Errorf("GET with writesOnly = %d, want 200", rr.Code)
	}
	if rr := send(http.MethodPost, "203.0.113.2"); rr.Code != http.StatusOK {
		t.Errorf("other IP = %d, want 200", rr.Code)
	}
}
