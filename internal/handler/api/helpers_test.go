// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/session"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/testutil"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testSetup returns a seeded database and a handler over it without cache.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()
	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)

	h := NewHandler(Deps{
		DB:       db,
		Sessions: session.New(db, session.Options{IsDev: true}),
		Logger:   testutil.TestLoggerSilent(),
	}, Config{
		SiteURL:         "https://realty.test",
		SiteName:        "oRealty",
		DefaultLanguage: "en",
	})
	return db, h
}

// requestWithURLParams adds chi URL parameters to the request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates a request with a JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates a GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newDeleteRequest creates a DELETE request with optional URL params.
func newDeleteRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// withUser puts user in the request context as the auth middleware does.
func withUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// withLanguage sets the request language as the language middleware does.
func withLanguage(r *http.Request, code string, isDefault bool) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyLanguage, middleware.LanguageInfo{Code: code, IsDefault: isDefault})
	ctx = context.WithValue(ctx, middleware.ContextKeyLanguageCode, code)
	return r.WithContext(ctx)
}

type dataResponse[T any] struct {
	Data T `json:"data"`
}

type listResponse[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData decodes the data field of a response body.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return resp.Data
}

// unmarshalList decodes a list response body.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return resp.Data, resp.Meta
}

// executeHandler runs handler and returns the recorder.
func executeHandler(t *testing.T, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// assertStatusCode checks the response status.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}

// assertErrorResponse decodes an error response and checks its code.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected code %q, got %q", expectedCode, resp.Error.Code)
	}
	return resp
}
