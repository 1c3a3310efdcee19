// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"key": "value"}, NewMeta(45, 2, 20))

	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Data map[string]string `json:"data"`
		Meta Meta              `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "value", resp.Data["key"])
	assert.Equal(t, Meta{Total: 45, Page: 2, PerPage: 20, Pages: 3}, resp.Meta)
}

func TestWriteSuccess_OmitsMeta(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, []int{1}, nil)
	assert.NotContains(t, w.Body.String(), "meta")
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "bad", nil) }, http.StatusBadRequest, "bad_request"},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "missing") }, http.StatusNotFound, "not_found"},
		{"unauthorized", func(w http.ResponseWriter) { WriteUnauthorized(w, "who") }, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", func(w http.ResponseWriter) { WriteForbidden(w, "no") }, http.StatusForbidden, "forbidden"},
		{"conflict", func(w http.ResponseWriter) { WriteConflict(w, "taken", "taken") }, http.StatusConflict, "taken"},
		{"internal", func(w http.ResponseWriter) { WriteInternalError(w, "boom") }, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assertStatusCode(t, w, tt.status)
			assertErrorResponse(t, w, tt.code)
		})
	}
}

func TestWriteValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteValidationError(w, map[string]string{"title": "required"})

	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	assert.Equal(t, "required", resp.Error.Details["title"])
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteNoContent(w)
	assertStatusCode(t, w, http.StatusNoContent)
	assert.Empty(t, w.Body.String())
}

func TestDecodePatch_Nulls(t *testing.T) {
	_, h := testSetup(t)

	var req UpdatePropertyRequest
	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"title":"New","floor":null,"agent_id":null}`))
	w := httptest.NewRecorder()

	nulls, ok := h.decodePatch(w, r, &req)
	require.True(t, ok, w.Body.String())
	require.NotNil(t, req.Title)
	assert.Equal(t, "New", *req.Title)
	assert.Nil(t, req.Floor)
	assert.Equal(t, map[string]bool{"floor": true, "agent_id": true}, nulls)
}

func TestDecodePatch_InvalidJSON(t *testing.T) {
	_, h := testSetup(t)

	var req UpdatePropertyRequest
	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"title":`))
	w := httptest.NewRecorder()

	_, ok := h.decodePatch(w, r, &req)
	assert.False(t, ok)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestPaging(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&per_page=10", nil)
	page, perPage, limit, offset := paging(r)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, perPage)
	assert.Equal(t, int64(10), limit)
	assert.Equal(t, int64(20), offset)
}
