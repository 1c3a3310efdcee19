// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/mail"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/testutil"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

func (m *captureMailer) code(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	code := sixDigits.FindString(m.sent[len(m.sent)-1].Body)
	require.NotEmpty(t, code, "no code in email body")
	return code
}

// accessSetup returns a handler with the private access flow enabled.
func accessSetup(t *testing.T) (*sql.DB, *Handler, *captureMailer) {
	t.Helper()
	db, h := testSetup(t)
	mailer := &captureMailer{}
	h.access = service.NewAccessService(db, auth.NewCodeHasher([]byte("test-secret")), mailer, nil, nil,
		h.events, service.AccessConfig{
			CodeTTL:     15 * time.Minute,
			TokenTTL:    7 * 24 * time.Hour,
			MaxAttempts: 3,
			Retention:   24 * time.Hour,
			SiteName:    "oRealty",
		}, testutil.TestLoggerSilent())
	return db, h, mailer
}

func accessCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == model.AccessCookieName {
			return c
		}
	}
	return nil
}

func TestAccess_Disabled(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.RequestAccess, newJSONRequest(t, http.MethodPost, "/", `{"name":"Ana","email":"ana@example.com"}`, nil))
	assertStatusCode(t, w, http.StatusServiceUnavailable)
	assertErrorResponse(t, w, "access_disabled")
}

func TestAccess_RequestVerifyStatus(t *testing.T) {
	db, h, mailer := accessSetup(t)
	testutil.CreateProperty(t, db, "Hidden Villa", "hidden-villa", model.VisibilityPrivate)

	w := executeHandler(t, h.RequestAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"name":"Ana","email":"Ana@Example.com","phone":"+34 600 000 000"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	created := unmarshalData[AccessRequestCreatedResponse](t, w)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.NotEmpty(t, created.Message)

	w = executeHandler(t, h.VerifyAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"email":"ana@example.com","code":"`+mailer.code(t)+`"}`, nil))
	assertStatusCode(t, w, http.StatusOK)
	status := unmarshalData[AccessStatusResponse](t, w)
	assert.True(t, status.HasAccess)
	require.NotNil(t, status.ExpiresAt)

	cookie := accessCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := newGetRequest(t, "/", nil)
	req.AddCookie(cookie)
	w = executeHandler(t, h.AccessStatus, req)
	assertStatusCode(t, w, http.StatusOK)
	status = unmarshalData[AccessStatusResponse](t, w)
	assert.True(t, status.HasAccess)
	assert.Equal(t, "ana@example.com", status.Email)

	private := middleware.PrivateAccess(h.access, false)(http.HandlerFunc(h.PrivateListProperties))

	req = newGetRequest(t, "/", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	private.ServeHTTP(w, req)
	assertStatusCode(t, w, http.StatusOK)
	items, _ := unmarshalList[PropertyResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "hidden-villa", items[0].Slug)

	w = httptest.NewRecorder()
	private.ServeHTTP(w, newGetRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusUnauthorized)
	assertErrorResponse(t, w, "access_required")
}

func TestAccess_VerifyErrors(t *testing.T) {
	_, h, mailer := accessSetup(t)

	w := executeHandler(t, h.VerifyAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"email":"nobody@example.com","code":"123456"}`, nil))
	assertStatusCode(t, w, http.StatusNotFound)
	assertErrorResponse(t, w, "access_not_found")

	w = executeHandler(t, h.VerifyAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"email":"ana@example.com","code":"12ab56"}`, nil))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = executeHandler(t, h.RequestAccess, newJSONRequest(t, http.MethodPost, "/", `{"name":"Ana","email":"ana@example.com"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)

	wrong := "000000"
	if mailer.code(t) == wrong {
		wrong = "111111"
	}
	w = executeHandler(t, h.VerifyAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"email":"ana@example.com","code":"`+wrong+`"}`, nil))
	assertStatusCode(t, w, http.StatusBadRequest)
	assertErrorResponse(t, w, "invalid_code")
}

func TestAccess_InputValidation(t *testing.T) {
	_, h, mailer := accessSetup(t)

	tests := []struct {
		name  string
		h     http.HandlerFunc
		body  string
		field string
	}{
		{"blank name", h.RequestAccess, `{"name":"   ","email":"ana@example.com"}`, "name"},
		{"signed code", h.VerifyAccess, `{"email":"ana@example.com","code":"+12345"}`, "code"},
		{"negative code", h.VerifyAccess, `{"email":"ana@example.com","code":"-12345"}`, "code"},
		{"decimal code", h.VerifyAccess, `{"email":"ana@example.com","code":"1234.5"}`, "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeHandler(t, tt.h, newJSONRequest(t, http.MethodPost, "/", tt.body, nil))
			assertStatusCode(t, w, http.StatusUnprocessableEntity)
			resp := assertErrorResponse(t, w, "validation_error")
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
	assert.Empty(t, mailer.sent)

	w := executeHandler(t, h.RequestAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"name":"  Ana  ","email":" ana@example.com "}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	assert.Equal(t, "ana@example.com", unmarshalData[AccessRequestCreatedResponse](t, w).Email)
}

func TestAccessStatus_ClearsStaleCookie(t *testing.T) {
	_, h, _ := accessSetup(t)

	req := newGetRequest(t, "/", nil)
	req.AddCookie(&http.Cookie{Name: model.AccessCookieName, Value: "stale-token"})
	w := executeHandler(t, h.AccessStatus, req)
	assertStatusCode(t, w, http.StatusOK)
	assert.False(t, unmarshalData[AccessStatusResponse](t, w).HasAccess)

	cookie := accessCookie(w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAccessRequests_AdminRevoke(t *testing.T) {
	_, h, mailer := accessSetup(t)

	w := executeHandler(t, h.RequestAccess, newJSONRequest(t, http.MethodPost, "/", `{"name":"Ana","email":"ana@example.com"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	id := unmarshalData[AccessRequestCreatedResponse](t, w).ID

	w = executeHandler(t, h.VerifyAccess, newJSONRequest(t, http.MethodPost, "/",
		`{"email":"ana@example.com","code":"`+mailer.code(t)+`"}`, nil))
	assertStatusCode(t, w, http.StatusOK)
	cookie := accessCookie(w)
	require.NotNil(t, cookie)

	w = executeHandler(t, h.ListAccessRequests, newGetRequest(t, "/?status=verified", nil))
	assertStatusCode(t, w, http.StatusOK)
	items, _ := unmarshalList[AccessRequestResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, model.AccessVerified, items[0].Status)

	w = executeHandler(t, h.ListAccessRequests, newGetRequest(t, "/?status=bogus", nil))
	assertStatusCode(t, w, http.StatusBadRequest)

	w = executeHandler(t, h.RevokeAccessRequest, newJSONRequest(t, http.MethodPost, "/", "", idParam(id)))
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, model.AccessRevoked, unmarshalData[AccessRequestResponse](t, w).Status)

	req := newGetRequest(t, "/", nil)
	req.AddCookie(cookie)
	w = executeHandler(t, h.AccessStatus, req)
	assert.False(t, unmarshalData[AccessStatusResponse](t, w).HasAccess)

	w = executeHandler(t, h.DeleteAccessRequest, newDeleteRequest(t, "/", idParam(id)))
	assertStatusCode(t, w, http.StatusNoContent)

	w = executeHandler(t, h.GetAccessRequest, newGetRequest(t, "/", idParam(id)))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestEndAccessSession(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.EndAccessSession, httptest.NewRequest(http.MethodDelete, "/", nil))
	assertStatusCode(t, w, http.StatusNoContent)
	cookie := accessCookie(w)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}
