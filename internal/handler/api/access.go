// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
)

// CreateAccessRequest represents a visitor asking for private listings access.
type CreateAccessRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"max=30"`
}

// VerifyAccessRequest carries the emailed code back.
type VerifyAccessRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,len=6,number"`
}

func (r *CreateAccessRequest) normalize() {
	trimPtr(&r.Name)
	trimPtr(&r.Email)
	trimPtr(&r.Phone)
}

func (r *VerifyAccessRequest) normalize() {
	trimPtr(&r.Email)
	trimPtr(&r.Code)
}

// AccessRequestCreatedResponse is returned when a code was sent.
type AccessRequestCreatedResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Message   string    `json:"message"`
}

// AccessStatusResponse reports the access of the caller.
type AccessStatusResponse struct {
	HasAccess bool       `json:"has_access"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Email     string     `json:"email,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// RequestAccess handles POST /api/v1/access-requests.
func (h *Handler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	if !h.accessEnabled(w) {
		return
	}
	var req CreateAccessRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	lang := middleware.GetLanguageCode(r)

	created, err := h.access.Request(r.Context(), service.AccessRequestInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Language:  lang,
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeAccessError(w, r, err)
		return
	}

	WriteCreated(w, AccessRequestCreatedResponse{
		ID:        created.ID,
		Email:     created.Email,
		ExpiresAt: created.CodeExpiresAt,
		Message:   i18n.T(lang, "access.code_sent"),
	})
}

// VerifyAccess handles POST /api/v1/access-requests/verify.
// Success sets the access cookies.
func (h *Handler) VerifyAccess(w http.ResponseWriter, r *http.Request) {
	if !h.accessEnabled(w) {
		return
	}
	var req VerifyAccessRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	grant, err := h.access.Verify(r.Context(), req.Email, req.Code)
	if err != nil {
		h.writeAccessError(w, r, err)
		return
	}

	middleware.SetAccessCookies(w, grant.Token, grant.ExpiresAt, h.cfg.SecureCookies)
	expires := grant.ExpiresAt
	WriteSuccess(w, AccessStatusResponse{
		HasAccess: true,
		ExpiresAt: &expires,
		Email:     grant.Request.Email,
		Message:   i18n.T(middleware.GetLanguageCode(r), "access.verified"),
	}, nil)
}

// AccessStatus handles GET /api/v1/access-requests/status.
func (h *Handler) AccessStatus(w http.ResponseWriter, r *http.Request) {
	if !h.accessEnabled(w) {
		return
	}
	token := ""
	if c, err := r.Cookie(model.AccessCookieName); err == nil {
		token = c.Value
	}

	req, err := h.access.Authorize(r.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrNoAccess) {
			h.logger.Error("failed to check access", "error", err)
			WriteInternalError(w, i18n.T(middleware.GetLanguageCode(r), "error.internal"))
			return
		}
		if token != "" {
			middleware.ClearAccessCookies(w, h.cfg.SecureCookies)
		}
		WriteSuccess(w, AccessStatusResponse{HasAccess: false}, nil)
		return
	}
	WriteSuccess(w, AccessStatusResponse{
		HasAccess: true,
		ExpiresAt: util.TimePtr(req.TokenExpiresAt),
		Email:     req.Email,
	}, nil)
}

// EndAccessSession handles DELETE /api/v1/access-requests/session.
func (h *Handler) EndAccessSession(w http.ResponseWriter, _ *http.Request) {
	middleware.ClearAccessCookies(w, h.cfg.SecureCookies)
	WriteNoContent(w)
}

// writeAccessError maps access flow errors to localized responses.
func (h *Handler) writeAccessError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.GetLanguageCode(r)
	switch {
	case errors.Is(err, service.ErrAccessNotFound):
		WriteError(w, http.StatusNotFound, "access_not_found", i18n.T(lang, "access.not_found"), nil)
	case errors.Is(err, service.ErrAccessExpired):
		WriteError(w, http.StatusGone, "code_expired", i18n.T(lang, "access.expired"), nil)
	case errors.Is(err, service.ErrTooManyAttempts):
		WriteError(w, http.StatusTooManyRequests, "too_many_attempts", i18n.T(lang, "access.too_many_attempts"), nil)
	case errors.Is(err, service.ErrInvalidCode):
		WriteError(w, http.StatusBadRequest, "invalid_code", i18n.T(lang, "access.invalid_code"), nil)
	case errors.Is(err, service.ErrSendFailed):
		WriteError(w, http.StatusBadGateway, "send_failed", i18n.T(lang, "access.send_failed"), nil)
	default:
		h.logger.Error("access flow failed", "error", err)
		WriteInternalError(w, i18n.T(lang, "error.internal"))
	}
}

func (h *Handler) accessEnabled(w http.ResponseWriter) bool {
	if h.access == nil {
		WriteError(w, http.StatusServiceUnavailable, "access_disabled", "Private listings access is not configured", nil)
		return false
	}
	return true
}

// ListAccessRequests handles GET /api/v1/admin/access-requests.
// Supports ?status= and ?email= filters.
func (h *Handler) ListAccessRequests(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	q := r.URL.Query()

	filter := store.AccessRequestFilter{
		Status: q.Get("status"),
		Email:  service.NormalizeEmail(q.Get("email")),
		Limit:  limit,
		Offset: offset,
	}
	if filter.Status != "" && !model.IsValidAccessStatus(filter.Status) {
		WriteBadRequest(w, "Invalid status filter", map[string]string{"status": "Unknown status"})
		return
	}
	ctx := r.Context()

	items, total, err := handler.ListAndCount(
		func() ([]store.AccessRequest, error) { return h.queries.ListAccessRequests(ctx, filter) },
		func() (int64, error) { return h.queries.CountAccessRequests(ctx, filter) },
	)
	if err != nil {
		h.logger.Error("failed to list access requests", "error", err)
		WriteInternalError(w, "Failed to list access requests")
		return
	}
	WriteSuccess(w, mapSlice(items, storeAccessRequestToResponse), NewMeta(total, page, perPage))
}

// GetAccessRequest handles GET /api/v1/admin/access-requests/{id}.
func (h *Handler) GetAccessRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := requireEntityByID(w, r, "access request", func(id int64) (store.AccessRequest, error) {
		return h.queries.GetAccessRequestByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeAccessRequestToResponse(a), nil)
}

// RevokeAccessRequest handles POST /api/v1/admin/access-requests/{id}/revoke.
func (h *Handler) RevokeAccessRequest(w http.ResponseWriter, r *http.Request) {
	if !h.accessEnabled(w) {
		return
	}
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid access request ID", nil)
		return
	}
	a, err := h.access.Revoke(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			WriteNotFound(w, "Access request not found")
			return
		}
		h.logger.Error("failed to revoke access request", "error", err, "request_id", id)
		WriteInternalError(w, "Failed to revoke access request")
		return
	}
	WriteSuccess(w, storeAccessRequestToResponse(a), nil)
}

// DeleteAccessRequest handles DELETE /api/v1/admin/access-requests/{id}.
func (h *Handler) DeleteAccessRequest(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid access request ID", nil)
		return
	}
	if writeDeleteResult(w, h.queries.DeleteAccessRequest(r.Context(), id), "access request") {
		_ = h.events.Info(r.Context(), model.EventCategoryAccess, "Access request deleted", map[string]any{"request_id": id})
	}
}
