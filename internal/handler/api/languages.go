// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

// A language change affects every localized payload.
var languageResources = []cache.Resource{
	cache.ResourceLanguages,
	cache.ResourceTranslations,
	cache.ResourceProperties,
	cache.ResourceCategories,
	cache.ResourceAgents,
	cache.ResourceTestimonials,
	cache.ResourcePosts,
	cache.ResourceSections,
	cache.ResourceSitemap,
}

// LanguageResponse represents a language in API responses.
type LanguageResponse struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsDefault  bool   `json:"is_default"`
	IsActive   bool   `json:"is_active"`
	Direction  string `json:"direction"`
	Position   int64  `json:"position"`
}

func storeLanguageToResponse(l store.Language) LanguageResponse {
	return LanguageResponse{
		ID:         l.ID,
		Code:       l.Code,
		Name:       l.Name,
		NativeName: l.NativeName,
		IsDefault:  l.IsDefault,
		IsActive:   l.IsActive,
		Direction:  l.Direction,
		Position:   l.Position,
	}
}

// CreateLanguageRequest represents the request body for creating a language.
type CreateLanguageRequest struct {
	Code       string `json:"code" validate:"required,max=10,bcp47_language_tag"`
	Name       string `json:"name" validate:"required,max=50"`
	NativeName string `json:"native_name" validate:"max=50"`
	IsActive   *bool  `json:"is_active"`
	Direction  string `json:"direction" validate:"direction"`
}

// UpdateLanguageRequest represents the request body for updating a language.
// The code is immutable.
type UpdateLanguageRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=50"`
	NativeName *string `json:"native_name" validate:"omitempty,max=50"`
	IsActive   *bool   `json:"is_active"`
	Direction  *string `json:"direction" validate:"omitempty,direction"`
}

// PublicListLanguages handles GET /api/v1/languages.
func (h *Handler) PublicListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceLanguages, "", "active"),
		h.queries.ListActiveLanguages)
	if err != nil {
		h.logger.Error("failed to list languages", "error", err)
		WriteInternalError(w, "Failed to list languages")
		return
	}
	WriteSuccess(w, mapSlice(langs, storeLanguageToResponse), nil)
}

// ListLanguages handles GET /api/v1/admin/languages.
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.queries.ListLanguages(r.Context())
	if err != nil {
		h.logger.Error("failed to list languages", "error", err)
		WriteInternalError(w, "Failed to list languages")
		return
	}
	WriteSuccess(w, mapSlice(langs, storeLanguageToResponse), nil)
}

// GetLanguage handles GET /api/v1/admin/languages/{id}.
func (h *Handler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	l, ok := requireEntityByID(w, r, "language", func(id int64) (store.Language, error) {
		return h.queries.GetLanguageByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeLanguageToResponse(l), nil)
}

// CreateLanguage handles POST /api/v1/admin/languages.
// The first language becomes the default.
func (h *Handler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	var req CreateLanguageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	code := strings.ToLower(req.Code)

	if _, err := h.queries.GetLanguageByCode(ctx, code); err == nil {
		WriteValidationError(w, map[string]string{"code": "Language already exists"})
		return
	}
	count, err := h.queries.CountLanguages(ctx)
	if err != nil {
		h.logger.Error("failed to count languages", "error", err)
		WriteInternalError(w, "Failed to create language")
		return
	}
	position, err := h.queries.NextPosition(ctx, "languages")
	if err != nil {
		h.logger.Error("failed to compute language position", "error", err)
		WriteInternalError(w, "Failed to create language")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	nativeName := valueOr(req.NativeName, req.Name)
	now := time.Now().UTC()
	l, err := h.queries.CreateLanguage(ctx, store.CreateLanguageParams{
		Code:       code,
		Name:       req.Name,
		NativeName: nativeName,
		IsDefault:  count == 0,
		IsActive:   active || count == 0,
		Direction:  valueOr(req.Direction, model.DirectionLTR),
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		h.logger.Error("failed to create language", "error", err)
		WriteInternalError(w, "Failed to create language")
		return
	}

	_ = h.events.Info(ctx, model.EventCategorySystem, "Language created", map[string]any{"code": l.Code})
	h.invalidate(ctx, languageResources...)
	WriteCreated(w, storeLanguageToResponse(l))
}

// UpdateLanguage handles PUT /api/v1/admin/languages/{id}.
// The default language cannot be deactivated.
func (h *Handler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "language", func(id int64) (store.Language, error) {
		return h.queries.GetLanguageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateLanguageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if existing.IsDefault && req.IsActive != nil && !*req.IsActive {
		WriteValidationError(w, map[string]string{"is_active": "The default language cannot be deactivated"})
		return
	}

	params := store.UpdateLanguageParams{
		Name:       existing.Name,
		NativeName: existing.NativeName,
		IsActive:   existing.IsActive,
		Direction:  existing.Direction,
		Position:   existing.Position,
		UpdatedAt:  time.Now().UTC(),
		ID:         existing.ID,
	}
	setString(&params.Name, req.Name)
	setString(&params.NativeName, req.NativeName)
	setString(&params.Direction, req.Direction)
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	l, err := h.queries.UpdateLanguage(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to update language", "error", err, "language_id", existing.ID)
		WriteInternalError(w, "Failed to update language")
		return
	}

	h.invalidate(r.Context(), languageResources...)
	WriteSuccess(w, storeLanguageToResponse(l), nil)
}

// DeleteLanguage handles DELETE /api/v1/admin/languages/{id}.
// Deleting a language drops its strings and field translations.
func (h *Handler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	l, ok := requireEntityByID(w, r, "language", func(id int64) (store.Language, error) {
		return h.queries.GetLanguageByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if l.IsDefault {
		WriteConflict(w, "default_language", "The default language cannot be deleted")
		return
	}
	ctx := r.Context()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		WriteInternalError(w, "Failed to delete language")
		return
	}
	defer func() { _ = tx.Rollback() }()

	qtx := h.queries.WithTx(tx)
	if err := errors.Join(
		qtx.DeleteUiStringsForLanguage(ctx, l.Code),
		qtx.DeleteFieldTranslationsForLanguage(ctx, l.Code),
		qtx.DeleteLanguage(ctx, l.ID),
	); err != nil {
		h.logger.Error("failed to delete language", "error", err, "code", l.Code)
		WriteInternalError(w, "Failed to delete language")
		return
	}
	if err := tx.Commit(); err != nil {
		h.logger.Error("failed to commit language deletion", "error", err, "code", l.Code)
		WriteInternalError(w, "Failed to delete language")
		return
	}

	_ = h.events.Info(ctx, model.EventCategorySystem, "Language deleted", map[string]any{"code": l.Code})
	h.invalidate(ctx, languageResources...)
	WriteNoContent(w)
}

// SetDefaultLanguage handles POST /api/v1/admin/languages/{id}/default.
// The new default is activated as well.
func (h *Handler) SetDefaultLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid language ID", nil)
		return
	}
	ctx := r.Context()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		WriteInternalError(w, "Failed to set default language")
		return
	}
	defer func() { _ = tx.Rollback() }()

	qtx := h.queries.WithTx(tx)
	if err := qtx.ClearDefaultLanguage(ctx); err != nil {
		h.logger.Error("failed to clear default language", "error", err)
		WriteInternalError(w, "Failed to set default language")
		return
	}
	if err := qtx.SetDefaultLanguage(ctx, store.SetDefaultLanguageParams{UpdatedAt: time.Now().UTC(), ID: id}); err != nil {
		if isNotFound(err) {
			WriteNotFound(w, "Language not found")
			return
		}
		h.logger.Error("failed to set default language", "error", err, "language_id", id)
		WriteInternalError(w, "Failed to set default language")
		return
	}
	if err := tx.Commit(); err != nil {
		WriteInternalError(w, "Failed to set default language")
		return
	}

	l, err := h.queries.GetLanguageByID(ctx, id)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve language")
		return
	}
	_ = h.events.Info(ctx, model.EventCategorySystem, "Default language changed", map[string]any{"code": l.Code})
	h.invalidate(ctx, languageResources...)
	WriteSuccess(w, storeLanguageToResponse(l), nil)
}
