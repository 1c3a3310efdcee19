// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

// errSectionDisabled hides disabled sections from the public API.
var errSectionDisabled = errors.New("section disabled")

// UpdateSectionRequest represents the request body for updating a homepage
// section. Settings replace the stored object as a whole.
type UpdateSectionRequest struct {
	Title     *string         `json:"title" validate:"omitempty,max=200"`
	Subtitle  *string         `json:"subtitle" validate:"omitempty,max=500"`
	IsEnabled *bool           `json:"is_enabled"`
	Settings  json.RawMessage `json:"settings"`
}

// ListSections handles GET /api/v1/admin/sections.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListSections(r.Context())
	if err != nil {
		h.logger.Error("failed to list sections", "error", err)
		WriteInternalError(w, "Failed to list sections")
		return
	}
	WriteSuccess(w, mapSlice(items, storeSectionToResponse), nil)
}

// GetSection handles GET /api/v1/admin/sections/{key}.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSection(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, storeSectionToResponse(s), nil)
}

// UpdateSection handles PUT /api/v1/admin/sections/{key}.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.requireSection(w, r)
	if !ok {
		return
	}

	var req UpdateSectionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := store.UpdateSectionParams{
		Title:     existing.Title,
		Subtitle:  existing.Subtitle,
		IsEnabled: existing.IsEnabled,
		Settings:  existing.Settings,
		UpdatedAt: time.Now().UTC(),
		Key:       existing.Key,
	}
	setString(&params.Title, req.Title)
	setString(&params.Subtitle, req.Subtitle)
	if req.IsEnabled != nil {
		params.IsEnabled = *req.IsEnabled
	}
	if len(req.Settings) > 0 {
		settings, err := model.NormalizeSectionSettings(existing.Key, req.Settings)
		if err != nil {
			WriteValidationError(w, map[string]string{"settings": err.Error()})
			return
		}
		params.Settings = settings
	}

	s, err := h.queries.UpdateSection(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to update section", "error", err, "key", existing.Key)
		WriteInternalError(w, "Failed to update section")
		return
	}

	_ = h.events.Info(r.Context(), model.EventCategoryContent, "Section updated", map[string]any{"key": s.Key})
	h.invalidate(r.Context(), cache.ResourceSections)
	WriteSuccess(w, storeSectionToResponse(s), nil)
}

// requireSection loads the section named by the {key} URL parameter.
func (h *Handler) requireSection(w http.ResponseWriter, r *http.Request) (store.Section, bool) {
	key := chi.URLParam(r, "key")
	if !model.IsValidSectionKey(key) {
		WriteNotFound(w, "Section not found")
		return store.Section{}, false
	}
	s, err := h.queries.GetSectionByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Section not found")
		} else {
			h.logger.Error("failed to get section", "error", err, "key", key)
			WriteInternalError(w, "Failed to retrieve section")
		}
		return store.Section{}, false
	}
	return s, true
}

// PublicListSections handles GET /api/v1/sections.
// Returns the enabled sections keyed by section key.
func (h *Handler) PublicListSections(w http.ResponseWriter, r *http.Request) {
	lang, isDefault := h.requestLanguage(r)

	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceSections, lang, "list"),
		func(ctx context.Context) (map[string]SectionResponse, error) {
			sections, err := h.queries.ListEnabledSections(ctx)
			if err != nil {
				return nil, err
			}
			fields := h.translationsFor(ctx, model.EntitySection, lang, isDefault)
			out := make(map[string]SectionResponse, len(sections))
			for _, s := range sections {
				resp := storeSectionToResponse(s)
				localizeSection(&resp, fields[s.ID])
				out[s.Key] = resp
			}
			return out, nil
		})
	if err != nil {
		h.logger.Error("failed to list sections", "error", err)
		WriteInternalError(w, "Failed to list sections")
		return
	}
	WriteSuccess(w, items, nil)
}

// PublicGetSection handles GET /api/v1/sections/{key}.
func (h *Handler) PublicGetSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !model.IsValidSectionKey(key) {
		WriteNotFound(w, "Section not found")
		return
	}
	lang, isDefault := h.requestLanguage(r)

	resp, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceSections, lang, "key", key),
		func(ctx context.Context) (SectionResponse, error) {
			s, err := h.queries.GetSectionByKey(ctx, key)
			if err != nil {
				return SectionResponse{}, err
			}
			if !s.IsEnabled {
				return SectionResponse{}, errSectionDisabled
			}
			resp := storeSectionToResponse(s)
			if !isDefault {
				fields, err := h.translations.Fields(ctx, model.EntitySection, s.ID, lang)
				if err != nil {
					h.logger.Warn("failed to load section translations", "error", err, "key", key)
				}
				localizeSection(&resp, fields)
			}
			return resp, nil
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, errSectionDisabled) {
			WriteNotFound(w, "Section not found")
			return
		}
		h.logger.Error("failed to get section", "error", err, "key", key)
		WriteInternalError(w, "Failed to retrieve section")
		return
	}
	WriteSuccess(w, resp, nil)
}
