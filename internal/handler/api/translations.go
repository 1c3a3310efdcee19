// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
)

// entityResources maps a translatable entity to the cached resources its
// translations appear in.
var entityResources = map[string][]cache.Resource{
	model.EntityProperty:    {cache.ResourceProperties},
	model.EntityCategory:    {cache.ResourceCategories, cache.ResourceProperties},
	model.EntityAgent:       {cache.ResourceAgents, cache.ResourceProperties},
	model.EntityTestimonial: {cache.ResourceTestimonials},
	model.EntityPost:        {cache.ResourcePosts},
	model.EntitySection:     {cache.ResourceSections},
}

// FieldTranslationsResponse is the translated fields of one entity in one language.
type FieldTranslationsResponse struct {
	Entity       string            `json:"entity"`
	EntityID     int64             `json:"entity_id"`
	Language     string            `json:"language"`
	Fields       map[string]string `json:"fields"`
	Translatable []string          `json:"translatable"`
}

// PublicUIStrings handles GET /api/v1/translations.
// Returns the dictionary of the request language over the default one.
func (h *Handler) PublicUIStrings(w http.ResponseWriter, r *http.Request) {
	lang, _ := h.requestLanguage(r)

	values, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceTranslations, lang, "ui"),
		func(ctx context.Context) (map[string]string, error) {
			return h.translations.UIStrings(ctx, lang, h.defaultLanguage(ctx))
		})
	if err != nil {
		h.logger.Error("failed to load ui strings", "error", err, "lang", lang)
		WriteInternalError(w, "Failed to load translations")
		return
	}
	WriteSuccess(w, values, nil)
}

// ListUIStrings handles GET /api/v1/admin/translations/{lang}.
// Lists the strings stored for that language only.
func (h *Handler) ListUIStrings(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.requireLanguageCode(w, r)
	if !ok {
		return
	}
	values, err := h.translations.UIStrings(r.Context(), lang, lang)
	if err != nil {
		h.logger.Error("failed to list ui strings", "error", err, "lang", lang)
		WriteInternalError(w, "Failed to list translations")
		return
	}
	WriteSuccess(w, values, nil)
}

// SetUIStrings handles PUT /api/v1/admin/translations/{lang}.
// The body is a key to value map; empty values remove keys.
func (h *Handler) SetUIStrings(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")

	var values map[string]string
	if !decodeJSON(w, r, &values) {
		return
	}
	for key := range values {
		if len(key) > 200 {
			WriteValidationError(w, map[string]string{key: "Key is too long"})
			return
		}
	}

	if err := h.translations.SetUIStrings(r.Context(), lang, values); err != nil {
		if errors.Is(err, service.ErrUnknownLanguage) {
			WriteNotFound(w, "Language not found")
			return
		}
		h.logger.Error("failed to save ui strings", "error", err, "lang", lang)
		WriteInternalError(w, "Failed to save translations")
		return
	}
	h.invalidate(r.Context(), cache.ResourceTranslations)

	updated, err := h.translations.UIStrings(r.Context(), lang, lang)
	if err != nil {
		WriteInternalError(w, "Failed to list translations")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteUIString handles DELETE /api/v1/admin/translations/{lang}/{key}.
func (h *Handler) DeleteUIString(w http.ResponseWriter, r *http.Request) {
	err := h.queries.DeleteUiString(r.Context(), store.DeleteUiStringParams{
		LanguageCode: chi.URLParam(r, "lang"),
		Key:          chi.URLParam(r, "key"),
	})
	if writeDeleteResult(w, err, "translation") {
		h.invalidate(r.Context(), cache.ResourceTranslations)
	}
}

// requireLanguageCode resolves the {lang} URL parameter to a known language.
func (h *Handler) requireLanguageCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "lang")
	if _, err := h.queries.GetLanguageByCode(r.Context(), code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
		} else {
			WriteInternalError(w, "Failed to retrieve language")
		}
		return "", false
	}
	return code, true
}

// GetFieldTranslations returns the handler of
// GET /api/v1/admin/{resource}/{id}/translations/{lang} for entity.
func (h *Handler) GetFieldTranslations(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.requireTranslatable(w, r, entity)
		if !ok {
			return
		}
		lang, ok := h.requireLanguageCode(w, r)
		if !ok {
			return
		}

		fields, err := h.translations.Fields(r.Context(), entity, id, lang)
		if err != nil {
			h.logger.Error("failed to load translations", "error", err, "entity", entity, "id", id)
			WriteInternalError(w, "Failed to load translations")
			return
		}
		WriteSuccess(w, FieldTranslationsResponse{
			Entity:       entity,
			EntityID:     id,
			Language:     lang,
			Fields:       fields,
			Translatable: model.TranslatableFields[entity],
		}, nil)
	}
}

// SetFieldTranslations returns the handler of
// PUT /api/v1/admin/{resource}/{id}/translations/{lang} for entity.
// The body maps field names to values; empty values remove translations.
func (h *Handler) SetFieldTranslations(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.requireTranslatable(w, r, entity)
		if !ok {
			return
		}
		lang := chi.URLParam(r, "lang")

		var values map[string]string
		if !decodeJSON(w, r, &values) {
			return
		}

		fields, err := h.translations.SetFields(r.Context(), entity, id, lang, values)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnknownLanguage):
				WriteNotFound(w, "Language not found")
			case errors.Is(err, service.ErrInvalidField):
				WriteValidationError(w, map[string]string{"fields": err.Error()})
			default:
				h.logger.Error("failed to save translations", "error", err, "entity", entity, "id", id)
				WriteInternalError(w, "Failed to save translations")
			}
			return
		}

		h.invalidate(r.Context(), entityResources[entity]...)
		WriteSuccess(w, FieldTranslationsResponse{
			Entity:       entity,
			EntityID:     id,
			Language:     lang,
			Fields:       fields,
			Translatable: model.TranslatableFields[entity],
		}, nil)
	}
}

// requireTranslatable resolves the entity named by the URL to its ID.
// Sections are addressed by key, everything else by numeric ID.
func (h *Handler) requireTranslatable(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	ctx := r.Context()
	if entity == model.EntitySection {
		s, ok := h.requireSection(w, r)
		return s.ID, ok
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entity+" ID", nil)
		return 0, false
	}

	switch entity {
	case model.EntityProperty:
		_, err = h.queries.GetPropertyByID(ctx, id)
	case model.EntityCategory:
		_, err = h.queries.GetCategoryByID(ctx, id)
	case model.EntityAgent:
		_, err = h.queries.GetAgentByID(ctx, id)
	case model.EntityTestimonial:
		_, err = h.queries.GetTestimonialByID(ctx, id)
	case model.EntityPost:
		_, err = h.queries.GetContentByID(ctx, id)
	default:
		WriteNotFound(w, "Unknown resource")
		return 0, false
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entity)+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entity)
		}
		return 0, false
	}
	return id, true
}
