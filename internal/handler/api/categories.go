// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

var categoryResources = []cache.Resource{
	cache.ResourceCategories,
	cache.ResourceProperties,
	cache.ResourceSitemap,
}

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120,slug"`
	Description string `json:"description" validate:"max=1000"`
	Icon        string `json:"icon" validate:"max=100"`
}

// UpdateCategoryRequest represents the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=120,slug"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

// ListCategories handles GET /api/v1/admin/categories.
// Counts include private properties.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListCategoriesWithCounts(r.Context(), true)
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, mapSlice(items, storeCategoryWithCountToResponse), nil)
}

// GetCategory handles GET /api/v1/admin/categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := requireEntityByID(w, r, "category", func(id int64) (store.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeCategoryToResponse(c), nil)
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	slug, ok := resolveSlug(w, r, req.Slug, req.Name, h.queries.CategorySlugExists)
	if !ok {
		return
	}
	position, err := h.queries.NextPosition(ctx, "categories")
	if err != nil {
		h.logger.Error("failed to compute category position", "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}

	now := time.Now().UTC()
	c, err := h.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Icon:        req.Icon,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.logger.Error("failed to create category", "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryContent, "Category created",
		map[string]any{"category_id": c.ID, "name": c.Name})
	h.invalidate(ctx, categoryResources...)
	WriteCreated(w, storeCategoryToResponse(c))
}

// UpdateCategory handles PUT /api/v1/admin/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "category", func(id int64) (store.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	params := store.UpdateCategoryParams{
		Name:        existing.Name,
		Slug:        existing.Slug,
		Description: existing.Description,
		Icon:        existing.Icon,
		Position:    existing.Position,
		UpdatedAt:   time.Now().UTC(),
		ID:          existing.ID,
	}
	if req.Slug != nil && !h.checkUpdatedSlug(w, *req.Slug, existing.Slug, func() (int64, error) {
		return h.queries.CategorySlugExistsExcluding(ctx, store.SlugExistsExcludingParams{Slug: *req.Slug, ID: existing.ID})
	}) {
		return
	}
	setString(&params.Slug, req.Slug)
	setString(&params.Name, req.Name)
	setString(&params.Description, req.Description)
	setString(&params.Icon, req.Icon)

	c, err := h.queries.UpdateCategory(ctx, params)
	if err != nil {
		h.logger.Error("failed to update category", "error", err, "category_id", existing.ID)
		WriteInternalError(w, "Failed to update category")
		return
	}

	h.invalidate(ctx, categoryResources...)
	WriteSuccess(w, storeCategoryToResponse(c), nil)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{id}.
// Properties of the category become uncategorized.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID", nil)
		return
	}
	ctx := r.Context()

	if !writeDeleteResult(w, h.queries.DeleteCategory(ctx, id), "category") {
		return
	}
	if err := h.translations.DeleteEntity(ctx, model.EntityCategory, id); err != nil {
		h.logger.Warn("failed to delete category translations", "error", err, "category_id", id)
	}
	_ = h.events.Info(ctx, model.EventCategoryContent, "Category deleted", map[string]any{"category_id": id})
	h.invalidate(ctx, categoryResources...)
}

// ReorderCategories handles PUT /api/v1/admin/categories/reorder.
func (h *Handler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "categories", cache.ResourceCategories)
}

// PublicListCategories handles GET /api/v1/categories.
// Counts cover public properties only.
func (h *Handler) PublicListCategories(w http.ResponseWriter, r *http.Request) {
	lang, isDefault := h.requestLanguage(r)

	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceCategories, lang, "list"),
		func(ctx context.Context) ([]CategoryResponse, error) {
			cats, err := h.queries.ListCategoriesWithCounts(ctx, false)
			if err != nil {
				return nil, err
			}
			fields := h.translationsFor(ctx, model.EntityCategory, lang, isDefault)
			out := mapSlice(cats, storeCategoryWithCountToResponse)
			for i := range out {
				localizeCategory(&out[i], fields[out[i].ID])
			}
			return out, nil
		})
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, items, nil)
}

// PublicGetCategory handles GET /api/v1/categories/{slug}.
func (h *Handler) PublicGetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang, isDefault := h.requestLanguage(r)

	resp, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceCategories, lang, "slug", slug),
		func(ctx context.Context) (CategoryResponse, error) {
			c, err := h.queries.GetCategoryBySlug(ctx, slug)
			if err != nil {
				return CategoryResponse{}, err
			}
			resp := storeCategoryToResponse(c)
			if !isDefault {
				fields, err := h.translations.Fields(ctx, model.EntityCategory, c.ID, lang)
				if err != nil {
					h.logger.Warn("failed to load category translations", "error", err, "category_id", c.ID)
				}
				localizeCategory(&resp, fields)
			}
			return resp, nil
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("failed to get category", "error", err, "slug", slug)
		WriteInternalError(w, "Failed to retrieve category")
		return
	}
	WriteSuccess(w, resp, nil)
}

// checkUpdatedSlug validates a changed slug. Returns false when a response
// was written.
func (h *Handler) checkUpdatedSlug(w http.ResponseWriter, slug, current string, exists handler.SlugExistsFunc) bool {
	msg := handler.ValidateSlugForUpdate(slug, current, exists)
	switch msg {
	case "":
		return true
	case "Error checking slug":
		WriteInternalError(w, "Failed to check slug")
	default:
		WriteValidationError(w, map[string]string{"slug": msg})
	}
	return false
}
