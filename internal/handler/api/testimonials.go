// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

// CreateTestimonialRequest represents the request body for creating a testimonial.
type CreateTestimonialRequest struct {
	AuthorName  string `json:"author_name" validate:"required,max=100"`
	AuthorTitle string `json:"author_title" validate:"max=100"`
	Content     string `json:"content" validate:"required,max=2000"`
	Rating      int64  `json:"rating" validate:"required,min=1,max=5"`
	PhotoURL    string `json:"photo_url" validate:"max=500"`
	IsPublished *bool  `json:"is_published"`
}

// UpdateTestimonialRequest represents the request body for updating a testimonial.
type UpdateTestimonialRequest struct {
	AuthorName  *string `json:"author_name" validate:"omitempty,min=1,max=100"`
	AuthorTitle *string `json:"author_title" validate:"omitempty,max=100"`
	Content     *string `json:"content" validate:"omitempty,min=1,max=2000"`
	Rating      *int64  `json:"rating" validate:"omitempty,min=1,max=5"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,max=500"`
	IsPublished *bool   `json:"is_published"`
}

// ListTestimonials handles GET /api/v1/admin/testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListTestimonials(r.Context())
	if err != nil {
		h.logger.Error("failed to list testimonials", "error", err)
		WriteInternalError(w, "Failed to list testimonials")
		return
	}
	WriteSuccess(w, mapSlice(items, storeTestimonialToResponse), nil)
}

// GetTestimonial handles GET /api/v1/admin/testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (store.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeTestimonialToResponse(t), nil)
}

// CreateTestimonial handles POST /api/v1/admin/testimonials.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req CreateTestimonialRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	position, err := h.queries.NextPosition(ctx, "testimonials")
	if err != nil {
		h.logger.Error("failed to compute testimonial position", "error", err)
		WriteInternalError(w, "Failed to create testimonial")
		return
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	now := time.Now().UTC()
	t, err := h.queries.CreateTestimonial(ctx, store.CreateTestimonialParams{
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorTitle: req.AuthorTitle,
		Content:     req.Content,
		Rating:      req.Rating,
		PhotoUrl:    req.PhotoURL,
		IsPublished: published,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.logger.Error("failed to create testimonial", "error", err)
		WriteInternalError(w, "Failed to create testimonial")
		return
	}

	h.invalidate(ctx, cache.ResourceTestimonials)
	WriteCreated(w, storeTestimonialToResponse(t))
}

// UpdateTestimonial handles PUT /api/v1/admin/testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "testimonial", func(id int64) (store.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateTestimonialRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := store.UpdateTestimonialParams{
		AuthorName:  existing.AuthorName,
		AuthorTitle: existing.AuthorTitle,
		Content:     existing.Content,
		Rating:      existing.Rating,
		PhotoUrl:    existing.PhotoUrl,
		IsPublished: existing.IsPublished,
		Position:    existing.Position,
		UpdatedAt:   time.Now().UTC(),
		ID:          existing.ID,
	}
	setString(&params.AuthorName, req.AuthorName)
	setString(&params.AuthorTitle, req.AuthorTitle)
	setString(&params.Content, req.Content)
	setString(&params.PhotoUrl, req.PhotoURL)
	if req.Rating != nil {
		params.Rating = *req.Rating
	}
	if req.IsPublished != nil {
		params.IsPublished = *req.IsPublished
	}

	t, err := h.queries.UpdateTestimonial(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to update testimonial", "error", err, "testimonial_id", existing.ID)
		WriteInternalError(w, "Failed to update testimonial")
		return
	}

	h.invalidate(r.Context(), cache.ResourceTestimonials)
	WriteSuccess(w, storeTestimonialToResponse(t), nil)
}

// DeleteTestimonial handles DELETE /api/v1/admin/testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid testimonial ID", nil)
		return
	}
	ctx := r.Context()

	if !writeDeleteResult(w, h.queries.DeleteTestimonial(ctx, id), "testimonial") {
		return
	}
	if err := h.translations.DeleteEntity(ctx, model.EntityTestimonial, id); err != nil {
		h.logger.Warn("failed to delete testimonial translations", "error", err, "testimonial_id", id)
	}
	h.invalidate(ctx, cache.ResourceTestimonials)
}

// ReorderTestimonials handles PUT /api/v1/admin/testimonials/reorder.
func (h *Handler) ReorderTestimonials(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "testimonials", cache.ResourceTestimonials)
}

// PublicListTestimonials handles GET /api/v1/testimonials.
func (h *Handler) PublicListTestimonials(w http.ResponseWriter, r *http.Request) {
	lang, isDefault := h.requestLanguage(r)

	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceTestimonials, lang, "list"),
		func(ctx context.Context) ([]TestimonialResponse, error) {
			list, err := h.queries.ListPublishedTestimonials(ctx)
			if err != nil {
				return nil, err
			}
			fields := h.translationsFor(ctx, model.EntityTestimonial, lang, isDefault)
			out := mapSlice(list, storeTestimonialToResponse)
			for i := range out {
				localizeTestimonial(&out[i], fields[out[i].ID])
			}
			return out, nil
		})
	if err != nil {
		h.logger.Error("failed to list testimonials", "error", err)
		WriteInternalError(w, "Failed to list testimonials")
		return
	}
	WriteSuccess(w, items, nil)
}
