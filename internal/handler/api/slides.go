// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/store"
)

// CreateSlideRequest represents the request body for creating a homepage slide.
// A slide needs an image or a video.
type CreateSlideRequest struct {
	Title      string `json:"title" validate:"max=200"`
	Subtitle   string `json:"subtitle" validate:"max=500"`
	ImageURL   string `json:"image_url" validate:"required_without=VideoURL,max=500"`
	VideoURL   string `json:"video_url" validate:"required_without=ImageURL,max=500"`
	LinkURL    string `json:"link_url" validate:"max=500"`
	ButtonText string `json:"button_text" validate:"max=100"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateSlideRequest represents the request body for updating a slide.
type UpdateSlideRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=200"`
	Subtitle   *string `json:"subtitle" validate:"omitempty,max=500"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=500"`
	VideoURL   *string `json:"video_url" validate:"omitempty,max=500"`
	LinkURL    *string `json:"link_url" validate:"omitempty,max=500"`
	ButtonText *string `json:"button_text" validate:"omitempty,max=100"`
	IsActive   *bool   `json:"is_active"`
}

// ListSlides handles GET /api/v1/admin/slides.
func (h *Handler) ListSlides(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListSlides(r.Context())
	if err != nil {
		h.logger.Error("failed to list slides", "error", err)
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteSuccess(w, items, nil)
}

// GetSlide handles GET /api/v1/admin/slides/{id}.
func (h *Handler) GetSlide(w http.ResponseWriter, r *http.Request) {
	s, ok := requireEntityByID(w, r, "slide", func(id int64) (store.Slide, error) {
		return h.queries.GetSlideByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, s, nil)
}

// CreateSlide handles POST /api/v1/admin/slides.
func (h *Handler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	var req CreateSlideRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	position, err := h.queries.NextPosition(ctx, "slides")
	if err != nil {
		h.logger.Error("failed to compute slide position", "error", err)
		WriteInternalError(w, "Failed to create slide")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := time.Now().UTC()
	s, err := h.queries.CreateSlide(ctx, store.CreateSlideParams{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		ImageUrl:   req.ImageURL,
		VideoUrl:   req.VideoURL,
		LinkUrl:    req.LinkURL,
		ButtonText: req.ButtonText,
		Position:   position,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		h.logger.Error("failed to create slide", "error", err)
		WriteInternalError(w, "Failed to create slide")
		return
	}

	h.invalidate(ctx, cache.ResourceSlides)
	WriteCreated(w, s)
}

// UpdateSlide handles PUT /api/v1/admin/slides/{id}.
func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "slide", func(id int64) (store.Slide, error) {
		return h.queries.GetSlideByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateSlideRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := store.UpdateSlideParams{
		Title:      existing.Title,
		Subtitle:   existing.Subtitle,
		ImageUrl:   existing.ImageUrl,
		VideoUrl:   existing.VideoUrl,
		LinkUrl:    existing.LinkUrl,
		ButtonText: existing.ButtonText,
		Position:   existing.Position,
		IsActive:   existing.IsActive,
		UpdatedAt:  time.Now().UTC(),
		ID:         existing.ID,
	}
	setString(&params.Title, req.Title)
	setString(&params.Subtitle, req.Subtitle)
	setString(&params.ImageUrl, req.ImageURL)
	setString(&params.VideoUrl, req.VideoURL)
	setString(&params.LinkUrl, req.LinkURL)
	setString(&params.ButtonText, req.ButtonText)
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if params.ImageUrl == "" && params.VideoUrl == "" {
		WriteValidationError(w, map[string]string{"image_url": "A slide needs an image or a video"})
		return
	}

	s, err := h.queries.UpdateSlide(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to update slide", "error", err, "slide_id", existing.ID)
		WriteInternalError(w, "Failed to update slide")
		return
	}

	h.invalidate(r.Context(), cache.ResourceSlides)
	WriteSuccess(w, s, nil)
}

// DeleteSlide handles DELETE /api/v1/admin/slides/{id}.
func (h *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid slide ID", nil)
		return
	}
	if writeDeleteResult(w, h.queries.DeleteSlide(r.Context(), id), "slide") {
		h.invalidate(r.Context(), cache.ResourceSlides)
	}
}

// ReorderSlides handles PUT /api/v1/admin/slides/reorder.
func (h *Handler) ReorderSlides(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "slides", cache.ResourceSlides)
}

// PublicListSlides handles GET /api/v1/slides.
func (h *Handler) PublicListSlides(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceSlides, "", "list"),
		h.queries.ListActiveSlides)
	if err != nil {
		h.logger.Error("failed to list slides", "error", err)
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteSuccess(w, items, nil)
}
