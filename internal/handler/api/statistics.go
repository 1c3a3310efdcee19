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

// CreateStatisticRequest represents the request body for creating a homepage counter.
type CreateStatisticRequest struct {
	Label  string `json:"label" validate:"required,max=100"`
	Value  int64  `json:"value" validate:"gte=0"`
	Suffix string `json:"suffix" validate:"max=20"`
	Icon   string `json:"icon" validate:"max=100"`
}

// UpdateStatisticRequest represents the request body for updating a counter.
type UpdateStatisticRequest struct {
	Label  *string `json:"label" validate:"omitempty,min=1,max=100"`
	Value  *int64  `json:"value" validate:"omitempty,gte=0"`
	Suffix *string `json:"suffix" validate:"omitempty,max=20"`
	Icon   *string `json:"icon" validate:"omitempty,max=100"`
}

// ListStatistics handles GET /api/v1/admin/statistics.
func (h *Handler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListStatistics(r.Context())
	if err != nil {
		h.logger.Error("failed to list statistics", "error", err)
		WriteInternalError(w, "Failed to list statistics")
		return
	}
	WriteSuccess(w, items, nil)
}

// GetStatistic handles GET /api/v1/admin/statistics/{id}.
func (h *Handler) GetStatistic(w http.ResponseWriter, r *http.Request) {
	s, ok := requireEntityByID(w, r, "statistic", func(id int64) (store.Statistic, error) {
		return h.queries.GetStatisticByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, s, nil)
}

// CreateStatistic handles POST /api/v1/admin/statistics.
func (h *Handler) CreateStatistic(w http.ResponseWriter, r *http.Request) {
	var req CreateStatisticRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	position, err := h.queries.NextPosition(ctx, "statistics")
	if err != nil {
		h.logger.Error("failed to compute statistic position", "error", err)
		WriteInternalError(w, "Failed to create statistic")
		return
	}

	now := time.Now().UTC()
	s, err := h.queries.CreateStatistic(ctx, store.CreateStatisticParams{
		Label:     req.Label,
		Value:     req.Value,
		Suffix:    req.Suffix,
		Icon:      req.Icon,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.logger.Error("failed to create statistic", "error", err)
		WriteInternalError(w, "Failed to create statistic")
		return
	}

	h.invalidate(ctx, cache.ResourceStatistics)
	WriteCreated(w, s)
}

// UpdateStatistic handles PUT /api/v1/admin/statistics/{id}.
func (h *Handler) UpdateStatistic(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "statistic", func(id int64) (store.Statistic, error) {
		return h.queries.GetStatisticByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateStatisticRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := store.UpdateStatisticParams{
		Label:     existing.Label,
		Value:     existing.Value,
		Suffix:    existing.Suffix,
		Icon:      existing.Icon,
		Position:  existing.Position,
		UpdatedAt: time.Now().UTC(),
		ID:        existing.ID,
	}
	setString(&params.Label, req.Label)
	setString(&params.Suffix, req.Suffix)
	setString(&params.Icon, req.Icon)
	if req.Value != nil {
		params.Value = *req.Value
	}

	s, err := h.queries.UpdateStatistic(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to update statistic", "error", err, "statistic_id", existing.ID)
		WriteInternalError(w, "Failed to update statistic")
		return
	}

	h.invalidate(r.Context(), cache.ResourceStatistics)
	WriteSuccess(w, s, nil)
}

// DeleteStatistic handles DELETE /api/v1/admin/statistics/{id}.
func (h *Handler) DeleteStatistic(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid statistic ID", nil)
		return
	}
	if writeDeleteResult(w, h.queries.DeleteStatistic(r.Context(), id), "statistic") {
		h.invalidate(r.Context(), cache.ResourceStatistics)
	}
}

// ReorderStatistics handles PUT /api/v1/admin/statistics/reorder.
func (h *Handler) ReorderStatistics(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "statistics", cache.ResourceStatistics)
}

// PublicListStatistics handles GET /api/v1/statistics.
func (h *Handler) PublicListStatistics(w http.ResponseWriter, r *http.Request) {
	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceStatistics, "", "list"),
		h.queries.ListStatistics)
	if err != nil {
		h.logger.Error("failed to list statistics", "error", err)
		WriteInternalError(w, "Failed to list statistics")
		return
	}
	WriteSuccess(w, items, nil)
}
