// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/scheduler"
	"github.com/olegiv/orealty/internal/store"
)

// JobRunner lists and triggers the background maintenance jobs.
type JobRunner interface {
	List() []scheduler.JobInfo
	TriggerNow(ctx context.Context, name string) error
}

// CacheStatsResponse describes the public response cache.
type CacheStatsResponse struct {
	Enabled     bool        `json:"enabled"`
	Stats       cache.Stats `json:"stats"`
	HealthError string      `json:"health_error,omitempty"`
}

// CacheStats handles GET /api/v1/admin/cache.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteSuccess(w, CacheStatsResponse{}, nil)
		return
	}
	resp := CacheStatsResponse{Enabled: true, Stats: h.cache.Stats()}
	if err := h.cache.HealthCheck(r.Context()); err != nil {
		resp.HealthError = err.Error()
	}
	WriteSuccess(w, resp, nil)
}

// ClearCache handles DELETE /api/v1/admin/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteNoContent(w)
		return
	}
	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear cache", "error", err)
		WriteInternalError(w, "Failed to clear cache")
		return
	}
	h.logger.Info("cache cleared", "cleared_by", middleware.GetUserID(r))
	_ = h.events.Info(r.Context(), model.EventCategoryCache, "All caches cleared", nil)
	WriteNoContent(w)
}

// ListEvents handles GET /api/v1/admin/events.
// Supports ?level= and ?category= filters.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	q := r.URL.Query()
	filter := store.EventFilter{
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}
	if filter.Level != "" && !model.IsValidEventLevel(filter.Level) {
		WriteBadRequest(w, "Invalid level filter", map[string]string{"level": "Unknown level"})
		return
	}
	ctx := r.Context()

	items, total, err := handler.ListAndCount(
		func() ([]store.Event, error) { return h.queries.ListEvents(ctx, filter) },
		func() (int64, error) { return h.queries.CountEvents(ctx, filter) },
	)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	WriteSuccess(w, mapSlice(items, storeEventToResponse), NewMeta(total, page, perPage))
}

// ListJobs handles GET /api/v1/admin/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	if h.jobs == nil {
		WriteSuccess(w, []scheduler.JobInfo{}, nil)
		return
	}
	WriteSuccess(w, h.jobs.List(), nil)
}

// RunJob handles POST /api/v1/admin/jobs/{name}/run.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		WriteNotFound(w, "Job not found")
		return
	}
	if err := h.jobs.TriggerNow(r.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteNotFound(w, "Job not found")
			return
		}
		WriteError(w, http.StatusBadGateway, "job_failed", err.Error(), nil)
		return
	}
	_ = h.events.Info(r.Context(), model.EventCategorySystem, "Job triggered manually",
		map[string]any{"job": name, "user_id": middleware.GetUserID(r)})
	WriteNoContent(w)
}
