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

var agentResources = []cache.Resource{
	cache.ResourceAgents,
	cache.ResourceProperties,
	cache.ResourceSitemap,
}

// errAgentInactive hides deactivated agents from the public API.
var errAgentInactive = errors.New("agent inactive")

// CreateAgentRequest represents the request body for creating an agent.
type CreateAgentRequest struct {
	Name     string            `json:"name" validate:"required,max=100"`
	Slug     string            `json:"slug" validate:"omitempty,max=120,slug"`
	Title    string            `json:"title" validate:"max=100"`
	Email    string            `json:"email" validate:"omitempty,email,max=254"`
	Phone    string            `json:"phone" validate:"max=50"`
	PhotoURL string            `json:"photo_url" validate:"max=500"`
	Bio      string            `json:"bio"`
	Socials  model.SocialLinks `json:"socials" validate:"omitempty,max=20,dive,keys,max=30,endkeys,omitempty,url"`
	IsActive *bool             `json:"is_active"`
}

// UpdateAgentRequest represents the request body for updating an agent.
type UpdateAgentRequest struct {
	Name     *string            `json:"name" validate:"omitempty,min=1,max=100"`
	Slug     *string            `json:"slug" validate:"omitempty,min=1,max=120,slug"`
	Title    *string            `json:"title" validate:"omitempty,max=100"`
	Email    *string            `json:"email" validate:"omitempty,email,max=254"`
	Phone    *string            `json:"phone" validate:"omitempty,max=50"`
	PhotoURL *string            `json:"photo_url" validate:"omitempty,max=500"`
	Bio      *string            `json:"bio"`
	Socials  *model.SocialLinks `json:"socials" validate:"omitempty,max=20,dive,keys,max=30,endkeys,omitempty,url"`
	IsActive *bool              `json:"is_active"`
}

// ListAgents handles GET /api/v1/admin/agents.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListAgents(r.Context())
	if err != nil {
		h.logger.Error("failed to list agents", "error", err)
		WriteInternalError(w, "Failed to list agents")
		return
	}
	WriteSuccess(w, mapSlice(items, storeAgentToResponse), nil)
}

// GetAgent handles GET /api/v1/admin/agents/{id}.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := requireEntityByID(w, r, "agent", func(id int64) (store.Agent, error) {
		return h.queries.GetAgentByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeAgentToResponse(a), nil)
}

// CreateAgent handles POST /api/v1/admin/agents.
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	slug, ok := resolveSlug(w, r, req.Slug, req.Name, h.queries.AgentSlugExists)
	if !ok {
		return
	}
	position, err := h.queries.NextPosition(ctx, "agents")
	if err != nil {
		h.logger.Error("failed to compute agent position", "error", err)
		WriteInternalError(w, "Failed to create agent")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := time.Now().UTC()
	a, err := h.queries.CreateAgent(ctx, store.CreateAgentParams{
		Name:      strings.TrimSpace(req.Name),
		Slug:      slug,
		Title:     req.Title,
		Email:     strings.TrimSpace(req.Email),
		Phone:     req.Phone,
		PhotoUrl:  req.PhotoURL,
		Bio:       req.Bio,
		Socials:   req.Socials.Encode(),
		Position:  position,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.logger.Error("failed to create agent", "error", err)
		WriteInternalError(w, "Failed to create agent")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryContent, "Agent created",
		map[string]any{"agent_id": a.ID, "name": a.Name})
	h.invalidate(ctx, agentResources...)
	WriteCreated(w, storeAgentToResponse(a))
}

// UpdateAgent handles PUT /api/v1/admin/agents/{id}.
func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "agent", func(id int64) (store.Agent, error) {
		return h.queries.GetAgentByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateAgentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.Slug != nil && !h.checkUpdatedSlug(w, *req.Slug, existing.Slug, func() (int64, error) {
		return h.queries.AgentSlugExistsExcluding(ctx, store.SlugExistsExcludingParams{Slug: *req.Slug, ID: existing.ID})
	}) {
		return
	}

	params := store.UpdateAgentParams{
		Name:      existing.Name,
		Slug:      existing.Slug,
		Title:     existing.Title,
		Email:     existing.Email,
		Phone:     existing.Phone,
		PhotoUrl:  existing.PhotoUrl,
		Bio:       existing.Bio,
		Socials:   existing.Socials,
		Position:  existing.Position,
		IsActive:  existing.IsActive,
		UpdatedAt: time.Now().UTC(),
		ID:        existing.ID,
	}
	setString(&params.Name, req.Name)
	setString(&params.Slug, req.Slug)
	setString(&params.Title, req.Title)
	setString(&params.Email, req.Email)
	setString(&params.Phone, req.Phone)
	setString(&params.PhotoUrl, req.PhotoURL)
	setString(&params.Bio, req.Bio)
	if req.Socials != nil {
		params.Socials = req.Socials.Encode()
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	a, err := h.queries.UpdateAgent(ctx, params)
	if err != nil {
		h.logger.Error("failed to update agent", "error", err, "agent_id", existing.ID)
		WriteInternalError(w, "Failed to update agent")
		return
	}

	h.invalidate(ctx, agentResources...)
	WriteSuccess(w, storeAgentToResponse(a), nil)
}

// DeleteAgent handles DELETE /api/v1/admin/agents/{id}.
// Properties of the agent become unassigned.
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid agent ID", nil)
		return
	}
	ctx := r.Context()

	if !writeDeleteResult(w, h.queries.DeleteAgent(ctx, id), "agent") {
		return
	}
	if err := h.translations.DeleteEntity(ctx, model.EntityAgent, id); err != nil {
		h.logger.Warn("failed to delete agent translations", "error", err, "agent_id", id)
	}
	_ = h.events.Info(ctx, model.EventCategoryContent, "Agent deleted", map[string]any{"agent_id": id})
	h.invalidate(ctx, agentResources...)
}

// ReorderAgents handles PUT /api/v1/admin/agents/reorder.
func (h *Handler) ReorderAgents(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "agents", cache.ResourceAgents)
}

// PublicListAgents handles GET /api/v1/agents.
func (h *Handler) PublicListAgents(w http.ResponseWriter, r *http.Request) {
	lang, isDefault := h.requestLanguage(r)

	items, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceAgents, lang, "list"),
		func(ctx context.Context) ([]AgentResponse, error) {
			agents, err := h.queries.ListActiveAgents(ctx)
			if err != nil {
				return nil, err
			}
			fields := h.translationsFor(ctx, model.EntityAgent, lang, isDefault)
			out := mapSlice(agents, storeAgentToResponse)
			for i := range out {
				localizeAgent(&out[i], fields[out[i].ID])
			}
			return out, nil
		})
	if err != nil {
		h.logger.Error("failed to list agents", "error", err)
		WriteInternalError(w, "Failed to list agents")
		return
	}
	WriteSuccess(w, items, nil)
}

// PublicGetAgent handles GET /api/v1/agents/{slug}.
func (h *Handler) PublicGetAgent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang, isDefault := h.requestLanguage(r)

	resp, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceAgents, lang, "slug", slug),
		func(ctx context.Context) (AgentResponse, error) {
			a, err := h.queries.GetAgentBySlug(ctx, slug)
			if err != nil {
				return AgentResponse{}, err
			}
			if !a.IsActive {
				return AgentResponse{}, errAgentInactive
			}
			resp := storeAgentToResponse(a)
			if !isDefault {
				fields, err := h.translations.Fields(ctx, model.EntityAgent, a.ID, lang)
				if err != nil {
					h.logger.Warn("failed to load agent translations", "error", err, "agent_id", a.ID)
				}
				localizeAgent(&resp, fields)
			}
			return resp, nil
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, errAgentInactive) {
			WriteNotFound(w, "Agent not found")
			return
		}
		h.logger.Error("failed to get agent", "error", err, "slug", slug)
		WriteInternalError(w, "Failed to retrieve agent")
		return
	}
	WriteSuccess(w, resp, nil)
}
