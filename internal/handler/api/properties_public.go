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
	"github.com/olegiv/orealty/internal/seo"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
)

// errPropertyHidden reports a property outside the requested visibility.
var errPropertyHidden = errors.New("property not visible")

// PublicListProperties handles GET /api/v1/properties.
func (h *Handler) PublicListProperties(w http.ResponseWriter, r *http.Request) {
	h.listVisibleProperties(w, r, model.VisibilityPublic)
}

// PrivateListProperties handles GET /api/v1/private/properties.
// Requires a verified access session.
func (h *Handler) PrivateListProperties(w http.ResponseWriter, r *http.Request) {
	h.listVisibleProperties(w, r, model.VisibilityPrivate)
}

// PublicGetProperty handles GET /api/v1/properties/{slug}.
func (h *Handler) PublicGetProperty(w http.ResponseWriter, r *http.Request) {
	h.getVisibleProperty(w, r, model.VisibilityPublic)
}

// PrivateGetProperty handles GET /api/v1/private/properties/{slug}.
func (h *Handler) PrivateGetProperty(w http.ResponseWriter, r *http.Request) {
	h.getVisibleProperty(w, r, model.VisibilityPrivate)
}

func (h *Handler) listVisibleProperties(w http.ResponseWriter, r *http.Request, visibility string) {
	page, perPage, limit, offset := paging(r)
	lang, isDefault := h.requestLanguage(r)

	key := h.cache.Key(cache.ResourceProperties, lang, visibility, r.URL.Query().Encode())
	result, err := cache.Remember(r.Context(), h.cache, key, func(ctx context.Context) (Page[PropertyResponse], error) {
		f := propertyFilterFromQuery(r)
		f.Visibility = visibility
		f.Limit, f.Offset = limit, offset

		items, total, err := handler.ListAndCount(
			func() ([]store.Property, error) { return h.queries.ListProperties(ctx, f) },
			func() (int64, error) { return h.queries.CountProperties(ctx, f) },
		)
		if err != nil {
			return Page[PropertyResponse]{}, err
		}
		return Page[PropertyResponse]{
			Items: h.propertyCards(ctx, items, lang, isDefault),
			Meta:  *NewMeta(total, page, perPage),
		}, nil
	})
	if err != nil {
		h.logger.Error("failed to list properties", "error", err, "visibility", visibility)
		WriteInternalError(w, "Failed to list properties")
		return
	}

	WriteSuccess(w, result.Items, &result.Meta)
}

// propertyCards builds localized list items with their category and agent.
func (h *Handler) propertyCards(ctx context.Context, items []store.Property, lang string, isDefault bool) []PropertyResponse {
	categories := handler.BatchFetchOptional(ctx, items,
		func(p store.Property) sql.NullInt64 { return p.CategoryID },
		h.queries.GetCategoryByID, "property categories")
	agents := handler.BatchFetchOptional(ctx, items,
		func(p store.Property) sql.NullInt64 { return p.AgentID },
		h.queries.GetAgentByID, "property agents")

	propFields := h.translationsFor(ctx, model.EntityProperty, lang, isDefault)
	catFields := h.translationsFor(ctx, model.EntityCategory, lang, isDefault)
	agentFields := h.translationsFor(ctx, model.EntityAgent, lang, isDefault)

	out := make([]PropertyResponse, 0, len(items))
	for _, p := range items {
		resp := storePropertyToResponse(p)
		localizeProperty(&resp, propFields[p.ID])
		if c, ok := categories[p.CategoryID.Int64]; ok && p.CategoryID.Valid {
			cr := storeCategoryToResponse(c)
			localizeCategory(&cr, catFields[c.ID])
			resp.Category = &cr
		}
		if a, ok := agents[p.AgentID.Int64]; ok && p.AgentID.Valid && a.IsActive {
			ar := storeAgentToResponse(a)
			localizeAgent(&ar, agentFields[a.ID])
			resp.Agent = &ar
		}
		out = append(out, resp)
	}
	return out
}

func (h *Handler) getVisibleProperty(w http.ResponseWriter, r *http.Request, visibility string) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteNotFound(w, "Property not found")
		return
	}
	lang, isDefault := h.requestLanguage(r)

	key := h.cache.Key(cache.ResourceProperties, lang, visibility, "slug", slug)
	resp, err := cache.Remember(r.Context(), h.cache, key, func(ctx context.Context) (PropertyResponse, error) {
		p, err := h.queries.GetPropertyBySlug(ctx, slug)
		if err != nil {
			return PropertyResponse{}, err
		}
		if p.Visibility != visibility {
			return PropertyResponse{}, errPropertyHidden
		}
		return h.localizedPropertyDetail(ctx, p, lang, isDefault)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, errPropertyHidden) {
			WriteNotFound(w, "Property not found")
			return
		}
		h.logger.Error("failed to get property", "error", err, "slug", slug)
		WriteInternalError(w, "Failed to retrieve property")
		return
	}

	WriteSuccess(w, resp, nil)
}

// localizedPropertyDetail builds the public detail view: relations,
// gallery, translations and SEO metadata.
func (h *Handler) localizedPropertyDetail(ctx context.Context, p store.Property, lang string, isDefault bool) (PropertyResponse, error) {
	resp, err := h.propertyDetail(ctx, p)
	if err != nil {
		return resp, err
	}
	if resp.Agent != nil && !resp.Agent.IsActive {
		resp.Agent = nil
	}

	if !isDefault {
		fields, err := h.translations.Fields(ctx, model.EntityProperty, p.ID, lang)
		if err != nil {
			h.logger.Warn("failed to load property translations", "error", err, "property_id", p.ID)
		}
		localizeProperty(&resp, fields)
		if resp.Category != nil {
			fields, _ := h.translations.Fields(ctx, model.EntityCategory, resp.Category.ID, lang)
			localizeCategory(resp.Category, fields)
		}
		if resp.Agent != nil {
			fields, _ := h.translations.Fields(ctx, model.EntityAgent, resp.Agent.ID, lang)
			localizeAgent(resp.Agent, fields)
		}
	}

	images := make([]string, 0, len(resp.Images))
	for _, img := range resp.Images {
		images = append(images, img.URL)
	}
	resp.SEO = seo.BuildListingMeta(&seo.ListingData{
		Title:       resp.Title,
		Slug:        resp.Slug,
		Description: resp.Description,
		Price:       resp.Price,
		Currency:    resp.Currency,
		ListingType: resp.ListingType,
		Status:      resp.Status,
		Address:     resp.Address,
		City:        resp.City,
		Area:        resp.Area,
		Bedrooms:    resp.Bedrooms,
		Bathrooms:   resp.Bathrooms,
		Latitude:    resp.Latitude,
		Longitude:   resp.Longitude,
		CoverImage:  resp.CoverImage,
		Images:      images,
		Private:     p.Visibility == model.VisibilityPrivate,
		CreatedAt:   p.CreatedAt,
	}, h.siteConfig(ctx), lang)

	return resp, nil
}
