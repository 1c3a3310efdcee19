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

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
	"github.com/olegiv/orealty/internal/webhook"
)

// propertyResources are the cached resources a property write affects.
var propertyResources = []cache.Resource{
	cache.ResourceProperties,
	cache.ResourceCategories,
	cache.ResourceSitemap,
}

// CreatePropertyRequest represents the request body for creating a property.
type CreatePropertyRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=120,slug"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Currency    string   `json:"currency" validate:"currency"`
	ListingType string   `json:"listing_type" validate:"listing_type"`
	Status      string   `json:"status" validate:"property_status"`
	Visibility  string   `json:"visibility" validate:"visibility"`
	IsFeatured  bool     `json:"is_featured"`
	Address     string   `json:"address" validate:"max=300"`
	City        string   `json:"city" validate:"max=100"`
	Area        float64  `json:"area" validate:"gte=0"`
	Bedrooms    int64    `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int64    `json:"bathrooms" validate:"gte=0"`
	Floor       *int64   `json:"floor"`
	YearBuilt   *int64   `json:"year_built" validate:"omitempty,gte=1000,lte=3000"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,required,max=100"`
	CoverImage  string   `json:"cover_image" validate:"max=500"`
	VideoURL    string   `json:"video_url" validate:"max=500"`
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gt=0"`
	AgentID     *int64   `json:"agent_id" validate:"omitempty,gt=0"`
}

// UpdatePropertyRequest represents the request body for updating a property.
// Absent fields keep their value; null clears nullable fields.
type UpdatePropertyRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Slug        *string   `json:"slug" validate:"omitempty,min=1,max=120,slug"`
	Description *string   `json:"description"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Currency    *string   `json:"currency" validate:"omitempty,currency"`
	ListingType *string   `json:"listing_type" validate:"omitempty,listing_type"`
	Status      *string   `json:"status" validate:"omitempty,property_status"`
	Visibility  *string   `json:"visibility" validate:"omitempty,visibility"`
	IsFeatured  *bool     `json:"is_featured"`
	Address     *string   `json:"address" validate:"omitempty,max=300"`
	City        *string   `json:"city" validate:"omitempty,max=100"`
	Area        *float64  `json:"area" validate:"omitempty,gte=0"`
	Bedrooms    *int64    `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *int64    `json:"bathrooms" validate:"omitempty,gte=0"`
	Floor       *int64    `json:"floor"`
	YearBuilt   *int64    `json:"year_built" validate:"omitempty,gte=1000,lte=3000"`
	Latitude    *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Amenities   *[]string `json:"amenities" validate:"omitempty,dive,required,max=100"`
	CoverImage  *string   `json:"cover_image" validate:"omitempty,max=500"`
	VideoURL    *string   `json:"video_url" validate:"omitempty,max=500"`
	CategoryID  *int64    `json:"category_id" validate:"omitempty,gt=0"`
	AgentID     *int64    `json:"agent_id" validate:"omitempty,gt=0"`
}

func (r *CreatePropertyRequest) normalize() {
	trimPtr(&r.Title)
	trimPtr(&r.Address)
	trimPtr(&r.City)
}

func (r *UpdatePropertyRequest) normalize() {
	trimPtr(r.Title)
	trimPtr(r.Address)
	trimPtr(r.City)
}

// propertyFilterFromQuery reads the listing filters shared by the admin and
// public property lists.
func propertyFilterFromQuery(r *http.Request) store.PropertyFilter {
	q := r.URL.Query()
	f := store.PropertyFilter{
		CategorySlug: q.Get("category"),
		CategoryID:   handler.ParseQueryInt64(r, "category_id"),
		AgentID:      handler.ParseQueryInt64(r, "agent_id"),
		ListingType:  q.Get("listing_type"),
		Status:       q.Get("status"),
		City:         strings.TrimSpace(q.Get("city")),
		MinPrice:     handler.ParseQueryInt64(r, "min_price"),
		MaxPrice:     handler.ParseQueryInt64(r, "max_price"),
		MinBedrooms:  handler.ParseQueryInt64(r, "min_bedrooms"),
		FeaturedOnly: handler.ParseQueryBool(r, "featured"),
		Query:        q.Get("q"),
		Sort:         q.Get("sort"),
	}
	if !model.IsValidListingType(f.ListingType) {
		f.ListingType = ""
	}
	if !model.IsValidPropertyStatus(f.Status) {
		f.Status = ""
	}
	return f
}

// ListProperties handles GET /api/v1/admin/properties.
// Lists properties of every visibility.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	f := propertyFilterFromQuery(r)
	if v := r.URL.Query().Get("visibility"); model.IsValidVisibility(v) {
		f.Visibility = v
	}
	if f.Sort == "" {
		f.Sort = store.SortPosition
	}

	countFilter := f
	f.Limit, f.Offset = limit, offset
	items, total, err := handler.ListAndCount(
		func() ([]store.Property, error) { return h.queries.ListProperties(r.Context(), f) },
		func() (int64, error) { return h.queries.CountProperties(r.Context(), countFilter) },
	)
	if err != nil {
		h.logger.Error("failed to list properties", "error", err)
		WriteInternalError(w, "Failed to list properties")
		return
	}

	WriteSuccess(w, mapSlice(items, storePropertyToResponse), NewMeta(total, page, perPage))
}

// GetProperty handles GET /api/v1/admin/properties/{id}.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	resp, err := h.propertyDetail(r.Context(), p)
	if err != nil {
		h.logger.Error("failed to load property relations", "error", err, "property_id", p.ID)
		WriteInternalError(w, "Failed to retrieve property")
		return
	}
	WriteSuccess(w, resp, nil)
}

// CreateProperty handles POST /api/v1/admin/properties.
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if errs, err := h.checkPropertyRelations(ctx, req.CategoryID, req.AgentID); err != nil {
		WriteInternalError(w, "Failed to check property relations")
		return
	} else if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	slug, ok := resolveSlug(w, r, req.Slug, req.Title, h.queries.PropertySlugExists)
	if !ok {
		return
	}

	position, err := h.queries.NextPosition(ctx, "properties")
	if err != nil {
		h.logger.Error("failed to compute property position", "error", err)
		WriteInternalError(w, "Failed to create property")
		return
	}

	now := time.Now().UTC()
	p, err := h.queries.CreateProperty(ctx, store.CreatePropertyParams{
		PropertyParams: store.PropertyParams{
			Title:       strings.TrimSpace(req.Title),
			Slug:        slug,
			Description: req.Description,
			Price:       req.Price,
			Currency:    valueOr(req.Currency, model.DefaultCurrency),
			ListingType: valueOr(req.ListingType, model.ListingSale),
			Status:      valueOr(req.Status, model.StatusAvailable),
			Visibility:  valueOr(req.Visibility, model.VisibilityPublic),
			IsFeatured:  req.IsFeatured,
			Address:     req.Address,
			City:        strings.TrimSpace(req.City),
			Area:        req.Area,
			Bedrooms:    req.Bedrooms,
			Bathrooms:   req.Bathrooms,
			Floor:       util.NullInt64FromPtr(req.Floor),
			YearBuilt:   util.NullInt64FromPtr(req.YearBuilt),
			Latitude:    util.NullFloat64FromPtr(req.Latitude),
			Longitude:   util.NullFloat64FromPtr(req.Longitude),
			Amenities:   model.EncodeAmenities(req.Amenities),
			CoverImage:  req.CoverImage,
			VideoUrl:    req.VideoURL,
			CategoryID:  util.NullInt64FromPtr(req.CategoryID),
			AgentID:     util.NullInt64FromPtr(req.AgentID),
			Position:    position,
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.logger.Error("failed to create property", "error", err)
		WriteInternalError(w, "Failed to create property")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryProperty, "Property created",
		map[string]any{"property_id": p.ID, "title": p.Title})
	h.invalidate(ctx, propertyResources...)
	h.notifyProperty(ctx, webhook.EventPropertyCreated, p)

	WriteCreated(w, storePropertyToResponse(p))
}

// UpdateProperty handles PUT /api/v1/admin/properties/{id}.
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	nulls, ok := h.decodePatch(w, r, &req)
	if !ok {
		return
	}
	ctx := r.Context()

	if errs, err := h.checkPropertyRelations(ctx, req.CategoryID, req.AgentID); err != nil {
		WriteInternalError(w, "Failed to check property relations")
		return
	} else if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	params := store.ParamsFromProperty(existing)
	if req.Slug != nil && !h.checkUpdatedSlug(w, *req.Slug, existing.Slug, func() (int64, error) {
		return h.queries.PropertySlugExistsExcluding(ctx, store.SlugExistsExcludingParams{Slug: *req.Slug, ID: existing.ID})
	}) {
		return
	}
	setString(&params.Slug, req.Slug)

	applyPropertyPatch(&params, &req, nulls)

	p, err := h.queries.UpdateProperty(ctx, store.UpdatePropertyParams{
		PropertyParams: params,
		UpdatedAt:      time.Now().UTC(),
		ID:             existing.ID,
	})
	if err != nil {
		h.logger.Error("failed to update property", "error", err, "property_id", existing.ID)
		WriteInternalError(w, "Failed to update property")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryProperty, "Property updated",
		map[string]any{"property_id": p.ID, "title": p.Title})
	h.invalidate(ctx, propertyResources...)
	h.notifyProperty(ctx, webhook.EventPropertyUpdated, p)

	WriteSuccess(w, storePropertyToResponse(p), nil)
}

// applyPropertyPatch copies the sent fields of req onto params.
func applyPropertyPatch(params *store.PropertyParams, req *UpdatePropertyRequest, nulls map[string]bool) {
	setString(&params.Title, req.Title)
	setString(&params.Description, req.Description)
	setString(&params.Currency, req.Currency)
	setString(&params.ListingType, req.ListingType)
	setString(&params.Status, req.Status)
	setString(&params.Visibility, req.Visibility)
	setString(&params.Address, req.Address)
	setString(&params.City, req.City)
	setString(&params.CoverImage, req.CoverImage)
	setString(&params.VideoUrl, req.VideoURL)
	if req.Price != nil {
		params.Price = *req.Price
	}
	if req.IsFeatured != nil {
		params.IsFeatured = *req.IsFeatured
	}
	if req.Area != nil {
		params.Area = *req.Area
	}
	if req.Bedrooms != nil {
		params.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		params.Bathrooms = *req.Bathrooms
	}
	if req.Amenities != nil {
		params.Amenities = model.EncodeAmenities(*req.Amenities)
	}
	setNullInt64(&params.Floor, req.Floor, nulls["floor"])
	setNullInt64(&params.YearBuilt, req.YearBuilt, nulls["year_built"])
	setNullInt64(&params.CategoryID, req.CategoryID, nulls["category_id"])
	setNullInt64(&params.AgentID, req.AgentID, nulls["agent_id"])
	setNullFloat64(&params.Latitude, req.Latitude, nulls["latitude"])
	setNullFloat64(&params.Longitude, req.Longitude, nulls["longitude"])
}

// DeleteProperty handles DELETE /api/v1/admin/properties/{id}.
// Gallery rows cascade; uploaded files stay on disk.
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}
	ctx := r.Context()

	if !writeDeleteResult(w, h.queries.DeleteProperty(ctx, p.ID), "property") {
		return
	}
	if err := h.translations.DeleteEntity(ctx, model.EntityProperty, p.ID); err != nil {
		h.logger.Warn("failed to delete property translations", "error", err, "property_id", p.ID)
	}

	_ = h.events.Info(ctx, model.EventCategoryProperty, "Property deleted",
		map[string]any{"property_id": p.ID, "title": p.Title})
	h.invalidate(ctx, propertyResources...)
	h.notifyProperty(ctx, webhook.EventPropertyDeleted, p)
}

// TogglePropertyFeatured handles POST /api/v1/admin/properties/{id}/featured.
func (h *Handler) TogglePropertyFeatured(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	p, err := h.queries.SetPropertyFeatured(r.Context(), store.SetPropertyFeaturedParams{
		IsFeatured: !existing.IsFeatured,
		UpdatedAt:  time.Now().UTC(),
		ID:         existing.ID,
	})
	if err != nil {
		h.logger.Error("failed to toggle featured", "error", err, "property_id", existing.ID)
		WriteInternalError(w, "Failed to update property")
		return
	}

	h.invalidate(r.Context(), propertyResources...)
	WriteSuccess(w, storePropertyToResponse(p), nil)
}

// ReorderProperties handles PUT /api/v1/admin/properties/reorder.
func (h *Handler) ReorderProperties(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "properties", cache.ResourceProperties)
}

// checkPropertyRelations verifies that the referenced category and agent exist.
func (h *Handler) checkPropertyRelations(ctx context.Context, categoryID, agentID *int64) (map[string]string, error) {
	errs := make(map[string]string)
	if categoryID != nil {
		if _, err := h.queries.GetCategoryByID(ctx, *categoryID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			errs["category_id"] = "Category not found"
		}
	}
	if agentID != nil {
		if _, err := h.queries.GetAgentByID(ctx, *agentID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			errs["agent_id"] = "Agent not found"
		}
	}
	return errs, nil
}

// propertyDetail builds the full admin view of a property.
func (h *Handler) propertyDetail(ctx context.Context, p store.Property) (PropertyResponse, error) {
	resp := storePropertyToResponse(p)

	images, err := h.queries.ListPropertyImages(ctx, p.ID)
	if err != nil {
		return resp, err
	}
	resp.Images = storeImagesToResponse(images)

	if p.CategoryID.Valid {
		c, err := h.queries.GetCategoryByID(ctx, p.CategoryID.Int64)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return resp, err
		}
		if err == nil {
			cr := storeCategoryToResponse(c)
			resp.Category = &cr
		}
	}
	if p.AgentID.Valid {
		a, err := h.queries.GetAgentByID(ctx, p.AgentID.Int64)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return resp, err
		}
		if err == nil {
			ar := storeAgentToResponse(a)
			resp.Agent = &ar
		}
	}
	return resp, nil
}

// notifyProperty queues a webhook about a listing change.
func (h *Handler) notifyProperty(ctx context.Context, eventType string, p store.Property) {
	data := webhook.PropertyEventData{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Price:      p.Price,
		Currency:   p.Currency,
		Status:     p.Status,
		Visibility: p.Visibility,
	}
	if p.Visibility == model.VisibilityPublic && eventType != webhook.EventPropertyDeleted {
		data.URL = h.cfg.SiteURL + "/properties/" + p.Slug
	}
	if err := h.notifier.Dispatch(ctx, webhook.NewEvent(eventType, data)); err != nil {
		h.logger.Warn("failed to queue property webhook", "error", err, "property_id", p.ID)
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setNullInt64(dst *sql.NullInt64, v *int64, null bool) {
	switch {
	case null:
		*dst = sql.NullInt64{}
	case v != nil:
		*dst = sql.NullInt64{Int64: *v, Valid: true}
	}
}

func setNullFloat64(dst *sql.NullFloat64, v *float64, null bool) {
	switch {
	case null:
		*dst = sql.NullFloat64{}
	case v != nil:
		*dst = sql.NullFloat64{Float64: *v, Valid: true}
	}
}
