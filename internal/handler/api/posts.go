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
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/seo"
	"github.com/olegiv/orealty/internal/store"
)

var postResources = []cache.Resource{cache.ResourcePosts, cache.ResourceSitemap}

// CreatePostRequest represents the request body for creating a blog post.
type CreatePostRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Slug       string `json:"slug" validate:"omitempty,max=120,slug"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	Body       string `json:"body"`
	CoverImage string `json:"cover_image" validate:"max=500"`
	Status     string `json:"status" validate:"content_status"`
}

// UpdatePostRequest represents the request body for updating a blog post.
type UpdatePostRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=200"`
	Slug       *string `json:"slug" validate:"omitempty,min=1,max=120,slug"`
	Excerpt    *string `json:"excerpt" validate:"omitempty,max=500"`
	Body       *string `json:"body"`
	CoverImage *string `json:"cover_image" validate:"omitempty,max=500"`
	Status     *string `json:"status" validate:"omitempty,content_status"`
}

// ListPosts handles GET /api/v1/admin/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	ctx := r.Context()

	items, total, err := handler.ListAndCount(
		func() ([]store.Content, error) {
			return h.queries.ListContents(ctx, store.ListContentsParams{Limit: limit, Offset: offset})
		},
		func() (int64, error) { return h.queries.CountContents(ctx) },
	)
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		WriteInternalError(w, "Failed to list posts")
		return
	}
	WriteSuccess(w, mapSlice(items, storeContentToResponse), NewMeta(total, page, perPage))
}

// GetPost handles GET /api/v1/admin/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	c, ok := requireEntityByID(w, r, "post", func(id int64) (store.Content, error) {
		return h.queries.GetContentByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeContentToResponse(c), nil)
}

// CreatePost handles POST /api/v1/admin/posts.
// The body is rendered on write; publishing stamps published_at.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	slug, ok := resolveSlug(w, r, req.Slug, req.Title, h.queries.ContentSlugExists)
	if !ok {
		return
	}

	bodyHTML, err := h.renderer.Render(req.Body)
	if err != nil {
		WriteValidationError(w, map[string]string{"body": "Failed to render markdown"})
		return
	}
	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = h.renderer.Excerpt(bodyHTML)
	}

	status := valueOr(req.Status, model.ContentDraft)
	now := time.Now().UTC()
	var publishedAt sql.NullTime
	if status == model.ContentPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}
	var authorID sql.NullInt64
	if uid := middleware.GetUserID(r); uid > 0 {
		authorID = sql.NullInt64{Int64: uid, Valid: true}
	}

	c, err := h.queries.CreateContent(ctx, store.CreateContentParams{
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Excerpt:     excerpt,
		Body:        req.Body,
		BodyHtml:    bodyHTML,
		CoverImage:  req.CoverImage,
		Status:      status,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.logger.Error("failed to create post", "error", err)
		WriteInternalError(w, "Failed to create post")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryContent, "Post created",
		map[string]any{"post_id": c.ID, "title": c.Title, "status": c.Status})
	h.invalidate(ctx, postResources...)
	WriteCreated(w, storeContentToResponse(c))
}

// UpdatePost handles PUT /api/v1/admin/posts/{id}.
// published_at is set the first time a post is published and kept after.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "post", func(id int64) (store.Content, error) {
		return h.queries.GetContentByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.Slug != nil && !h.checkUpdatedSlug(w, *req.Slug, existing.Slug, func() (int64, error) {
		return h.queries.ContentSlugExistsExcluding(ctx, store.SlugExistsExcludingParams{Slug: *req.Slug, ID: existing.ID})
	}) {
		return
	}

	params := store.UpdateContentParams{
		Title:       existing.Title,
		Slug:        existing.Slug,
		Excerpt:     existing.Excerpt,
		Body:        existing.Body,
		BodyHtml:    existing.BodyHtml,
		CoverImage:  existing.CoverImage,
		Status:      existing.Status,
		PublishedAt: existing.PublishedAt,
		UpdatedAt:   time.Now().UTC(),
		ID:          existing.ID,
	}
	setString(&params.Title, req.Title)
	setString(&params.Slug, req.Slug)
	setString(&params.Excerpt, req.Excerpt)
	setString(&params.CoverImage, req.CoverImage)
	setString(&params.Status, req.Status)

	bodyHTML, err := h.renderer.Render(valueOrPtr(req.Body, existing.Body))
	if err != nil {
		WriteValidationError(w, map[string]string{"body": "Failed to render markdown"})
		return
	}
	params.Body = valueOrPtr(req.Body, existing.Body)
	params.BodyHtml = bodyHTML
	if strings.TrimSpace(params.Excerpt) == "" {
		params.Excerpt = h.renderer.Excerpt(bodyHTML)
	}
	if params.Status == model.ContentPublished && !params.PublishedAt.Valid {
		params.PublishedAt = sql.NullTime{Time: params.UpdatedAt, Valid: true}
	}

	c, err := h.queries.UpdateContent(ctx, params)
	if err != nil {
		h.logger.Error("failed to update post", "error", err, "post_id", existing.ID)
		WriteInternalError(w, "Failed to update post")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryContent, "Post updated",
		map[string]any{"post_id": c.ID, "title": c.Title, "status": c.Status})
	h.invalidate(ctx, postResources...)
	WriteSuccess(w, storeContentToResponse(c), nil)
}

// DeletePost handles DELETE /api/v1/admin/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}
	ctx := r.Context()

	if !writeDeleteResult(w, h.queries.DeleteContent(ctx, id), "post") {
		return
	}
	if err := h.translations.DeleteEntity(ctx, model.EntityPost, id); err != nil {
		h.logger.Warn("failed to delete post translations", "error", err, "post_id", id)
	}
	_ = h.events.Info(ctx, model.EventCategoryContent, "Post deleted", map[string]any{"post_id": id})
	h.invalidate(ctx, postResources...)
}

// PublicListPosts handles GET /api/v1/posts.
// List items omit the body.
func (h *Handler) PublicListPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	lang, isDefault := h.requestLanguage(r)

	key := h.cache.Key(cache.ResourcePosts, lang, "list", r.URL.Query().Encode())
	result, err := cache.Remember(r.Context(), h.cache, key, func(ctx context.Context) (Page[PostResponse], error) {
		items, total, err := handler.ListAndCount(
			func() ([]store.Content, error) {
				return h.queries.ListPublishedContents(ctx, store.ListContentsParams{Limit: limit, Offset: offset})
			},
			func() (int64, error) { return h.queries.CountPublishedContents(ctx) },
		)
		if err != nil {
			return Page[PostResponse]{}, err
		}
		fields := h.translationsFor(ctx, model.EntityPost, lang, isDefault)
		out := make([]PostResponse, 0, len(items))
		for _, c := range items {
			resp := storeContentToResponse(c)
			resp.Body, resp.BodyHTML = "", ""
			h.localizePost(&resp, map[string]string{
				"title":   fields[c.ID]["title"],
				"excerpt": fields[c.ID]["excerpt"],
			})
			out = append(out, resp)
		}
		return Page[PostResponse]{Items: out, Meta: *NewMeta(total, page, perPage)}, nil
	})
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		WriteInternalError(w, "Failed to list posts")
		return
	}
	WriteSuccess(w, result.Items, &result.Meta)
}

// PublicGetPost handles GET /api/v1/posts/{slug}.
func (h *Handler) PublicGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang, isDefault := h.requestLanguage(r)

	resp, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourcePosts, lang, "slug", slug),
		func(ctx context.Context) (PostResponse, error) {
			c, err := h.queries.GetPublishedContentBySlug(ctx, slug)
			if err != nil {
				return PostResponse{}, err
			}
			resp := storeContentToResponse(c)
			if !isDefault {
				fields, err := h.translations.Fields(ctx, model.EntityPost, c.ID, lang)
				if err != nil {
					h.logger.Warn("failed to load post translations", "error", err, "post_id", c.ID)
				}
				h.localizePost(&resp, fields)
			}
			resp.Body = ""

			data := &seo.PostData{
				Title:       resp.Title,
				Slug:        resp.Slug,
				Excerpt:     resp.Excerpt,
				BodyHTML:    resp.BodyHTML,
				CoverImage:  resp.CoverImage,
				PublishedAt: resp.PublishedAt,
				UpdatedAt:   resp.UpdatedAt,
			}
			if c.AuthorID.Valid {
				if u, err := h.queries.GetUserByID(ctx, c.AuthorID.Int64); err == nil {
					data.AuthorName = u.Name
				}
			}
			resp.SEO = seo.BuildPostMeta(data, h.siteConfig(ctx), lang)
			return resp, nil
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Post not found")
			return
		}
		h.logger.Error("failed to get post", "error", err, "slug", slug)
		WriteInternalError(w, "Failed to retrieve post")
		return
	}
	WriteSuccess(w, resp, nil)
}

func valueOrPtr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
