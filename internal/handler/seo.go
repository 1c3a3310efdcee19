// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/seo"
	"github.com/olegiv/orealty/internal/store"
)

// sitemapMaxURLs is the protocol limit of URLs per sitemap file.
const sitemapMaxURLs = 50000

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	queries         *store.Queries
	cache           *cache.Manager
	logger          *slog.Logger
	siteURL         string
	defaultLanguage string
	disallowAll     bool
}

// NewSEOHandler creates a new SEO handler. disallowAll blocks every crawler,
// which demo and staging sites use.
func NewSEOHandler(queries *store.Queries, cm *cache.Manager, logger *slog.Logger, siteURL, defaultLanguage string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		queries:         queries,
		cache:           cm,
		logger:          logger,
		siteURL:         siteURL,
		defaultLanguage: defaultLanguage,
		disallowAll:     disallowAll,
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	xml, err := cache.Remember(r.Context(), h.cache, h.cache.Key(cache.ResourceSitemap, "all"), h.buildSitemap)
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(xml))
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(content))
}

func (h *SEOHandler) buildSitemap(ctx context.Context) (string, error) {
	languages, err := h.queries.ListActiveLanguages(ctx)
	if err != nil {
		return "", fmt.Errorf("listing languages: %w", err)
	}
	codes := make([]string, 0, len(languages))
	defaultLanguage := h.defaultLanguage
	for _, l := range languages {
		codes = append(codes, l.Code)
		if l.IsDefault {
			defaultLanguage = l.Code
		}
	}

	builder := seo.NewSitemapBuilder(h.siteURL, defaultLanguage, codes)
	builder.AddHomepage()

	properties, err := h.queries.ListProperties(ctx, store.PropertyFilter{
		Visibility: model.VisibilityPublic,
		Sort:       store.SortNewest,
		Limit:      sitemapMaxURLs,
	})
	if err != nil {
		return "", fmt.Errorf("listing properties: %w", err)
	}
	entries := make([]seo.SitemapEntry, 0, len(properties))
	for _, p := range properties {
		entries = append(entries, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	builder.AddProperties(entries)

	categories, err := h.queries.ListCategoriesWithCounts(ctx, false)
	if err != nil {
		return "", fmt.Errorf("listing categories: %w", err)
	}
	entries = entries[:0]
	for _, c := range categories {
		entries = append(entries, seo.SitemapEntry{Slug: c.Slug, UpdatedAt: c.UpdatedAt})
	}
	builder.AddCategories(entries)

	agents, err := h.queries.ListActiveAgents(ctx)
	if err != nil {
		return "", fmt.Errorf("listing agents: %w", err)
	}
	entries = entries[:0]
	for _, a := range agents {
		entries = append(entries, seo.SitemapEntry{Slug: a.Slug, UpdatedAt: a.UpdatedAt})
	}
	builder.AddAgents(entries)

	posts, err := h.queries.ListPublishedContents(ctx, store.ListContentsParams{Limit: sitemapMaxURLs})
	if err != nil {
		return "", fmt.Errorf("listing posts: %w", err)
	}
	entries = entries[:0]
	for _, p := range posts {
		entries = append(entries, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	builder.AddPosts(entries)

	out, err := builder.Build()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
