// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/testutil"
)

func newTestSEOHandler(t *testing.T, cm *cache.Manager, disallowAll bool) (*SEOHandler, *sql.DB) {
	t.Helper()
	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)
	h := NewSEOHandler(store.New(db), cm, testutil.TestLoggerSilent(), "https://example.com", "en", disallowAll)
	return h, db
}

func getSEO(fn http.HandlerFunc, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	fn(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSEOHandler_Sitemap(t *testing.T) {
	h, db := newTestSEOHandler(t, nil, false)
	testutil.CreateProperty(t, db, "Sea View Villa", "sea-view-villa", model.VisibilityPublic)
	testutil.CreateProperty(t, db, "Hidden Loft", "hidden-loft", model.VisibilityPrivate)

	w := getSEO(h.Sitemap, "/sitemap.xml")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/properties/sea-view-villa</loc>")
	assert.NotContains(t, body, "hidden-loft")
	assert.NotContains(t, body, "xhtml:link")
}

func TestSEOHandler_SitemapAlternates(t *testing.T) {
	h, db := newTestSEOHandler(t, nil, false)
	testutil.CreateLanguage(t, db, "es", "Español")
	testutil.CreateProperty(t, db, "Loft", "loft", model.VisibilityPublic)

	body := getSEO(h.Sitemap, "/sitemap.xml").Body.String()

	assert.Contains(t, body, `hreflang="es" href="https://example.com/es/properties/loft"`)
	assert.Contains(t, body, `hreflang="x-default" href="https://example.com/properties/loft"`)
}

func TestSEOHandler_SitemapCached(t *testing.T) {
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	cm := cache.NewManager(backend, time.Hour, testutil.TestLoggerSilent())
	t.Cleanup(func() { _ = cm.Close() })

	h, db := newTestSEOHandler(t, cm, false)
	getSEO(h.Sitemap, "/sitemap.xml")

	testutil.CreateProperty(t, db, "New Listing", "new-listing", model.VisibilityPublic)
	assert.NotContains(t, getSEO(h.Sitemap, "/sitemap.xml").Body.String(), "new-listing",
		"cached sitemap should be served until invalidated")

	cm.Invalidate(t.Context(), cache.ResourceSitemap)
	assert.Contains(t, getSEO(h.Sitemap, "/sitemap.xml").Body.String(), "new-listing")
}

func TestSEOHandler_Robots(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		h, _ := newTestSEOHandler(t, nil, false)
		w := getSEO(h.Robots, "/robots.txt")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "Disallow: /api/v1/admin\n")
		assert.Contains(t, w.Body.String(), "Sitemap: https://example.com/sitemap.xml\n")
	})

	t.Run("disallow all", func(t *testing.T) {
		h, _ := newTestSEOHandler(t, nil, true)
		body := getSEO(h.Robots, "/robots.txt").Body.String()

		assert.Contains(t, body, "Disallow: /\n")
		assert.NotContains(t, body, "Sitemap:")
	})
}
