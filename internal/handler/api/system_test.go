// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/scheduler"
	"github.com/olegiv/orealty/internal/testutil"
)

// withMemoryCache attaches an in-memory response cache to h.
func withMemoryCache(t *testing.T, h *Handler) *cache.Manager {
	t.Helper()
	m := cache.NewManager(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}), time.Minute, testutil.TestLoggerSilent())
	t.Cleanup(func() { _ = m.Close() })
	h.cache = m
	return m
}

func TestCacheStats_Disabled(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.CacheStats, newGetRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusOK)
	assert.False(t, unmarshalData[CacheStatsResponse](t, w).Enabled)

	w = executeHandler(t, h.ClearCache, newDeleteRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusNoContent)
}

func TestPublicCache_InvalidatedOnWrite(t *testing.T) {
	_, h := testSetup(t)
	withMemoryCache(t, h)

	w := executeHandler(t, h.CreateCategory, newJSONRequest(t, http.MethodPost, "/", `{"name":"Flats"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	cat := unmarshalData[CategoryResponse](t, w)

	w = executeHandler(t, h.PublicListCategories, newGetRequest(t, "/", nil))
	items, _ := unmarshalList[CategoryResponse](t, w)
	require.Len(t, items, 1)

	// Second read is a cache hit.
	executeHandler(t, h.PublicListCategories, newGetRequest(t, "/", nil))

	w = executeHandler(t, h.CacheStats, newGetRequest(t, "/", nil))
	stats := unmarshalData[CacheStatsResponse](t, w)
	assert.True(t, stats.Enabled)
	assert.GreaterOrEqual(t, stats.Stats.Hits, int64(1))
	assert.Empty(t, stats.HealthError)

	w = executeHandler(t, h.UpdateCategory, newJSONRequest(t, http.MethodPut, "/", `{"name":"Apartments"}`, idParam(cat.ID)))
	assertStatusCode(t, w, http.StatusOK)

	w = executeHandler(t, h.PublicListCategories, newGetRequest(t, "/", nil))
	items, _ = unmarshalList[CategoryResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Apartments", items[0].Name)

	w = executeHandler(t, h.ClearCache, newDeleteRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusNoContent)

	w = executeHandler(t, h.CacheStats, newGetRequest(t, "/", nil))
	assert.Equal(t, int64(0), unmarshalData[CacheStatsResponse](t, w).Stats.Hits)
}

func TestListEvents_Filters(t *testing.T) {
	_, h := testSetup(t)
	ctx := context.Background()
	require.NoError(t, h.events.Info(ctx, model.EventCategoryProperty, "Property created", nil))
	require.NoError(t, h.events.Warning(ctx, model.EventCategoryAuth, "Login failed", map[string]any{"email": "x@example.com"}))

	w := executeHandler(t, h.ListEvents, newGetRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusOK)
	all, meta := unmarshalList[EventResponse](t, w)
	assert.Len(t, all, 2)
	require.NotNil(t, meta)
	assert.Equal(t, int64(2), meta.Total)

	w = executeHandler(t, h.ListEvents, newGetRequest(t, "/?level=warning", nil))
	items, _ := unmarshalList[EventResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Login failed", items[0].Message)

	w = executeHandler(t, h.ListEvents, newGetRequest(t, "/?category=property", nil))
	items, _ = unmarshalList[EventResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, model.EventCategoryProperty, items[0].Category)

	w = executeHandler(t, h.ListEvents, newGetRequest(t, "/?level=loud", nil))
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestUpload_Disabled(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.Upload, newJSONRequest(t, http.MethodPost, "/", "", nil))
	assertStatusCode(t, w, http.StatusServiceUnavailable)
	assertErrorResponse(t, w, "uploads_disabled")
}

type stubJobs struct {
	ran []string
	err error
}

func (s *stubJobs) List() []scheduler.JobInfo {
	return []scheduler.JobInfo{{Name: "purge-events", Schedule: scheduler.ScheduleEventPurge}}
}

func (s *stubJobs) TriggerNow(_ context.Context, name string) error {
	if name != "purge-events" {
		return scheduler.ErrJobNotFound
	}
	s.ran = append(s.ran, name)
	return s.err
}

func TestJobs(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.ListJobs, newGetRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusOK)
	assert.Empty(t, unmarshalData[[]scheduler.JobInfo](t, w))

	jobs := &stubJobs{}
	h.jobs = jobs

	w = executeHandler(t, h.ListJobs, newGetRequest(t, "/", nil))
	require.Len(t, unmarshalData[[]scheduler.JobInfo](t, w), 1)

	w = executeHandler(t, h.RunJob, newJSONRequest(t, http.MethodPost, "/", "", map[string]string{"name": "purge-events"}))
	assertStatusCode(t, w, http.StatusNoContent)
	assert.Equal(t, []string{"purge-events"}, jobs.ran)

	w = executeHandler(t, h.RunJob, newJSONRequest(t, http.MethodPost, "/", "", map[string]string{"name": "nope"}))
	assertStatusCode(t, w, http.StatusNotFound)
}
