// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(newTestCache(t, time.Hour), time.Minute, logger)
}

func TestManager_Key(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, "public:categories:en", m.Key(ResourceCategories, "en"))
	assert.Equal(t, "public:sections:es:hero", m.Key(ResourceSections, "es", "hero"))
}

func TestRemember_AndInvalidate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"villa", "flat"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Remember(ctx, m, m.Key(ResourceCategories, "en"), load)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	assert.Equal(t, 1, calls)

	_, err := Remember(ctx, m, m.Key(ResourceAgents, "en"), load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	m.Invalidate(ctx, ResourceCategories)

	_, err = Remember(ctx, m, m.Key(ResourceCategories, "en"), load)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "invalidated resource reloads")

	_, err = Remember(ctx, m, m.Key(ResourceAgents, "en"), load)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "other resources stay cached")
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _ = Remember(ctx, m, m.Key(ResourceSlides, "en"), func(context.Context) (int, error) { return 1, nil })
	require.Equal(t, 1, m.Stats().Items)

	require.NoError(t, m.Clear(ctx))
	stats := m.Stats()
	assert.Equal(t, 0, stats.Items)
	assert.Equal(t, int64(0), stats.Sets)
}

func TestRemember_NilManager(t *testing.T) {
	got, err := Remember(context.Background(), nil, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
