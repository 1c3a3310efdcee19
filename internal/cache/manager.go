// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Resource names a group of cached public responses.
type Resource string

// Cached resources.
const (
	ResourceProperties   Resource = "properties"
	ResourceCategories   Resource = "categories"
	ResourceAgents       Resource = "agents"
	ResourceTestimonials Resource = "testimonials"
	ResourceSlides       Resource = "slides"
	ResourceStatistics   Resource = "statistics"
	ResourceSections     Resource = "sections"
	ResourcePosts        Resource = "posts"
	ResourceTranslations Resource = "translations"
	ResourceLanguages    Resource = "languages"
	ResourceSitemap      Resource = "sitemap"
)

const keyPrefix = "public:"

// Manager caches public API payloads per resource and language and
// invalidates whole resources when the admin API writes.
type Manager struct {
	backend Cacher
	ttl     time.Duration
	logger  *slog.Logger
}

// NewManager wraps backend. A zero ttl uses the backend default.
func NewManager(backend Cacher, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{backend: backend, ttl: ttl, logger: logger}
}

// Key builds "public:{resource}:{lang}[:part...]".
func (m *Manager) Key(res Resource, lang string, parts ...string) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(string(res))
	b.WriteByte(':')
	b.WriteString(lang)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// Remember returns the cached value for key or loads and stores it.
// A nil manager always calls load.
func Remember[T any](ctx context.Context, m *Manager, key string, load func(context.Context) (T, error)) (T, error) {
	if m == nil {
		return load(ctx)
	}
	return NewTypedCache[T](m.backend, m.ttl).GetOrSet(ctx, key, load)
}

// Invalidate drops every cached entry of the given resources.
func (m *Manager) Invalidate(ctx context.Context, resources ...Resource) {
	if m == nil {
		return
	}
	for _, res := range resources {
		if err := m.backend.DeleteByPrefix(ctx, keyPrefix+string(res)+":"); err != nil {
			m.logger.Warn("cache invalidation failed", "resource", res, "error", err)
		}
	}
}

// Clear drops every entry and resets statistics.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.backend.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	return nil
}

// Stats reports backend statistics when the backend tracks them.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}

// HealthCheck pings the backend when it supports it.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if p, ok := m.backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
