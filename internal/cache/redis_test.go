// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless REALTY_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("REALTY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: REALTY_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "realty-test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	_ = cache.Clear(ctx)

	if err := cache.Set(ctx, "public:categories:en", []byte("a"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set(ctx, "public:agents:en", []byte("b"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "public:categories:en")
	if err != nil || string(got) != "a" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := cache.DeleteByPrefix(ctx, "public:categories:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if _, err := cache.Get(ctx, "public:categories:en"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
	if has, _ := cache.Has(ctx, "public:agents:en"); !has {
		t.Error("unrelated key removed by prefix delete")
	}

	if stats := cache.Stats(); stats.Backend != "redis" || stats.Items != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	_ = cache.Clear(ctx)
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("not-a-url", "", 0); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestRedisCache_EmptyURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}
