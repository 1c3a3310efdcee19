// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"

	"github.com/olegiv/orealty/internal/util"
)

// SlugExistsFunc is a function type for checking if a slug exists.
// Returns count of matching slugs and any error.
type SlugExistsFunc func() (int64, error)

// ValidateSlugWithChecker validates a slug using a custom existence checker.
// Returns an error message string if validation fails, or empty string if valid.
func ValidateSlugWithChecker(slug string, checkExists SlugExistsFunc) string {
	if slug == "" {
		return "Slug is required"
	}
	if !util.IsValidSlug(slug) {
		return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	exists, err := checkExists()
	if err != nil {
		slog.Error("database error checking slug", "error", err)
		return "Error checking slug"
	}
	if exists != 0 {
		return "Slug already exists"
	}
	return ""
}

// ValidateSlugForUpdate validates a slug for update operations.
// Skips validation if the slug hasn't changed from the current value.
func ValidateSlugForUpdate(slug, currentSlug string, checkExists SlugExistsFunc) string {
	if slug == currentSlug {
		return ""
	}
	return ValidateSlugWithChecker(slug, checkExists)
}

// GenerateSlug derives a free slug from title. countFn reports how many rows
// already use a candidate slug.
func GenerateSlug(ctx context.Context, title string, countFn func(context.Context, string) (int64, error)) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "item"
	}
	return util.UniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		n, err := countFn(ctx, candidate)
		return n > 0, err
	})
}
