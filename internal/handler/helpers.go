// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// =============================================================================
// LIST AND COUNT HELPERS
// =============================================================================

// ListAndCount executes list and count queries, returning combined results.
// This is a generic helper for paginated list endpoints.
func ListAndCount[T any](
	listFn func() ([]T, error),
	countFn func() (int64, error),
) ([]T, int64, error) {
	items, err := listFn()
	if err != nil {
		return nil, 0, err
	}
	total, err := countFn()
	return items, total, err
}

// =============================================================================
// BATCH ENTITY FETCHING HELPERS
// =============================================================================

// BatchFetchOptional fetches related entities only when the parent has a
// valid optional ID. Each related ID is fetched once. Returns a map from
// related ID to the fetched data.
func BatchFetchOptional[P any, R any](
	ctx context.Context,
	items []P,
	getOptionalID func(P) sql.NullInt64,
	fetchFn func(ctx context.Context, id int64) (R, error),
	logContext string,
) map[int64]R {
	result := make(map[int64]R)
	missing := make(map[int64]bool)
	for _, item := range items {
		optID := getOptionalID(item)
		if !optID.Valid {
			continue
		}
		if _, ok := result[optID.Int64]; ok || missing[optID.Int64] {
			continue
		}
		related, err := fetchFn(ctx, optID.Int64)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				slog.Error("failed to fetch related entity", "error", err, "context", logContext, "id", optID.Int64)
			}
			missing[optID.Int64] = true
			continue
		}
		result[optID.Int64] = related
	}
	return result
}
