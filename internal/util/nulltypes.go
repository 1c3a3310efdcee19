// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"time"
)

// NullInt64FromPtr converts a pointer to int64 into sql.NullInt64.
func NullInt64FromPtr(ptr *int64) sql.NullInt64 {
	if ptr != nil {
		return sql.NullInt64{Int64: *ptr, Valid: true}
	}
	return sql.NullInt64{}
}

// NullFloat64FromPtr converts a pointer to float64 into sql.NullFloat64.
func NullFloat64FromPtr(ptr *float64) sql.NullFloat64 {
	if ptr != nil {
		return sql.NullFloat64{Float64: *ptr, Valid: true}
	}
	return sql.NullFloat64{}
}

// Int64Ptr returns nil for an invalid value.
func Int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// Float64Ptr returns nil for an invalid value.
func Float64Ptr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// TimePtr returns nil for an invalid value.
func TimePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time
	return &v
}
