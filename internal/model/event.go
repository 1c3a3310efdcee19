// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryUser     = "user"
	EventCategoryProperty = "property"
	EventCategoryContent  = "content"
	EventCategoryAccess   = "access"
	EventCategoryMedia    = "media"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
)

// IsValidEventLevel reports whether level is a known event level.
func IsValidEventLevel(level string) bool {
	switch level {
	case EventLevelInfo, EventLevelWarning, EventLevelError:
		return true
	}
	return false
}
