// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Blog post statuses
const (
	ContentDraft     = "draft"
	ContentPublished = "published"
)

func IsValidContentStatus(v string) bool {
	return v == ContentDraft || v == ContentPublished
}
