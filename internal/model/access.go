// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Access request statuses
const (
	AccessPending  = "pending"
	AccessVerified = "verified"
	AccessExpired  = "expired"
	AccessRevoked  = "revoked"
)

// AccessStatuses lists the valid access request statuses.
var AccessStatuses = []string{AccessPending, AccessVerified, AccessExpired, AccessRevoked}

func IsValidAccessStatus(v string) bool { return contains(AccessStatuses, v) }

// Cookies set after a successful verification.
const (
	AccessCookieName       = "realty_access"
	AccessExpiryCookieName = "realty_access_expires"
)
