// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared by the store, services
// and handlers: enumerations, their validators and JSON helpers.
package model

// User roles. An admin can do everything an editor can.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

var roleLevels = map[string]int{
	RoleEditor: 1,
	RoleAdmin:  2,
}

// IsValidRole reports whether role is a known user role.
func IsValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// RoleAtLeast reports whether role grants the permissions of required.
func RoleAtLeast(role, required string) bool {
	have, ok := roleLevels[role]
	if !ok {
		return false
	}
	return have >= roleLevels[required]
}
