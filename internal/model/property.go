// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Listing types
const (
	ListingSale = "sale"
	ListingRent = "rent"
)

// Property statuses
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusRented    = "rented"
)

// Property visibility. Private listings require a verified access session.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// DefaultCurrency is used when a property is created without one.
const DefaultCurrency = "USD"

// ListingTypes lists the valid listing types.
var ListingTypes = []string{ListingSale, ListingRent}

// PropertyStatuses lists the valid property statuses.
var PropertyStatuses = []string{StatusAvailable, StatusReserved, StatusSold, StatusRented}

// Visibilities lists the valid visibility values.
var Visibilities = []string{VisibilityPublic, VisibilityPrivate}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidListingType(v string) bool    { return contains(ListingTypes, v) }
func IsValidPropertyStatus(v string) bool { return contains(PropertyStatuses, v) }
func IsValidVisibility(v string) bool     { return contains(Visibilities, v) }

// IsValidCurrency accepts three letter upper-case codes such as EUR.
func IsValidCurrency(v string) bool {
	if len(v) != 3 {
		return false
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ParseAmenities decodes the JSON array stored in properties.amenities.
// An empty column yields an empty slice.
func ParseAmenities(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding amenities: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// EncodeAmenities trims, drops empty and duplicate entries and encodes the rest.
func EncodeAmenities(items []string) string {
	seen := make(map[string]bool, len(items))
	clean := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[strings.ToLower(it)] {
			continue
		}
		seen[strings.ToLower(it)] = true
		clean = append(clean, it)
	}
	b, _ := json.Marshal(clean)
	return string(b)
}
