// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Translatable entity types, as used in URLs and field_translations.entity_type.
const (
	EntityProperty    = "property"
	EntityCategory    = "category"
	EntityAgent       = "agent"
	EntityTestimonial = "testimonial"
	EntityPost        = "post"
	EntitySection     = "section"
)

// TranslatableFields lists which fields of each entity may be translated.
var TranslatableFields = map[string][]string{
	EntityProperty:    {"title", "description", "address"},
	EntityCategory:    {"name", "description"},
	EntityAgent:       {"title", "bio"},
	EntityTestimonial: {"content", "author_title"},
	EntityPost:        {"title", "excerpt", "body"},
	EntitySection:     {"title", "subtitle"},
}

// entityPaths maps the plural URL segment of the admin API to an entity type.
var entityPaths = map[string]string{
	"properties":   EntityProperty,
	"categories":   EntityCategory,
	"agents":       EntityAgent,
	"testimonials": EntityTestimonial,
	"posts":        EntityPost,
	"sections":     EntitySection,
}

// EntityFromPath resolves an admin API resource segment.
func EntityFromPath(segment string) (string, bool) {
	e, ok := entityPaths[segment]
	return e, ok
}

// IsTranslatableField reports whether field of entity accepts translations.
func IsTranslatableField(entity, field string) bool {
	return contains(TranslatableFields[entity], field)
}

// Text directions of a language
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)
