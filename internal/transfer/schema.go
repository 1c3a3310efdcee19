// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides export and import of the listings catalog
// (languages, categories, agents, properties and their translations) in JSON format.
package transfer

import (
	"fmt"
	"time"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData is the root structure of an export file.
type ExportData struct {
	Version    string                       `json:"version"`
	ExportedAt time.Time                    `json:"exported_at"`
	Site       ExportSite                   `json:"site"`
	Languages  []ExportLanguage             `json:"languages,omitempty"`
	Categories []ExportCategory             `json:"categories,omitempty"`
	Agents     []ExportAgent                `json:"agents,omitempty"`
	Properties []ExportProperty             `json:"properties,omitempty"`
	UIStrings  map[string]map[string]string `json:"ui_strings,omitempty"`
}

// ExportSite describes the site an export came from.
type ExportSite struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Translations maps language code to field name to value.
type Translations map[string]map[string]string

// ExportLanguage represents a language.
type ExportLanguage struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsDefault  bool   `json:"is_default"`
	IsActive   bool   `json:"is_active"`
	Direction  string `json:"direction"`
	Position   int64  `json:"position"`
}

// ExportCategory represents a property category.
type ExportCategory struct {
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description,omitempty"`
	Icon         string       `json:"icon,omitempty"`
	Position     int64        `json:"position"`
	Translations Translations `json:"translations,omitempty"`
}

// ExportAgent represents an agent profile.
type ExportAgent struct {
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Socials      string       `json:"socials,omitempty"`
	Position     int64        `json:"position"`
	IsActive     bool         `json:"is_active"`
	Translations Translations `json:"translations,omitempty"`
}

// ExportProperty represents a listing. Category and agent are referenced by slug.
type ExportProperty struct {
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description,omitempty"`
	Price        int64         `json:"price"`
	Currency     string        `json:"currency"`
	ListingType  string        `json:"listing_type"`
	Status       string        `json:"status"`
	Visibility   string        `json:"visibility"`
	IsFeatured   bool          `json:"is_featured"`
	Address      string        `json:"address,omitempty"`
	City         string        `json:"city,omitempty"`
	Area         float64       `json:"area,omitempty"`
	Bedrooms     int64         `json:"bedrooms"`
	Bathrooms    int64         `json:"bathrooms"`
	Floor        *int64        `json:"floor,omitempty"`
	YearBuilt    *int64        `json:"year_built,omitempty"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	Amenities    string        `json:"amenities,omitempty"`
	CoverImage   string        `json:"cover_image,omitempty"`
	VideoURL     string        `json:"video_url,omitempty"`
	CategorySlug string        `json:"category_slug,omitempty"`
	AgentSlug    string        `json:"agent_slug,omitempty"`
	Position     int64         `json:"position"`
	Images       []ExportImage `json:"images,omitempty"`
	Translations Translations  `json:"translations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ExportImage is one gallery image, in gallery order.
type ExportImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ExportOptions configures what to include in the export.
type ExportOptions struct {
	IncludePrivate      bool
	IncludeTranslations bool
	IncludeUIStrings    bool
	SiteName            string
	SiteURL             string
}

// DefaultExportOptions returns options that include everything.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludePrivate:      true,
		IncludeTranslations: true,
		IncludeUIStrings:    true,
	}
}

// ImportOptions configures import behavior.
type ImportOptions struct {
	// Overwrite updates records whose slug already exists instead of skipping them.
	Overwrite bool
	// DryRun validates and counts without writing.
	DryRun    bool
}

// ImportResult reports what an import did.
type ImportResult struct {
	DryRun  bool           `json:"dry_run"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// ImportError describes a problem with one imported record.
type ImportError struct {
	Entity  string `json:"entity"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (e ImportError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Entity, e.Key, e.Message)
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// AddError records a per-record error.
func (r *ImportResult) AddError(entity, key, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, Key: key, Message: message})
}

// TotalCreated returns the number of created records across entities.
func (r *ImportResult) TotalCreated() int {
	return sum(r.Created)
}

// TotalUpdated returns the number of updated records across entities.
func (r *ImportResult) TotalUpdated() int {
	return sum(r.Updated)
}

// TotalSkipped returns the number of skipped records across entities.
func (r *ImportResult) TotalSkipped() int {
	return sum(r.Skipped)
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Entity names used in ImportResult counters.
const (
	entityLanguage    = "languages"
	entityCategory    = "categories"
	entityAgent       = "agents"
	entityProperty    = "properties"
	entityImage       = "images"
	entityTranslation = "translations"
	entityUIString    = "ui_strings"
)
