// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testSite() *SiteConfig {
	return &SiteConfig{
		SiteName:        "Sun Realty",
		SiteURL:         "https://example.com",
		SiteDescription: "Homes by the sea",
		DefaultOGImage:  "/images/og-default.jpg",
		DefaultLanguage: "en",
		Languages:       []string{"en", "es"},
	}
}

func TestSiteConfigLocalizedURL(t *testing.T) {
	site := testSite()
	tests := []struct {
		lang string
		want string
	}{
		{"", "https://example.com/properties/loft"},
		{"en", "https://example.com/properties/loft"},
		{"es", "https://example.com/es/properties/loft"},
	}
	for _, tt := range tests {
		if got := site.LocalizedURL(tt.lang, "/properties/loft"); got != tt.want {
			t.Errorf("LocalizedURL(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestBuildListingMeta(t *testing.T) {
	lat, lng := 36.72, -4.42
	listing := &ListingData{
		Title:       "Sea View Villa",
		Slug:        "sea-view-villa",
		Description: "<p>Bright villa with <strong>pool</strong></p>",
		Price:       450000,
		Currency:    "EUR",
		ListingType: "sale",
		Status:      "available",
		Address:     "Calle Mar 1",
		City:        "Málaga",
		Area:        180,
		Bedrooms:    4,
		Bathrooms:   3,
		Latitude:    &lat,
		Longitude:   &lng,
		Images:      []string{"/uploads/images/a/large.jpg"},
		CreatedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	meta := BuildListingMeta(listing, testSite(), "es")

	if meta.Title != "Sea View Villa | Sun Realty" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Description != "Bright villa with pool" {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.Canonical != "https://example.com/es/properties/sea-view-villa" {
		t.Errorf("Canonical = %q", meta.Canonical)
	}
	if meta.OGImage != "https://example.com/uploads/images/a/large.jpg" {
		t.Errorf("OGImage = %q, want first gallery image", meta.OGImage)
	}
	if meta.Robots != "index,follow" {
		t.Errorf("Robots = %q", meta.Robots)
	}
	if meta.Alternates["x-default"] != "https://example.com/properties/sea-view-villa" {
		t.Errorf("Alternates = %v", meta.Alternates)
	}

	var schema map[string]any
	if err := json.Unmarshal(meta.JSONLD, &schema); err != nil {
		t.Fatalf("JSONLD is not valid JSON: %v", err)
	}
	if schema["@type"] != "RealEstateListing" {
		t.Errorf("@type = %v", schema["@type"])
	}
	if schema["datePosted"] != "2025-03-01" {
		t.Errorf("datePosted = %v", schema["datePosted"])
	}
	offers := schema["offers"].(map[string]any)
	if offers["price"] != "450000" || offers["priceCurrency"] != "EUR" {
		t.Errorf("offers = %v", offers)
	}
	if offers["availability"] != "https://schema.org/InStock" {
		t.Errorf("availability = %v", offers["availability"])
	}
	if _, ok := schema["geo"]; !ok {
		t.Error("schema missing geo")
	}
}

func TestBuildListingMetaPrivate(t *testing.T) {
	meta := BuildListingMeta(&ListingData{Title: "Off-market penthouse", Slug: "penthouse", Private: true}, testSite(), "en")

	if meta.Robots != "noindex,nofollow" {
		t.Errorf("Robots = %q, want noindex,nofollow", meta.Robots)
	}
	if meta.JSONLD != nil {
		t.Error("private listing should not carry structured data")
	}
	if meta.Alternates != nil {
		t.Error("private listing should not carry alternates")
	}
	if meta.Description != "Homes by the sea" {
		t.Errorf("Description = %q, want site description fallback", meta.Description)
	}
	if meta.OGImage != "https://example.com/images/og-default.jpg" {
		t.Errorf("OGImage = %q, want site default", meta.OGImage)
	}
}

func TestBuildPostMeta(t *testing.T) {
	published := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	post := &PostData{
		Title:       "Buying guide",
		Slug:        "buying-guide",
		BodyHTML:    "<h2>Step one</h2><p>Find an agent.</p>",
		CoverImage:  "https://cdn.example.com/cover.jpg",
		AuthorName:  "Ana",
		PublishedAt: &published,
		UpdatedAt:   published.Add(time.Hour),
	}

	meta := BuildPostMeta(post, testSite(), "en")

	if meta.OGType != "article" {
		t.Errorf("OGType = %q", meta.OGType)
	}
	if meta.Description != "Step one Find an agent." {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.OGImage != "https://cdn.example.com/cover.jpg" {
		t.Errorf("OGImage = %q", meta.OGImage)
	}

	ld := string(meta.JSONLD)
	for _, want := range []string{
		`"@type":"BlogPosting"`,
		`"datePublished":"2025-01-15T10:00:00Z"`,
		`"dateModified":"2025-01-15T11:00:00Z"`,
		`"author":{"@type":"Person","name":"Ana"}`,
		`"mainEntityOfPage":"https://example.com/blog/buying-guide"`,
	} {
		if !strings.Contains(ld, want) {
			t.Errorf("JSONLD missing %s in %s", want, ld)
		}
	}
}

func TestBuildPostMetaExcerptAndNoAuthor(t *testing.T) {
	meta := BuildPostMeta(&PostData{Title: "News", Slug: "news", Excerpt: "Short summary"}, &SiteConfig{SiteURL: "https://example.com"}, "")

	if meta.Title != "News" {
		t.Errorf("Title = %q, want bare title without site name", meta.Title)
	}
	if meta.Description != "Short summary" {
		t.Errorf("Description = %q", meta.Description)
	}
	if strings.Contains(string(meta.JSONLD), `"author"`) {
		t.Error("schema should not include an author")
	}
	if meta.Alternates != nil {
		t.Error("single-language site should not carry alternates")
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple paragraph",
			input: "<p>Hello World</p>",
			want:  "Hello World",
		},
		{
			name:  "nested tags",
			input: "<div><p>Hello <strong>World</strong></p></div>",
			want:  "Hello World",
		},
		{
			name:  "multiple spaces",
			input: "<p>Hello</p>  <p>World</p>",
			want:  "Hello World",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "no tags",
			input: "Plain text",
			want:  "Plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripHTML(tt.input)
			if got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{
			name:   "short text",
			text:   "Hello",
			maxLen: 100,
			want:   "Hello",
		},
		{
			name:   "exact length",
			text:   "Hello",
			maxLen: 5,
			want:   "Hello",
		},
		{
			name:   "truncate at word boundary",
			text:   "Hello World and more text here",
			maxLen: 15,
			want:   "Hello World...",
		},
		{
			name:   "empty text",
			text:   "",
			maxLen: 100,
			want:   "",
		},
		{
			name:   "whitespace trimmed",
			text:   "  Hello World  ",
			maxLen: 100,
			want:   "Hello World",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.text, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		siteURL string
		want    string
	}{
		{
			name:    "relative with slash",
			url:     "/images/test.jpg",
			siteURL: "https://example.com",
			want:    "https://example.com/images/test.jpg",
		},
		{
			name:    "relative without slash",
			url:     "images/test.jpg",
			siteURL: "https://example.com",
			want:    "https://example.com/images/test.jpg",
		},
		{
			name:    "already absolute http",
			url:     "http://other.com/image.jpg",
			siteURL: "https://example.com",
			want:    "http://other.com/image.jpg",
		},
		{
			name:    "already absolute https",
			url:     "https://cdn.com/image.jpg",
			siteURL: "https://example.com",
			want:    "https://cdn.com/image.jpg",
		},
		{
			name:    "empty url",
			url:     "",
			siteURL: "https://example.com",
			want:    "",
		},
		{
			name:    "site url with trailing slash",
			url:     "/image.jpg",
			siteURL: "https://example.com/",
			want:    "https://example.com/image.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := makeAbsoluteURL(tt.url, tt.siteURL)
			if got != tt.want {
				t.Errorf("makeAbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.siteURL, got, tt.want)
			}
		})
	}
}
