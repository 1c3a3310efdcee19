// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestNewSitemapBuilder(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com/", "en", []string{"en"})
	if builder.siteURL != "https://example.com" {
		t.Errorf("siteURL = %q, want trailing slash trimmed", builder.siteURL)
	}
	if builder.Len() != 0 {
		t.Errorf("Len() = %d, want 0", builder.Len())
	}
}

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com", "en", []string{"en"})
	builder.AddHomepage()

	if builder.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", builder.Len())
	}

	home := builder.urls[0]
	if home.Loc != "https://example.com/" {
		t.Errorf("Loc = %q, want %q", home.Loc, "https://example.com/")
	}
	if home.Priority != "1.0" || home.ChangeFreq != ChangeFreqDaily {
		t.Errorf("home = %+v", home)
	}
	if builder.urls[1].Loc != "https://example.com/properties" {
		t.Errorf("listings index Loc = %q", builder.urls[1].Loc)
	}
}

func TestSitemapBuilderPaths(t *testing.T) {
	updatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	builder := NewSitemapBuilder("https://example.com", "en", nil)

	builder.AddProperties([]SitemapEntry{{Slug: "sea-view-villa", UpdatedAt: updatedAt}})
	builder.AddCategories([]SitemapEntry{{Slug: "villas"}})
	builder.AddAgents([]SitemapEntry{{Slug: "ana-lopez"}})
	builder.AddPosts([]SitemapEntry{{Slug: "buying-guide"}})

	tests := []struct {
		loc      string
		priority string
	}{
		{"https://example.com/properties/sea-view-villa", "0.8"},
		{"https://example.com/categories/villas", "0.6"},
		{"https://example.com/agents/ana-lopez", "0.5"},
		{"https://example.com/blog/buying-guide", "0.6"},
	}
	if builder.Len() != len(tests) {
		t.Fatalf("Len() = %d, want %d", builder.Len(), len(tests))
	}
	for i, tt := range tests {
		if got := builder.urls[i]; got.Loc != tt.loc || got.Priority != tt.priority {
			t.Errorf("url[%d] = %s (%s), want %s (%s)", i, got.Loc, got.Priority, tt.loc, tt.priority)
		}
	}
	if !strings.HasPrefix(builder.urls[0].LastMod, "2025-01-15") {
		t.Errorf("LastMod = %q, want 2025-01-15", builder.urls[0].LastMod)
	}
	if builder.urls[1].LastMod != "" {
		t.Errorf("LastMod = %q, want empty for zero time", builder.urls[1].LastMod)
	}
}

func TestSitemapBuilderAlternates(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com", "en", []string{"en", "es"})
	builder.AddProperties([]SitemapEntry{{Slug: "loft"}})

	alts := builder.urls[0].Alternates
	if len(alts) != 3 {
		t.Fatalf("alternates = %d, want 3", len(alts))
	}
	want := map[string]string{
		"en":        "https://example.com/properties/loft",
		"es":        "https://example.com/es/properties/loft",
		"x-default": "https://example.com/properties/loft",
	}
	for _, a := range alts {
		if a.Href != want[a.Hreflang] {
			t.Errorf("hreflang %s href = %q, want %q", a.Hreflang, a.Href, want[a.Hreflang])
		}
		if a.Rel != "alternate" {
			t.Errorf("rel = %q, want alternate", a.Rel)
		}
	}
}

func TestSitemapBuilderBuild(t *testing.T) {
	t.Run("single language", func(t *testing.T) {
		builder := NewSitemapBuilder("https://example.com", "en", []string{"en"})
		builder.AddHomepage()

		out, err := builder.Build()
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		xml := string(out)
		if !strings.HasPrefix(xml, "<?xml") {
			t.Error("missing XML header")
		}
		if !strings.Contains(xml, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
			t.Error("missing sitemap namespace")
		}
		if strings.Contains(xml, "xmlns:xhtml") || strings.Contains(xml, "xhtml:link") {
			t.Error("single language sitemap should not carry hreflang links")
		}
	})

	t.Run("multiple languages", func(t *testing.T) {
		builder := NewSitemapBuilder("https://example.com", "en", []string{"en", "ru"})
		builder.AddPosts([]SitemapEntry{{Slug: "news"}})

		out, err := builder.Build()
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		xml := string(out)
		if !strings.Contains(xml, `xmlns:xhtml="http://www.w3.org/1999/xhtml"`) {
			t.Error("missing xhtml namespace")
		}
		if !strings.Contains(xml, `<xhtml:link rel="alternate" hreflang="ru" href="https://example.com/ru/blog/news">`) {
			t.Errorf("missing ru alternate in:\n%s", xml)
		}
	})
}
