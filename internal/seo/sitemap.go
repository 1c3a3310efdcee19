// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// Sitemap XML namespaces.
const (
	XMLNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace    = "http://www.w3.org/1999/xhtml"
	hreflangXDefault  = "x-default"
	alternateRelation = "alternate"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// AlternateLink points crawlers at a translated version of a URL.
type AlternateLink struct {
	XMLName  xml.Name `xml:"xhtml:link"`
	Rel      string   `xml:"rel,attr"`
	Hreflang string   `xml:"hreflang,attr"`
	Href     string   `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string          `xml:"loc"`
	LastMod    string          `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq      `xml:"changefreq,omitempty"`
	Priority   string          `xml:"priority,omitempty"`
	Alternates []AlternateLink `xml:",omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr,omitempty"`
	URLs       []SitemapURL `xml:"url"`
}

// SitemapEntry is a public page of the site.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// Frontend paths of the public pages.
const (
	PropertiesPath = "/properties"
	CategoriesPath = "/categories"
	AgentsPath     = "/agents"
	BlogPath       = "/blog"
)

// SitemapBuilder builds sitemap XML for listings, categories, agents and posts.
// Every URL gets hreflang alternates when more than one language is active.
type SitemapBuilder struct {
	siteURL         string
	defaultLanguage string
	languages       []string
	urls            []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. Pages in the default
// language live at the root, others under a "/{lang}" prefix.
func NewSitemapBuilder(siteURL, defaultLanguage string, languages []string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL:         strings.TrimSuffix(siteURL, "/"),
		defaultLanguage: defaultLanguage,
		languages:       languages,
		urls:            make([]SitemapURL, 0),
	}
}

// localized returns the absolute URL of path in lang.
func (b *SitemapBuilder) localized(lang, path string) string {
	if lang == "" || lang == b.defaultLanguage {
		return b.siteURL + path
	}
	return b.siteURL + "/" + lang + path
}

func (b *SitemapBuilder) alternates(path string) []AlternateLink {
	if len(b.languages) < 2 {
		return nil
	}
	links := make([]AlternateLink, 0, len(b.languages)+1)
	for _, lang := range b.languages {
		links = append(links, AlternateLink{Rel: alternateRelation, Hreflang: lang, Href: b.localized(lang, path)})
	}
	links = append(links, AlternateLink{Rel: alternateRelation, Hreflang: hreflangXDefault, Href: b.localized("", path)})
	return links
}

func (b *SitemapBuilder) add(path string, updatedAt time.Time, freq ChangeFreq, priority string) {
	u := SitemapURL{
		Loc:        b.localized("", path),
		ChangeFreq: freq,
		Priority:   priority,
		Alternates: b.alternates(path),
	}
	if !updatedAt.IsZero() {
		u.LastMod = updatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// AddHomepage adds the homepage and the listings index to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.add("/", time.Time{}, ChangeFreqDaily, "1.0")
	b.add(PropertiesPath, time.Time{}, ChangeFreqDaily, "0.9")
}

// AddProperties adds public listings to the sitemap.
func (b *SitemapBuilder) AddProperties(entries []SitemapEntry) {
	for _, e := range entries {
		b.add(PropertiesPath+"/"+e.Slug, e.UpdatedAt, ChangeFreqWeekly, "0.8")
	}
}

// AddCategories adds category listing pages to the sitemap.
func (b *SitemapBuilder) AddCategories(entries []SitemapEntry) {
	for _, e := range entries {
		b.add(CategoriesPath+"/"+e.Slug, e.UpdatedAt, ChangeFreqWeekly, "0.6")
	}
}

// AddAgents adds agent profile pages to the sitemap.
func (b *SitemapBuilder) AddAgents(entries []SitemapEntry) {
	for _, e := range entries {
		b.add(AgentsPath+"/"+e.Slug, e.UpdatedAt, ChangeFreqMonthly, "0.5")
	}
}

// AddPosts adds published blog posts to the sitemap.
func (b *SitemapBuilder) AddPosts(entries []SitemapEntry) {
	for _, e := range entries {
		b.add(BlogPath+"/"+e.Slug, e.UpdatedAt, ChangeFreqMonthly, "0.6")
	}
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}
	if len(b.languages) > 1 {
		sitemap.XMLNSXHTML = XHTMLNamespace
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
