// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemaps, robots.txt and the meta tags and structured
// data returned with public listings and blog posts.
package seo

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	descriptionLength = 160
	robotsIndex       = "index,follow"
	robotsNoIndex     = "noindex,nofollow"
)

// Meta holds the SEO data a frontend renders into the document head.
type Meta struct {
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Canonical     string            `json:"canonical,omitempty"`
	OGTitle       string            `json:"og_title,omitempty"`
	OGDescription string            `json:"og_description,omitempty"`
	OGImage       string            `json:"og_image,omitempty"`
	OGType        string            `json:"og_type"`
	OGSiteName    string            `json:"og_site_name,omitempty"`
	Robots        string            `json:"robots"`
	Alternates    map[string]string `json:"alternates,omitempty"`
	JSONLD        json.RawMessage   `json:"json_ld,omitempty"`
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	DefaultLanguage string
	Languages       []string
}

// LocalizedURL returns the absolute URL of path in lang. The default
// language is served without a prefix.
func (s *SiteConfig) LocalizedURL(lang, path string) string {
	base := strings.TrimSuffix(s.SiteURL, "/")
	if lang == "" || lang == s.DefaultLanguage {
		return base + path
	}
	return base + "/" + lang + path
}

func (s *SiteConfig) alternates(path string) map[string]string {
	if len(s.Languages) < 2 {
		return nil
	}
	links := make(map[string]string, len(s.Languages)+1)
	for _, lang := range s.Languages {
		links[lang] = s.LocalizedURL(lang, path)
	}
	links[hreflangXDefault] = s.LocalizedURL("", path)
	return links
}

// ListingData is the subset of a property used for meta tags.
type ListingData struct {
	Title       string
	Slug        string
	Description string
	Price       int64
	Currency    string
	ListingType string
	Status      string
	Address     string
	City        string
	Area        float64
	Bedrooms    int64
	Bathrooms   int64
	Latitude    *float64
	Longitude   *float64
	CoverImage  string
	Images      []string
	Private     bool
	CreatedAt   time.Time
}

// PostData is the subset of a blog post used for meta tags.
type PostData struct {
	Title       string
	Slug        string
	Excerpt     string
	BodyHTML    string
	CoverImage  string
	AuthorName  string
	PublishedAt *time.Time
	UpdatedAt   time.Time
}

// BuildListingMeta creates meta tags and RealEstateListing structured data
// for a property page in lang. Private listings are never indexed.
func BuildListingMeta(listing *ListingData, site *SiteConfig, lang string) *Meta {
	path := PropertiesPath + "/" + listing.Slug
	meta := &Meta{
		Title:      pageTitle(listing.Title, site.SiteName),
		OGTitle:    listing.Title,
		OGType:     "website",
		OGSiteName: site.SiteName,
		Canonical:  site.LocalizedURL(lang, path),
		Robots:     robotsIndex,
	}

	meta.Description = truncateText(stripHTML(listing.Description), descriptionLength)
	if meta.Description == "" {
		meta.Description = site.SiteDescription
	}
	meta.OGDescription = meta.Description

	// cover -> first gallery image -> site default
	switch {
	case listing.CoverImage != "":
		meta.OGImage = makeAbsoluteURL(listing.CoverImage, site.SiteURL)
	case len(listing.Images) > 0:
		meta.OGImage = makeAbsoluteURL(listing.Images[0], site.SiteURL)
	default:
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	if listing.Private {
		meta.Robots = robotsNoIndex
		return meta
	}

	meta.Alternates = site.alternates(path)
	meta.JSONLD = marshalJSONLD(buildListingSchema(listing, site, meta))
	return meta
}

// BuildPostMeta creates meta tags and BlogPosting structured data for a post.
func BuildPostMeta(post *PostData, site *SiteConfig, lang string) *Meta {
	path := BlogPath + "/" + post.Slug
	meta := &Meta{
		Title:      pageTitle(post.Title, site.SiteName),
		OGTitle:    post.Title,
		OGType:     "article",
		OGSiteName: site.SiteName,
		Canonical:  site.LocalizedURL(lang, path),
		Robots:     robotsIndex,
		Alternates: site.alternates(path),
	}

	if post.Excerpt != "" {
		meta.Description = truncateText(post.Excerpt, descriptionLength)
	} else {
		meta.Description = truncateText(stripHTML(post.BodyHTML), descriptionLength)
	}
	meta.OGDescription = meta.Description

	if post.CoverImage != "" {
		meta.OGImage = makeAbsoluteURL(post.CoverImage, site.SiteURL)
	} else {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	meta.JSONLD = marshalJSONLD(buildPostSchema(post, site, meta))
	return meta
}

func pageTitle(title, siteName string) string {
	if siteName == "" {
		return title
	}
	if title == "" {
		return siteName
	}
	return title + " | " + siteName
}

// ListingSchema represents JSON-LD RealEstateListing structured data.
type ListingSchema struct {
	Context     string          `json:"@context"`
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url"`
	Image       []string        `json:"image,omitempty"`
	DatePosted  string          `json:"datePosted,omitempty"`
	Offers      *OfferSchema    `json:"offers,omitempty"`
	Address     *AddressSchema  `json:"address,omitempty"`
	Geo         *GeoSchema      `json:"geo,omitempty"`
	Rooms       int64           `json:"numberOfRooms,omitempty"`
	Bathrooms   int64           `json:"numberOfBathroomsTotal,omitempty"`
	FloorSize   *QuantitySchema `json:"floorSize,omitempty"`
}

// OfferSchema represents a JSON-LD Offer.
type OfferSchema struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Function      string `json:"businessFunction,omitempty"`
	Availability  string `json:"availability,omitempty"`
}

// AddressSchema represents a JSON-LD PostalAddress.
type AddressSchema struct {
	Type     string `json:"@type"`
	Street   string `json:"streetAddress,omitempty"`
	Locality string `json:"addressLocality,omitempty"`
}

// GeoSchema represents JSON-LD GeoCoordinates.
type GeoSchema struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// QuantitySchema represents a JSON-LD QuantitativeValue in square meters.
type QuantitySchema struct {
	Type     string  `json:"@type"`
	Value    float64 `json:"value"`
	UnitCode string  `json:"unitCode"`
}

// PostSchema represents JSON-LD BlogPosting structured data.
type PostSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// schema.org ItemAvailability values by listing status.
var availability = map[string]string{
	"available": "https://schema.org/InStock",
	"reserved":  "https://schema.org/LimitedAvailability",
	"sold":      "https://schema.org/SoldOut",
	"rented":    "https://schema.org/SoldOut",
}

func buildListingSchema(listing *ListingData, site *SiteConfig, meta *Meta) ListingSchema {
	schema := ListingSchema{
		Context:     "https://schema.org",
		Type:        "RealEstateListing",
		Name:        listing.Title,
		Description: meta.Description,
		URL:         meta.Canonical,
		Rooms:       listing.Bedrooms,
		Bathrooms:   listing.Bathrooms,
	}

	if listing.CoverImage != "" {
		schema.Image = append(schema.Image, makeAbsoluteURL(listing.CoverImage, site.SiteURL))
	}
	for _, img := range listing.Images {
		schema.Image = append(schema.Image, makeAbsoluteURL(img, site.SiteURL))
	}

	if !listing.CreatedAt.IsZero() {
		schema.DatePosted = listing.CreatedAt.UTC().Format(time.DateOnly)
	}

	if listing.Currency != "" {
		offer := &OfferSchema{
			Type:          "Offer",
			Price:         strconv.FormatInt(listing.Price, 10),
			PriceCurrency: listing.Currency,
			Availability:  availability[listing.Status],
		}
		switch listing.ListingType {
		case "sale":
			offer.Function = "https://purl.org/goodrelations/v1#Sell"
		case "rent":
			offer.Function = "https://purl.org/goodrelations/v1#LeaseOut"
		}
		schema.Offers = offer
	}

	if listing.Address != "" || listing.City != "" {
		schema.Address = &AddressSchema{
			Type:     "PostalAddress",
			Street:   listing.Address,
			Locality: listing.City,
		}
	}

	if listing.Latitude != nil && listing.Longitude != nil {
		schema.Geo = &GeoSchema{
			Type:      "GeoCoordinates",
			Latitude:  *listing.Latitude,
			Longitude: *listing.Longitude,
		}
	}

	if listing.Area > 0 {
		schema.FloorSize = &QuantitySchema{Type: "QuantitativeValue", Value: listing.Area, UnitCode: "MTK"}
	}

	return schema
}

func buildPostSchema(post *PostData, site *SiteConfig, meta *Meta) PostSchema {
	schema := PostSchema{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         post.Title,
		Description:      meta.Description,
		Image:            makeAbsoluteURL(post.CoverImage, site.SiteURL),
		MainEntityOfPage: meta.Canonical,
	}

	if post.PublishedAt != nil {
		schema.DatePublished = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !post.UpdatedAt.IsZero() {
		schema.DateModified = post.UpdatedAt.UTC().Format(time.RFC3339)
	}

	if post.AuthorName != "" {
		schema.Author = &PersonSchema{Type: "Person", Name: post.AuthorName}
	}

	schema.Publisher = &OrgSchema{Type: "Organization", Name: site.SiteName}
	if site.DefaultOGImage != "" {
		schema.Publisher.Logo = &ImageSchema{
			Type: "ImageObject",
			URL:  makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		}
	}

	return schema
}

// marshalJSONLD marshals structured data for embedding in a JSON response.
func marshalJSONLD(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
