// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"time"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/seo"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
)

// PropertyResponse represents a property in API responses.
type PropertyResponse struct {
	ID          int64                   `json:"id"`
	Title       string                  `json:"title"`
	Slug        string                  `json:"slug"`
	Description string                  `json:"description"`
	Price       int64                   `json:"price"`
	Currency    string                  `json:"currency"`
	ListingType string                  `json:"listing_type"`
	Status      string                  `json:"status"`
	Visibility  string                  `json:"visibility"`
	IsFeatured  bool                    `json:"is_featured"`
	Address     string                  `json:"address"`
	City        string                  `json:"city"`
	Area        float64                 `json:"area"`
	Bedrooms    int64                   `json:"bedrooms"`
	Bathrooms   int64                   `json:"bathrooms"`
	Floor       *int64                  `json:"floor"`
	YearBuilt   *int64                  `json:"year_built"`
	Latitude    *float64                `json:"latitude"`
	Longitude   *float64                `json:"longitude"`
	Amenities   []string                `json:"amenities"`
	CoverImage  string                  `json:"cover_image"`
	VideoURL    string                  `json:"video_url"`
	CategoryID  *int64                  `json:"category_id"`
	AgentID     *int64                  `json:"agent_id"`
	Position    int64                   `json:"position"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Category    *CategoryResponse       `json:"category,omitempty"`
	Agent       *AgentResponse          `json:"agent,omitempty"`
	Images      []PropertyImageResponse `json:"images,omitempty"`
	SEO         *seo.Meta               `json:"seo,omitempty"`
}

// PropertyImageResponse represents a gallery image.
type PropertyImageResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int64  `json:"position"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Position      int64     `json:"position"`
	PropertyCount *int64    `json:"property_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AgentResponse represents an agent in API responses.
type AgentResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Title     string            `json:"title"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	PhotoURL  string            `json:"photo_url"`
	Bio       string            `json:"bio"`
	Socials   model.SocialLinks `json:"socials"`
	Position  int64             `json:"position"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TestimonialResponse represents a testimonial in API responses.
type TestimonialResponse struct {
	ID          int64     `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title"`
	Content     string    `json:"content"`
	Rating      int64     `json:"rating"`
	PhotoURL    string    `json:"photo_url"`
	IsPublished bool      `json:"is_published"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostResponse represents a blog post in API responses.
type PostResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	CoverImage  string     `json:"cover_image"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	AuthorID    *int64     `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SEO         *seo.Meta  `json:"seo,omitempty"`
}

// SectionResponse represents a homepage section in API responses.
type SectionResponse struct {
	ID        int64           `json:"id"`
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle"`
	IsEnabled bool            `json:"is_enabled"`
	Settings  json.RawMessage `json:"settings"`
	Position  int64           `json:"position"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UserResponse represents an admin user in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AccessRequestResponse represents an access request in admin responses.
type AccessRequestResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	Attempts       int64      `json:"attempts"`
	CodeExpiresAt  time.Time  `json:"code_expires_at"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	VerifiedAt     *time.Time `json:"verified_at"`
	IPAddress      string     `json:"ip_address"`
	UserAgent      string     `json:"user_agent"`
	Country        string     `json:"country"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EventResponse represents an event log entry.
type EventResponse struct {
	ID         int64           `json:"id"`
	Level      string          `json:"level"`
	Category   string          `json:"category"`
	Message    string          `json:"message"`
	UserID     *int64          `json:"user_id"`
	Metadata   json.RawMessage `json:"metadata"`
	IPAddress  string          `json:"ip_address"`
	RequestURL string          `json:"request_url"`
	CreatedAt  time.Time       `json:"created_at"`
}

// storePropertyToResponse converts a store.Property to PropertyResponse.
func storePropertyToResponse(p store.Property) PropertyResponse {
	amenities, err := model.ParseAmenities(p.Amenities)
	if err != nil {
		amenities = []string{}
	}
	return PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		ListingType: p.ListingType,
		Status:      p.Status,
		Visibility:  p.Visibility,
		IsFeatured:  p.IsFeatured,
		Address:     p.Address,
		City:        p.City,
		Area:        p.Area,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Floor:       util.Int64Ptr(p.Floor),
		YearBuilt:   util.Int64Ptr(p.YearBuilt),
		Latitude:    util.Float64Ptr(p.Latitude),
		Longitude:   util.Float64Ptr(p.Longitude),
		Amenities:   amenities,
		CoverImage:  p.CoverImage,
		VideoURL:    p.VideoUrl,
		CategoryID:  util.Int64Ptr(p.CategoryID),
		AgentID:     util.Int64Ptr(p.AgentID),
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func storeImagesToResponse(images []store.PropertyImage) []PropertyImageResponse {
	out := make([]PropertyImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, PropertyImageResponse{ID: img.ID, URL: img.Url, Alt: img.Alt, Position: img.Position})
	}
	return out
}

func storeCategoryToResponse(c store.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func storeCategoryWithCountToResponse(c store.CategoryWithCount) CategoryResponse {
	resp := storeCategoryToResponse(c.Category)
	count := c.PropertyCount
	resp.PropertyCount = &count
	return resp
}

func storeAgentToResponse(a store.Agent) AgentResponse {
	socials, err := model.ParseSocialLinks(a.Socials)
	if err != nil {
		socials = model.SocialLinks{}
	}
	return AgentResponse{
		ID:        a.ID,
		Name:      a.Name,
		Slug:      a.Slug,
		Title:     a.Title,
		Email:     a.Email,
		Phone:     a.Phone,
		PhotoURL:  a.PhotoUrl,
		Bio:       a.Bio,
		Socials:   socials,
		Position:  a.Position,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func storeTestimonialToResponse(t store.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:          t.ID,
		AuthorName:  t.AuthorName,
		AuthorTitle: t.AuthorTitle,
		Content:     t.Content,
		Rating:      t.Rating,
		PhotoURL:    t.PhotoUrl,
		IsPublished: t.IsPublished,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func storeContentToResponse(c store.Content) PostResponse {
	return PostResponse{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Excerpt:     c.Excerpt,
		Body:        c.Body,
		BodyHTML:    c.BodyHtml,
		CoverImage:  c.CoverImage,
		Status:      c.Status,
		PublishedAt: util.TimePtr(c.PublishedAt),
		AuthorID:    util.Int64Ptr(c.AuthorID),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func storeSectionToResponse(s store.Section) SectionResponse {
	settings := json.RawMessage(s.Settings)
	if !json.Valid(settings) {
		settings = json.RawMessage("{}")
	}
	return SectionResponse{
		ID:        s.ID,
		Key:       s.Key,
		Title:     s.Title,
		Subtitle:  s.Subtitle,
		IsEnabled: s.IsEnabled,
		Settings:  settings,
		Position:  s.Position,
		UpdatedAt: s.UpdatedAt,
	}
}

func storeUserToResponse(u store.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		LastLoginAt: util.TimePtr(u.LastLoginAt),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func storeAccessRequestToResponse(a store.AccessRequest) AccessRequestResponse {
	return AccessRequestResponse{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Phone:          a.Phone,
		Status:         a.Status,
		Attempts:       a.Attempts,
		CodeExpiresAt:  a.CodeExpiresAt,
		TokenExpiresAt: util.TimePtr(a.TokenExpiresAt),
		VerifiedAt:     util.TimePtr(a.VerifiedAt),
		IPAddress:      a.IpAddress,
		UserAgent:      a.UserAgent,
		Country:        a.Country,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func storeEventToResponse(e store.Event) EventResponse {
	metadata := json.RawMessage(e.Metadata)
	if !json.Valid(metadata) {
		metadata = json.RawMessage("{}")
	}
	return EventResponse{
		ID:         e.ID,
		Level:      e.Level,
		Category:   e.Category,
		Message:    e.Message,
		UserID:     util.Int64Ptr(e.UserID),
		Metadata:   metadata,
		IPAddress:  e.IpAddress,
		RequestURL: e.RequestUrl,
		CreatedAt:  e.CreatedAt,
	}
}

// mapSlice converts every element of items with fn.
func mapSlice[S any, D any](items []S, fn func(S) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
