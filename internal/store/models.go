// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Language struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	NativeName string    `json:"native_name"`
	IsDefault  bool      `json:"is_default"`
	IsActive   bool      `json:"is_active"`
	Direction  string    `json:"direction"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Event struct {
	ID         int64         `json:"id"`
	Level      string        `json:"level"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	UserID     sql.NullInt64 `json:"user_id"`
	Metadata   string        `json:"metadata"`
	IpAddress  string        `json:"ip_address"`
	RequestUrl string        `json:"request_url"`
	CreatedAt  time.Time     `json:"created_at"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCount is a category plus the number of properties filed under it.
type CategoryWithCount struct {
	Category
	PropertyCount int64 `json:"property_count"`
}

type Agent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	PhotoUrl  string    `json:"photo_url"`
	Bio       string    `json:"bio"`
	Socials   string    `json:"socials"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Property struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	Currency    string          `json:"currency"`
	ListingType string          `json:"listing_type"`
	Status      string          `json:"status"`
	Visibility  string          `json:"visibility"`
	IsFeatured  bool            `json:"is_featured"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Area        float64         `json:"area"`
	Bedrooms    int64           `json:"bedrooms"`
	Bathrooms   int64           `json:"bathrooms"`
	Floor       sql.NullInt64   `json:"floor"`
	YearBuilt   sql.NullInt64   `json:"year_built"`
	Latitude    sql.NullFloat64 `json:"latitude"`
	Longitude   sql.NullFloat64 `json:"longitude"`
	Amenities   string          `json:"amenities"`
	CoverImage  string          `json:"cover_image"`
	VideoUrl    string          `json:"video_url"`
	CategoryID  sql.NullInt64   `json:"category_id"`
	AgentID     sql.NullInt64   `json:"agent_id"`
	Position    int64           `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PropertyImage struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Url        string    `json:"url"`
	Alt        string    `json:"alt"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

type Testimonial struct {
	ID          int64     `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title"`
	Content     string    `json:"content"`
	Rating      int64     `json:"rating"`
	PhotoUrl    string    `json:"photo_url"`
	IsPublished bool      `json:"is_published"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Slide struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	ImageUrl   string    `json:"image_url"`
	VideoUrl   string    `json:"video_url"`
	LinkUrl    string    `json:"link_url"`
	ButtonText string    `json:"button_text"`
	Position   int64     `json:"position"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Statistic struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Value     int64     `json:"value"`
	Suffix    string    `json:"suffix"`
	Icon      string    `json:"icon"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Section struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	IsEnabled bool      `json:"is_enabled"`
	Settings  string    `json:"settings"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Content struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt"`
	Body        string        `json:"body"`
	BodyHtml    string        `json:"body_html"`
	CoverImage  string        `json:"cover_image"`
	Status      string        `json:"status"`
	PublishedAt sql.NullTime  `json:"published_at"`
	AuthorID    sql.NullInt64 `json:"author_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type UiString struct {
	ID           int64     `json:"id"`
	LanguageCode string    `json:"language_code"`
	Key          string    `json:"key"`
	Value        string    `json:"value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FieldTranslation struct {
	ID           int64     `json:"id"`
	EntityType   string    `json:"entity_type"`
	EntityID     int64     `json:"entity_id"`
	LanguageCode string    `json:"language_code"`
	Field        string    `json:"field"`
	Value        string    `json:"value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AccessRequest struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	CodeHash       string         `json:"-"`
	CodeExpiresAt  time.Time      `json:"code_expires_at"`
	Attempts       int64          `json:"attempts"`
	Status         string         `json:"status"`
	TokenHash      sql.NullString `json:"-"`
	TokenExpiresAt sql.NullTime   `json:"token_expires_at"`
	VerifiedAt     sql.NullTime   `json:"verified_at"`
	IpAddress      string         `json:"ip_address"`
	UserAgent      string         `json:"user_agent"`
	Country        string         `json:"country"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
