// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/orealty/internal/auth"
)

// Demo mode credentials
const (
	DemoAdminEmail    = "demo@example.com"
	DemoAdminPassword = "demo1234demo"
	DemoAdminName     = "Demo Admin"

	DemoEditorEmail    = "editor@example.com"
	DemoEditorPassword = "demo1234demo"
	DemoEditorName     = "Demo Editor"
)

// SeedDemo fills an empty database with sample listings for showcasing the site.
// Every step skips itself when its table already has rows.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	slog.Info("seeding demo content")
	queries := New(db)

	adminID, err := seedDemoUsers(ctx, queries)
	if err != nil {
		return fmt.Errorf("seeding demo users: %w", err)
	}

	categoryIDs, err := seedDemoCategories(ctx, queries)
	if err != nil {
		return fmt.Errorf("seeding demo categories: %w", err)
	}

	agentIDs, err := seedDemoAgents(ctx, queries)
	if err != nil {
		return fmt.Errorf("seeding demo agents: %w", err)
	}

	if err := seedDemoProperties(ctx, queries, categoryIDs, agentIDs); err != nil {
		return fmt.Errorf("seeding demo properties: %w", err)
	}

	if err := seedDemoHomepage(ctx, queries); err != nil {
		return fmt.Errorf("seeding demo homepage: %w", err)
	}

	if err := seedDemoPosts(ctx, queries, adminID); err != nil {
		return fmt.Errorf("seeding demo posts: %w", err)
	}

	slog.Info("demo content seeded successfully")
	return nil
}

func seedDemoUsers(ctx context.Context, queries *Queries) (int64, error) {
	existingUser, err := queries.GetUserByEmail(ctx, DemoAdminEmail)
	if err == nil {
		slog.Info("demo users already exist, skipping")
		return existingUser.ID, nil
	}

	now := time.Now().UTC()

	adminHash, err := auth.HashPassword(DemoAdminPassword)
	if err != nil {
		return 0, fmt.Errorf("hashing admin password: %w", err)
	}
	admin, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DemoAdminEmail,
		PasswordHash: adminHash,
		Role:         "admin",
		Name:         DemoAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return 0, fmt.Errorf("creating demo admin: %w", err)
	}

	editorHash, err := auth.HashPassword(DemoEditorPassword)
	if err != nil {
		return 0, fmt.Errorf("hashing editor password: %w", err)
	}
	_, err = queries.CreateUser(ctx, CreateUserParams{
		Email:        DemoEditorEmail,
		PasswordHash: editorHash,
		Role:         "editor",
		Name:         DemoEditorName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return 0, fmt.Errorf("creating demo editor: %w", err)
	}

	slog.Info("created demo users",
		"admin_email", DemoAdminEmail,
		"editor_email", DemoEditorEmail,
		"password", DemoAdminPassword,
	)
	return admin.ID, nil
}

func seedDemoCategories(ctx context.Context, queries *Queries) (map[string]int64, error) {
	ids := make(map[string]int64)
	count, err := queries.CountCategories(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Info("categories already exist, skipping demo categories")
		return ids, nil
	}

	categories := []struct{ name, slug, icon string }{
		{"Apartments", "apartments", "building"},
		{"Houses", "houses", "home"},
		{"Villas", "villas", "sun"},
		{"Commercial", "commercial", "briefcase"},
	}

	now := time.Now().UTC()
	for i, c := range categories {
		cat, err := queries.CreateCategory(ctx, CreateCategoryParams{
			Name:      c.name,
			Slug:      c.slug,
			Icon:      c.icon,
			Position:  int64(i),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating category %s: %w", c.slug, err)
		}
		ids[c.slug] = cat.ID
	}
	return ids, nil
}

func seedDemoAgents(ctx context.Context, queries *Queries) (map[string]int64, error) {
	ids := make(map[string]int64)
	count, err := queries.CountAgents(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Info("agents already exist, skipping demo agents")
		return ids, nil
	}

	agents := []struct{ name, slug, title, email string }{
		{"Maria Lopez", "maria-lopez", "Senior Broker", "maria@example.com"},
		{"Ivan Petrov", "ivan-petrov", "Rental Specialist", "ivan@example.com"},
		{"Sarah Jones", "sarah-jones", "Luxury Homes", "sarah@example.com"},
	}

	now := time.Now().UTC()
	for i, a := range agents {
		agent, err := queries.CreateAgent(ctx, CreateAgentParams{
			Name:      a.name,
			Slug:      a.slug,
			Title:     a.title,
			Email:     a.email,
			Socials:   "{}",
			Position:  int64(i),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating agent %s: %w", a.slug, err)
		}
		ids[a.slug] = agent.ID
	}
	return ids, nil
}

type demoProperty struct {
	title, slug, city, category, agent, listingType, visibility string
	price                                                       int64
	bedrooms, bathrooms                                         int64
	area                                                        float64
	featured                                                    bool
}

func demoProperties() []demoProperty {
	return []demoProperty{
		{"Sunny two-bedroom apartment", "sunny-two-bedroom-apartment", "Valencia", "apartments", "maria-lopez", "sale", "public", 185000, 2, 1, 74, true},
		{"Family house with garden", "family-house-with-garden", "Madrid", "houses", "maria-lopez", "sale", "public", 420000, 4, 2, 190, true},
		{"Seafront villa", "seafront-villa", "Marbella", "villas", "sarah-jones", "sale", "private", 2350000, 6, 5, 540, false},
		{"City centre studio", "city-centre-studio", "Barcelona", "apartments", "ivan-petrov", "rent", "public", 1100, 1, 1, 38, false},
		{"Office floor near the station", "office-floor-near-the-station", "Madrid", "commercial", "ivan-petrov", "rent", "public", 5400, 0, 2, 310, false},
		{"Penthouse with roof terrace", "penthouse-with-roof-terrace", "Valencia", "apartments", "sarah-jones", "sale", "private", 890000, 3, 3, 160, true},
	}
}

func seedDemoProperties(ctx context.Context, queries *Queries, categoryIDs, agentIDs map[string]int64) error {
	count, err := queries.CountProperties(ctx, PropertyFilter{})
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("properties already exist, skipping demo properties")
		return nil
	}

	now := time.Now().UTC()
	for i, p := range demoProperties() {
		params := PropertyParams{
			Title:       p.title,
			Slug:        p.slug,
			Description: "A demo listing in " + p.city + ".",
			Price:       p.price,
			Currency:    "EUR",
			ListingType: p.listingType,
			Status:      "available",
			Visibility:  p.visibility,
			IsFeatured:  p.featured,
			City:        p.city,
			Area:        p.area,
			Bedrooms:    p.bedrooms,
			Bathrooms:   p.bathrooms,
			Amenities:   `["parking","air conditioning"]`,
			Position:    int64(i),
		}
		if id, ok := categoryIDs[p.category]; ok {
			params.CategoryID = sql.NullInt64{Int64: id, Valid: true}
		}
		if id, ok := agentIDs[p.agent]; ok {
			params.AgentID = sql.NullInt64{Int64: id, Valid: true}
		}
		if _, err := queries.CreateProperty(ctx, CreatePropertyParams{
			PropertyParams: params,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("creating property %s: %w", p.slug, err)
		}
	}
	return nil
}

func seedDemoHomepage(ctx context.Context, queries *Queries) error {
	existing, err := queries.ListSlides(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("slides already exist, skipping demo homepage")
		return nil
	}

	now := time.Now().UTC()
	if _, err := queries.CreateSlide(ctx, CreateSlideParams{
		Title:      "Homes that fit your life",
		Subtitle:   "Apartments, houses and villas across Spain",
		LinkUrl:    "/properties",
		ButtonText: "Browse listings",
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return fmt.Errorf("creating slide: %w", err)
	}

	stats := []struct {
		label  string
		value  int64
		suffix string
	}{
		{"Properties sold", 1200, "+"},
		{"Happy clients", 950, "+"},
		{"Years on the market", 15, ""},
	}
	for i, s := range stats {
		if _, err := queries.CreateStatistic(ctx, CreateStatisticParams{
			Label:     s.label,
			Value:     s.value,
			Suffix:    s.suffix,
			Position:  int64(i),
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating statistic: %w", err)
		}
	}

	if _, err := queries.CreateTestimonial(ctx, CreateTestimonialParams{
		AuthorName:  "Elena R.",
		AuthorTitle: "Bought an apartment in Valencia",
		Content:     "The team found exactly what we were looking for in two weeks.",
		Rating:      5,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return fmt.Errorf("creating testimonial: %w", err)
	}
	return nil
}

func seedDemoPosts(ctx context.Context, queries *Queries, authorID int64) error {
	count, err := queries.CountContents(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("posts already exist, skipping demo posts")
		return nil
	}

	now := time.Now().UTC()
	_, err = queries.CreateContent(ctx, CreateContentParams{
		Title:       "Five things to check before buying",
		Slug:        "five-things-to-check-before-buying",
		Excerpt:     "A short checklist for first-time buyers.",
		Body:        "## Location\n\nVisit the area at different times of day.",
		BodyHtml:    "<h2>Location</h2>\n<p>Visit the area at different times of day.</p>\n",
		Status:      "published",
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		AuthorID:    sql.NullInt64{Int64: authorID, Valid: authorID > 0},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("creating post: %w", err)
	}
	return nil
}
