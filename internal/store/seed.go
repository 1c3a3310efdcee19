// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/orealty/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme1234"
	DefaultAdminName     = "Administrator"
)

// SeedOptions controls what Seed creates.
type SeedOptions struct {
	// CreateAdmin creates the default admin when no user exists yet.
	CreateAdmin bool
	// DefaultLanguage is the language code created as default on an empty database.
	DefaultLanguage string
}

type seedLanguage struct {
	code, name, native string
}

var knownLanguages = map[string]seedLanguage{
	"en": {"en", "English", "English"},
	"es": {"es", "Spanish", "Español"},
	"ru": {"ru", "Russian", "Русский"},
}

// DefaultSections lists the singleton homepage sections in display order.
var DefaultSections = []EnsureSectionParams{
	{Key: "hero", Title: "Find your next home", IsEnabled: true, Settings: "{}"},
	{Key: "featured", Title: "Featured properties", IsEnabled: true, Settings: `{"limit":6}`},
	{Key: "about", Title: "About us", IsEnabled: true, Settings: "{}"},
	{Key: "statistics", Title: "Our numbers", IsEnabled: true, Settings: "{}"},
	{Key: "agents", Title: "Our agents", IsEnabled: true, Settings: "{}"},
	{Key: "testimonials", Title: "What clients say", IsEnabled: true, Settings: "{}"},
	{Key: "contact", Title: "Contact", IsEnabled: true, Settings: "{}"},
	{Key: "menu", Title: "Main menu", IsEnabled: true, Settings: `{"items":[]}`},
	{Key: "footer", Title: "Footer", IsEnabled: true, Settings: "{}"},
}

// Seed creates the initial admin, default language and section rows.
// It is safe to run on every start.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	queries := New(db)

	if opts.CreateAdmin {
		if err := seedAdmin(ctx, queries); err != nil {
			return err
		}
	}

	if err := seedLanguages(ctx, queries, opts.DefaultLanguage); err != nil {
		return fmt.Errorf("seeding languages: %w", err)
	}

	if err := seedSections(ctx, queries); err != nil {
		return fmt.Errorf("seeding sections: %w", err)
	}

	return nil
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("users already exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         "admin",
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)
	return nil
}

func seedLanguages(ctx context.Context, queries *Queries, defaultCode string) error {
	_, err := queries.GetDefaultLanguage(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if defaultCode == "" {
		defaultCode = "en"
	}
	lang, ok := knownLanguages[defaultCode]
	if !ok {
		lang = seedLanguage{code: defaultCode, name: defaultCode, native: defaultCode}
	}

	now := time.Now().UTC()
	_, err = queries.CreateLanguage(ctx, CreateLanguageParams{
		Code:       lang.code,
		Name:       lang.name,
		NativeName: lang.native,
		IsDefault:  true,
		IsActive:   true,
		Direction:  "ltr",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("creating language %s: %w", lang.code, err)
	}
	slog.Info("created default language", "code", lang.code)
	return nil
}

func seedSections(ctx context.Context, queries *Queries) error {
	now := time.Now().UTC()
	for i, s := range DefaultSections {
		s.Position = int64(i)
		s.CreatedAt = now
		s.UpdatedAt = now
		created, err := queries.EnsureSection(ctx, s)
		if err != nil {
			return fmt.Errorf("creating section %s: %w", s.Key, err)
		}
		if created {
			slog.Debug("created section", "key", s.Key)
		}
	}
	return nil
}
