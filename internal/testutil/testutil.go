// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/store"
)

// TestLogger creates a quiet test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary database with all migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "realty-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

// SeededDB is TestDB plus the default language and section rows.
func SeededDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, cleanup := TestDB(t)
	if err := store.Seed(context.Background(), db, store.SeedOptions{DefaultLanguage: "en"}); err != nil {
		cleanup()
		t.Fatalf("Seed: %v", err)
	}
	return db, cleanup
}

// CreateUser inserts a user with the given role and password.
func CreateUser(t *testing.T, db *sql.DB, email, password, role string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test " + role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// CreateLanguage inserts an active, non-default language.
func CreateLanguage(t *testing.T, db *sql.DB, code, name string) store.Language {
	t.Helper()
	now := time.Now().UTC()
	lang, err := store.New(db).CreateLanguage(context.Background(), store.CreateLanguageParams{
		Code:       code,
		Name:       name,
		NativeName: name,
		IsActive:   true,
		Direction:  "ltr",
		Position:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	return lang
}

// CreateProperty inserts an available sale listing with the given visibility.
func CreateProperty(t *testing.T, db *sql.DB, title, slug, visibility string) store.Property {
	t.Helper()
	now := time.Now().UTC()
	p, err := store.New(db).CreateProperty(context.Background(), store.CreatePropertyParams{
		PropertyParams: store.PropertyParams{
			Title:       title,
			Slug:        slug,
			Price:       250000,
			Currency:    "USD",
			ListingType: "sale",
			Status:      "available",
			Visibility:  visibility,
			City:        "Valencia",
			Bedrooms:    2,
			Amenities:   "[]",
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	return p
}
