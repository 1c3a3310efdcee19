// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/olegiv/orealty/internal/logging"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/testutil"
)

func TestEventService_Log(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "admin@example.com", "secret-password-1", "admin")
	svc := NewEventService(db, testutil.TestLogger())

	ctx := logging.WithRequestInfo(context.Background(), logging.RequestInfo{
		URL: "/api/v1/admin/properties",
		IP:  "203.0.113.9",
	})
	logging.SetUserID(ctx, user.ID)

	err := svc.Info(ctx, model.EventCategoryProperty, "Property created", map[string]any{"id": 7})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	var level, category, message, metadata, ip, requestURL string
	var userID sql.NullInt64
	err = db.QueryRow("SELECT level, category, message, user_id, metadata, ip_address, request_url FROM events").
		Scan(&level, &category, &message, &userID, &metadata, &ip, &requestURL)
	if err != nil {
		t.Fatalf("reading event: %v", err)
	}

	if level != model.EventLevelInfo {
		t.Errorf("level = %q, want %q", level, model.EventLevelInfo)
	}
	if category != model.EventCategoryProperty {
		t.Errorf("category = %q", category)
	}
	if message != "Property created" {
		t.Errorf("message = %q", message)
	}
	if !userID.Valid || userID.Int64 != user.ID {
		t.Errorf("user_id = %v, want %d", userID, user.ID)
	}
	if metadata != `{"id":7}` {
		t.Errorf("metadata = %q", metadata)
	}
	if ip != "203.0.113.9" {
		t.Errorf("ip_address = %q", ip)
	}
	if requestURL != "/api/v1/admin/properties" {
		t.Errorf("request_url = %q", requestURL)
	}
}

func TestEventService_LogWithoutRequest(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db, nil)
	if err := svc.Warning(context.Background(), model.EventCategorySystem, "Disk almost full", nil); err != nil {
		t.Fatalf("Warning: %v", err)
	}

	var userID sql.NullInt64
	var metadata, level string
	if err := db.QueryRow("SELECT user_id, metadata, level FROM events").Scan(&userID, &metadata, &level); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if userID.Valid {
		t.Error("user_id should be NULL")
	}
	if metadata != "{}" {
		t.Errorf("metadata = %q, want {}", metadata)
	}
	if level != model.EventLevelWarning {
		t.Errorf("level = %q", level)
	}
}

func TestEventService_Purge(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db, testutil.TestLogger())
	ctx := context.Background()

	if err := svc.Error(ctx, model.EventCategoryAuth, "recent", nil); err != nil {
		t.Fatalf("Error: %v", err)
	}
	old := time.Now().UTC().Add(-100 * 24 * time.Hour)
	if _, err := db.Exec(`INSERT INTO events (level, category, message, metadata, ip_address, request_url, created_at)
		VALUES ('info', 'system', 'old', '{}', '', '', ?)`, old); err != nil {
		t.Fatalf("inserting old event: %v", err)
	}

	n, err := svc.Purge(ctx, 90*24*time.Hour)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("remaining = %d, want 1", count)
	}
}
