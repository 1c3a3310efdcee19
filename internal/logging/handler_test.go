// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.EventFilter{Limit: 100})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
		captured  bool
	}{
		{"error", slog.LevelError, model.EventLevelError, true},
		{"warn", slog.LevelWarn, model.EventLevelWarning, true},
		{"info", slog.LevelInfo, "", false},
		{"debug", slog.LevelDebug, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := testutil.TestDB(t)
			defer cleanup()

			logger := slog.New(NewEventLogHandler(discardHandler{}, db))
			logger.Log(context.Background(), tt.level, "something happened")

			events := listEvents(t, db)
			if !tt.captured {
				if len(events) != 0 {
					t.Fatalf("expected no events, got %d", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))
	logger.Warn("not mirrored")
	logger.Error("mirrored")

	events := listEvents(t, db)
	if len(events) != 1 || events[0].Message != "mirrored" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestEventLogHandler_Category(t *testing.T) {
	tests := []struct {
		message string
		attrs   []any
		want    string
	}{
		{"login failed", nil, model.EventCategoryAuth},
		{"access request rate limited", nil, model.EventCategoryAccess},
		{"property image missing", nil, model.EventCategoryProperty},
		{"upload rejected", nil, model.EventCategoryMedia},
		{"cache invalidation failed", nil, model.EventCategoryCache},
		{"disk almost full", nil, model.EventCategorySystem},
		{"anything", []any{"category", model.EventCategoryContent}, model.EventCategoryContent},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			db, cleanup := testutil.TestDB(t)
			defer cleanup()

			slog.New(NewEventLogHandler(discardHandler{}, db)).Warn(tt.message, tt.attrs...)

			events := listEvents(t, db)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandler_MetadataAndRequestInfo(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "ops@example.com", "password1234", model.RoleAdmin)

	ctx := WithRequestInfo(context.Background(), RequestInfo{URL: "/api/v1/admin/properties", IP: "203.0.113.9"})
	SetUserID(ctx, user.ID)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).
		With("component", "api").
		WithGroup("req")
	logger.WarnContext(ctx, "slow \"query\"", "ms", 1200, "category", model.EventCategorySystem)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]

	if ev.RequestUrl != "/api/v1/admin/properties" || ev.IpAddress != "203.0.113.9" {
		t.Errorf("request info not recorded: %+v", ev)
	}
	if !ev.UserID.Valid || ev.UserID.Int64 != user.ID {
		t.Errorf("UserID = %+v, want %d", ev.UserID, user.ID)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, ev.Metadata)
	}
	if meta["component"] != "api" || meta["req.ms"] != "1200" {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["req.category"]; ok {
		t.Error("category must not be duplicated into metadata")
	}
}

func TestSetUserID_WithoutRequestInfo(t *testing.T) {
	SetUserID(context.Background(), 5)
	if info := RequestInfoFrom(context.Background()); info.UserID != 0 {
		t.Errorf("unexpected info %+v", info)
	}
}
