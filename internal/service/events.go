// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic shared by the HTTP handlers,
// the scheduler and the command line tool.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/orealty/internal/logging"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

// EventService writes audit entries to the event log.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Log records an event. The user, client IP and request URL are taken from
// the request info attached to ctx, when present.
func (s *EventService) Log(ctx context.Context, level, category, message string, metadata map[string]any) error {
	info := logging.RequestInfoFrom(ctx)

	var userID sql.NullInt64
	if info.UserID > 0 {
		userID = sql.NullInt64{Int64: info.UserID, Valid: true}
	}

	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:      level,
		Category:   category,
		Message:    message,
		UserID:     userID,
		Metadata:   metadataJSON,
		IpAddress:  info.IP,
		RequestUrl: info.URL,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to record event", "category", category, "error", err)
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// Info records an info-level event.
func (s *EventService) Info(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelInfo, category, message, metadata)
}

// Warning records a warning-level event.
func (s *EventService) Warning(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelWarning, category, message, metadata)
}

// Error records an error-level event.
func (s *EventService) Error(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelError, category, message, metadata)
}

// Purge removes events older than olderThan and returns how many were removed.
func (s *EventService) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	n, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging events: %w", err)
	}
	return n, nil
}
