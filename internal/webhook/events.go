// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook notifies external systems (CRMs, chat bots) about new
// leads and listing changes with signed JSON POST requests.
package webhook

import (
	"time"
)

// Event types.
const (
	EventAccessRequested = "access_request.created"
	EventAccessVerified  = "access_request.verified"
	EventPropertyCreated = "property.created"
	EventPropertyUpdated = "property.updated"
	EventPropertyDeleted = "property.deleted"
)

// Event represents a webhook event to be dispatched.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new webhook event.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// AccessRequestEventData describes a lead asking for private listings.
type AccessRequestEventData struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Country   string    `json:"country,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PropertyEventData describes a listing change.
type PropertyEventData struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Price      int64  `json:"price"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	Visibility string `json:"visibility"`
	URL        string `json:"url,omitempty"`
}
