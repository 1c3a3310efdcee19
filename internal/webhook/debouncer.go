// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DebounceConfig holds debouncer configuration.
type DebounceConfig struct {
	// Interval is the quiet period after the last event for an entity.
	Interval time.Duration
	// MaxWait bounds how long a burst of events may be held back.
	MaxWait time.Duration
}

// DefaultDebounceConfig returns default debounce configuration.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Interval: 2 * time.Second,
		MaxWait:  10 * time.Second,
	}
}

type pendingEvent struct {
	event     *Event
	timer     *time.Timer
	firstSeen time.Time
}

// Debouncer coalesces bursts of events for the same entity, such as a
// listing saved several times while an editor fills in its gallery, into
// a single delivery carrying the latest data.
type Debouncer struct {
	next    Notifier
	config  DebounceConfig
	pending map[string]*pendingEvent
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDebouncer creates a debouncer forwarding to next.
func NewDebouncer(next Notifier, config DebounceConfig) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		next:    next,
		config:  config,
		pending: make(map[string]*pendingEvent),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// eventKey identifies the entity an event is about.
func eventKey(event *Event) string {
	var entityID int64

	switch data := event.Data.(type) {
	case PropertyEventData:
		entityID = data.ID
	case *PropertyEventData:
		entityID = data.ID
	case AccessRequestEventData:
		entityID = data.ID
	case *AccessRequestEventData:
		entityID = data.ID
	case map[string]any:
		switch id := data["id"].(type) {
		case int64:
			entityID = id
		case float64:
			entityID = int64(id)
		default:
			return event.Type
		}
	default:
		return event.Type
	}

	return fmt.Sprintf("%s:%d", event.Type, entityID)
}

// Dispatch holds event until no newer event for the same entity arrives
// within Interval, or MaxWait has passed since the first one.
func (d *Debouncer) Dispatch(_ context.Context, event *Event) error {
	key := eventKey(event)
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.pending[key]; ok {
		existing.event = event
		if now.Sub(existing.firstSeen) >= d.config.MaxWait {
			d.dispatchLocked(key)
			return nil
		}
		existing.timer.Reset(d.config.Interval)
		return nil
	}

	pe := &pendingEvent{
		event:     event,
		firstSeen: now,
	}
	pe.timer = time.AfterFunc(d.config.Interval, func() {
		d.mu.Lock()
		d.dispatchLocked(key)
		d.mu.Unlock()
	})
	d.pending[key] = pe
	return nil
}

// dispatchLocked forwards a pending event. Must be called with lock held.
func (d *Debouncer) dispatchLocked(key string) {
	pe, ok := d.pending[key]
	if !ok {
		return
	}

	pe.timer.Stop()
	delete(d.pending, key)

	d.wg.Add(1)
	go func(event *Event) {
		defer d.wg.Done()
		_ = d.next.Dispatch(d.ctx, event)
	}(pe.event)
}

// Flush immediately forwards all pending events.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key := range d.pending {
		d.dispatchLocked(key)
	}
}

// Stop flushes pending events and waits for them to be handed over.
func (d *Debouncer) Stop() {
	d.Flush()
	d.wg.Wait()
	d.cancel()
}

// PendingCount returns the number of pending events.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

var _ Notifier = (*Debouncer)(nil)
