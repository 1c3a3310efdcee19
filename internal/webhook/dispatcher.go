// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier accepts events for delivery.
type Notifier interface {
	Dispatch(ctx context.Context, event *Event) error
}

// Config holds dispatcher configuration.
type Config struct {
	URLs           []string
	Secret         string
	Workers        int
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// DrainTimeout bounds how long Stop waits for queued deliveries.
	DrainTimeout   time.Duration
	Client         *http.Client
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        2,
		QueueSize:      100,
		MaxAttempts:    5,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     time.Minute,
		DrainTimeout:   10 * time.Second,
	}
}

// queuedDelivery is one event bound for one URL.
type queuedDelivery struct {
	ID      string
	URL     string
	Event   string
	Payload []byte
}

// Dispatcher delivers events to every configured URL from a pool of
// workers, retrying failed deliveries with exponential backoff.
type Dispatcher struct {
	cfg     Config
	client  *http.Client
	logger  *slog.Logger
	queue   chan *queuedDelivery
	wg      sync.WaitGroup
	done    chan struct{}
	abort   context.CancelFunc
	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a new webhook dispatcher. Zero config fields take
// their DefaultConfig values.
func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = def.DrainTimeout
	}
	client := cfg.Client
	if client == nil {
		client = httpClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		cfg:    cfg,
		client: client,
		logger: logger,
		queue:  make(chan *queuedDelivery, cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start starts the dispatcher workers. Cancelling ctx aborts in-flight
// and queued deliveries.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	ctx, d.abort = context.WithCancel(ctx)
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", "workers", d.cfg.Workers, "targets", len(d.cfg.URLs))

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops accepting events and waits for the workers to deliver what is
// already queued. Deliveries still pending after DrainTimeout are aborted.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.done)

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	timer := time.NewTimer(d.cfg.DrainTimeout)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		d.logger.Warn("webhook drain timed out, aborting deliveries", "pending", len(d.queue))
		d.abort()
		<-drained
	}
	d.abort()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			d.drain(ctx, id)
			return
		case delivery := <-d.queue:
			d.handle(ctx, id, delivery)
		}
	}
}

// drain delivers whatever is left in the queue after Stop.
func (d *Dispatcher) drain(ctx context.Context, id int) {
	for ctx.Err() == nil {
		select {
		case delivery := <-d.queue:
			d.handle(ctx, id, delivery)
		default:
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, id int, delivery *queuedDelivery) {
	d.logger.Debug("webhook worker processing delivery",
		"worker_id", id,
		"delivery_id", delivery.ID,
		"event", delivery.Event)
	d.processDelivery(ctx, delivery)
}

// Dispatch queues event for every configured URL. A full queue drops the
// delivery with a warning.
func (d *Dispatcher) Dispatch(_ context.Context, event *Event) error {
	if len(d.cfg.URLs) == 0 {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Held across the enqueue so nothing lands in the queue after Stop.
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		d.logger.Warn("dispatcher not running, cannot dispatch event", "event_type", event.Type)
		return nil
	}

	for _, target := range d.cfg.URLs {
		qd := &queuedDelivery{
			ID:      uuid.NewString(),
			URL:     target,
			Event:   event.Type,
			Payload: payload,
		}

		select {
		case d.queue <- qd:
			d.logger.Debug("delivery queued", "delivery_id", qd.ID, "event", event.Type)
		default:
			d.logger.Warn("webhook queue full, dropping delivery", "event", event.Type, "url", target)
		}
	}
	return nil
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expectedSig := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expectedSig))
}

// Nop discards events. It is used when no webhook URL is configured.
type Nop struct{}

// Dispatch implements Notifier.
func (Nop) Dispatch(context.Context, *Event) error { return nil }

var (
	_ Notifier = (*Dispatcher)(nil)
	_ Notifier = Nop{}
)
