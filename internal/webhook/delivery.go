// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Delivery configuration constants
const (
	RequestTimeout = 15 * time.Second
	MaxResponseLen = 4 * 1024
	UserAgent      = "oRealty-Webhook/1.0"
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	Error        error
	ShouldRetry  bool
}

var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// processDelivery attempts a delivery until it succeeds, fails
// permanently or runs out of attempts.
func (d *Dispatcher) processDelivery(ctx context.Context, delivery *queuedDelivery) {
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		result := d.attemptDelivery(ctx, delivery, attempt)
		if result.Success {
			d.logger.Info("webhook delivered",
				"delivery_id", delivery.ID,
				"event", delivery.Event,
				"status_code", result.StatusCode,
				"attempt", attempt)
			return
		}

		if !result.ShouldRetry || attempt == d.cfg.MaxAttempts {
			d.logger.Warn("webhook delivery failed",
				"delivery_id", delivery.ID,
				"event", delivery.Event,
				"url", delivery.URL,
				"attempts", attempt,
				"error", result.Error)
			return
		}

		backoff := calculateBackoff(attempt, d.cfg.InitialBackoff, d.cfg.MaxBackoff)
		d.logger.Info("webhook delivery scheduled for retry",
			"delivery_id", delivery.ID,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", result.Error)

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// attemptDelivery performs the actual HTTP POST request.
func (d *Dispatcher) attemptDelivery(ctx context.Context, delivery *queuedDelivery, attempt int) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("creating request: %w", err),
			ShouldRetry: false,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Webhook-Signature", GenerateSignature(delivery.Payload, d.cfg.Secret))
	req.Header.Set("X-Webhook-Event", delivery.Event)
	req.Header.Set("X-Webhook-Delivery-ID", delivery.ID)
	req.Header.Set("X-Webhook-Attempt", fmt.Sprintf("%d", attempt))

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("request failed: %w", err),
			ShouldRetry: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return DeliveryResult{
			Success:      true,
			StatusCode:   resp.StatusCode,
			ResponseBody: string(body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Client errors are permanent except timeouts and throttling.
		return DeliveryResult{
			StatusCode:   resp.StatusCode,
			ResponseBody: string(body),
			Error:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry:  resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests,
		}
	default:
		return DeliveryResult{
			StatusCode:   resp.StatusCode,
			ResponseBody: string(body),
			Error:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry:  true,
		}
	}
}

// calculateBackoff returns initial * 2^(attempt-1), capped at maxBackoff.
func calculateBackoff(attempt int, initial, maxBackoff time.Duration) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	backoff := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	return backoff
}
