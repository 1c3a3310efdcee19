// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/mail"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
	"github.com/olegiv/orealty/internal/webhook"
)

// Access flow errors. Handlers map each one to an HTTP status.
var (
	ErrAccessNotFound  = errors.New("no pending access request")
	ErrAccessExpired   = errors.New("verification code expired")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrNoAccess        = errors.New("no valid access session")
	ErrSendFailed      = errors.New("sending verification email failed")
)

// CountryResolver maps a client IP to an ISO country code.
type CountryResolver interface {
	LookupCountry(ip string) string
}

// AccessConfig holds the limits of the private listings access flow.
type AccessConfig struct {
	CodeTTL     time.Duration
	TokenTTL    time.Duration
	MaxAttempts int
	// Retention is how long expired requests are kept before purging.
	Retention time.Duration
	SiteName  string
}

// AccessRequestInput is a visitor asking for a verification code.
type AccessRequestInput struct {
	Name      string
	Email     string
	Phone     string
	Language  string
	IP        string
	UserAgent string
}

// AccessGrant is the result of a successful verification. Token is only
// ever returned here, the database keeps its hash.
type AccessGrant struct {
	Token     string
	ExpiresAt time.Time
	Request   store.AccessRequest
}

// AccessService runs the email verification flow that unlocks private
// listings.
type AccessService struct {
	queries  *store.Queries
	hasher   *auth.CodeHasher
	mailer   mail.Mailer
	geo      CountryResolver
	notifier webhook.Notifier
	events   *EventService
	cfg      AccessConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccessService creates an AccessService. geo, notifier and events may be nil.
func NewAccessService(db *sql.DB, hasher *auth.CodeHasher, mailer mail.Mailer, geo CountryResolver,
	notifier webhook.Notifier, events *EventService, cfg AccessConfig, logger *slog.Logger) *AccessService {
	if notifier == nil {
		notifier = webhook.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 5
	}
	return &AccessService{
		queries:  store.New(db),
		hasher:   hasher,
		mailer:   mailer,
		geo:      geo,
		notifier: notifier,
		events:   events,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Request creates a pending access request and emails its code.
func (s *AccessService) Request(ctx context.Context, in AccessRequestInput) (store.AccessRequest, error) {
	email := NormalizeEmail(in.Email)

	code, err := auth.GenerateAccessCode()
	if err != nil {
		return store.AccessRequest{}, err
	}

	country := ""
	if s.geo != nil {
		country = s.geo.LookupCountry(in.IP)
	}

	now := s.now()
	req, err := s.queries.CreateAccessRequest(ctx, store.CreateAccessRequestParams{
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		CodeHash:      s.hasher.Hash(email, code),
		CodeExpiresAt: now.Add(s.cfg.CodeTTL),
		IpAddress:     in.IP,
		UserAgent:     util.DescribeUserAgent(in.UserAgent),
		Country:       country,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return store.AccessRequest{}, fmt.Errorf("creating access request: %w", err)
	}

	lang := in.Language
	if lang == "" {
		lang = i18n.DefaultLanguage
	}
	msg := mail.Message{
		To:      email,
		Subject: i18n.T(lang, "access.email_subject"),
		Body:    i18n.T(lang, "access.email_body", req.Name, code, int(s.cfg.CodeTTL.Minutes())),
	}
	if s.cfg.SiteName != "" {
		msg.Subject = s.cfg.SiteName + ": " + msg.Subject
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send access code", "request_id", req.ID, "error", err)
		if _, uerr := s.queries.UpdateAccessRequestStatus(ctx, store.UpdateAccessRequestStatusParams{
			Status:    model.AccessExpired,
			UpdatedAt: s.now(),
			ID:        req.ID,
		}); uerr != nil {
			s.logger.Error("failed to expire unsent access request", "request_id", req.ID, "error", uerr)
		}
		return store.AccessRequest{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	s.record(ctx, model.EventLevelInfo, "Access code requested", req)
	s.notify(ctx, webhook.EventAccessRequested, req)
	return req, nil
}

// Verify checks code against the newest pending request of email and, on
// success, mints an access token.
func (s *AccessService) Verify(ctx context.Context, email, code string) (*AccessGrant, error) {
	email = NormalizeEmail(email)

	req, err := s.queries.GetLatestPendingAccessRequest(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading access request: %w", err)
	}

	now := s.now()
	if !now.Before(req.CodeExpiresAt) {
		if _, err := s.queries.UpdateAccessRequestStatus(ctx, store.UpdateAccessRequestStatusParams{
			Status:    model.AccessExpired,
			UpdatedAt: now,
			ID:        req.ID,
		}); err != nil {
			return nil, fmt.Errorf("expiring access request: %w", err)
		}
		return nil, ErrAccessExpired
	}

	if req.Attempts >= int64(s.cfg.MaxAttempts) {
		return nil, ErrTooManyAttempts
	}

	if !s.hasher.Verify(email, code, req.CodeHash) {
		attempts, err := s.queries.IncrementAccessRequestAttempts(ctx, store.IncrementAccessRequestAttemptsParams{
			UpdatedAt: now,
			ID:        req.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("recording failed attempt: %w", err)
		}
		if attempts >= int64(s.cfg.MaxAttempts) {
			s.record(ctx, model.EventLevelWarning, "Access request locked after failed attempts", req)
		}
		return nil, ErrInvalidCode
	}

	token, err := auth.GenerateAccessToken()
	if err != nil {
		return nil, err
	}
	expires := now.Add(s.cfg.TokenTTL)

	req, err = s.queries.MarkAccessRequestVerified(ctx, store.MarkAccessRequestVerifiedParams{
		TokenHash:      auth.HashAccessToken(token),
		TokenExpiresAt: expires,
		VerifiedAt:     now,
		UpdatedAt:      now,
		ID:             req.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("verifying access request: %w", err)
	}

	s.record(ctx, model.EventLevelInfo, "Access request verified", req)
	s.notify(ctx, webhook.EventAccessVerified, req)
	return &AccessGrant{Token: token, ExpiresAt: expires, Request: req}, nil
}

// Authorize returns the verified request behind token, or ErrNoAccess when
// the token is unknown, revoked or expired.
func (s *AccessService) Authorize(ctx context.Context, token string) (store.AccessRequest, error) {
	if token == "" {
		return store.AccessRequest{}, ErrNoAccess
	}
	req, err := s.queries.GetAccessRequestByTokenHash(ctx, auth.HashAccessToken(token))
	if errors.Is(err, sql.ErrNoRows) {
		return store.AccessRequest{}, ErrNoAccess
	}
	if err != nil {
		return store.AccessRequest{}, fmt.Errorf("loading access session: %w", err)
	}
	if req.Status != model.AccessVerified || !req.TokenExpiresAt.Valid || !s.now().Before(req.TokenExpiresAt.Time) {
		return store.AccessRequest{}, ErrNoAccess
	}
	return req, nil
}

// Revoke ends the access of a request.
func (s *AccessService) Revoke(ctx context.Context, id int64) (store.AccessRequest, error) {
	req, err := s.queries.UpdateAccessRequestStatus(ctx, store.UpdateAccessRequestStatusParams{
		Status:    model.AccessRevoked,
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return store.AccessRequest{}, err
	}
	s.record(ctx, model.EventLevelInfo, "Access request revoked", req)
	return req, nil
}

// Cleanup marks pending requests with expired codes as expired and deletes
// requests that ended more than the retention period ago.
func (s *AccessService) Cleanup(ctx context.Context) (expired, purged int64, err error) {
	now := s.now()
	expired, err = s.queries.ExpireStaleAccessRequests(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("expiring access requests: %w", err)
	}
	purged, err = s.queries.PurgeAccessRequests(ctx, now.Add(-s.cfg.Retention))
	if err != nil {
		return expired, 0, fmt.Errorf("purging access requests: %w", err)
	}
	return expired, purged, nil
}

func (s *AccessService) record(ctx context.Context, level, message string, req store.AccessRequest) {
	if s.events == nil {
		return
	}
	_ = s.events.Log(ctx, level, model.EventCategoryAccess, message, map[string]any{
		"request_id": req.ID,
		"email":      req.Email,
		"country":    req.Country,
	})
}

func (s *AccessService) notify(ctx context.Context, eventType string, req store.AccessRequest) {
	err := s.notifier.Dispatch(ctx, webhook.NewEvent(eventType, webhook.AccessRequestEventData{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}))
	if err != nil {
		s.logger.Warn("access request notification not queued", "request_id", req.ID, "error", err)
	}
}
