// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures admin sessions backed by the SQLite sessions table.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys
const (
	KeyUserID = "user_id"
)

// DefaultLifetime is the absolute lifetime of an admin session.
const DefaultLifetime = 24 * time.Hour

// Options tunes the session manager.
type Options struct {
	IsDev    bool
	Lifetime time.Duration
	// CleanupInterval controls how often expired sessions are purged.
	// Zero disables the background cleanup goroutine.
	CleanupInterval time.Duration
}

// New creates a session manager configured with the SQLite store.
func New(db *sql.DB, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, opts.CleanupInterval)

	sm.Lifetime = opts.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = DefaultLifetime
	}
	sm.IdleTimeout = 0
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !opts.IsDev
	if opts.IsDev {
		sm.Cookie.Name = "realty_session"
	} else {
		// __Host- cookies must be Secure, host-only and scoped to "/".
		sm.Cookie.Name = "__Host-realty_session"
	}

	return sm
}

// Login renews the session token and stores the user id.
func Login(ctx context.Context, sm *scs.SessionManager, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// UserID returns the logged-in user id, or 0.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}
