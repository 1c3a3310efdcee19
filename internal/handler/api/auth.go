// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"math"
	"net/http"
	"time"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/session"
	"github.com/olegiv/orealty/internal/store"
)

// checkPassword is replaced in tests.
var checkPassword = auth.CheckPassword

// LoginRequest represents the admin login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=200"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	lang := middleware.GetLanguageCode(r)
	email := service.NormalizeEmail(req.Email)

	if h.loginProt != nil {
		if locked, remaining := h.loginProt.IsAccountLocked(email); locked {
			_ = h.events.Warning(ctx, model.EventCategoryAuth, "Login attempt on locked account", map[string]any{"email": email})
			WriteError(w, http.StatusTooManyRequests, "account_locked", i18n.T(lang, "auth.locked", minutes(remaining)), nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !isNotFound(err) {
			h.logger.Error("database error during login", "error", err)
			WriteInternalError(w, i18n.T(lang, "error.internal"))
			return
		}
		_ = h.events.Warning(ctx, model.EventCategoryAuth, "Login failed: user not found", map[string]any{"email": email})
		// Unknown emails run the same hash and count toward lockout, so
		// neither timing nor lockout reveals which accounts exist.
		_, _ = checkPassword(req.Password, auth.DummyHash())
		h.rejectLogin(w, r, email)
		return
	}

	valid, err := checkPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.logger.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		_ = h.events.Warning(ctx, model.EventCategoryAuth, "Login failed: invalid password",
			map[string]any{"email": email, "user_id": user.ID})
		h.rejectLogin(w, r, email)
		return
	}

	if h.loginProt != nil {
		h.loginProt.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now().UTC(),
				ID:           user.ID,
			}); err != nil {
				h.logger.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	now := time.Now().UTC()
	if err := h.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{LastLoginAt: now, ID: user.ID}); err != nil {
		h.logger.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	if err := session.Login(ctx, h.sm, user.ID); err != nil {
		h.logger.Error("session renewal error", "error", err)
		WriteInternalError(w, i18n.T(lang, "error.internal"))
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.events.Info(ctx, model.EventCategoryAuth, "User logged in", map[string]any{"user_id": user.ID, "email": user.Email})

	user.LastLoginAt.Time, user.LastLoginAt.Valid = now, true
	WriteSuccess(w, storeUserToResponse(user), nil)
}

// rejectLogin records a failed attempt and answers 401, or 429 once the
// account is locked.
func (h *Handler) rejectLogin(w http.ResponseWriter, r *http.Request, email string) {
	lang := middleware.GetLanguageCode(r)
	if h.loginProt != nil {
		if locked, lockDuration := h.loginProt.RecordFailedAttempt(email); locked {
			_ = h.events.Warning(r.Context(), model.EventCategoryAuth, "Account locked due to failed attempts",
				map[string]any{"email": email, "duration": lockDuration.String()})
			WriteError(w, http.StatusTooManyRequests, "account_locked", i18n.T(lang, "auth.locked", minutes(lockDuration)), nil)
			return
		}
	}
	WriteUnauthorized(w, i18n.T(lang, "auth.invalid_credentials"))
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.UserID(ctx, h.sm)
	if userID > 0 {
		_ = h.events.Info(ctx, model.EventCategoryAuth, "User logged out", map[string]any{"user_id": userID})
	}
	if err := session.Logout(ctx, h.sm); err != nil {
		h.logger.Error("session destroy error", "error", err)
	}
	WriteNoContent(w)
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteSuccess(w, storeUserToResponse(*user), nil)
}

// ChangePasswordRequest represents the body of a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=12,max=200"`
}

// ChangePassword handles PUT /api/v1/auth/password.
// The session token is renewed afterwards.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	var req ChangePasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	valid, err := auth.CheckPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !valid {
		WriteValidationError(w, map[string]string{"current_password": "Current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
		ID:           user.ID,
	}); err != nil {
		h.logger.Error("failed to update password", "error", err, "user_id", user.ID)
		WriteInternalError(w, "Failed to update password")
		return
	}
	if err := session.Login(ctx, h.sm, user.ID); err != nil {
		h.logger.Error("session renewal error", "error", err)
	}

	_ = h.events.Info(ctx, model.EventCategoryAuth, "Password changed", map[string]any{"user_id": user.ID})
	WriteNoContent(w)
}

// minutes rounds d up to whole minutes, at least one.
func minutes(d time.Duration) int {
	return max(1, int(math.Ceil(d.Minutes())))
}
