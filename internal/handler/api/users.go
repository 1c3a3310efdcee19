// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
)

// errLastAdmin is returned when an operation would leave no admin.
var errLastAdmin = errors.New("at least one admin must remain")

// CreateUserRequest represents the request body for creating an admin user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=12,max=200"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,role"`
}

// UpdateUserRequest represents the request body for updating a user.
// A non-empty password replaces the current one.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,min=12,max=200"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// ListUsers handles GET /api/v1/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := paging(r)
	ctx := r.Context()

	users, total, err := handler.ListAndCount(
		func() ([]store.User, error) {
			return h.queries.ListUsers(ctx, store.ListUsersParams{Limit: limit, Offset: offset})
		},
		func() (int64, error) { return h.queries.CountUsers(ctx) },
	)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}
	WriteSuccess(w, mapSlice(users, storeUserToResponse), NewMeta(total, page, perPage))
}

// GetUser handles GET /api/v1/admin/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, storeUserToResponse(u), nil)
}

// CreateUser handles POST /api/v1/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	email := service.NormalizeEmail(req.Email)

	if !h.checkEmailFree(w, r, email, 0) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	now := time.Now().UTC()
	u, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         normalizeName(req.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		h.logger.Error("failed to create user", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	_ = h.events.Info(ctx, model.EventCategoryUser, "User created",
		map[string]any{"user_id": u.ID, "email": u.Email, "role": u.Role})
	WriteCreated(w, storeUserToResponse(u))
}

// UpdateUser handles PUT /api/v1/admin/users/{id}.
// The last admin cannot be demoted.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	params := store.UpdateUserParams{
		Email:     existing.Email,
		Role:      existing.Role,
		Name:      existing.Name,
		UpdatedAt: time.Now().UTC(),
		ID:        existing.ID,
	}
	if req.Email != nil {
		params.Email = service.NormalizeEmail(*req.Email)
		if params.Email != existing.Email && !h.checkEmailFree(w, r, params.Email, existing.ID) {
			return
		}
	}
	if req.Name != nil {
		params.Name = normalizeName(*req.Name)
	}
	setString(&params.Role, req.Role)

	if existing.Role == model.RoleAdmin && params.Role != model.RoleAdmin {
		if err := h.ensureAnotherAdmin(ctx); err != nil {
			if errors.Is(err, errLastAdmin) {
				WriteValidationError(w, map[string]string{"role": "Cannot demote the last admin"})
				return
			}
			h.logger.Error("failed to count admins", "error", err)
			WriteInternalError(w, "Failed to update user")
			return
		}
	}

	u, err := h.queries.UpdateUser(ctx, params)
	if err != nil {
		h.logger.Error("failed to update user", "error", err, "user_id", existing.ID)
		WriteInternalError(w, "Failed to update user")
		return
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			WriteInternalError(w, "Failed to hash password")
			return
		}
		if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    params.UpdatedAt,
			ID:           u.ID,
		}); err != nil {
			h.logger.Error("failed to update password", "error", err, "user_id", u.ID)
			WriteInternalError(w, "Failed to update user")
			return
		}
	}

	_ = h.events.Info(ctx, model.EventCategoryUser, "User updated",
		map[string]any{"user_id": u.ID, "email": u.Email, "role": u.Role})
	WriteSuccess(w, storeUserToResponse(u), nil)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
// Admins cannot delete themselves or the last admin.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	u, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}
	ctx := r.Context()

	if u.ID == middleware.GetUserID(r) {
		WriteConflict(w, "self_delete", "Cannot delete your own account")
		return
	}
	if u.Role == model.RoleAdmin {
		if err := h.ensureAnotherAdmin(ctx); err != nil {
			if errors.Is(err, errLastAdmin) {
				WriteConflict(w, "last_admin", "Cannot delete the last admin")
				return
			}
			h.logger.Error("failed to count admins", "error", err)
			WriteInternalError(w, "Failed to delete user")
			return
		}
	}

	if !writeDeleteResult(w, h.queries.DeleteUser(ctx, u.ID), "user") {
		return
	}
	_ = h.events.Info(ctx, model.EventCategoryUser, "User deleted", map[string]any{"user_id": u.ID, "email": u.Email})
}

// checkEmailFree writes a validation error when another user holds email.
func (h *Handler) checkEmailFree(w http.ResponseWriter, r *http.Request, email string, excludeID int64) bool {
	n, err := h.queries.UserEmailExistsExcluding(r.Context(), store.UserEmailExistsExcludingParams{Email: email, ID: excludeID})
	if err != nil {
		h.logger.Error("failed to check email", "error", err)
		WriteInternalError(w, "Failed to check email")
		return false
	}
	if n > 0 {
		WriteValidationError(w, map[string]string{"email": "Email already in use"})
		return false
	}
	return true
}

// ensureAnotherAdmin returns errLastAdmin unless at least two admins exist.
func (h *Handler) ensureAnotherAdmin(ctx context.Context) error {
	n, err := h.queries.CountUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return errLastAdmin
	}
	return nil
}

// normalizeName collapses whitespace in a display name.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
