// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const accessRequestColumns = `id, name, email, phone, code_hash, code_expires_at, attempts, status, token_hash,
    token_expires_at, verified_at, ip_address, user_agent, country, created_at, updated_at`

func scanAccessRequest(row rowScanner) (AccessRequest, error) {
	var i AccessRequest
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.CodeHash,
		&i.CodeExpiresAt,
		&i.Attempts,
		&i.Status,
		&i.TokenHash,
		&i.TokenExpiresAt,
		&i.VerifiedAt,
		&i.IpAddress,
		&i.UserAgent,
		&i.Country,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createAccessRequest = `INSERT INTO access_requests (name, email, phone, code_hash, code_expires_at, status,
    ip_address, user_agent, country, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 'pending', ?, ?, ?, ?, ?)
RETURNING ` + accessRequestColumns

type CreateAccessRequestParams struct {
	Name          string
	Email         string
	Phone         string
	CodeHash      string
	CodeExpiresAt time.Time
	IpAddress     string
	UserAgent     string
	Country       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateAccessRequest(ctx context.Context, arg CreateAccessRequestParams) (AccessRequest, error) {
	row := q.db.QueryRowContext(ctx, createAccessRequest,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.CodeHash,
		arg.CodeExpiresAt,
		arg.IpAddress,
		arg.UserAgent,
		arg.Country,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanAccessRequest(row)
}

const getAccessRequestByID = `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE id = ?`

func (q *Queries) GetAccessRequestByID(ctx context.Context, id int64) (AccessRequest, error) {
	return scanAccessRequest(q.db.QueryRowContext(ctx, getAccessRequestByID, id))
}

const getLatestPendingAccessRequest = `SELECT ` + accessRequestColumns + ` FROM access_requests
WHERE email = ? AND status = 'pending'
ORDER BY created_at DESC, id DESC
LIMIT 1`

// GetLatestPendingAccessRequest returns the newest pending request for email.
func (q *Queries) GetLatestPendingAccessRequest(ctx context.Context, email string) (AccessRequest, error) {
	return scanAccessRequest(q.db.QueryRowContext(ctx, getLatestPendingAccessRequest, email))
}

const getAccessRequestByTokenHash = `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE token_hash = ?`

func (q *Queries) GetAccessRequestByTokenHash(ctx context.Context, tokenHash string) (AccessRequest, error) {
	return scanAccessRequest(q.db.QueryRowContext(ctx, getAccessRequestByTokenHash, tokenHash))
}

const incrementAccessRequestAttempts = `UPDATE access_requests SET attempts = attempts + 1, updated_at = ? WHERE id = ?
RETURNING attempts`

type IncrementAccessRequestAttemptsParams struct {
	UpdatedAt time.Time
	ID        int64
}

// IncrementAccessRequestAttempts records a failed verification and returns the new count.
func (q *Queries) IncrementAccessRequestAttempts(ctx context.Context, arg IncrementAccessRequestAttemptsParams) (int64, error) {
	var attempts int64
	err := q.db.QueryRowContext(ctx, incrementAccessRequestAttempts, arg.UpdatedAt, arg.ID).Scan(&attempts)
	return attempts, err
}

const markAccessRequestVerified = `UPDATE access_requests
SET status = 'verified', token_hash = ?, token_expires_at = ?, verified_at = ?, updated_at = ?
WHERE id = ? AND status = 'pending'
RETURNING ` + accessRequestColumns

type MarkAccessRequestVerifiedParams struct {
	TokenHash      string
	TokenExpiresAt time.Time
	VerifiedAt     time.Time
	UpdatedAt      time.Time
	ID             int64
}

// MarkAccessRequestVerified stores the session token of a pending request.
// It returns sql.ErrNoRows when the request is no longer pending.
func (q *Queries) MarkAccessRequestVerified(ctx context.Context, arg MarkAccessRequestVerifiedParams) (AccessRequest, error) {
	row := q.db.QueryRowContext(ctx, markAccessRequestVerified,
		arg.TokenHash,
		arg.TokenExpiresAt,
		arg.VerifiedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanAccessRequest(row)
}

const updateAccessRequestStatus = `UPDATE access_requests SET status = ?, updated_at = ? WHERE id = ?
RETURNING ` + accessRequestColumns

type UpdateAccessRequestStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateAccessRequestStatus(ctx context.Context, arg UpdateAccessRequestStatusParams) (AccessRequest, error) {
	return scanAccessRequest(q.db.QueryRowContext(ctx, updateAccessRequestStatus, arg.Status, arg.UpdatedAt, arg.ID))
}

// AccessRequestFilter narrows ListAccessRequests and CountAccessRequests.
type AccessRequestFilter struct {
	Status string
	Email  string
	Limit  int64
	Offset int64
}

func (f AccessRequestFilter) where() (string, []any) {
	switch {
	case f.Status != "" && f.Email != "":
		return " WHERE status = ? AND email = ?", []any{f.Status, f.Email}
	case f.Status != "":
		return " WHERE status = ?", []any{f.Status}
	case f.Email != "":
		return " WHERE email = ?", []any{f.Email}
	}
	return "", nil
}

func (q *Queries) ListAccessRequests(ctx context.Context, f AccessRequestFilter) ([]AccessRequest, error) {
	where, args := f.where()
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []AccessRequest{}
	for rows.Next() {
		i, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) CountAccessRequests(ctx context.Context, f AccessRequestFilter) (int64, error) {
	where, args := f.where()
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_requests`+where, args...).Scan(&count)
	return count, err
}

const deleteAccessRequest = `DELETE FROM access_requests WHERE id = ?`

func (q *Queries) DeleteAccessRequest(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteAccessRequest, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const expireStaleAccessRequests = `UPDATE access_requests SET status = 'expired', updated_at = ?
WHERE status = 'pending' AND code_expires_at < ?`

// ExpireStaleAccessRequests marks pending requests whose code expired before now.
func (q *Queries) ExpireStaleAccessRequests(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, expireStaleAccessRequests, now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const purgeAccessRequests = `DELETE FROM access_requests
WHERE (status IN ('pending', 'expired') AND code_expires_at < ?)
   OR (status = 'verified' AND token_expires_at < ?)
   OR (status = 'revoked' AND updated_at < ?)`

// PurgeAccessRequests deletes requests whose code or token expired before cutoff.
func (q *Queries) PurgeAccessRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, purgeAccessRequests, cutoff, cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
