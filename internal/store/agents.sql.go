// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const agentColumns = `id, name, slug, title, email, phone, photo_url, bio, socials, position, is_active, created_at, updated_at`

func scanAgent(row rowScanner) (Agent, error) {
	var i Agent
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Title,
		&i.Email,
		&i.Phone,
		&i.PhotoUrl,
		&i.Bio,
		&i.Socials,
		&i.Position,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryAgents(ctx context.Context, query string, args ...any) ([]Agent, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Agent{}
	for rows.Next() {
		i, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createAgent = `INSERT INTO agents (name, slug, title, email, phone, photo_url, bio, socials, position, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + agentColumns

type CreateAgentParams struct {
	Name      string
	Slug      string
	Title     string
	Email     string
	Phone     string
	PhotoUrl  string
	Bio       string
	Socials   string
	Position  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateAgent(ctx context.Context, arg CreateAgentParams) (Agent, error) {
	row := q.db.QueryRowContext(ctx, createAgent,
		arg.Name,
		arg.Slug,
		arg.Title,
		arg.Email,
		arg.Phone,
		arg.PhotoUrl,
		arg.Bio,
		arg.Socials,
		arg.Position,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanAgent(row)
}

const getAgentByID = `SELECT ` + agentColumns + ` FROM agents WHERE id = ?`

func (q *Queries) GetAgentByID(ctx context.Context, id int64) (Agent, error) {
	return scanAgent(q.db.QueryRowContext(ctx, getAgentByID, id))
}

const getAgentBySlug = `SELECT ` + agentColumns + ` FROM agents WHERE slug = ?`

func (q *Queries) GetAgentBySlug(ctx context.Context, slug string) (Agent, error) {
	return scanAgent(q.db.QueryRowContext(ctx, getAgentBySlug, slug))
}

const listAgents = `SELECT ` + agentColumns + ` FROM agents ORDER BY position, name`

func (q *Queries) ListAgents(ctx context.Context) ([]Agent, error) {
	return q.queryAgents(ctx, listAgents)
}

const listActiveAgents = `SELECT ` + agentColumns + ` FROM agents WHERE is_active = 1 ORDER BY position, name`

func (q *Queries) ListActiveAgents(ctx context.Context) ([]Agent, error) {
	return q.queryAgents(ctx, listActiveAgents)
}

const countAgents = `SELECT COUNT(*) FROM agents`

func (q *Queries) CountAgents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countAgents).Scan(&count)
	return count, err
}

const agentSlugExists = `SELECT COUNT(*) FROM agents WHERE slug = ?`

func (q *Queries) AgentSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, agentSlugExists, slug).Scan(&count)
	return count, err
}

const agentSlugExistsExcluding = `SELECT COUNT(*) FROM agents WHERE slug = ? AND id != ?`

func (q *Queries) AgentSlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, agentSlugExistsExcluding, arg.Slug, arg.ID).Scan(&count)
	return count, err
}

const updateAgent = `UPDATE agents
SET name = ?, slug = ?, title = ?, email = ?, phone = ?, photo_url = ?, bio = ?, socials = ?,
    position = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + agentColumns

type UpdateAgentParams struct {
	Name      string
	Slug      string
	Title     string
	Email     string
	Phone     string
	PhotoUrl  string
	Bio       string
	Socials   string
	Position  int64
	IsActive  bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateAgent(ctx context.Context, arg UpdateAgentParams) (Agent, error) {
	row := q.db.QueryRowContext(ctx, updateAgent,
		arg.Name,
		arg.Slug,
		arg.Title,
		arg.Email,
		arg.Phone,
		arg.PhotoUrl,
		arg.Bio,
		arg.Socials,
		arg.Position,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanAgent(row)
}

const deleteAgent = `DELETE FROM agents WHERE id = ?`

func (q *Queries) DeleteAgent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteAgent, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
