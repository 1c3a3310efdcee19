// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const sectionColumns = `id, key, title, subtitle, is_enabled, settings, position, created_at, updated_at`

func scanSection(row rowScanner) (Section, error) {
	var i Section
	err := row.Scan(
		&i.ID,
		&i.Key,
		&i.Title,
		&i.Subtitle,
		&i.IsEnabled,
		&i.Settings,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) querySections(ctx context.Context, query string, args ...any) ([]Section, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Section{}
	for rows.Next() {
		i, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const ensureSection = `INSERT INTO sections (key, title, subtitle, is_enabled, settings, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (key) DO NOTHING`

type EnsureSectionParams struct {
	Key       string
	Title     string
	Subtitle  string
	IsEnabled bool
	Settings  string
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnsureSection inserts a section row unless one with the same key exists.
// It reports whether a row was inserted.
func (q *Queries) EnsureSection(ctx context.Context, arg EnsureSectionParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, ensureSection,
		arg.Key,
		arg.Title,
		arg.Subtitle,
		arg.IsEnabled,
		arg.Settings,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

const getSectionByKey = `SELECT ` + sectionColumns + ` FROM sections WHERE key = ?`

func (q *Queries) GetSectionByKey(ctx context.Context, key string) (Section, error) {
	return scanSection(q.db.QueryRowContext(ctx, getSectionByKey, key))
}

const listSections = `SELECT ` + sectionColumns + ` FROM sections ORDER BY position, id`

func (q *Queries) ListSections(ctx context.Context) ([]Section, error) {
	return q.querySections(ctx, listSections)
}

const listEnabledSections = `SELECT ` + sectionColumns + ` FROM sections WHERE is_enabled = 1 ORDER BY position, id`

func (q *Queries) ListEnabledSections(ctx context.Context) ([]Section, error) {
	return q.querySections(ctx, listEnabledSections)
}

const updateSection = `UPDATE sections
SET title = ?, subtitle = ?, is_enabled = ?, settings = ?, updated_at = ?
WHERE key = ?
RETURNING ` + sectionColumns

type UpdateSectionParams struct {
	Title     string
	Subtitle  string
	IsEnabled bool
	Settings  string
	UpdatedAt time.Time
	Key       string
}

func (q *Queries) UpdateSection(ctx context.Context, arg UpdateSectionParams) (Section, error) {
	row := q.db.QueryRowContext(ctx, updateSection,
		arg.Title,
		arg.Subtitle,
		arg.IsEnabled,
		arg.Settings,
		arg.UpdatedAt,
		arg.Key,
	)
	return scanSection(row)
}
