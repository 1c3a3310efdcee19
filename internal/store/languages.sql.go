// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const languageColumns = `id, code, name, native_name, is_default, is_active, direction, position, created_at, updated_at`

func scanLanguage(row rowScanner) (Language, error) {
	var i Language
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.NativeName,
		&i.IsDefault,
		&i.IsActive,
		&i.Direction,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryLanguages(ctx context.Context, query string, args ...any) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Language{}
	for rows.Next() {
		i, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createLanguage = `INSERT INTO languages (code, name, native_name, is_default, is_active, direction, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + languageColumns

type CreateLanguageParams struct {
	Code       string
	Name       string
	NativeName string
	IsDefault  bool
	IsActive   bool
	Direction  string
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx, createLanguage,
		arg.Code,
		arg.Name,
		arg.NativeName,
		arg.IsDefault,
		arg.IsActive,
		arg.Direction,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanLanguage(row)
}

const getLanguageByID = `SELECT ` + languageColumns + ` FROM languages WHERE id = ?`

func (q *Queries) GetLanguageByID(ctx context.Context, id int64) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getLanguageByID, id))
}

const getLanguageByCode = `SELECT ` + languageColumns + ` FROM languages WHERE code = ?`

func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getLanguageByCode, code))
}

const getDefaultLanguage = `SELECT ` + languageColumns + ` FROM languages WHERE is_default = 1 LIMIT 1`

func (q *Queries) GetDefaultLanguage(ctx context.Context) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getDefaultLanguage))
}

const listLanguages = `SELECT ` + languageColumns + ` FROM languages ORDER BY position, id`

func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	return q.queryLanguages(ctx, listLanguages)
}

const listActiveLanguages = `SELECT ` + languageColumns + ` FROM languages WHERE is_active = 1 ORDER BY position, id`

func (q *Queries) ListActiveLanguages(ctx context.Context) ([]Language, error) {
	return q.queryLanguages(ctx, listActiveLanguages)
}

const countLanguages = `SELECT COUNT(*) FROM languages`

func (q *Queries) CountLanguages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countLanguages).Scan(&count)
	return count, err
}

const updateLanguage = `UPDATE languages
SET name = ?, native_name = ?, is_active = ?, direction = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + languageColumns

type UpdateLanguageParams struct {
	Name       string
	NativeName string
	IsActive   bool
	Direction  string
	Position   int64
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateLanguage(ctx context.Context, arg UpdateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx, updateLanguage,
		arg.Name,
		arg.NativeName,
		arg.IsActive,
		arg.Direction,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanLanguage(row)
}

const clearDefaultLanguage = `UPDATE languages SET is_default = 0 WHERE is_default = 1`

func (q *Queries) ClearDefaultLanguage(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearDefaultLanguage)
	return err
}

const setDefaultLanguage = `UPDATE languages SET is_default = 1, is_active = 1, updated_at = ? WHERE id = ?`

type SetDefaultLanguageParams struct {
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) SetDefaultLanguage(ctx context.Context, arg SetDefaultLanguageParams) error {
	res, err := q.db.ExecContext(ctx, setDefaultLanguage, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const deleteLanguage = `DELETE FROM languages WHERE id = ?`

func (q *Queries) DeleteLanguage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteLanguage, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
