// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const uiStringColumns = `id, language_code, key, value, updated_at`

func scanUiString(row rowScanner) (UiString, error) {
	var i UiString
	err := row.Scan(
		&i.ID,
		&i.LanguageCode,
		&i.Key,
		&i.Value,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertUiString = `INSERT INTO ui_strings (language_code, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (language_code, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
RETURNING ` + uiStringColumns

type UpsertUiStringParams struct {
	LanguageCode string
	Key          string
	Value        string
	UpdatedAt    time.Time
}

func (q *Queries) UpsertUiString(ctx context.Context, arg UpsertUiStringParams) (UiString, error) {
	row := q.db.QueryRowContext(ctx, upsertUiString,
		arg.LanguageCode,
		arg.Key,
		arg.Value,
		arg.UpdatedAt,
	)
	return scanUiString(row)
}

const listUiStrings = `SELECT ` + uiStringColumns + ` FROM ui_strings WHERE language_code = ? ORDER BY key`

func (q *Queries) ListUiStrings(ctx context.Context, languageCode string) ([]UiString, error) {
	rows, err := q.db.QueryContext(ctx, listUiStrings, languageCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []UiString{}
	for rows.Next() {
		i, err := scanUiString(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteUiString = `DELETE FROM ui_strings WHERE language_code = ? AND key = ?`

type DeleteUiStringParams struct {
	LanguageCode string
	Key          string
}

func (q *Queries) DeleteUiString(ctx context.Context, arg DeleteUiStringParams) error {
	res, err := q.db.ExecContext(ctx, deleteUiString, arg.LanguageCode, arg.Key)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const deleteUiStringsForLanguage = `DELETE FROM ui_strings WHERE language_code = ?`

func (q *Queries) DeleteUiStringsForLanguage(ctx context.Context, languageCode string) error {
	_, err := q.db.ExecContext(ctx, deleteUiStringsForLanguage, languageCode)
	return err
}

const fieldTranslationColumns = `id, entity_type, entity_id, language_code, field, value, updated_at`

func scanFieldTranslation(row rowScanner) (FieldTranslation, error) {
	var i FieldTranslation
	err := row.Scan(
		&i.ID,
		&i.EntityType,
		&i.EntityID,
		&i.LanguageCode,
		&i.Field,
		&i.Value,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryFieldTranslations(ctx context.Context, query string, args ...any) ([]FieldTranslation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FieldTranslation{}
	for rows.Next() {
		i, err := scanFieldTranslation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertFieldTranslation = `INSERT INTO field_translations (entity_type, entity_id, language_code, field, value, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (entity_type, entity_id, language_code, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
RETURNING ` + fieldTranslationColumns

type UpsertFieldTranslationParams struct {
	EntityType   string
	EntityID     int64
	LanguageCode string
	Field        string
	Value        string
	UpdatedAt    time.Time
}

func (q *Queries) UpsertFieldTranslation(ctx context.Context, arg UpsertFieldTranslationParams) (FieldTranslation, error) {
	row := q.db.QueryRowContext(ctx, upsertFieldTranslation,
		arg.EntityType,
		arg.EntityID,
		arg.LanguageCode,
		arg.Field,
		arg.Value,
		arg.UpdatedAt,
	)
	return scanFieldTranslation(row)
}

const listFieldTranslations = `SELECT ` + fieldTranslationColumns + ` FROM field_translations
WHERE entity_type = ? AND entity_id = ? AND language_code = ?
ORDER BY field`

type ListFieldTranslationsParams struct {
	EntityType   string
	EntityID     int64
	LanguageCode string
}

func (q *Queries) ListFieldTranslations(ctx context.Context, arg ListFieldTranslationsParams) ([]FieldTranslation, error) {
	return q.queryFieldTranslations(ctx, listFieldTranslations, arg.EntityType, arg.EntityID, arg.LanguageCode)
}

const listFieldTranslationsByType = `SELECT ` + fieldTranslationColumns + ` FROM field_translations
WHERE entity_type = ? AND language_code = ?`

type ListFieldTranslationsByTypeParams struct {
	EntityType   string
	LanguageCode string
}

// ListFieldTranslationsByType returns every translation of an entity type in one language.
func (q *Queries) ListFieldTranslationsByType(ctx context.Context, arg ListFieldTranslationsByTypeParams) ([]FieldTranslation, error) {
	return q.queryFieldTranslations(ctx, listFieldTranslationsByType, arg.EntityType, arg.LanguageCode)
}

const deleteFieldTranslation = `DELETE FROM field_translations
WHERE entity_type = ? AND entity_id = ? AND language_code = ? AND field = ?`

type DeleteFieldTranslationParams struct {
	EntityType   string
	EntityID     int64
	LanguageCode string
	Field        string
}

func (q *Queries) DeleteFieldTranslation(ctx context.Context, arg DeleteFieldTranslationParams) error {
	_, err := q.db.ExecContext(ctx, deleteFieldTranslation, arg.EntityType, arg.EntityID, arg.LanguageCode, arg.Field)
	return err
}

const deleteFieldTranslationsForEntity = `DELETE FROM field_translations WHERE entity_type = ? AND entity_id = ?`

type DeleteFieldTranslationsForEntityParams struct {
	EntityType string
	EntityID   int64
}

func (q *Queries) DeleteFieldTranslationsForEntity(ctx context.Context, arg DeleteFieldTranslationsForEntityParams) error {
	_, err := q.db.ExecContext(ctx, deleteFieldTranslationsForEntity, arg.EntityType, arg.EntityID)
	return err
}

const deleteFieldTranslationsForLanguage = `DELETE FROM field_translations WHERE language_code = ?`

func (q *Queries) DeleteFieldTranslationsForLanguage(ctx context.Context, languageCode string) error {
	_, err := q.db.ExecContext(ctx, deleteFieldTranslationsForLanguage, languageCode)
	return err
}
