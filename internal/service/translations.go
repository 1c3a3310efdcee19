// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
)

// Translation errors.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrInvalidField    = errors.New("field is not translatable")
)

// TranslationService reads and writes UI strings and per-field content
// translations.
type TranslationService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(db *sql.DB) *TranslationService {
	return &TranslationService{db: db, queries: store.New(db)}
}

// UIStrings returns the dictionary of lang laid over the one of
// defaultLang, so keys missing in lang still resolve.
func (s *TranslationService) UIStrings(ctx context.Context, lang, defaultLang string) (map[string]string, error) {
	out := make(map[string]string)
	codes := []string{defaultLang}
	if lang != defaultLang && lang != "" {
		codes = append(codes, lang)
	}
	for _, code := range codes {
		items, err := s.queries.ListUiStrings(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("listing ui strings for %s: %w", code, err)
		}
		for _, it := range items {
			if it.Value != "" {
				out[it.Key] = it.Value
			}
		}
	}
	return out, nil
}

// SetUIStrings upserts values for lang in one transaction. An empty value
// removes the key.
func (s *TranslationService) SetUIStrings(ctx context.Context, lang string, values map[string]string) error {
	if err := s.requireLanguage(ctx, lang); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now().UTC()
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value == "" {
			err := qtx.DeleteUiString(ctx, store.DeleteUiStringParams{LanguageCode: lang, Key: key})
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("deleting ui string %q: %w", key, err)
			}
			continue
		}
		if _, err := qtx.UpsertUiString(ctx, store.UpsertUiStringParams{
			LanguageCode: lang,
			Key:          key,
			Value:        value,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("saving ui string %q: %w", key, err)
		}
	}
	return tx.Commit()
}

// Fields returns the translated fields of one entity in lang.
func (s *TranslationService) Fields(ctx context.Context, entity string, id int64, lang string) (map[string]string, error) {
	items, err := s.queries.ListFieldTranslations(ctx, store.ListFieldTranslationsParams{
		EntityType:   entity,
		EntityID:     id,
		LanguageCode: lang,
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s %d translations: %w", entity, id, err)
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Field] = it.Value
	}
	return out, nil
}

// FieldsByType returns the translated fields of every entity of a type in
// lang, keyed by entity id.
func (s *TranslationService) FieldsByType(ctx context.Context, entity, lang string) (map[int64]map[string]string, error) {
	items, err := s.queries.ListFieldTranslationsByType(ctx, store.ListFieldTranslationsByTypeParams{
		EntityType:   entity,
		LanguageCode: lang,
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s translations: %w", entity, err)
	}
	out := make(map[int64]map[string]string)
	for _, it := range items {
		if out[it.EntityID] == nil {
			out[it.EntityID] = make(map[string]string)
		}
		out[it.EntityID][it.Field] = it.Value
	}
	return out, nil
}

// SetFields stores translations of one entity in lang and returns the
// resulting field map. An empty value removes the translation.
func (s *TranslationService) SetFields(ctx context.Context, entity string, id int64, lang string, fields map[string]string) (map[string]string, error) {
	for field := range fields {
		if !model.IsTranslatableField(entity, field) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, field)
		}
	}
	if err := s.requireLanguage(ctx, lang); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now().UTC()
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			if err := qtx.DeleteFieldTranslation(ctx, store.DeleteFieldTranslationParams{
				EntityType:   entity,
				EntityID:     id,
				LanguageCode: lang,
				Field:        field,
			}); err != nil {
				return nil, fmt.Errorf("deleting %s translation: %w", field, err)
			}
			continue
		}
		if _, err := qtx.UpsertFieldTranslation(ctx, store.UpsertFieldTranslationParams{
			EntityType:   entity,
			EntityID:     id,
			LanguageCode: lang,
			Field:        field,
			Value:        value,
			UpdatedAt:    now,
		}); err != nil {
			return nil, fmt.Errorf("saving %s translation: %w", field, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing translations: %w", err)
	}
	return s.Fields(ctx, entity, id, lang)
}

// DeleteEntity removes every translation of an entity.
func (s *TranslationService) DeleteEntity(ctx context.Context, entity string, id int64) error {
	return s.queries.DeleteFieldTranslationsForEntity(ctx, store.DeleteFieldTranslationsForEntityParams{
		EntityType: entity,
		EntityID:   id,
	})
}

func (s *TranslationService) requireLanguage(ctx context.Context, lang string) error {
	if _, err := s.queries.GetLanguageByCode(ctx, lang); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
		}
		return fmt.Errorf("loading language %s: %w", lang, err)
	}
	return nil
}

// Overlay replaces the value behind each field pointer with its translation,
// when one exists.
func Overlay(fields map[string]string, targets map[string]*string) {
	for name, ptr := range targets {
		if v, ok := fields[name]; ok && v != "" && ptr != nil {
			*ptr = v
		}
	}
}
