// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
)

// ErrValidation is returned when import data fails validation.
// The details are in ImportResult.Errors.
var ErrValidation = errors.New("validation failed")

// maxImportSize bounds ImportFromReader input.
const maxImportSize = 64 << 20

// Importer writes ExportData into the database, matching records by slug.
type Importer struct {
	store  *store.Queries
	db     *sql.DB
	logger *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{
		store:  store.New(db),
		db:     db,
		logger: logger,
	}
}

// Validate checks the data without touching the database.
func (i *Importer) Validate(data *ExportData) []ImportError {
	var errs []ImportError
	add := func(entity, key, msg string) {
		errs = append(errs, ImportError{Entity: entity, Key: key, Message: msg})
	}

	if data.Version != ExportVersion {
		add("export", data.Version, fmt.Sprintf("unsupported version, expected %s", ExportVersion))
		return errs
	}

	languages := make(map[string]bool, len(data.Languages))
	for _, l := range data.Languages {
		if l.Code == "" || len(l.Code) > 10 {
			add(entityLanguage, l.Code, "invalid language code")
		}
		if l.Direction != "" && l.Direction != model.DirectionLTR && l.Direction != model.DirectionRTL {
			add(entityLanguage, l.Code, "invalid direction")
		}
		if languages[l.Code] {
			add(entityLanguage, l.Code, "duplicate code")
		}
		languages[l.Code] = true
	}

	categories := make(map[string]bool, len(data.Categories))
	for _, c := range data.Categories {
		if !util.IsValidSlug(c.Slug) {
			add(entityCategory, c.Slug, "invalid slug")
		}
		if categories[c.Slug] {
			add(entityCategory, c.Slug, "duplicate slug")
		}
		if c.Name == "" {
			add(entityCategory, c.Slug, "name is required")
		}
		categories[c.Slug] = true
		validateTranslations(model.EntityCategory, c.Slug, c.Translations, add)
	}

	agents := make(map[string]bool, len(data.Agents))
	for _, a := range data.Agents {
		if !util.IsValidSlug(a.Slug) {
			add(entityAgent, a.Slug, "invalid slug")
		}
		if agents[a.Slug] {
			add(entityAgent, a.Slug, "duplicate slug")
		}
		if a.Name == "" {
			add(entityAgent, a.Slug, "name is required")
		}
		agents[a.Slug] = true
		validateTranslations(model.EntityAgent, a.Slug, a.Translations, add)
	}

	properties := make(map[string]bool, len(data.Properties))
	for _, p := range data.Properties {
		if !util.IsValidSlug(p.Slug) {
			add(entityProperty, p.Slug, "invalid slug")
		}
		if properties[p.Slug] {
			add(entityProperty, p.Slug, "duplicate slug")
		}
		properties[p.Slug] = true
		if p.Title == "" {
			add(entityProperty, p.Slug, "title is required")
		}
		if p.Price < 0 {
			add(entityProperty, p.Slug, "price must not be negative")
		}
		if !model.IsValidCurrency(p.Currency) {
			add(entityProperty, p.Slug, "invalid currency")
		}
		if !model.IsValidListingType(p.ListingType) {
			add(entityProperty, p.Slug, "invalid listing type")
		}
		if !model.IsValidPropertyStatus(p.Status) {
			add(entityProperty, p.Slug, "invalid status")
		}
		if !model.IsValidVisibility(p.Visibility) {
			add(entityProperty, p.Slug, "invalid visibility")
		}
		if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
			add(entityProperty, p.Slug, "latitude out of range")
		}
		if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
			add(entityProperty, p.Slug, "longitude out of range")
		}
		if p.Amenities != "" {
			if _, err := model.ParseAmenities(p.Amenities); err != nil {
				add(entityProperty, p.Slug, "amenities must be a JSON array of strings")
			}
		}
		for _, img := range p.Images {
			if img.URL == "" {
				add(entityImage, p.Slug, "image url is required")
			}
		}
		validateTranslations(model.EntityProperty, p.Slug, p.Translations, add)
	}

	return errs
}

func validateTranslations(entity, key string, tr Translations, add func(entity, key, msg string)) {
	for lang, fields := range tr {
		for field := range fields {
			if !model.IsTranslatableField(entity, field) {
				add(entityTranslation, key, fmt.Sprintf("field %q of %s is not translatable (%s)", field, entity, lang))
			}
		}
	}
}

// Import performs the import operation based on the provided options.
// The import runs in a transaction and rolls back on error.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	if errs := i.Validate(data); len(errs) > 0 {
		result.Errors = errs
		return result, ErrValidation
	}

	if opts.DryRun {
		if err := i.countEntities(ctx, data, opts, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := i.store.WithTx(tx)
	now := time.Now().UTC()

	// Languages come first so translations can reference them.
	if err := i.importLanguages(ctx, queries, data.Languages, now, result); err != nil {
		return nil, err
	}
	languageCodes, err := languageSet(ctx, queries)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := i.importCategories(ctx, queries, data.Categories, opts, now, result)
	if err != nil {
		return nil, err
	}
	agentIDs, err := i.importAgents(ctx, queries, data.Agents, opts, now, result)
	if err != nil {
		return nil, err
	}
	propertyIDs, err := i.importProperties(ctx, queries, data.Properties, categoryIDs, agentIDs, opts, now, result)
	if err != nil {
		return nil, err
	}

	for _, c := range data.Categories {
		if id, ok := categoryIDs[c.Slug]; ok {
			if err := upsertTranslations(ctx, queries, model.EntityCategory, id, c.Slug, c.Translations, languageCodes, now, result); err != nil {
				return nil, err
			}
		}
	}
	for _, a := range data.Agents {
		if id, ok := agentIDs[a.Slug]; ok {
			if err := upsertTranslations(ctx, queries, model.EntityAgent, id, a.Slug, a.Translations, languageCodes, now, result); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range data.Properties {
		if id, ok := propertyIDs[p.Slug]; ok {
			if err := upsertTranslations(ctx, queries, model.EntityProperty, id, p.Slug, p.Translations, languageCodes, now, result); err != nil {
				return nil, err
			}
		}
	}

	for lang, strs := range data.UIStrings {
		if !languageCodes[lang] {
			result.AddError(entityUIString, lang, "unknown language")
			continue
		}
		for key, value := range strs {
			if _, err := queries.UpsertUiString(ctx, store.UpsertUiStringParams{
				LanguageCode: lang,
				Key:          key,
				Value:        value,
				UpdatedAt:    now,
			}); err != nil {
				return nil, fmt.Errorf("saving ui string %s/%s: %w", lang, key, err)
			}
			result.Updated[entityUIString]++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("catalog imported",
		"created", result.TotalCreated(),
		"updated", result.TotalUpdated(),
		"skipped", result.TotalSkipped(),
		"errors", len(result.Errors))

	return result, nil
}

// ImportFromReader reads and imports from an io.Reader.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	dec := json.NewDecoder(io.LimitReader(r, maxImportSize))
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse import data: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// importLanguages creates languages missing from the database.
// Existing languages and the current default are left untouched. The
// exported default is only adopted by a database without one.
func (i *Importer) importLanguages(ctx context.Context, q *store.Queries, languages []ExportLanguage, now time.Time, result *ImportResult) error {
	_, err := q.GetDefaultLanguage(ctx)
	hasDefault := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("looking up default language: %w", err)
	}

	for _, l := range languages {
		_, err := q.GetLanguageByCode(ctx, l.Code)
		if err == nil {
			result.Skipped[entityLanguage]++
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("looking up language %s: %w", l.Code, err)
		}
		direction := l.Direction
		if direction == "" {
			direction = model.DirectionLTR
		}
		if _, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
			Code:       l.Code,
			Name:       l.Name,
			NativeName: l.NativeName,
			IsDefault:  l.IsDefault && !hasDefault,
			IsActive:   l.IsActive || (l.IsDefault && !hasDefault),
			Direction:  direction,
			Position:   l.Position,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("creating language %s: %w", l.Code, err)
		}
		if l.IsDefault {
			hasDefault = true
		}
		result.Created[entityLanguage]++
	}
	return nil
}

func languageSet(ctx context.Context, q *store.Queries) (map[string]bool, error) {
	languages, err := q.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	set := make(map[string]bool, len(languages))
	for _, l := range languages {
		set[l.Code] = true
	}
	return set, nil
}

// importCategories returns the IDs of every category that was created or
// updated, keyed by slug.
func (i *Importer) importCategories(ctx context.Context, q *store.Queries, categories []ExportCategory, opts ImportOptions, now time.Time, result *ImportResult) (map[string]int64, error) {
	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		existing, err := q.GetCategoryBySlug(ctx, c.Slug)
		switch {
		case err == nil && !opts.Overwrite:
			result.Skipped[entityCategory]++
		case err == nil:
			if _, err := q.UpdateCategory(ctx, store.UpdateCategoryParams{
				Name:        c.Name,
				Slug:        c.Slug,
				Description: c.Description,
				Icon:        c.Icon,
				Position:    c.Position,
				UpdatedAt:   now,
				ID:          existing.ID,
			}); err != nil {
				return nil, fmt.Errorf("updating category %s: %w", c.Slug, err)
			}
			ids[c.Slug] = existing.ID
			result.Updated[entityCategory]++
		case errors.Is(err, sql.ErrNoRows):
			created, err := q.CreateCategory(ctx, store.CreateCategoryParams{
				Name:        c.Name,
				Slug:        c.Slug,
				Description: c.Description,
				Icon:        c.Icon,
				Position:    c.Position,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return nil, fmt.Errorf("creating category %s: %w", c.Slug, err)
			}
			ids[c.Slug] = created.ID
			result.Created[entityCategory]++
		default:
			return nil, fmt.Errorf("looking up category %s: %w", c.Slug, err)
		}
	}
	return ids, nil
}

func (i *Importer) importAgents(ctx context.Context, q *store.Queries, agents []ExportAgent, opts ImportOptions, now time.Time, result *ImportResult) (map[string]int64, error) {
	ids := make(map[string]int64, len(agents))
	for _, a := range agents {
		socials := a.Socials
		if socials == "" {
			socials = "{}"
		}
		existing, err := q.GetAgentBySlug(ctx, a.Slug)
		switch {
		case err == nil && !opts.Overwrite:
			result.Skipped[entityAgent]++
		case err == nil:
			if _, err := q.UpdateAgent(ctx, store.UpdateAgentParams{
				Name:      a.Name,
				Slug:      a.Slug,
				Title:     a.Title,
				Email:     a.Email,
				Phone:     a.Phone,
				PhotoUrl:  a.PhotoURL,
				Bio:       a.Bio,
				Socials:   socials,
				Position:  a.Position,
				IsActive:  a.IsActive,
				UpdatedAt: now,
				ID:        existing.ID,
			}); err != nil {
				return nil, fmt.Errorf("updating agent %s: %w", a.Slug, err)
			}
			ids[a.Slug] = existing.ID
			result.Updated[entityAgent]++
		case errors.Is(err, sql.ErrNoRows):
			created, err := q.CreateAgent(ctx, store.CreateAgentParams{
				Name:      a.Name,
				Slug:      a.Slug,
				Title:     a.Title,
				Email:     a.Email,
				Phone:     a.Phone,
				PhotoUrl:  a.PhotoURL,
				Bio:       a.Bio,
				Socials:   socials,
				Position:  a.Position,
				IsActive:  a.IsActive,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return nil, fmt.Errorf("creating agent %s: %w", a.Slug, err)
			}
			ids[a.Slug] = created.ID
			result.Created[entityAgent]++
		default:
			return nil, fmt.Errorf("looking up agent %s: %w", a.Slug, err)
		}
	}
	return ids, nil
}

// importProperties writes listings and their galleries. Category and agent
// slugs resolve against the imported records first, then the database.
func (i *Importer) importProperties(ctx context.Context, q *store.Queries, properties []ExportProperty,
	categoryIDs, agentIDs map[string]int64, opts ImportOptions, now time.Time, result *ImportResult,
) (map[string]int64, error) {
	ids := make(map[string]int64, len(properties))
	for _, p := range properties {
		params := store.PropertyParams{
			Title:       p.Title,
			Slug:        p.Slug,
			Description: p.Description,
			Price:       p.Price,
			Currency:    p.Currency,
			ListingType: p.ListingType,
			Status:      p.Status,
			Visibility:  p.Visibility,
			IsFeatured:  p.IsFeatured,
			Address:     p.Address,
			City:        p.City,
			Area:        p.Area,
			Bedrooms:    p.Bedrooms,
			Bathrooms:   p.Bathrooms,
			Floor:       util.NullInt64FromPtr(p.Floor),
			YearBuilt:   util.NullInt64FromPtr(p.YearBuilt),
			Latitude:    util.NullFloat64FromPtr(p.Latitude),
			Longitude:   util.NullFloat64FromPtr(p.Longitude),
			Amenities:   p.Amenities,
			CoverImage:  p.CoverImage,
			VideoUrl:    p.VideoURL,
			Position:    p.Position,
		}
		if params.Amenities == "" {
			params.Amenities = "[]"
		}
		var err error
		if params.CategoryID, err = resolveRef(ctx, p.CategorySlug, categoryIDs, func(ctx context.Context, slug string) (int64, error) {
			c, err := q.GetCategoryBySlug(ctx, slug)
			return c.ID, err
		}); err != nil {
			result.AddError(entityProperty, p.Slug, fmt.Sprintf("category %q: %v", p.CategorySlug, err))
		}
		if params.AgentID, err = resolveRef(ctx, p.AgentSlug, agentIDs, func(ctx context.Context, slug string) (int64, error) {
			a, err := q.GetAgentBySlug(ctx, slug)
			return a.ID, err
		}); err != nil {
			result.AddError(entityProperty, p.Slug, fmt.Sprintf("agent %q: %v", p.AgentSlug, err))
		}

		existing, err := q.GetPropertyBySlug(ctx, p.Slug)
		switch {
		case err == nil && !opts.Overwrite:
			result.Skipped[entityProperty]++
			continue
		case err == nil:
			if _, err := q.UpdateProperty(ctx, store.UpdatePropertyParams{
				PropertyParams: params,
				UpdatedAt:      now,
				ID:             existing.ID,
			}); err != nil {
				return nil, fmt.Errorf("updating property %s: %w", p.Slug, err)
			}
			ids[p.Slug] = existing.ID
			result.Updated[entityProperty]++
		case errors.Is(err, sql.ErrNoRows):
			createdAt := p.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			created, err := q.CreateProperty(ctx, store.CreatePropertyParams{
				PropertyParams: params,
				CreatedAt:      createdAt,
				UpdatedAt:      now,
			})
			if err != nil {
				return nil, fmt.Errorf("creating property %s: %w", p.Slug, err)
			}
			ids[p.Slug] = created.ID
			result.Created[entityProperty]++
		default:
			return nil, fmt.Errorf("looking up property %s: %w", p.Slug, err)
		}

		if err := replaceImages(ctx, q, ids[p.Slug], p.Images, now, result); err != nil {
			return nil, fmt.Errorf("importing images of %s: %w", p.Slug, err)
		}
	}
	return ids, nil
}

// resolveRef maps slug to an ID. An empty slug is a valid "no reference".
func resolveRef(ctx context.Context, slug string, imported map[string]int64, lookup func(context.Context, string) (int64, error)) (sql.NullInt64, error) {
	if slug == "" {
		return sql.NullInt64{}, nil
	}
	if id, ok := imported[slug]; ok {
		return sql.NullInt64{Int64: id, Valid: true}, nil
	}
	id, err := lookup(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullInt64{}, errors.New("not found")
	}
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// replaceImages makes the gallery of propertyID equal to images.
func replaceImages(ctx context.Context, q *store.Queries, propertyID int64, images []ExportImage, now time.Time, result *ImportResult) error {
	existing, err := q.ListPropertyImages(ctx, propertyID)
	if err != nil {
		return err
	}
	for _, img := range existing {
		if err := q.DeletePropertyImage(ctx, store.DeletePropertyImageParams{ID: img.ID, PropertyID: propertyID}); err != nil {
			return err
		}
	}
	for _, img := range images {
		if _, err := q.CreatePropertyImage(ctx, store.CreatePropertyImageParams{
			PropertyID: propertyID,
			Url:        img.URL,
			Alt:        img.Alt,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		result.Created[entityImage]++
	}
	return nil
}

func upsertTranslations(ctx context.Context, q *store.Queries, entity string, id int64, key string,
	tr Translations, languages map[string]bool, now time.Time, result *ImportResult,
) error {
	for lang, fields := range tr {
		if !languages[lang] {
			result.AddError(entityTranslation, key, fmt.Sprintf("unknown language %q", lang))
			continue
		}
		for field, value := range fields {
			if _, err := q.UpsertFieldTranslation(ctx, store.UpsertFieldTranslationParams{
				EntityType:   entity,
				EntityID:     id,
				LanguageCode: lang,
				Field:        field,
				Value:        value,
				UpdatedAt:    now,
			}); err != nil {
				return fmt.Errorf("saving %s translation of %s: %w", lang, key, err)
			}
			result.Updated[entityTranslation]++
		}
	}
	return nil
}

// countEntities fills result as Import would, without writing.
func (i *Importer) countEntities(ctx context.Context, data *ExportData, opts ImportOptions, result *ImportResult) error {
	count := func(entity string, exists bool) {
		switch {
		case !exists:
			result.Created[entity]++
		case opts.Overwrite:
			result.Updated[entity]++
		default:
			result.Skipped[entity]++
		}
	}
	found := func(err error) (bool, error) {
		if err == nil {
			return true, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	for _, l := range data.Languages {
		_, err := i.store.GetLanguageByCode(ctx, l.Code)
		exists, err := found(err)
		if err != nil {
			return fmt.Errorf("looking up language %s: %w", l.Code, err)
		}
		if exists {
			result.Skipped[entityLanguage]++
		} else {
			result.Created[entityLanguage]++
		}
	}
	for _, c := range data.Categories {
		_, err := i.store.GetCategoryBySlug(ctx, c.Slug)
		exists, err := found(err)
		if err != nil {
			return fmt.Errorf("looking up category %s: %w", c.Slug, err)
		}
		count(entityCategory, exists)
	}
	for _, a := range data.Agents {
		_, err := i.store.GetAgentBySlug(ctx, a.Slug)
		exists, err := found(err)
		if err != nil {
			return fmt.Errorf("looking up agent %s: %w", a.Slug, err)
		}
		count(entityAgent, exists)
	}
	for _, p := range data.Properties {
		_, err := i.store.GetPropertyBySlug(ctx, p.Slug)
		exists, err := found(err)
		if err != nil {
			return fmt.Errorf("looking up property %s: %w", p.Slug, err)
		}
		count(entityProperty, exists)
	}
	return nil
}
