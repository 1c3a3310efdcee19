// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/util"
)

// Exporter reads the listings catalog into ExportData.
type Exporter struct {
	store  *store.Queries
	logger *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	return &Exporter{
		store:  queries,
		logger: logger,
	}
}

// Export builds an export of the catalog according to opts.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Site:       ExportSite{Name: opts.SiteName, URL: opts.SiteURL},
	}

	languages, err := e.store.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	codes := make([]string, 0, len(languages))
	for _, l := range languages {
		codes = append(codes, l.Code)
		data.Languages = append(data.Languages, ExportLanguage{
			Code:       l.Code,
			Name:       l.Name,
			NativeName: l.NativeName,
			IsDefault:  l.IsDefault,
			IsActive:   l.IsActive,
			Direction:  l.Direction,
			Position:   l.Position,
		})
	}

	var translations map[string]map[int64]Translations
	if opts.IncludeTranslations {
		translations, err = e.loadTranslations(ctx, codes)
		if err != nil {
			return nil, err
		}
	}

	categories, err := e.store.ListCategoriesWithCounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	categorySlugs := make(map[int64]string, len(categories))
	for _, c := range categories {
		categorySlugs[c.ID] = c.Slug
		data.Categories = append(data.Categories, ExportCategory{
			Name:         c.Name,
			Slug:         c.Slug,
			Description:  c.Description,
			Icon:         c.Icon,
			Position:     c.Position,
			Translations: translations[model.EntityCategory][c.ID],
		})
	}

	agents, err := e.store.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	agentSlugs := make(map[int64]string, len(agents))
	for _, a := range agents {
		agentSlugs[a.ID] = a.Slug
		data.Agents = append(data.Agents, ExportAgent{
			Name:         a.Name,
			Slug:         a.Slug,
			Title:        a.Title,
			Email:        a.Email,
			Phone:        a.Phone,
			PhotoURL:     a.PhotoUrl,
			Bio:          a.Bio,
			Socials:      a.Socials,
			Position:     a.Position,
			IsActive:     a.IsActive,
			Translations: translations[model.EntityAgent][a.ID],
		})
	}

	filter := store.PropertyFilter{Sort: store.SortPosition}
	if !opts.IncludePrivate {
		filter.Visibility = model.VisibilityPublic
	}
	properties, err := e.store.ListProperties(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	for _, p := range properties {
		ep, err := e.exportProperty(ctx, p, categorySlugs, agentSlugs)
		if err != nil {
			return nil, err
		}
		ep.Translations = translations[model.EntityProperty][p.ID]
		data.Properties = append(data.Properties, ep)
	}

	if opts.IncludeUIStrings {
		data.UIStrings = make(map[string]map[string]string)
		for _, code := range codes {
			rows, err := e.store.ListUiStrings(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("listing ui strings for %s: %w", code, err)
			}
			if len(rows) == 0 {
				continue
			}
			m := make(map[string]string, len(rows))
			for _, s := range rows {
				m[s.Key] = s.Value
			}
			data.UIStrings[code] = m
		}
	}

	e.logger.Info("catalog exported",
		"languages", len(data.Languages),
		"categories", len(data.Categories),
		"agents", len(data.Agents),
		"properties", len(data.Properties))

	return data, nil
}

func (e *Exporter) exportProperty(ctx context.Context, p store.Property, categorySlugs, agentSlugs map[int64]string) (ExportProperty, error) {
	ep := ExportProperty{
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
		Floor:       util.Int64Ptr(p.Floor),
		YearBuilt:   util.Int64Ptr(p.YearBuilt),
		Latitude:    util.Float64Ptr(p.Latitude),
		Longitude:   util.Float64Ptr(p.Longitude),
		Amenities:   p.Amenities,
		CoverImage:  p.CoverImage,
		VideoURL:    p.VideoUrl,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID.Valid {
		ep.CategorySlug = categorySlugs[p.CategoryID.Int64]
	}
	if p.AgentID.Valid {
		ep.AgentSlug = agentSlugs[p.AgentID.Int64]
	}

	images, err := e.store.ListPropertyImages(ctx, p.ID)
	if err != nil {
		return ep, fmt.Errorf("listing images of %s: %w", p.Slug, err)
	}
	for _, img := range images {
		ep.Images = append(ep.Images, ExportImage{URL: img.Url, Alt: img.Alt})
	}
	return ep, nil
}

// loadTranslations returns entity type -> entity ID -> translations.
func (e *Exporter) loadTranslations(ctx context.Context, codes []string) (map[string]map[int64]Translations, error) {
	out := make(map[string]map[int64]Translations)
	for _, entity := range []string{model.EntityCategory, model.EntityAgent, model.EntityProperty} {
		byID := make(map[int64]Translations)
		for _, code := range codes {
			rows, err := e.store.ListFieldTranslationsByType(ctx, store.ListFieldTranslationsByTypeParams{
				EntityType:   entity,
				LanguageCode: code,
			})
			if err != nil {
				return nil, fmt.Errorf("listing %s translations: %w", entity, err)
			}
			for _, t := range rows {
				tr := byID[t.EntityID]
				if tr == nil {
					tr = make(Translations)
					byID[t.EntityID] = tr
				}
				if tr[code] == nil {
					tr[code] = make(map[string]string)
				}
				tr[code][t.Field] = t.Value
			}
		}
		out[entity] = byID
	}
	return out, nil
}

// ExportToWriter exports the catalog as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer, opts ExportOptions) error {
	data, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
