// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/testutil"
)

func setupTest(t *testing.T) (*sql.DB, *store.Queries) {
	t.Helper()
	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)
	return db, store.New(db)
}

// seedCatalog creates a Spanish language, one category, one agent and a
// private property with an image and translations.
func seedCatalog(t *testing.T, db *sql.DB) store.Property {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	testutil.CreateLanguage(t, db, "es", "Español")

	cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      "Apartments",
		Slug:      "apartments",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	agent, err := q.CreateAgent(ctx, store.CreateAgentParams{
		Name:      "Ana Ruiz",
		Slug:      "ana-ruiz",
		Title:     "Senior agent",
		Socials:   "{}",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	p := testutil.CreateProperty(t, db, "Sea view flat", "sea-view-flat", model.VisibilityPrivate)
	params := store.ParamsFromProperty(p)
	params.CategoryID = sql.NullInt64{Int64: cat.ID, Valid: true}
	params.AgentID = sql.NullInt64{Int64: agent.ID, Valid: true}
	params.Floor = sql.NullInt64{Int64: 3, Valid: true}
	params.Latitude = sql.NullFloat64{Float64: 39.47, Valid: true}
	p, err = q.UpdateProperty(ctx, store.UpdatePropertyParams{PropertyParams: params, UpdatedAt: now, ID: p.ID})
	require.NoError(t, err)

	_, err = q.CreatePropertyImage(ctx, store.CreatePropertyImageParams{
		PropertyID: p.ID,
		Url:        "/uploads/images/a/large.jpg",
		Alt:        "Living room",
		CreatedAt:  now,
	})
	require.NoError(t, err)

	for _, tr := range []store.UpsertFieldTranslationParams{
		{EntityType: model.EntityProperty, EntityID: p.ID, LanguageCode: "es", Field: "title", Value: "Piso con vistas al mar"},
		{EntityType: model.EntityCategory, EntityID: cat.ID, LanguageCode: "es", Field: "name", Value: "Pisos"},
	} {
		tr.UpdatedAt = now
		_, err := q.UpsertFieldTranslation(ctx, tr)
		require.NoError(t, err)
	}

	_, err = q.UpsertUiString(ctx, store.UpsertUiStringParams{
		LanguageCode: "es",
		Key:          "nav.home",
		Value:        "Inicio",
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	return p
}
