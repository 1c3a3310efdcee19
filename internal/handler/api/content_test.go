// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/testutil"
)

func TestCreatePost_RendersAndPublishes(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.CreatePost, newJSONRequest(t, http.MethodPost, "/",
		`{"title":"Market Update","body":"# Hi\n\nPrices are **up**.","status":"published"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)

	post := unmarshalData[PostResponse](t, w)
	assert.Equal(t, "market-update", post.Slug)
	assert.Contains(t, post.BodyHTML, "Hi</h1>")
	assert.Contains(t, post.BodyHTML, "<strong>up</strong>")
	assert.NotEmpty(t, post.Excerpt)
	require.NotNil(t, post.PublishedAt)
}

func TestCreatePost_StripsScripts(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.CreatePost, newJSONRequest(t, http.MethodPost, "/",
		`{"title":"Unsafe","body":"hello <script>alert(1)</script>"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)

	post := unmarshalData[PostResponse](t, w)
	assert.NotContains(t, post.BodyHTML, "<script>")
	assert.Equal(t, model.ContentDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestPublicPosts_HideDrafts(t *testing.T) {
	_, h := testSetup(t)

	for _, body := range []string{
		`{"title":"Live","body":"text","status":"published"}`,
		`{"title":"Hidden","body":"text"}`,
	} {
		w := executeHandler(t, h.CreatePost, newJSONRequest(t, http.MethodPost, "/", body, nil))
		assertStatusCode(t, w, http.StatusCreated)
	}

	w := executeHandler(t, h.PublicListPosts, newGetRequest(t, "/", nil))
	assertStatusCode(t, w, http.StatusOK)
	items, meta := unmarshalList[PostResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "live", items[0].Slug)
	require.NotNil(t, meta)
	assert.Equal(t, int64(1), meta.Total)

	w = executeHandler(t, h.PublicGetPost, newGetRequest(t, "/", map[string]string{"slug": "hidden"}))
	assertStatusCode(t, w, http.StatusNotFound)

	w = executeHandler(t, h.PublicGetPost, newGetRequest(t, "/", map[string]string{"slug": "live"}))
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, unmarshalData[PostResponse](t, w).BodyHTML, "text")
}

func TestUpdatePost_PublishSetsDate(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.CreatePost, newJSONRequest(t, http.MethodPost, "/", `{"title":"Later","body":"x"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	post := unmarshalData[PostResponse](t, w)

	w = executeHandler(t, h.UpdatePost, newJSONRequest(t, http.MethodPut, "/", `{"status":"published"}`, idParam(post.ID)))
	assertStatusCode(t, w, http.StatusOK)
	updated := unmarshalData[PostResponse](t, w)
	assert.Equal(t, model.ContentPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)
}

func TestUpdateSection_MenuValidation(t *testing.T) {
	_, h := testSetup(t)
	key := map[string]string{"key": model.SectionMenu}

	w := executeHandler(t, h.UpdateSection, newJSONRequest(t, http.MethodPut, "/",
		`{"settings":{"items":[{"label":"Bad","url":"javascript:alert(1)"}]}}`, key))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = executeHandler(t, h.UpdateSection, newJSONRequest(t, http.MethodPut, "/",
		`{"settings":{"items":[{"label":"Contact","url":"#contact","position":2},{"label":"Listings","url":"/properties","position":1}]}}`, key))
	assertStatusCode(t, w, http.StatusOK)

	s := unmarshalData[SectionResponse](t, w)
	var menu model.MenuSettings
	require.NoError(t, json.Unmarshal(s.Settings, &menu))
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "Listings", menu.Items[0].Label)
}

func TestSections_DisabledHiddenPublicly(t *testing.T) {
	_, h := testSetup(t)
	key := map[string]string{"key": model.SectionHero}

	w := executeHandler(t, h.PublicGetSection, newGetRequest(t, "/", key))
	assertStatusCode(t, w, http.StatusOK)

	w = executeHandler(t, h.UpdateSection, newJSONRequest(t, http.MethodPut, "/", `{"is_enabled":false}`, key))
	assertStatusCode(t, w, http.StatusOK)

	w = executeHandler(t, h.PublicGetSection, newGetRequest(t, "/", key))
	assertStatusCode(t, w, http.StatusNotFound)

	w = executeHandler(t, h.PublicListSections, newGetRequest(t, "/", nil))
	sections := unmarshalData[map[string]SectionResponse](t, w)
	assert.NotContains(t, sections, model.SectionHero)
	assert.Contains(t, sections, model.SectionAbout)

	w = executeHandler(t, h.GetSection, newGetRequest(t, "/", map[string]string{"key": "nope"}))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestUIStrings_MergeOverDefault(t *testing.T) {
	db, h := testSetup(t)
	testutil.CreateLanguage(t, db, "es", "Spanish")

	w := executeHandler(t, h.SetUIStrings, newJSONRequest(t, http.MethodPut, "/",
		`{"nav.home":"Home","nav.contact":"Contact"}`, map[string]string{"lang": "en"}))
	assertStatusCode(t, w, http.StatusOK)

	w = executeHandler(t, h.SetUIStrings, newJSONRequest(t, http.MethodPut, "/",
		`{"nav.home":"Inicio"}`, map[string]string{"lang": "es"}))
	assertStatusCode(t, w, http.StatusOK)

	req := withLanguage(newGetRequest(t, "/", nil), "es", false)
	w = executeHandler(t, h.PublicUIStrings, req)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, map[string]string{"nav.home": "Inicio", "nav.contact": "Contact"}, unmarshalData[map[string]string](t, w))

	w = executeHandler(t, h.ListUIStrings, newGetRequest(t, "/", map[string]string{"lang": "es"}))
	assert.Equal(t, map[string]string{"nav.home": "Inicio"}, unmarshalData[map[string]string](t, w))

	w = executeHandler(t, h.SetUIStrings, newJSONRequest(t, http.MethodPut, "/", `{"a":"b"}`, map[string]string{"lang": "xx"}))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestFieldTranslations(t *testing.T) {
	db, h := testSetup(t)
	testutil.CreateLanguage(t, db, "es", "Spanish")
	p := testutil.CreateProperty(t, db, "Sea View Flat", "sea-view-flat", model.VisibilityPublic)

	set := h.SetFieldTranslations(model.EntityProperty)
	params := map[string]string{"id": idParam(p.ID)["id"], "lang": "es"}

	w := executeHandler(t, set, newJSONRequest(t, http.MethodPut, "/", `{"title":"Piso con vistas"}`, params))
	assertStatusCode(t, w, http.StatusOK)
	resp := unmarshalData[FieldTranslationsResponse](t, w)
	assert.Equal(t, "Piso con vistas", resp.Fields["title"])

	w = executeHandler(t, set, newJSONRequest(t, http.MethodPut, "/", `{"price":"1"}`, params))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = executeHandler(t, h.GetFieldTranslations(model.EntityProperty), newGetRequest(t, "/", params))
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "Piso con vistas", unmarshalData[FieldTranslationsResponse](t, w).Fields["title"])

	w = executeHandler(t, set, newJSONRequest(t, http.MethodPut, "/", `{"title":"x"}`,
		map[string]string{"id": "99999", "lang": "es"}))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestLanguages_DefaultRules(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.CreateLanguage, newJSONRequest(t, http.MethodPost, "/", `{"code":"ES","name":"Spanish"}`, nil))
	assertStatusCode(t, w, http.StatusCreated)
	es := unmarshalData[LanguageResponse](t, w)
	assert.Equal(t, "es", es.Code)
	assert.False(t, es.IsDefault)
	assert.Equal(t, "Spanish", es.NativeName)

	w = executeHandler(t, h.CreateLanguage, newJSONRequest(t, http.MethodPost, "/", `{"code":"es","name":"Again"}`, nil))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = executeHandler(t, h.ListLanguages, newGetRequest(t, "/", nil))
	langs, _ := unmarshalList[LanguageResponse](t, w)
	require.Len(t, langs, 2)
	var en LanguageResponse
	for _, l := range langs {
		if l.Code == "en" {
			en = l
		}
	}
	require.True(t, en.IsDefault)

	w = executeHandler(t, h.DeleteLanguage, newDeleteRequest(t, "/", idParam(en.ID)))
	assertStatusCode(t, w, http.StatusConflict)
	assertErrorResponse(t, w, "default_language")

	w = executeHandler(t, h.UpdateLanguage, newJSONRequest(t, http.MethodPut, "/", `{"is_active":false}`, idParam(en.ID)))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = executeHandler(t, h.SetDefaultLanguage, newJSONRequest(t, http.MethodPost, "/", "", idParam(es.ID)))
	assertStatusCode(t, w, http.StatusOK)
	assert.True(t, unmarshalData[LanguageResponse](t, w).IsDefault)

	w = executeHandler(t, h.DeleteLanguage, newDeleteRequest(t, "/", idParam(en.ID)))
	assertStatusCode(t, w, http.StatusNoContent)
}
