// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the public site and the
// admin panel.
package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/seo"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/webhook"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// Config holds the site settings the handlers need.
type Config struct {
	SiteURL         string
	SiteName        string
	SiteDescription string
	DefaultLanguage string
	SecureCookies   bool
}

// Deps holds the services shared by the handlers. Only DB is required.
type Deps struct {
	DB              *sql.DB
	Sessions        *scs.SessionManager
	Cache           *cache.Manager
	Events          *service.EventService
	Access          *service.AccessService
	Uploads         *service.UploadService
	Renderer        *service.ContentRenderer
	Translations    *service.TranslationService
	Notifier        webhook.Notifier
	LoginProtection *middleware.LoginProtection
	Jobs            JobRunner
	Logger          *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db           *sql.DB
	queries      *store.Queries
	sm           *scs.SessionManager
	cache        *cache.Manager
	events       *service.EventService
	access       *service.AccessService
	uploads      *service.UploadService
	renderer     *service.ContentRenderer
	translations *service.TranslationService
	notifier     webhook.Notifier
	loginProt    *middleware.LoginProtection
	jobs         JobRunner
	logger       *slog.Logger
	validate     *validator
	cfg          Config
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps, cfg Config) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Events == nil {
		deps.Events = service.NewEventService(deps.DB, deps.Logger)
	}
	if deps.Renderer == nil {
		deps.Renderer = service.NewContentRenderer()
	}
	if deps.Translations == nil {
		deps.Translations = service.NewTranslationService(deps.DB)
	}
	if deps.Notifier == nil {
		deps.Notifier = webhook.Nop{}
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	return &Handler{
		db:           deps.DB,
		queries:      store.New(deps.DB),
		sm:           deps.Sessions,
		cache:        deps.Cache,
		events:       deps.Events,
		access:       deps.Access,
		uploads:      deps.Uploads,
		renderer:     deps.Renderer,
		translations: deps.Translations,
		notifier:     deps.Notifier,
		loginProt:    deps.LoginProtection,
		jobs:         deps.Jobs,
		logger:       deps.Logger,
		validate:     newValidator(),
		cfg:          cfg,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

// NewMeta builds pagination metadata.
func NewMeta(total int64, page, perPage int) *Meta {
	return &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   handler.CalculateTotalPages(int(total), perPage),
	}
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusConflict, code, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// decodeJSON reads the request body into dst and writes 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// decodeAndValidate decodes the body into dst and runs its validation tags.
// Field errors are localized to the request language.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	normalize(dst)
	if errs := h.validate.Struct(dst, middleware.GetLanguageCode(r)); len(errs) > 0 {
		WriteValidationError(w, errs)
		return false
	}
	return true
}

// decodePatch decodes a partial update into dst and returns the keys that
// were sent as explicit nulls, which clear nullable columns.
func (h *Handler) decodePatch(w http.ResponseWriter, r *http.Request, dst any) (map[string]bool, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return nil, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return nil, false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return nil, false
	}
	normalize(dst)
	if errs := h.validate.Struct(dst, middleware.GetLanguageCode(r)); len(errs) > 0 {
		WriteValidationError(w, errs)
		return nil, false
	}

	nulls := make(map[string]bool)
	for k, v := range raw {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			nulls[k] = true
		}
	}
	return nulls, true
}

// SlugExistsChecker is a function that checks if a slug exists (returns count and error).
type SlugExistsChecker func() (int64, error)

// checkSlugUnique checks if a slug is unique using the provided checker function.
// Returns true if unique, false if duplicate or error (response already written).
func checkSlugUnique(w http.ResponseWriter, slugExists SlugExistsChecker) bool {
	exists, err := slugExists()
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if exists != 0 {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return false
	}
	return true
}

// resolveSlug returns a valid unique slug for a new entity: the requested
// one when given, otherwise one generated from title. Returns false when
// a response was written.
func resolveSlug(w http.ResponseWriter, r *http.Request, requested, title string, count func(context.Context, string) (int64, error)) (string, bool) {
	if requested == "" {
		slug, err := handler.GenerateSlug(r.Context(), title, count)
		if err != nil {
			WriteInternalError(w, "Failed to generate slug")
			return "", false
		}
		return slug, true
	}
	if msg := handler.ValidateSlugWithChecker(requested, func() (int64, error) {
		return count(r.Context(), requested)
	}); msg != "" {
		if msg == "Error checking slug" {
			WriteInternalError(w, "Failed to check slug")
		} else {
			WriteValidationError(w, map[string]string{"slug": msg})
		}
		return "", false
	}
	return requested, true
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if error (response written).
// The entityName is used for error messages (e.g., "property", "agent").
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}

	return entity, true
}

// writeDeleteResult maps the result of a delete query to 204 or an error.
func writeDeleteResult(w http.ResponseWriter, err error, entityName string) bool {
	if err == nil {
		WriteNoContent(w)
		return true
	}
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
	} else {
		WriteInternalError(w, "Failed to delete "+entityName)
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ReorderRequest is the body of every reorder endpoint.
type ReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// reorder assigns positions to the ids of table in request order.
func (h *Handler) reorder(w http.ResponseWriter, r *http.Request, table string, resources ...cache.Resource) {
	var req ReorderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if err := store.Reorder(r.Context(), h.db, table, req.IDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteValidationError(w, map[string]string{"ids": "Unknown ID in list"})
			return
		}
		h.logger.Error("reorder failed", "table", table, "error", err)
		WriteInternalError(w, "Failed to reorder")
		return
	}
	h.invalidate(r.Context(), resources...)
	WriteNoContent(w)
}

// invalidate drops cached public responses after an admin write.
func (h *Handler) invalidate(ctx context.Context, resources ...cache.Resource) {
	h.cache.Invalidate(ctx, resources...)
}

// requestLanguage returns the language of the request and whether it is
// the site default, in which case no translations apply.
func (h *Handler) requestLanguage(r *http.Request) (lang string, isDefault bool) {
	lang = middleware.GetLanguageCode(r)
	if info := middleware.GetLanguage(r); info != nil {
		return lang, info.IsDefault
	}
	return lang, lang == h.defaultLanguage(r.Context())
}

// defaultLanguage returns the code of the default language.
func (h *Handler) defaultLanguage(ctx context.Context) string {
	lang, err := cache.Remember(ctx, h.cache, h.cache.Key(cache.ResourceLanguages, "", "default"),
		h.queries.GetDefaultLanguage)
	if err != nil {
		return h.cfg.DefaultLanguage
	}
	return lang.Code
}

// siteConfig returns the SEO settings of the site in the active languages.
func (h *Handler) siteConfig(ctx context.Context) *seo.SiteConfig {
	site := &seo.SiteConfig{
		SiteName:        h.cfg.SiteName,
		SiteURL:         h.cfg.SiteURL,
		SiteDescription: h.cfg.SiteDescription,
		DefaultLanguage: h.defaultLanguage(ctx),
	}
	langs, err := cache.Remember(ctx, h.cache, h.cache.Key(cache.ResourceLanguages, "", "active"),
		h.queries.ListActiveLanguages)
	if err == nil {
		for _, l := range langs {
			site.Languages = append(site.Languages, l.Code)
		}
	}
	return site
}

// paging reads page and per_page from the query string.
func paging(r *http.Request) (page, perPage int, limit, offset int64) {
	page = handler.ParsePageParam(r)
	perPage = handler.ParsePerPageParam(r, handler.DefaultPerPage, handler.MaxPerPage)
	return page, perPage, int64(perPage), handler.Offset(page, perPage)
}

// Page is a cached page of a list endpoint.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}
