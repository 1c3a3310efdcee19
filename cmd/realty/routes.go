// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/config"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/handler/api"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
)

// routerDeps collects what newRouter wires into routes.
type routerDeps struct {
	cfg             *config.Config
	db              *sql.DB
	sessions        *scs.SessionManager
	cache           *cache.Manager
	events          *service.EventService
	access          *service.AccessService
	loginProtection *middleware.LoginProtection
	api             *api.Handler
	health          *handler.HealthHandler
	seo             *handler.SEOHandler
}

// crudHandlers defines the standard admin CRUD handler methods.
type crudHandlers struct {
	List    http.HandlerFunc
	Get     http.HandlerFunc
	Create  http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
	Reorder http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, POST /, PUT /reorder, GET /{id}, PUT /{id}, DELETE /{id}
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Get(base, h.List)
	r.Post(base, h.Create)
	if h.Reorder != nil {
		r.Put(base+handler.RouteSuffixReorder, h.Reorder)
	}
	r.Get(base+handler.RouteParamID, h.Get)
	r.Put(base+handler.RouteParamID, h.Update)
	r.Delete(base+handler.RouteParamID, h.Delete)
}

// registerFieldTranslations registers GET and PUT of per-language field
// translations below a resource item route.
func registerFieldTranslations(r chi.Router, itemRoute, entity string, h *api.Handler) {
	r.Get(itemRoute+handler.RouteSuffixTranslations, h.GetFieldTranslations(entity))
	r.Put(itemRoute+handler.RouteSuffixTranslations, h.SetFieldTranslations(entity))
}

func newRouter(d routerDeps) chi.Router {
	cfg := d.cfg
	isDev := cfg.IsDevelopment()
	h := d.api

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))
	r.Use(middleware.RequestInfo)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.AllowedOrigins, isDev)))
	r.Use(d.sessions.LoadAndSave)

	// Health check endpoints
	r.Get(handler.RouteHealth, d.health.Health)
	r.Get(handler.RouteHealth+"/live", d.health.Liveness)
	r.Get(handler.RouteHealth+"/ready", d.health.Readiness)

	r.Get(handler.RouteSitemap, d.seo.Sitemap)
	r.Get(handler.RouteRobots, d.seo.Robots)

	// Uploaded files carry a fresh UUID in their path and never change.
	r.With(middleware.StaticCache(31536000)).Handle(handler.RouteUploads+"/*",
		http.StripPrefix(handler.RouteUploads, http.FileServer(filesOnly{http.Dir(cfg.UploadsDir)})))

	accessLimiter := middleware.NewIPRateLimiter("access_requests", cfg.AccessRequestsPerIP/60, max(1, int(cfg.AccessRequestsPerIP)))
	writeLimiter := middleware.NewIPRateLimiter("api_writes", 10, 20)

	r.Route(handler.RouteAPIPrefix, func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(writeLimiter.Middleware(true))

		// Language runs inside each subrouter so the {lang} prefix is
		// already matched when it resolves the request language.
		language := middleware.Language(d.db, d.cache)

		r.Group(func(r chi.Router) {
			r.Use(language)
			r.Use(middleware.Timeout(30 * time.Second))

			registerPublicRoutes(r, h)

			// Private listings access flow
			r.With(accessLimiter.Middleware(false)).Post(handler.RouteAccessRequests, h.RequestAccess)
			r.With(accessLimiter.Middleware(false)).Post(handler.RouteAccessVerify, h.VerifyAccess)
			r.Get(handler.RouteAccessStatus, h.AccessStatus)
			r.Delete(handler.RouteAccessSession, h.EndAccessSession)

			r.Route(handler.RoutePrivate, func(r chi.Router) {
				r.Use(middleware.PrivateAccess(d.access, !isDev))
				r.Get(handler.RouteProperties, h.PrivateListProperties)
				r.Get(handler.RouteProperties+handler.RouteParamSlug, h.PrivateGetProperty)
			})

			// Admin authentication
			r.With(d.loginProtection.Middleware()).Post(handler.RouteLogin, h.Login)
			r.Post(handler.RouteLogout, h.Logout)
			r.With(middleware.LoadUser(d.sessions, d.db), middleware.RequireUser).Get(handler.RouteMe, h.Me)
			r.With(middleware.LoadUser(d.sessions, d.db), middleware.RequireUser).Put(handler.RoutePassword, h.ChangePassword)
		})

		// Public content below a language prefix, e.g. /api/v1/es/properties.
		r.Route(handler.RouteLangPrefix, func(r chi.Router) {
			r.Use(language)
			r.Use(middleware.Timeout(30 * time.Second))
			registerPublicRoutes(r, h)

			r.Route(handler.RoutePrivate, func(r chi.Router) {
				r.Use(middleware.PrivateAccess(d.access, !isDev))
				r.Get(handler.RouteProperties, h.PrivateListProperties)
				r.Get(handler.RouteProperties+handler.RouteParamSlug, h.PrivateGetProperty)
			})
		})

		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(language)
			r.Use(middleware.LoadUser(d.sessions, d.db))
			r.Use(middleware.RequireRole(model.RoleEditor, d.events))

			// Uploads run without the request timeout, videos may take a while.
			r.Post(handler.RouteUploads, h.Upload)
			r.Post(handler.RouteProperties+handler.RouteParamID+handler.RouteSuffixImages, h.AddPropertyImages)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(30 * time.Second))
				registerEditorRoutes(r, h)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleAdmin, d.events))
				r.Use(middleware.Timeout(30 * time.Second))
				registerAdminRoutes(r, h, cfg.DemoMode)
			})
		})
	})

	return r
}

// registerPublicRoutes registers the read-only content routes.
func registerPublicRoutes(r chi.Router, h *api.Handler) {
	r.Get(handler.RouteProperties, h.PublicListProperties)
	r.Get(handler.RouteProperties+handler.RouteParamSlug, h.PublicGetProperty)
	r.Get(handler.RouteCategories, h.PublicListCategories)
	r.Get(handler.RouteCategories+handler.RouteParamSlug, h.PublicGetCategory)
	r.Get(handler.RouteAgents, h.PublicListAgents)
	r.Get(handler.RouteAgents+handler.RouteParamSlug, h.PublicGetAgent)
	r.Get(handler.RouteTestimonials, h.PublicListTestimonials)
	r.Get(handler.RouteSlides, h.PublicListSlides)
	r.Get(handler.RouteStatistics, h.PublicListStatistics)
	r.Get(handler.RoutePosts, h.PublicListPosts)
	r.Get(handler.RoutePosts+handler.RouteParamSlug, h.PublicGetPost)
	r.Get(handler.RouteSections, h.PublicListSections)
	r.Get(handler.RouteSections+handler.RouteParamKey, h.PublicGetSection)
	r.Get(handler.RouteTranslations, h.PublicUIStrings)
	r.Get(handler.RouteLanguages, h.PublicListLanguages)
}

// registerEditorRoutes registers the content management routes open to
// editors and admins.
func registerEditorRoutes(r chi.Router, h *api.Handler) {
	// Properties and their gallery
	registerCRUD(r, handler.RouteProperties, crudHandlers{
		List: h.ListProperties, Get: h.GetProperty, Create: h.CreateProperty,
		Update: h.UpdateProperty, Delete: h.DeleteProperty, Reorder: h.ReorderProperties,
	})
	propertyID := handler.RouteProperties + handler.RouteParamID
	r.Post(propertyID+handler.RouteSuffixFeatured, h.TogglePropertyFeatured)
	r.Get(propertyID+handler.RouteSuffixImages, h.ListPropertyImages)
	r.Put(propertyID+handler.RouteSuffixImages+handler.RouteSuffixReorder, h.ReorderPropertyImages)
	r.Delete(propertyID+handler.RouteSuffixImages+handler.RouteParamImageID, h.DeletePropertyImage)
	registerFieldTranslations(r, propertyID, model.EntityProperty, h)

	registerCRUD(r, handler.RouteCategories, crudHandlers{
		List: h.ListCategories, Get: h.GetCategory, Create: h.CreateCategory,
		Update: h.UpdateCategory, Delete: h.DeleteCategory, Reorder: h.ReorderCategories,
	})
	registerFieldTranslations(r, handler.RouteCategories+handler.RouteParamID, model.EntityCategory, h)

	registerCRUD(r, handler.RouteAgents, crudHandlers{
		List: h.ListAgents, Get: h.GetAgent, Create: h.CreateAgent,
		Update: h.UpdateAgent, Delete: h.DeleteAgent, Reorder: h.ReorderAgents,
	})
	registerFieldTranslations(r, handler.RouteAgents+handler.RouteParamID, model.EntityAgent, h)

	registerCRUD(r, handler.RouteTestimonials, crudHandlers{
		List: h.ListTestimonials, Get: h.GetTestimonial, Create: h.CreateTestimonial,
		Update: h.UpdateTestimonial, Delete: h.DeleteTestimonial, Reorder: h.ReorderTestimonials,
	})
	registerFieldTranslations(r, handler.RouteTestimonials+handler.RouteParamID, model.EntityTestimonial, h)

	registerCRUD(r, handler.RouteSlides, crudHandlers{
		List: h.ListSlides, Get: h.GetSlide, Create: h.CreateSlide,
		Update: h.UpdateSlide, Delete: h.DeleteSlide, Reorder: h.ReorderSlides,
	})

	registerCRUD(r, handler.RouteStatistics, crudHandlers{
		List: h.ListStatistics, Get: h.GetStatistic, Create: h.CreateStatistic,
		Update: h.UpdateStatistic, Delete: h.DeleteStatistic, Reorder: h.ReorderStatistics,
	})

	registerCRUD(r, handler.RoutePosts, crudHandlers{
		List: h.ListPosts, Get: h.GetPost, Create: h.CreatePost,
		Update: h.UpdatePost, Delete: h.DeletePost,
	})
	registerFieldTranslations(r, handler.RoutePosts+handler.RouteParamID, model.EntityPost, h)

	// Homepage sections are singletons addressed by key.
	r.Get(handler.RouteSections, h.ListSections)
	r.Get(handler.RouteSections+handler.RouteParamKey, h.GetSection)
	r.Put(handler.RouteSections+handler.RouteParamKey, h.UpdateSection)
	registerFieldTranslations(r, handler.RouteSections+handler.RouteParamKey, model.EntitySection, h)

	// UI strings
	r.Get(handler.RouteTranslations+handler.RouteParamLang, h.ListUIStrings)
	r.Put(handler.RouteTranslations+handler.RouteParamLang, h.SetUIStrings)
	r.Delete(handler.RouteTranslations+handler.RouteParamLang+handler.RouteParamKey, h.DeleteUIString)

	// Access requests
	r.Get(handler.RouteAccessRequests, h.ListAccessRequests)
	r.Get(handler.RouteAccessRequests+handler.RouteParamID, h.GetAccessRequest)
	r.Post(handler.RouteAccessRequests+handler.RouteParamID+handler.RouteSuffixRevoke, h.RevokeAccessRequest)
	r.Delete(handler.RouteAccessRequests+handler.RouteParamID, h.DeleteAccessRequest)

	r.Get(handler.RouteEvents, h.ListEvents)
}

// registerAdminRoutes registers user, language and maintenance routes.
// Writes to users and languages are refused on demo sites.
func registerAdminRoutes(r chi.Router, h *api.Handler, demoMode bool) {
	r.Get(handler.RouteUsers, h.ListUsers)
	r.Get(handler.RouteUsers+handler.RouteParamID, h.GetUser)
	r.Get(handler.RouteLanguages, h.ListLanguages)
	r.Get(handler.RouteLanguages+handler.RouteParamID, h.GetLanguage)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BlockInDemoMode(demoMode))

		r.Post(handler.RouteUsers, h.CreateUser)
		r.Put(handler.RouteUsers+handler.RouteParamID, h.UpdateUser)
		r.Delete(handler.RouteUsers+handler.RouteParamID, h.DeleteUser)

		r.Post(handler.RouteLanguages, h.CreateLanguage)
		r.Put(handler.RouteLanguages+handler.RouteParamID, h.UpdateLanguage)
		r.Delete(handler.RouteLanguages+handler.RouteParamID, h.DeleteLanguage)
		r.Post(handler.RouteLanguages+handler.RouteParamID+handler.RouteSuffixDefault, h.SetDefaultLanguage)
	})

	r.Get(handler.RouteCache, h.CacheStats)
	r.Delete(handler.RouteCache, h.ClearCache)
	r.Get(handler.RouteJobs, h.ListJobs)
	r.Post(handler.RouteJobs+"/{name}/run", h.RunJob)
}

// filesOnly hides the directories of the uploads tree.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
