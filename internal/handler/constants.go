// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteAPIPrefix is the mount point of the JSON API.
	RouteAPIPrefix = "/api/v1"
	// RouteAdmin is the mount point of the admin API below RouteAPIPrefix.
	RouteAdmin = "/admin"
	// RoutePrivate is the mount point of the private listings API.
	RoutePrivate = "/private"
	// RouteUploads serves stored uploads.
	RouteUploads = "/uploads"

	// RouteSuffixReorder is the suffix for reorder routes.
	RouteSuffixReorder = "/reorder"
	// RouteSuffixFeatured is the suffix of the featured toggle.
	RouteSuffixFeatured = "/featured"
	// RouteSuffixDefault is the suffix that makes a language the default.
	RouteSuffixDefault = "/default"
	// RouteSuffixRevoke is the suffix that revokes an access request.
	RouteSuffixRevoke = "/revoke"
	// RouteSuffixImages is the suffix of property gallery routes.
	RouteSuffixImages = "/images"
	// RouteSuffixTranslations is the suffix of field translation routes.
	RouteSuffixTranslations = "/translations/{lang}"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteParamKey is the section key parameter pattern.
	RouteParamKey = "/{key}"
	// RouteParamLang is the language code parameter pattern.
	RouteParamLang = "/{lang}"
	// RouteLangPrefix matches a language code prefix such as /es or /pt-BR.
	RouteLangPrefix = "/{lang:[a-z]{2}(-[A-Za-z]{2,4})?}"
	// RouteParamImageID is the gallery image parameter pattern.
	RouteParamImageID = "/{imageId}"

	// RouteLogin is the login route.
	RouteLogin = "/auth/login"
	// RouteLogout is the logout route.
	RouteLogout = "/auth/logout"
	// RouteMe is the current user route.
	RouteMe = "/auth/me"
	// RoutePassword is the password change route.
	RoutePassword = "/auth/password"

	// RouteProperties is the properties route.
	RouteProperties = "/properties"
	// RouteCategories is the categories route.
	RouteCategories = "/categories"
	// RouteAgents is the agents route.
	RouteAgents = "/agents"
	// RouteTestimonials is the testimonials route.
	RouteTestimonials = "/testimonials"
	// RouteSlides is the slides route.
	RouteSlides = "/slides"
	// RouteStatistics is the statistics route.
	RouteStatistics = "/statistics"
	// RoutePosts is the blog posts route.
	RoutePosts = "/posts"
	// RouteSections is the homepage sections route.
	RouteSections = "/sections"
	// RouteTranslations is the UI strings route.
	RouteTranslations = "/translations"
	// RouteLanguages is the languages route.
	RouteLanguages = "/languages"
	// RouteAccessRequests is the access requests route.
	RouteAccessRequests = "/access-requests"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"
	// RouteCache is the cache admin route.
	RouteCache = "/cache"
	// RouteJobs is the scheduled jobs admin route.
	RouteJobs = "/jobs"

	// RouteAccessVerify verifies an emailed access code.
	RouteAccessVerify = RouteAccessRequests + "/verify"
	// RouteAccessStatus reports the caller's access.
	RouteAccessStatus = RouteAccessRequests + "/status"
	// RouteAccessSession ends the caller's access.
	RouteAccessSession = RouteAccessRequests + "/session"

	// RouteSitemap is the sitemap route.
	RouteSitemap = "/sitemap.xml"
	// RouteRobots is the robots.txt route.
	RouteRobots = "/robots.txt"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
)

// Utility constants used by main.go.
const (
	// LogCacheManagerInit is the log message for cache manager initialization.
	LogCacheManagerInit = "cache manager initialized"
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
)
