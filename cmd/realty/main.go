// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/cache"
	"github.com/olegiv/orealty/internal/config"
	"github.com/olegiv/orealty/internal/demo"
	"github.com/olegiv/orealty/internal/geoip"
	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/handler/api"
	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/logging"
	"github.com/olegiv/orealty/internal/mail"
	"github.com/olegiv/orealty/internal/middleware"
	"github.com/olegiv/orealty/internal/scheduler"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/session"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/version"
	"github.com/olegiv/orealty/internal/webhook"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oRealty - real estate site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_SESSION_SECRET  Session and access code key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_DB_PATH         SQLite database path (default: ./data/realty.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_SITE_URL        Public site URL used in sitemaps and emails\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_SMTP_HOST       SMTP server for verification codes (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REALTY_REDIS_URL       Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("realty %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	if cfg.DemoMode {
		if _, err := demo.NewResetter(cfg.DBPath, cfg.UploadsDir, logger).ResetIfDue(); err != nil {
			return fmt.Errorf("resetting demo data: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records are mirrored into the event log from here on.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedOptions{
		CreateAdmin:     cfg.DoSeed,
		DefaultLanguage: cfg.DefaultLanguage,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if cfg.DemoMode {
		if err := store.SeedDemo(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	sessionManager := session.New(db, session.Options{
		IsDev:           cfg.IsDevelopment(),
		CleanupInterval: 30 * time.Minute,
	})

	cacheManager := cache.NewManager(cache.NewCache(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	}, logger), cfg.CacheTTL, logger)
	defer func() { _ = cacheManager.Close() }()
	slog.Info(handler.LogCacheManagerInit, "redis", cfg.UseRedisCache(), "ttl", cfg.CacheTTL)

	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip database unavailable, countries will not be recorded", "path", cfg.GeoIPDBPath, "error", err)
		}
	}
	defer func() { _ = geo.Close() }()

	var mailer mail.Mailer = mail.NewLogMailer(logger)
	if cfg.SMTPEnabled() {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
		slog.Info("smtp mailer configured", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		slog.Warn("REALTY_SMTP_HOST not set, verification codes are written to the log")
	}

	// Leads go straight to the dispatcher, listing changes are debounced.
	var leadNotifier, listingNotifier webhook.Notifier = webhook.Nop{}, webhook.Nop{}
	if cfg.WebhooksEnabled() {
		dispatcher := webhook.NewDispatcher(webhook.Config{
			URLs:   cfg.WebhookURLs,
			Secret: cfg.WebhookSecret,
		}, logger)
		dispatcher.Start(ctx)
		defer dispatcher.Stop()

		debouncer := webhook.NewDebouncer(dispatcher, webhook.DefaultDebounceConfig())
		defer debouncer.Stop()

		leadNotifier, listingNotifier = dispatcher, debouncer
		slog.Info("webhook dispatcher started", "urls", len(cfg.WebhookURLs))
	}

	eventService := service.NewEventService(db, logger)
	accessService := service.NewAccessService(db, auth.NewCodeHasher([]byte(cfg.SessionSecret)), mailer, geo,
		leadNotifier, eventService, service.AccessConfig{
			CodeTTL:     cfg.AccessCodeTTL,
			TokenTTL:    cfg.AccessTokenTTL,
			MaxAttempts: cfg.AccessMaxAttempts,
			Retention:   cfg.AccessRetention,
			SiteName:    cfg.SiteName,
		}, logger)

	if err := os.MkdirAll(cfg.UploadsDir, 0o750); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	uploadService := service.NewUploadService(cfg.UploadsDir, handler.RouteUploads, logger)

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.EventPurgeJob(eventService, cfg.EventRetention, logger),
		scheduler.AccessCleanupJob(accessService, logger),
	}
	if geo.IsEnabled() {
		jobs = append(jobs, scheduler.GeoIPReloadJob(geo))
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("registering job %s: %w", job.Name, err)
		}
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	apiHandler := api.NewHandler(api.Deps{
		DB:              db,
		Sessions:        sessionManager,
		Cache:           cacheManager,
		Events:          eventService,
		Access:          accessService,
		Uploads:         uploadService,
		Translations:    service.NewTranslationService(db),
		Notifier:        listingNotifier,
		LoginProtection: loginProtection,
		Jobs:            sched,
		Logger:          logger,
	}, api.Config{
		SiteURL:         cfg.SiteURL,
		SiteName:        cfg.SiteName,
		DefaultLanguage: cfg.DefaultLanguage,
		SecureCookies:   !cfg.IsDevelopment(),
	})

	r := newRouter(routerDeps{
		cfg:             cfg,
		db:              db,
		sessions:        sessionManager,
		cache:           cacheManager,
		events:          eventService,
		access:          accessService,
		loginProtection: loginProtection,
		api:             apiHandler,
		health:          handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir),
		seo:             handler.NewSEOHandler(store.New(db), cacheManager, logger, cfg.SiteURL, cfg.DefaultLanguage, cfg.DemoMode),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second, // video uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
