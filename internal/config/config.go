// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from REALTY_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"REALTY_DB_PATH" envDefault:"./data/realty.db"`
	SessionSecret string `env:"REALTY_SESSION_SECRET,required"`
	ServerHost    string `env:"REALTY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"REALTY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"REALTY_ENV" envDefault:"development"`
	LogLevel      string `env:"REALTY_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"REALTY_UPLOADS_DIR" envDefault:"./uploads"`
	SiteURL       string `env:"REALTY_SITE_URL" envDefault:"http://localhost:8080"`
	SiteName      string `env:"REALTY_SITE_NAME" envDefault:"oRealty"`

	// DefaultLanguage is created as the default language on an empty database.
	DefaultLanguage string `env:"REALTY_DEFAULT_LANGUAGE" envDefault:"en"`

	// CORS origins allowed to call the public API, comma separated.
	AllowedOrigins []string `env:"REALTY_ALLOWED_ORIGINS" envSeparator:","`

	// Cache configuration
	RedisURL     string        `env:"REALTY_REDIS_URL"`
	CachePrefix  string        `env:"REALTY_CACHE_PREFIX" envDefault:"realty:"`
	CacheTTL     time.Duration `env:"REALTY_CACHE_TTL" envDefault:"10m"`
	CacheMaxSize int           `env:"REALTY_CACHE_MAX_SIZE" envDefault:"10000"`

	// SMTP delivery of verification codes. With no host, emails are logged instead.
	SMTPHost     string `env:"REALTY_SMTP_HOST"`
	SMTPPort     int    `env:"REALTY_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"REALTY_SMTP_USERNAME"`
	SMTPPassword string `env:"REALTY_SMTP_PASSWORD"`
	SMTPFrom     string `env:"REALTY_SMTP_FROM" envDefault:"no-reply@localhost"`

	// Private listings access flow
	AccessCodeTTL       time.Duration `env:"REALTY_ACCESS_CODE_TTL" envDefault:"15m"`
	AccessTokenTTL      time.Duration `env:"REALTY_ACCESS_TOKEN_TTL" envDefault:"168h"`
	AccessMaxAttempts   int           `env:"REALTY_ACCESS_MAX_ATTEMPTS" envDefault:"5"`
	AccessRequestsPerIP float64       `env:"REALTY_ACCESS_REQUESTS_PER_MINUTE" envDefault:"3"`

	// Retention of events and expired access requests
	EventRetention  time.Duration `env:"REALTY_EVENT_RETENTION" envDefault:"2160h"`
	AccessRetention time.Duration `env:"REALTY_ACCESS_RETENTION" envDefault:"24h"`

	// GeoIP configuration
	GeoIPDBPath string `env:"REALTY_GEOIP_DB_PATH"`

	// Outbound webhooks for new leads and listing changes, comma separated.
	WebhookURLs   []string `env:"REALTY_WEBHOOK_URLS" envSeparator:","`
	WebhookSecret string   `env:"REALTY_WEBHOOK_SECRET"`

	// Seeding configuration
	DoSeed   bool `env:"REALTY_DO_SEED" envDefault:"false"`
	DemoMode bool `env:"REALTY_DEMO_MODE" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SMTPEnabled returns true if verification emails go through an SMTP server.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// WebhooksEnabled returns true if at least one webhook URL is configured.
func (c Config) WebhooksEnabled() bool {
	return len(c.WebhookURLs) > 0
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("REALTY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("REALTY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("REALTY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	u, err := url.Parse(c.SiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("REALTY_SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL)
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")

	if c.AccessCodeTTL <= 0 || c.AccessTokenTTL <= 0 {
		return fmt.Errorf("REALTY_ACCESS_CODE_TTL and REALTY_ACCESS_TOKEN_TTL must be positive")
	}
	for _, raw := range c.WebhookURLs {
		wu, err := url.Parse(raw)
		if err != nil || (wu.Scheme != "http" && wu.Scheme != "https") || wu.Host == "" {
			return fmt.Errorf("REALTY_WEBHOOK_URLS contains an invalid URL %q", raw)
		}
	}
	if c.WebhooksEnabled() && c.WebhookSecret == "" {
		return fmt.Errorf("REALTY_WEBHOOK_SECRET is required when REALTY_WEBHOOK_URLS is set")
	}

	if c.AccessMaxAttempts < 1 {
		return fmt.Errorf("REALTY_ACCESS_MAX_ATTEMPTS must be at least 1, got %d", c.AccessMaxAttempts)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
