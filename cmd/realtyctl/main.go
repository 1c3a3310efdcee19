// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command realtyctl runs maintenance tasks against the oRealty database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/orealty/internal/auth"
	"github.com/olegiv/orealty/internal/mail"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
	"github.com/olegiv/orealty/internal/transfer"
	"github.com/olegiv/orealty/internal/version"
)

// minPasswordLength matches the admin API rule for user passwords.
const minPasswordLength = 12

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the persistent flags shared by every command.
type cli struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "realtyctl",
		Short:        "Maintenance tasks for an oRealty database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db", envOr("REALTY_DB_PATH", "./data/realty.db"), "SQLite database path")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.createAdminCmd(),
		c.purgeCmd(),
		c.exportCmd(),
		c.importCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// open opens and migrates the database.
func (c *cli) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(c.dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(c.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			v, err := store.MigrationVersion(db)
			if err != nil {
				return fmt.Errorf("reading migration version: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database %s at migration %d\n", c.dbPath, v)
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var (
		demo     bool
		language string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default language, homepage sections and admin user",
		Long: `Seed creates the default language, the homepage sections and, on an empty
database, the default admin user. With --demo it also loads sample listings,
agents, posts and homepage content. Running it again is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.SetDefault(c.logger(cmd.ErrOrStderr()))
			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			if err := store.Seed(ctx, db, store.SeedOptions{CreateAdmin: true, DefaultLanguage: language}); err != nil {
				return fmt.Errorf("seeding database: %w", err)
			}
			if demo {
				if err := store.SeedDemo(ctx, db); err != nil {
					return fmt.Errorf("seeding demo content: %w", err)
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Load demo content")
	cmd.Flags().StringVar(&language, "language", envOr("REALTY_DEFAULT_LANGUAGE", "en"), "Default language code")
	return cmd
}

func (c *cli) createAdminCmd() *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user or reset the password of an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("REALTY_ADMIN_PASSWORD")
			}
			if len(password) < minPasswordLength {
				return fmt.Errorf("password must be at least %d characters (use --password or REALTY_ADMIN_PASSWORD)", minPasswordLength)
			}
			email = service.NormalizeEmail(email)
			if email == "" {
				return errors.New("--email is required")
			}

			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			created, err := upsertAdmin(cmd.Context(), store.New(db), email, name, password)
			if err != nil {
				return err
			}
			if created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", email)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "password of %s reset\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password (defaults to REALTY_ADMIN_PASSWORD)")
	return cmd
}

// upsertAdmin creates an admin user, or resets the password of the user
// with that email. It reports whether a user was created.
func upsertAdmin(ctx context.Context, q *store.Queries, email, name, password string) (bool, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	now := time.Now().UTC()

	existing, err := q.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    now,
			ID:           existing.ID,
		}); err != nil {
			return false, fmt.Errorf("updating password: %w", err)
		}
		return false, nil
	case errors.Is(err, sql.ErrNoRows):
		if _, err := q.CreateUser(ctx, store.CreateUserParams{
			Email:        email,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Name:         name,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return false, fmt.Errorf("creating user: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("looking up user: %w", err)
	}
}

func (c *cli) purgeCmd() *cobra.Command {
	var eventRetention, accessRetention time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete old events and expired access requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := c.logger(cmd.ErrOrStderr())
			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			events, err := service.NewEventService(db, logger).Purge(ctx, eventRetention)
			if err != nil {
				return fmt.Errorf("purging events: %w", err)
			}

			access := service.NewAccessService(db, nil, mail.NewLogMailer(logger), nil, nil, nil,
				service.AccessConfig{Retention: accessRetention}, logger)
			expired, purged, err := access.Cleanup(ctx)
			if err != nil {
				return fmt.Errorf("cleaning access requests: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "events deleted: %d\naccess requests expired: %d, deleted: %d\n", events, expired, purged)
			return nil
		},
	}
	cmd.Flags().DurationVar(&eventRetention, "events-older-than", 2160*time.Hour, "Event retention")
	cmd.Flags().DurationVar(&accessRetention, "access-older-than", 24*time.Hour, "Retention of expired access requests")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		output     string
		publicOnly bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the listings catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			opts := transfer.DefaultExportOptions()
			opts.IncludePrivate = !publicOnly
			opts.SiteName = os.Getenv("REALTY_SITE_NAME")
			opts.SiteURL = os.Getenv("REALTY_SITE_URL")

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			exporter := transfer.NewExporter(store.New(db), c.logger(cmd.ErrOrStderr()))
			return exporter.ExportToWriter(cmd.Context(), w, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().BoolVar(&publicOnly, "public-only", false, "Leave out private listings")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var overwrite, dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a listings catalog written by export",
		Long: `Import matches categories, agents and properties by slug. Existing records
are skipped unless --overwrite is given. Missing languages are created, the
default language is never changed. The import runs in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			db, err := c.open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			importer := transfer.NewImporter(db, c.logger(cmd.ErrOrStderr()))
			result, err := importer.ImportFromReader(cmd.Context(), f, transfer.ImportOptions{
				Overwrite: overwrite,
				DryRun:    dryRun,
			})
			out := cmd.OutOrStdout()
			if result != nil {
				for _, e := range result.Errors {
					_, _ = fmt.Fprintf(out, "error: %s\n", e.Error())
				}
			}
			if err != nil {
				return err
			}
			prefix := ""
			if dryRun {
				prefix = "dry run: "
			}
			_, _ = fmt.Fprintf(out, "%screated: %d, updated: %d, skipped: %d\n", prefix,
				result.TotalCreated(), result.TotalUpdated(), result.TotalSkipped())
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Update records that already exist")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and count without writing")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "realtyctl %s\n", version.Get())
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
