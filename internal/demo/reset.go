// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo restores a public demo site to a clean state.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// stampFile records the last reset next to the database.
const stampFile = ".last_demo_reset"

// DefaultInterval is how long demo data lives before the next reset.
const DefaultInterval = 24 * time.Hour

// Resetter wipes the listings database and uploads of a demo site. The
// caller reopens, migrates and seeds the database afterwards.
type Resetter struct {
	DBPath     string
	UploadsDir string
	Interval   time.Duration
	Logger     *slog.Logger

	now func() time.Time
}

// NewResetter creates a Resetter with the default interval.
func NewResetter(dbPath, uploadsDir string, logger *slog.Logger) *Resetter {
	return &Resetter{
		DBPath:     dbPath,
		UploadsDir: uploadsDir,
		Interval:   DefaultInterval,
		Logger:     logger,
		now:        time.Now,
	}
}

// Due reports whether the last reset is older than the interval. A missing
// or unreadable stamp counts as due.
func (r *Resetter) Due() (bool, time.Time, error) {
	data, err := os.ReadFile(r.stampPath())
	if err != nil {
		if os.IsNotExist(err) {
			return true, time.Time{}, nil
		}
		return false, time.Time{}, fmt.Errorf("reading reset stamp: %w", err)
	}
	sec, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return true, time.Time{}, nil
	}
	last := time.Unix(sec, 0)
	return r.now().Sub(last) >= r.Interval, last, nil
}

// ResetIfDue resets when Due says so and reports whether it did.
func (r *Resetter) ResetIfDue() (bool, error) {
	due, last, err := r.Due()
	if err != nil {
		return false, err
	}
	if !due {
		r.Logger.Info("demo reset not needed",
			"last_reset", last.UTC().Format(time.RFC3339),
			"next_reset", last.Add(r.Interval).UTC().Format(time.RFC3339))
		return false, nil
	}
	return true, r.Reset()
}

// Reset deletes the database files, empties the uploads directory and
// writes a fresh stamp.
func (r *Resetter) Reset() error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(r.DBPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", r.DBPath+suffix, err)
		}
	}
	if err := emptyDir(r.UploadsDir); err != nil {
		return fmt.Errorf("clearing uploads: %w", err)
	}

	stamp := []byte(strconv.FormatInt(r.now().UTC().Unix(), 10))
	if err := os.MkdirAll(filepath.Dir(r.stampPath()), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(r.stampPath(), stamp, 0o600); err != nil {
		return fmt.Errorf("writing reset stamp: %w", err)
	}

	r.Logger.Info("demo data reset", "db", r.DBPath, "uploads", r.UploadsDir)
	return nil
}

func (r *Resetter) stampPath() string {
	return filepath.Join(filepath.Dir(r.DBPath), stampFile)
}

// emptyDir removes everything inside dir and keeps dir itself.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
