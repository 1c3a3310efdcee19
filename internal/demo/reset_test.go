// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package demo

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/orealty/internal/testutil"
)

// demoFixture lays out a database file and one upload under a temp dir.
func demoFixture(t *testing.T) *Resetter {
	t.Helper()
	dir := t.TempDir()
	r := NewResetter(filepath.Join(dir, "realty.db"), filepath.Join(dir, "uploads"), testutil.TestLoggerSilent())

	require.NoError(t, os.WriteFile(r.DBPath, []byte("db"), 0o600))
	require.NoError(t, os.WriteFile(r.DBPath+"-wal", []byte("wal"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(r.UploadsDir, "images", "abc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(r.UploadsDir, "images", "abc", "large.jpg"), []byte("img"), 0o600))
	return r
}

func writeStamp(t *testing.T, r *Resetter, at time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(r.stampPath(), []byte(strconv.FormatInt(at.Unix(), 10)), 0o600))
}

func TestResetIfDue_NoStamp(t *testing.T) {
	r := demoFixture(t)

	reset, err := r.ResetIfDue()
	require.NoError(t, err)
	assert.True(t, reset)

	assert.NoFileExists(t, r.DBPath)
	assert.NoFileExists(t, r.DBPath+"-wal")
	assert.DirExists(t, r.UploadsDir)
	entries, err := os.ReadDir(r.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.FileExists(t, r.stampPath())
}

func TestResetIfDue_Fresh(t *testing.T) {
	r := demoFixture(t)
	writeStamp(t, r, time.Now().Add(-time.Hour))

	reset, err := r.ResetIfDue()
	require.NoError(t, err)
	assert.False(t, reset)
	assert.FileExists(t, r.DBPath)
}

func TestResetIfDue_Stale(t *testing.T) {
	r := demoFixture(t)
	writeStamp(t, r, time.Now().Add(-25*time.Hour))

	reset, err := r.ResetIfDue()
	require.NoError(t, err)
	assert.True(t, reset)
	assert.NoFileExists(t, r.DBPath)
}

func TestDue_CorruptStamp(t *testing.T) {
	r := demoFixture(t)
	require.NoError(t, os.WriteFile(r.stampPath(), []byte("yesterday"), 0o600))

	due, _, err := r.Due()
	require.NoError(t, err)
	assert.True(t, due)
}

func TestDue_CustomInterval(t *testing.T) {
	r := demoFixture(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	r.Interval = time.Hour
	writeStamp(t, r, now.Add(-30*time.Minute))

	due, last, err := r.Due()
	require.NoError(t, err)
	assert.False(t, due)
	assert.Equal(t, now.Add(-30*time.Minute).Unix(), last.Unix())

	r.now = func() time.Time { return now.Add(time.Hour) }
	due, _, err = r.Due()
	require.NoError(t, err)
	assert.True(t, due)
}

func TestReset_MissingUploadsDir(t *testing.T) {
	dir := t.TempDir()
	r := NewResetter(filepath.Join(dir, "realty.db"), filepath.Join(dir, "nope"), testutil.TestLoggerSilent())
	assert.NoError(t, r.Reset())
	assert.FileExists(t, r.stampPath())
}
