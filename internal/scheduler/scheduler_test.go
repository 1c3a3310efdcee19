// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/olegiv/orealty/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"* * * * *", false},
		{"30 3 * * *", false},
		{"@daily", false},
		{"*/15 * * * *", false},
		{"not a schedule", true},
		{"* * * *", true},
		{"0 0 0 * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateSchedule(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduler_AddAndList(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add(Job{Name: "b", Schedule: "@hourly", Run: noop}))
	require.NoError(t, s.Add(Job{Name: "a", Schedule: "@daily", Run: noop}))
	require.NoError(t, s.Add(Job{Name: "off", Run: noop}))

	assert.Error(t, s.Add(Job{Name: "a", Schedule: "@daily", Run: noop}))
	assert.Error(t, s.Add(Job{Name: "bad", Schedule: "nope", Run: noop}))
	assert.Error(t, s.Add(Job{Schedule: "@daily", Run: noop}))

	s.Start()
	defer s.Stop(context.Background())

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "b", jobs[1].Name)
	assert.False(t, jobs[0].NextRun.IsZero())
}

func TestScheduler_TriggerNow(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	var runs atomic.Int32
	boom := errors.New("boom")

	require.NoError(t, s.Add(Job{Name: "count", Schedule: "@yearly", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}}))
	require.NoError(t, s.Add(Job{Name: "fail", Schedule: "@yearly", Run: func(context.Context) error {
		return boom
	}}))
	require.NoError(t, s.Add(Job{Name: "panic", Schedule: "@yearly", Run: func(context.Context) error {
		panic("bad job")
	}}))

	require.NoError(t, s.TriggerNow(context.Background(), "count"))
	assert.Equal(t, int32(1), runs.Load())

	assert.ErrorIs(t, s.TriggerNow(context.Background(), "fail"), boom)
	assert.Error(t, s.TriggerNow(context.Background(), "panic"))
	assert.ErrorIs(t, s.TriggerNow(context.Background(), "missing"), ErrJobNotFound)

	for _, j := range s.List() {
		switch j.Name {
		case "count":
			assert.False(t, j.LastRun.IsZero())
			assert.Empty(t, j.LastError)
		case "fail":
			assert.Equal(t, "boom", j.LastError)
		}
	}
}

type fakePurger struct{ olderThan time.Duration }

func (f *fakePurger) Purge(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return 3, nil
}

type fakeCleaner struct{ calls int }

func (f *fakeCleaner) Cleanup(context.Context) (int64, int64, error) {
	f.calls++
	return 1, 2, nil
}

type fakeReloader struct{ err error }

func (f fakeReloader) Reload() error { return f.err }

func TestMaintenanceJobs(t *testing.T) {
	logger := testutil.TestLoggerSilent()
	ctx := context.Background()

	purger := &fakePurger{}
	job := EventPurgeJob(purger, 90*24*time.Hour, logger)
	require.NoError(t, ValidateSchedule(job.Schedule))
	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 90*24*time.Hour, purger.olderThan)

	cleaner := &fakeCleaner{}
	job = AccessCleanupJob(cleaner, logger)
	require.NoError(t, ValidateSchedule(job.Schedule))
	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 1, cleaner.calls)

	reloadErr := errors.New("missing file")
	job = GeoIPReloadJob(fakeReloader{err: reloadErr})
	require.NoError(t, ValidateSchedule(job.Schedule))
	assert.ErrorIs(t, job.Run(ctx), reloadErr)
}
