// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Default schedules of the maintenance jobs.
const (
	ScheduleEventPurge    = "30 3 * * *"
	ScheduleAccessCleanup = "*/15 * * * *"
	ScheduleGeoIPReload   = "0 4 * * 1"
)

// EventPurger deletes old event log entries.
type EventPurger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AccessCleaner expires and purges access requests.
type AccessCleaner interface {
	Cleanup(ctx context.Context) (expired, purged int64, err error)
}

// Reloader reopens a file-backed resource.
type Reloader interface {
	Reload() error
}

// EventPurgeJob removes events older than retention.
func EventPurgeJob(events EventPurger, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        "purge-events",
		Description: "Delete event log entries past the retention period",
		Schedule:    ScheduleEventPurge,
		Run: func(ctx context.Context) error {
			n, err := events.Purge(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged old events", "count", n, "retention", retention)
			}
			return nil
		},
	}
}

// AccessCleanupJob expires stale codes and deletes finished access requests.
func AccessCleanupJob(access AccessCleaner, logger *slog.Logger) Job {
	return Job{
		Name:        "cleanup-access-requests",
		Description: "Expire stale verification codes and purge old access requests",
		Schedule:    ScheduleAccessCleanup,
		Run: func(ctx context.Context) error {
			expired, purged, err := access.Cleanup(ctx)
			if err != nil {
				return err
			}
			if expired > 0 || purged > 0 {
				logger.Info("cleaned up access requests", "expired", expired, "purged", purged)
			}
			return nil
		},
	}
}

// GeoIPReloadJob picks up a replaced GeoIP database file.
func GeoIPReloadJob(geo Reloader) Job {
	return Job{
		Name:        "reload-geoip",
		Description: "Reopen the GeoIP database when the file changed",
		Schedule:    ScheduleGeoIPReload,
		Run: func(context.Context) error {
			return geo.Reload()
		},
	}
}
