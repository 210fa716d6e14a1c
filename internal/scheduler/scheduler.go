// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: pruning old
// interaction history and event log entries, and refreshing the GeoIP
// database when the file on disk changes.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/soyle-go/internal/geoip"
	"github.com/olegiv/soyle-go/internal/store"
)

// Scheduler handles periodic maintenance tasks.
type Scheduler struct {
	db            *sql.DB
	cron          *cron.Cron
	logger        *slog.Logger
	geo           *geoip.Lookup
	retentionDays int
}

// New creates a new scheduler instance. retentionDays of zero disables
// the retention job; geo may be nil when GeoIP is not configured.
func New(db *sql.DB, logger *slog.Logger, geo *geoip.Lookup, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		cron:          cron.New(),
		logger:        logger,
		geo:           geo,
		retentionDays: retentionDays,
	}
}

// Start registers and starts the scheduled jobs.
func (s *Scheduler) Start() error {
	if s.retentionDays > 0 {
		// Nightly, off-peak
		if _, err := s.cron.AddFunc("0 3 * * *", func() {
			if err := s.pruneOldRecords(); err != nil {
				s.logger.Error("failed to prune old records", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	if s.geo != nil {
		if _, err := s.cron.AddFunc("30 * * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("failed to reload GeoIP database", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneOldRecords removes interactions and log entries older than the
// retention window.
func (s *Scheduler) pruneOldRecords() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	queries := store.New(s.db)
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	interactions, err := queries.DeleteInteractionsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	logEvents, err := queries.DeleteLogEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if interactions > 0 || logEvents > 0 {
		s.logger.Info("pruned old records",
			"interactions", interactions,
			"log_events", logEvents,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
	return nil
}
