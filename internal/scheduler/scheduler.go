// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// DefaultEventRetention is how long event log rows are kept.
const DefaultEventRetention = 30 * 24 * time.Hour

// EventRetentionSchedule runs the purge daily at 03:15.
const EventRetentionSchedule = "15 3 * * *"

// Scheduler handles background maintenance such as event log retention.
type Scheduler struct {
	db        *sql.DB
	cron      *cron.Cron
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:        db,
		cron:      cron.New(),
		logger:    logger,
		retention: DefaultEventRetention,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(EventRetentionSchedule, func() {
		if _, err := s.PurgeEvents(context.Background()); err != nil {
			s.logger.Error("failed to purge old events", "error", err)
		}
	})
	if err != nil {
		return err
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

// PurgeEvents deletes events older than the retention window.
func (s *Scheduler) PurgeEvents(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention).UTC()
	n, err := store.New(s.db).DeleteOldEvents(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged old events", "count", n, "before", cutoff.Format(time.RFC3339))
	}
	return n, nil
}
