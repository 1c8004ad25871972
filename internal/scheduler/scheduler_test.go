// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	f, err := os.CreateTemp("", "site-scheduler-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	path := f.Name()
	_ = f.Close()

	db, err := store.NewDB(path)
	if err != nil {
		_ = os.Remove(path)
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(path)
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(path)
	})
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	logger := quietLogger()

	s := New(nil, logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
	if s.retention != DefaultEventRetention {
		t.Errorf("retention = %v, want %v", s.retention, DefaultEventRetention)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(nil, quietLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("jobs = %d, want 1", got)
	}
	s.Stop()
}

func TestScheduler_PurgeEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{time.Hour, 29 * 24 * time.Hour, 31 * 24 * time.Hour, 90 * 24 * time.Hour} {
		if err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     "warning",
			Category:  "system",
			Message:   "e",
			CreatedAt: now.Add(-age),
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	s := New(db, quietLogger())
	s.now = func() time.Time { return now }

	n, err := s.PurgeEvents(ctx)
	if err != nil {
		t.Fatalf("PurgeEvents: %v", err)
	}
	if n != 2 {
		t.Errorf("purged = %d, want 2", n)
	}

	left, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(left) != 2 {
		t.Errorf("remaining = %d, want 2", len(left))
	}
}
