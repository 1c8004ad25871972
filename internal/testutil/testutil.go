// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/session"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary file database with migrations applied. It is
// closed and removed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "site-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MemDB opens an in-memory database on a single connection and migrates it.
func MemDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening memory db: %v", err)
	}
	// every connection would get its own empty database
	db.SetMaxOpenConns(1)

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Sessions returns a development-mode session manager over db.
func Sessions(db *sql.DB) *scs.SessionManager {
	return session.New(db, true)
}

// SessionContext returns a context carrying a fresh, empty session.
func SessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

// CreateUser inserts an account with the given password.
func CreateUser(t *testing.T, db *sql.DB, email, password string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// MakeAdmin adds userID to the administrator set.
func MakeAdmin(t *testing.T, db *sql.DB, userID int64) {
	t.Helper()
	if err := store.New(db).AddAdmin(context.Background(), userID, time.Now().UTC()); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
}

// GrantAccess marks userID as paid.
func GrantAccess(t *testing.T, db *sql.DB, userID int64) {
	t.Helper()
	now := time.Now().UTC()
	if _, err := store.New(db).GrantPaidAccess(context.Background(), store.GrantPaidAccessParams{
		UserID:      userID,
		PaymentDate: now,
		Now:         now,
	}); err != nil {
		t.Fatalf("GrantPaidAccess: %v", err)
	}
}
