// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
)

// ErrSeedCredentials is returned when seeding is requested without an
// administrator email and password.
var ErrSeedCredentials = errors.New("admin seed email and password are required")

// SeedAdmin ensures an account with the given credentials exists and belongs
// to the administrator set. An existing account keeps its password.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return ErrSeedCredentials
	}

	queries := New(db)
	now := time.Now().UTC()

	user, err := queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		slog.Info("admin account already exists, skipping creation", "email", email)
	case errors.Is(err, sql.ErrNoRows):
		passwordHash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		user, err = queries.CreateUser(ctx, CreateUserParams{
			Email:        email,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("creating admin account: %w", err)
		}
		slog.Info("created admin account", "id", user.ID, "email", user.Email)
	default:
		return fmt.Errorf("checking for admin account: %w", err)
	}

	if err := queries.AddAdmin(ctx, user.ID, now); err != nil {
		return fmt.Errorf("granting admin role: %w", err)
	}
	return nil
}
