// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, email, password_hash, metadata, created_at, updated_at, last_sign_in_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Metadata,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastSignInAt,
	)
	return u, err
}

const createUser = `
INSERT INTO users (email, password_hash, metadata, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Metadata     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	res, err := q.db.ExecContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.Metadata,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const updateUserLastSignIn = `UPDATE users SET last_sign_in_at = ? WHERE id = ?`

type UpdateUserLastSignInParams struct {
	LastSignInAt sql.NullTime
	ID           int64
}

func (q *Queries) UpdateUserLastSignIn(ctx context.Context, arg UpdateUserLastSignInParams) error {
	_, err := q.db.ExecContext(ctx, updateUserLastSignIn, arg.LastSignInAt, arg.ID)
	return err
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const isAdmin = `SELECT EXISTS (SELECT 1 FROM admin_users WHERE user_id = ?)`

// IsAdmin reports whether the user is present in the administrator set.
func (q *Queries) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, isAdmin, userID).Scan(&exists)
	return exists, err
}

const addAdmin = `INSERT INTO admin_users (user_id, created_at) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`

func (q *Queries) AddAdmin(ctx context.Context, userID int64, createdAt time.Time) error {
	_, err := q.db.ExecContext(ctx, addAdmin, userID, createdAt)
	return err
}
