// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity owns who the visitor is: the account store and session
// backed Provider, the request-scoped SessionContext built on top of it, and
// the administrator variants of both.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrEmailTaken is returned by SignUp for an address already registered.
	ErrEmailTaken = errors.New("An account with this email already exists")

	// ErrAdminUnauthorized is the only error admin sign-in reveals, whether
	// the password was wrong or the account is not an administrator.
	ErrAdminUnauthorized = errors.New("Unauthorized: invalid email or password")
)

// Identity is an authenticated account.
type Identity struct {
	ID        int64
	Email     string
	CreatedAt time.Time
	Metadata  map[string]any
}

// EventKind distinguishes identity changes.
type EventKind int

const (
	EventSignedIn EventKind = iota + 1
	EventSignedOut
)

func (k EventKind) String() string {
	switch k {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event is delivered to OnChange listeners. Identity is nil on sign-out.
// Scope identifies the request that caused the change.
type Event struct {
	Kind     EventKind
	UserID   int64
	Identity *Identity
	Scope    string
}

// Subscription releases a listener. Unsubscribe is idempotent.
type Subscription struct {
	once   *sync.Once
	cancel func()
}

// Unsubscribe stops further deliveries.
func (s Subscription) Unsubscribe() {
	if s.once == nil {
		return
	}
	s.once.Do(s.cancel)
}

func newSubscription(cancel func()) Subscription {
	return Subscription{once: &sync.Once{}, cancel: cancel}
}

type scopeKey struct{}

// NewScope returns a fresh request scope id.
func NewScope() string {
	return uuid.NewString()
}

// WithScope tags ctx with a request scope.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope placed by WithScope, or "".
func ScopeFrom(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(string)
	return s
}
