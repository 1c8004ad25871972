// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/session"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// MinPasswordLength is enforced on sign-up.
const MinPasswordLength = 6

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=256"`
}

// Provider authenticates accounts and keeps the signed-in user id in the
// session. Every method that touches the session needs a context that went
// through the session manager's LoadAndSave.
type Provider struct {
	queries  *store.Queries
	sessions *scs.SessionManager
	now      func() time.Time

	mu        sync.RWMutex
	listeners map[uint64]func(Event)
	nextID    uint64
}

// NewProvider creates a Provider over db and sm.
func NewProvider(db *sql.DB, sm *scs.SessionManager) *Provider {
	return &Provider{
		queries:   store.New(db),
		sessions:  sm,
		now:       time.Now,
		listeners: make(map[uint64]func(Event)),
	}
}

// SignUp registers and signs in a new account.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if err := model.Validate(credentials{Email: email, Password: password}); err != nil {
		return nil, err
	}

	if _, err := p.queries.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := p.now().UTC()
	user, err := p.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return p.establish(ctx, user)
}

// SignIn verifies credentials and binds the account to the session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := p.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			auth.BurnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := p.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    p.now().UTC(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := p.queries.UpdateUserLastSignIn(ctx, store.UpdateUserLastSignInParams{
		LastSignInAt: sql.NullTime{Time: p.now().UTC(), Valid: true},
		ID:           user.ID,
	}); err != nil {
		slog.Error("failed to update last sign-in time", "error", err, "user_id", user.ID)
	}

	return p.establish(ctx, user)
}

// establish renews the session token against fixation and stores the id.
func (p *Provider) establish(ctx context.Context, user store.User) (*Identity, error) {
	if err := p.sessions.RenewToken(ctx); err != nil {
		return nil, fmt.Errorf("renewing session: %w", err)
	}
	p.sessions.Put(ctx, session.KeyUserID, user.ID)

	id := toIdentity(user)
	p.emit(Event{Kind: EventSignedIn, UserID: id.ID, Identity: id, Scope: ScopeFrom(ctx)})
	return id, nil
}

// SignOut ends the session. Signing out an anonymous session is a no-op
// apart from the session reset.
func (p *Provider) SignOut(ctx context.Context) error {
	userID := p.sessions.GetInt64(ctx, session.KeyUserID)
	if err := p.sessions.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	if userID > 0 {
		p.emit(Event{Kind: EventSignedOut, UserID: userID, Scope: ScopeFrom(ctx)})
	}
	return nil
}

// Current returns the signed-in identity, or nil for an anonymous session.
func (p *Provider) Current(ctx context.Context) (*Identity, error) {
	userID := p.sessions.GetInt64(ctx, session.KeyUserID)
	if userID == 0 {
		return nil, nil
	}

	user, err := p.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// account vanished; drop the stale binding
			p.sessions.Remove(ctx, session.KeyUserID)
			return nil, nil
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return toIdentity(user), nil
}

// OnChange registers fn for every sign-in and sign-out. fn runs on the
// goroutine that caused the change and must not block.
func (p *Provider) OnChange(fn func(Event)) Subscription {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners[id] = fn
	p.mu.Unlock()

	return newSubscription(func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	})
}

func (p *Provider) emit(ev Event) {
	p.mu.RLock()
	fns := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func toIdentity(u store.User) *Identity {
	md := map[string]any{}
	if u.Metadata != "" {
		if err := json.Unmarshal([]byte(u.Metadata), &md); err != nil {
			md = map[string]any{}
		}
	}
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Metadata:  md,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
