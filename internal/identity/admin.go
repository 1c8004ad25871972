// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// AdminChecker answers administrator membership. *store.Queries satisfies it.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AdminState is a snapshot of an AdminContext.
type AdminState struct {
	Identity *Identity
	IsAdmin  bool
	Loading  bool
}

// AdminContext extends a SessionContext with administrator membership,
// re-checked whenever the identity changes.
type AdminContext struct {
	session *SessionContext
	checker AdminChecker

	mu       sync.Mutex
	ctx      context.Context
	state    AdminState
	gen      uint64
	cancel   func()
	disposed bool
}

// NewAdminContext wraps sc. The caller still owns sc and disposes it.
func NewAdminContext(sc *SessionContext, checker AdminChecker) *AdminContext {
	return &AdminContext{
		session: sc,
		checker: checker,
		state:   AdminState{Loading: true},
	}
}

// Initialize settles the session context and resolves membership.
func (ac *AdminContext) Initialize(ctx context.Context) {
	ac.mu.Lock()
	if ac.disposed {
		ac.mu.Unlock()
		return
	}
	ac.ctx = ctx
	if ac.cancel == nil {
		ac.cancel = ac.session.Subscribe(func(st State) { ac.refresh(st) })
	}
	ac.mu.Unlock()

	st := ac.session.State()
	if st.Loading {
		// settling the session notifies refresh through the subscription
		ac.session.Initialize(ctx)
		if !ac.State().Loading {
			return
		}
		st = ac.session.State()
	}
	ac.refresh(st)
}

// State returns the current snapshot.
func (ac *AdminContext) State() AdminState {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.state
}

// Dispose stops following the session context.
func (ac *AdminContext) Dispose() {
	ac.mu.Lock()
	ac.disposed = true
	cancel := ac.cancel
	ac.cancel = nil
	ac.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (ac *AdminContext) refresh(st State) {
	ac.mu.Lock()
	if ac.disposed {
		ac.mu.Unlock()
		return
	}
	ac.gen++
	gen := ac.gen
	ctx := ac.ctx
	if st.Loading {
		ac.state = AdminState{Loading: true}
		ac.mu.Unlock()
		return
	}
	if st.Identity == nil {
		ac.state = AdminState{}
		ac.mu.Unlock()
		return
	}
	ac.state = AdminState{Identity: st.Identity, Loading: true}
	ac.mu.Unlock()

	isAdmin := checkIsAdmin(ctx, ac.checker, st.Identity.ID)

	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.disposed || ac.gen != gen {
		return
	}
	ac.state = AdminState{Identity: st.Identity, IsAdmin: isAdmin}
}

// checkIsAdmin fails closed: any lookup error means not an administrator.
func checkIsAdmin(ctx context.Context, checker AdminChecker, userID int64) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	ok, err := checker.IsAdmin(ctx, userID)
	if err != nil {
		slog.Warn("admin membership check failed", "error", err, "user_id", userID, "category", "auth")
		return false
	}
	return ok
}

// AdminAuth signs administrators in. Accounts that are not administrators are
// signed straight back out.
type AdminAuth struct {
	provider *Provider
	checker  AdminChecker
}

// NewAdminAuth creates an AdminAuth.
func NewAdminAuth(p *Provider, checker AdminChecker) *AdminAuth {
	return &AdminAuth{provider: p, checker: checker}
}

// SignIn returns ErrAdminUnauthorized for bad credentials and for
// non-administrators alike. Other errors are infrastructure failures.
func (a *AdminAuth) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrAdminUnauthorized
		}
		return nil, err
	}

	if !checkIsAdmin(ctx, a.checker, id.ID) {
		if err := a.provider.SignOut(ctx); err != nil {
			slog.Error("forced sign-out failed", "error", err, "user_id", id.ID)
		}
		slog.Warn("admin sign-in rejected for non-admin", "user_id", id.ID, "category", "auth")
		return nil, ErrAdminUnauthorized
	}

	return id, nil
}
