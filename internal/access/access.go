// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package access answers whether an identity has paid access.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/cache"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// DefaultTTL is used when NewResolver is given a non-positive ttl.
const DefaultTTL = 30 * time.Second

// Store is the subset of store.Queries the resolver reads and writes.
type Store interface {
	CheckUserAccess(ctx context.Context, userID int64) (bool, error)
	GetUserAccess(ctx context.Context, userID int64) (store.UserAccess, error)
	GrantPaidAccess(ctx context.Context, arg store.GrantPaidAccessParams) (bool, error)
}

// ChangeSource delivers identity change events. *identity.Provider
// satisfies it.
type ChangeSource interface {
	OnChange(fn func(identity.Event)) identity.Subscription
}

// Resolver looks up the access flag, caching successful answers briefly.
type Resolver struct {
	store  Store
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver. A nil cache disables caching.
func NewResolver(s Store, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  s,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func cacheKey(userID int64) string {
	return "access:" + strconv.FormatInt(userID, 10)
}

// CheckAccess reports whether id has paid access. It never fails: a nil
// identity, a missing access record and a lookup error all yield false.
func (r *Resolver) CheckAccess(ctx context.Context, id *identity.Identity) bool {
	if id == nil {
		return false
	}
	ok, err := r.Lookup(ctx, id.ID)
	if err != nil {
		r.logger.Warn("access check failed, denying",
			"error", err, "user_id", id.ID, "category", "access")
		return false
	}
	return ok
}

// Lookup is CheckAccess with the error exposed. Errors are not cached.
func (r *Resolver) Lookup(ctx context.Context, userID int64) (bool, error) {
	key := cacheKey(userID)
	if r.cache != nil {
		v, err := r.cache.Get(ctx, key)
		switch {
		case err == nil && len(v) == 1:
			return v[0] == '1', nil
		case err != nil && !errors.Is(err, cache.ErrCacheMiss):
			r.logger.Debug("access cache read failed", "error", err, "user_id", userID)
		}
	}

	ok, err := r.store.CheckUserAccess(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("checking access for user %d: %w", userID, err)
	}

	if r.cache != nil {
		v := []byte{'0'}
		if ok {
			v[0] = '1'
		}
		if err := r.cache.Set(ctx, key, v, r.ttl); err != nil {
			r.logger.Debug("access cache write failed", "error", err, "user_id", userID)
		}
	}
	return ok, nil
}

// Details returns the access record. found is false when none exists yet.
func (r *Resolver) Details(ctx context.Context, userID int64) (rec store.UserAccess, found bool, err error) {
	rec, err = r.store.GetUserAccess(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.UserAccess{UserID: userID}, false, nil
	}
	if err != nil {
		return store.UserAccess{}, false, fmt.Errorf("loading access record for user %d: %w", userID, err)
	}
	return rec, true, nil
}

// Invalidate drops the cached answer for userID.
func (r *Resolver) Invalidate(ctx context.Context, userID int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(userID)); err != nil {
		r.logger.Warn("access cache invalidation failed",
			"error", err, "user_id", userID, "category", "cache")
	}
}

// Grant flips the access flag to true for userID. It reports false when the
// identity already had access. The cached answer is dropped either way.
func (r *Resolver) Grant(ctx context.Context, userID int64, customerRef string, paidAt time.Time) (bool, error) {
	changed, err := r.store.GrantPaidAccess(ctx, store.GrantPaidAccessParams{
		UserID:           userID,
		PaymentDate:      paidAt.UTC(),
		StripeCustomerID: customerRef,
		Now:              r.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("granting access to user %d: %w", userID, err)
	}
	r.Invalidate(ctx, userID)
	if changed {
		r.logger.Info("paid access granted", "user_id", userID, "category", "access")
	}
	return changed, nil
}

// Watch invalidates the cached answer of every identity that signs in or out.
func (r *Resolver) Watch(src ChangeSource) identity.Subscription {
	return src.OnChange(func(ev identity.Event) {
		if ev.UserID > 0 {
			r.Invalidate(context.Background(), ev.UserID)
		}
	})
}
