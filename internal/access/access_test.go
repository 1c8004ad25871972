// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/cache"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
	"github.com/ybeyene15/SiteSolveTrade/internal/testutil"
)

type countingStore struct {
	Store
	calls int
	err   error
}

func (s *countingStore) CheckUserAccess(ctx context.Context, userID int64) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.Store.CheckUserAccess(ctx, userID)
}

func newMemCache() *cache.MemoryCache {
	return cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
}

func TestCheckAccess_NoRecordDenies(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	r := NewResolver(store.New(db), nil, 0, testutil.DiscardLogger())

	if r.CheckAccess(context.Background(), &identity.Identity{ID: u.ID}) {
		t.Error("CheckAccess() = true without an access record, want false")
	}
	if r.CheckAccess(context.Background(), nil) {
		t.Error("CheckAccess(nil) = true, want false")
	}
}

func TestCheckAccess_Paid(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	testutil.GrantAccess(t, db, u.ID)
	r := NewResolver(store.New(db), nil, 0, testutil.DiscardLogger())

	if !r.CheckAccess(context.Background(), &identity.Identity{ID: u.ID}) {
		t.Error("CheckAccess() = false for a paid user, want true")
	}
}

func TestCheckAccess_ErrorFailsClosed(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	testutil.GrantAccess(t, db, u.ID)

	s := &countingStore{Store: store.New(db), err: errors.New("connection reset")}
	c := newMemCache()
	defer func() { _ = c.Close() }()
	r := NewResolver(s, c, time.Minute, testutil.DiscardLogger())
	id := &identity.Identity{ID: u.ID}

	if r.CheckAccess(context.Background(), id) {
		t.Error("CheckAccess() = true on a store error, want false")
	}

	// the error must not have been cached
	s.err = nil
	if !r.CheckAccess(context.Background(), id) {
		t.Error("CheckAccess() = false after recovery, want true")
	}
	if s.calls != 2 {
		t.Errorf("store calls = %d, want 2", s.calls)
	}
}

func TestLookup_CachesAnswers(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	s := &countingStore{Store: store.New(db)}
	c := newMemCache()
	defer func() { _ = c.Close() }()
	r := NewResolver(s, c, time.Minute, testutil.DiscardLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := r.Lookup(ctx, u.ID)
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if ok {
			t.Error("Lookup() = true, want false")
		}
	}
	if s.calls != 1 {
		t.Errorf("store calls = %d, want 1", s.calls)
	}

	r.Invalidate(ctx, u.ID)
	if _, err := r.Lookup(ctx, u.ID); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if s.calls != 2 {
		t.Errorf("store calls after Invalidate = %d, want 2", s.calls)
	}
}

func TestGrant(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	c := newMemCache()
	defer func() { _ = c.Close() }()
	r := NewResolver(store.New(db), c, time.Minute, testutil.DiscardLogger())
	ctx := context.Background()
	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := &identity.Identity{ID: u.ID}

	// prime the cache with a denial
	if r.CheckAccess(ctx, id) {
		t.Fatal("CheckAccess() = true before grant")
	}

	changed, err := r.Grant(ctx, u.ID, "cus_123", paidAt)
	if err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if !changed {
		t.Error("Grant() changed = false, want true")
	}
	if !r.CheckAccess(ctx, id) {
		t.Error("grant must invalidate a cached denial")
	}

	changed, err = r.Grant(ctx, u.ID, "cus_other", paidAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if changed {
		t.Error("second Grant() changed = true, want false")
	}

	rec, found, err := r.Details(ctx, u.ID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if !found {
		t.Fatal("Details() found = false, want true")
	}
	if !rec.HasPaidAccess {
		t.Error("HasPaidAccess = false, want true")
	}
	if rec.StripeCustomerID != "cus_123" {
		t.Errorf("StripeCustomerID = %q, want %q", rec.StripeCustomerID, "cus_123")
	}
	if !rec.PaymentDate.Valid || !rec.PaymentDate.Time.Equal(paidAt) {
		t.Errorf("PaymentDate = %v, want %v", rec.PaymentDate, paidAt)
	}
}

func TestDetails_Missing(t *testing.T) {
	db := testutil.MemDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")
	r := NewResolver(store.New(db), nil, 0, testutil.DiscardLogger())

	rec, found, err := r.Details(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if found {
		t.Error("Details() found = true, want false")
	}
	if rec.UserID != u.ID {
		t.Errorf("UserID = %d, want %d", rec.UserID, u.ID)
	}
	if rec.HasPaidAccess {
		t.Error("HasPaidAccess = true, want false")
	}
}

func TestWatch_InvalidatesOnIdentityChange(t *testing.T) {
	db := testutil.MemDB(t)
	sm := testutil.Sessions(db)
	p := identity.NewProvider(db, sm)
	u := testutil.CreateUser(t, db, "a@example.com", "secret1")

	s := &countingStore{Store: store.New(db)}
	c := newMemCache()
	defer func() { _ = c.Close() }()
	r := NewResolver(s, c, time.Minute, testutil.DiscardLogger())
	sub := r.Watch(p)
	defer sub.Unsubscribe()

	ctx := testutil.SessionContext(t, sm)
	id := &identity.Identity{ID: u.ID}
	if r.CheckAccess(ctx, id) {
		t.Fatal("CheckAccess() = true before payment")
	}

	// paid out of band, then the user signs in again
	testutil.GrantAccess(t, db, u.ID)
	if _, err := p.SignIn(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if !r.CheckAccess(ctx, id) {
		t.Error("CheckAccess() = false after sign-in, want true")
	}
	if s.calls != 2 {
		t.Errorf("store calls = %d, want 2", s.calls)
	}
}
