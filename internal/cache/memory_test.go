// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, MaxSize: maxSize})
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 100)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("Get = %q, want %q", val, "value1")
	}

	has, err := cache.Has(ctx, "key1")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Error("expected key1 to exist")
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); err != ErrCacheMiss {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := newTestMemoryCache(time.Minute, 0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "k", []byte("v"), 10*time.Second); err != nil {
		t.Fatal(err)
	}

	now = now.Add(9 * time.Second)
	if _, err := cache.Get(ctx, "k"); err != nil {
		t.Errorf("Get before expiry = %v, want nil", err)
	}

	now = now.Add(time.Second)
	if _, err := cache.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get at expiry = %v, want ErrCacheMiss", err)
	}
	if has, _ := cache.Has(ctx, "k"); has {
		t.Error("Has after expiry = true")
	}
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	cache := newTestMemoryCache(5*time.Second, 0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }
	_ = cache.Set(ctx, "k", []byte("v"), 0)

	now = now.Add(6 * time.Second)
	if _, err := cache.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get past default TTL = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	for i := range 5 {
		_ = cache.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := cache.Stats().Items; got != 0 {
		t.Errorf("Items after Clear = %d, want 0", got)
	}
}

func TestMemoryCache_MaxSizeEvicts(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 2)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "long", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "new", []byte("3"), time.Hour)

	if got := cache.Stats().Items; got != 2 {
		t.Errorf("Items = %d, want 2", got)
	}
	if _, err := cache.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("entry closest to expiry should be evicted, got %v", err)
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("long-lived entry evicted: %v", err)
	}

	// overwriting an existing key never evicts
	_ = cache.Set(ctx, "long", []byte("4"), time.Hour)
	if _, err := cache.Get(ctx, "new"); err != nil {
		t.Errorf("overwrite evicted another key: %v", err)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	s := cache.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 {
		t.Errorf("Stats = %+v, want 2 hits, 1 miss, 1 set, 1 item", s)
	}
	if s.HitRate < 66 || s.HitRate > 67 {
		t.Errorf("HitRate = %v, want ~66.7", s.HitRate)
	}

	cache.ResetStats()
	if s := cache.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("Stats after reset = %+v", s)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 50)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*100+j)%80)
				_ = cache.Set(ctx, key, []byte("v"), 0)
				_, _ = cache.Get(ctx, key)
				_ = cache.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	orig := []byte("value")
	_ = cache.Set(ctx, "k", orig, 0)
	orig[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := cache.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
}
