// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SITE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SITE_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	_ = cache.Clear(ctx)

	if err := cache.Set(ctx, "access:1", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "access:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "1" {
		t.Errorf("Get = %q, want %q", got, "1")
	}

	exists, err := cache.Has(ctx, "access:1")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !exists {
		t.Error("Has returned false for existing key")
	}

	if err := cache.Delete(ctx, "access:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "access:1"); err != ErrCacheMiss {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	if err := cache.Set(ctx, "ttl", []byte("v"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(250 * time.Millisecond)

	if _, err := cache.Get(ctx, "ttl"); err != ErrCacheMiss {
		t.Errorf("Get after TTL = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_ClearKeepsOtherPrefixes(t *testing.T) {
	url := skipIfNoRedis(t)

	a, err := NewRedisCacheFromURL(url, "test-a:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := NewRedisCacheFromURL(url, "test-b:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = b.Close() }()

	ctx := context.Background()
	_ = a.Set(ctx, "k", []byte("a"), 0)
	_ = b.Set(ctx, "k", []byte("b"), 0)

	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := a.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("a.Get after Clear = %v, want ErrCacheMiss", err)
	}
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Errorf("b.Get after a.Clear = %v, want nil", err)
	}
	_ = b.Clear(ctx)
}

func TestRedisCache_Close(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Ping(context.Background()); err != ErrCacheClosed {
		t.Errorf("Ping after Close = %v, want ErrCacheClosed", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("not-a-url", "test:", time.Minute); err == nil {
		t.Error("expected error with invalid URL, got nil")
	}
}

func TestRedisCache_EmptyURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("", "test:", time.Minute); err == nil {
		t.Error("expected error with empty URL, got nil")
	}
}
