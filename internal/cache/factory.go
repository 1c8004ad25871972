// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Config selects and tunes a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string
	Prefix   string

	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
}

// DefaultConfig returns the in-memory configuration used by the access resolver.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      30 * time.Second,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a Redis cache when RedisURL is set, otherwise a memory cache.
// A Redis connection failure falls back to memory and is logged.
func New(cfg Config, logger *slog.Logger) Cache {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return rc
		}
		if logger != nil {
			logger.Warn("redis cache unavailable, using memory cache",
				"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
		}
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
