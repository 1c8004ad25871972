// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Mail transports.
const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SITE_DB_PATH" envDefault:"./data/site.db"`
	SessionSecret string `env:"SITE_SESSION_SECRET,required"`
	ServerHost    string `env:"SITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SITE_ENV" envDefault:"development"`
	LogLevel      string `env:"SITE_LOG_LEVEL" envDefault:"info"`
	BaseURL       string `env:"SITE_BASE_URL"` // Public origin used for checkout return URLs

	// Access cache
	RedisURL       string        `env:"SITE_REDIS_URL"`                         // Optional Redis URL for a shared cache
	CachePrefix    string        `env:"SITE_CACHE_PREFIX" envDefault:"site:"`   // Redis key prefix
	AccessCacheTTL time.Duration `env:"SITE_ACCESS_CACHE_TTL" envDefault:"30s"` // Zero disables caching

	// Payment proxy
	CheckoutProxyURL string `env:"SITE_CHECKOUT_PROXY_URL"`
	ProxySecret      string `env:"SITE_PROXY_SECRET"`

	// Quote notifications
	MailTransport string `env:"SITE_MAIL_TRANSPORT" envDefault:"resend"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	ResendAPIURL  string `env:"RESEND_API_URL" envDefault:"https://api.resend.com/emails"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	SMTPHost      string `env:"SITE_SMTP_HOST"`
	SMTPPort      int    `env:"SITE_SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SITE_SMTP_USER"`
	SMTPPassword  string `env:"SITE_SMTP_PASSWORD"`
	SMTPFrom      string `env:"SITE_SMTP_FROM"`

	// Seeding configuration
	AdminSeedEmail    string `env:"SITE_ADMIN_SEED_EMAIL"`
	AdminSeedPassword string `env:"SITE_ADMIN_SEED_PASSWORD"`
	DoSeed            bool   `env:"SITE_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// PublicURL returns the configured base URL without a trailing slash, falling
// back to the listen address.
func (c Config) PublicURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return "http://" + c.ServerAddr()
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CheckoutEnabled reports whether the payment proxy is configured.
func (c Config) CheckoutEnabled() bool {
	return c.CheckoutProxyURL != "" && c.ProxySecret != ""
}

// UseSMTP reports whether quote notifications go through SMTP instead of Resend.
func (c Config) UseSMTP() bool {
	return strings.EqualFold(c.MailTransport, TransportSMTP)
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SITE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SITE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SITE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch strings.ToLower(cfg.MailTransport) {
	case TransportResend, TransportSMTP:
	default:
		return nil, fmt.Errorf("SITE_MAIL_TRANSPORT must be %q or %q, got %q",
			TransportResend, TransportSMTP, cfg.MailTransport)
	}

	if cfg.AccessCacheTTL < 0 {
		return nil, fmt.Errorf("SITE_ACCESS_CACHE_TTL must not be negative")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
