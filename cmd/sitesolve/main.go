// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ybeyene15/SiteSolveTrade/internal/access"
	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/cache"
	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/config"
	"github.com/ybeyene15/SiteSolveTrade/internal/handler"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/logging"
	"github.com/ybeyene15/SiteSolveTrade/internal/mailer"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/scheduler"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
	"github.com/ybeyene15/SiteSolveTrade/internal/session"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
	"github.com/ybeyene15/SiteSolveTrade/internal/version"
	"github.com/ybeyene15/SiteSolveTrade/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "SiteSolve - web design agency site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_DB_PATH              SQLite database path (default: ./data/site.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_REDIS_URL            Redis URL for the shared access cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_CHECKOUT_PROXY_URL   Payment proxy endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_PROXY_SECRET         Shared secret for proxy bearer tokens (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESEND_API_KEY            Resend API key for quote e-mails\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_EMAIL               Recipient of quote e-mails\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("sitesolve %s\n", info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newSender picks the quote mail transport from the configuration.
func newSender(cfg *config.Config) (mailer.Sender, string) {
	if cfg.UseSMTP() {
		from := cfg.SMTPFrom
		if from == "" {
			from = cfg.SMTPUser
		}
		return mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}), from
	}
	return mailer.NewResendSender(cfg.ResendAPIKey, cfg.ResendAPIURL), mailer.QuoteFrom
}

func quoteStatus(cfg *config.Config) handler.QuoteFunctionStatus {
	transport := config.TransportResend
	if cfg.UseSMTP() {
		transport = config.TransportSMTP
	}
	return handler.QuoteFunctionStatus{
		ResendAPIKeyConfigured: cfg.ResendAPIKey != "",
		AdminEmailConfigured:   cfg.AdminEmail != "",
		SMTPConfigured:         cfg.SMTPHost != "",
		Transport:              transport,
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.SeedAdmin(ctx, db, cfg.AdminSeedEmail, cfg.AdminSeedPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	provider := identity.NewProvider(db, sessionManager)
	slog.Info("session manager initialized")

	cacheConfig := cache.DefaultConfig()
	cacheConfig.RedisURL = cfg.RedisURL
	cacheConfig.Prefix = cfg.CachePrefix
	cacheConfig.DefaultTTL = cfg.AccessCacheTTL
	accessCache := cache.New(cacheConfig, logger)
	defer func() { _ = accessCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("access cache initialized", "backend", "redis", "url", cache.SanitizeRedisURL(cfg.RedisURL))
	} else {
		slog.Info("access cache initialized", "backend", "memory")
	}

	resolver := access.NewResolver(store.New(db), accessCache, cfg.AccessCacheTTL, logger)
	watch := resolver.Watch(provider)
	defer watch.Unsubscribe()

	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	legalFS, err := fs.Sub(web.Content, "content")
	if err != nil {
		return fmt.Errorf("getting content fs: %w", err)
	}

	sender, from := newSender(cfg)
	events := service.NewEventService(db, logger)
	quotes := service.NewQuoteService(db, sender, from, cfg.AdminEmail, logger)

	var tokens *auth.TokenIssuer
	if cfg.CheckoutEnabled() {
		tokens, err = auth.NewTokenIssuer(cfg.ProxySecret, auth.DefaultTokenTTL)
		if err != nil {
			return fmt.Errorf("initializing token issuer: %w", err)
		}
		slog.Info("checkout enabled", "proxy", cfg.CheckoutProxyURL)
	} else {
		slog.Warn("checkout disabled: SITE_CHECKOUT_PROXY_URL or SITE_PROXY_SECRET not set")
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	router := handler.NewRouter(handler.Deps{
		DB:              db,
		Sessions:        sessionManager,
		Renderer:        renderer,
		Provider:        provider,
		Access:          resolver,
		Cache:           accessCache,
		Hero:            service.NewHeroEditor(db),
		Services:        service.NewServiceEditor(db),
		Quotes:          quotes,
		Events:          events,
		Checkout:        checkout.NewClient(cfg.CheckoutProxyURL),
		Tokens:          tokens,
		LoginProtection: loginProtection,
		QuoteStatus:     quoteStatus(cfg),
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.PublicURL(), cfg.IsDevelopment()),
		Legal:           legalFS,
		Static:          staticFS,
		BaseURL:         cfg.PublicURL(),
		Version:         info,
		IsDevelopment:   cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
