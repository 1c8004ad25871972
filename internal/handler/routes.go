// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ybeyene15/SiteSolveTrade/internal/access"
	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/cache"
	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/gate"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
	"github.com/ybeyene15/SiteSolveTrade/internal/version"
)

// Deps carries everything the router wires together.
type Deps struct {
	DB              *sql.DB
	Sessions        *scs.SessionManager
	Renderer        *render.Renderer
	Provider        *identity.Provider
	Access          *access.Resolver
	Cache           cache.Cache
	Hero            *service.HeroEditor
	Services        *service.ServiceEditor
	Quotes          *service.QuoteService
	Events          *service.EventService
	Checkout        *checkout.Client
	Tokens          *auth.TokenIssuer
	LoginProtection *middleware.LoginProtection
	QuoteStatus     QuoteFunctionStatus
	CSRF            middleware.CSRFConfig
	Legal           fs.FS
	Static          fs.FS
	BaseURL         string
	Version         version.Info
	IsDevelopment   bool
	RequestTimeout  time.Duration
}

// checkoutLoginRedirect sends anonymous visitors through sign-in and back
// into checkout.
var checkoutLoginRedirect = authURL(gate.LoginPath, gate.PricingPath, true)

// NewRouter builds the site's HTTP handler.
func NewRouter(d Deps) http.Handler {
	queries := store.New(d.DB)

	authHandler := NewAuthHandler(d.Provider, d.Renderer, d.LoginProtection, d.Events)
	publicHandler := NewPublicHandler(d.Renderer, d.Hero, d.Services, d.Quotes, d.Legal, !d.IsDevelopment)
	checkoutHandler := NewCheckoutHandler(d.DB, d.Renderer, d.Checkout, d.Tokens, d.BaseURL, d.Access, d.Events)
	accountHandler := NewAccountHandler(d.DB, d.Renderer, d.Access)
	adminHandler := NewAdminHandler(AdminDeps{
		Renderer:        d.Renderer,
		Provider:        d.Provider,
		Checker:         queries,
		Hero:            d.Hero,
		Services:        d.Services,
		Quotes:          d.Quotes,
		Events:          d.Events,
		LoginProtection: d.LoginProtection,
	})
	quoteFunction := NewQuoteFunctionHandler(d.Quotes, d.QuoteStatus)
	healthHandler := NewHealthHandler(d.DB, d.Cache, queries, d.Version)
	seoHandler := NewSEOHandler(d.BaseURL, d.IsDevelopment)

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)))
	r.Use(middleware.RequestPath)
	r.Use(middleware.SkipCSRF("/functions/", "/hooks/"))
	r.Use(middleware.CSRF(d.CSRF))

	r.Get(RouteHealthLive, healthHandler.Liveness)
	r.Get(RouteRobots, seoHandler.Robots)
	r.Get(RouteSitemap, seoHandler.Sitemap)

	if d.Static != nil {
		r.With(middleware.StaticCache(86400)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))
	}

	// Cross-origin JSON functions: bearer or no auth, no session.
	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(1, 5))
		r.Route("/send-quote-email", func(r chi.Router) {
			r.Use(quoteFunction.CORS())
			r.Options("/", quoteFunction.Preflight)
			r.Post("/", quoteFunction.Send)
			r.Options("/test", quoteFunction.Preflight)
			r.Get("/test", quoteFunction.Test)
		})
	})
	r.With(middleware.RateLimit(5, 20)).Post(RouteCheckoutCompleted, checkoutHandler.Completed)

	// Browser routes share the session.
	r.Group(func(r chi.Router) {
		r.Use(d.Sessions.LoadAndSave)
		r.Use(middleware.LoadSession(d.Provider))

		r.Get(RouteHealth, healthHandler.Health)
		r.Get(RouteHealthReady, healthHandler.Readiness)

		r.Get(RouteRoot, publicHandler.Home)
		r.Post(RouteQuote, publicHandler.SubmitQuote)
		r.Get(RoutePricing, publicHandler.Pricing)
		r.Get(RouteSuccess, publicHandler.Success)
		r.Get(RoutePrivacyPolicy, publicHandler.Legal("Privacy Policy", "privacy-policy.md"))
		r.Get(RouteTermsOfService, publicHandler.Legal("Terms of Service", "terms-of-service.md"))
		r.Get(RouteCookieSettings, publicHandler.CookieSettings)
		r.Post(RouteCookieSettings, publicHandler.SaveCookieSettings)

		r.Group(func(r chi.Router) {
			if d.LoginProtection != nil {
				r.Use(d.LoginProtection.Middleware())
			}
			r.Get(RouteLogin, authHandler.LoginForm)
			r.Post(RouteLogin, authHandler.Login)
			r.Get(RouteSignup, authHandler.SignupForm)
			r.Post(RouteSignup, authHandler.Signup)
			r.Get(RouteAdminLogin, adminHandler.LoginForm)
			r.Post(RouteAdminLogin, adminHandler.Login)
		})
		r.Post(RouteLogout, authHandler.Logout)
		r.Post(RouteAdminLogout, adminHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireAuthOr(checkoutLoginRedirect))
			r.Get(RouteCheckoutConfirmation, checkoutHandler.Confirmation)
			r.Post(RouteCheckoutConfirmation, checkoutHandler.Proceed)
		})

		r.With(middleware.NoStore, middleware.RequireAuth()).Get(RouteAccount, accountHandler.Account)
		r.With(middleware.NoStore, middleware.RequirePayment(d.Access)).Get(RouteDashboard, accountHandler.Dashboard)

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireAdmin(queries))
			r.Get("/", adminHandler.Dashboard)
			r.Get("/hero", adminHandler.HeroForm)
			r.Post("/hero", adminHandler.SaveHero)
			r.Get("/services", adminHandler.ServicesForm)
			r.Post("/services", adminHandler.SaveServices)
			r.Get("/api/services", adminHandler.ListServicesJSON)
			r.Put("/api/services", adminHandler.SaveServicesJSON)
		})

		r.NotFound(publicHandler.NotFound)
	})

	return r
}
