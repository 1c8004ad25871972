// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ybeyene15/SiteSolveTrade/internal/gate"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
)

// AccessLookup answers the paid-access question. *access.Resolver
// satisfies it.
type AccessLookup interface {
	Lookup(ctx context.Context, userID int64) (bool, error)
}

const pendingPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Loading</title></head>
<body><div class="loading" role="status">Loading...</div></body></html>
`

// RequireAuth lets signed-in visitors through and sends anyone else to the
// sign-in page carrying the requested path.
func RequireAuth() func(http.Handler) http.Handler {
	return RequireAuthOr("")
}

// RequireAuthOr is RequireAuth with a fixed redirect for anonymous visitors.
// An empty redirect selects the default sign-in target.
func RequireAuthOr(redirect string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := gate.Auth(sessionState(r), r.URL.RequestURI())
			if d.State == gate.Denied && redirect != "" {
				d.Redirect = redirect
			}
			serveDecision(w, r, d, next)
		})
	}
}

// RequirePayment lets only signed-in visitors with paid access through.
func RequirePayment(lookup AccessLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := sessionState(r)

			var acc gate.AccessResult
			if !st.Loading && st.Identity != nil {
				ok, err := lookup.Lookup(r.Context(), st.Identity.ID)
				if err != nil {
					slog.Warn("payment gate access lookup failed",
						"error", err, "user_id", st.Identity.ID, "category", "access")
				}
				acc = gate.AccessResult{Resolved: err == nil, HasPaid: ok, Err: err}
			}

			serveDecision(w, r, gate.Payment(st, acc, r.URL.RequestURI()), next)
		})
	}
}

// RequireAdmin resolves administrator membership for the request and lets
// only administrators through. The AdminContext is available to handlers via
// GetAdminContext.
func RequireAdmin(checker identity.AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := GetSessionContext(r)
			if sc == nil {
				serveDecision(w, r, gate.Admin(identity.AdminState{Loading: true}), next)
				return
			}

			ac := identity.NewAdminContext(sc, checker)
			defer ac.Dispose()
			ac.Initialize(r.Context())

			d := gate.Admin(ac.State())
			if d.State == gate.Denied && sc.State().Identity != nil {
				slog.Warn("admin area denied",
					"user_id", sc.State().Identity.ID, "path", r.URL.Path, "category", "auth")
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdmin, ac)
			serveDecision(w, r.WithContext(ctx), d, next)
		})
	}
}

// serveDecision renders exactly one of the loading placeholder, a redirect
// or the wrapped handler.
func serveDecision(w http.ResponseWriter, r *http.Request, d gate.Decision, next http.Handler) {
	switch d.State {
	case gate.Allowed:
		next.ServeHTTP(w, r)
	case gate.Denied:
		http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Refresh", "1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(pendingPage))
	}
}
