// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the session context, route
// gates and request hardening.
package middleware

import (
	"context"
	"net/http"

	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped values.
const (
	ContextKeySession     ContextKey = "session_context"
	ContextKeyAdmin       ContextKey = "admin_context"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoadSession builds a SessionContext for every request, settles it and
// disposes it when the request ends. It must run inside the scs
// LoadAndSave middleware.
func LoadSession(src identity.Source) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := identity.NewScope()
			ctx := identity.WithScope(r.Context(), scope)

			sc := identity.NewSessionContext(src, scope)
			defer sc.Dispose()
			sc.Initialize(ctx)

			ctx = context.WithValue(ctx, ContextKeySession, sc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionContext returns the request's SessionContext, or nil outside
// LoadSession.
func GetSessionContext(r *http.Request) *identity.SessionContext {
	sc, _ := r.Context().Value(ContextKeySession).(*identity.SessionContext)
	return sc
}

// sessionState returns the request's session snapshot. Without a session
// context the state stays loading, so no gate can allow.
func sessionState(r *http.Request) identity.State {
	if sc := GetSessionContext(r); sc != nil {
		return sc.State()
	}
	return identity.State{Loading: true}
}

// GetIdentity returns the signed-in identity, or nil.
func GetIdentity(r *http.Request) *identity.Identity {
	return sessionState(r).Identity
}

// GetUserID returns the signed-in identity's ID, or 0.
func GetUserID(r *http.Request) int64 {
	if id := GetIdentity(r); id != nil {
		return id.ID
	}
	return 0
}

// GetAdminContext returns the AdminContext installed by RequireAdmin.
func GetAdminContext(r *http.Request) *identity.AdminContext {
	ac, _ := r.Context().Value(ContextKeyAdmin).(*identity.AdminContext)
	return ac
}

// RequestPath stores the request path in the context for log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
