// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate holds the route gate state machines. Each gate settles in
// Pending, Allowed or Denied; a denial carries the redirect target.
package gate

import (
	"net/url"
	"strings"

	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
)

// Redirect targets of denied gates.
const (
	LoginPath      = "/login"
	PricingPath    = "/pricing"
	AdminLoginPath = "/admin/login"
)

// State is the outcome of a gate evaluation.
type State int

const (
	Pending State = iota
	Allowed
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is a settled gate. Redirect is set only when State is Denied.
type Decision struct {
	State    State
	Redirect string
}

// AccessResult is the paid-access answer as seen by the payment gate.
type AccessResult struct {
	Resolved bool
	HasPaid  bool
	Err      error
}

// Auth requires a signed-in identity.
func Auth(st identity.State, from string) Decision {
	switch {
	case st.Loading:
		return Decision{State: Pending}
	case st.Identity == nil:
		return Decision{State: Denied, Redirect: WithFrom(LoginPath, from)}
	default:
		return Decision{State: Allowed}
	}
}

// Payment requires a signed-in identity with paid access. A failed access
// lookup denies rather than staying pending.
func Payment(st identity.State, acc AccessResult, from string) Decision {
	switch {
	case st.Loading:
		return Decision{State: Pending}
	case st.Identity == nil:
		return Decision{State: Denied, Redirect: WithFrom(LoginPath, from)}
	case acc.Err != nil:
		return Decision{State: Denied, Redirect: WithFrom(PricingPath, from)}
	case !acc.Resolved:
		return Decision{State: Pending}
	case !acc.HasPaid:
		return Decision{State: Denied, Redirect: WithFrom(PricingPath, from)}
	default:
		return Decision{State: Allowed}
	}
}

// Admin requires an administrator.
func Admin(st identity.AdminState) Decision {
	switch {
	case st.Loading:
		return Decision{State: Pending}
	case st.Identity == nil || !st.IsAdmin:
		return Decision{State: Denied, Redirect: AdminLoginPath}
	default:
		return Decision{State: Allowed}
	}
}

// WithFrom appends from as a query parameter to target. Non-local paths are
// dropped.
func WithFrom(target, from string) string {
	if !IsLocalPath(from) {
		return target
	}
	return target + "?from=" + url.QueryEscape(from)
}

// IsLocalPath reports whether p is a path on this site, rejecting absolute
// and protocol-relative URLs.
func IsLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	return !strings.ContainsAny(p, "\r\n")
}

// SafeRedirect returns p when it is local, otherwise fallback.
func SafeRedirect(p, fallback string) string {
	if IsLocalPath(p) {
		return p
	}
	return fallback
}
