// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package gate

import (
	"errors"
	"testing"

	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
)

var signedIn = identity.State{Identity: &identity.Identity{ID: 1, Email: "a@example.com"}}

func TestAuth(t *testing.T) {
	tests := []struct {
		name string
		st   identity.State
		want Decision
	}{
		{"loading", identity.State{Loading: true}, Decision{State: Pending}},
		{"anonymous", identity.State{}, Decision{State: Denied, Redirect: "/login?from=%2Faccount"}},
		{"signed in", signedIn, Decision{State: Allowed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Auth(tt.st, "/account"); got != tt.want {
				t.Errorf("Auth() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPayment(t *testing.T) {
	tests := []struct {
		name string
		st   identity.State
		acc  AccessResult
		want Decision
	}{
		{"session loading", identity.State{Loading: true}, AccessResult{}, Decision{State: Pending}},
		{"access in flight", signedIn, AccessResult{}, Decision{State: Pending}},
		{"anonymous", identity.State{}, AccessResult{Resolved: true}, Decision{State: Denied, Redirect: "/login?from=%2Fdashboard"}},
		{"not paid", signedIn, AccessResult{Resolved: true}, Decision{State: Denied, Redirect: "/pricing?from=%2Fdashboard"}},
		{"lookup failed", signedIn, AccessResult{Err: errors.New("boom")}, Decision{State: Denied, Redirect: "/pricing?from=%2Fdashboard"}},
		{"paid", signedIn, AccessResult{Resolved: true, HasPaid: true}, Decision{State: Allowed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Payment(tt.st, tt.acc, "/dashboard"); got != tt.want {
				t.Errorf("Payment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdmin(t *testing.T) {
	id := &identity.Identity{ID: 1}
	tests := []struct {
		name string
		st   identity.AdminState
		want State
	}{
		{"loading", identity.AdminState{Loading: true}, Pending},
		{"anonymous", identity.AdminState{}, Denied},
		{"not admin", identity.AdminState{Identity: id}, Denied},
		{"admin", identity.AdminState{Identity: id, IsAdmin: true}, Allowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Admin(tt.st)
			if got.State != tt.want {
				t.Errorf("Admin().State = %v, want %v", got.State, tt.want)
			}
			if got.State == Denied && got.Redirect != AdminLoginPath {
				t.Errorf("Admin().Redirect = %q, want %q", got.Redirect, AdminLoginPath)
			}
		})
	}
}

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/", true},
		{"/pricing", true},
		{"/account?tab=orders", true},
		{"", false},
		{"pricing", false},
		{"//evil.example", false},
		{"/\\evil.example", false},
		{"https://evil.example/", false},
		{"/x\r\nSet-Cookie: a=b", false},
	}
	for _, tt := range tests {
		if got := IsLocalPath(tt.in); got != tt.want {
			t.Errorf("IsLocalPath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithFrom(t *testing.T) {
	if got := WithFrom(LoginPath, "https://evil.example"); got != LoginPath {
		t.Errorf("WithFrom() = %q, want %q", got, LoginPath)
	}
	if got := WithFrom(LoginPath, "/a b"); got != "/login?from=%2Fa+b" {
		t.Errorf("WithFrom() = %q", got)
	}
	if got := SafeRedirect("//x", "/"); got != "/" {
		t.Errorf("SafeRedirect() = %q, want /", got)
	}
}

func TestStateString(t *testing.T) {
	if Pending.String() != "pending" || Allowed.String() != "allowed" || Denied.String() != "denied" {
		t.Error("unexpected State strings")
	}
}
