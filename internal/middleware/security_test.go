// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithHeaders(DefaultSecurityHeadersConfig(tt.isDev), "/")

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS != (hsts != "") {
				t.Errorf("Strict-Transport-Security = %q, want present=%v", hsts, tt.wantHSTS)
			}

			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.Contains(csp, "default-src 'self'") {
				t.Errorf("CSP = %q, want default-src 'self'", csp)
			}
			if !strings.Contains(csp, "form-action 'self' "+CheckoutOrigin) {
				t.Errorf("CSP = %q, want checkout origin in form-action", csp)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/functions/"}

	tests := []struct {
		path        string
		wantHeaders bool
	}{
		{"/", true},
		{"/admin", true},
		{"/functions/v1/send-quote-email", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			csp := serveWithHeaders(cfg, tt.path).Header().Get("Content-Security-Policy")
			if tt.wantHeaders != (csp != "") {
				t.Errorf("CSP for %s = %q, want present=%v", tt.path, csp, tt.wantHeaders)
			}
		})
	}
}

func TestSecurityHeadersHSTSOptions(t *testing.T) {
	cfg := SecurityHeadersConfig{
		HSTSMaxAge:            63072000,
		HSTSIncludeSubDomains: true,
		HSTSPreload:           true,
	}

	hsts := serveWithHeaders(cfg, "/").Header().Get("Strict-Transport-Security")
	if hsts != "max-age=63072000; includeSubDomains; preload" {
		t.Errorf("Strict-Transport-Security = %q", hsts)
	}
}

func TestBuildCSP(t *testing.T) {
	csp := buildCSP(map[string]string{
		"img-src":      "'self' data:",
		"default-src":  "'self'",
		"worker-src":   "'none'",
		"manifest-src": "'self'",
		"script-src":   "'self'",
	})

	want := "default-src 'self'; script-src 'self'; img-src 'self' data:; manifest-src 'self'; worker-src 'none'"
	if csp != want {
		t.Errorf("buildCSP() = %q, want %q", csp, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}
