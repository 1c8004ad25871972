// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// CookiePreferencesName is the cookie holding the visitor's consent choices.
const CookiePreferencesName = "cookiePreferences"

// CookiePreferences records which optional cookie categories are allowed.
// Essential is always true.
type CookiePreferences struct {
	Essential   bool      `json:"essential"`
	Performance bool      `json:"performance"`
	Functional  bool      `json:"functional"`
	Marketing   bool      `json:"marketing"`
	Timestamp   time.Time `json:"timestamp"`
}

// DefaultCookiePreferences allows essential cookies only and has no timestamp.
func DefaultCookiePreferences() CookiePreferences {
	return CookiePreferences{Essential: true}
}

// NewCookiePreferences builds a saved choice stamped with at.
func NewCookiePreferences(performance, functional, marketing bool, at time.Time) CookiePreferences {
	return CookiePreferences{
		Essential:   true,
		Performance: performance,
		Functional:  functional,
		Marketing:   marketing,
		Timestamp:   at.UTC(),
	}
}

// Saved reports whether the visitor has made a choice.
func (p CookiePreferences) Saved() bool {
	return !p.Timestamp.IsZero()
}

// ParseCookiePreferences decodes a stored cookie value. Malformed input yields
// the defaults and essential is forced on.
func ParseCookiePreferences(raw string) CookiePreferences {
	if raw == "" {
		return DefaultCookiePreferences()
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return DefaultCookiePreferences()
	}
	var p CookiePreferences
	if err := json.Unmarshal(b, &p); err != nil {
		return DefaultCookiePreferences()
	}
	p.Essential = true
	return p
}

// Encode returns the cookie value: base64url over the JSON object, since raw
// JSON quotes are not legal cookie octets.
func (p CookiePreferences) Encode() (string, error) {
	p.Essential = true
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
