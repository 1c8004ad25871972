// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("hash = %q, want argon2id prefix", hash)
	}

	again, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == again {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "changeme", true},
		{"wrong", "wrongpassword", false},
		{"empty", "", false},
		{"case differs", "Changeme", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("CheckPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=1$salt$hash"} {
		if ok, err := CheckPassword("x", h); err == nil || ok {
			t.Errorf("CheckPassword(%q) = %v, %v; want false with error", h, ok, err)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	if NeedsRehash(current) {
		t.Error("freshly created hash should not need rehash")
	}
	if !NeedsRehash("$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA") {
		t.Error("hash with other parameters should need rehash")
	}
	if !NeedsRehash("garbage") {
		t.Error("malformed hash should need rehash")
	}
}

func TestBurnPasswordCheck(t *testing.T) {
	// must not panic for any input
	BurnPasswordCheck("")
	BurnPasswordCheck("anything")
}
