// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseIcon(t *testing.T) {
	tests := []struct {
		in   string
		want Icon
	}{
		{"Network", IconNetwork},
		{"Rocket", IconRocket},
		{"TrendingUp", IconTrendingUp},
		{"rocket", IconNetwork},
		{"", IconNetwork},
		{"Spaceship", IconNetwork},
	}
	for _, tt := range tests {
		if got := ParseIcon(tt.in); got != tt.want {
			t.Errorf("ParseIcon(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIcons_AllValidAndUnique(t *testing.T) {
	if len(Icons) != 16 {
		t.Fatalf("len(Icons) = %d, want 16", len(Icons))
	}
	seen := map[Icon]bool{}
	for _, i := range Icons {
		if !i.Valid() {
			t.Errorf("%q not valid", i)
		}
		if seen[i] {
			t.Errorf("%q listed twice", i)
		}
		seen[i] = true
	}
}
