// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestBuildRobotsDefault(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://example.com/"})

	if !strings.HasPrefix(content, "User-agent: *\n") {
		t.Errorf("BuildRobots() should start with the user-agent line, got %q", content)
	}
	for _, path := range DefaultDisallow {
		if !strings.Contains(content, "Disallow: "+path+"\n") {
			t.Errorf("BuildRobots() should disallow %q", path)
		}
	}
	if !strings.Contains(content, "Allow: /\n") {
		t.Error("BuildRobots() should contain 'Allow: /'")
	}
	if !strings.HasSuffix(content, "Sitemap: https://example.com/sitemap.xml\n") {
		t.Errorf("BuildRobots() sitemap line missing, got %q", content)
	}
}

func TestBuildRobotsDisallowAll(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://example.com", DisallowAll: true})

	if content != "User-agent: *\nDisallow: /\n" {
		t.Errorf("BuildRobots() = %q", content)
	}
}

func TestBuildRobotsExtraPaths(t *testing.T) {
	content := BuildRobots(RobotsConfig{DisallowPaths: []string{"/drafts"}})

	if !strings.Contains(content, "Disallow: /drafts\n") {
		t.Error("BuildRobots() should include extra disallow paths")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("BuildRobots() should omit the sitemap without a site URL")
	}
}

func TestBuildRobotsDoesNotShareDefaults(t *testing.T) {
	BuildRobots(RobotsConfig{DisallowPaths: []string{"/a"}})
	BuildRobots(RobotsConfig{DisallowPaths: []string{"/b"}})

	for _, p := range DefaultDisallow {
		if p == "/a" || p == "/b" {
			t.Fatalf("DefaultDisallow was modified: %v", DefaultDisallow)
		}
	}
}
