// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
}

// String renders the version for logs and the --version flag. Unset fields
// read as "dev" and "unknown".
func (i Info) String() string {
	v, c, b := i.Version, i.GitCommit, i.BuildTime
	if v == "" {
		v = "dev"
	}
	if c == "" {
		c = "unknown"
	}
	if b == "" {
		b = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", v, c, b)
}
