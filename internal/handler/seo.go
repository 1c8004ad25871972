// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/ybeyene15/SiteSolveTrade/internal/seo"
)

// SEOHandler serves crawler files.
type SEOHandler struct {
	baseURL     string
	disallowAll bool
}

// NewSEOHandler creates an SEOHandler. Development sites block all crawlers.
func NewSEOHandler(baseURL string, isDevelopment bool) *SEOHandler {
	return &SEOHandler{baseURL: baseURL, disallowAll: isDevelopment}
}

// Robots serves robots.txt.
// GET /robots.txt
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL,
		DisallowAll: h.disallowAll,
	})))
}

// Sitemap serves sitemap.xml.
// GET /sitemap.xml
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := seo.GenerateSitemap(h.baseURL, seo.PublicPages)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}
