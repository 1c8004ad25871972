// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and sitemap.xml for the public pages.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Page is a public path listed in the sitemap.
type Page struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   string
	UpdatedAt  time.Time
}

// PublicPages are the indexable pages of the site.
var PublicPages = []Page{
	{Path: "/", ChangeFreq: ChangeFreqWeekly, Priority: "1.0"},
	{Path: "/pricing", ChangeFreq: ChangeFreqMonthly, Priority: "0.8"},
	{Path: "/privacy-policy", ChangeFreq: ChangeFreqYearly, Priority: "0.3"},
	{Path: "/terms-of-service", ChangeFreq: ChangeFreqYearly, Priority: "0.3"},
	{Path: "/cookie-settings", ChangeFreq: ChangeFreqYearly, Priority: "0.2"},
}

// SitemapBuilder builds sitemap XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// Add appends a page. The root path maps to the bare site URL.
func (b *SitemapBuilder) Add(p Page) {
	loc := b.siteURL + p.Path
	if p.Path == "/" {
		loc = b.siteURL + "/"
	}
	url := SitemapURL{
		Loc:        loc,
		ChangeFreq: p.ChangeFreq,
		Priority:   p.Priority,
	}
	if !p.UpdatedAt.IsZero() {
		url.LastMod = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	out := []byte(xml.Header)
	body, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// GenerateSitemap builds a sitemap listing pages.
func GenerateSitemap(siteURL string, pages []Page) ([]byte, error) {
	b := NewSitemapBuilder(siteURL)
	for _, p := range pages {
		b.Add(p)
	}
	return b.Build()
}
