// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from admin-entered text. The policy escapes what it
// keeps, so entities are decoded back; templates escape on output.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// HeroEditor loads and saves the home page hero block.
type HeroEditor struct {
	queries *store.Queries
	now     func() time.Time
}

// NewHeroEditor creates a HeroEditor.
func NewHeroEditor(db *sql.DB) *HeroEditor {
	return &HeroEditor{queries: store.New(db), now: time.Now}
}

func heroFromRow(r store.HeroSection) model.Hero {
	return model.Hero{
		ID:                  r.ID,
		MainHeadline:        r.MainHeadline,
		SubHeadline:         r.SubHeadline,
		BadgeText:           r.BadgeText,
		PrimaryButtonText:   r.PrimaryButtonText,
		SecondaryButtonText: r.SecondaryButtonText,
	}
}

// Load returns the published hero, or the defaults when none exists.
func (e *HeroEditor) Load(ctx context.Context) (model.Hero, error) {
	row, err := e.queries.GetPublishedHero(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultHero(), nil
	}
	if err != nil {
		return model.DefaultHero(), fmt.Errorf("loading hero: %w", err)
	}
	return heroFromRow(row), nil
}

// Save updates the hero row named by h.ID, or inserts a published row when
// h has no id. Lengths are not enforced; the editor only shows counts. The
// stored row is returned.
func (e *HeroEditor) Save(ctx context.Context, h model.Hero, editorID int64) (model.Hero, error) {
	h.MainHeadline = cleanText(h.MainHeadline)
	h.SubHeadline = cleanText(h.SubHeadline)
	h.BadgeText = cleanText(h.BadgeText)
	h.PrimaryButtonText = cleanText(h.PrimaryButtonText)
	h.SecondaryButtonText = cleanText(h.SecondaryButtonText)

	params := store.HeroParams{
		ID:                  h.ID,
		MainHeadline:        h.MainHeadline,
		SubHeadline:         h.SubHeadline,
		BadgeText:           h.BadgeText,
		PrimaryButtonText:   h.PrimaryButtonText,
		SecondaryButtonText: h.SecondaryButtonText,
		UpdatedAt:           e.now().UTC(),
		UpdatedBy:           sql.NullInt64{Int64: editorID, Valid: editorID > 0},
	}

	var (
		row store.HeroSection
		err error
	)
	if h.ID != 0 {
		row, err = e.queries.UpdateHero(ctx, params)
		if errors.Is(err, sql.ErrNoRows) {
			// row vanished since the form was loaded
			h.ID = 0
		}
	}
	if h.ID == 0 {
		row, err = e.queries.CreateHero(ctx, params)
	}
	if err != nil {
		return h, fmt.Errorf("saving hero: %w", err)
	}
	return heroFromRow(row), nil
}
