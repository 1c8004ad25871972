// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"github.com/google/uuid"
)

// Hero is the editable headline block of the home page. ID is zero until the
// row has been persisted.
type Hero struct {
	ID                  int64  `json:"id,omitempty"`
	MainHeadline        string `json:"main_headline"`
	SubHeadline         string `json:"sub_headline"`
	BadgeText           string `json:"badge_text"`
	PrimaryButtonText   string `json:"primary_button_text"`
	SecondaryButtonText string `json:"secondary_button_text"`
}

// DefaultHero is shown when no published hero row exists.
func DefaultHero() Hero {
	return Hero{
		MainHeadline:        "Next-gen digital infrastructure for visionary companies",
		SubHeadline:         "Advanced web systems engineered for performance, scale, and innovation",
		BadgeText:           "Start Here",
		PrimaryButtonText:   "Get Quote",
		SecondaryButtonText: "Learn More",
	}
}

// TempIDPrefix marks service entries created in the editor but not yet saved.
const TempIDPrefix = "temp-"

// ServiceEntry is one card of the services section.
type ServiceEntry struct {
	ID           string `json:"id"`
	Title        string `json:"title" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=1000"`
	Icon         Icon   `json:"icon_name" validate:"icon"`
	DisplayOrder int64  `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// IsTemp reports whether the entry has never been persisted.
func (e ServiceEntry) IsTemp() bool {
	return e.ID == "" || strings.HasPrefix(e.ID, TempIDPrefix)
}

// NewTempID returns a fresh editor-local id.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// NewDraftEntry appends-ready blank entry placed after existing.
func NewDraftEntry(existing []ServiceEntry) ServiceEntry {
	return ServiceEntry{
		ID:           NewTempID(),
		Icon:         DefaultIcon,
		DisplayOrder: int64(len(existing) + 1),
		IsActive:     true,
	}
}
