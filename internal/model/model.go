// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the value types shared by handlers and services:
// editable content, quote requests, cookie preferences and their validation.
package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryAccess   = "access"
	EventCategoryCheckout = "checkout"
	EventCategoryContent  = "content"
	EventCategoryQuote    = "quote"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
)
