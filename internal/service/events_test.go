// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/testutil"
)

func TestLogEvent(t *testing.T) {
	db := testutil.MemDB(t)
	svc := NewEventService(db, testutil.DiscardLogger())
	ctx := context.Background()

	err := svc.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem, "Test message", map[string]any{
		"key": "value",
	})
	if err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	events, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}

	e := events[0]
	if e.Level != model.EventLevelInfo {
		t.Errorf("level = %q, want %q", e.Level, model.EventLevelInfo)
	}
	if e.Category != model.EventCategorySystem {
		t.Errorf("category = %q, want %q", e.Category, model.EventCategorySystem)
	}
	if e.Message != "Test message" {
		t.Errorf("message = %q, want %q", e.Message, "Test message")
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["key"] != "value" {
		t.Errorf("metadata[key] = %v, want value", meta["key"])
	}
}

func TestLogEvent_NilMetadata(t *testing.T) {
	db := testutil.MemDB(t)
	svc := NewEventService(db, testutil.DiscardLogger())
	ctx := context.Background()

	if err := svc.LogInfo(ctx, model.EventCategoryAuth, "no metadata", nil); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}
	events, _ := svc.Recent(ctx, 0)
	if len(events) != 1 || events[0].Metadata != "{}" {
		t.Errorf("events = %+v, want one with metadata {}", events)
	}
}

func TestLogHelpers(t *testing.T) {
	db := testutil.MemDB(t)
	svc := NewEventService(db, testutil.DiscardLogger())
	ctx := context.Background()

	tests := []struct {
		name     string
		log      func() error
		level    string
		category string
	}{
		{"warning", func() error { return svc.LogWarning(ctx, model.EventCategoryQuote, "m", nil) }, model.EventLevelWarning, model.EventCategoryQuote},
		{"error", func() error { return svc.LogError(ctx, model.EventCategorySystem, "m", nil) }, model.EventLevelError, model.EventCategorySystem},
		{"auth", func() error { return svc.LogAuthEvent(ctx, model.EventLevelInfo, "m", nil) }, model.EventLevelInfo, model.EventCategoryAuth},
		{"content", func() error { return svc.LogContentEvent(ctx, "m", 7, nil) }, model.EventLevelInfo, model.EventCategoryContent},
		{"checkout", func() error { return svc.LogCheckoutEvent(ctx, model.EventLevelInfo, "m", nil) }, model.EventLevelInfo, model.EventCategoryCheckout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.log(); err != nil {
				t.Fatalf("log: %v", err)
			}
			events, err := svc.Recent(ctx, 1)
			if err != nil || len(events) != 1 {
				t.Fatalf("Recent = %v, %v", events, err)
			}
			if events[0].Level != tt.level || events[0].Category != tt.category {
				t.Errorf("got %s/%s, want %s/%s", events[0].Level, events[0].Category, tt.level, tt.category)
			}
		})
	}
}

func TestLogContentEvent_EditorID(t *testing.T) {
	db := testutil.MemDB(t)
	svc := NewEventService(db, testutil.DiscardLogger())
	ctx := context.Background()

	if err := svc.LogContentEvent(ctx, "hero saved", 42, map[string]any{"hero_id": 1}); err != nil {
		t.Fatalf("LogContentEvent: %v", err)
	}
	events, _ := svc.Recent(ctx, 1)
	var meta map[string]any
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["editor_id"] != float64(42) {
		t.Errorf("editor_id = %v, want 42", meta["editor_id"])
	}
}
