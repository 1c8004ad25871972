// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// Plan is the set of writes that turns the stored services into the edited
// collection.
type Plan struct {
	Updates []model.ServiceEntry
	Inserts []model.ServiceEntry
	Deletes []string
}

// Reconcile diffs the edited entries against the stored ids. Entries with a
// stored id are updated. Temp entries, entries whose id is no longer stored
// and repeated ids are inserted under a fresh uuid. Stored ids absent from
// entries are deleted.
func Reconcile(persistedIDs []string, entries []model.ServiceEntry) Plan {
	persisted := make(map[string]bool, len(persistedIDs))
	for _, id := range persistedIDs {
		persisted[id] = true
	}

	var plan Plan
	kept := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsTemp() && persisted[e.ID] && !kept[e.ID] {
			kept[e.ID] = true
			plan.Updates = append(plan.Updates, e)
			continue
		}
		e.ID = uuid.NewString()
		plan.Inserts = append(plan.Inserts, e)
	}

	for _, id := range persistedIDs {
		if !kept[id] {
			plan.Deletes = append(plan.Deletes, id)
		}
	}
	slices.Sort(plan.Deletes)
	return plan
}

// ServiceEditor manages the services section.
type ServiceEditor struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewServiceEditor creates a ServiceEditor.
func NewServiceEditor(db *sql.DB) *ServiceEditor {
	return &ServiceEditor{db: db, queries: store.New(db), now: time.Now}
}

func serviceFromRow(r store.ServiceContent) model.ServiceEntry {
	return model.ServiceEntry{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Icon:         model.ParseIcon(r.IconName),
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}
}

func servicesFromRows(rows []store.ServiceContent) []model.ServiceEntry {
	out := make([]model.ServiceEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, serviceFromRow(r))
	}
	return out
}

// List returns every entry ordered by display order, then id.
func (e *ServiceEditor) List(ctx context.Context) ([]model.ServiceEntry, error) {
	rows, err := e.queries.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return servicesFromRows(rows), nil
}

// ListActive returns the entries shown on the public site.
func (e *ServiceEditor) ListActive(ctx context.Context) ([]model.ServiceEntry, error) {
	rows, err := e.queries.ListActiveServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active services: %w", err)
	}
	return servicesFromRows(rows), nil
}

// normalizeEntries cleans and validates every entry. The first failure is
// returned wrapped with its 1-based position.
func normalizeEntries(entries []model.ServiceEntry) ([]model.ServiceEntry, error) {
	out := make([]model.ServiceEntry, len(entries))
	for i, s := range entries {
		s.Title = cleanText(s.Title)
		s.Description = cleanText(s.Description)
		s.Icon = model.ParseIcon(string(s.Icon))
		if err := model.Validate(s); err != nil {
			return nil, fmt.Errorf("service %d: %w", i+1, err)
		}
		out[i] = s
	}
	return out, nil
}

// SaveAll replaces the stored services with entries in one transaction and
// returns the stored collection. Nothing is written when any entry is invalid.
func (e *ServiceEditor) SaveAll(ctx context.Context, entries []model.ServiceEntry, editorID int64) ([]model.ServiceEntry, Plan, error) {
	entries, err := normalizeEntries(entries)
	if err != nil {
		return nil, Plan{}, err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, Plan{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := e.queries.WithTx(tx)
	ids, err := q.ListServiceIDs(ctx)
	if err != nil {
		return nil, Plan{}, fmt.Errorf("listing service ids: %w", err)
	}
	plan := Reconcile(ids, entries)

	now := e.now().UTC()
	by := sql.NullInt64{Int64: editorID, Valid: editorID > 0}
	params := func(s model.ServiceEntry) store.ServiceParams {
		return store.ServiceParams{
			ID:           s.ID,
			Title:        s.Title,
			Description:  s.Description,
			IconName:     s.Icon.String(),
			DisplayOrder: s.DisplayOrder,
			IsActive:     s.IsActive,
			UpdatedAt:    now,
			UpdatedBy:    by,
		}
	}

	for _, s := range plan.Updates {
		if err := q.UpdateService(ctx, params(s)); err != nil {
			return nil, Plan{}, fmt.Errorf("updating service %s: %w", s.ID, err)
		}
	}
	for _, s := range plan.Inserts {
		if err := q.CreateService(ctx, params(s)); err != nil {
			return nil, Plan{}, fmt.Errorf("inserting service: %w", err)
		}
	}
	for _, id := range plan.Deletes {
		if err := q.DeleteService(ctx, id); err != nil {
			return nil, Plan{}, fmt.Errorf("deleting service %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, Plan{}, fmt.Errorf("committing services: %w", err)
	}

	saved, err := e.List(ctx)
	if err != nil {
		return nil, plan, err
	}
	return saved, plan, nil
}
