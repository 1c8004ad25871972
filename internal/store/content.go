// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const heroColumns = `id, main_headline, sub_headline, badge_text, primary_button_text,
secondary_button_text, is_published, updated_at, updated_by`

func scanHero(row interface{ Scan(...any) error }) (HeroSection, error) {
	var h HeroSection
	err := row.Scan(
		&h.ID,
		&h.MainHeadline,
		&h.SubHeadline,
		&h.BadgeText,
		&h.PrimaryButtonText,
		&h.SecondaryButtonText,
		&h.IsPublished,
		&h.UpdatedAt,
		&h.UpdatedBy,
	)
	return h, err
}

const getPublishedHero = `SELECT ` + heroColumns + ` FROM hero_section WHERE is_published = 1 LIMIT 1`

// GetPublishedHero returns sql.ErrNoRows when nothing is published yet.
func (q *Queries) GetPublishedHero(ctx context.Context) (HeroSection, error) {
	return scanHero(q.db.QueryRowContext(ctx, getPublishedHero))
}

const createHero = `
INSERT INTO hero_section (main_headline, sub_headline, badge_text, primary_button_text,
    secondary_button_text, is_published, updated_at, updated_by)
VALUES (?, ?, ?, ?, ?, 1, ?, ?)`

type HeroParams struct {
	ID                  int64
	MainHeadline        string
	SubHeadline         string
	BadgeText           string
	PrimaryButtonText   string
	SecondaryButtonText string
	UpdatedAt           time.Time
	UpdatedBy           sql.NullInt64
}

// CreateHero inserts a published hero row. ID in arg is ignored.
func (q *Queries) CreateHero(ctx context.Context, arg HeroParams) (HeroSection, error) {
	res, err := q.db.ExecContext(ctx, createHero,
		arg.MainHeadline,
		arg.SubHeadline,
		arg.BadgeText,
		arg.PrimaryButtonText,
		arg.SecondaryButtonText,
		arg.UpdatedAt,
		arg.UpdatedBy,
	)
	if err != nil {
		return HeroSection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return HeroSection{}, err
	}
	return q.GetHeroByID(ctx, id)
}

const getHeroByID = `SELECT ` + heroColumns + ` FROM hero_section WHERE id = ?`

func (q *Queries) GetHeroByID(ctx context.Context, id int64) (HeroSection, error) {
	return scanHero(q.db.QueryRowContext(ctx, getHeroByID, id))
}

const updateHero = `
UPDATE hero_section SET
    main_headline = ?,
    sub_headline = ?,
    badge_text = ?,
    primary_button_text = ?,
    secondary_button_text = ?,
    updated_at = ?,
    updated_by = ?
WHERE id = ?`

// UpdateHero rewrites the text fields of an existing row and returns
// sql.ErrNoRows when the id is unknown.
func (q *Queries) UpdateHero(ctx context.Context, arg HeroParams) (HeroSection, error) {
	res, err := q.db.ExecContext(ctx, updateHero,
		arg.MainHeadline,
		arg.SubHeadline,
		arg.BadgeText,
		arg.PrimaryButtonText,
		arg.SecondaryButtonText,
		arg.UpdatedAt,
		arg.UpdatedBy,
		arg.ID,
	)
	if err != nil {
		return HeroSection{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return HeroSection{}, err
	}
	if n == 0 {
		return HeroSection{}, sql.ErrNoRows
	}
	return q.GetHeroByID(ctx, arg.ID)
}

const serviceColumns = `id, title, description, icon_name, display_order, is_active,
created_at, updated_at, updated_by`

func scanService(row interface{ Scan(...any) error }) (ServiceContent, error) {
	var s ServiceContent
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.IconName,
		&s.DisplayOrder,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.UpdatedBy,
	)
	return s, err
}

func (q *Queries) queryServices(ctx context.Context, query string, args ...any) ([]ServiceContent, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ServiceContent
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listServices = `SELECT ` + serviceColumns + ` FROM services_content ORDER BY display_order, id`

// ListServices returns every service entry, active or not.
func (q *Queries) ListServices(ctx context.Context) ([]ServiceContent, error) {
	return q.queryServices(ctx, listServices)
}

const listActiveServices = `SELECT ` + serviceColumns + `
FROM services_content WHERE is_active = 1 ORDER BY display_order, id`

func (q *Queries) ListActiveServices(ctx context.Context) ([]ServiceContent, error) {
	return q.queryServices(ctx, listActiveServices)
}

const listServiceIDs = `SELECT id FROM services_content`

func (q *Queries) ListServiceIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listServiceIDs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const createService = `
INSERT INTO services_content (id, title, description, icon_name, display_order, is_active,
    created_at, updated_at, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type ServiceParams struct {
	ID           string
	Title        string
	Description  string
	IconName     string
	DisplayOrder int64
	IsActive     bool
	UpdatedAt    time.Time
	UpdatedBy    sql.NullInt64
}

// CreateService inserts a row under arg.ID. The caller assigns the id.
func (q *Queries) CreateService(ctx context.Context, arg ServiceParams) error {
	_, err := q.db.ExecContext(ctx, createService,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.IconName,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.UpdatedAt,
		arg.UpdatedBy,
	)
	return err
}

const updateService = `
UPDATE services_content SET
    title = ?,
    description = ?,
    icon_name = ?,
    display_order = ?,
    is_active = ?,
    updated_at = ?,
    updated_by = ?
WHERE id = ?`

func (q *Queries) UpdateService(ctx context.Context, arg ServiceParams) error {
	_, err := q.db.ExecContext(ctx, updateService,
		arg.Title,
		arg.Description,
		arg.IconName,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.UpdatedBy,
		arg.ID,
	)
	return err
}

const deleteService = `DELETE FROM services_content WHERE id = ?`

func (q *Queries) DeleteService(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteService, id)
	return err
}
