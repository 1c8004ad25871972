// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createQuoteRequest = `
INSERT INTO quote_requests (id, name, email, phone, company, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

type CreateQuoteRequestParams struct {
	ID        string
	Name      string
	Email     string
	Phone     sql.NullString
	Company   sql.NullString
	Message   string
	CreatedAt time.Time
}

func (q *Queries) CreateQuoteRequest(ctx context.Context, arg CreateQuoteRequestParams) error {
	_, err := q.db.ExecContext(ctx, createQuoteRequest,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.Message,
		arg.CreatedAt,
	)
	return err
}

const listRecentQuoteRequests = `
SELECT id, name, email, phone, company, message, created_at
FROM quote_requests
ORDER BY created_at DESC
LIMIT ?`

func (q *Queries) ListRecentQuoteRequests(ctx context.Context, limit int64) ([]QuoteRequest, error) {
	rows, err := q.db.QueryContext(ctx, listRecentQuoteRequests, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []QuoteRequest
	for rows.Next() {
		var r QuoteRequest
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.Company, &r.Message, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
