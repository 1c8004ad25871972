// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ybeyene15/SiteSolveTrade/internal/mailer"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// ErrQuoteNotSent is returned when the notification e-mail could not be sent.
var ErrQuoteNotSent = errors.New("Failed to submit quote request. Please try again.")

// QuoteSubmitted is the message shown after a successful submission.
const QuoteSubmitted = "Request submitted!"

// QuoteService delivers quote requests to the site owner and keeps a copy.
type QuoteService struct {
	queries    *store.Queries
	sender     mailer.Sender
	from       string
	adminEmail string
	logger     *slog.Logger
	now        func() time.Time
}

// NewQuoteService creates a QuoteService that notifies adminEmail through
// sender using from as the sender address.
func NewQuoteService(db *sql.DB, sender mailer.Sender, from, adminEmail string, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		queries:    store.New(db),
		sender:     sender,
		from:       from,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

// Notify validates q and e-mails it to the site owner. Mailer errors are
// returned as is.
func (s *QuoteService) Notify(ctx context.Context, q model.QuoteRequest) (model.QuoteRequest, string, error) {
	q = q.Normalize()
	if err := model.Validate(q); err != nil {
		return q, "", err
	}
	id, err := s.sender.Send(ctx, mailer.QuoteEmail(q, s.from, s.adminEmail))
	if err != nil {
		return q, "", err
	}
	return q, id, nil
}

// Submit sends the notification and then stores the request. The e-mail is
// authoritative: a storage failure after a successful send is only logged.
func (s *QuoteService) Submit(ctx context.Context, q model.QuoteRequest) (string, error) {
	q, emailID, err := s.Notify(ctx, q)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return "", err
		}
		s.logger.Warn("quote notification failed", "error", err, "category", model.EventCategoryQuote)
		return "", fmt.Errorf("%w (%w)", ErrQuoteNotSent, err)
	}

	err = s.queries.CreateQuoteRequest(ctx, store.CreateQuoteRequestParams{
		ID:        uuid.NewString(),
		Name:      q.Name,
		Email:     q.Email,
		Phone:     sql.NullString{String: q.Phone, Valid: q.Phone != ""},
		Company:   sql.NullString{String: q.Company, Valid: q.Company != ""},
		Message:   q.Message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("quote stored in e-mail only", "error", err, "email_id", emailID, "category", model.EventCategoryQuote)
	}
	return emailID, nil
}

// Recent returns the newest stored requests.
func (s *QuoteService) Recent(ctx context.Context, limit int) ([]store.QuoteRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queries.ListRecentQuoteRequests(ctx, int64(limit))
}
