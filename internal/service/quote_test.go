// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ybeyene15/SiteSolveTrade/internal/mailer"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/testutil"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mailer.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "email_1", nil
}

func validQuote() model.QuoteRequest {
	return model.QuoteRequest{
		Name:    " Ada Lovelace ",
		Email:   "ada@example.com",
		Company: "Engines Ltd",
		Message: "We need a site.",
	}
}

func newQuoteService(t *testing.T, sender *fakeSender) (*QuoteService, *sql.DB) {
	t.Helper()
	db := testutil.MemDB(t)
	return NewQuoteService(db, sender, mailer.QuoteFrom, "owner@example.com", testutil.DiscardLogger()), db
}

func TestQuoteService_Submit(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newQuoteService(t, sender)
	ctx := context.Background()

	id, err := svc.Submit(ctx, validQuote())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if id != "email_1" {
		t.Errorf("Submit() id = %q, want %q", id, "email_1")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	if to := sender.sent[0].To; len(to) != 1 || to[0] != "owner@example.com" {
		t.Errorf("To = %v, want [owner@example.com]", to)
	}
	if got, want := sender.sent[0].Subject, "New Quote Request from Ada Lovelace"; got != want {
		t.Errorf("Subject = %q, want %q", got, want)
	}

	stored, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored = %d, want 1", len(stored))
	}
	if stored[0].Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want %q", stored[0].Name, "Ada Lovelace")
	}
	if stored[0].Company.String != "Engines Ltd" {
		t.Errorf("Company = %q, want %q", stored[0].Company.String, "Engines Ltd")
	}
	if stored[0].Phone.Valid {
		t.Errorf("Phone = %q, want NULL", stored[0].Phone.String)
	}
}

func TestQuoteService_SubmitValidation(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newQuoteService(t, sender)

	q := validQuote()
	q.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), q)

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if got, want := verr.Fields["email"], "Please enter a valid email address"; got != want {
		t.Errorf("email message = %q, want %q", got, want)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(sender.sent))
	}
}

func TestQuoteService_SendFailureStoresNothing(t *testing.T) {
	sender := &fakeSender{err: mailer.ErrAPIKeyMissing}
	svc, _ := newQuoteService(t, sender)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validQuote())
	if !errors.Is(err, ErrQuoteNotSent) {
		t.Fatalf("Submit() error = %v, want %v", err, ErrQuoteNotSent)
	}
	if !errors.Is(err, mailer.ErrAPIKeyMissing) {
		t.Errorf("Submit() error = %v, want it to wrap %v", err, mailer.ErrAPIKeyMissing)
	}

	stored, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored = %d, want 0", len(stored))
	}
}

func TestQuoteService_StoreFailureStillSucceeds(t *testing.T) {
	sender := &fakeSender{}
	svc, db := newQuoteService(t, sender)

	if _, err := db.Exec("DROP TABLE quote_requests"); err != nil {
		t.Fatalf("dropping table: %v", err)
	}

	id, err := svc.Submit(context.Background(), validQuote())
	if err != nil {
		t.Fatalf("Submit() error = %v, want success once the e-mail went out", err)
	}
	if id != "email_1" {
		t.Errorf("Submit() id = %q, want %q", id, "email_1")
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent = %d, want 1", len(sender.sent))
	}
}

func TestQuoteService_Notify(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newQuoteService(t, sender)
	ctx := context.Background()

	q, id, err := svc.Notify(ctx, validQuote())
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if id != "email_1" {
		t.Errorf("Notify() id = %q, want %q", id, "email_1")
	}
	if q.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want %q", q.Name, "Ada Lovelace")
	}

	stored, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("Notify stored %d quotes, want 0", len(stored))
	}
}
