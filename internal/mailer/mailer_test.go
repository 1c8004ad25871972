// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
)

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer re_test" {
			t.Errorf("Authorization = %q, want %q", auth, "Bearer re_test")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re_test", srv.URL)
	id, err := s.Send(context.Background(), Message{
		From:    QuoteFrom,
		To:      []string{"admin@example.com"},
		Subject: "Hi",
		ReplyTo: "lead@example.com",
		HTML:    "<p>x</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "email_123" {
		t.Errorf("id = %q, want %q", id, "email_123")
	}
	if want := []string{"admin@example.com"}; !slices.Equal(got.To, want) {
		t.Errorf("To = %v, want %v", got.To, want)
	}
	if got.ReplyTo != "lead@example.com" {
		t.Errorf("ReplyTo = %q, want %q", got.ReplyTo, "lead@example.com")
	}
	if got.From != QuoteFrom {
		t.Errorf("From = %q, want %q", got.From, QuoteFrom)
	}
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	_, err := NewResendSender("re_test", srv.URL).Send(context.Background(), Message{To: []string{"a@example.com"}})
	if err == nil {
		t.Fatal("Send() should fail on a non-2xx response")
	}
	if want := `Resend API error: {"message":"invalid from"}`; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestResendSender_NotConfigured(t *testing.T) {
	_, err := NewResendSender("", "").Send(context.Background(), Message{To: []string{"a@example.com"}})
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("error = %v, want ErrAPIKeyMissing", err)
	}
	if err != nil && err.Error() != "RESEND_API_KEY not configured" {
		t.Errorf("error = %q", err)
	}

	_, err = NewResendSender("re_test", "").Send(context.Background(), Message{To: []string{""}})
	if !errors.Is(err, ErrAdminEmailMissing) {
		t.Errorf("error = %v, want ErrAdminEmailMissing", err)
	}
	if err != nil && err.Error() != "ADMIN_EMAIL not configured" {
		t.Errorf("error = %q", err)
	}
}

func TestNewResendSender_DefaultURL(t *testing.T) {
	if got := NewResendSender("k", "").endpoint; got != DefaultResendURL {
		t.Errorf("endpoint = %q, want %q", got, DefaultResendURL)
	}
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{host: "smtp.example.com", dialer: d}

	id, err := s.Send(context.Background(), Message{
		From:    "Site <noreply@example.com>",
		To:      []string{"admin@example.com"},
		Subject: "New Quote Request from Ada",
		ReplyTo: "ada@example.com",
		HTML:    "<p>x</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id == "" {
		t.Error("Send() should return a message id")
	}
	if len(d.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(d.sent))
	}

	m := d.sent[0]
	headers := map[string]string{
		"To":         "admin@example.com",
		"Reply-To":   "ada@example.com",
		"Message-ID": "<" + id + "@example.com>",
	}
	for name, want := range headers {
		if got := m.GetHeader(name); !slices.Equal(got, []string{want}) {
			t.Errorf("%s = %v, want [%s]", name, got, want)
		}
	}
}

func TestSMTPSender_Errors(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{}).Send(context.Background(), Message{To: []string{"a@example.com"}})
	if !errors.Is(err, ErrSMTPHostMissing) {
		t.Errorf("error = %v, want ErrSMTPHostMissing", err)
	}

	d := &fakeDialer{err: errors.New("connection refused")}
	s := &SMTPSender{host: "smtp.example.com", dialer: d}
	_, err = s.Send(context.Background(), Message{To: []string{"a@example.com"}})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error = %v, want the dial failure", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Send(ctx, Message{To: []string{"a@example.com"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMessageIDDomain(t *testing.T) {
	tests := map[string]string{
		"Site <noreply@example.com>": "example.com",
		"a@b.org":                    "b.org",
		"nobody":                     "localhost",
		"trailing@":                  "localhost",
	}
	for in, want := range tests {
		if got := messageIDDomain(in); got != want {
			t.Errorf("messageIDDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteEmail(t *testing.T) {
	msg := QuoteEmail(model.QuoteRequest{
		Name:    "Ada\r\nBcc: x@evil.example",
		Email:   "ada@example.com",
		Company: "<b>Analytical</b> Engines",
		Message: "Need a site <script>alert(1)</script>",
	}, QuoteFrom, "admin@example.com")

	if msg.From != QuoteFrom {
		t.Errorf("From = %q, want %q", msg.From, QuoteFrom)
	}
	if want := []string{"admin@example.com"}; !slices.Equal(msg.To, want) {
		t.Errorf("To = %v, want %v", msg.To, want)
	}
	if want := "New Quote Request from Ada Bcc: x@evil.example"; msg.Subject != want {
		t.Errorf("Subject = %q, want %q", msg.Subject, want)
	}
	if msg.ReplyTo != "ada@example.com" {
		t.Errorf("ReplyTo = %q, want %q", msg.ReplyTo, "ada@example.com")
	}

	for _, want := range []string{"Analytical Engines", "<strong>Company:</strong>", "New Quote Request"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	for _, bad := range []string{"<script>", "<b>Analytical", "<strong>Phone:</strong>"} {
		if strings.Contains(msg.HTML, bad) {
			t.Errorf("HTML should not contain %q", bad)
		}
	}
}
