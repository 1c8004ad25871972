// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer delivers transactional e-mail through Resend's HTTP API or
// plain SMTP.
package mailer

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RequestTimeout bounds every outbound delivery.
const RequestTimeout = 10 * time.Second

// Configuration errors. Their text is returned to function callers verbatim.
var (
	ErrAPIKeyMissing     = errors.New("RESEND_API_KEY not configured")
	ErrAdminEmailMissing = errors.New("ADMIN_EMAIL not configured")
	ErrSMTPHostMissing   = errors.New("SMTP host not configured")
)

// Message is a single HTML e-mail.
type Message struct {
	From    string
	To      []string
	Subject string
	ReplyTo string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (id string, err error)
}

var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	},
}
