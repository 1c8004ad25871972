// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// dialer is the part of gomail.Dialer SMTPSender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	host   string
	dialer dialer
}

// NewSMTPSender creates an SMTPSender. A missing host is reported on Send.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{host: cfg.Host, dialer: d}
}

// Send delivers msg and returns the generated Message-ID.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if s.host == "" {
		return "", ErrSMTPHostMissing
	}
	if len(msg.To) == 0 || msg.To[0] == "" {
		return "", ErrAdminEmailMissing
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", "<"+id+"@"+messageIDDomain(msg.From)+">")
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("sending via SMTP: %w", err)
	}
	return id, nil
}

// messageIDDomain takes the domain of the From address.
func messageIDDomain(from string) string {
	from = strings.TrimSuffix(strings.TrimSpace(from), ">")
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}
