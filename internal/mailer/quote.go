// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
)

// QuoteFrom is the sender shown on quote notifications sent through Resend.
const QuoteFrom = "Quote Form <onboarding@resend.dev>"

var strict = bluemonday.StrictPolicy()

// QuoteEmail builds the admin notification for a quote request. Every
// submitted field is stripped of markup and escaped.
func QuoteEmail(q model.QuoteRequest, from, adminEmail string) Message {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #0891b2;">New Quote Request</h2>`)
	b.WriteString(`<div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	field(&b, "Name", q.Name)
	field(&b, "Email", q.Email)
	if q.Phone != "" {
		field(&b, "Phone", q.Phone)
	}
	if q.Company != "" {
		field(&b, "Company", q.Company)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<div style="margin: 20px 0;"><h3 style="color: #374151;">Project Details:</h3>`)
	b.WriteString(`<p style="white-space: pre-wrap; background: #f9fafb; padding: 15px; border-left: 4px solid #0891b2; border-radius: 4px;">`)
	b.WriteString(strict.Sanitize(q.Message))
	b.WriteString(`</p></div>`)
	b.WriteString(`<p style="color: #6b7280; font-size: 12px; margin-top: 30px;">This email was sent from your website quote form.</p>`)
	b.WriteString(`</div>`)

	return Message{
		From:    from,
		To:      []string{adminEmail},
		Subject: "New Quote Request from " + singleLine(q.Name),
		ReplyTo: singleLine(q.Email),
		HTML:    b.String(),
	}
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(`<p style="margin: 10px 0;"><strong>`)
	b.WriteString(label)
	b.WriteString(`:</strong> `)
	b.WriteString(strict.Sanitize(value))
	b.WriteString(`</p>`)
}

// singleLine removes line breaks so header values cannot be split.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
