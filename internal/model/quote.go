// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// QuoteRequest is a prospective customer's enquiry.
type QuoteRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
	Company string `json:"company,omitempty" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Normalize trims surrounding whitespace from every field.
func (q QuoteRequest) Normalize() QuoteRequest {
	return QuoteRequest{
		Name:    strings.TrimSpace(q.Name),
		Email:   strings.TrimSpace(q.Email),
		Phone:   strings.TrimSpace(q.Phone),
		Company: strings.TrimSpace(q.Company),
		Message: strings.TrimSpace(q.Message),
	}
}
