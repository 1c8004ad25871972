// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultResendURL is Resend's send endpoint.
const DefaultResendURL = "https://api.resend.com/emails"

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 4096

// ResendSender posts messages to the Resend API.
type ResendSender struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewResendSender creates a ResendSender. An empty endpoint selects
// DefaultResendURL. A missing key is reported on Send, not here.
func NewResendSender(apiKey, endpoint string) *ResendSender {
	if endpoint == "" {
		endpoint = DefaultResendURL
	}
	return &ResendSender{apiKey: apiKey, endpoint: endpoint, client: httpClient}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	ReplyTo string   `json:"reply_to,omitempty"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send delivers msg. Any non-2xx answer becomes "Resend API error: <body>".
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if s.apiKey == "" {
		return "", ErrAPIKeyMissing
	}
	if len(msg.To) == 0 || msg.To[0] == "" {
		return "", ErrAdminEmailMissing
	}

	payload, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		ReplyTo: msg.ReplyTo,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending to Resend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Resend API error: %s", body)
	}

	var out resendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding Resend response: %w", err)
	}
	return out.ID, nil
}
