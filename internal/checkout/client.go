// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// RequestTimeout bounds a single call to the proxy.
const RequestTimeout = 10 * time.Second

// SessionIDPlaceholder is replaced by the payment provider with the session id.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

var (
	// ErrCheckoutFailed is matched by every proxy failure.
	ErrCheckoutFailed = errors.New("Failed to create checkout session")
	// ErrNotAuthenticated is returned when no bearer token is supplied.
	ErrNotAuthenticated = errors.New("User not authenticated")
	// ErrNotConfigured is returned when no proxy URL is set.
	ErrNotConfigured = errors.New("checkout is not configured")
)

// ProxyError carries the proxy's own error message.
type ProxyError struct {
	Status  int
	Message string
}

func (e *ProxyError) Error() string { return e.Message }

// Is makes every ProxyError match ErrCheckoutFailed.
func (e *ProxyError) Is(target error) bool { return target == ErrCheckoutFailed }

// Request asks the proxy for a hosted checkout session.
type Request struct {
	PriceID    string `json:"price_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
	Mode       string `json:"mode"`
}

// Session is the proxy's answer.
type Session struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// NewRequest builds the request for p with return URLs under baseURL.
func NewRequest(p Product, baseURL string) Request {
	base := strings.TrimRight(baseURL, "/")
	return Request{
		PriceID:    p.PriceID,
		SuccessURL: base + "/success?session_id=" + SessionIDPlaceholder,
		CancelURL:  base + "/checkout-confirmation",
		Mode:       p.Mode,
	}
}

// Client talks to the checkout proxy.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a Client posting to endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: RequestTimeout,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// Configured reports whether a proxy endpoint is set.
func (c *Client) Configured() bool {
	return c != nil && c.endpoint != ""
}

const maxResponseBody = 64 << 10

// CreateSession asks the proxy for a checkout session on behalf of the
// identity the bearer token was minted for.
func (c *Client) CreateSession(ctx context.Context, bearer string, r Request) (Session, error) {
	if !c.Configured() {
		return Session{}, ErrNotConfigured
	}
	if bearer == "" {
		return Session{}, ErrNotAuthenticated
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return Session{}, fmt.Errorf("encoding checkout request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Session{}, fmt.Errorf("creating checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Session{}, fmt.Errorf("%w: reading response: %w", ErrCheckoutFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, proxyError(resp.StatusCode, body)
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, fmt.Errorf("%w: decoding response: %w", ErrCheckoutFailed, err)
	}
	if s.URL == "" {
		return Session{}, &ProxyError{Status: resp.StatusCode, Message: ErrCheckoutFailed.Error()}
	}
	return s, nil
}

// proxyError prefers the proxy's "error" field, then the default message.
// An unparseable body is reported by status.
func proxyError(status int, body []byte) *ProxyError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &ProxyError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))}
	}
	if payload.Error == "" {
		return &ProxyError{Status: status, Message: ErrCheckoutFailed.Error()}
	}
	return &ProxyError{Status: status, Message: payload.Error}
}
