// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

const (
	msgConsentRequired     = "Please agree to the terms and conditions to proceed."
	msgCheckoutUnavailable = "Checkout is currently unavailable. Please try again later."
	msgCheckoutRetry       = "Unable to start checkout. Please try again."
)

// PaymentStatusPaid is the completion status that grants access.
const PaymentStatusPaid = "paid"

// AccessGranter records paid access. *access.Resolver satisfies it.
type AccessGranter interface {
	Grant(ctx context.Context, userID int64, customerRef string, paidAt time.Time) (bool, error)
}

// CheckoutHandler runs the review step, hands the visitor to the hosted
// checkout and receives completed payments from the proxy.
type CheckoutHandler struct {
	renderer     *render.Renderer
	client       *checkout.Client
	tokens       *auth.TokenIssuer
	baseURL      string
	queries      *store.Queries
	access       AccessGranter
	eventService *service.EventService
	now          func() time.Time
}

// NewCheckoutHandler creates a CheckoutHandler. tokens is nil when no proxy
// secret is configured, which disables checkout.
func NewCheckoutHandler(db *sql.DB, renderer *render.Renderer, client *checkout.Client, tokens *auth.TokenIssuer,
	baseURL string, granter AccessGranter, events *service.EventService) *CheckoutHandler {
	return &CheckoutHandler{
		renderer:     renderer,
		client:       client,
		tokens:       tokens,
		baseURL:      baseURL,
		queries:      store.New(db),
		access:       granter,
		eventService: events,
		now:          time.Now,
	}
}

// ConfirmationData is passed to the checkout confirmation template.
type ConfirmationData struct {
	Product checkout.Product
	Agreed  bool
	Error   string
}

// Confirmation renders the review step.
// GET /checkout-confirmation
func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	h.renderConfirmation(w, r, http.StatusOK, ConfirmationData{Product: checkout.DefaultProduct()})
}

// Proceed creates a checkout session and redirects to the hosted page.
// Every failure is shown inline and leaves the visitor on the review step.
// POST /checkout-confirmation
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	data := ConfirmationData{Product: checkout.DefaultProduct()}

	if err := r.ParseForm(); err != nil {
		data.Error = "Invalid form data"
		h.renderConfirmation(w, r, http.StatusBadRequest, data)
		return
	}
	data.Agreed = r.FormValue("agree") == "on"
	if !data.Agreed {
		data.Error = msgConsentRequired
		h.renderConfirmation(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	id := middleware.GetIdentity(r)
	if id == nil {
		data.Error = checkout.ErrNotAuthenticated.Error()
		h.renderConfirmation(w, r, http.StatusUnauthorized, data)
		return
	}

	if h.tokens == nil || !h.client.Configured() {
		slog.Warn("checkout attempted without proxy configuration", "user_id", id.ID, "category", model.EventCategoryCheckout)
		data.Error = msgCheckoutUnavailable
		h.renderConfirmation(w, r, http.StatusServiceUnavailable, data)
		return
	}

	bearer, err := h.tokens.Issue(strconv.FormatInt(id.ID, 10), id.Email)
	if err != nil {
		slog.Error("failed to mint checkout token", "error", err, "user_id", id.ID)
		data.Error = msgCheckoutRetry
		h.renderConfirmation(w, r, http.StatusInternalServerError, data)
		return
	}

	sess, err := h.client.CreateSession(r.Context(), bearer, checkout.NewRequest(data.Product, h.baseURL))
	if err != nil {
		slog.Warn("checkout session failed", "error", err, "user_id", id.ID, "category", model.EventCategoryCheckout)
		data.Error = checkoutErrorMessage(err)
		h.renderConfirmation(w, r, http.StatusBadGateway, data)
		return
	}

	h.logCheckout(r.Context(), model.EventLevelInfo, "Checkout session created", map[string]any{
		"user_id":    id.ID,
		"session_id": sess.SessionID,
		"price_id":   data.Product.PriceID,
	})
	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}

func (h *CheckoutHandler) renderConfirmation(w http.ResponseWriter, r *http.Request, status int, data ConfirmationData) {
	renderPage(w, r, h.renderer, status, "pages/checkout_confirmation", pageData(r, "Confirm Your Order", data))
}

// checkoutErrorMessage picks the text shown for a failed checkout.
func checkoutErrorMessage(err error) string {
	var perr *checkout.ProxyError
	switch {
	case errors.As(err, &perr):
		return perr.Message
	case errors.Is(err, checkout.ErrNotConfigured):
		return msgCheckoutUnavailable
	case errors.Is(err, checkout.ErrCheckoutFailed):
		return checkout.ErrCheckoutFailed.Error()
	default:
		return msgCheckoutRetry
	}
}

// CompletionRequest is posted by the payment proxy once a checkout finished.
type CompletionRequest struct {
	UserID            int64  `json:"user_id"`
	CheckoutSessionID string `json:"checkout_session_id"`
	PaymentIntentID   string `json:"payment_intent_id"`
	CustomerID        string `json:"customer_id"`
	AmountTotal       int64  `json:"amount_total"`
	Currency          string `json:"currency"`
	PaymentStatus     string `json:"payment_status"`
}

// Completed records an order and grants access for paid checkouts. Replays
// of a checkout session are acknowledged without side effects.
// POST /hooks/checkout-completed
func (h *CheckoutHandler) Completed(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "checkout is not configured")
		return
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	claims, err := h.tokens.Verify(raw)
	if err != nil || claims.Subject != auth.ProxySubject {
		slog.Warn("rejected checkout completion", "error", err, "category", model.EventCategoryCheckout)
		writeJSONError(w, http.StatusUnauthorized, "invalid bearer token")
		return
	}

	var req CompletionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 || req.CheckoutSessionID == "" || req.PaymentStatus == "" {
		writeJSONError(w, http.StatusBadRequest, "user_id, checkout_session_id and payment_status are required")
		return
	}

	ctx := r.Context()
	if _, err := h.queries.GetOrderByCheckoutSession(ctx, req.CheckoutSessionID); err == nil {
		writeJSONSuccess(w, map[string]any{"duplicate": true})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to look up order", "error", err, "session_id", req.CheckoutSessionID)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := h.queries.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "unknown user")
			return
		}
		slog.Error("failed to look up user", "error", err, "user_id", req.UserID)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	now := h.now().UTC()
	orderStatus := "pending"
	if req.PaymentStatus == PaymentStatusPaid {
		orderStatus = "completed"
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = strings.ToLower(checkout.DefaultProduct().Currency)
	}

	order, err := h.queries.CreateOrder(ctx, store.CreateOrderParams{
		UserID:            req.UserID,
		CheckoutSessionID: req.CheckoutSessionID,
		PaymentIntentID:   req.PaymentIntentID,
		CustomerID:        req.CustomerID,
		AmountTotal:       req.AmountTotal,
		Currency:          currency,
		PaymentStatus:     req.PaymentStatus,
		OrderStatus:       orderStatus,
		OrderDate:         now,
	})
	if err != nil {
		// a concurrent replay won the insert
		if _, lookupErr := h.queries.GetOrderByCheckoutSession(ctx, req.CheckoutSessionID); lookupErr == nil {
			writeJSONSuccess(w, map[string]any{"duplicate": true})
			return
		}
		slog.Error("failed to record order", "error", err, "session_id", req.CheckoutSessionID)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	granted := false
	if req.PaymentStatus == PaymentStatusPaid {
		granted, err = h.access.Grant(ctx, req.UserID, req.CustomerID, now)
		if err != nil {
			slog.Error("failed to grant access", "error", err, "user_id", req.UserID, "order_id", order.ID)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	h.logCheckout(ctx, model.EventLevelInfo, "Checkout completed", map[string]any{
		"user_id":        req.UserID,
		"order_id":       order.ID,
		"payment_status": req.PaymentStatus,
		"granted":        granted,
	})
	writeJSONSuccess(w, map[string]any{"order_id": order.ID, "granted": granted})
}

func (h *CheckoutHandler) logCheckout(ctx context.Context, level, message string, md map[string]any) {
	if h.eventService == nil {
		return
	}
	_ = h.eventService.LogCheckoutEvent(ctx, level, message, md)
}
