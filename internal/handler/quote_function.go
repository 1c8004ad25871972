// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
)

// QuoteFunctionStatus reports which settings the e-mail function has. It
// never carries the values themselves.
type QuoteFunctionStatus struct {
	ResendAPIKeyConfigured bool   `json:"resendApiKeyConfigured"`
	AdminEmailConfigured   bool   `json:"adminEmailConfigured"`
	SMTPConfigured         bool   `json:"smtpConfigured"`
	Transport              string `json:"transport"`
}

// QuoteFunctionHandler is the cross-origin JSON endpoint that e-mails quote
// requests to the site owner.
type QuoteFunctionHandler struct {
	quotes *service.QuoteService
	status QuoteFunctionStatus
}

// NewQuoteFunctionHandler creates a QuoteFunctionHandler.
func NewQuoteFunctionHandler(quotes *service.QuoteService, status QuoteFunctionStatus) *QuoteFunctionHandler {
	return &QuoteFunctionHandler{quotes: quotes, status: status}
}

// CORS allows the function to be called from any origin.
func (h *QuoteFunctionHandler) CORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{
			"Content-Type",
			"Authorization",
			"X-Client-Info",
			"Apikey",
		}),
	)
}

// Preflight answers OPTIONS requests that reach the router.
func (h *QuoteFunctionHandler) Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Send e-mails the posted quote request.
// POST /functions/v1/send-quote-email
func (h *QuoteFunctionHandler) Send(w http.ResponseWriter, r *http.Request) {
	var q model.QuoteRequest
	if err := decodeJSON(w, r, &q); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, emailID, err := h.quotes.Notify(r.Context(), q)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusBadRequest, verr.First())
			return
		}
		slog.Error("error sending quote email", "error", err, "category", model.EventCategoryQuote)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSONSuccess(w, map[string]any{"emailId": emailID})
}

// Test reports whether the function's settings are present.
// GET /functions/v1/send-quote-email/test
func (h *QuoteFunctionHandler) Test(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.status)
}
