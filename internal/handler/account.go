// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

// AccessDetails answers the access predicate and loads the access record.
// *access.Resolver satisfies it.
type AccessDetails interface {
	CheckAccess(ctx context.Context, id *identity.Identity) bool
	Details(ctx context.Context, userID int64) (store.UserAccess, bool, error)
}

// AccountHandler serves the signed-in customer's pages.
type AccountHandler struct {
	renderer *render.Renderer
	queries  *store.Queries
	access   AccessDetails
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(db *sql.DB, renderer *render.Renderer, access AccessDetails) *AccountHandler {
	return &AccountHandler{
		renderer: renderer,
		queries:  store.New(db),
		access:   access,
	}
}

// AccountData is passed to the account and dashboard templates.
type AccountData struct {
	HasAccess       bool
	Orders          []store.Order
	Access          store.UserAccess
	HasAccessRecord bool
	Subscription    *store.Subscription
	Plan            *checkout.Product
}

// Account shows the profile, the access record and the order history.
// GET /account
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	data, err := h.load(r)
	if err != nil {
		logAndInternalError(w, "failed to load account", "error", err, "user_id", middleware.GetUserID(r))
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "pages/account", pageData(r, "Account Details", data))
}

// Dashboard is the paid area.
// GET /dashboard
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.load(r)
	if err != nil {
		logAndInternalError(w, "failed to load dashboard", "error", err, "user_id", middleware.GetUserID(r))
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "pages/dashboard", pageData(r, "Dashboard", data))
}

func (h *AccountHandler) load(r *http.Request) (AccountData, error) {
	ctx := r.Context()
	userID := middleware.GetUserID(r)

	var data AccountData
	var err error

	data.HasAccess = h.access.CheckAccess(ctx, middleware.GetIdentity(r))

	data.Orders, err = h.queries.ListOrdersByUser(ctx, userID)
	if err != nil {
		return data, err
	}

	data.Access, data.HasAccessRecord, err = h.access.Details(ctx, userID)
	if err != nil {
		return data, err
	}

	sub, err := h.queries.GetSubscriptionByUser(ctx, userID)
	switch {
	case err == nil:
		data.Subscription = &sub
		if p, ok := checkout.ProductByPriceID(sub.PriceID); ok {
			data.Plan = &p
		}
	case !errors.Is(err, sql.ErrNoRows):
		return data, err
	}

	// one-time purchases have no subscription row; the paid package is the plan
	if data.Plan == nil && data.HasAccess {
		p := checkout.DefaultProduct()
		data.Plan = &p
	}
	return data, nil
}
