// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const checkUserAccess = `
SELECT COALESCE((SELECT has_paid_access FROM user_access WHERE user_id = ?), 0)`

// CheckUserAccess is the access predicate: false when no access record exists.
func (q *Queries) CheckUserAccess(ctx context.Context, userID int64) (bool, error) {
	var hasAccess bool
	err := q.db.QueryRowContext(ctx, checkUserAccess, userID).Scan(&hasAccess)
	return hasAccess, err
}

const getUserAccess = `
SELECT user_id, has_paid_access, payment_date, stripe_customer_id, created_at, updated_at
FROM user_access WHERE user_id = ?`

func (q *Queries) GetUserAccess(ctx context.Context, userID int64) (UserAccess, error) {
	var a UserAccess
	err := q.db.QueryRowContext(ctx, getUserAccess, userID).Scan(
		&a.UserID,
		&a.HasPaidAccess,
		&a.PaymentDate,
		&a.StripeCustomerID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// The conflict branch only fires while access is still false, so a granted
// record is never rewritten.
const grantPaidAccess = `
INSERT INTO user_access (user_id, has_paid_access, payment_date, stripe_customer_id, created_at, updated_at)
VALUES (?, 1, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    has_paid_access = 1,
    payment_date = excluded.payment_date,
    stripe_customer_id = excluded.stripe_customer_id,
    updated_at = excluded.updated_at
WHERE user_access.has_paid_access = 0`

type GrantPaidAccessParams struct {
	UserID           int64
	PaymentDate      time.Time
	StripeCustomerID string
	Now              time.Time
}

// GrantPaidAccess flips the access flag to true. Returns false when the
// identity already had access.
func (q *Queries) GrantPaidAccess(ctx context.Context, arg GrantPaidAccessParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, grantPaidAccess,
		arg.UserID,
		arg.PaymentDate,
		arg.StripeCustomerID,
		arg.Now,
		arg.Now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const orderColumns = `id, user_id, checkout_session_id, payment_intent_id, customer_id,
amount_total, currency, payment_status, order_status, order_date`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CheckoutSessionID,
		&o.PaymentIntentID,
		&o.CustomerID,
		&o.AmountTotal,
		&o.Currency,
		&o.PaymentStatus,
		&o.OrderStatus,
		&o.OrderDate,
	)
	return o, err
}

const createOrder = `
INSERT INTO stripe_user_orders (user_id, checkout_session_id, payment_intent_id, customer_id,
    amount_total, currency, payment_status, order_status, order_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateOrderParams struct {
	UserID            int64
	CheckoutSessionID string
	PaymentIntentID   string
	CustomerID        string
	AmountTotal       int64
	Currency          string
	PaymentStatus     string
	OrderStatus       string
	OrderDate         time.Time
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	res, err := q.db.ExecContext(ctx, createOrder,
		arg.UserID,
		arg.CheckoutSessionID,
		arg.PaymentIntentID,
		arg.CustomerID,
		arg.AmountTotal,
		arg.Currency,
		arg.PaymentStatus,
		arg.OrderStatus,
		arg.OrderDate,
	)
	if err != nil {
		return Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Order{}, err
	}
	return scanOrder(q.db.QueryRowContext(ctx, getOrderByID, id))
}

const getOrderByID = `SELECT ` + orderColumns + ` FROM stripe_user_orders WHERE id = ?`

const getOrderBySession = `SELECT ` + orderColumns + ` FROM stripe_user_orders WHERE checkout_session_id = ?`

func (q *Queries) GetOrderByCheckoutSession(ctx context.Context, sessionID string) (Order, error) {
	return scanOrder(q.db.QueryRowContext(ctx, getOrderBySession, sessionID))
}

const listOrdersByUser = `
SELECT ` + orderColumns + `
FROM stripe_user_orders
WHERE user_id = ?
ORDER BY order_date DESC, id DESC`

func (q *Queries) ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := q.db.QueryContext(ctx, listOrdersByUser, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getSubscriptionByUser = `
SELECT user_id, customer_id, subscription_id, price_id, subscription_status,
    current_period_start, current_period_end, cancel_at_period_end,
    payment_method_brand, payment_method_last4
FROM stripe_user_subscriptions WHERE user_id = ?`

func (q *Queries) GetSubscriptionByUser(ctx context.Context, userID int64) (Subscription, error) {
	var s Subscription
	err := q.db.QueryRowContext(ctx, getSubscriptionByUser, userID).Scan(
		&s.UserID,
		&s.CustomerID,
		&s.SubscriptionID,
		&s.PriceID,
		&s.SubscriptionStatus,
		&s.CurrentPeriodStart,
		&s.CurrentPeriodEnd,
		&s.CancelAtPeriodEnd,
		&s.PaymentMethodBrand,
		&s.PaymentMethodLast4,
	)
	return s, err
}
