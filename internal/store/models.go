// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Metadata     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSignInAt sql.NullTime
}

type UserAccess struct {
	UserID           int64
	HasPaidAccess    bool
	PaymentDate      sql.NullTime
	StripeCustomerID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Order struct {
	ID                int64
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

type Subscription struct {
	UserID             int64
	CustomerID         string
	SubscriptionID     string
	PriceID            string
	SubscriptionStatus string
	CurrentPeriodStart sql.NullTime
	CurrentPeriodEnd   sql.NullTime
	CancelAtPeriodEnd  bool
	PaymentMethodBrand string
	PaymentMethodLast4 string
}

type HeroSection struct {
	ID                  int64
	MainHeadline        string
	SubHeadline         string
	BadgeText           string
	PrimaryButtonText   string
	SecondaryButtonText string
	IsPublished         bool
	UpdatedAt           time.Time
	UpdatedBy           sql.NullInt64
}

type ServiceContent struct {
	ID           string
	Title        string
	Description  string
	IconName     string
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UpdatedBy    sql.NullInt64
}

type QuoteRequest struct {
	ID        string
	Name      string
	Email     string
	Phone     sql.NullString
	Company   sql.NullString
	Message   string
	CreatedAt time.Time
}

type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
