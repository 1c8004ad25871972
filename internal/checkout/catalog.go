// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package checkout holds the product catalog and the client for the hosted
// checkout proxy.
package checkout

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Checkout modes understood by the proxy.
const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// Product is a purchasable package.
type Product struct {
	ID          string
	PriceID     string
	Name        string
	Description string
	Price       float64
	Currency    string
	Mode        string
	Features    []string
}

// Products is the catalog in display order.
var Products = []Product{
	{
		ID:          "prod_TERsCwnLQvOp2c",
		PriceID:     "price_1SHyzCLvKKCQbcJoDggnWmYA",
		Name:        "Complete Website Package",
		Description: "Rooted in your vision, built to bloom. This package delivers a handcrafted website with seamless design, responsive layout, and all the essentials to help your brand flourish online.",
		Price:       499.99,
		Currency:    "usd",
		Mode:        ModePayment,
		Features: []string{
			"Multiple custom pages (Home, About, Contact)",
			"Mobile-responsive design",
			"Basic SEO setup",
			"Contact form integration",
			"Domain connection (client provides domain)",
			"1 revision round",
			"Delivered ready to launch",
		},
	},
}

// DefaultProduct is the package offered on the pricing page.
func DefaultProduct() Product {
	return Products[0]
}

// ProductByID looks a product up by its product id.
func ProductByID(id string) (Product, bool) {
	for _, p := range Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductByPriceID looks a product up by its price id.
func ProductByPriceID(priceID string) (Product, bool) {
	for _, p := range Products {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Product{}, false
}

var printer = message.NewPrinter(language.AmericanEnglish)

var symbols = map[currency.Unit]string{
	currency.USD: "$",
	currency.EUR: "€",
	currency.GBP: "£",
}

// FormatPrice renders amount in the given ISO currency, e.g. "$499.99".
// Unknown currencies are prefixed with their upper-cased code.
func FormatPrice(amount float64, iso string) string {
	num := printer.Sprintf("%.2f", amount)
	unit, err := currency.ParseISO(strings.ToUpper(iso))
	if err != nil {
		return strings.ToUpper(iso) + " " + num
	}
	if sym, ok := symbols[unit]; ok {
		return sym + num
	}
	return unit.String() + " " + num
}

// PriceParts splits a formatted price into its whole and fractional parts,
// e.g. "$499" and ".99".
func PriceParts(amount float64, iso string) (whole, frac string) {
	s := FormatPrice(amount, iso)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// DisplayPrice formats p's price.
func (p Product) DisplayPrice() string {
	return FormatPrice(p.Price, p.Currency)
}

// IsOneTime reports whether the product is a single payment.
func (p Product) IsOneTime() bool {
	return p.Mode == ModePayment
}
