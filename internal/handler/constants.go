// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteLogin is the customer sign-in page.
	RouteLogin = "/login"
	// RouteSignup is the customer registration page.
	RouteSignup = "/signup"
	// RouteLogout ends the customer session.
	RouteLogout = "/logout"
	// RoutePricing lists the catalog.
	RoutePricing = "/pricing"
	// RouteCheckoutConfirmation is the review and consent step before payment.
	RouteCheckoutConfirmation = "/checkout-confirmation"
	// RouteSuccess is the payment provider's return page.
	RouteSuccess = "/success"
	// RouteAccount shows orders and access for the signed-in customer.
	RouteAccount = "/account"
	// RouteDashboard is the paid area.
	RouteDashboard = "/dashboard"
	// RouteCookieSettings manages consent choices.
	RouteCookieSettings = "/cookie-settings"
	// RouteQuote accepts the home page quote form.
	RouteQuote = "/quote"
	// RoutePrivacyPolicy and RouteTermsOfService are rendered from markdown.
	RoutePrivacyPolicy  = "/privacy-policy"
	RouteTermsOfService = "/terms-of-service"

	RouteAdmin            = "/admin"
	RouteAdminLogin       = "/admin/login"
	RouteAdminLogout      = "/admin/logout"
	RouteAdminHero        = "/admin/hero"
	RouteAdminServices    = "/admin/services"
	RouteAdminAPIServices = "/admin/api/services"

	// RouteQuoteFunction is the JSON e-mail function used by external forms.
	RouteQuoteFunction = "/functions/v1/send-quote-email"
	// RouteQuoteFunctionTest reports whether the function is configured.
	RouteQuoteFunctionTest = RouteQuoteFunction + "/test"
	// RouteCheckoutCompleted receives completed payments from the proxy.
	RouteCheckoutCompleted = "/hooks/checkout-completed"

	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	RouteHealth      = "/health"
	RouteHealthLive  = "/health/live"
	RouteHealthReady = "/health/ready"
)

// Flash message types understood by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Form values.
const (
	FormFrom             = "from"
	FormInitiateCheckout = "initiateCheckout"
)

// maxJSONBody caps request bodies of JSON endpoints.
const maxJSONBody = 64 << 10
