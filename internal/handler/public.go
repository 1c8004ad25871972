// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
)

// cookiePreferencesMaxAge keeps consent choices for a year.
const cookiePreferencesMaxAge = 365 * 24 * 60 * 60

// PublicHandler serves the marketing pages and the home page quote form.
type PublicHandler struct {
	renderer      *render.Renderer
	hero          *service.HeroEditor
	services      *service.ServiceEditor
	quotes        *service.QuoteService
	legal         fs.FS
	secureCookies bool
	now           func() time.Time
}

// NewPublicHandler creates a PublicHandler. legal holds the markdown sources
// of the legal pages.
func NewPublicHandler(renderer *render.Renderer, hero *service.HeroEditor, services *service.ServiceEditor,
	quotes *service.QuoteService, legal fs.FS, secureCookies bool) *PublicHandler {
	return &PublicHandler{
		renderer:      renderer,
		hero:          hero,
		services:      services,
		quotes:        quotes,
		legal:         legal,
		secureCookies: secureCookies,
		now:           time.Now,
	}
}

// HomeData is passed to the home page template.
type HomeData struct {
	Hero     model.Hero
	Services []model.ServiceEntry
	Product  checkout.Product
}

// Home renders the landing page. Content failures fall back to defaults.
// GET /
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Load(r.Context())
	if err != nil {
		slog.Error("failed to load hero section", "error", err)
	}

	services, err := h.services.ListActive(r.Context())
	if err != nil {
		slog.Error("failed to load services", "error", err)
	}

	renderPage(w, r, h.renderer, http.StatusOK, "pages/home", pageData(r, "", HomeData{
		Hero:     hero,
		Services: services,
		Product:  checkout.DefaultProduct(),
	}))
}

// SubmitQuote handles the home page quote form.
// POST /quote
func (h *PublicHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	const back = RouteRoot + "#quote"
	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	q := model.QuoteRequest{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Company: r.FormValue("company"),
		Message: r.FormValue("message"),
	}

	if _, err := h.quotes.Submit(r.Context(), q); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			flashError(w, r, h.renderer, back, verr.First())
			return
		}
		flashError(w, r, h.renderer, back, service.ErrQuoteNotSent.Error())
		return
	}

	flashSuccess(w, r, h.renderer, back, service.QuoteSubmitted)
}

// Pricing renders the catalog.
// GET /pricing
func (h *PublicHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "pages/pricing",
		pageData(r, "Pricing", checkout.Products))
}

// Success renders the post-payment thank-you page.
// GET /success
func (h *PublicHandler) Success(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "pages/success",
		pageData(r, "Thank You", r.URL.Query().Get("session_id")))
}

// LegalData is passed to the legal page template.
type LegalData struct {
	Body template.HTML
}

// Legal returns a handler rendering the markdown document name.
func (h *PublicHandler) Legal(title, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := fs.ReadFile(h.legal, name)
		if err != nil {
			logAndInternalError(w, "failed to read legal page", "page", name, "error", err)
			return
		}
		body, err := render.Markdown(src)
		if err != nil {
			logAndInternalError(w, "failed to render legal page", "page", name, "error", err)
			return
		}
		renderPage(w, r, h.renderer, http.StatusOK, "pages/legal",
			pageData(r, title, LegalData{Body: body}))
	}
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "pages/not_found",
		pageData(r, "Page Not Found", nil))
}

// CookieSettings renders the consent form with the stored choices.
// GET /cookie-settings
func (h *PublicHandler) CookieSettings(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "pages/cookie_settings",
		pageData(r, "Cookie Settings", readCookiePreferences(r)))
}

// SaveCookieSettings stores the visitor's choice.
// POST /cookie-settings
func (h *PublicHandler) SaveCookieSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteCookieSettings) {
		return
	}

	var prefs model.CookiePreferences
	switch r.FormValue("action") {
	case "accept-all":
		prefs = model.NewCookiePreferences(true, true, true, h.now())
	case "reject-all":
		prefs = model.NewCookiePreferences(false, false, false, h.now())
	case "save":
		prefs = model.NewCookiePreferences(
			r.FormValue("performance") == "on",
			r.FormValue("functional") == "on",
			r.FormValue("marketing") == "on",
			h.now(),
		)
	default:
		flashError(w, r, h.renderer, RouteCookieSettings, "Unknown action")
		return
	}

	value, err := prefs.Encode()
	if err != nil {
		logAndInternalError(w, "failed to encode cookie preferences", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     model.CookiePreferencesName,
		Value:    value,
		Path:     "/",
		MaxAge:   cookiePreferencesMaxAge,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	flashSuccess(w, r, h.renderer, RouteCookieSettings, "Your cookie preferences have been saved.")
}

func readCookiePreferences(r *http.Request) model.CookiePreferences {
	c, err := r.Cookie(model.CookiePreferencesName)
	if err != nil {
		return model.DefaultCookiePreferences()
	}
	return model.ParseCookiePreferences(c.Value)
}
