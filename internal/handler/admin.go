// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
)

const (
	msgHeroSaved      = "Hero section updated successfully!"
	msgServicesSaved  = "Services updated successfully!"
	msgAdminSignedOut = "You have been signed out."
)

// AdminHandler serves the admin sign-in page and the content editors.
type AdminHandler struct {
	renderer        *render.Renderer
	provider        *identity.Provider
	adminAuth       *identity.AdminAuth
	checker         identity.AdminChecker
	hero            *service.HeroEditor
	services        *service.ServiceEditor
	quotes          *service.QuoteService
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// AdminDeps groups the collaborators of AdminHandler.
type AdminDeps struct {
	Renderer        *render.Renderer
	Provider        *identity.Provider
	Checker         identity.AdminChecker
	Hero            *service.HeroEditor
	Services        *service.ServiceEditor
	Quotes          *service.QuoteService
	Events          *service.EventService
	LoginProtection *middleware.LoginProtection
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(d AdminDeps) *AdminHandler {
	return &AdminHandler{
		renderer:        d.Renderer,
		provider:        d.Provider,
		adminAuth:       identity.NewAdminAuth(d.Provider, d.Checker),
		checker:         d.Checker,
		hero:            d.Hero,
		services:        d.Services,
		quotes:          d.Quotes,
		eventService:    d.Events,
		loginProtection: d.LoginProtection,
	}
}

// LoginForm renders the admin sign-in page. Administrators already signed in
// go straight to the dashboard.
// GET /admin/login
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if id := middleware.GetIdentity(r); id != nil {
		if ok, err := h.checker.IsAdmin(r.Context(), id.ID); err == nil && ok {
			http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
			return
		}
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/admin_login", pageData(r, "Admin Sign In", nil))
}

// Login signs in administrators. Wrong credentials and non-admin accounts get
// the same message; a non-admin session is ended.
// POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminLogin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logAuth(r, model.EventLevelWarning, "Admin sign-in attempt on locked account", map[string]any{"email": email, "ip": clientIP})
			flashError(w, r, h.renderer, RouteAdminLogin, fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	id, err := h.adminAuth.SignIn(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, identity.ErrAdminUnauthorized) {
			slog.Error("admin sign-in failed", "error", err)
			flashError(w, r, h.renderer, RouteAdminLogin, msgUnexpected)
			return
		}
		h.logAuth(r, model.EventLevelWarning, "Admin sign-in rejected", map[string]any{"email": email, "ip": clientIP})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, RouteAdminLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
				return
			}
		}
		flashError(w, r, h.renderer, RouteAdminLogin, err.Error())
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	slog.Info("admin signed in", "user_id", id.ID)
	h.logAuth(r, model.EventLevelInfo, "Admin signed in", signInMetadata(r, id))

	http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
}

// Logout ends the admin session.
// POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.provider.SignOut(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	if userID > 0 {
		h.logAuth(r, model.EventLevelInfo, "Admin signed out", map[string]any{"user_id": userID})
	}
	flashAndRedirect(w, r, h.renderer, RouteAdminLogin, msgAdminSignedOut, FlashInfo)
}

// DashboardData is passed to the admin dashboard template.
type DashboardData struct {
	Hero         model.Hero
	ServiceCount int
	Quotes       []store.QuoteRequest
	Events       []store.Event
}

// Dashboard shows the current content, recent quote requests and events.
// GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data DashboardData

	hero, err := h.hero.Load(ctx)
	if err != nil {
		slog.Error("failed to load hero section", "error", err)
	}
	data.Hero = hero

	if services, err := h.services.List(ctx); err != nil {
		slog.Error("failed to list services", "error", err)
	} else {
		data.ServiceCount = len(services)
	}

	if data.Quotes, err = h.quotes.Recent(ctx, 10); err != nil {
		slog.Error("failed to list quote requests", "error", err)
	}
	if data.Events, err = h.eventService.Recent(ctx, 20); err != nil {
		slog.Error("failed to list events", "error", err)
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", pageData(r, "Dashboard", data))
}

// HeroFormData is passed to the hero editor template.
type HeroFormData struct {
	Hero  model.Hero
	Error string
}

// HeroForm renders the hero editor.
// GET /admin/hero
func (h *AdminHandler) HeroForm(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Load(r.Context())
	data := HeroFormData{Hero: hero}
	if err != nil {
		slog.Error("failed to load hero section", "error", err)
		data.Error = "Failed to load the hero section. Defaults are shown."
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/hero", pageData(r, "Hero Section", data))
}

// SaveHero stores the hero section.
// POST /admin/hero
func (h *AdminHandler) SaveHero(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminHero) {
		return
	}

	id, _ := strconv.ParseInt(r.FormValue("id"), 10, 64)
	hero := model.Hero{
		ID:                  id,
		MainHeadline:        r.FormValue("main_headline"),
		SubHeadline:         r.FormValue("sub_headline"),
		BadgeText:           r.FormValue("badge_text"),
		PrimaryButtonText:   r.FormValue("primary_button_text"),
		SecondaryButtonText: r.FormValue("secondary_button_text"),
	}

	editorID := middleware.GetUserID(r)
	saved, err := h.hero.Save(r.Context(), hero, editorID)
	if err != nil {
		slog.Error("failed to save hero section", "error", err)
		data := HeroFormData{Hero: hero, Error: "Failed to save the hero section. Please try again."}
		renderPage(w, r, h.renderer, http.StatusInternalServerError, "admin/hero", pageData(r, "Hero Section", data))
		return
	}

	h.logContent(r, "Hero section updated", editorID, map[string]any{"hero_id": saved.ID})
	flashSuccess(w, r, h.renderer, RouteAdminHero, msgHeroSaved)
}

// ServicesFormData is passed to the services editor template.
type ServicesFormData struct {
	Services []model.ServiceEntry
	Icons    []model.Icon
	Error    string
}

// ServicesForm renders the services editor.
// GET /admin/services
func (h *AdminHandler) ServicesForm(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list services", "error", err)
		return
	}
	h.renderServices(w, r, http.StatusOK, ServicesFormData{Services: services})
}

// SaveServices handles the services editor. The form carries the whole
// working collection; "add" and "remove:N" edit it without saving, "save"
// reconciles it with the store.
// POST /admin/services
func (h *AdminHandler) SaveServices(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminServices) {
		return
	}

	entries, err := parseServiceForm(r)
	if err != nil {
		stored, listErr := h.services.List(r.Context())
		if listErr != nil {
			logAndInternalError(w, "failed to list services", "error", listErr)
			return
		}
		msg := msgServicesIncomplete
		if errors.Is(err, errTooManyServices) {
			msg = msgTooManyServices
		}
		slog.Warn("rejected services form", "error", err, "category", model.EventCategoryContent)
		h.renderServices(w, r, http.StatusUnprocessableEntity, ServicesFormData{Services: stored, Error: msg})
		return
	}
	action := r.FormValue("action")

	switch {
	case action == "add":
		if len(entries) >= maxServiceEntries {
			h.renderServices(w, r, http.StatusUnprocessableEntity, ServicesFormData{Services: entries, Error: msgTooManyServices})
			return
		}
		entries = append(entries, model.NewDraftEntry(entries))
		h.renderServices(w, r, http.StatusOK, ServicesFormData{Services: entries})
		return
	case strings.HasPrefix(action, "remove:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(action, "remove:"))
		if err == nil && idx >= 0 && idx < len(entries) {
			entries = append(entries[:idx], entries[idx+1:]...)
		}
		h.renderServices(w, r, http.StatusOK, ServicesFormData{Services: entries})
		return
	case action != "save":
		flashError(w, r, h.renderer, RouteAdminServices, "Unknown action")
		return
	}

	editorID := middleware.GetUserID(r)
	_, plan, err := h.services.SaveAll(r.Context(), entries, editorID)
	if err != nil {
		data := ServicesFormData{Services: entries}
		status := http.StatusUnprocessableEntity
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			data.Error = err.Error()
		} else {
			slog.Error("failed to save services", "error", err)
			data.Error = "Failed to save services. Please try again."
			status = http.StatusInternalServerError
		}
		h.renderServices(w, r, status, data)
		return
	}

	h.logContent(r, "Services updated", editorID, planMetadata(plan))
	flashSuccess(w, r, h.renderer, RouteAdminServices, msgServicesSaved)
}

func (h *AdminHandler) renderServices(w http.ResponseWriter, r *http.Request, status int, data ServicesFormData) {
	data.Icons = model.Icons
	renderPage(w, r, h.renderer, status, "admin/services", pageData(r, "Services", data))
}

// maxServiceEntries bounds the services editor's working collection.
const maxServiceEntries = 100

var (
	errServiceCount    = errors.New("missing or invalid service count")
	errTooManyServices = fmt.Errorf("more than %d services", maxServiceEntries)
)

var (
	msgServicesIncomplete = "The services form was incomplete. Nothing was saved; reload the page and try again."
	msgTooManyServices    = fmt.Sprintf("At most %d services can be saved.", maxServiceEntries)
)

// parseServiceForm reads the indexed fields id_N, title_N, description_N,
// icon_N, display_order_N and is_active_N for N below count. A missing or
// out-of-range count is an error, never an empty collection.
func parseServiceForm(r *http.Request) ([]model.ServiceEntry, error) {
	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count < 0 {
		return nil, errServiceCount
	}
	if count > maxServiceEntries {
		return nil, errTooManyServices
	}

	entries := make([]model.ServiceEntry, 0, count)
	for i := range count {
		n := strconv.Itoa(i)
		order, err := strconv.ParseInt(r.FormValue("display_order_"+n), 10, 64)
		if err != nil {
			order = int64(i + 1)
		}
		entries = append(entries, model.ServiceEntry{
			ID:           r.FormValue("id_" + n),
			Title:        r.FormValue("title_" + n),
			Description:  r.FormValue("description_" + n),
			Icon:         model.ParseIcon(r.FormValue("icon_" + n)),
			DisplayOrder: order,
			IsActive:     r.FormValue("is_active_"+n) == "on",
		})
	}
	return entries, nil
}

// ListServicesJSON returns every service entry.
// GET /admin/api/services
func (h *AdminHandler) ListServicesJSON(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		slog.Error("failed to list services", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSONSuccess(w, map[string]any{"services": nonNil(services)})
}

// SaveAllRequest is the body of PUT /admin/api/services.
type SaveAllRequest struct {
	Services []model.ServiceEntry `json:"services"`
}

// SaveServicesJSON reconciles the stored services with the posted collection.
// PUT /admin/api/services
func (h *AdminHandler) SaveServicesJSON(w http.ResponseWriter, r *http.Request) {
	var req SaveAllRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	editorID := middleware.GetUserID(r)
	saved, plan, err := h.services.SaveAll(r.Context(), req.Services, editorID)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("failed to save services", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to save services")
		return
	}

	md := planMetadata(plan)
	h.logContent(r, "Services updated", editorID, md)
	md["services"] = nonNil(saved)
	writeJSONSuccess(w, md)
}

func planMetadata(p service.Plan) map[string]any {
	return map[string]any{
		"updated":  len(p.Updates),
		"inserted": len(p.Inserts),
		"deleted":  len(p.Deletes),
	}
}

func nonNil(s []model.ServiceEntry) []model.ServiceEntry {
	if s == nil {
		return []model.ServiceEntry{}
	}
	return s
}

func (h *AdminHandler) logAuth(r *http.Request, level, message string, md map[string]any) {
	if h.eventService == nil {
		return
	}
	_ = h.eventService.LogAuthEvent(r.Context(), level, message, md)
}

func (h *AdminHandler) logContent(r *http.Request, message string, editorID int64, md map[string]any) {
	if h.eventService == nil {
		return
	}
	_ = h.eventService.LogContentEvent(r.Context(), message, editorID, md)
}
