// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mileusna/useragent"

	"github.com/ybeyene15/SiteSolveTrade/internal/gate"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/model"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
)

const (
	msgPasswordsMismatch = "Passwords do not match"
	msgUnexpected        = "An unexpected error occurred. Please try again."
	msgSignedOut         = "You have been signed out."
	msgAccountCreated    = "Account created. Welcome!"
)

// AuthHandler handles customer sign-in, sign-up and sign-out.
type AuthHandler struct {
	provider        *identity.Provider
	renderer        *render.Renderer
	loginProtection *middleware.LoginProtection
	eventService    *service.EventService
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(provider *identity.Provider, renderer *render.Renderer, lp *middleware.LoginProtection, events *service.EventService) *AuthHandler {
	return &AuthHandler{
		provider:        provider,
		renderer:        renderer,
		loginProtection: lp,
		eventService:    events,
	}
}

// AuthFormData is passed to the sign-in and sign-up templates.
type AuthFormData struct {
	From             string
	InitiateCheckout bool
	LoginURL         string
	SignupURL        string
}

func newAuthFormData(from string, initiateCheckout bool) AuthFormData {
	if !gate.IsLocalPath(from) {
		from = ""
	}
	return AuthFormData{
		From:             from,
		InitiateCheckout: initiateCheckout,
		LoginURL:         authURL(RouteLogin, from, initiateCheckout),
		SignupURL:        authURL(RouteSignup, from, initiateCheckout),
	}
}

// authURL carries the resume parameters between the auth pages.
func authURL(path, from string, initiateCheckout bool) string {
	q := url.Values{}
	if gate.IsLocalPath(from) {
		q.Set(FormFrom, from)
	}
	if initiateCheckout {
		q.Set(FormInitiateCheckout, "true")
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// postAuthTarget is where a visitor lands after signing in or up. A pending
// checkout wins over from.
func postAuthTarget(from string, initiateCheckout bool) string {
	if initiateCheckout {
		return RouteCheckoutConfirmation
	}
	return gate.SafeRedirect(from, RouteRoot)
}

func resumeParams(r *http.Request) (string, bool) {
	return r.FormValue(FormFrom), r.FormValue(FormInitiateCheckout) == "true"
}

// LoginForm renders the sign-in page.
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	from, initiate := resumeParams(r)
	if middleware.GetIdentity(r) != nil {
		http.Redirect(w, r, postAuthTarget(from, initiate), http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/login",
		pageData(r, "Sign In", newAuthFormData(from, initiate)))
}

// Login handles the sign-in form submission.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteLogin, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	from, initiate := resumeParams(r)
	back := authURL(RouteLogin, from, initiate)
	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logAuth(r, model.EventLevelWarning, "Sign-in attempt on locked account", map[string]any{"email": email, "ip": clientIP})
			flashError(w, r, h.renderer, back, fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	id, err := h.provider.SignIn(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidCredentials) {
			slog.Error("sign-in failed", "error", err)
			flashError(w, r, h.renderer, back, msgUnexpected)
			return
		}
		h.logAuth(r, model.EventLevelWarning, "Sign-in failed", map[string]any{"email": email, "ip": clientIP})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, back, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
				return
			}
		}
		flashError(w, r, h.renderer, back, err.Error())
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	slog.Info("user signed in", "user_id", id.ID)
	h.logAuth(r, model.EventLevelInfo, "User signed in", signInMetadata(r, id))

	http.Redirect(w, r, postAuthTarget(from, initiate), http.StatusSeeOther)
}

// SignupForm renders the registration page.
// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	from, initiate := resumeParams(r)
	if middleware.GetIdentity(r) != nil {
		http.Redirect(w, r, postAuthTarget(from, initiate), http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/signup",
		pageData(r, "Create Account", newAuthFormData(from, initiate)))
}

// Signup handles the registration form submission.
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteSignup, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	from, initiate := resumeParams(r)
	back := authURL(RouteSignup, from, initiate)

	if password != r.FormValue("confirm_password") {
		flashError(w, r, h.renderer, back, msgPasswordsMismatch)
		return
	}

	id, err := h.provider.SignUp(r.Context(), email, password)
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			flashError(w, r, h.renderer, back, verr.First())
		case errors.Is(err, identity.ErrEmailTaken):
			flashError(w, r, h.renderer, back, err.Error())
		default:
			slog.Error("sign-up failed", "error", err)
			flashError(w, r, h.renderer, back, msgUnexpected)
		}
		return
	}

	slog.Info("user signed up", "user_id", id.ID)
	h.logAuth(r, model.EventLevelInfo, "User signed up", signInMetadata(r, id))

	flashSuccess(w, r, h.renderer, postAuthTarget(from, initiate), msgAccountCreated)
}

// Logout ends the session.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	if err := h.provider.SignOut(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	if userID > 0 {
		h.logAuth(r, model.EventLevelInfo, "User signed out", map[string]any{"user_id": userID})
	}

	flashAndRedirect(w, r, h.renderer, RouteRoot, msgSignedOut, FlashInfo)
}

func (h *AuthHandler) logAuth(r *http.Request, level, message string, md map[string]any) {
	if h.eventService == nil {
		return
	}
	_ = h.eventService.LogAuthEvent(r.Context(), level, message, md)
}

// signInMetadata describes the client that signed in.
func signInMetadata(r *http.Request, id *identity.Identity) map[string]any {
	ua := useragent.Parse(r.UserAgent())
	return map[string]any{
		"user_id": id.ID,
		"ip":      middleware.GetClientIP(r),
		"browser": ua.Name,
		"os":      ua.OS,
		"device":  deviceType(ua),
	}
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
