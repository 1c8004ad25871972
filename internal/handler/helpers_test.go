// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ybeyene15/SiteSolveTrade/internal/access"
	"github.com/ybeyene15/SiteSolveTrade/internal/auth"
	"github.com/ybeyene15/SiteSolveTrade/internal/cache"
	"github.com/ybeyene15/SiteSolveTrade/internal/checkout"
	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/mailer"
	"github.com/ybeyene15/SiteSolveTrade/internal/middleware"
	"github.com/ybeyene15/SiteSolveTrade/internal/render"
	"github.com/ybeyene15/SiteSolveTrade/internal/service"
	"github.com/ybeyene15/SiteSolveTrade/internal/store"
	"github.com/ybeyene15/SiteSolveTrade/internal/testutil"
	"github.com/ybeyene15/SiteSolveTrade/internal/version"
	"github.com/ybeyene15/SiteSolveTrade/web"
)

const (
	testBaseURL     = "http://site.test"
	testProxySecret = "proxy-secret-for-handler-tests-0123456789"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "email_123", nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// testApp runs the full router behind an httptest server. The client keeps
// cookies and never follows redirects.
type testApp struct {
	t      *testing.T
	db     *sql.DB
	srv    *httptest.Server
	client *http.Client
	sender *fakeSender
	tokens *auth.TokenIssuer
}

type appOption func(*Deps)

func withCheckoutProxy(endpoint string) appOption {
	return func(d *Deps) { d.Checkout = checkout.NewClient(endpoint) }
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	db := testutil.TestDB(t)
	sm := testutil.Sessions(db)
	provider := identity.NewProvider(db, sm)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm})
	require.NoError(t, err)
	legalFS, err := fs.Sub(web.Content, "content")
	require.NoError(t, err)
	staticFS, err := fs.Sub(web.Static, "static/dist")
	require.NoError(t, err)

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	resolver := access.NewResolver(store.New(db), c, time.Minute, testutil.DiscardLogger())
	sub := resolver.Watch(provider)
	t.Cleanup(sub.Unsubscribe)

	tokens, err := auth.NewTokenIssuer(testProxySecret, 0)
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})
	t.Cleanup(lp.Close)

	logger := testutil.DiscardLogger()
	sender := &fakeSender{}

	d := Deps{
		DB:              db,
		Sessions:        sm,
		Renderer:        renderer,
		Provider:        provider,
		Access:          resolver,
		Cache:           c,
		Hero:            service.NewHeroEditor(db),
		Services:        service.NewServiceEditor(db),
		Quotes:          service.NewQuoteService(db, sender, mailer.QuoteFrom, "owner@site.test", logger),
		Events:          service.NewEventService(db, logger),
		Checkout:        checkout.NewClient(""),
		Tokens:          tokens,
		LoginProtection: lp,
		QuoteStatus: QuoteFunctionStatus{
			ResendAPIKeyConfigured: true,
			AdminEmailConfigured:   true,
			Transport:              "resend",
		},
		CSRF:          middleware.DefaultCSRFConfig([]byte(testProxySecret), testBaseURL, true),
		Legal:         legalFS,
		Static:        staticFS,
		BaseURL:       testBaseURL,
		Version:       version.Info{Version: "test"},
		IsDevelopment: true,
	}
	for _, opt := range opts {
		opt(&d)
	}

	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		t:   t,
		db:  db,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		sender: sender,
		tokens: tokens,
	}
}

func (a *testApp) do(req *http.Request) *http.Response {
	a.t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *testApp) request(method, path string, body io.Reader, header http.Header) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	require.NoError(a.t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	return a.do(req)
}

func (a *testApp) get(path string) *http.Response {
	a.t.Helper()
	return a.request(http.MethodGet, path, nil, nil)
}

func (a *testApp) postForm(path string, form url.Values) *http.Response {
	a.t.Helper()
	return a.request(http.MethodPost, path, strings.NewReader(form.Encode()), http.Header{
		"Content-Type": {"application/x-www-form-urlencoded"},
	})
}

func (a *testApp) sendJSON(method, path string, v any, header http.Header) *http.Response {
	a.t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(a.t, err)
	h := http.Header{"Content-Type": {"application/json"}}
	for k, vals := range header {
		h[k] = vals
	}
	return a.request(method, path, strings.NewReader(string(raw)), h)
}

// signIn posts the visitor sign-in form and expects a redirect.
func (a *testApp) signIn(email, password string) {
	a.t.Helper()
	resp := a.postForm(RouteLogin, url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
