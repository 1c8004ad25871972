// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/ybeyene15/SiteSolveTrade/internal/identity"
	"github.com/ybeyene15/SiteSolveTrade/internal/session"
	"github.com/ybeyene15/SiteSolveTrade/internal/testutil"
)

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no blank lines", "line1\nline2\nline3", "line1\nline2\nline3"},
		{"one blank line (two newlines)", "line1\n\nline2", "line1\nline2"},
		{"two blank lines (three newlines)", "line1\n\n\nline2", "line1\nline2"},
		{"blank lines with spaces", "line1\n  \n\t\nline2", "line1\nline2"},
		{"windows line endings", "line1\r\n\r\n\r\nline2", "line1\nline2"},
		{"mixed line endings", "line1\n\r\n\nline2", "line1\nline2"},
		{"blank lines at start", "\n\n\nline1\nline2", "\nline1\nline2"},
		{"blank lines at end", "line1\nline2\n\n\n", "line1\nline2\n"},
		{"indented content kept", "a\n    b", "a\n    b"},
		{"empty input", "", ""},
		{"only newlines", "\n\n\n\n", "\n"},
		{"html with blank lines", "<div>\n\n\n<p>text</p>\n\n\n</div>", "<div>\n<p>text</p>\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			if got != tt.expected {
				t.Errorf("blankLinesRegex.ReplaceAll(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>
{{template "flash" .}}

{{if .User}}<span class="who">{{.User.Email}}</span>{{end}}
{{block "layout" .}}{{template "content" .}}{{end}}
<footer>{{.CurrentYear}}</footer>{{end}}`)},
		"layouts/admin.html":   {Data: []byte(`{{define "layout"}}<nav class="admin">{{.CurrentPath}}</nav>{{template "content" .}}{{end}}`)},
		"partials/flash.html":  {Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="flash flash-{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}<h1>{{.Data}}</h1>{{end}}`)},
		"auth/login.html":      {Data: []byte(`{{define "content"}}<form></form>{{end}}`)},
		"admin/dashboard.html": {Data: []byte(`{{define "content"}}<h1>admin</h1>{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestNew_RegistersGroups(t *testing.T) {
	r := newTestRenderer(t, nil)
	for _, name := range []string{"pages/home", "auth/login", "admin/dashboard"} {
		if !r.Has(name) {
			t.Errorf("template %s not registered", name)
		}
	}
	if r.Has("pages/missing") {
		t.Error("unexpected template pages/missing")
	}
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(w, req, "pages/home", TemplateData{
		Title: "Home",
		Data:  "<b>Hi</b>",
		User:  &identity.Identity{ID: 1, Email: "a@example.com"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"<title>Home</title>", "<h1>&lt;b&gt;Hi&lt;/b&gt;</h1>", `<span class="who">a@example.com</span>`, "<footer>2026</footer>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "\n\n") {
		t.Errorf("body keeps blank lines:\n%q", body)
	}
}

func TestRenderStatus_AdminLayout(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if err := r.RenderStatus(w, req, http.StatusTeapot, "admin/dashboard", TemplateData{}); err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `<nav class="admin">/admin</nav>`) {
		t.Errorf("admin layout missing:\n%s", w.Body.String())
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)
	w := httptest.NewRecorder()
	err := r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), "pages/nope", TemplateData{})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if w.Body.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestRender_PopsFlash(t *testing.T) {
	sm := testutil.Sessions(testutil.MemDB(t))
	r := newTestRenderer(t, sm)
	ctx := testutil.SessionContext(t, sm)

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	r.SetFlash(req, "Saved", "success")

	w := httptest.NewRecorder()
	if err := r.Render(w, req, "pages/home", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(w.Body.String(), `<div class="flash flash-success">Saved</div>`) {
		t.Errorf("flash not rendered:\n%s", w.Body.String())
	}
	if sm.Exists(ctx, session.KeyFlash) {
		t.Error("flash should be consumed")
	}

	// default flash type
	sm.Put(ctx, session.KeyFlash, "Note")
	w = httptest.NewRecorder()
	_ = r.Render(w, req.WithContext(ctx), "pages/home", TemplateData{})
	if !strings.Contains(w.Body.String(), "flash-info") {
		t.Errorf("default flash type missing:\n%s", w.Body.String())
	}
}

func TestNew_BadTemplate(t *testing.T) {
	fsys := testFS()
	fsys["pages/broken.html"] = &fstest.MapFile{Data: []byte(`{{define "content"}}{{.Title`)}
	if _, err := New(Config{TemplatesFS: fsys}); err == nil {
		t.Fatal("expected parse error")
	}
}

