// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the recipe site.
// Every page is parsed together with the base layout and the shared
// partials, and is executed into a buffer first so a template error never
// leaves a half-written response.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/models"
	"github.com/LuisFCaretta/site-receitas/internal/session"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title      string            // Page title for <title> tag
	Search     string            // Term echoed back into the header search box
	Session    *session.Data     // Current session (nil for anonymous visitors)
	CSRFToken  string            // CSRF token for forms
	Flashes    []session.Flash   // One-time notification messages
	Categories []models.Category // Category navigation
	Data       map[string]any    // Page-specific data
}

// FlashSource hands out and clears pending flash messages.
// *session.Store satisfies it.
type FlashSource interface {
	PopFlashes(ctx context.Context, r *http.Request) ([]session.Flash, error)
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashSource
}

// funcMap holds the helpers available to every template.
var funcMap = template.FuncMap{
	// deref safely dereferences a string pointer for use in templates.
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"uuidStr": func(id *uuid.UUID) string {
		if id == nil {
			return ""
		}
		return id.String()
	},
	// uuidEq compares a *uuid.UUID pointer with a uuid.UUID value.
	"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
		return ptr != nil && *ptr == val
	},
	"date": func(t time.Time) string {
		return t.Format("02/01/2006 at 15:04")
	},
	"year": func() int {
		return time.Now().Year()
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page template is paired with the base layout and the
// partials. flashes may be nil, in which case pending flashes are left in
// the session.
func New(flashes FlashSource) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   flashes,
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		if name == "base" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/partials/*.html", page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Bytes executes a page into memory. Used by the page cache, which stores
// the exact HTML sent to anonymous visitors.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Prepare fills the request-scoped fields of data: the session, the CSRF
// token and any pending flash messages.
func (rn *Renderer) Prepare(r *http.Request, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	if rn.flashes != nil && data.Session != nil && len(data.Session.Flashes) > 0 {
		flashes, err := rn.flashes.PopFlashes(r.Context(), r)
		if err != nil {
			slog.Warn("pop flashes failed", "error", err)
		}
		data.Flashes = append(data.Flashes, flashes...)
	}
}

// Page renders a full page with the given status code.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	rn.Prepare(r, data)

	html, err := rn.Bytes(name, data)
	if err != nil {
		slog.Error("render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	Write(w, status, html)
}

// NotFound renders the 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Page(w, r, http.StatusNotFound, "not_found", &PageData{Title: "Page not found"})
}

// ServerError logs err and renders the 500 page.
func (rn *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	rn.Page(w, r, http.StatusInternalServerError, "error", &PageData{Title: "Error"})
}

// Write sends already rendered HTML.
func Write(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}
