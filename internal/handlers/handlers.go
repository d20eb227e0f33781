// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the recipe site: the
// public recipe pages, author registration and login, the author dashboard,
// and optional two-factor authentication.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/models"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/storage"
)

// Paths the handlers redirect to.
const (
	loginPath      = middleware.LoginPath
	dashboardPath  = "/authors/dashboard"
	twoFASetupPath = "/authors/2fa/setup"
	twoFAVerify    = middleware.TwoFAVerifyPath
)

// Sessions is the part of the session store used by the handlers.
// *session.Store satisfies it.
type Sessions interface {
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f session.Flash) error
}

// CategoryLister lists the categories shown in the navigation bar.
// *store.CategoryStore satisfies it.
type CategoryLister interface {
	List() ([]models.Category, error)
}

// Listing configures the paginated recipe lists.
type Listing struct {
	PerPage int // recipes per page
	Window  int // page links shown
}

// navCategories returns the categories that currently hold published
// recipes. A lookup failure only hides the navigation.
func navCategories(categories CategoryLister) []models.Category {
	if categories == nil {
		return nil
	}
	all, err := categories.List()
	if err != nil {
		slog.Warn("list categories failed", "error", err)
		return nil
	}
	var nav []models.Category
	for _, c := range all {
		if c.RecipeCount > 0 {
			nav = append(nav, c)
		}
	}
	return nav
}

// resolveCovers fills CoverURL for recipes that have an uploaded cover.
func resolveCovers(storageClient *storage.Client, recipes []models.Recipe) {
	for i := range recipes {
		resolveCover(storageClient, &recipes[i])
	}
}

func resolveCover(storageClient *storage.Client, r *models.Recipe) {
	if storageClient == nil || r.CoverKey == nil {
		return
	}
	r.CoverURL = storageClient.FileURL(*r.CoverKey)
}

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// flash queues a message for the next page. Failures are logged only.
func flash(sessions Sessions, w http.ResponseWriter, r *http.Request, typ, msg string) {
	if err := sessions.AddFlash(r.Context(), w, r, session.Flash{Type: typ, Message: msg}); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}
