// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// recipe site. Routes are split into the public recipe pages, the authors
// area, and the dashboard, each with the middleware stack it needs.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuisFCaretta/site-receitas/internal/handlers"
	"github.com/LuisFCaretta/site-receitas/internal/metrics"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
)

// Request limits for the authors area.
const (
	maxBodySize    = 6 << 20 // cover upload plus form fields
	authRateLimit  = 10      // login/register submissions per IP
	authRateWindow = time.Minute
)

// Config carries everything New wires together.
type Config struct {
	Sessions      middleware.SessionLoader
	Recipes       *handlers.Recipes
	Authors       *handlers.Authors
	Dashboard     *handlers.Dashboard
	Static        fs.FS    // contents served under /static/, may be nil
	SecureCookies bool     // mark the CSRF cookie Secure
	ImgSources    []string // extra CSP img-src origins (the cover bucket)
}

// Router is the configured chi router plus the background resources it
// owns.
type Router struct {
	chi.Router
	limiter *middleware.RateLimiter
}

// Stop releases the router's background goroutines.
func (rt *Router) Stop() {
	rt.limiter.Stop()
}

// New creates the router with all middleware and route groups wired up.
func New(cfg Config) *Router {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(authRateLimit, authRateWindow)

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.NewSecureHeaders(cfg.ImgSources...))

	// Infrastructure endpoints: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())
	if cfg.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(cfg.Static)))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(maxBodySize))
		r.Use(middleware.LoadSession(cfg.Sessions))
		r.Use(middleware.NewCSRF(cfg.SecureCookies))

		// Public recipe pages.
		r.Get("/", cfg.Recipes.Home)
		r.Get("/recipes/search", cfg.Recipes.Search)
		r.Get("/recipes/category/{id}", cfg.Recipes.Category)
		r.Get("/recipes/{id}", cfg.Recipes.Recipe)

		r.Route("/authors", func(r chi.Router) {
			r.Get("/register", cfg.Authors.RegisterPage)
			r.Get("/login", cfg.Authors.LoginPage)
			r.Post("/logout", cfg.Authors.Logout)

			// Submissions answer 404 to anything but POST, so they take
			// every method.
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.HandleFunc("/register/create", cfg.Authors.RegisterCreate)
				r.HandleFunc("/login/create", cfg.Authors.LoginCreate)
			})

			// 2FA verification: requires a password login but not a
			// completed 2FA step.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/verify", cfg.Authors.TwoFAVerifyPage)
				r.With(limiter.Middleware).Post("/2fa/verify", cfg.Authors.TwoFAVerifySubmit)
			})

			// Fully signed-in area.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)

				r.Get("/2fa/setup", cfg.Authors.TwoFASetupPage)
				r.Post("/2fa/setup", cfg.Authors.TwoFASetupSubmit)
				r.Post("/2fa/disable", cfg.Authors.TwoFADisable)

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/", cfg.Dashboard.Index)
					r.Get("/recipes/new", cfg.Dashboard.NewRecipe)
					r.Post("/recipes", cfg.Dashboard.CreateRecipe)
					r.Get("/recipes/{id}", cfg.Dashboard.EditRecipe)
					r.Post("/recipes/{id}", cfg.Dashboard.UpdateRecipe)
					r.Post("/recipes/{id}/publish", cfg.Dashboard.TogglePublish)
					r.Post("/recipes/{id}/delete", cfg.Dashboard.DeleteRecipe)
				})
			})
		})

		r.NotFound(cfg.Recipes.NotFound)
	})

	return &Router{Router: r, limiter: limiter}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
