// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the recipe site server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LuisFCaretta/site-receitas/internal/cache"
	"github.com/LuisFCaretta/site-receitas/internal/config"
	"github.com/LuisFCaretta/site-receitas/internal/database"
	"github.com/LuisFCaretta/site-receitas/internal/handlers"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/router"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/storage"
	"github.com/LuisFCaretta/site-receitas/internal/store"
	"github.com/LuisFCaretta/site-receitas/web"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"per_page", cfg.PerPage,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Outside development, session and CSRF cookies are HTTPS-only.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	renderer, err := render.New(sessionStore)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Object storage for recipe covers is optional.
	var (
		imgSources    []string
		storageClient *storage.Client
	)
	if cfg.StorageEnabled() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		if origin := originOf(cfg.S3PublicURL, cfg.S3Endpoint); origin != "" {
			imgSources = append(imgSources, origin)
		}
	} else {
		slog.Warn("s3 storage not configured, cover uploads disabled")
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	recipeStore := store.NewRecipeStore(db)
	categoryStore := store.NewCategoryStore(db)

	listing := handlers.Listing{PerPage: cfg.PerPage, Window: cfg.PaginationWindow}

	// Create handler groups with their dependencies.
	rt := router.New(router.Config{
		Sessions:      sessionStore,
		Recipes:       handlers.NewRecipes(renderer, recipeStore, categoryStore, storageClient, pageCache, listing),
		Authors:       handlers.NewAuthors(renderer, sessionStore, userStore, categoryStore),
		Dashboard:     handlers.NewDashboard(renderer, sessionStore, recipeStore, categoryStore, userStore, storageClient, pageCache, listing),
		Static:        web.Static(),
		SecureCookies: secureCookies,
		ImgSources:    imgSources,
	})
	defer rt.Stop()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      rt,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// originOf returns scheme://host of the first non-empty URL.
func originOf(urls ...string) string {
	for _, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		return u.Scheme + "://" + u.Host
	}
	return ""
}
