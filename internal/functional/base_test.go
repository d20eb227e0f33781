//go:build functional

package functional

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/LuisFCaretta/site-receitas/internal/browser"
	"github.com/LuisFCaretta/site-receitas/internal/database"
	"github.com/LuisFCaretta/site-receitas/internal/handlers"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/router"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/store"
	"github.com/LuisFCaretta/site-receitas/web"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// liveSite is a running server plus a browser tab pointed at it.
type liveSite struct {
	URL string
	DB  *sql.DB
	ctx context.Context
}

// newLiveSite starts the full router on an httptest server and opens a
// browser. The page cache stays off so every view reflects the database.
func newLiveSite(t *testing.T) *liveSite {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "receitas") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "receitas") + "?sslmode=disable"
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	valkey := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err := valkey.Ping(context.Background()).Err(); err != nil {
		valkey.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() { valkey.Close() })

	sessions := session.NewStore(valkey, false)
	renderer, err := render.New(sessions)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	recipeStore := store.NewRecipeStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	listing := handlers.Listing{PerPage: 9, Window: 4}

	rt := router.New(router.Config{
		Sessions:  sessions,
		Recipes:   handlers.NewRecipes(renderer, recipeStore, categoryStore, nil, nil, listing),
		Authors:   handlers.NewAuthors(renderer, sessions, userStore, categoryStore),
		Dashboard: handlers.NewDashboard(renderer, sessions, recipeStore, categoryStore, userStore, nil, nil, listing),
		Static:    web.Static(),
	})
	t.Cleanup(rt.Stop)

	srv := httptest.NewServer(rt)
	t.Cleanup(srv.Close)

	ctx, cancel := browser.New(context.Background(), browser.OptionsFromEnv("window-size=1280,900"))
	t.Cleanup(cancel)
	ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
	t.Cleanup(cancelTimeout)

	// An empty run launches the browser process.
	if err := chromedp.Run(ctx); err != nil {
		t.Skipf("skipping: browser not available: %v", err)
	}

	return &liveSite{URL: srv.URL, DB: db, ctx: ctx}
}

// run executes browser actions against the site, failing the test on error.
func (s *liveSite) run(t *testing.T, actions ...chromedp.Action) {
	t.Helper()
	if err := chromedp.Run(s.ctx, actions...); err != nil {
		t.Fatalf("browser: %v", err)
	}
}

// text returns the visible text of the first node matching sel.
func (s *liveSite) text(t *testing.T, sel string) string {
	t.Helper()
	var out string
	s.run(t, chromedp.Text(sel, &out, chromedp.ByQuery))
	return out
}
