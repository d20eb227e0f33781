package router

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/LuisFCaretta/site-receitas/internal/database"
	"github.com/LuisFCaretta/site-receitas/internal/handlers"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// flowDeps connects to the test PostgreSQL and Valkey, skipping the test
// when either is unreachable.
func flowDeps(t *testing.T) (*sql.DB, *redis.Client) {
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
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		db.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		db.Close()
	})
	return db, client
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	base   *url.URL
	client *http.Client
}

func newBrowser(t *testing.T, base string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	u, _ := url.Parse(base)
	return &browser{
		t:    t,
		base: u,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) csrfToken() string {
	for _, c := range b.client.Jar.Cookies(b.base) {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}
	return ""
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base.String() + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	form.Set(middleware.CSRFFormField, b.csrfToken())
	resp, err := b.client.PostForm(b.base.String()+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func TestRegisterLoginFlow(t *testing.T) {
	db, valkey := flowDeps(t)

	suffix := make([]byte, 4)
	rand.Read(suffix)
	username := "flow" + hex.EncodeToString(suffix)
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE username = $1", username) })

	sessions := session.NewStore(valkey, false)
	renderer, err := render.New(sessions)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	recipeStore := store.NewRecipeStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	listing := handlers.Listing{PerPage: 9, Window: 4}

	rt := New(Config{
		Sessions:  sessions,
		Recipes:   handlers.NewRecipes(renderer, recipeStore, categoryStore, nil, nil, listing),
		Authors:   handlers.NewAuthors(renderer, sessions, userStore, categoryStore),
		Dashboard: handlers.NewDashboard(renderer, sessions, recipeStore, categoryStore, userStore, nil, nil, listing),
	})
	t.Cleanup(rt.Stop)

	srv := httptest.NewServer(rt)
	t.Cleanup(srv.Close)
	b := newBrowser(t, srv.URL)

	// The first page view hands out the CSRF cookie.
	if resp, _ := b.get("/authors/register"); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /authors/register: got %d", resp.StatusCode)
	}

	resp := b.post("/authors/register/create", url.Values{
		"first_name": {"Flow"},
		"last_name":  {"Tester"},
		"username":   {username},
		"email":      {username + "@example.com"},
		"password":   {"Receita123"},
		"password2":  {"Receita123"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/authors/login" {
		t.Fatalf("register: got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	_, body := b.get("/authors/login")
	if !strings.Contains(body, "Your user is created, please log in.") {
		t.Error("login page does not show the registration flash")
	}

	resp = b.post("/authors/login/create", url.Values{
		"username": {username},
		"password": {"Receita123"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/authors/dashboard" {
		t.Fatalf("login: got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body = b.get("/authors/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /authors/dashboard: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Dashboard ("+username+")") {
		t.Error("dashboard does not greet the new author")
	}
	if !strings.Contains(body, "You are logged in.") {
		t.Error("dashboard does not show the login flash")
	}

	resp = b.post("/authors/logout", url.Values{})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout: got %d", resp.StatusCode)
	}
	if resp, _ := b.get("/authors/dashboard"); resp.StatusCode != http.StatusSeeOther {
		t.Errorf("dashboard after logout: got %d, want 303", resp.StatusCode)
	}
}
