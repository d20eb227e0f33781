// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: sqlmock-backed stores, a recording session fake, and request
// helpers. Integration tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/LuisFCaretta/site-receitas/internal/database"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/models"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/session"
)

// testListing matches the production defaults.
var testListing = Listing{PerPage: 9, Window: 4}

// fakeSessions records what the handlers ask of the session store.
type fakeSessions struct {
	rotated   *session.Data
	updated   *session.Data
	destroyed bool
	flashes   []session.Flash
	err       error
}

func (f *fakeSessions) Rotate(_ context.Context, _ http.ResponseWriter, _ *http.Request, data *session.Data) (string, error) {
	f.rotated = data
	return "test-session", f.err
}

func (f *fakeSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	f.updated = data
	return f.err
}

func (f *fakeSessions) Destroy(_ context.Context, _ http.ResponseWriter, _ *http.Request) error {
	f.destroyed = true
	return f.err
}

func (f *fakeSessions) AddFlash(_ context.Context, _ http.ResponseWriter, _ *http.Request, fl session.Flash) error {
	f.flashes = append(f.flashes, fl)
	return f.err
}

func (f *fakeSessions) messages() []string {
	var out []string
	for _, fl := range f.flashes {
		out = append(out, fl.Message)
	}
	return out
}

// newMock returns a sqlmock-backed *sql.DB that is checked for unmet
// expectations when the test ends.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// newRenderer parses the embedded templates without a flash source.
func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New(nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return rn
}

// Query fragments shared by the expectations below.
var (
	qCountRecipes   = regexp.QuoteMeta(`SELECT COUNT(*) FROM recipes r`)
	qListRecipes    = regexp.QuoteMeta(`ORDER BY r.created_at DESC, r.id DESC LIMIT`)
	qListCategories = regexp.QuoteMeta(`FROM categories c`)
	qFindCategory   = regexp.QuoteMeta(`SELECT id, name, created_at FROM categories WHERE id = $1`)
	qFindRecipe     = regexp.QuoteMeta(`WHERE r.id = $1`)
	qFindUserByID   = regexp.QuoteMeta(`FROM users WHERE id = $1`)
	qFindUserByName = regexp.QuoteMeta(`FROM users WHERE username = $1`)
)

var userCols = []string{
	"id", "username", "first_name", "last_name", "email", "password_hash",
	"totp_secret", "totp_enabled", "created_at", "updated_at",
}

func userRow(u models.User) *sqlmock.Rows {
	var secret any
	if u.TOTPSecret != nil {
		secret = *u.TOTPSecret
	}
	return sqlmock.NewRows(userCols).AddRow(
		u.ID.String(), u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash,
		secret, u.TOTPEnabled, u.CreatedAt, u.UpdatedAt,
	)
}

var recipeCols = []string{
	"id", "title", "description", "slug",
	"preparation_time", "preparation_time_unit",
	"servings", "servings_unit",
	"preparation_steps", "preparation_steps_is_html", "is_published",
	"cover_key", "category_id", "author_id", "created_at", "updated_at",
	"name", "username", "first_name", "last_name",
}

func strOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func uuidOrNil(p *uuid.UUID) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func recipeRows(recipes ...models.Recipe) *sqlmock.Rows {
	rows := sqlmock.NewRows(recipeCols)
	for _, r := range recipes {
		rows.AddRow(
			r.ID.String(), r.Title, r.Description, r.Slug,
			r.PreparationTime, string(r.PreparationTimeUnit),
			r.Servings, string(r.ServingsUnit),
			r.PreparationSteps, r.PreparationStepsIsHTML, r.IsPublished,
			strOrNil(r.CoverKey), uuidOrNil(r.CategoryID), uuidOrNil(r.AuthorID), r.CreatedAt, r.UpdatedAt,
			strOrNil(r.CategoryName), strOrNil(r.AuthorUsername), strOrNil(r.AuthorFirstName), strOrNil(r.AuthorLastName),
		)
	}
	return rows
}

func categoryRows(cats ...models.Category) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "recipe_count"})
	for _, c := range cats {
		rows.AddRow(c.ID.String(), c.Name, c.CreatedAt, c.RecipeCount)
	}
	return rows
}

func countRow(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func strPtr(s string) *string { return &s }

var (
	testAuthorID   = uuid.MustParse("0b8f6f0e-7a55-4f0b-8d9f-2a3b4c5d6e7f")
	testCategoryID = uuid.MustParse("6f1b7c1e-1d0a-4c53-9d0f-3f6a1b2c3d4e")
	testTime       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// sampleRecipe returns a published recipe by the test author. n makes the
// ID and title unique.
func sampleRecipe(n int) models.Recipe {
	catID, authorID := testCategoryID, testAuthorID
	return models.Recipe{
		ID:                  uuid.MustParse(fmt.Sprintf("a3c1e2d4-5b6f-4a7e-8c9d-%012d", n)),
		Title:               fmt.Sprintf("Recipe number %d", n),
		Description:         "A tasty recipe",
		Slug:                fmt.Sprintf("recipe-number-%d", n),
		PreparationTime:     40,
		PreparationTimeUnit: models.TimeUnitMinutes,
		Servings:            4,
		ServingsUnit:        models.ServingsUnitServings,
		PreparationSteps:    "1. Mix\n2. Bake",
		IsPublished:         true,
		CategoryID:          &catID,
		AuthorID:            &authorID,
		CreatedAt:           testTime,
		UpdatedAt:           testTime,
		CategoryName:        strPtr("Lunch"),
		AuthorUsername:      strPtr("chef"),
		AuthorFirstName:     strPtr("Demo"),
		AuthorLastName:      strPtr("Chef"),
	}
}

func sampleCategory(count int) models.Category {
	return models.Category{ID: testCategoryID, Name: "Lunch", CreatedAt: testTime, RecipeCount: count}
}

// authorSession returns a fully signed-in session for the test author.
func authorSession() *session.Data {
	return &session.Data{UserID: testAuthorID, Username: "chef", FirstName: "Demo", TwoFADone: true}
}

// withSession attaches sess to the request context the way LoadSession does.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withURLParam sets a chi URL parameter on the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postForm builds an url-encoded POST request.
func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "receitas")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "receitas")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

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

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkey connects to Valkey DB 15.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}
