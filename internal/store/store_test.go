// store_test.go provides shared helpers for the store tests: sqlmock-backed
// unit tests and integration tests that are skipped if PostgreSQL is not
// available.
package store

import (
	"database/sql"
	"database/sql/driver"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LuisFCaretta/site-receitas/internal/database"
	"github.com/LuisFCaretta/site-receitas/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "receitas")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "receitas")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by username. Recipes they authored keep
// existing with a NULL author, so callers also clean recipes by slug.
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", u)
	}
}

// cleanRecipes removes test recipes by slug.
func cleanRecipes(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM recipes WHERE slug = $1", s)
	}
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

func addRecipeRow(rows *sqlmock.Rows, r models.Recipe) *sqlmock.Rows {
	return rows.AddRow(
		r.ID.String(), r.Title, r.Description, r.Slug,
		r.PreparationTime, string(r.PreparationTimeUnit),
		r.Servings, string(r.ServingsUnit),
		r.PreparationSteps, r.PreparationStepsIsHTML, r.IsPublished,
		strOrNil(r.CoverKey), uuidOrNil(r.CategoryID), uuidOrNil(r.AuthorID), r.CreatedAt, r.UpdatedAt,
		strOrNil(r.CategoryName), strOrNil(r.AuthorUsername), strOrNil(r.AuthorFirstName), strOrNil(r.AuthorLastName),
	)
}

func strPtr(s string) *string { return &s }

// sampleRecipe returns a fully populated published recipe.
func sampleRecipe() models.Recipe {
	catID := uuid.MustParse("6f1b7c1e-1d0a-4c53-9d0f-3f6a1b2c3d4e")
	authorID := uuid.MustParse("0b8f6f0e-7a55-4f0b-8d9f-2a3b4c5d6e7f")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Recipe{
		ID:                  uuid.MustParse("a3c1e2d4-5b6f-4a7e-8c9d-0e1f2a3b4c5d"),
		Title:               "Pão de Queijo",
		Description:         "Brazilian cheese bread",
		Slug:                "pao-de-queijo-1a2b3c4d",
		PreparationTime:     40,
		PreparationTimeUnit: models.TimeUnitMinutes,
		Servings:            20,
		ServingsUnit:        models.ServingsUnitPieces,
		PreparationSteps:    "Mix and bake.",
		IsPublished:         true,
		CategoryID:          &catID,
		AuthorID:            &authorID,
		CreatedAt:           ts,
		UpdatedAt:           ts,
		CategoryName:        strPtr("Breakfast"),
		AuthorUsername:      strPtr("chef"),
		AuthorFirstName:     strPtr("Demo"),
		AuthorLastName:      strPtr("Chef"),
	}
}

// captureString is a sqlmock argument matcher that accepts any string and
// records it, so a test can inspect values computed inside the store.
type captureString struct {
	value *string
}

func (c captureString) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*c.value = s
	}
	return ok
}
