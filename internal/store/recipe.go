// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/LuisFCaretta/site-receitas/internal/models"
)

// RecipeStore handles all recipe-related database operations.
type RecipeStore struct {
	db *sql.DB
}

// NewRecipeStore creates a new RecipeStore with the given database connection.
func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// RecipeFilter narrows Count and List. Zero values disable a condition.
type RecipeFilter struct {
	PublishedOnly bool
	CategoryID    *uuid.UUID
	AuthorID      *uuid.UUID
	// Search matches title or description, case-insensitively.
	Search string
}

const recipeSelect = `
	SELECT r.id, r.title, r.description, r.slug,
	       r.preparation_time, r.preparation_time_unit,
	       r.servings, r.servings_unit,
	       r.preparation_steps, r.preparation_steps_is_html, r.is_published,
	       r.cover_key, r.category_id, r.author_id, r.created_at, r.updated_at,
	       c.name, u.username, u.first_name, u.last_name
	FROM recipes r
	LEFT JOIN categories c ON c.id = r.category_id
	LEFT JOIN users u ON u.id = r.author_id`

func scanRecipe(scanner interface{ Scan(...any) error }) (*models.Recipe, error) {
	var r models.Recipe
	err := scanner.Scan(
		&r.ID, &r.Title, &r.Description, &r.Slug,
		&r.PreparationTime, &r.PreparationTimeUnit,
		&r.Servings, &r.ServingsUnit,
		&r.PreparationSteps, &r.PreparationStepsIsHTML, &r.IsPublished,
		&r.CoverKey, &r.CategoryID, &r.AuthorID, &r.CreatedAt, &r.UpdatedAt,
		&r.CategoryName, &r.AuthorUsername, &r.AuthorFirstName, &r.AuthorLastName,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// where renders the filter as a WHERE clause with numbered placeholders.
func (f RecipeFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.PublishedOnly {
		conds = append(conds, "r.is_published = TRUE")
	}
	if f.CategoryID != nil {
		conds = append(conds, "r.category_id = "+next(*f.CategoryID))
	}
	if f.AuthorID != nil {
		conds = append(conds, "r.author_id = "+next(*f.AuthorID))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := next("%" + EscapeLike(term) + "%")
		conds = append(conds, "(r.title ILIKE "+p+` ESCAPE '\' OR r.description ILIKE `+p+` ESCAPE '\')`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Count returns the number of recipes matching the filter.
func (s *RecipeStore) Count(f RecipeFilter) (int64, error) {
	where, args := f.where()
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM recipes r`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}

// List returns one page of recipes matching the filter, newest first.
func (s *RecipeStore) List(f RecipeFilter, limit, offset int) ([]models.Recipe, error) {
	where, args := f.where()
	n := len(args)
	args = append(args, limit, offset)

	rows, err := s.db.Query(recipeSelect+where+
		` ORDER BY r.created_at DESC, r.id DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2),
		args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var items []models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindByID retrieves a recipe regardless of its publish state. Returns nil
// if not found.
func (s *RecipeStore) FindByID(id uuid.UUID) (*models.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRow(recipeSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe by id: %w", err)
	}
	return r, nil
}

// FindPublishedByID retrieves a published recipe. Unpublished and missing
// recipes both return nil.
func (s *RecipeStore) FindPublishedByID(id uuid.UUID) (*models.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRow(recipeSelect+` WHERE r.id = $1 AND r.is_published = TRUE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published recipe: %w", err)
	}
	return r, nil
}

// Create inserts a new recipe. New recipes always start unpublished; ID and
// timestamps are filled in from the database.
func (s *RecipeStore) Create(r *models.Recipe) error {
	r.IsPublished = false
	err := s.db.QueryRow(`
		INSERT INTO recipes (title, description, slug, preparation_time, preparation_time_unit,
			servings, servings_unit, preparation_steps, preparation_steps_is_html,
			is_published, cover_key, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, r.Title, r.Description, r.Slug, r.PreparationTime, r.PreparationTimeUnit,
		r.Servings, r.ServingsUnit, r.PreparationSteps, r.PreparationStepsIsHTML,
		r.CoverKey, r.CategoryID, r.AuthorID,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// Update saves an edited recipe. Editing sends the recipe back to the
// unpublished state so it is reviewed again before going live.
func (s *RecipeStore) Update(r *models.Recipe) error {
	r.IsPublished = false
	err := s.db.QueryRow(`
		UPDATE recipes SET
			title = $1, description = $2, preparation_time = $3, preparation_time_unit = $4,
			servings = $5, servings_unit = $6, preparation_steps = $7,
			preparation_steps_is_html = $8, cover_key = $9, category_id = $10,
			is_published = FALSE, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`, r.Title, r.Description, r.PreparationTime, r.PreparationTimeUnit,
		r.Servings, r.ServingsUnit, r.PreparationSteps,
		r.PreparationStepsIsHTML, r.CoverKey, r.CategoryID, r.ID,
	).Scan(&r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return nil
}

// SetPublished changes the publish state of a recipe.
func (s *RecipeStore) SetPublished(id uuid.UUID, published bool) error {
	_, err := s.db.Exec(`
		UPDATE recipes SET is_published = $1, updated_at = NOW() WHERE id = $2
	`, published, id)
	if err != nil {
		return fmt.Errorf("set recipe published: %w", err)
	}
	return nil
}

// Delete removes a recipe by ID.
func (s *RecipeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
