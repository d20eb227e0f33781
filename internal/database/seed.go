// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/LuisFCaretta/site-receitas/internal/slug"
)

// DefaultCategories are created by Seed when the categories table is empty.
var DefaultCategories = []string{"Breakfast", "Lunch", "Dinner", "Desserts"}

// Demo author credentials created by Seed in development.
const (
	DemoUsername = "chef"
	DemoPassword = "Chef1234"
	DemoEmail    = "chef@receitas.local"
)

type seedRecipe struct {
	title, description, category string
	prepTime                     int
	prepUnit                     string
	servings                     int
	servingsUnit                 string
	steps                        string
}

var demoRecipes = []seedRecipe{
	{
		title: "Fluffy Pancakes", description: "Thick breakfast pancakes ready in twenty minutes.",
		category: "Breakfast", prepTime: 20, prepUnit: "Minutes", servings: 8, servingsUnit: "Pieces",
		steps: "1. Whisk flour, sugar, baking powder and salt.\n2. Add milk, egg and melted butter.\n3. Cook on a hot griddle until bubbles form, then flip.",
	},
	{
		title: "Feijoada", description: "Black bean stew with pork, served with rice and orange slices.",
		category: "Lunch", prepTime: 3, prepUnit: "Hours", servings: 6, servingsUnit: "People",
		steps: "1. Soak the beans overnight.\n2. Brown the meats in a large pot.\n3. Add beans and water, simmer for two and a half hours.",
	},
	{
		title: "Pão de Queijo", description: "Brazilian cheese bread made with tapioca flour.",
		category: "Breakfast", prepTime: 40, prepUnit: "Minutes", servings: 20, servingsUnit: "Pieces",
		steps: "1. Boil milk, oil and salt, pour over the tapioca flour.\n2. Knead in eggs and cheese.\n3. Shape small balls and bake at 180°C for 25 minutes.",
	},
	{
		title: "Brigadeiro", description: "Chocolate fudge balls rolled in sprinkles.",
		category: "Desserts", prepTime: 30, prepUnit: "Minutes", servings: 25, servingsUnit: "Pieces",
		steps: "1. Cook condensed milk, cocoa and butter, stirring until it pulls from the pan.\n2. Let it cool.\n3. Roll into balls and coat with sprinkles.",
	},
}

// Seed populates the database with initial development data.
// It creates the default categories if none exist and a demo author with a
// few published recipes if no users exist. Running it twice is a no-op.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count == 0 {
		for _, name := range DefaultCategories {
			if _, err := db.Exec(`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
				return fmt.Errorf("seed insert category %q: %w", name, err)
			}
		}
		slog.Info("seeded default categories", "count", len(DefaultCategories))
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var authorID string
	err = tx.QueryRow(`
		INSERT INTO users (username, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, DemoUsername, "Demo", "Chef", DemoEmail, string(hash)).Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	for _, r := range demoRecipes {
		_, err := tx.Exec(`
			INSERT INTO recipes (title, description, slug, preparation_time, preparation_time_unit,
				servings, servings_unit, preparation_steps, is_published, category_id, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE,
				(SELECT id FROM categories WHERE name = $9), $10)
		`, r.title, r.description, slug.Unique(r.title), r.prepTime, r.prepUnit,
			r.servings, r.servingsUnit, r.steps, r.category, authorID)
		if err != nil {
			return fmt.Errorf("seed insert recipe %q: %w", r.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo author",
		"username", DemoUsername,
		"password", DemoPassword,
		"recipes", len(demoRecipes),
	)
	return nil
}
