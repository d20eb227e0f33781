// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/LuisFCaretta/site-receitas/internal/models"
)

// Recipe field limits, matching the recipes table.
const (
	TitleMinLength       = 5
	TitleMaxLength       = 65
	DescriptionMaxLength = 165
	MaxCoverSize         = 5 << 20
)

// Recipe editor messages.
const (
	MsgRequired           = "This field must not be empty."
	MsgTitleTooShort      = "Title must have at least 5 characters."
	MsgTitleTooLong       = "Title must have at most 65 characters."
	MsgDescriptionTooLong = "Description must have at most 165 characters."
	MsgTitleEqualsDesc    = "Cannot be equal to description."
	MsgDescEqualsTitle    = "Cannot be equal to title."
	MsgPositiveNumber     = "Must be a positive number."
	MsgInvalidChoice      = "Select a valid choice."
	MsgInvalidCategory    = "Select a valid category."
	MsgCoverTooLarge      = "The cover image must be at most 5 MB."
	MsgCoverType          = "The cover must be a JPEG, PNG, WebP or GIF image."
)

// AllowedCoverTypes maps accepted cover MIME types to file extensions.
var AllowedCoverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// RecipeFields describes the recipe editor inputs in display order.
var RecipeFields = []Field{
	{Name: "title", Label: "Title", Placeholder: "Pão de Queijo", Type: "text"},
	{Name: "description", Label: "Description", Placeholder: "A short summary shown on listings", Type: "text"},
	{Name: "preparation_time", Label: "Preparation time", Type: "number"},
	{Name: "preparation_time_unit", Label: "Preparation time unit", Type: "select"},
	{Name: "servings", Label: "Servings", Type: "number"},
	{Name: "servings_unit", Label: "Servings unit", Type: "select"},
	{Name: "category_id", Label: "Category", Type: "select"},
	{
		Name: "preparation_steps", Label: "Preparation steps", Type: "textarea",
		HelpText: "Markdown is supported.",
	},
	{Name: "cover", Label: "Cover", Type: "file", HelpText: "JPEG, PNG, WebP or GIF up to 5 MB."},
}

// CategoryLookup resolves category IDs. *store.CategoryStore satisfies it.
type CategoryLookup interface {
	FindByID(id uuid.UUID) (*models.Category, error)
}

// RecipeForm holds a submitted recipe. Numeric fields keep the raw input so
// an invalid value can be shown back to the author.
type RecipeForm struct {
	Title               string
	Description         string
	PreparationTime     string
	PreparationTimeUnit string
	Servings            string
	ServingsUnit        string
	PreparationSteps    string
	CategoryID          string
}

// ParseRecipeForm reads the recipe fields from a submitted form. The
// caller must have parsed a multipart body already when a cover is sent.
func ParseRecipeForm(r *http.Request) RecipeForm {
	return RecipeForm{
		Title:               clean(r.FormValue("title")),
		Description:         clean(r.FormValue("description")),
		PreparationTime:     clean(r.FormValue("preparation_time")),
		PreparationTimeUnit: clean(r.FormValue("preparation_time_unit")),
		Servings:            clean(r.FormValue("servings")),
		ServingsUnit:        clean(r.FormValue("servings_unit")),
		PreparationSteps:    clean(r.FormValue("preparation_steps")),
		CategoryID:          clean(r.FormValue("category_id")),
	}
}

// RecipeFormFromModel pre-fills the editor with a stored recipe.
func RecipeFormFromModel(m *models.Recipe) RecipeForm {
	f := RecipeForm{
		Title:               m.Title,
		Description:         m.Description,
		PreparationTime:     strconv.Itoa(m.PreparationTime),
		PreparationTimeUnit: string(m.PreparationTimeUnit),
		Servings:            strconv.Itoa(m.Servings),
		ServingsUnit:        string(m.ServingsUnit),
		PreparationSteps:    m.PreparationSteps,
	}
	if m.CategoryID != nil {
		f.CategoryID = m.CategoryID.String()
	}
	return f
}

// Value returns the submitted value of a field for re-rendering.
func (f RecipeForm) Value(field string) string {
	switch field {
	case "title":
		return f.Title
	case "description":
		return f.Description
	case "preparation_time":
		return f.PreparationTime
	case "preparation_time_unit":
		return f.PreparationTimeUnit
	case "servings":
		return f.Servings
	case "servings_unit":
		return f.ServingsUnit
	case "preparation_steps":
		return f.PreparationSteps
	case "category_id":
		return f.CategoryID
	}
	return ""
}

// Validate applies the recipe editor rules. The category is optional; when
// given it must exist. The error is non-nil only when the lookup fails.
func (f RecipeForm) Validate(categories CategoryLookup) (Errors, error) {
	errs := Errors{}

	switch n := runeLen(f.Title); {
	case n == 0:
		errs.Add("title", MsgRequired)
	case n < TitleMinLength:
		errs.Add("title", MsgTitleTooShort)
	case n > TitleMaxLength:
		errs.Add("title", MsgTitleTooLong)
	}

	switch n := runeLen(f.Description); {
	case n == 0:
		errs.Add("description", MsgRequired)
	case n > DescriptionMaxLength:
		errs.Add("description", MsgDescriptionTooLong)
	}

	if f.Title != "" && f.Title == f.Description {
		errs.Add("title", MsgTitleEqualsDesc)
		errs.Add("description", MsgDescEqualsTitle)
	}

	if !positiveInt(f.PreparationTime) {
		errs.Add("preparation_time", MsgPositiveNumber)
	}
	if !models.PreparationTimeUnit(f.PreparationTimeUnit).Valid() {
		errs.Add("preparation_time_unit", MsgInvalidChoice)
	}
	if !positiveInt(f.Servings) {
		errs.Add("servings", MsgPositiveNumber)
	}
	if !models.ServingsUnit(f.ServingsUnit).Valid() {
		errs.Add("servings_unit", MsgInvalidChoice)
	}
	if f.PreparationSteps == "" {
		errs.Add("preparation_steps", MsgRequired)
	}

	if f.CategoryID != "" {
		id, err := uuid.Parse(f.CategoryID)
		if err != nil {
			errs.Add("category_id", MsgInvalidCategory)
		} else if categories != nil {
			c, err := categories.FindByID(id)
			if err != nil {
				return errs, fmt.Errorf("validate category: %w", err)
			}
			if c == nil {
				errs.Add("category_id", MsgInvalidCategory)
			}
		}
	}

	return errs, nil
}

// Apply copies the validated values onto m. Call only after Validate
// returned no errors.
func (f RecipeForm) Apply(m *models.Recipe) {
	m.Title = f.Title
	m.Description = f.Description
	m.PreparationTime, _ = strconv.Atoi(f.PreparationTime)
	m.PreparationTimeUnit = models.PreparationTimeUnit(f.PreparationTimeUnit)
	m.Servings, _ = strconv.Atoi(f.Servings)
	m.ServingsUnit = models.ServingsUnit(f.ServingsUnit)
	m.PreparationSteps = f.PreparationSteps
	m.PreparationStepsIsHTML = false
	m.CategoryID = nil
	if id, err := uuid.Parse(f.CategoryID); err == nil {
		m.CategoryID = &id
	}
}

// CheckCover validates an uploaded cover's size and sniffed content type.
// It returns "" when the cover is acceptable.
func CheckCover(size int64, contentType string) string {
	if size > MaxCoverSize {
		return MsgCoverTooLarge
	}
	if _, ok := AllowedCoverTypes[contentType]; !ok {
		return MsgCoverType
	}
	return ""
}

func positiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}
