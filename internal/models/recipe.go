// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PreparationTimeUnit is the unit attached to a recipe's preparation time.
type PreparationTimeUnit string

const (
	TimeUnitMinutes PreparationTimeUnit = "Minutes"
	TimeUnitHours   PreparationTimeUnit = "Hours"
)

// PreparationTimeUnits lists the accepted units in display order.
var PreparationTimeUnits = []PreparationTimeUnit{TimeUnitMinutes, TimeUnitHours}

// Valid reports whether u is one of the accepted units.
func (u PreparationTimeUnit) Valid() bool {
	for _, v := range PreparationTimeUnits {
		if u == v {
			return true
		}
	}
	return false
}

// ServingsUnit is the unit attached to a recipe's yield.
type ServingsUnit string

const (
	ServingsUnitServings ServingsUnit = "Servings"
	ServingsUnitPieces   ServingsUnit = "Pieces"
	ServingsUnitPeople   ServingsUnit = "People"
)

// ServingsUnits lists the accepted units in display order.
var ServingsUnits = []ServingsUnit{ServingsUnitServings, ServingsUnitPieces, ServingsUnitPeople}

// Valid reports whether u is one of the accepted units.
func (u ServingsUnit) Valid() bool {
	for _, v := range ServingsUnits {
		if u == v {
			return true
		}
	}
	return false
}

// Recipe is a dish published by an author. Only recipes with IsPublished
// set are visible on the public pages.
type Recipe struct {
	ID                     uuid.UUID           `json:"id"`
	Title                  string              `json:"title"`
	Description            string              `json:"description"`
	Slug                   string              `json:"slug"`
	PreparationTime        int                 `json:"preparation_time"`
	PreparationTimeUnit    PreparationTimeUnit `json:"preparation_time_unit"`
	Servings               int                 `json:"servings"`
	ServingsUnit           ServingsUnit        `json:"servings_unit"`
	PreparationSteps       string              `json:"preparation_steps"`
	PreparationStepsIsHTML bool                `json:"preparation_steps_is_html"`
	IsPublished            bool                `json:"is_published"`
	CoverKey               *string             `json:"cover_key,omitempty"`
	CategoryID             *uuid.UUID          `json:"category_id,omitempty"`
	AuthorID               *uuid.UUID          `json:"author_id,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`

	// Virtual fields populated by store methods via joins.
	CategoryName    *string `json:"category_name,omitempty"`
	AuthorUsername  *string `json:"author_username,omitempty"`
	AuthorFirstName *string `json:"author_first_name,omitempty"`
	AuthorLastName  *string `json:"author_last_name,omitempty"`

	// CoverURL is resolved by handlers from CoverKey when storage is enabled.
	CoverURL string `json:"cover_url,omitempty"`
}

// AuthorName returns the display name of the recipe's author, or an empty
// string when the author was deleted.
func (r *Recipe) AuthorName() string {
	if r.AuthorUsername == nil {
		return ""
	}
	u := User{Username: *r.AuthorUsername}
	if r.AuthorFirstName != nil {
		u.FirstName = *r.AuthorFirstName
	}
	if r.AuthorLastName != nil {
		u.LastName = *r.AuthorLastName
	}
	return u.FullName()
}

// OwnedBy reports whether the recipe belongs to the given author.
func (r *Recipe) OwnedBy(authorID uuid.UUID) bool {
	return r.AuthorID != nil && *r.AuthorID == authorID
}
