// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for recipe titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the readable part of a slug so that base plus suffix
// fits the recipes.slug column.
const MaxLength = 200

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of any whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Accented
// letters are folded to their base letter before other symbols are dropped.
// Example: "Bolo de Cenoura com Açúcar!" → "bolo-de-cenoura-com-acucar"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// Unique returns Generate(s) followed by a short random suffix, so two
// recipes with the same title never collide on the unique slug column.
// An empty base yields just the suffix.
func Unique(s string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := Generate(s)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// fold strips combining marks after canonical decomposition ("ç" → "c").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
