// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forms parses and validates the HTML forms of the authors area:
// registration, login, and the recipe editor. Validation produces
// field-scoped messages that templates render next to each input.
package forms

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// NonFieldErrors is the Errors key for messages not tied to one input.
const NonFieldErrors = "__all__"

// matchTimeout bounds each regexp2 evaluation; look-ahead patterns can
// backtrack on hostile input.
const matchTimeout = 100 * time.Millisecond

// Errors maps a field name to its validation messages, in the order they
// were found.
type Errors map[string][]string

// Add appends a message to a field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether a field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the messages for a field.
func (e Errors) Get(field string) []string {
	return e[field]
}

// First returns the first message for a field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no messages were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Field is the presentation metadata of one form input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	HelpText    string
	Type        string // HTML input type
}

// FieldByName finds a field in a list by its name.
func FieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// mustPattern compiles a regexp2 pattern with the package match timeout.
func mustPattern(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = matchTimeout
	return re
}

// matches runs re against s. A timeout counts as no match.
func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
