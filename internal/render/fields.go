// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import "github.com/LuisFCaretta/site-receitas/internal/forms"

// Valuer returns the submitted value of a form field.
type Valuer interface {
	Value(field string) string
}

// Option is one <option> of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FieldView is a form field ready for the "field" partial.
type FieldView struct {
	forms.Field
	Value   string
	Errors  []string
	Options []Option
}

// Fields pairs field metadata with submitted values and validation errors.
// options supplies the choices of select fields and may be nil.
func Fields(fields []forms.Field, values Valuer, errs forms.Errors, options func(name string) []Option) []FieldView {
	views := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		v := FieldView{Field: f, Errors: errs.Get(f.Name)}
		if values != nil {
			v.Value = values.Value(f.Name)
		}
		if f.Type == "select" && options != nil {
			v.Options = selectOption(options(f.Name), v.Value)
		}
		views = append(views, v)
	}
	return views
}

// selectOption returns a copy of opts with the option matching value
// marked as selected.
func selectOption(opts []Option, value string) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		o.Selected = o.Value == value
		out[i] = o
	}
	return out
}
