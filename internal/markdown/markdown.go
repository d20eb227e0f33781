// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts recipe preparation steps into HTML using
// goldmark. Steps written through the author form are Markdown and any raw
// HTML inside them is escaped; steps flagged as HTML are trusted and passed
// through as-is.
package markdown

import (
	"bytes"
	"html/template"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // one step per line reads as one line
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML in the source is
// replaced with an omission comment.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Steps renders preparation steps for a template. When isHTML is set the
// source is already HTML and is returned unchanged.
func Steps(source string, isHTML bool) (template.HTML, error) {
	if isHTML {
		return template.HTML(source), nil
	}
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}
