// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

// Paginator splits a result set of Total rows into pages of PerPage rows.
type Paginator struct {
	Total   int64
	PerPage int
}

// Page is one resolved page of a Paginator.
type Page struct {
	Number   int   // 1-based page number
	NumPages int   // total pages (at least 1)
	PerPage  int   // rows per page, also the SQL LIMIT
	Offset   int   // SQL OFFSET
	Total    int64 // total rows across all pages
}

// NewPaginator returns a paginator for total rows. A non-positive perPage
// is treated as 1.
func NewPaginator(total int64, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	return Paginator{Total: total, PerPage: perPage}
}

// NumPages returns the number of pages. An empty result still has one page
// so listings can render their "nothing here" state.
func (p Paginator) NumPages() int {
	return CalculateTotalPages(p.Total, p.PerPage)
}

// Page resolves a requested page number. Numbers below 1 resolve to the
// first page and numbers past the end resolve to the last page.
func (p Paginator) Page(number int) Page {
	n := p.NumPages()
	number = clamp(number, 1, n)
	return Page{
		Number:   number,
		NumPages: n,
		PerPage:  p.PerPage,
		Offset:   CalculateOffset(number, p.PerPage),
		Total:    p.Total,
	}
}

// HasPrevious reports whether there is a page before this one.
func (pg Page) HasPrevious() bool { return pg.Number > 1 }

// HasNext reports whether there is a page after this one.
func (pg Page) HasNext() bool { return pg.Number < pg.NumPages }

// HasOtherPages reports whether the listing spans more than one page.
func (pg Page) HasOtherPages() bool { return pg.NumPages > 1 }

// CalculateOffset returns the SQL OFFSET for a 1-based page number.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total/limit), with a minimum of 1.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// PageFromRequest reads the "page" query parameter. Missing, malformed, or
// non-positive values yield page 1.
func PageFromRequest(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Make resolves the requested page of a listing with total rows and builds
// the matching link window.
func Make(r *http.Request, total int64, perPage, window int) (Page, Range) {
	page := NewPaginator(total, perPage).Page(PageFromRequest(r))
	return page, MakeRange(page.Number, page.NumPages, window)
}
