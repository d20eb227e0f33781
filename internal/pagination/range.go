// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination computes page windows and offsets for the recipe
// listings. MakeRange produces the bounded run of page links shown under a
// listing; Paginator turns a row count into offset/limit pairs for the store.
package pagination

import (
	"net/url"
	"strconv"
)

// Range is the window of page-number links rendered for a listing.
type Range struct {
	Pages   []int // contiguous, strictly increasing, within [1, Total]
	Current int   // current page, clamped into [1, Total]
	Total   int   // total number of pages (at least 1)
	Window  int   // requested number of links

	// FirstPageOutOfRange is true when page 1 is not part of Pages, so the
	// template should render a separate "1 …" link.
	FirstPageOutOfRange bool
	// LastPageOutOfRange is true when the last page is not part of Pages.
	LastPageOutOfRange bool

	// Query holds extra parameters carried by every page link (e.g. q=term).
	Query url.Values
}

// MakeRange returns the page links to display for the current page.
//
// The window is centered on the current page where possible; for an even
// window the current page sits just left of center (window 4 on page 10
// gives 9, 10, 11, 12). Near either edge the window slides inward instead of
// shrinking, and it only shrinks when there are fewer pages than links.
// Out-of-range inputs are normalized: total and window below 1 become 1 and
// current is clamped into [1, total]. The result is never empty.
func MakeRange(current, total, window int) Range {
	if total < 1 {
		total = 1
	}
	if window < 1 {
		window = 1
	}
	current = clamp(current, 1, total)

	// start/stop are 0-based slice bounds into 1..total.
	middle := (window + 1) / 2
	start := current - middle
	stop := start + window

	if start < 0 {
		stop -= start
		start = 0
	}
	if stop > total {
		start -= stop - total
		stop = total
	}
	if start < 0 {
		start = 0
	}

	pages := make([]int, 0, stop-start)
	for p := start + 1; p <= stop; p++ {
		pages = append(pages, p)
	}

	return Range{
		Pages:               pages,
		Current:             current,
		Total:               total,
		Window:              window,
		FirstPageOutOfRange: start > 0,
		LastPageOutOfRange:  stop < total,
	}
}

// WithQuery returns a copy of the range whose links also carry q.
func (r Range) WithQuery(q url.Values) Range {
	r.Query = q
	return r
}

// URL builds the relative link ("?page=N&...") for a page number, keeping
// any extra query parameters attached to the range.
func (r Range) URL(page int) string {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// HasPrevious reports whether a "previous" link should be rendered.
func (r Range) HasPrevious() bool { return r.Current > 1 }

// HasNext reports whether a "next" link should be rendered.
func (r Range) HasNext() bool { return r.Current < r.Total }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
