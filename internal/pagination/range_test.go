// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/LuisFCaretta/site-receitas/internal/pagination"
)

func TestMakeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   int
		total     int
		window    int
		want      []int
		wantFirst bool
		wantLast  bool
	}{
		{name: "first page", current: 1, total: 20, window: 4, want: []int{1, 2, 3, 4}, wantLast: true},
		{name: "second page keeps static start", current: 2, total: 20, window: 4, want: []int{1, 2, 3, 4}, wantLast: true},
		{name: "third page starts sliding", current: 3, total: 20, window: 4, want: []int{2, 3, 4, 5}, wantFirst: true, wantLast: true},
		{name: "fourth page", current: 4, total: 20, window: 4, want: []int{3, 4, 5, 6}, wantFirst: true, wantLast: true},
		{name: "middle page", current: 10, total: 20, window: 4, want: []int{9, 10, 11, 12}, wantFirst: true, wantLast: true},
		{name: "another middle page", current: 12, total: 20, window: 4, want: []int{11, 12, 13, 14}, wantFirst: true, wantLast: true},
		{name: "near the end", current: 18, total: 20, window: 4, want: []int{17, 18, 19, 20}, wantFirst: true},
		{name: "penultimate page", current: 19, total: 20, window: 4, want: []int{17, 18, 19, 20}, wantFirst: true},
		{name: "last page", current: 20, total: 20, window: 4, want: []int{17, 18, 19, 20}, wantFirst: true},
		{name: "odd window is centered", current: 10, total: 20, window: 5, want: []int{8, 9, 10, 11, 12}, wantFirst: true, wantLast: true},
		{name: "fewer pages than window", current: 2, total: 3, window: 4, want: []int{1, 2, 3}},
		{name: "single page", current: 1, total: 1, window: 4, want: []int{1}},
		{name: "window of one", current: 7, total: 9, window: 1, want: []int{7}, wantFirst: true, wantLast: true},
		{name: "current beyond total clamps", current: 100, total: 20, window: 4, want: []int{17, 18, 19, 20}, wantFirst: true},
		{name: "current below one clamps", current: -3, total: 20, window: 4, want: []int{1, 2, 3, 4}, wantLast: true},
		{name: "zero total is one page", current: 1, total: 0, window: 4, want: []int{1}},
		{name: "zero window is one link", current: 5, total: 10, window: 0, want: []int{5}, wantFirst: true, wantLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.MakeRange(tt.current, tt.total, tt.window)
			if diff := cmp.Diff(tt.want, got.Pages); diff != "" {
				t.Errorf("MakeRange(%d, %d, %d) pages mismatch (-want +got):\n%s",
					tt.current, tt.total, tt.window, diff)
			}
			if got.FirstPageOutOfRange != tt.wantFirst {
				t.Errorf("FirstPageOutOfRange = %v, want %v", got.FirstPageOutOfRange, tt.wantFirst)
			}
			if got.LastPageOutOfRange != tt.wantLast {
				t.Errorf("LastPageOutOfRange = %v, want %v", got.LastPageOutOfRange, tt.wantLast)
			}
		})
	}
}

// TestMakeRangeProperties sweeps a grid of inputs and checks the range is
// non-empty, strictly increasing, within [1, total], no longer than the
// window, and contains the (clamped) current page.
func TestMakeRangeProperties(t *testing.T) {
	t.Parallel()

	for total := -1; total <= 25; total++ {
		for window := -1; window <= 9; window++ {
			for current := -2; current <= 28; current++ {
				r := pagination.MakeRange(current, total, window)

				effTotal := max(total, 1)
				effWindow := max(window, 1)

				if len(r.Pages) == 0 {
					t.Fatalf("MakeRange(%d, %d, %d): empty range", current, total, window)
				}
				if len(r.Pages) > effWindow {
					t.Fatalf("MakeRange(%d, %d, %d): len %d > window %d", current, total, window, len(r.Pages), effWindow)
				}
				if len(r.Pages) != min(effWindow, effTotal) {
					t.Fatalf("MakeRange(%d, %d, %d): len %d, want %d", current, total, window, len(r.Pages), min(effWindow, effTotal))
				}
				for i, p := range r.Pages {
					if p < 1 || p > effTotal {
						t.Fatalf("MakeRange(%d, %d, %d): page %d outside [1, %d]", current, total, window, p, effTotal)
					}
					if i > 0 && p != r.Pages[i-1]+1 {
						t.Fatalf("MakeRange(%d, %d, %d): not contiguous: %v", current, total, window, r.Pages)
					}
				}
				found := false
				for _, p := range r.Pages {
					if p == r.Current {
						found = true
					}
				}
				if !found {
					t.Fatalf("MakeRange(%d, %d, %d): current %d not in %v", current, total, window, r.Current, r.Pages)
				}
				if r.FirstPageOutOfRange != (r.Pages[0] > 1) {
					t.Fatalf("MakeRange(%d, %d, %d): FirstPageOutOfRange inconsistent", current, total, window)
				}
				if r.LastPageOutOfRange != (r.Pages[len(r.Pages)-1] < effTotal) {
					t.Fatalf("MakeRange(%d, %d, %d): LastPageOutOfRange inconsistent", current, total, window)
				}
			}
		}
	}
}

func TestRangeURL(t *testing.T) {
	t.Parallel()

	r := pagination.MakeRange(1, 3, 4)
	if got, want := r.URL(2), "?page=2"; got != want {
		t.Errorf("URL(2) = %q, want %q", got, want)
	}

	r = r.WithQuery(url.Values{"q": {"bolo de cenoura"}})
	if got, want := r.URL(3), "?page=3&q=bolo+de+cenoura"; got != want {
		t.Errorf("URL(3) = %q, want %q", got, want)
	}

	// Building a link must not mutate the attached query.
	if r.Query.Has("page") {
		t.Error("URL() leaked the page parameter into Range.Query")
	}
}

func TestRangePrevNext(t *testing.T) {
	t.Parallel()

	first := pagination.MakeRange(1, 3, 4)
	if first.HasPrevious() || !first.HasNext() {
		t.Errorf("first page: HasPrevious=%v HasNext=%v", first.HasPrevious(), first.HasNext())
	}
	last := pagination.MakeRange(3, 3, 4)
	if !last.HasPrevious() || last.HasNext() {
		t.Errorf("last page: HasPrevious=%v HasNext=%v", last.HasPrevious(), last.HasNext())
	}
}
