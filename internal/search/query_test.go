package search_test

import (
	"fmt"
	"testing"

	"fripe/internal/search"

	"github.com/stretchr/testify/assert"
)

func TestParse_Filters(t *testing.T) {
	q := search.Parse(search.Params{Title: "Nike", PriceMin: "10", PriceMax: "20"})
	assert.Equal(t, "Nike", q.Title)
	if assert.NotNil(t, q.PriceMin) {
		assert.Equal(t, 10.0, *q.PriceMin)
	}
	if assert.NotNil(t, q.PriceMax) {
		assert.Equal(t, 20.0, *q.PriceMax)
	}

	// Unparseable bounds disable the corresponding filter.
	q = search.Parse(search.Params{PriceMin: "abc", PriceMax: ""})
	assert.Nil(t, q.PriceMin)
	assert.Nil(t, q.PriceMax)
}

func TestParse_Sort(t *testing.T) {
	tests := []struct {
		param string
		want  search.SortOrder
	}{
		{"", search.SortNone},
		{"price-asc", search.SortPriceAsc},
		{"price-desc", search.SortPriceDesc},
		{"price-DESC", search.SortPriceDesc},
		{"PRICE-ASC", search.SortPriceAsc},
		{"desc", search.SortPriceDesc},
		{"anything-else", search.SortPriceAsc},
	}
	for _, tt := range tests {
		q := search.Parse(search.Params{Sort: tt.param})
		assert.Equal(t, tt.want, q.Sort, "sort=%q", tt.param)
	}
}

func TestParse_Window(t *testing.T) {
	tests := []struct {
		page, limit string
		wantLimit   int
		wantOffset  int
	}{
		{"", "", 0, 0},
		{"1", "10", 10, 0},
		{"3", "10", 10, 20},
		{"2", "5", 5, 5},
		{"0", "10", 10, 0},   // page below 1 falls back to the first page
		{"-2", "10", 10, 0},  // so does a negative page
		{"abc", "10", 10, 0}, // and an unparseable one
		{"2", "0", 0, 0},     // non-positive limit means no limit, no offset
		{"2", "-5", 0, 0},
		{"2", "abc", 0, 0},
	}
	for _, tt := range tests {
		q := search.Parse(search.Params{Page: tt.page, Limit: tt.limit})
		assert.Equal(t, tt.wantLimit, q.Limit, "page=%q limit=%q", tt.page, tt.limit)
		assert.Equal(t, tt.wantOffset, q.Offset, "page=%q limit=%q", tt.page, tt.limit)
	}
}

func TestQuery_Match(t *testing.T) {
	min, max := 10.0, 20.0
	q := search.Query{Title: "jacket", PriceMin: &min, PriceMax: &max}

	assert.True(t, q.Match("Winter Jacket", 15))
	assert.True(t, q.Match("JACKET", 10)) // inclusive lower bound
	assert.True(t, q.Match("jacket", 20)) // inclusive upper bound
	assert.False(t, q.Match("Winter Coat", 15))
	assert.False(t, q.Match("Winter Jacket", 9.99))
	assert.False(t, q.Match("Winter Jacket", 20.01))

	// Empty query matches everything.
	assert.True(t, search.Query{}.Match("anything", 0))
}

func TestQuery_Window(t *testing.T) {
	// For N matches, limit L>0 and page P>=1 the page has
	// min(L, max(0, N-(P-1)*L)) items.
	for _, n := range []int{0, 1, 7, 10, 23} {
		for _, l := range []int{1, 3, 10} {
			for p := 1; p <= 5; p++ {
				q := search.Query{Limit: l, Offset: (p - 1) * l}
				start, end := q.Window(n)

				want := n - (p-1)*l
				if want < 0 {
					want = 0
				}
				if want > l {
					want = l
				}
				assert.Equal(t, want, end-start,
					fmt.Sprintf("n=%d limit=%d page=%d", n, l, p))
			}
		}
	}

	// No limit returns everything.
	start, end := search.Query{}.Window(42)
	assert.Equal(t, 0, start)
	assert.Equal(t, 42, end)
}
