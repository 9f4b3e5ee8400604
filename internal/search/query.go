// Package search translates untrusted offer-search parameters into a typed,
// immutable query specification consumed by the offer repositories.
package search

import (
	"strconv"
	"strings"
)

// SortOrder is the requested price ordering of a search.
type SortOrder int

const (
	// SortNone means no explicit ordering was requested; repositories fall
	// back to creation order so results stay deterministic.
	SortNone SortOrder = iota
	SortPriceAsc
	SortPriceDesc
)

// Params are the raw query parameters of a search request.
type Params struct {
	Title    string
	PriceMin string
	PriceMax string
	Sort     string
	Page     string
	Limit    string
}

// Query is the parsed search specification: a filter predicate, a sort key
// and a pagination window.
type Query struct {
	// Title filters on a case-insensitive substring match; empty disables it.
	Title string
	// PriceMin and PriceMax are inclusive bounds; nil disables a bound.
	PriceMin *float64
	PriceMax *float64
	Sort     SortOrder
	// Limit is the page size; 0 means unlimited.
	Limit int
	// Offset is the number of matching records skipped before the page.
	Offset int
}

// Parse builds a Query from raw parameters. Unparseable values disable the
// corresponding filter or fall back to the unpaginated defaults rather than
// failing the request.
func Parse(p Params) Query {
	q := Query{Title: p.Title}

	if v, err := strconv.ParseFloat(p.PriceMin, 64); err == nil {
		q.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(p.PriceMax, 64); err == nil {
		q.PriceMax = &v
	}

	q.Sort = parseSort(p.Sort)
	q.Limit, q.Offset = parseWindow(p.Page, p.Limit)
	return q
}

// parseSort maps a "price-asc" / "price-desc" parameter to a SortOrder.
// The direction suffix is matched case-insensitively; anything that is not
// "desc" sorts ascending, matching the historical behavior of the API.
func parseSort(s string) SortOrder {
	if s == "" {
		return SortNone
	}
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "price-")
	if strings.Contains(s, "desc") {
		return SortPriceDesc
	}
	return SortPriceAsc
}

// parseWindow computes the effective limit and offset. A limit that does not
// parse to a positive integer means "no limit", in which case pagination is
// disabled entirely and the offset is 0.
func parseWindow(page, limit string) (int, int) {
	l, err := strconv.Atoi(limit)
	if err != nil || l <= 0 {
		return 0, 0
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return l, 0
	}
	return l, (p - 1) * l
}

// Match reports whether an offer with the given title and price satisfies
// the filter predicate.
func (q Query) Match(title string, price float64) bool {
	if q.Title != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(q.Title)) {
		return false
	}
	if q.PriceMin != nil && price < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && price > *q.PriceMax {
		return false
	}
	return true
}

// Window clips the pagination window against n matching records and returns
// the [start, end) slice bounds of the page.
func (q Query) Window(n int) (int, int) {
	start := q.Offset
	if start > n {
		start = n
	}
	if q.Limit <= 0 {
		return start, n
	}
	end := start + q.Limit
	if end > n {
		end = n
	}
	return start, end
}
