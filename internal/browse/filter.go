// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package browse holds the content browsing filter state and turns it
// into the query parameters understood by the content listing endpoint.
// It is the single place where UI filter state becomes an API query.
package browse

import (
	"net/url"
	"strconv"
)

// All is the sentinel meaning "no filter" for category and difficulty
// selections. Sentinels never reach the wire; BuildQuery strips them.
const All = "all"

// Filter is the per-session browsing state. The zero value is not
// ready to use; construct with NewFilter.
type Filter struct {
	Search      string
	TopCategory string
	SubCategory string
	Difficulty  string
	Page        int
}

// NewFilter returns a filter with everything reset.
func NewFilter() *Filter {
	return &Filter{
		TopCategory: All,
		SubCategory: All,
		Difficulty:  All,
		Page:        1,
	}
}

// FromQuery seeds a filter from URL query parameters, as happens when
// an external navigation lands on the listing page with ?category=...
// set. A seeded category always arrives as the top selection with the
// sub-category cleared.
func FromQuery(values url.Values) *Filter {
	f := NewFilter()
	if c := values.Get("category"); c != "" {
		f.SetTopCategory(c)
	}
	if s := values.Get("search"); s != "" {
		f.SetSearch(s)
	}
	if d := values.Get("difficulty"); d != "" {
		f.SetDifficulty(d)
	}
	return f
}

// SetTopCategory selects a top-level category. The sub-category resets
// to All: a sub-category selection is only meaningful relative to its
// current parent.
func (f *Filter) SetTopCategory(slug string) {
	f.TopCategory = slug
	f.SubCategory = All
	f.Page = 1
}

// SetSubCategory selects a sub-category under the current top category.
func (f *Filter) SetSubCategory(slug string) {
	f.SubCategory = slug
	f.Page = 1
}

// SetSearch replaces the free-text search term.
func (f *Filter) SetSearch(text string) {
	f.Search = text
	f.Page = 1
}

// SetDifficulty selects a difficulty level.
func (f *Filter) SetDifficulty(level string) {
	f.Difficulty = level
	f.Page = 1
}

// SetPage moves to the given result page.
func (f *Filter) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.Page = page
}

// Reset returns every field to its default.
func (f *Filter) Reset() {
	f.Search = ""
	f.TopCategory = All
	f.SubCategory = All
	f.Difficulty = All
	f.Page = 1
}

// EffectiveCategory resolves the single category slug sent to the API.
// A chosen sub-category always overrides its parent; the two are never
// combined, since the listing endpoint already matches a parent slug
// against its children. Empty string means "no category filter".
func (f *Filter) EffectiveCategory() string {
	if f.SubCategory != All {
		return f.SubCategory
	}
	if f.TopCategory != All {
		return f.TopCategory
	}
	return ""
}

// BuildQuery maps the filter state to listing-endpoint query
// parameters. All sentinels and empty values are omitted; unknown slugs
// pass through untouched. The API answers them with zero results,
// which is not an error at this layer.
func (f *Filter) BuildQuery() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if c := f.EffectiveCategory(); c != "" {
		q.Set("category", c)
	}
	if f.Difficulty != All && f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}
