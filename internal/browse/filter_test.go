package browse

import (
	"net/url"
	"testing"
)

func TestSetTopCategoryResetsSubCategory(t *testing.T) {
	f := NewFilter()
	f.SetTopCategory("web-docs")
	f.SetSubCategory("html")

	f.SetTopCategory("metadata")

	if f.SubCategory != All {
		t.Errorf("sub-category = %q after top category change, want %q", f.SubCategory, All)
	}
	if f.TopCategory != "metadata" {
		t.Errorf("top category = %q, want metadata", f.TopCategory)
	}
}

func TestSetTopCategoryResetsSubCategoryRegardlessOfSlug(t *testing.T) {
	for _, slug := range []string{"web-docs", "metadata", All, "does-not-exist"} {
		f := NewFilter()
		f.SetTopCategory("web-docs")
		f.SetSubCategory("html")

		f.SetTopCategory(slug)

		if f.SubCategory != All {
			t.Errorf("SetTopCategory(%q): sub-category = %q, want %q", slug, f.SubCategory, All)
		}
	}
}

func TestEffectiveCategoryPrecedence(t *testing.T) {
	tests := []struct {
		name string
		top  string
		sub  string
		want string
	}{
		{"nothing selected", All, All, ""},
		{"top only", "web-docs", All, "web-docs"},
		{"sub overrides top", "web-docs", "html", "html"},
		{"sub without top is still sub", All, "html", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter()
			f.TopCategory = tt.top
			f.SubCategory = tt.sub
			if got := f.EffectiveCategory(); got != tt.want {
				t.Errorf("EffectiveCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndependentSetters(t *testing.T) {
	f := NewFilter()
	f.SetTopCategory("web-docs")
	f.SetSubCategory("html")

	f.SetSearch("rdf")
	f.SetDifficulty("BEGINNER")

	// Search and difficulty never cascade into the category selection.
	if f.TopCategory != "web-docs" || f.SubCategory != "html" {
		t.Errorf("category selection disturbed: top=%q sub=%q", f.TopCategory, f.SubCategory)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	f := NewFilter()
	f.SetPage(4)

	f.SetSearch("marc")
	if f.Page != 1 {
		t.Errorf("page = %d after search change, want 1", f.Page)
	}

	f.SetPage(3)
	f.SetDifficulty("ADVANCED")
	if f.Page != 1 {
		t.Errorf("page = %d after difficulty change, want 1", f.Page)
	}
}

func TestReset(t *testing.T) {
	f := NewFilter()
	f.SetTopCategory("web-docs")
	f.SetSubCategory("html")
	f.SetSearch("xml")
	f.SetDifficulty("ADVANCED")
	f.SetPage(2)

	f.Reset()

	if f.Search != "" || f.TopCategory != All || f.SubCategory != All || f.Difficulty != All || f.Page != 1 {
		t.Errorf("Reset left state %+v", f)
	}
}

func TestBuildQueryStripsSentinels(t *testing.T) {
	f := NewFilter()
	q := f.BuildQuery()

	if len(q) != 0 {
		t.Errorf("default filter produced parameters: %v", q)
	}
}

func TestBuildQuery(t *testing.T) {
	f := NewFilter()
	f.SetTopCategory("web-docs")
	f.SetSubCategory("html")
	f.SetSearch("xhtml")
	f.SetDifficulty("INTERMEDIATE")
	f.SetPage(2)

	q := f.BuildQuery()

	if got := q.Get("category"); got != "html" {
		t.Errorf("category = %q, want html (sub-category wins)", got)
	}
	if got := q.Get("search"); got != "xhtml" {
		t.Errorf("search = %q, want xhtml", got)
	}
	if got := q.Get("difficulty"); got != "INTERMEDIATE" {
		t.Errorf("difficulty = %q, want INTERMEDIATE", got)
	}
	if got := q.Get("page"); got != "2" {
		t.Errorf("page = %q, want 2", got)
	}
}

func TestFromQuerySeedsTopCategory(t *testing.T) {
	values := url.Values{"category": {"metadata"}}
	f := FromQuery(values)

	if f.TopCategory != "metadata" {
		t.Errorf("top category = %q, want metadata", f.TopCategory)
	}
	if f.SubCategory != All {
		t.Errorf("sub-category = %q, want %q", f.SubCategory, All)
	}
}
