package sidebar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"lislab/internal/models"
)

// fakeLister serves canned content lists per category slug and records
// which slugs were fetched.
type fakeLister struct {
	mu      sync.Mutex
	bySlug  map[string][]models.Content
	failing map[string]bool
	fetched []string
}

func (f *fakeLister) ListForCategory(slug string, limit int) ([]models.Content, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, slug)
	f.mu.Unlock()

	if f.failing[slug] {
		return nil, fmt.Errorf("boom")
	}
	return f.bySlug[slug], nil
}

func fixtureCategories() []models.Category {
	return []models.Category{
		{ID: 1, Parent: 1, Name: "Web", Slug: "web", Order: 1},
		{ID: 2, Parent: 1, Name: "HTML", Slug: "html", Order: 1},
		{ID: 3, Parent: 1, Name: "CSS", Slug: "css", Order: 2},
		{ID: 4, Parent: 4, Name: "Data", Slug: "data", Order: 2},
	}
}

func TestRenderLeafVsBranchRule(t *testing.T) {
	lister := &fakeLister{
		bySlug: map[string][]models.Content{
			"html": {{Title: "HTML Basics", Slug: "html-basics", Difficulty: models.DifficultyBeginner, EstimatedTime: 15}},
			"data": {{Title: "SQL Intro", Slug: "sql-intro", Difficulty: models.DifficultyIntermediate, EstimatedTime: 30}},
		},
	}
	r := NewRenderer(lister, nil)

	html, err := r.Render(context.Background(), fixtureCategories(), "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)

	// A branch shows its children, not its own content list: "web" must
	// not be fetched, while both its children and the childless "data"
	// root are.
	fetched := map[string]bool{}
	for _, s := range lister.fetched {
		fetched[s] = true
	}
	if fetched["web"] {
		t.Error("branch category fetched its own contents")
	}
	for _, want := range []string{"html", "css", "data"} {
		if !fetched[want] {
			t.Errorf("leaf %q was not fetched", want)
		}
	}

	if !strings.Contains(out, "HTML Basics") || !strings.Contains(out, "SQL Intro") {
		t.Error("content titles missing from rendered sidebar")
	}
	// CSS has no contents and renders the empty placeholder.
	if !strings.Contains(out, "콘텐츠가 없습니다") {
		t.Error("empty placeholder missing for contentless leaf")
	}
}

func TestRenderDegradesFailedBranch(t *testing.T) {
	lister := &fakeLister{
		bySlug: map[string][]models.Content{
			"html": {{Title: "HTML Basics", Slug: "html-basics"}},
		},
		failing: map[string]bool{"data": true},
	}
	r := NewRenderer(lister, nil)

	html, err := r.Render(context.Background(), fixtureCategories(), "")
	if err != nil {
		t.Fatalf("Render should not fail on a single branch error: %v", err)
	}
	out := string(html)

	if !strings.Contains(out, "콘텐츠를 불러오지 못했습니다") {
		t.Error("failed branch placeholder missing")
	}
	// The healthy branch still rendered.
	if !strings.Contains(out, "HTML Basics") {
		t.Error("healthy branch missing after sibling failure")
	}
}

func TestRenderMarksActiveSlug(t *testing.T) {
	lister := &fakeLister{
		bySlug: map[string][]models.Content{
			"html": {
				{Title: "HTML Basics", Slug: "html-basics"},
				{Title: "Forms", Slug: "forms"},
			},
		},
	}
	r := NewRenderer(lister, nil)

	html, err := r.Render(context.Background(), fixtureCategories(), "forms")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)

	if !strings.Contains(out, `class="active"`) {
		t.Error("active entry not marked")
	}
	if strings.Count(out, `class="active"`) != 1 {
		t.Errorf("active marks = %d, want exactly 1", strings.Count(out, `class="active"`))
	}
}
