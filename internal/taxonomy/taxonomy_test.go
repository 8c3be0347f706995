package taxonomy

import (
	"testing"

	"lislab/internal/models"
)

// fixture mirrors a realistic category payload: two branches, one of
// which has children, plus an inactive-looking straggler with a high
// sort order.
func fixture() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Web Docs", Slug: "web-docs", Parent: 1, Order: 1},
		{ID: 2, Name: "HTML", Slug: "html", Parent: 1, Order: 2},
		{ID: 3, Name: "XML", Slug: "xml", Parent: 1, Order: 1},
		{ID: 4, Name: "Metadata", Slug: "metadata", Parent: 4, Order: 2},
		{ID: 5, Name: "Overview", Slug: "overview", Parent: 5, Order: 10},
	}
}

func TestTopLevel(t *testing.T) {
	roots := TopLevel(fixture())

	if len(roots) != 3 {
		t.Fatalf("expected 3 top-level categories, got %d", len(roots))
	}
	// Ordered by sort order: web-docs (1), metadata (2), overview (10).
	wantSlugs := []string{"web-docs", "metadata", "overview"}
	for i, want := range wantSlugs {
		if roots[i].Slug != want {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i].Slug, want)
		}
	}
	// Every returned category must be self-referential, and every
	// self-referential category must be returned.
	for _, c := range roots {
		if c.Parent != c.ID {
			t.Errorf("category %d returned as top-level but parent = %d", c.ID, c.Parent)
		}
	}
}

func TestTopLevelEmpty(t *testing.T) {
	if roots := TopLevel(nil); len(roots) != 0 {
		t.Errorf("expected no roots for empty input, got %d", len(roots))
	}
}

func TestChildrenOf(t *testing.T) {
	all := fixture()

	children := ChildrenOf(all, 1)
	if len(children) != 2 {
		t.Fatalf("expected 2 children of category 1, got %d", len(children))
	}
	// xml (order 1) sorts before html (order 2).
	if children[0].Slug != "xml" || children[1].Slug != "html" {
		t.Errorf("children order = [%s, %s], want [xml, html]", children[0].Slug, children[1].Slug)
	}

	// The self-referential root never appears among its own children.
	for _, c := range children {
		if c.ID == 1 {
			t.Error("category 1 listed as its own child")
		}
	}

	if got := ChildrenOf(all, 4); len(got) != 0 {
		t.Errorf("expected no children for leaf category 4, got %d", len(got))
	}
}

func TestResolveSlug(t *testing.T) {
	all := fixture()

	id, ok := ResolveSlug(all, "html")
	if !ok || id != 2 {
		t.Errorf("ResolveSlug(html) = (%d, %v), want (2, true)", id, ok)
	}

	if _, ok := ResolveSlug(all, "no-such-slug"); ok {
		t.Error("ResolveSlug returned ok for unknown slug")
	}
}

func TestDescendantsMultiLevel(t *testing.T) {
	all := []models.Category{
		{ID: 1, Slug: "root", Parent: 1},
		{ID: 2, Slug: "mid", Parent: 1},
		{ID: 3, Slug: "leaf", Parent: 2},
	}

	got := Descendants(all, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 descendants, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("descendants = [%d, %d], want [2, 3]", got[0].ID, got[1].ID)
	}
}

func TestDescendantsCycleTerminates(t *testing.T) {
	// Pathological data: A's parent is B and B's parent is A, neither
	// self-referential. The walk must terminate.
	all := []models.Category{
		{ID: 10, Slug: "a", Parent: 11},
		{ID: 11, Slug: "b", Parent: 10},
	}

	got := Descendants(all, 10)
	if len(got) != 1 || got[0].ID != 11 {
		t.Errorf("expected cycle walk to visit only category 11, got %v", got)
	}
}

// TestEndToEndScenario is the canonical fixture walk: two branches,
// one with a single child.
func TestEndToEndScenario(t *testing.T) {
	all := []models.Category{
		{ID: 1, Parent: 1, Slug: "a"},
		{ID: 2, Parent: 1, Slug: "a-sub"},
		{ID: 3, Parent: 3, Slug: "b"},
	}

	roots := TopLevel(all)
	if len(roots) != 2 || roots[0].ID != 1 || roots[1].ID != 3 {
		t.Fatalf("TopLevel = %v, want categories 1 and 3", roots)
	}

	if kids := ChildrenOf(all, 1); len(kids) != 1 || kids[0].ID != 2 {
		t.Fatalf("ChildrenOf(1) = %v, want [2]", kids)
	}
	if kids := ChildrenOf(all, 3); len(kids) != 0 {
		t.Fatalf("ChildrenOf(3) = %v, want empty", kids)
	}
}
