package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"lislab/internal/models"
)

// testAuthorID returns a valid user ID for content creation.
func testAuthorID(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("no users in database, run seed first: %v", err)
	}
	return id
}

// testCategoryPair creates a top-level category and one child, returning
// both. Cleanup is registered.
func testCategoryPair(t *testing.T, db *sql.DB) (*models.Category, *models.Category) {
	t.Helper()
	s := NewCategoryStore(db)

	suffix := uuid.NewString()[:8]
	parent, err := s.Create("Parent "+suffix, "parent-"+suffix, "", 0, 0)
	if err != nil {
		t.Fatalf("create parent category: %v", err)
	}
	child, err := s.Create("Child "+suffix, "child-"+suffix, "", parent.ID, 0)
	if err != nil {
		t.Fatalf("create child category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, parent.Slug, child.Slug) })
	return parent, child
}

func testContentInput(slug string, categoryID int64, status models.ContentStatus) ContentInput {
	return ContentInput{
		Title:       "Test " + slug,
		Slug:        slug,
		Summary:     "summary",
		ContentHTML: "<p>body</p>",
		CategoryID:  categoryID,
		Status:      status,
		Version:     "1.0",
		Difficulty:  models.DifficultyBeginner,
	}
}

func TestContentStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-create-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, slug) })

	created, err := s.Create(testContentInput(slug, child.ID, models.ContentStatusPublished), authorID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if created.PublishedAt == nil {
		t.Error("expected non-nil published_at for published content")
	}

	found, err := s.FindBySlug(slug, 0, false)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected content, got nil")
	}
	if found.CategoryName != child.Name {
		t.Errorf("category name: got %q, want %q", found.CategoryName, child.Name)
	}
	if found.IsFavorited {
		t.Error("anonymous viewer should not see is_favorited")
	}
}

func TestContentStoreDraftHiddenFromPublic(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-draft-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, slug) })

	if _, err := s.Create(testContentInput(slug, child.ID, models.ContentStatusDraft), authorID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindBySlug(slug, 0, false)
	if err != nil {
		t.Fatalf("FindBySlug (public): %v", err)
	}
	if found != nil {
		t.Error("expected nil for draft content via public FindBySlug")
	}

	found, err = s.FindBySlug(slug, 0, true)
	if err != nil {
		t.Fatalf("FindBySlug (admin): %v", err)
	}
	if found == nil {
		t.Error("expected draft content via admin FindBySlug")
	}
}

func TestContentStoreParentSlugFilterIncludesChildren(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	parent, child := testCategoryPair(t, db)

	inParent := "test-in-parent-" + uuid.NewString()[:8]
	inChild := "test-in-child-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, inParent, inChild) })

	for slug, cat := range map[string]int64{inParent: parent.ID, inChild: child.ID} {
		if _, err := s.Create(testContentInput(slug, cat, models.ContentStatusPublished), authorID); err != nil {
			t.Fatalf("Create %s: %v", slug, err)
		}
	}

	// Filtering by the parent slug must return contents attached to the
	// parent itself and to its children.
	contents, total, err := s.List(ContentFilter{Category: parent.Slug})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	slugs := map[string]bool{}
	for _, c := range contents {
		slugs[c.Slug] = true
	}
	if !slugs[inParent] || !slugs[inChild] {
		t.Errorf("missing contents in parent filter: %v", slugs)
	}

	// The child slug narrows to the child only.
	_, total, err = s.List(ContentFilter{Category: child.Slug})
	if err != nil {
		t.Fatalf("List (child): %v", err)
	}
	if total != 1 {
		t.Errorf("child total = %d, want 1", total)
	}
}

func TestContentStoreSearchMatchesTagName(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-tag-search-" + uuid.NewString()[:8]
	tagName := "needle-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanContents(t, db, slug)
		db.Exec("DELETE FROM tags WHERE name = $1", tagName)
	})

	in := testContentInput(slug, child.ID, models.ContentStatusPublished)
	in.TagNames = []string{tagName}
	if _, err := s.Create(in, authorID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	contents, total, err := s.List(ContentFilter{Search: tagName})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(contents) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 match via tag name", total, len(contents))
	}
	if len(contents[0].Tags) != 1 || contents[0].Tags[0].Name != tagName {
		t.Errorf("tags = %v, want [%s]", contents[0].Tags, tagName)
	}
}

func TestContentStoreUpdateSnapshotsVersion(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-version-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, slug) })

	created, err := s.Create(testContentInput(slug, child.ID, models.ContentStatusPublished), authorID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := testContentInput(slug, child.ID, models.ContentStatusPublished)
	in.ContentHTML = "<p>revised</p>"
	in.Version = "1.1"
	if err := s.Update(created.ID, in, authorID, "revision"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	versions, err := s.Versions(created.ID)
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("len(versions) = %d, want 1", len(versions))
	}
	if versions[0].ContentHTML != "<p>body</p>" {
		t.Errorf("snapshot html = %q, want the pre-edit body", versions[0].ContentHTML)
	}
	if versions[0].Version != "1.0" {
		t.Errorf("snapshot version = %q, want 1.0", versions[0].Version)
	}
}

func TestContentStoreSoftDelete(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-softdel-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, slug) })

	created, err := s.Create(testContentInput(slug, child.ID, models.ContentStatusPublished), authorID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.SoftDelete(created.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	found, err := s.FindBySlug(slug, 0, true)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Error("soft-deleted content should not be returned, even for admins")
	}
}

func TestContentStoreBumpViewCount(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	authorID := testAuthorID(t, db)
	_, child := testCategoryPair(t, db)

	slug := "test-views-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContents(t, db, slug) })

	created, err := s.Create(testContentInput(slug, child.ID, models.ContentStatusPublished), authorID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.BumpViewCount(created.ID); err != nil {
		t.Fatalf("BumpViewCount: %v", err)
	}
	found, err := s.FindBySlug(slug, 0, false)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found.ViewCount != 1 {
		t.Errorf("view_count = %d, want 1", found.ViewCount)
	}
}
