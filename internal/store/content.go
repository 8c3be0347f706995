// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"lislab/internal/models"
)

// ContentStore handles educational content database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ContentFilter narrows a content listing. Zero values mean "no filter".
// ViewerID marks favorites in the result; zero means anonymous.
type ContentFilter struct {
	Search     string
	Category   string // category slug, matches the category itself or its parent
	Tag        string // tag slug
	Difficulty string
	Page       int
	PageSize   int
	ViewerID   int64

	// IncludeUnpublished lifts the PUBLISHED-only restriction for
	// admin listings.
	IncludeUnpublished bool
}

// contentColumns is the select list shared by List and FindBySlug. The
// %d slot takes the placeholder number of the viewer ID.
const contentColumns = `c.id, c.title, c.slug, c.summary, c.thumbnail,
	c.category_id, cat.name, c.author_id, u.username, c.status, c.version,
	c.view_count, c.estimated_time, c.difficulty, c.meta_description,
	c.created_at, c.updated_at, c.published_at,
	(SELECT COUNT(*) FROM favorites f WHERE f.content_id = c.id) AS favorite_count,
	EXISTS (SELECT 1 FROM favorites f WHERE f.content_id = c.id AND f.user_id = $%d) AS is_favorited`

// List returns one page of contents matching the filter, newest first,
// together with the total match count for pagination.
func (s *ContentStore) List(filter ContentFilter) ([]models.Content, int, error) {
	where := []string{"NOT c.is_deleted"}
	var args []any

	if !filter.IncludeUnpublished {
		where = append(where, "c.status = 'PUBLISHED'")
	}

	if filter.Category != "" {
		// Match the category's own slug or the slug of its parent, so
		// filtering by a top-level category pulls in every child.
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("(cat.slug = $%d OR parent.slug = $%d)", len(args), len(args)))
	}

	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		where = append(where, fmt.Sprintf("c.difficulty = $%d", len(args)))
	}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM content_tags ctg JOIN tags t ON t.id = ctg.tag_id
				WHERE ctg.content_id = c.id AND t.slug = $%d)`, len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(c.title ILIKE $%d OR c.summary ILIKE $%d OR EXISTS (
				SELECT 1 FROM content_tags ctg JOIN tags t ON t.id = ctg.tag_id
				WHERE ctg.content_id = c.id AND t.name ILIKE $%d))`, n, n, n))
	}

	from := `FROM contents c
		JOIN categories cat ON cat.id = c.category_id
		JOIN categories parent ON parent.id = cat.parent_id
		JOIN users u ON u.id = c.author_id`
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) "+from+" WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contents: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 12
	}
	args = append(args, filter.ViewerID, size, (page-1)*size)
	query := fmt.Sprintf(
		"SELECT %s %s WHERE %s ORDER BY c.created_at DESC, c.id DESC LIMIT $%d OFFSET $%d",
		fmt.Sprintf(contentColumns, len(args)-2), from, cond, len(args)-1, len(args),
	)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contents: %w", err)
	}
	defer rows.Close()

	var contents []models.Content
	for rows.Next() {
		c, err := scanContentRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachTags(contents); err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func scanContentRow(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Summary, &c.Thumbnail,
		&c.Category, &c.CategoryName, &c.Author, &c.AuthorName, &c.Status,
		&c.Version, &c.ViewCount, &c.EstimatedTime, &c.Difficulty,
		&c.MetaDescription, &c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
		&c.FavoriteCount, &c.IsFavorited,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// attachTags loads tags for a slice of contents in one query.
func (s *ContentStore) attachTags(contents []models.Content) error {
	if len(contents) == 0 {
		return nil
	}

	index := make(map[int64]*models.Content, len(contents))
	ids := make([]any, 0, len(contents))
	placeholders := make([]string, 0, len(contents))
	for i := range contents {
		contents[i].Tags = []models.Tag{}
		index[contents[i].ID] = &contents[i]
		ids = append(ids, contents[i].ID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(ids)))
	}

	rows, err := s.db.Query(`
		SELECT ctg.content_id, t.id, t.name, t.slug, t.created_at
		FROM content_tags ctg
		JOIN tags t ON t.id = ctg.tag_id
		WHERE ctg.content_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY t.name`, ids...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID int64
		var t models.Tag
		if err := rows.Scan(&contentID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if c, ok := index[contentID]; ok {
			c.Tags = append(c.Tags, t)
		}
	}
	return rows.Err()
}

// FindBySlug retrieves a content item by slug, including its HTML body
// and tags. Unpublished items are returned only when includeUnpublished
// is set; soft-deleted items are never returned. Returns nil if not found.
func (s *ContentStore) FindBySlug(slug string, viewerID int64, includeUnpublished bool) (*models.Content, error) {
	cond := "c.slug = $2 AND NOT c.is_deleted"
	if !includeUnpublished {
		cond += " AND c.status = 'PUBLISHED'"
	}

	row := s.db.QueryRow(`
		SELECT `+fmt.Sprintf(contentColumns, 1)+`, c.content_html, c.prerequisites,
			c.learning_objectives, c.meta_keywords
		FROM contents c
		JOIN categories cat ON cat.id = c.category_id
		JOIN users u ON u.id = c.author_id
		WHERE `+cond, viewerID, slug)

	var c models.Content
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Summary, &c.Thumbnail,
		&c.Category, &c.CategoryName, &c.Author, &c.AuthorName, &c.Status,
		&c.Version, &c.ViewCount, &c.EstimatedTime, &c.Difficulty,
		&c.MetaDescription, &c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
		&c.FavoriteCount, &c.IsFavorited,
		&c.ContentHTML, &c.Prerequisites, &c.LearningObjectives, &c.MetaKeywords,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}

	one := []models.Content{c}
	if err := s.attachTags(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// BumpViewCount increments the view counter. Retrieval handlers call
// this after a successful detail read; a failure here does not fail the
// request.
func (s *ContentStore) BumpViewCount(id int64) error {
	_, err := s.db.Exec(`UPDATE contents SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("bump view count: %w", err)
	}
	return nil
}

// ContentInput carries the writable fields of a content item.
type ContentInput struct {
	Title              string
	Slug               string
	Summary            string
	ContentHTML        string
	Thumbnail          *string
	CategoryID         int64
	Status             models.ContentStatus
	Version            string
	EstimatedTime      int
	Difficulty         models.Difficulty
	Prerequisites      string
	LearningObjectives string
	MetaDescription    string
	MetaKeywords       string
	TagNames           []string
}

// Create inserts a content item and links its tags.
func (s *ContentStore) Create(in ContentInput, authorID int64) (*models.Content, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO contents (title, slug, summary, content_html, thumbnail,
			category_id, author_id, status, version, estimated_time, difficulty,
			prerequisites, learning_objectives, meta_description, meta_keywords,
			published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			CASE WHEN $8 = 'PUBLISHED' THEN NOW() ELSE NULL END)
		RETURNING id
	`, in.Title, in.Slug, in.Summary, in.ContentHTML, in.Thumbnail,
		in.CategoryID, authorID, in.Status, in.Version, in.EstimatedTime,
		in.Difficulty, in.Prerequisites, in.LearningObjectives,
		in.MetaDescription, in.MetaKeywords,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	if err := syncTags(tx, id, in.TagNames); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return s.FindBySlug(in.Slug, authorID, true)
}

// Update rewrites a content item. The previous HTML is snapshotted into
// content_versions before the write so editors can roll back.
func (s *ContentStore) Update(id int64, in ContentInput, editorID int64, changeLog string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	defer tx.Rollback()

	var prevHTML, prevVersion string
	err = tx.QueryRow(
		`SELECT content_html, version FROM contents WHERE id = $1 AND NOT is_deleted`, id,
	).Scan(&prevHTML, &prevVersion)
	if err == sql.ErrNoRows {
		return fmt.Errorf("update content: not found")
	}
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO content_versions (content_id, version, content_html, change_log, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, id, prevVersion, prevHTML, changeLog, editorID); err != nil {
		return fmt.Errorf("snapshot content version: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE contents SET
			title = $1, slug = $2, summary = $3, content_html = $4, thumbnail = $5,
			category_id = $6, status = $7, version = $8, estimated_time = $9,
			difficulty = $10, prerequisites = $11, learning_objectives = $12,
			meta_description = $13, meta_keywords = $14,
			published_at = CASE
				WHEN $7 = 'PUBLISHED' AND published_at IS NULL THEN NOW()
				ELSE published_at
			END,
			updated_at = NOW()
		WHERE id = $15
	`, in.Title, in.Slug, in.Summary, in.ContentHTML, in.Thumbnail,
		in.CategoryID, in.Status, in.Version, in.EstimatedTime, in.Difficulty,
		in.Prerequisites, in.LearningObjectives, in.MetaDescription,
		in.MetaKeywords, id); err != nil {
		return fmt.Errorf("update content: %w", err)
	}

	if err := syncTags(tx, id, in.TagNames); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// syncTags replaces the tag set of a content item, creating missing
// tags by name.
func syncTags(tx *sql.Tx, contentID int64, names []string) error {
	if _, err := tx.Exec(`DELETE FROM content_tags WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("sync tags: %w", err)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var tagID int64
		err := tx.QueryRow(`
			INSERT INTO tags (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name, tagSlug(name)).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO content_tags (content_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, contentID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

func tagSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// SoftDelete marks a content item deleted. The row stays so favorites
// and version history remain consistent.
func (s *ContentStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE contents SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// ListTags returns all tags ordered by name.
func (s *ContentStore) ListTags() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Versions lists the snapshots of a content item, newest first.
func (s *ContentStore) Versions(contentID int64) ([]models.ContentVersion, error) {
	rows, err := s.db.Query(`
		SELECT id, content_id, version, content_html, change_log, created_by, created_at
		FROM content_versions
		WHERE content_id = $1
		ORDER BY created_at DESC, id DESC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list content versions: %w", err)
	}
	defer rows.Close()

	var versions []models.ContentVersion
	for rows.Next() {
		var v models.ContentVersion
		if err := rows.Scan(
			&v.ID, &v.ContentID, &v.Version, &v.ContentHTML,
			&v.ChangeLog, &v.CreatedBy, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
