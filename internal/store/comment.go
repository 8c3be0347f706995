package store

import (
	"database/sql"
	"fmt"

	"lislab/internal/models"
)

// CommentStore handles comment database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.content_id, c.author_id, u.username, c.parent_id,
	c.body, c.url_link, c.is_admin_reply, c.is_hidden, c.is_deleted,
	c.created_at, c.updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.ContentID, &c.Author, &c.AuthorName, &c.Parent,
		&c.Text, &c.URLLink, &c.IsAdminReply, &c.IsHidden, &c.IsDeleted,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByContent returns the visible comment thread for a content item:
// top-level comments oldest first, each carrying its replies. Hidden and
// deleted comments are included only for admins, who need them for
// moderation.
func (s *CommentStore) ListByContent(contentID int64, includeHidden bool) ([]models.Comment, error) {
	cond := "c.content_id = $1"
	if !includeHidden {
		cond += " AND NOT c.is_hidden AND NOT c.is_deleted"
	}

	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE `+cond+`
		ORDER BY c.created_at, c.id
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var all []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		all = append(all, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return threadComments(all), nil
}

// threadComments arranges a flat, chronologically ordered slice into
// top-level comments with nested replies. A reply whose parent is not in
// the slice (hidden or deleted) is dropped with it.
func threadComments(all []models.Comment) []models.Comment {
	var roots []models.Comment
	index := make(map[int64]int)
	for _, c := range all {
		if c.Parent == nil {
			c.Replies = []models.Comment{}
			roots = append(roots, c)
			index[c.ID] = len(roots) - 1
		}
	}
	for _, c := range all {
		if c.Parent == nil {
			continue
		}
		if i, ok := index[*c.Parent]; ok {
			roots[i].Replies = append(roots[i].Replies, c)
		}
	}
	return roots
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id int64) (*models.Comment, error) {
	row := s.db.QueryRow(`
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return c, nil
}

// Create inserts a comment. Replies to replies are flattened onto the
// top-level parent so threads stay one level deep.
func (s *CommentStore) Create(contentID, authorID int64, parent *int64, text, urlLink string, isAdminReply bool) (*models.Comment, error) {
	if parent != nil {
		p, err := s.FindByID(*parent)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("create comment: parent not found")
		}
		if p.Parent != nil {
			parent = p.Parent
		}
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO comments (content_id, author_id, parent_id, body, url_link, is_admin_reply)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, contentID, authorID, parent, text, urlLink, isAdminReply).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.FindByID(id)
}

// UpdateText edits a comment's body.
func (s *CommentStore) UpdateText(id int64, text, urlLink string) error {
	_, err := s.db.Exec(`
		UPDATE comments SET body = $1, url_link = $2, updated_at = NOW() WHERE id = $3
	`, text, urlLink, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// SoftDelete marks a comment deleted without removing the row, so reply
// threads keep their shape.
func (s *CommentStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE comments SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// SetHidden toggles moderator visibility of a comment.
func (s *CommentStore) SetHidden(id int64, hidden bool) error {
	_, err := s.db.Exec(
		`UPDATE comments SET is_hidden = $1, updated_at = NOW() WHERE id = $2`, hidden, id)
	if err != nil {
		return fmt.Errorf("hide comment: %w", err)
	}
	return nil
}
