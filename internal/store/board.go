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

// BoardStore handles board and post database operations.
type BoardStore struct {
	db *sql.DB
}

// NewBoardStore creates a new BoardStore.
func NewBoardStore(db *sql.DB) *BoardStore {
	return &BoardStore{db: db}
}

// ListBoards returns the active boards.
func (s *BoardStore) ListBoards() ([]models.Board, error) {
	rows, err := s.db.Query(`
		SELECT id, name, board_type, description, is_active, created_at
		FROM boards
		WHERE is_active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.BoardType, &b.Description, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// FindBoardByType retrieves a board by its fixed type. Returns nil if
// not found.
func (s *BoardStore) FindBoardByType(t models.BoardType) (*models.Board, error) {
	var b models.Board
	err := s.db.QueryRow(`
		SELECT id, name, board_type, description, is_active, created_at
		FROM boards WHERE board_type = $1 AND is_active
	`, t).Scan(&b.ID, &b.Name, &b.BoardType, &b.Description, &b.IsActive, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find board: %w", err)
	}
	return &b, nil
}

// PostFilter narrows a post listing.
type PostFilter struct {
	BoardType models.BoardType
	Status    string
	Search    string
	Page      int
	PageSize  int

	// ViewerID and ViewerIsAdmin control private-post visibility: a
	// private post is listed only for its author or an admin.
	ViewerID      int64
	ViewerIsAdmin bool
}

const postColumns = `p.id, p.board_id, b.board_type, p.author_id, u.username,
	p.title, p.content, p.status, p.is_private, p.view_count,
	p.created_at, p.updated_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.BoardID, &p.BoardType, &p.Author, &p.AuthorName,
		&p.Title, &p.Content, &p.Status, &p.IsPrivate, &p.ViewCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns one page of posts matching the filter, newest first,
// with the total match count.
func (s *BoardStore) ListPosts(filter PostFilter) ([]models.Post, int, error) {
	where := []string{"b.is_active"}
	var args []any

	if filter.BoardType != "" {
		args = append(args, filter.BoardType)
		where = append(where, fmt.Sprintf("b.board_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", n, n))
	}
	if !filter.ViewerIsAdmin {
		args = append(args, filter.ViewerID)
		where = append(where, fmt.Sprintf("(NOT p.is_private OR p.author_id = $%d)", len(args)))
	}

	from := `FROM posts p
		JOIN boards b ON b.id = p.board_id
		JOIN users u ON u.id = p.author_id`
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) "+from+" WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(
		"SELECT %s %s WHERE %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		postColumns, from, cond, len(args)-1, len(args),
	)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// FindPost retrieves a post with its replies. Returns nil if not found.
func (s *BoardStore) FindPost(id int64) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN boards b ON b.id = p.board_id
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	replies, err := s.ListReplies(id)
	if err != nil {
		return nil, err
	}
	p.Replies = replies
	return p, nil
}

// CreatePost inserts a post. REQUEST posts start PENDING; all others
// start PUBLISHED.
func (s *BoardStore) CreatePost(boardID, authorID int64, boardType models.BoardType, title, content string, isPrivate bool) (*models.Post, error) {
	status := models.PostPublished
	if boardType == models.BoardRequest {
		status = models.PostPending
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO posts (board_id, author_id, title, content, status, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, boardID, authorID, title, content, status, isPrivate).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindPost(id)
}

// UpdatePost edits a post's title and body.
func (s *BoardStore) UpdatePost(id int64, title, content string, isPrivate bool) error {
	_, err := s.db.Exec(`
		UPDATE posts SET title = $1, content = $2, is_private = $3, updated_at = NOW()
		WHERE id = $4
	`, title, content, isPrivate, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// SetPostStatus moves a post through the request workflow.
func (s *BoardStore) SetPostStatus(id int64, status models.PostStatus) error {
	_, err := s.db.Exec(
		`UPDATE posts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set post status: %w", err)
	}
	return nil
}

// DeletePost removes a post and its replies.
func (s *BoardStore) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// BumpPostViewCount increments the view counter.
func (s *BoardStore) BumpPostViewCount(id int64) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("bump post view count: %w", err)
	}
	return nil
}

// ListReplies returns the replies under a post, oldest first.
func (s *BoardStore) ListReplies(postID int64) ([]models.PostReply, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.post_id, r.author_id, u.username, r.content,
			r.is_admin_reply, r.created_at, r.updated_at
		FROM post_replies r
		JOIN users u ON u.id = r.author_id
		WHERE r.post_id = $1
		ORDER BY r.created_at, r.id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var replies []models.PostReply
	for rows.Next() {
		var r models.PostReply
		if err := rows.Scan(
			&r.ID, &r.PostID, &r.Author, &r.AuthorName, &r.Content,
			&r.IsAdminReply, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// CreateReply inserts a reply under a post. An admin reply to a REQUEST
// post moves the post to COMPLETED in the same transaction.
func (s *BoardStore) CreateReply(postID, authorID int64, content string, isAdminReply bool) (*models.PostReply, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	defer tx.Rollback()

	var r models.PostReply
	err = tx.QueryRow(`
		INSERT INTO post_replies (post_id, author_id, content, is_admin_reply)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, author_id, content, is_admin_reply, created_at, updated_at
	`, postID, authorID, content, isAdminReply).Scan(
		&r.ID, &r.PostID, &r.Author, &r.Content, &r.IsAdminReply, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	if isAdminReply {
		if _, err := tx.Exec(`
			UPDATE posts p SET status = 'COMPLETED', updated_at = NOW()
			FROM boards b
			WHERE p.id = $1 AND b.id = p.board_id
				AND b.board_type = 'REQUEST' AND p.status IN ('PENDING', 'IN_PROGRESS')
		`, postID); err != nil {
			return nil, fmt.Errorf("complete request: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return &r, nil
}

// DeleteReply removes a reply.
func (s *BoardStore) DeleteReply(id int64) error {
	_, err := s.db.Exec(`DELETE FROM post_replies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	return nil
}
