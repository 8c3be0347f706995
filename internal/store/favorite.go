// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"lislab/internal/models"
)

// FavoriteStore handles bookmark database operations.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a new FavoriteStore.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Toggle flips the favorite state for the (user, content) pair and
// reports the resulting state: true means the row was created, false
// means an existing row was removed. The insert races benignly with a
// concurrent toggle for the same pair; the unique constraint resolves
// the winner and the loser falls through to the delete branch.
func (s *FavoriteStore) Toggle(userID, contentID int64) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO favorites (user_id, content_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, content_id) DO NOTHING
	`, userID, contentID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if inserted > 0 {
		return true, nil
	}

	if _, err := s.db.Exec(
		`DELETE FROM favorites WHERE user_id = $1 AND content_id = $2`,
		userID, contentID,
	); err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return false, nil
}

// ListByUser returns the viewer's bookmarked contents, newest bookmark
// first. Soft-deleted and unpublished contents are skipped.
func (s *FavoriteStore) ListByUser(userID int64) ([]models.Favorite, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.created_at,
			c.id, c.title, c.slug, c.summary, c.thumbnail,
			c.category_id, cat.name, c.author_id, u.username, c.status,
			c.version, c.view_count, c.estimated_time, c.difficulty,
			c.meta_description, c.created_at, c.updated_at, c.published_at,
			(SELECT COUNT(*) FROM favorites f2 WHERE f2.content_id = c.id)
		FROM favorites f
		JOIN contents c ON c.id = f.content_id
		JOIN categories cat ON cat.id = c.category_id
		JOIN users u ON u.id = c.author_id
		WHERE f.user_id = $1 AND NOT c.is_deleted AND c.status = 'PUBLISHED'
		ORDER BY f.created_at DESC, f.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var f models.Favorite
		c := &f.Content
		if err := rows.Scan(
			&f.ID, &f.CreatedAt,
			&c.ID, &c.Title, &c.Slug, &c.Summary, &c.Thumbnail,
			&c.Category, &c.CategoryName, &c.Author, &c.AuthorName, &c.Status,
			&c.Version, &c.ViewCount, &c.EstimatedTime, &c.Difficulty,
			&c.MetaDescription, &c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
			&c.FavoriteCount,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.UserID = userID
		c.IsFavorited = true
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}
