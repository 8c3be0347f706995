// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"lislab/internal/models"
)

// CategoryStore handles taxonomy database operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// ListActive returns every active category ordered by sort order then
// name, with a published-content count per category. The result is the
// flat, unpaginated list the categories endpoint serves; clients build
// the tree themselves from the parent references.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
			c.is_active, c.created_at,
			COUNT(ct.id) FILTER (WHERE ct.status = 'PUBLISHED' AND NOT ct.is_deleted) AS content_count
		FROM categories c
		LEFT JOIN contents ct ON ct.category_id = c.id
		WHERE c.is_active
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Parent, &c.Order,
			&c.IsActive, &c.CreatedAt, &c.ContentCount,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// FindBySlug retrieves an active category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		SELECT id, name, slug, description, parent_id, sort_order, is_active, created_at
		FROM categories
		WHERE slug = $1 AND is_active
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Parent, &c.Order, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &c, nil
}

// Create inserts a category. When parent is zero the new row becomes
// top-level: its parent_id is pointed at its own ID in the same
// transaction, so the self-reference convention holds from the first
// read.
func (s *CategoryStore) Create(name, slug, description string, parent int64, order int) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	defer tx.Rollback()

	var c models.Category
	err = tx.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, name, slug, description, sort_order, is_active, created_at
	`, name, slug, description, order).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	c.Parent = parent
	if parent == 0 {
		c.Parent = c.ID
	}
	if _, err := tx.Exec(`UPDATE categories SET parent_id = $1 WHERE id = $2`, c.Parent, c.ID); err != nil {
		return nil, fmt.Errorf("set category parent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// Update modifies a category's editable fields.
func (s *CategoryStore) Update(id int64, name, slug, description string, order int, isActive bool) error {
	_, err := s.db.Exec(`
		UPDATE categories
		SET name = $1, slug = $2, description = $3, sort_order = $4, is_active = $5
		WHERE id = $6
	`, name, slug, description, order, isActive, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Deactivate hides a category and its direct children from listings.
// Contents keep their category reference.
func (s *CategoryStore) Deactivate(id int64) error {
	_, err := s.db.Exec(`
		UPDATE categories SET is_active = FALSE
		WHERE id = $1 OR (parent_id = $1 AND id <> parent_id)
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return nil
}
