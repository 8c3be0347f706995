// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category represents a node in the content taxonomy. The taxonomy is a
// forest: a category whose Parent equals its own ID is top-level. Parent
// is never null on the wire: "no parent" is encoded as self-reference,
// which keeps the API compatible with existing clients.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Parent      int64     `json:"parent"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`

	// ContentCount is populated by store list methods.
	ContentCount int `json:"content_count"`
}

// IsTopLevel reports whether the category is the root of its branch.
func (c *Category) IsTopLevel() bool {
	return c.Parent == c.ID
}

// Tag is a free-form label attached to contents.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
