// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Comment is a reader comment attached to a content item. One level of
// replies is supported through Parent. Deleted comments stay in the
// table (soft delete) so reply threads keep their shape.
type Comment struct {
	ID           int64      `json:"id"`
	ContentID    int64      `json:"content"`
	Author       int64      `json:"author"`
	AuthorName   string     `json:"author_name"`
	Parent       *int64     `json:"parent"`
	Text         string     `json:"text"`
	URLLink      string     `json:"url_link,omitempty"`
	IsAdminReply bool       `json:"is_admin_reply"`
	IsHidden     bool       `json:"is_hidden"`
	IsDeleted    bool       `json:"is_deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Replies      []Comment  `json:"replies,omitempty"`
}

// Visible reports whether the comment should be shown to a non-admin
// viewer.
func (c *Comment) Visible() bool {
	return !c.IsHidden && !c.IsDeleted
}
