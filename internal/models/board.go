// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// BoardType distinguishes the three fixed boards.
type BoardType string

const (
	BoardNotice  BoardType = "NOTICE"
	BoardRequest BoardType = "REQUEST"
	BoardQnA     BoardType = "QNA"
)

// Board is a posting area. The set of boards is fixed and seeded at
// migration time; the API exposes them read-only.
type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	BoardType   BoardType `json:"board_type"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostStatus tracks the workflow of a board post. Only REQUEST posts
// move through the PENDING → IN_PROGRESS → COMPLETED/REJECTED states;
// notice and QnA posts stay PUBLISHED.
type PostStatus string

const (
	PostPending    PostStatus = "PENDING"
	PostInProgress PostStatus = "IN_PROGRESS"
	PostCompleted  PostStatus = "COMPLETED"
	PostRejected   PostStatus = "REJECTED"
	PostPublished  PostStatus = "PUBLISHED"
)

// ValidPostStatus reports whether s is one of the known post statuses.
func ValidPostStatus(s string) bool {
	switch PostStatus(s) {
	case PostPending, PostInProgress, PostCompleted, PostRejected, PostPublished:
		return true
	}
	return false
}

// Post is a board entry. Content is stored as Markdown; ContentHTML is
// rendered on read and never persisted. Private posts are visible only
// to their author and admins.
type Post struct {
	ID          int64      `json:"id"`
	BoardID     int64      `json:"board"`
	BoardType   BoardType  `json:"board_type"`
	Author      int64      `json:"author"`
	AuthorName  string     `json:"author_name"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html,omitempty"`
	Status      PostStatus `json:"status"`
	IsPrivate   bool       `json:"is_private"`
	ViewCount   int        `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Replies     []PostReply `json:"replies,omitempty"`
}

// PostReply is a reply under a board post. An admin reply on a REQUEST
// post completes the request workflow.
type PostReply struct {
	ID           int64     `json:"id"`
	PostID       int64     `json:"post"`
	Author       int64     `json:"author"`
	AuthorName   string    `json:"author_name"`
	Content      string    `json:"content"`
	IsAdminReply bool      `json:"is_admin_reply"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
