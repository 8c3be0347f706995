// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "DRAFT"
	ContentStatusPublished ContentStatus = "PUBLISHED"
	ContentStatusPrivate   ContentStatus = "PRIVATE"
	ContentStatusArchived  ContentStatus = "ARCHIVED"
)

// Difficulty grades how demanding a content item is for learners.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// ValidDifficulty reports whether s is one of the known difficulty levels.
func ValidDifficulty(s string) bool {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Content is an educational article. ContentHTML is only loaded for
// detail views; list queries leave it empty.
type Content struct {
	ID                 int64         `json:"id"`
	Title              string        `json:"title"`
	Slug               string        `json:"slug"`
	Summary            string        `json:"summary"`
	ContentHTML        string        `json:"content_html,omitempty"`
	Thumbnail          *string       `json:"thumbnail"`
	Category           int64         `json:"category"`
	CategoryName       string        `json:"category_name"`
	Tags               []Tag         `json:"tags"`
	Author             int64         `json:"author"`
	AuthorName         string        `json:"author_name"`
	Status             ContentStatus `json:"status"`
	Version            string        `json:"version"`
	ViewCount          int           `json:"view_count"`
	EstimatedTime      int           `json:"estimated_time"`
	Difficulty         Difficulty    `json:"difficulty"`
	Prerequisites      string        `json:"prerequisites,omitempty"`
	LearningObjectives string        `json:"learning_objectives,omitempty"`
	MetaDescription    string        `json:"meta_description,omitempty"`
	MetaKeywords       string        `json:"meta_keywords,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	PublishedAt        *time.Time    `json:"published_at,omitempty"`
	IsDeleted          bool          `json:"-"`

	// Viewer-relative fields populated per request.
	IsFavorited   bool `json:"is_favorited"`
	FavoriteCount int  `json:"favorite_count"`
}

// IsPublished returns true if the content item is publicly visible.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// ContentVersion stores a snapshot of a content item's HTML before an
// edit, so previous revisions can be inspected and restored.
type ContentVersion struct {
	ID          int64     `json:"id"`
	ContentID   int64     `json:"content"`
	Version     string    `json:"version"`
	ContentHTML string    `json:"content_html"`
	ChangeLog   string    `json:"change_log"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favorite links a user to a bookmarked content item. The pair is
// unique; toggling favorite state inserts or deletes a row.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
