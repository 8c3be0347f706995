// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"lislab/internal/models"
)

// StatsStore aggregates figures for the admin dashboard.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Overview is the headline block of the dashboard.
type Overview struct {
	TotalUsers         int `json:"total_users"`
	NewUsersThisWeek   int `json:"new_users_this_week"`
	NewUsersThisMonth  int `json:"new_users_this_month"`
	TotalContents      int `json:"total_contents"`
	PublishedCount     int `json:"published_count"`
	TotalViews         int `json:"total_views"`
	TotalFavorites     int `json:"total_favorites"`
	FavoritesThisMonth int `json:"favorites_this_month"`
	TotalComments      int `json:"total_comments"`
	PendingRequests    int `json:"pending_requests"`
	Subscribers        int `json:"subscribers"`
}

// Overview computes the headline numbers in a single round trip.
func (s *StatsStore) Overview() (*Overview, error) {
	var o Overview
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM users WHERE is_active AND created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM users WHERE is_active AND created_at >= DATE_TRUNC('month', NOW())),
			(SELECT COUNT(*) FROM contents WHERE NOT is_deleted),
			(SELECT COUNT(*) FROM contents WHERE NOT is_deleted AND status = 'PUBLISHED'),
			(SELECT COALESCE(SUM(view_count), 0) FROM contents WHERE NOT is_deleted),
			(SELECT COUNT(*) FROM favorites),
			(SELECT COUNT(*) FROM favorites WHERE created_at >= DATE_TRUNC('month', NOW())),
			(SELECT COUNT(*) FROM comments WHERE NOT is_deleted),
			(SELECT COUNT(*) FROM posts p JOIN boards b ON b.id = p.board_id
				WHERE b.board_type = 'REQUEST' AND p.status = 'PENDING'),
			(SELECT COUNT(*) FROM mailing_subscriptions WHERE is_active)
	`).Scan(
		&o.TotalUsers, &o.NewUsersThisWeek, &o.NewUsersThisMonth,
		&o.TotalContents, &o.PublishedCount, &o.TotalViews,
		&o.TotalFavorites, &o.FavoritesThisMonth, &o.TotalComments,
		&o.PendingRequests, &o.Subscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	return &o, nil
}

// CountBucket is a labelled count used by the breakdown queries.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// UsersByType breaks down active members by user type.
func (s *StatsStore) UsersByType() ([]CountBucket, error) {
	return s.buckets(`
		SELECT user_type, COUNT(*)
		FROM users
		WHERE is_active
		GROUP BY user_type
		ORDER BY COUNT(*) DESC, user_type
	`)
}

// ContentsByCategory breaks down published contents by top-level
// category, so a child's contents count toward its parent branch.
func (s *StatsStore) ContentsByCategory() ([]CountBucket, error) {
	return s.buckets(`
		SELECT parent.name, COUNT(*)
		FROM contents c
		JOIN categories cat ON cat.id = c.category_id
		JOIN categories parent ON parent.id = cat.parent_id
		WHERE NOT c.is_deleted AND c.status = 'PUBLISHED'
		GROUP BY parent.name
		ORDER BY COUNT(*) DESC, parent.name
	`)
}

// ContentsByDifficulty breaks down published contents by difficulty.
func (s *StatsStore) ContentsByDifficulty() ([]CountBucket, error) {
	return s.buckets(`
		SELECT difficulty, COUNT(*)
		FROM contents
		WHERE NOT is_deleted AND status = 'PUBLISHED'
		GROUP BY difficulty
		ORDER BY COUNT(*) DESC, difficulty
	`)
}

// PostsByStatus breaks down board posts by workflow status.
func (s *StatsStore) PostsByStatus() ([]CountBucket, error) {
	return s.buckets(`
		SELECT status, COUNT(*)
		FROM posts
		GROUP BY status
		ORDER BY COUNT(*) DESC, status
	`)
}

func (s *StatsStore) buckets(query string) ([]CountBucket, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("stats breakdown: %w", err)
	}
	defer rows.Close()

	var buckets []CountBucket
	for rows.Next() {
		var b CountBucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// TopContent is one row of the most-viewed table.
type TopContent struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	ViewCount     int    `json:"view_count"`
	FavoriteCount int    `json:"favorite_count"`
}

// TopContents lists the most viewed published contents.
func (s *StatsStore) TopContents(limit int) ([]TopContent, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.slug, c.view_count,
			(SELECT COUNT(*) FROM favorites f WHERE f.content_id = c.id)
		FROM contents c
		WHERE NOT c.is_deleted AND c.status = 'PUBLISHED'
		ORDER BY c.view_count DESC, c.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top contents: %w", err)
	}
	defer rows.Close()

	var top []TopContent
	for rows.Next() {
		var t TopContent
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.ViewCount, &t.FavoriteCount); err != nil {
			return nil, fmt.Errorf("scan top content: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// TopFavorited lists the most bookmarked published contents.
func (s *StatsStore) TopFavorited(limit int) ([]TopContent, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.slug, c.view_count, COUNT(f.id)
		FROM contents c
		JOIN favorites f ON f.content_id = c.id
		WHERE NOT c.is_deleted AND c.status = 'PUBLISHED'
		GROUP BY c.id, c.title, c.slug, c.view_count
		ORDER BY COUNT(f.id) DESC, c.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top favorited: %w", err)
	}
	defer rows.Close()

	var top []TopContent
	for rows.Next() {
		var t TopContent
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.ViewCount, &t.FavoriteCount); err != nil {
			return nil, fmt.Errorf("scan top favorited: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// RecentUsers lists the newest active members.
func (s *StatsStore) RecentUsers(limit int) ([]models.User, error) {
	if limit < 1 {
		limit = 5
	}
	rows, err := s.db.Query(`
		SELECT `+userColumns+`
		FROM users
		WHERE is_active
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recent user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SignupPoint is one day of the signup series.
type SignupPoint struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// SignupsSince returns a per-day signup series from the given date.
// Days without signups are absent; the dashboard fills the gaps.
func (s *StatsStore) SignupsSince(from time.Time) ([]SignupPoint, error) {
	rows, err := s.db.Query(`
		SELECT DATE_TRUNC('day', created_at) AS day, COUNT(*)
		FROM users
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`, from)
	if err != nil {
		return nil, fmt.Errorf("signup series: %w", err)
	}
	defer rows.Close()

	var series []SignupPoint
	for rows.Next() {
		var p SignupPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, fmt.Errorf("scan signup point: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// RecentRequests lists the newest content development requests for the
// dashboard sidebar.
func (s *StatsStore) RecentRequests(limit int) ([]models.Post, error) {
	if limit < 1 {
		limit = 5
	}
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN boards b ON b.id = p.board_id
		JOIN users u ON u.id = p.author_id
		WHERE b.board_type = 'REQUEST'
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent requests: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
