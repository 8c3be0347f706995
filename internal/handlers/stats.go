package handlers

import (
	"net/http"
	"time"

	"lislab/internal/store"
)

// Statistics serves the admin dashboard aggregates. Every route in this
// group sits behind RequireAdmin.
type Statistics struct {
	stats *store.StatsStore
}

// NewStatistics creates the statistics handler group.
func NewStatistics(stats *store.StatsStore) *Statistics {
	return &Statistics{stats: stats}
}

// Dashboard serves the full dashboard payload in one response: headline
// numbers, breakdowns, most-viewed contents, the 30-day signup series
// and the latest development requests.
func (h *Statistics) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview()
	if err != nil {
		writeServerError(w, "stats overview failed", err)
		return
	}
	byType, err := h.stats.UsersByType()
	if err != nil {
		writeServerError(w, "stats users failed", err)
		return
	}
	byCategory, err := h.stats.ContentsByCategory()
	if err != nil {
		writeServerError(w, "stats categories failed", err)
		return
	}
	byDifficulty, err := h.stats.ContentsByDifficulty()
	if err != nil {
		writeServerError(w, "stats difficulty failed", err)
		return
	}
	top, err := h.stats.TopContents(10)
	if err != nil {
		writeServerError(w, "stats top contents failed", err)
		return
	}
	topFavorited, err := h.stats.TopFavorited(10)
	if err != nil {
		writeServerError(w, "stats top favorited failed", err)
		return
	}
	postsByStatus, err := h.stats.PostsByStatus()
	if err != nil {
		writeServerError(w, "stats posts failed", err)
		return
	}
	recentUsers, err := h.stats.RecentUsers(5)
	if err != nil {
		writeServerError(w, "stats users list failed", err)
		return
	}
	signups, err := h.stats.SignupsSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		writeServerError(w, "stats signups failed", err)
		return
	}
	requests, err := h.stats.RecentRequests(5)
	if err != nil {
		writeServerError(w, "stats requests failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overview":               overview,
		"users_by_type":          byType,
		"contents_by_category":   byCategory,
		"contents_by_difficulty": byDifficulty,
		"top_contents":           top,
		"top_favorited":          topFavorited,
		"posts_by_status":        postsByStatus,
		"recent_users":           recentUsers,
		"signups":                signups,
		"recent_requests":        requests,
	})
}
