// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	qrcode "github.com/skip2/go-qrcode"

	"lislab/internal/cache"
	"lislab/internal/middleware"
	"lislab/internal/models"
	"lislab/internal/sidebar"
	"lislab/internal/slug"
	"lislab/internal/store"
)

// defaultPageSize matches the page size the content list always used.
const defaultPageSize = 12

// Contents groups the content, category, favorite and sidebar handlers.
type Contents struct {
	categories *store.CategoryStore
	contents   *store.ContentStore
	favorites  *store.FavoriteStore
	sidebar    *sidebar.Renderer
	sidebarC   *cache.SidebarCache
	baseURL    string
}

// NewContents creates the contents handler group.
func NewContents(categories *store.CategoryStore, contents *store.ContentStore, favorites *store.FavoriteStore, sb *sidebar.Renderer, sc *cache.SidebarCache, baseURL string) *Contents {
	return &Contents{
		categories: categories,
		contents:   contents,
		favorites:  favorites,
		sidebar:    sb,
		sidebarC:   sc,
		baseURL:    baseURL,
	}
}

// ListCategories serves the full active category list as a flat array.
// This endpoint is never paginated: clients rebuild the tree from the
// parent references and need every record at once.
func (h *Contents) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.ListActive()
	if err != nil {
		writeServerError(w, "list categories failed", err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// ListTags serves every tag as a flat array.
func (h *Contents) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.contents.ListTags()
	if err != nil {
		writeServerError(w, "list tags failed", err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// ListContents serves the filtered, paginated content list.
func (h *Contents) ListContents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	difficulty := q.Get("difficulty")
	if difficulty != "" && !models.ValidDifficulty(difficulty) {
		writeDetail(w, http.StatusBadRequest, "Unknown difficulty level.")
		return
	}

	filter := store.ContentFilter{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Tag:        q.Get("tag"),
		Difficulty: difficulty,
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", defaultPageSize),
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if v := middleware.Viewer(r.Context()); v != nil {
		filter.ViewerID = v.UserID
	}

	contents, total, err := h.contents.List(filter)
	if err != nil {
		writeServerError(w, "list contents failed", err)
		return
	}
	if contents == nil {
		contents = []models.Content{}
	}
	writePage(w, r, contents, total, filter.Page, filter.PageSize)
}

// GetContent serves one content item by slug and bumps its view count.
func (h *Contents) GetContent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var viewerID int64
	isAdmin := false
	if v := middleware.Viewer(r.Context()); v != nil {
		viewerID = v.UserID
		isAdmin = v.IsAdmin()
	}

	content, err := h.contents.FindBySlug(slug, viewerID, isAdmin)
	if err != nil {
		writeServerError(w, "get content failed", err)
		return
	}
	if content == nil {
		writeNotFound(w)
		return
	}

	// The counter bump is best-effort; the read already succeeded.
	if err := h.contents.BumpViewCount(content.ID); err != nil {
		slog.Warn("view count bump failed", "slug", slug, "error", err)
	} else {
		content.ViewCount++
	}

	writeJSON(w, http.StatusOK, content)
}

// ToggleFavorite flips the viewer's favorite state for a content item.
// 201 reports the favorite was added, 200 that it was removed.
func (h *Contents) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	viewer := middleware.Viewer(r.Context())

	content, err := h.contents.FindBySlug(slug, viewer.UserID, false)
	if err != nil {
		writeServerError(w, "favorite lookup failed", err)
		return
	}
	if content == nil {
		writeNotFound(w)
		return
	}

	added, err := h.favorites.Toggle(viewer.UserID, content.ID)
	if err != nil {
		writeServerError(w, "favorite toggle failed", err)
		return
	}
	if added {
		writeDetail(w, http.StatusCreated, "즐겨찾기에 추가되었습니다.")
		return
	}
	writeDetail(w, http.StatusOK, "즐겨찾기가 해제되었습니다.")
}

// ListFavorites serves the viewer's bookmarked contents in the
// paginated envelope.
func (h *Contents) ListFavorites(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	all, err := h.favorites.ListByUser(viewer.UserID)
	if err != nil {
		writeServerError(w, "list favorites failed", err)
		return
	}

	pageNum := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)
	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	results := all[start:end]
	if results == nil {
		results = []models.Favorite{}
	}
	writePage(w, r, results, len(all), pageNum, pageSize)
}

// Sidebar serves the rendered category navigation fragment. The active
// content slug comes from the ?active query parameter.
func (h *Contents) Sidebar(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.ListActive()
	if err != nil {
		writeServerError(w, "sidebar categories failed", err)
		return
	}

	html, err := h.sidebar.Render(r.Context(), cats, r.URL.Query().Get("active"))
	if err != nil {
		writeServerError(w, "sidebar render failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// QRCode serves a PNG QR code pointing at the content detail page, for
// sharing printed materials.
func (h *Contents) QRCode(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	content, err := h.contents.FindBySlug(slug, 0, false)
	if err != nil {
		writeServerError(w, "qr lookup failed", err)
		return
	}
	if content == nil {
		writeNotFound(w)
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/contents/"+content.Slug, qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "qr encode failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// contentRequest is the admin create/update payload.
type contentRequest struct {
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	Summary            string   `json:"summary"`
	ContentHTML        string   `json:"content_html"`
	Thumbnail          *string  `json:"thumbnail"`
	Category           int64    `json:"category"`
	Status             string   `json:"status"`
	Version            string   `json:"version"`
	EstimatedTime      int      `json:"estimated_time"`
	Difficulty         string   `json:"difficulty"`
	Prerequisites      string   `json:"prerequisites"`
	LearningObjectives string   `json:"learning_objectives"`
	MetaDescription    string   `json:"meta_description"`
	MetaKeywords       string   `json:"meta_keywords"`
	Tags               []string `json:"tags"`
	ChangeLog          string   `json:"change_log"`
}

func (req *contentRequest) validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.Slug, validation.Length(0, 300)),
		validation.Field(&req.Category, validation.Required),
		validation.Field(&req.Status, validation.Required,
			validation.In("DRAFT", "PUBLISHED", "PRIVATE", "ARCHIVED")),
		validation.Field(&req.Difficulty, validation.Required,
			validation.In("BEGINNER", "INTERMEDIATE", "ADVANCED")),
		validation.Field(&req.Version, validation.Required, validation.Length(1, 20)),
	)
}

// input maps the payload to a store input. An omitted slug is derived
// from the title, Korean letters preserved.
func (req *contentRequest) input() store.ContentInput {
	s := req.Slug
	if s == "" {
		s = slug.Generate(req.Title)
	}
	return store.ContentInput{
		Title:              req.Title,
		Slug:               s,
		Summary:            req.Summary,
		ContentHTML:        req.ContentHTML,
		Thumbnail:          req.Thumbnail,
		CategoryID:         req.Category,
		Status:             models.ContentStatus(req.Status),
		Version:            req.Version,
		EstimatedTime:      req.EstimatedTime,
		Difficulty:         models.Difficulty(req.Difficulty),
		Prerequisites:      req.Prerequisites,
		LearningObjectives: req.LearningObjectives,
		MetaDescription:    req.MetaDescription,
		MetaKeywords:       req.MetaKeywords,
		TagNames:           req.Tags,
	}
}

// CreateContent inserts a content item. Admin only.
func (h *Contents) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	viewer := middleware.Viewer(r.Context())
	content, err := h.contents.Create(req.input(), viewer.UserID)
	if err != nil {
		writeServerError(w, "create content failed", err)
		return
	}

	h.invalidateSidebar(r)
	writeJSON(w, http.StatusCreated, content)
}

// UpdateContent rewrites a content item, snapshotting the previous
// revision. Admin only.
func (h *Contents) UpdateContent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.contents.FindBySlug(slug, 0, true)
	if err != nil {
		writeServerError(w, "update lookup failed", err)
		return
	}
	if existing == nil {
		writeNotFound(w)
		return
	}

	var req contentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	viewer := middleware.Viewer(r.Context())
	if err := h.contents.Update(existing.ID, req.input(), viewer.UserID, req.ChangeLog); err != nil {
		writeServerError(w, "update content failed", err)
		return
	}

	updated, err := h.contents.FindBySlug(req.Slug, viewer.UserID, true)
	if err != nil {
		writeServerError(w, "update reload failed", err)
		return
	}

	h.invalidateSidebar(r)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteContent soft-deletes a content item. Admin only.
func (h *Contents) DeleteContent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.contents.FindBySlug(slug, 0, true)
	if err != nil {
		writeServerError(w, "delete lookup failed", err)
		return
	}
	if existing == nil {
		writeNotFound(w)
		return
	}

	if err := h.contents.SoftDelete(existing.ID); err != nil {
		writeServerError(w, "delete content failed", err)
		return
	}

	h.invalidateSidebar(r)
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions serves the revision history of a content item. Admin only.
func (h *Contents) ListVersions(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.contents.FindBySlug(slug, 0, true)
	if err != nil {
		writeServerError(w, "versions lookup failed", err)
		return
	}
	if existing == nil {
		writeNotFound(w)
		return
	}

	versions, err := h.contents.Versions(existing.ID)
	if err != nil {
		writeServerError(w, "list versions failed", err)
		return
	}
	if versions == nil {
		versions = []models.ContentVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *Contents) invalidateSidebar(r *http.Request) {
	if h.sidebarC != nil {
		h.sidebarC.Invalidate(r.Context())
	}
}
