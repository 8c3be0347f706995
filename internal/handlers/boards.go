// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lislab/internal/markdown"
	"lislab/internal/middleware"
	"lislab/internal/models"
	"lislab/internal/store"
)

// boardPageSize is the post list page size.
const boardPageSize = 20

// Boards groups the board, post and reply handlers.
type Boards struct {
	boards *store.BoardStore
}

// NewBoards creates the boards handler group.
func NewBoards(boards *store.BoardStore) *Boards {
	return &Boards{boards: boards}
}

// ListBoards serves the fixed board set.
func (h *Boards) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.ListBoards()
	if err != nil {
		writeServerError(w, "list boards failed", err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// ListPosts serves one page of posts for a board type.
func (h *Boards) ListPosts(w http.ResponseWriter, r *http.Request) {
	boardType := models.BoardType(strings.ToUpper(chi.URLParam(r, "board")))
	switch boardType {
	case models.BoardNotice, models.BoardRequest, models.BoardQnA:
	default:
		writeNotFound(w)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidPostStatus(status) {
		writeDetail(w, http.StatusBadRequest, "Unknown post status.")
		return
	}

	filter := store.PostFilter{
		BoardType: boardType,
		Status:    status,
		Search:    r.URL.Query().Get("search"),
		Page:      queryInt(r, "page", 1),
		PageSize:  boardPageSize,
	}
	if v := middleware.Viewer(r.Context()); v != nil {
		filter.ViewerID = v.UserID
		filter.ViewerIsAdmin = v.IsAdmin()
	}

	posts, total, err := h.boards.ListPosts(filter)
	if err != nil {
		writeServerError(w, "list posts failed", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writePage(w, r, posts, total, filter.Page, filter.PageSize)
}

// postID parses the {id} URL parameter.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// canSeePost applies the private-post rule.
func canSeePost(p *models.Post, r *http.Request) bool {
	if !p.IsPrivate {
		return true
	}
	v := middleware.Viewer(r.Context())
	return v != nil && (v.UserID == p.Author || v.IsAdmin())
}

// GetPost serves one post with rendered Markdown and its replies, and
// bumps the view counter.
func (h *Boards) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	post, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "get post failed", err)
		return
	}
	if post == nil || !canSeePost(post, r) {
		// Private posts 404 for strangers rather than revealing their
		// existence.
		writeNotFound(w)
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("post markdown render failed", "post", id, "error", err)
	} else {
		post.ContentHTML = html
	}

	if err := h.boards.BumpPostViewCount(id); err != nil {
		slog.Warn("post view bump failed", "post", id, "error", err)
	} else {
		post.ViewCount++
	}

	writeJSON(w, http.StatusOK, post)
}

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"is_private"`
}

func (req *postRequest) validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Content, validation.Required, validation.Length(1, 50_000)),
	)
}

// CreatePost adds a post to a board. NOTICE posts are admin only.
func (h *Boards) CreatePost(w http.ResponseWriter, r *http.Request) {
	boardType := models.BoardType(strings.ToUpper(chi.URLParam(r, "board")))
	viewer := middleware.Viewer(r.Context())

	if boardType == models.BoardNotice && !viewer.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "공지사항은 관리자만 작성할 수 있습니다.")
		return
	}

	board, err := h.boards.FindBoardByType(boardType)
	if err != nil {
		writeServerError(w, "board lookup failed", err)
		return
	}
	if board == nil {
		writeNotFound(w)
		return
	}

	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.boards.CreatePost(board.ID, viewer.UserID, board.BoardType, req.Title, req.Content, req.IsPrivate)
	if err != nil {
		writeServerError(w, "create post failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost edits a post. Only the author or an admin may edit.
func (h *Boards) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	viewer := middleware.Viewer(r.Context())

	post, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "update lookup failed", err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}
	if post.Author != viewer.UserID && !viewer.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "본인의 게시글만 수정할 수 있습니다.")
		return
	}

	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.boards.UpdatePost(id, req.Title, req.Content, req.IsPrivate); err != nil {
		writeServerError(w, "update post failed", err)
		return
	}

	updated, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "update reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePost removes a post. Only the author or an admin may delete.
func (h *Boards) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	viewer := middleware.Viewer(r.Context())

	post, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "delete lookup failed", err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}
	if post.Author != viewer.UserID && !viewer.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "본인의 게시글만 삭제할 수 있습니다.")
		return
	}

	if err := h.boards.DeletePost(id); err != nil {
		writeServerError(w, "delete post failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus moves a request post through its workflow. Admin only.
func (h *Boards) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}

	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !models.ValidPostStatus(req.Status) {
		writeDetail(w, http.StatusBadRequest, "Unknown post status.")
		return
	}

	post, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "status lookup failed", err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}

	if err := h.boards.SetPostStatus(id, models.PostStatus(req.Status)); err != nil {
		writeServerError(w, "set status failed", err)
		return
	}
	writeDetail(w, http.StatusOK, "상태가 변경되었습니다.")
}

type replyRequest struct {
	Content string `json:"content"`
}

// CreateReply adds a reply under a post. Replies by admins complete
// REQUEST posts.
func (h *Boards) CreateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	viewer := middleware.Viewer(r.Context())

	post, err := h.boards.FindPost(id)
	if err != nil {
		writeServerError(w, "reply lookup failed", err)
		return
	}
	if post == nil || !canSeePost(post, r) {
		writeNotFound(w)
		return
	}

	var req replyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 10_000)),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.boards.CreateReply(id, viewer.UserID, req.Content, viewer.IsAdmin())
	if err != nil {
		writeServerError(w, "create reply failed", err)
		return
	}
	reply.AuthorName = viewer.Username
	writeJSON(w, http.StatusCreated, reply)
}

// DeleteReply removes a reply. Only the author or an admin.
func (h *Boards) DeleteReply(w http.ResponseWriter, r *http.Request) {
	replyID, err := strconv.ParseInt(chi.URLParam(r, "replyID"), 10, 64)
	if err != nil || replyID <= 0 {
		writeNotFound(w)
		return
	}
	id, ok := postID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	viewer := middleware.Viewer(r.Context())

	replies, err := h.boards.ListReplies(id)
	if err != nil {
		writeServerError(w, "reply lookup failed", err)
		return
	}
	for _, rep := range replies {
		if rep.ID != replyID {
			continue
		}
		if rep.Author != viewer.UserID && !viewer.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "본인의 답글만 삭제할 수 있습니다.")
			return
		}
		if err := h.boards.DeleteReply(replyID); err != nil {
			writeServerError(w, "delete reply failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeNotFound(w)
}
