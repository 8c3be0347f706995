package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lislab/internal/middleware"
	"lislab/internal/models"
	"lislab/internal/store"
)

// Comments groups the content comment handlers.
type Comments struct {
	comments *store.CommentStore
}

// NewComments creates the comments handler group.
func NewComments(comments *store.CommentStore) *Comments {
	return &Comments{comments: comments}
}

// ListForContent serves the visible comment thread of the content named
// by the ?content= query parameter. Admins also see hidden and deleted
// comments. Unknown content ids yield an empty thread.
func (h *Comments) ListForContent(w http.ResponseWriter, r *http.Request) {
	contentID, ok := parseID(r.URL.Query().Get("content"))
	if !ok {
		writeDetail(w, http.StatusBadRequest, "content parameter is required.")
		return
	}

	includeHidden := false
	if v := middleware.Viewer(r.Context()); v != nil && v.IsAdmin() {
		includeHidden = true
	}

	thread, err := h.comments.ListByContent(contentID, includeHidden)
	if err != nil {
		writeServerError(w, "list comments failed", err)
		return
	}
	if thread == nil {
		thread = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, thread)
}

type commentRequest struct {
	Content int64  `json:"content"`
	Text    string `json:"text"`
	URLLink string `json:"url_link"`
	Parent  *int64 `json:"parent"`
}

func (req *commentRequest) validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required, validation.Length(1, 5000)),
		validation.Field(&req.URLLink, validation.Length(0, 500)),
	)
}

// Create adds a comment or a reply to a content item.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content <= 0 {
		writeDetail(w, http.StatusBadRequest, "content is required.")
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.comments.Create(
		req.Content, viewer.UserID, req.Parent, req.Text, req.URLLink, viewer.IsAdmin())
	if err != nil {
		writeServerError(w, "create comment failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// commentByID loads the comment addressed by the {id} parameter.
func (h *Comments) commentByID(w http.ResponseWriter, r *http.Request) *models.Comment {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeNotFound(w)
		return nil
	}
	comment, err := h.comments.FindByID(id)
	if err != nil {
		writeServerError(w, "comment lookup failed", err)
		return nil
	}
	if comment == nil {
		writeNotFound(w)
		return nil
	}
	return comment
}

// Update edits a comment. Only the author may edit.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	comment := h.commentByID(w, r)
	if comment == nil {
		return
	}
	viewer := middleware.Viewer(r.Context())
	if comment.Author != viewer.UserID {
		writeDetail(w, http.StatusForbidden, "본인의 댓글만 수정할 수 있습니다.")
		return
	}

	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.comments.UpdateText(comment.ID, req.Text, req.URLLink); err != nil {
		writeServerError(w, "update comment failed", err)
		return
	}

	updated, err := h.comments.FindByID(comment.ID)
	if err != nil {
		writeServerError(w, "comment reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete soft-deletes a comment. The author or an admin.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	comment := h.commentByID(w, r)
	if comment == nil {
		return
	}
	viewer := middleware.Viewer(r.Context())
	if comment.Author != viewer.UserID && !viewer.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "본인의 댓글만 삭제할 수 있습니다.")
		return
	}

	if err := h.comments.SoftDelete(comment.ID); err != nil {
		writeServerError(w, "delete comment failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type hideRequest struct {
	Hidden bool `json:"hidden"`
}

// SetHidden toggles moderator visibility. Admin only.
func (h *Comments) SetHidden(w http.ResponseWriter, r *http.Request) {
	comment := h.commentByID(w, r)
	if comment == nil {
		return
	}

	var req hideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.comments.SetHidden(comment.ID, req.Hidden); err != nil {
		writeServerError(w, "hide comment failed", err)
		return
	}
	writeDetail(w, http.StatusOK, "처리되었습니다.")
}
