package handlers

import (
	"net/http"

	"lislab/internal/storage"
)

// maxUploadBytes caps image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// Uploads handles image uploads to object storage.
type Uploads struct {
	storage *storage.Client
}

// NewUploads creates the uploads handler group. storage may be nil when
// no object store is configured; uploads then return 503.
func NewUploads(s *storage.Client) *Uploads {
	return &Uploads{storage: s}
}

// Thumbnail accepts a multipart image for a content thumbnail. Admin only.
func (h *Uploads) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "thumbnails")
}

// ProfileImage accepts a multipart image for the member's profile.
func (h *Uploads) ProfileImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "profiles")
}

func (h *Uploads) upload(w http.ResponseWriter, r *http.Request, prefix string) {
	if h.storage == nil {
		writeDetail(w, http.StatusServiceUnavailable, "파일 저장소가 설정되지 않았습니다.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "image file is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
	default:
		writeDetail(w, http.StatusBadRequest, "Unsupported image type.")
		return
	}

	url, err := h.storage.UploadImage(r.Context(), prefix, header.Filename, contentType, file, header.Size)
	if err != nil {
		writeServerError(w, "image upload failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
