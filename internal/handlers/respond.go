// Package handlers implements the REST API. Handlers are grouped into
// structs per app (contents, accounts, boards, comments, mailing,
// statistics) with their dependencies injected.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// detail is the error/message envelope every non-2xx body uses.
type detail struct {
	Detail string `json:"detail"`
}

// writeDetail sends a single-message body, the shape clients already
// parse for both errors and toggle confirmations.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

func writeNotFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func writeServerError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error.")
}

// page is the paginated list envelope: count plus absolute next and
// previous links, null when the edge is reached.
type page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// writePage sends a paginated envelope. Links reuse the request URL
// with only the page parameter rewritten, so every filter survives
// pagination.
func writePage(w http.ResponseWriter, r *http.Request, results any, count, pageNum, pageSize int) {
	writeJSON(w, http.StatusOK, page{
		Count:    count,
		Next:     pageLink(r, pageNum, pageSize, count, +1),
		Previous: pageLink(r, pageNum, pageSize, count, -1),
		Results:  results,
	})
}

func pageLink(r *http.Request, pageNum, pageSize, count, dir int) *string {
	target := pageNum + dir
	last := (count + pageSize - 1) / pageSize
	if target < 1 || target > last {
		return nil
	}

	u := *r.URL
	q := u.Query()
	if target == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(target))
	}
	u.RawQuery = q.Encode()

	link := absoluteURL(r, &u)
	return &link
}

// absoluteURL rebuilds the request URL with scheme and host, honoring
// the proxy headers chi's middleware leaves in place.
func absoluteURL(r *http.Request, u *url.URL) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + u.String()
}

// parseID parses a positive integer path parameter.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// decodeBody decodes a JSON request body into dst. Unknown fields pass
// through.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed JSON body.")
		return false
	}
	return true
}
