package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"lislab/internal/browse"
	"lislab/internal/models"
)

// pagedContentsHandler serves pages of pageSize contents out of total,
// with DRF-style next/previous links.
func pagedContentsHandler(t *testing.T, total, pageSize int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				t.Errorf("bad page param %q", v)
				http.Error(w, "bad page", http.StatusBadRequest)
				return
			}
			page = n
		}

		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}
		results := make([]models.Content, 0, pageSize)
		for i := start; i < end; i++ {
			results = append(results, models.Content{
				ID:    int64(i + 1),
				Title: fmt.Sprintf("content %d", i+1),
				Slug:  fmt.Sprintf("content-%d", i+1),
			})
		}

		body := map[string]any{
			"count":    total,
			"next":     nil,
			"previous": nil,
			"results":  results,
		}
		if end < total {
			body["next"] = fmt.Sprintf("http://%s%s?page=%d", r.Host, r.URL.Path, page+1)
		}
		if page > 1 {
			body["previous"] = fmt.Sprintf("http://%s%s?page=%d", r.Host, r.URL.Path, page-1)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}
}

func TestListAllContentsExhaustsPages(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	inner := pagedContentsHandler(t, 300, 100)
	mux.HandleFunc("/api/contents/contents/", func(w http.ResponseWriter, r *http.Request) {
		requests++
		inner(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	contents, err := c.ListAllContents(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListAllContents: %v", err)
	}

	if len(contents) != 300 {
		t.Fatalf("got %d contents, want 300", len(contents))
	}
	if requests != 3 {
		t.Errorf("made %d requests, want 3", requests)
	}

	seen := make(map[int64]bool, len(contents))
	for _, content := range contents {
		if seen[content.ID] {
			t.Fatalf("duplicate content id %d in merged list", content.ID)
		}
		seen[content.ID] = true
	}
	if contents[0].Slug != "content-1" || contents[299].Slug != "content-300" {
		t.Errorf("merged list out of order: first %q last %q", contents[0].Slug, contents[299].Slug)
	}
}

func TestListAllContentsSendsFilterQuery(t *testing.T) {
	var got url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/contents/", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "next": nil, "previous": nil, "results": []any{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)

	// Defaults carry only sentinels; nothing reaches the wire.
	if _, err := c.ListAllContents(context.Background(), browse.NewFilter()); err != nil {
		t.Fatalf("ListAllContents defaults: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("default filter sent params %v, want none", got)
	}

	// A sub-category selection overrides its parent on the wire.
	f := browse.NewFilter()
	f.SetTopCategory("web")
	f.SetSubCategory("html")
	f.SetSearch("grid")
	f.SetDifficulty("BEGINNER")
	if _, err := c.ListAllContents(context.Background(), f); err != nil {
		t.Fatalf("ListAllContents filtered: %v", err)
	}
	if got.Get("category") != "html" {
		t.Errorf("category = %q, want html", got.Get("category"))
	}
	if got.Get("search") != "grid" || got.Get("difficulty") != "BEGINNER" {
		t.Errorf("unexpected query %v", got)
	}
	if got.Has("page") {
		t.Errorf("page 1 should not be sent, got %v", got)
	}
}

func TestListAllCategoriesFlatArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/categories/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Category{
			{ID: 1, Name: "Web", Slug: "web", Parent: 1},
			{ID: 2, Name: "HTML", Slug: "html", Parent: 1},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cats, err := New(srv.URL).ListAllCategories(context.Background())
	if err != nil {
		t.Fatalf("ListAllCategories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if !cats[0].IsTopLevel() || cats[1].IsTopLevel() {
		t.Error("self-reference parent convention not preserved through decode")
	}
}

func TestListAllCategoriesFollowsEnvelopePages(t *testing.T) {
	const total, pageSize = 300, 100
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/categories/", func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				t.Errorf("bad page param %q", v)
				http.Error(w, "bad page", http.StatusBadRequest)
				return
			}
			page = n
		}

		start := (page - 1) * pageSize
		results := make([]models.Category, 0, pageSize)
		for i := start; i < start+pageSize && i < total; i++ {
			id := int64(i + 1)
			results = append(results, models.Category{
				ID:     id,
				Name:   fmt.Sprintf("category %d", id),
				Slug:   fmt.Sprintf("category-%d", id),
				Parent: id,
			})
		}

		body := map[string]any{
			"count":    total,
			"next":     nil,
			"previous": nil,
			"results":  results,
		}
		if start+pageSize < total {
			body["next"] = fmt.Sprintf("http://%s%s?page=%d", r.Host, r.URL.Path, page+1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cats, err := New(srv.URL).ListAllCategories(context.Background())
	if err != nil {
		t.Fatalf("ListAllCategories: %v", err)
	}

	if len(cats) != total {
		t.Fatalf("got %d categories, want %d", len(cats), total)
	}
	if requests != 3 {
		t.Errorf("made %d requests, want 3", requests)
	}
	seen := make(map[int64]bool, len(cats))
	for _, cat := range cats {
		if seen[cat.ID] {
			t.Fatalf("duplicate category id %d in merged list", cat.ID)
		}
		seen[cat.ID] = true
	}
}

func TestListAllCategoriesStopsOnRepeatedNextLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/categories/", func(w http.ResponseWriter, r *http.Request) {
		// The next link always points back at page 2.
		body := map[string]any{
			"count":    10,
			"next":     fmt.Sprintf("http://%s%s?page=2", r.Host, r.URL.Path),
			"previous": nil,
			"results":  []models.Category{{ID: 1, Name: "Web", Slug: "web", Parent: 1}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL).ListAllCategories(context.Background())
	if err == nil {
		t.Fatal("expected an error for a self-repeating next link")
	}
	if !strings.Contains(err.Error(), "pagination loop") {
		t.Errorf("error = %v, want pagination loop", err)
	}
}

func TestTokenAttachedOutsidePublicPaths(t *testing.T) {
	var publicAuth, privateAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/contents/", func(w http.ResponseWriter, r *http.Request) {
		publicAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "next": nil, "previous": nil, "results": []any{}})
	})
	mux.HandleFunc("/api/contents/favorites/", func(w http.ResponseWriter, r *http.Request) {
		privateAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "next": nil, "previous": nil, "results": []any{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("secret-token")

	if _, err := c.ListAllContents(context.Background(), nil); err != nil {
		t.Fatalf("ListAllContents: %v", err)
	}
	if _, err := c.ListFavorites(context.Background()); err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}

	if publicAuth != "" {
		t.Errorf("public request carried Authorization %q", publicAuth)
	}
	if privateAuth != "Bearer secret-token" {
		t.Errorf("private request Authorization = %q, want bearer token", privateAuth)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents/contents/missing/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL).GetContent(context.Background(), "missing")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("got %T (%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "Not found." {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
