// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a Go client for the LIS Lab REST API. It attaches
// the bearer token to every request outside the public allow-list and
// follows paginated next links transparently, so callers always get
// complete lists.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"lislab/internal/browse"
	"lislab/internal/models"
)

// APIError is a non-2xx response decoded into the detail envelope.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Client calls the LIS Lab API.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to authenticated requests.
// An empty token switches the client back to anonymous access.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// publicPrefixes lists GET paths served without credentials. Requests
// to them never carry the token, so an expired token cannot break
// anonymous browsing.
var publicPrefixes = []string{
	"/api/contents/categories/",
	"/api/contents/contents/",
	"/api/contents/sidebar/",
	"/api/boards/",
}

func isPublic(method, path string) bool {
	if method != http.MethodGet {
		return false
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// do issues one request and decodes a 2xx body into out (skipped when
// out is nil). Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" && !isPublic(method, req.URL.Path) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var d struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&d) == nil {
			apiErr.Detail = d.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, out)
}

// envelope is the paginated list body: count, next/previous links and
// one page of results left raw for the caller to decode.
type envelope struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

// collectPages fetches path and follows next links until the server
// returns null, appending every page's raw results to the returned
// slice. Each page URL is requested exactly once.
func (c *Client) collectPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.collectFrom(ctx, u, make(map[string]bool))
}

func (c *Client) collectFrom(ctx context.Context, u string, seen map[string]bool) ([]json.RawMessage, error) {
	var pages []json.RawMessage
	for {
		if seen[u] {
			return nil, fmt.Errorf("pagination loop at %s", u)
		}
		seen[u] = true

		var env envelope
		if err := c.do(ctx, http.MethodGet, u, nil, &env); err != nil {
			return nil, err
		}
		pages = append(pages, env.Results)

		if env.Next == nil || *env.Next == "" {
			return pages, nil
		}
		u = *env.Next
	}
}

func decodePages[T any](pages []json.RawMessage) ([]T, error) {
	var all []T
	for _, page := range pages {
		var batch []T
		if err := json.Unmarshal(page, &batch); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		all = append(all, batch...)
	}
	return all, nil
}

// fetchAll retrieves a complete list from path. Endpoints that answer
// with a flat array are decoded directly; paginated envelopes are
// followed to exhaustion.
func fetchAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []T
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return all, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	pages := []json.RawMessage{env.Results}
	if env.Next != nil && *env.Next != "" {
		rest, err := c.collectFrom(ctx, *env.Next, map[string]bool{c.baseURL + path: true})
		if err != nil {
			return nil, err
		}
		pages = append(pages, rest...)
	}
	return decodePages[T](pages)
}

// ListAllCategories returns the full active taxonomy.
func (c *Client) ListAllCategories(ctx context.Context) ([]models.Category, error) {
	return fetchAll[models.Category](ctx, c, "/api/contents/categories/", nil)
}

// ListAllContents returns every content matching the filter, merging
// all pages into one slice. The filter's BuildQuery decides which
// parameters reach the wire; a nil filter lists everything. Pagination
// starts from the filter's page and runs to exhaustion.
func (c *Client) ListAllContents(ctx context.Context, f *browse.Filter) ([]models.Content, error) {
	if f == nil {
		f = browse.NewFilter()
	}
	pages, err := c.collectPages(ctx, "/api/contents/contents/", f.BuildQuery())
	if err != nil {
		return nil, err
	}
	return decodePages[models.Content](pages)
}

// GetContent fetches one content by slug.
func (c *Client) GetContent(ctx context.Context, slug string) (*models.Content, error) {
	var content models.Content
	if err := c.get(ctx, "/api/contents/contents/"+url.PathEscape(slug)+"/", nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// ToggleFavorite flips the viewer's favorite on a content. Returns true
// when the content is favorited after the call.
func (c *Client) ToggleFavorite(ctx context.Context, slug string) (bool, error) {
	u := c.baseURL + "/api/contents/contents/" + url.PathEscape(slug) + "/favorite/"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusOK:
		return false, nil
	default:
		return false, &APIError{StatusCode: resp.StatusCode}
	}
}

// ListFavorites returns the viewer's favorites.
func (c *Client) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	return fetchAll[models.Favorite](ctx, c, "/api/contents/favorites/", nil)
}
