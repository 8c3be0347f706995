// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// sidebar.go provides a Valkey-backed cache for the rendered sidebar
// fragment. Rendering the sidebar fans out one content query per
// category node, so caching the finished HTML saves the whole fan-out
// on every hit.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// sidebarKey is the Valkey key for the rendered sidebar HTML.
	sidebarKey = "sidebar:html"

	// DefaultSidebarTTL is how long a rendered sidebar stays cached.
	DefaultSidebarTTL = 5 * time.Minute
)

// SidebarCache stores the rendered sidebar fragment in Valkey.
type SidebarCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSidebarCache creates a sidebar cache backed by the given Valkey client.
func NewSidebarCache(client *redis.Client, ttl time.Duration) *SidebarCache {
	if ttl == 0 {
		ttl = DefaultSidebarTTL
	}
	return &SidebarCache{client: client, ttl: ttl}
}

// Get retrieves the cached sidebar HTML. Returns false on miss.
func (sc *SidebarCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := sc.client.Get(ctx, sidebarKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("sidebar cache get error", "error", err)
		return nil, false
	}
	return val, true
}

// Set stores rendered sidebar HTML with the configured TTL.
func (sc *SidebarCache) Set(ctx context.Context, html []byte) {
	if err := sc.client.Set(ctx, sidebarKey, html, sc.ttl).Err(); err != nil {
		slog.Warn("sidebar cache set error", "error", err)
	}
}

// Invalidate removes the cached sidebar. Called whenever a category or
// a published content item changes.
func (sc *SidebarCache) Invalidate(ctx context.Context) {
	if err := sc.client.Del(ctx, sidebarKey).Err(); err != nil {
		slog.Warn("sidebar cache invalidate error", "error", err)
	}
	slog.Debug("sidebar cache invalidated")
}
