// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"sync"
)

// Toggler issues the favorite flip for a content slug. *Client
// satisfies it; tests substitute fakes.
type Toggler interface {
	ToggleFavorite(ctx context.Context, slug string) (bool, error)
}

// FavoriteView tracks a content's favorite state for a UI. Toggle flips
// the visible state before the request resolves and restores the exact
// pre-flip snapshot when the request fails, so the display never sticks
// in a state the server rejected.
//
// Two in-flight toggles on the same view resolve last-writer-wins: the
// response that lands last decides the settled state. Callers that need
// stricter ordering should disable the control while a toggle runs.
type FavoriteView struct {
	api  Toggler
	slug string

	mu        sync.Mutex
	favorited bool
	count     int
}

// NewFavoriteView creates a view seeded from the content's current
// favorite state.
func NewFavoriteView(api Toggler, slug string, favorited bool, count int) *FavoriteView {
	return &FavoriteView{
		api:       api,
		slug:      slug,
		favorited: favorited,
		count:     count,
	}
}

// State returns the currently displayed favorite flag and count.
func (v *FavoriteView) State() (favorited bool, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.favorited, v.count
}

// Toggle flips the displayed state immediately, then issues the request.
// On error the snapshot taken before the flip is restored and the error
// returned; on success the server's answer overwrites the guess.
func (v *FavoriteView) Toggle(ctx context.Context) error {
	v.mu.Lock()
	prevFavorited, prevCount := v.favorited, v.count
	v.favorited = !v.favorited
	if v.favorited {
		v.count++
	} else if v.count > 0 {
		v.count--
	}
	v.mu.Unlock()

	favorited, err := v.api.ToggleFavorite(ctx, v.slug)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.favorited = prevFavorited
		v.count = prevCount
		return err
	}

	v.favorited = favorited
	if favorited {
		v.count = prevCount + 1
	} else if prevCount > 0 {
		v.count = prevCount - 1
	} else {
		v.count = 0
	}
	return nil
}
