// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"lislab/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ViewerKey is the context key for the resolved token data.
	ViewerKey contextKey = "viewer"
)

// LoadToken resolves the bearer token (if any) and stores the viewer in
// the request context. It does NOT enforce authentication: category and
// content reads are public, and the viewer is only needed to mark
// favorites. A Valkey error is treated as unauthenticated rather than
// failing the request.
func LoadToken(store *token.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Resolve(r.Context(), r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), ViewerKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid token. Must be applied
// after LoadToken in the middleware chain. The 401 signals the client
// to treat the viewer as logged out.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Viewer(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated viewer is not an admin
// with completed 2FA. Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := Viewer(r.Context())
		if v == nil || !v.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"detail":"Admin privileges required."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Viewer extracts the token data from the request context.
// Returns nil if no token was resolved (anonymous viewer).
func Viewer(ctx context.Context) *token.Data {
	data, _ := ctx.Value(ViewerKey).(*token.Data)
	return data
}
