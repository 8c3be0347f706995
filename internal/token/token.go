// Package token provides Valkey-backed bearer API tokens. Every client
// of the REST API (browser frontend included) authenticates with an
// opaque token in the Authorization header; the token resolves to a
// JSON payload in Valkey with automatic TTL expiry. An expired token is
// indistinguishable from a missing one: the viewer is simply logged out.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lislab/internal/models"
)

const (
	// DefaultTTL is how long a token lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "token:"

	// idLength is the byte length of the random token (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the payload stored per token: the authenticated user's
// identity and the fields access checks need without a DB round trip.
type Data struct {
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	TwoFADone bool        `json:"two_fa_done"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsAdmin reports whether the token belongs to an admin who has
// completed 2FA verification.
func (d *Data) IsAdmin() bool {
	return d.Role == models.RoleAdmin && d.TwoFADone
}

// Store manages token lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a token store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Issue generates a new token and stores its payload in Valkey.
func (s *Store) Issue(ctx context.Context, data *Data) (string, error) {
	tok, err := generate()
	if err != nil {
		return "", fmt.Errorf("token issue: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("token marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+tok, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("token store: %w", err)
	}

	return tok, nil
}

// Resolve looks up the bearer token carried by the request. Returns
// nil if the request has no token or the token expired, which is not an error.
func (s *Store) Resolve(ctx context.Context, r *http.Request) (*Data, error) {
	tok := FromRequest(r)
	if tok == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+tok).Bytes()
	if err == redis.Nil {
		return nil, nil // Expired or never issued
	}
	if err != nil {
		return nil, fmt.Errorf("token get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("token unmarshal: %w", err)
	}
	return &data, nil
}

// Update replaces the payload of the request's token without rotating
// it. Resets the TTL. Used when an admin completes 2FA verification.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	tok := FromRequest(r)
	if tok == "" {
		return fmt.Errorf("token update: no bearer token")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("token marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+tok, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("token update: %w", err)
	}
	return nil
}

// Revoke deletes the request's token from Valkey. Logout.
func (s *Store) Revoke(ctx context.Context, r *http.Request) {
	if tok := FromRequest(r); tok != "" {
		s.client.Del(ctx, keyPrefix+tok)
	}
}

// FromRequest extracts the bearer token from the Authorization header,
// or "" if the header is absent or malformed.
func FromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// generate creates a cryptographically random token.
func generate() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
