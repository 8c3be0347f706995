package token

import (
	"net/http"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well-formed", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := FromRequest(r); got != tt.want {
				t.Errorf("FromRequest(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestGenerateLengthAndUniqueness(t *testing.T) {
	a, err := generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(a) != idLength*2 {
		t.Errorf("token length = %d, want %d hex chars", len(a), idLength*2)
	}
	if a == b {
		t.Error("two generated tokens are identical")
	}
}
