package handlers

import "testing"

func TestContentRequestSlugDerivedFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		slug  string
		want  string
	}{
		{"explicit slug wins", "HTML 기초", "custom-slug", "custom-slug"},
		{"ascii title", "Intro to CSS Grid", "", "intro-to-css-grid"},
		{"korean title preserved", "더블린 코어 입문", "", "더블린-코어-입문"},
		{"punctuation stripped", "Hello, World! 2026", "", "hello-world-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := contentRequest{
				Title:      tt.title,
				Slug:       tt.slug,
				Category:   1,
				Status:     "PUBLISHED",
				Difficulty: "BEGINNER",
				Version:    "1.0",
			}
			if err := req.validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
			if got := req.input().Slug; got != tt.want {
				t.Errorf("input().Slug = %q, want %q", got, tt.want)
			}
		})
	}
}
