package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "title with year",
			input: "Metadata Standards 2026",
			want:  "metadata-standards-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "What is MARC? (An Introduction)",
			want:  "what-is-marc-an-introduction",
		},
		{
			name:  "ampersand and slash",
			input: "RDA & MARC / a comparison",
			want:  "rda-marc-a-comparison",
		},
		{
			name:  "dots in acronyms",
			input: "OAI-PMH v2.0",
			want:  "oai-pmh-v20",
		},

		// --- Unicode ---
		{
			name:  "korean preserved",
			input: "더블린 코어 소개",
			want:  "더블린-코어-소개",
		},
		{
			name:  "mixed korean and ascii",
			input: "XML 스키마 Basics",
			want:  "xml-스키마-basics",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!?#$%",
			want:  "",
		},
		{
			name:  "surrounding whitespace",
			input: "  padded title  ",
			want:  "padded-title",
		},
		{
			name:  "consecutive separators collapse",
			input: "a -- b   c",
			want:  "a-b-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
