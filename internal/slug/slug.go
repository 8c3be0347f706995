// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings. Letters outside ASCII are preserved so Korean titles keep
// readable slugs, matching the slugs already minted by the legacy
// content service.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a letter, digit, hyphen, or space.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// whitespace matches runs of spaces.
	whitespace = regexp.MustCompile(`\s+`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"; "더블린 코어" → "더블린-코어".
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
