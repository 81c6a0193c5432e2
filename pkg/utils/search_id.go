package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxSlugLength = 24

// GenerateSearchID creates a human-readable search identifier.
// Format: {startSlug}-{8charHexUUID}
//
// Example:
//   - Input: start="Shinrarta Dezhra"
//   - Output: "shinrarta-dezhra-a3f8e2b1"
func GenerateSearchID(start string) string {
	slug := slugify(start)
	if slug == "" {
		slug = "search"
	}
	return slug + "-" + generateShortUUID()
}

// slugify lowercases and keeps letters and digits, joining runs of anything else with '-'
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// generateShortUUID returns the first 8 hex characters of a random UUID
func generateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
