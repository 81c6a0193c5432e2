package shared

import "strings"

// NormalizeSystemName trims surrounding whitespace from operator input.
// System names are case-sensitive, so no other transformation is applied.
func NormalizeSystemName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateSystemName rejects empty or whitespace-only system names
func ValidateSystemName(field, name string) error {
	if NormalizeSystemName(name) == "" {
		return NewValidationError(field, "system name cannot be empty")
	}
	return nil
}
