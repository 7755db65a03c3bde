package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// slugRegex matches menu slugs as produced by the admin UI: lowercase words
// separated by single dashes or underscores.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ValidateSlug validates a menu slug.
//
// The validation rules are intentionally conservative:
//   - No empty slugs
//   - Maximum length of 128 characters
//   - Lowercase letters, digits, '-' and '_' only
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "menu slug cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidSlug, "menu slug too long (max 128 characters)")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidSlug, "invalid menu slug: %q", slug)
	}
	return nil
}

// ValidateMenuID validates a numeric menu identifier.
func ValidateMenuID(id int64) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "menu id must be positive, got %d", id)
	}
	return nil
}

// ValidatePath validates a request path used for active-link detection.
//
// Validation rules:
//   - Path may be empty (no active detection)
//   - Maximum length of 2048 characters
//   - No null bytes or control characters
//   - Must be absolute (start with /)
//   - No backslashes
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 2048
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be absolute (start with /)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
