package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// idRegex matches identifiers used for election entities: letters, digits,
// dash, underscore and dot, starting with a letter or digit.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateID validates an election entity identifier (contest, candidate,
// party, district, precinct, ballot style).
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - Only letters, digits, '.', '_' and '-'
//
// Identifiers end up in cache keys, file names and URLs, so anything outside
// that alphabet is rejected rather than escaped.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidElection, "%s id cannot be empty", kind)
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidElection, "%s id too long (max 128 characters)", kind).With(kind, id)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidElection, "%s id contains invalid characters: %q", kind, id)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
