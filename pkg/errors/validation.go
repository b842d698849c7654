package errors

import (
	"strings"
	"unicode"
)

// ValidatePrimPath validates a scene prim path.
//
// Prim paths are absolute, slash-separated identifiers (e.g. "/World/Wall").
// The validation rules are intentionally conservative:
//   - Must start with "/"
//   - No empty path segments
//   - Segments contain only letters, digits, and underscores
//   - Maximum length of 500 characters
func ValidatePrimPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "prim path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "prim path too long (max %d characters)", maxPathLength)
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "prim path must be absolute (start with /): %q", path)
	}

	if path == "/" {
		return nil
	}

	for _, segment := range strings.Split(path[1:], "/") {
		if segment == "" {
			return New(ErrCodeInvalidPath, "prim path contains empty segment: %q", path)
		}
		for _, r := range segment {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return New(ErrCodeInvalidPath, "prim path segment %q contains invalid character %q", segment, r)
			}
		}
		if r := rune(segment[0]); unicode.IsDigit(r) {
			return New(ErrCodeInvalidPath, "prim path segment cannot start with a digit: %q", segment)
		}
	}

	return nil
}

// ValidateGlobPattern validates a file glob pattern for safety.
//
// Validation rules:
//   - Pattern cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateGlobPattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidGlob, "glob pattern cannot be empty")
	}

	const maxPatternLength = 500
	if len(pattern) > maxPatternLength {
		return New(ErrCodeInvalidGlob, "glob pattern too long (max %d characters)", maxPatternLength)
	}

	for _, r := range pattern {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidGlob, "glob pattern contains invalid characters")
		}
	}

	return nil
}

// ValidateImageID validates an image identity (typically a file path).
//
// Identities are opaque to the layout engine, but persisting them on scene
// attributes requires that they are non-empty and printable.
func ValidateImageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidImage, "image identity cannot be empty")
	}

	if len(id) > 1024 {
		return New(ErrCodeInvalidImage, "image identity too long (max 1024 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidImage, "image identity contains invalid control characters")
		}
	}

	return nil
}
