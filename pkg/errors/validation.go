package errors

import (
	"strings"
	"unicode"
)

// maxConceptIDLength bounds concept identifiers accepted from users.
const maxConceptIDLength = 256

// ValidateConceptID validates a concept identifier supplied by a user.
// It rejects identifiers that could be used for key injection in backing
// stores (Redis keys, Mongo filters, cache file names).
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No whitespace
//   - Maximum length of 256 characters
func ValidateConceptID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "concept id cannot be empty")
	}

	if len(id) > maxConceptIDLength {
		return New(ErrCodeInvalidInput, "concept id too long (max %d characters)", maxConceptIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "concept id contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "concept id cannot contain whitespace")
		}
	}

	return nil
}

// ValidatePath validates a local file path for a graph document or variant file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidSource, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidSource, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "path contains invalid characters")
		}
	}

	return nil
}

// sourceSchemes lists the URI schemes a source identifier may use.
var sourceSchemes = []string{"file://", "redis://", "rediss://", "mongodb://", "mongodb+srv://"}

// ValidateSourceURI validates a source identifier. Plain paths are accepted;
// anything containing "://" must use one of the supported schemes.
func ValidateSourceURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}
	if !strings.Contains(uri, "://") {
		return ValidatePath(uri)
	}
	for _, s := range sourceSchemes {
		if strings.HasPrefix(uri, s) {
			return nil
		}
	}
	return New(ErrCodeInvalidSource, "unsupported source scheme: %q", uri)
}
