package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateLimit checks that a node limit is non-negative and at most max.
func ValidateLimit(limit, max int) error {
	if limit < 0 {
		return New(ErrCodeInvalidLimit, "limit must not be negative, got %d", limit)
	}
	if limit > max {
		return New(ErrCodeInvalidLimit, "limit too large (max %d), got %d", max, limit)
	}
	return nil
}

// ValidateSpacing checks that a step length is positive and finite.
// Zero collapses every point onto its parent and negative values mirror
// the heading, so both are rejected.
func ValidateSpacing(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidSpacing, "%s must be finite, got %g", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidSpacing, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateFinite checks that an angle or coordinate is a real number.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidAngle, "%s must be finite, got %g", name, v)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateOneOf checks that value is in allowed, reporting code on failure.
func ValidateOneOf(code Code, name, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s: %q (must be one of: %s)", name, value, strings.Join(allowed, ", "))
}
