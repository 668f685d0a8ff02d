// internal/common/validation/format.go

// Package validation holds the small format checks shared across packages.
// Structural validation of block payloads lives in pkg/registry, which
// compiles real JSON schemas; these helpers cover the scalar formats that
// schemas alone express poorly.
package validation

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
	colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

// ValidateHexColor validates a #rgb or #rrggbb color value
func ValidateHexColor(color string) bool {
	return colorPattern.MatchString(color)
}
