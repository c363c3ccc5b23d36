package validator

import (
	"regexp"
	"strings"

	"tubegrab/internal/model"
)

var (
	// Watch-page shape: optional scheme, optional www, a known host and a path
	plausibleURLPattern = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+$`)

	// Host families are case-insensitive, the token is not. The trailing
	// group rejects tokens longer than 11 characters.
	videoIDPattern = regexp.MustCompile(
		`(?:(?i:youtube\.com)/(?:[^/\s]+/\S+/|(?:v|e(?:mbed)?|shorts|live)/|\S*?[?&]v=)|(?i:youtu\.be)/)` +
			`([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// IsPlausibleURL reports whether input looks like a watch-page URL and an
// identifier can be extracted from it
func IsPlausibleURL(input string) bool {
	if !plausibleURLPattern.MatchString(input) {
		return false
	}
	_, ok := ExtractIdentifier(input)
	return ok
}

// ExtractIdentifier returns the first video identifier embedded in input
func ExtractIdentifier(input string) (model.VideoIdentifier, bool) {
	matches := videoIDPattern.FindStringSubmatch(input)
	if len(matches) < 2 || matches[1] == "" {
		return "", false
	}
	return model.VideoIdentifier(matches[1]), true
}

// IsValidIdentifier checks a bare identifier token
func IsValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// ValidateFormatID validates format ID
func ValidateFormatID(formatID string) bool {
	if len(formatID) == 0 || len(formatID) > 50 {
		return false
	}
	return true
}

// SanitizeFilename removes dangerous characters from filename
func SanitizeFilename(filename string) string {
	dangerousChars := []string{"<", ">", ":", "\"", "/", "\\", "|", "?", "*", "\x00"}
	result := filename
	for _, char := range dangerousChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
