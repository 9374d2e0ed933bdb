// Package sanitize implements §6's input-sanitization rules: HTML-escaping,
// field-length truncation, and URL-scheme rejection.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

const (
	MaxKeywordLen    = 100
	MaxLocationLen   = 100
	MaxSkillLen      = 50
	MaxSkillCount    = 50
	MaxDescriptionLen = 5000
	MaxURLLen        = 2000
)

var forbiddenCharsPattern = regexp.MustCompile(`[<>{}|\\^~\[\]]`)

// String HTML-escapes and truncates a free-text field to maxLen runes.
func String(value string, maxLen int) string {
	escaped := html.EscapeString(value)
	runes := []rune(escaped)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return escaped
}

// ContainsForbiddenChars reports whether a keyword/location field contains
// any of the disallowed structural characters.
func ContainsForbiddenChars(value string) bool {
	return forbiddenCharsPattern.MatchString(value)
}

// Skills sanitizes a skills list: truncates each entry, drops empties, and
// caps the list length.
func Skills(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(String(v, MaxSkillLen))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) >= MaxSkillCount {
			break
		}
	}
	return out
}

// validURLScheme matches only http/https; ValidURL rejects javascript:,
// data:, vbscript:, file:, and anything else.
var validURLScheme = regexp.MustCompile(`(?i)^https?://`)

// ValidURL reports whether a URL is an acceptable https?:// URL under the
// length cap, rejecting every other scheme explicitly.
func ValidURL(value string) bool {
	if len(value) == 0 || len(value) > MaxURLLen {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, scheme := range []string{"javascript:", "data:", "vbscript:", "file:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return validURLScheme.MatchString(value)
}
