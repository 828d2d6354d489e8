// Package ingestion turns caller input and scraped job pages into sanitized job descriptions.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Job boards append expand/collapse controls to the description body.
	boilerplateTokens = regexp.MustCompile(`(?i)\bsee (?:more|less)\b`)
)

// Sanitize flattens text into a single line that is safe to embed in a prompt.
// Newlines, tabs, backslashes and other control characters become spaces,
// invalid UTF-8 is replaced, whitespace runs collapse and the result is trimmed.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ToValidUTF8(content, "�")
	content = strings.Map(func(r rune) rune {
		if r == '\\' || unicode.IsControl(r) {
			return ' '
		}
		return r
	}, content)

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))
}

// StripBoilerplate removes "See more" and "See less" UI labels left in scraped text.
func StripBoilerplate(content string) string {
	return boilerplateTokens.ReplaceAllString(content, " ")
}

// IsBlank reports whether s has no non-whitespace content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
