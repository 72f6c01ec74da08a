package content

import (
	"regexp"
	"strings"
	"time"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes HTML tags and collapses all whitespace runs to single
// spaces. News snippets arrive with markup embedded in the body text.
func StripTags(s string) string {
	if s == "" {
		return s
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ToEpoch converts an ISO 8601 UTC timestamp ("2026-01-16T22:36:55Z") to
// epoch seconds. Empty or malformed input yields 0 rather than an error;
// upstream timestamps are best-effort.
func ToEpoch(iso string) int64 {
	if iso == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Truncate returns at most n characters of s, counted in runes so a
// multi-byte character is never split.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
