package types

import (
	"strings"
	"unicode/utf8"
)

// SearchRequest carries a query to a source provider. Not every provider
// honors every field: Domains applies to news, Scope (subreddit) to Reddit,
// Sort to Reddit and Bluesky.
type SearchRequest struct {
	Query   string   `json:"query"`
	Limit   int      `json:"limit,omitempty"`
	Domains []string `json:"domains,omitempty"`
	Scope   string   `json:"scope,omitempty"`
	Sort    string   `json:"sort,omitempty"`
}

// MinContentLength is the floor applied by the Reddit and Bluesky
// connectors before a post may leave the provider. News snippets are
// filtered later, after outlet mapping.
const MinContentLength = 100

// MeetsContentFloor reports whether s carries at least MinContentLength
// characters after trimming. The floor counts runes, not bytes, so
// multibyte text is measured the same as ASCII.
func MeetsContentFloor(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= MinContentLength
}
