package adapter

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (no-op on already-plain text), strips all
// tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// requestCount asks the endpoint for roughly double the desired count, leaving
// headroom for client-side filtering, bounded by the endpoint's own cap.
func requestCount(limit, cap int) int {
	n := limit * 2
	if n > cap {
		return cap
	}
	return n
}
