package backend

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// extractText converts an HTML or HTML-encoded description to plain text.
// Entities are unescaped first (some backends double-encode), tags are
// stripped by a strict sanitizer, then whitespace is collapsed.
func extractText(content string) string {
	if content == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)
	// keep words in adjacent block elements apart once tags are gone
	spaced := strings.ReplaceAll(unescaped, "<", " <")
	plain := html.UnescapeString(strictPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(plain), " ")
}
