package transform

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// BodyText extracts the plain text of a transformed page body for
// full-text search. Falls back to the empty string when the body is too
// thin for readability to find an article.
func BodyText(body string) string {
	article, err := readability.FromReader(strings.NewReader(body), nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
