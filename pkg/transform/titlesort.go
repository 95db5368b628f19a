package transform

import (
	"strings"
	"unicode"
)

var stopWords = map[string]bool{"a": true, "an": true, "the": true}

// MakeTitleSort builds a normalized sort key for a page. The wiki's
// DEFAULTSORT property wins when set; otherwise the key is derived from
// the title, dropping a leading stop word. Spaces and punctuation are
// removed and the result is lowercased.
func MakeTitleSort(titleSort, title string) string {
	text := titleSort
	if text == "" {
		text = title
		if first, _, ok := strings.Cut(text, " "); ok && stopWords[first] {
			text = strings.Replace(text, first+" ", "", 1)
		}
	}
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
