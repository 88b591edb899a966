// Package title normalizes and ranks media titles for display ordering.
package title

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var articles = []string{"the", "a", "an"}

// Clean folds a title for comparison: lowercase, accents and punctuation
// removed, and a leading article dropped from the title and its subtitle.
func Clean(title string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(title)) {
		switch {
		case unicode.Is(unicode.Mn, r), r == '\'':
		case r == '&':
			b.WriteString(" and ")
		case r == ':':
			b.WriteString(" : ")
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	var words []string
	start := true
	for _, w := range strings.Fields(b.String()) {
		switch {
		case w == ":":
			start = true
		case start && slices.Contains(articles, w):
			start = false
		default:
			start = false
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

// Query tidies free text typed by a user before it is sent to a lookup API.
// Case and most punctuation are kept since the backends search on them.
func Query(query string) string {
	s := strings.ReplaceAll(query, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most n runes, appending "(...)" when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "(...)"
}
