package render

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and joins its words with dashes. Word boundaries are
// whitespace, punctuation and lower-to-upper case changes.
func Slugify(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(n int, s string) string {
	runes := []rune(s)
	if n < 0 || len(runes) <= n {
		return s
	}
	return strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + "…"
}

func humanize(s string) string {
	words := splitWords(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	var prev rune

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				flush()
			}
			current.WriteRune(r)
		default:
			flush()
		}
		prev = r
	}
	flush()

	return words
}
