package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchFunc reports whether keyword occurs in text. Both arguments are
// already lower-cased.
type MatchFunc func(text, keyword string) bool

// Substring matches anywhere, so "completely" contains "complete".
func Substring(text, keyword string) bool {
	return strings.Contains(text, keyword)
}

// WordBoundary matches only when keyword is not glued to letters or digits
// on either side.
func WordBoundary(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	for start := 0; start <= len(text)-len(keyword); {
		i := strings.Index(text[start:], keyword)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(keyword)
		if !wordRuneBefore(text, i) && !wordRuneAfter(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(text string, i int) bool {
	r, size := utf8.DecodeLastRuneInString(text[:i])
	return size > 0 && isWordRune(r)
}

func wordRuneAfter(text string, end int) bool {
	r, size := utf8.DecodeRuneInString(text[end:])
	return size > 0 && isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (m MatchFunc) any(text string, keywords ...string) bool {
	for _, k := range keywords {
		if m(text, k) {
			return true
		}
	}
	return false
}
