package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalize prepares one identifier fragment for matching: NFKC folds
// full-width ASCII and half-width katakana, camelCase boundaries become
// spaces, and everything is lower-cased.
func normalize(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
