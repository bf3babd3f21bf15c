package classifier

import (
	"regexp"
	"strings"
)

// matcher is satisfied by *regexp.Regexp and by the combinators below.
type matcher interface {
	MatchString(s string) bool
}

// allOf matches when every member matches somewhere in s. Members are
// evaluated independently so each keeps its own token boundaries.
type allOf []matcher

func (m allOf) MatchString(s string) bool {
	for _, p := range m {
		if !p.MatchString(s) {
			return false
		}
	}
	return len(m) > 0
}

// oneOf matches when any member matches.
type oneOf []matcher

func (m oneOf) MatchString(s string) bool {
	for _, p := range m {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// rule is one (pattern, result) pair. Rules are evaluated in slice order.
type rule[T any] struct {
	name    string
	pattern matcher
	result  T
}

// firstMatch returns the result of the first rule whose pattern matches s.
func firstMatch[T any](rules []rule[T], s string) (T, string, bool) {
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.result, r.name, true
		}
	}
	var zero T
	return zero, "", false
}

// word matches an ASCII token that is not part of a longer ASCII word.
// Short romaji tokens (sei, mei, tel, zip) need it to avoid hits inside
// unrelated identifiers.
func word(tok string) string {
	return `(?:^|[^a-z])(?:` + tok + `)(?:[^a-z]|$)`
}

// kana matches a katakana token that is not part of a longer katakana word.
func kana(tok string) string {
	return `(?:^|[^ァ-ヶー])(?:` + tok + `)(?:[^ァ-ヶー]|$)`
}

// hira matches a hiragana token that is not part of a longer hiragana word.
func hira(tok string) string {
	return `(?:^|[^ぁ-ゖー])(?:` + tok + `)(?:[^ぁ-ゖー]|$)`
}

// anyOf compiles the alternatives into one case-insensitive pattern.
// Inputs are normalized to lower case, so (?i) only matters for literals
// written with capitals.
func anyOf(alternatives ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + strings.Join(alternatives, "|"))
}
