// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes free-text titles and bibliographic field
// values so that records from different sources become comparable.
package normalize

import (
	"strconv"
	"strings"
	"unicode"
)

// CleanText removes non-printable runes and trims surrounding whitespace.
// DiVA exports occasionally carry control characters inside titles.
func CleanText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits text into lowercase alphanumeric tokens. Every run of
// non-alphanumeric runes is a separator. Empty input yields a nil slice.
// No stemming, no stop-word removal; deterministic and total.
func Tokens(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(CleanText(text)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// TitleSimilarity computes Jaccard similarity over the token sets of two
// titles. Duplicate tokens within a title carry no extra weight. Returns 0
// when either title normalizes to an empty set, so missing titles never
// spuriously match. Symmetric, in [0,1].
func TitleSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := 0
	for tok := range setA {
		if setB[tok] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func tokenSet(text string) map[string]bool {
	toks := Tokens(text)
	if len(toks) == 0 {
		return nil
	}
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

// Field canonicalizes a bibliographic field value (volume, issue, page).
// Numeric-looking values collapse to canonical integer text so "05" equals
// "5"; anything else compares as trimmed literal text.
func Field(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil && !strings.ContainsAny(s, "+- ") {
		return strconv.Itoa(n)
	}
	return s
}

// ISSN strips hyphens and whitespace from an ISSN so that "1234-5678" and
// "12345678" compare equal.
func ISSN(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "")
}
