// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubtype maps the DiVA and Crossref publication-type vocabularies
// onto one shared category set so that records can be compared across the
// two taxonomies.
package pubtype

import "strings"

// Category is a shared publication category.
type Category string

const (
	Article    Category = "article"
	Conference Category = "conference"
	Book       Category = "book"
	Chapter    Category = "chapter"

	// Unknown marks a type code outside the known set. Unknown on either
	// side never blocks a match.
	Unknown Category = "unknown"
)

// divaCategories maps lowercase DiVA publication type codes to categories.
// Reviews and book reviews are treated as articles.
var divaCategories = map[string]Category{
	"article":         Article,
	"conferencepaper": Conference,
	"book":            Book,
	"chapter":         Chapter,
	"review":          Article,
	"bookreview":      Article,
}

// crossrefCategories maps lowercase Crossref work type codes to categories.
var crossrefCategories = map[string]Category{
	"journal-article":     Article,
	"proceedings-article": Conference,
	"proceedings-paper":   Conference,
	"conference-paper":    Conference,
	"book":                Book,
	"book-chapter":        Chapter,
	"chapter":             Chapter,
	"journal-review":      Article,
	"peer-review":         Article,
}

// FromDiva maps a DiVA publication type code to its category. Codes are
// matched case-insensitively; unrecognized or empty codes yield Unknown.
func FromDiva(code string) Category {
	if c, ok := divaCategories[strings.ToLower(strings.TrimSpace(code))]; ok {
		return c
	}
	return Unknown
}

// FromCrossref maps a Crossref work type code to its category.
func FromCrossref(code string) Category {
	if c, ok := crossrefCategories[strings.ToLower(strings.TrimSpace(code))]; ok {
		return c
	}
	return Unknown
}

// Compatible reports whether two categories allow a match. Unknown on either
// side is permissive: many records carry codes outside the known set, and an
// unmapped type must not block an otherwise good candidate. Two known
// categories must be equal.
func Compatible(a, b Category) bool {
	if a == Unknown || b == Unknown {
		return true
	}
	return a == b
}
