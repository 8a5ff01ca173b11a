// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify compares structured bibliographic fields between a source
// record and a candidate's full metadata. The independent checks (ISSN
// intersection, volume/issue/page agreement, author surname overlap) decide
// whether a candidate that already passed the title gates can be promoted to
// the verified tier.
package verify

import (
	"regexp"
	"strings"

	"github.com/pdiddy/doi-resolver/internal/normalize"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// Result records the outcome of the individual checks for one candidate.
// A check that is disabled in configuration is reported as passed, since it
// cannot block verification.
type Result struct {
	ISSN    bool
	Fields  bool
	Authors bool
}

// Verified reports whether every enabled check passed.
func (r Result) Verified() bool {
	return r.ISSN && r.Fields && r.Authors
}

// Record runs the enabled checks for one source record against one
// candidate detail.
func Record(src types.SourceRecord, det types.CandidateDetail, checks types.VerifyConfig) Result {
	res := Result{ISSN: true, Fields: true, Authors: true}

	if checks.ISSN {
		res.ISSN = ISSNMatch(src.ISSNs, det.ISSNs)
	}
	if checks.Volume || checks.Issue || checks.Pages {
		res.Fields = FieldsMatch(src, det, checks)
	}
	if checks.Authors {
		res.Authors = AuthorsMatch(src.Names, det.Surnames)
	}
	return res
}

// ISSNMatch reports whether the two ISSN sets intersect after hyphen
// stripping. An empty set on either side fails the check: absence is no
// evidence of a match.
func ISSNMatch(srcISSNs, candISSNs []string) bool {
	src := issnSet(srcISSNs)
	cand := issnSet(candISSNs)
	if len(src) == 0 || len(cand) == 0 {
		return false
	}
	for issn := range cand {
		if src[issn] {
			return true
		}
	}
	return false
}

func issnSet(issns []string) map[string]bool {
	set := make(map[string]bool, len(issns))
	for _, s := range issns {
		if n := normalize.ISSN(s); n != "" {
			set[n] = true
		}
	}
	return set
}

// FieldsMatch compares the enabled bibliographic fields. A field
// participates only when both sides carry a non-empty value after
// normalization; the check passes iff every participating field agrees.
// When no field could participate the check fails: nothing was verified.
func FieldsMatch(src types.SourceRecord, det types.CandidateDetail, checks types.VerifyConfig) bool {
	type pair struct {
		enabled  bool
		src, det string
	}
	pairs := []pair{
		{checks.Volume, normalize.Field(src.Volume), det.Volume},
		{checks.Issue, normalize.Field(src.Issue), det.Issue},
		{checks.Pages, normalize.Field(src.StartPage), det.StartPage},
		{checks.Pages, normalize.Field(src.EndPage), det.EndPage},
	}

	ran := 0
	for _, p := range pairs {
		if !p.enabled || p.src == "" || p.det == "" {
			continue
		}
		ran++
		if p.src != p.det {
			return false
		}
	}
	return ran > 0
}

// AuthorsMatch reports whether the surname set extracted from the DiVA Name
// column intersects the candidate's family names. Either side empty fails
// the check.
func AuthorsMatch(rawNames string, candSurnames []string) bool {
	src := Surnames(rawNames)
	if len(src) == 0 || len(candSurnames) == 0 {
		return false
	}
	srcSet := make(map[string]bool, len(src))
	for _, s := range src {
		srcSet[s] = true
	}
	for _, s := range candSurnames {
		if srcSet[strings.ToLower(strings.TrimSpace(s))] {
			return true
		}
	}
	return false
}

// affiliationPattern marks the start of the parenthesized affiliation in a
// DiVA Name entry: everything from the first " (" onward is dropped.
var affiliationPattern = regexp.MustCompile(`\s\(`)

// idPattern matches bracketed local-user ids like "[u1lv4ls8]".
var idPattern = regexp.MustCompile(`\[[^\]]*\]`)

// Surnames extracts lowercase family names from a semicolon-delimited DiVA
// Name column, e.g.
//
//	"Aleksanyan, Hayk [u1lv4ls8] (KTH);Shahgholian, Henrik (KTH)"
//
// yields ["aleksanyan", "shahgholian"]. Each entry is assumed to be in
// "Family, Given" form; the text before the first comma is the surname.
// Duplicates are removed, order follows first appearance.
func Surnames(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var surnames []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if loc := affiliationPattern.FindStringIndex(part); loc != nil {
			part = part[:loc[0]]
		}
		part = idPattern.ReplaceAllString(part, "")
		part = strings.Join(strings.Fields(part), " ")

		family, _, _ := strings.Cut(part, ",")
		family = strings.ToLower(strings.TrimSpace(family))
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		surnames = append(surnames, family)
	}
	return surnames
}
