package verify

import (
	"testing"

	"github.com/pdiddy/doi-resolver/pkg/types"
)

func allChecks() types.VerifyConfig {
	return types.VerifyConfig{Volume: true, Issue: true, Pages: true, ISSN: true, Authors: true}
}

func TestSurnames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"ids and affiliations",
			"Doe, Jane [u123] (KTH);Smith, John (MIT)",
			[]string{"doe", "smith"},
		},
		{
			"nested affiliation brackets",
			"Aleksanyan, Hayk [u1lv4ls8] (KTH [177], Matematik [5737]);Shahgholian, Henrik [u15h3xoo] (KTH [177])",
			[]string{"aleksanyan", "shahgholian"},
		},
		{"empty", "", nil},
		{"blank entries", " ; ; ", nil},
		{"no comma keeps whole name", "Madonna (EMI)", []string{"madonna"}},
		{"duplicate surnames collapse", "Lee, Ann;Lee, Ben", []string{"lee"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Surnames(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Surnames(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Surnames(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestISSNMatch(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		cand []string
		want bool
	}{
		{"hyphenated vs bare", []string{"1234-5678"}, []string{"12345678"}, true},
		{"disjoint", []string{"1234-5678"}, []string{"8765-4321"}, false},
		{"source empty", nil, []string{"1234-5678"}, false},
		{"candidate empty", []string{"1234-5678"}, nil, false},
		{"second of several", []string{"0000-0000", "1234-5678"}, []string{"1234-5678"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISSNMatch(tt.src, tt.cand); got != tt.want {
				t.Errorf("ISSNMatch(%v, %v) = %v, want %v", tt.src, tt.cand, got, tt.want)
			}
		})
	}
}

func TestFieldsMatch(t *testing.T) {
	src := types.SourceRecord{Volume: "05", Issue: "2", StartPage: "10", EndPage: "20"}
	det := types.CandidateDetail{Volume: "5", Issue: "2", StartPage: "10", EndPage: "20"}

	if !FieldsMatch(src, det, allChecks()) {
		t.Error("all fields agree after normalization, want match")
	}

	// One disagreeing field fails the whole check.
	bad := det
	bad.Issue = "3"
	if FieldsMatch(src, bad, allChecks()) {
		t.Error("disagreeing issue should fail the check")
	}

	// A field missing on one side is excluded, not failed.
	partial := det
	partial.Issue = ""
	if !FieldsMatch(src, partial, allChecks()) {
		t.Error("missing candidate issue should exclude the field, not fail")
	}

	// Disabled checks never reject.
	checks := allChecks()
	checks.Issue = false
	if !FieldsMatch(src, bad, checks) {
		t.Error("disabled issue check must not reject on mismatched issue")
	}

	// No field could run: cannot verify on no evidence.
	if FieldsMatch(types.SourceRecord{}, det, allChecks()) {
		t.Error("zero participating fields should fail the check")
	}
}

func TestAuthorsMatch(t *testing.T) {
	raw := "Doe, Jane [u123] (KTH);Smith, John (MIT)"

	if !AuthorsMatch(raw, []string{"smith"}) {
		t.Error("overlapping surname should match")
	}
	if !AuthorsMatch(raw, []string{"Doe"}) {
		t.Error("candidate surnames compare case-insensitively")
	}
	if AuthorsMatch(raw, []string{"jones"}) {
		t.Error("disjoint surname sets should not match")
	}
	if AuthorsMatch("", []string{"smith"}) {
		t.Error("empty source set cannot verify")
	}
	if AuthorsMatch(raw, nil) {
		t.Error("empty candidate set cannot verify")
	}
}

func TestRecordVerified(t *testing.T) {
	src := types.SourceRecord{
		Volume:    "5",
		Issue:     "2",
		StartPage: "10",
		EndPage:   "20",
		ISSNs:     []string{"1234-5678"},
		Names:     "Doe, Jane (KTH)",
	}
	det := types.CandidateDetail{
		Volume:    "5",
		Issue:     "2",
		StartPage: "10",
		EndPage:   "20",
		ISSNs:     []string{"12345678"},
		Surnames:  []string{"doe"},
	}

	if got := Record(src, det, allChecks()); !got.Verified() {
		t.Errorf("all checks agree, want verified; got %+v", got)
	}

	// Failing ISSN blocks verification when enabled.
	noISSN := det
	noISSN.ISSNs = nil
	if got := Record(src, noISSN, allChecks()); got.Verified() {
		t.Error("missing candidate ISSNs must block verification")
	}

	// The same record verifies once the ISSN check is disabled.
	checks := allChecks()
	checks.ISSN = false
	if got := Record(src, noISSN, checks); !got.Verified() {
		t.Errorf("disabled ISSN check must be skipped; got %+v", got)
	}

	// All checks disabled: nothing can block.
	if got := Record(types.SourceRecord{}, types.CandidateDetail{}, types.VerifyConfig{}); !got.Verified() {
		t.Error("no enabled checks should verify vacuously")
	}
}
