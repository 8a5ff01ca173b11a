// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the doi-resolver pipeline:
// the source record read from a DiVA export, the candidate shapes returned by
// Crossref, and the per-record match decision.
package types

// SourceRecord is one bibliographic entry from a DiVA CSV export, validated
// once at ingestion. It is immutable for the duration of matching.
type SourceRecord struct {
	// PID is the DiVA record identifier (e.g. "diva2:1234567" or a bare number).
	PID string `json:"pid" yaml:"pid"`

	// Title is the record title with non-printable characters removed.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year. Zero means absent or unparseable; such
	// records are skipped without a search.
	Year int `json:"year" yaml:"year"`

	// PublicationType is the DiVA publication type code (e.g. "article",
	// "conferencePaper"). May map to no known category.
	PublicationType string `json:"publication_type" yaml:"publication_type"`

	// Journal is the journal or series title, carried through to output.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Volume, Issue, Pages, StartPage and EndPage are bibliographic fields
	// as exported, possibly empty.
	Volume    string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue     string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages     string `json:"pages,omitempty" yaml:"pages,omitempty"`
	StartPage string `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage   string `json:"end_page,omitempty" yaml:"end_page,omitempty"`

	// ISSNs collects the non-empty journal and series ISSN/EISSN values.
	ISSNs []string `json:"issns,omitempty" yaml:"issns,omitempty"`

	// Names is the raw DiVA Name column: semicolon-delimited
	// "Surname, Given [id] (affiliation)" entries.
	Names string `json:"names,omitempty" yaml:"names,omitempty"`

	// DOI, ISI and ScopusID are the identifiers already present on the
	// record. Selection decides which combinations enter matching.
	DOI      string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISI      string `json:"isi,omitempty" yaml:"isi,omitempty"`
	ScopusID string `json:"scopus_id,omitempty" yaml:"scopus_id,omitempty"`
}

// CandidateSummary is one item from a Crossref title search, used only for
// gating. Deep metadata is fetched separately for candidates that survive
// the gates.
type CandidateSummary struct {
	// DOI is the candidate identifier, required and unique per candidate.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the candidate title as returned by the search.
	Title string `json:"title" yaml:"title"`

	// Year is the issued year, or zero when Crossref reports none.
	Year int `json:"year" yaml:"year"`

	// Type is the Crossref work type code (e.g. "journal-article"), possibly empty.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// CandidateDetail holds the normalized deep metadata for one candidate,
// fetched lazily after the similarity and type gates pass.
type CandidateDetail struct {
	// Volume, Issue, StartPage and EndPage are normalized bibliographic
	// fields (numeric-looking values in canonical integer form).
	Volume    string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue     string `json:"issue,omitempty" yaml:"issue,omitempty"`
	StartPage string `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage   string `json:"end_page,omitempty" yaml:"end_page,omitempty"`

	// ISSNs is the hyphen-stripped set of work-level and issue-level ISSNs.
	ISSNs []string `json:"issns,omitempty" yaml:"issns,omitempty"`

	// Surnames is the lowercased set of author family names.
	Surnames []string `json:"surnames,omitempty" yaml:"surnames,omitempty"`
}

// MatchDecision is the durable per-record output of matching. At most one of
// VerifiedDOI and PossibleDOI is set; both empty means the record was
// rejected. Verified strictly supersedes possible.
type MatchDecision struct {
	// PID keys the decision to its source record.
	PID string `json:"pid" yaml:"pid"`

	// VerifiedDOI is set when title similarity and every enabled structured
	// check agreed.
	VerifiedDOI string `json:"verified_doi,omitempty" yaml:"verified_doi,omitempty"`

	// PossibleDOI is set when only similarity and the year/type gates agreed.
	PossibleDOI string `json:"possible_doi,omitempty" yaml:"possible_doi,omitempty"`

	// Similarity is the winning candidate's title similarity.
	Similarity float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`

	// CandidateYear is the winning candidate's issued year.
	CandidateYear int `json:"candidate_year,omitempty" yaml:"candidate_year,omitempty"`
}

// Accepted reports whether the decision carries an identifier in either tier.
func (d MatchDecision) Accepted() bool {
	return d.VerifiedDOI != "" || d.PossibleDOI != ""
}

// Verified reports whether the decision is in the verified tier.
func (d MatchDecision) Verified() bool {
	return d.VerifiedDOI != ""
}
