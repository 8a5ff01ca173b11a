// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doi-resolver/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DivaConfig holds settings for the DiVA export stage.
type DivaConfig struct {
	HTTPConfig `yaml:",inline"`

	// Portal is the DiVA portal short name (e.g. "kth", "uu", "umu").
	Portal string `json:"portal" yaml:"portal"`

	// FromYear and ToYear bound the dateIssued filter of the export query.
	FromYear int `json:"from_year" yaml:"from_year"`
	ToYear   int `json:"to_year" yaml:"to_year"`

	// Selection picks which identifier combinations enter matching:
	// "no-id" (no DOI, ISI or Scopus), "scopus-only", "isi-only", or
	// "either" (Scopus-only or ISI-only).
	Selection string `json:"selection" yaml:"selection"`

	// ExportsDir is the directory for downloaded export CSV files.
	ExportsDir string `json:"exports_dir" yaml:"exports_dir"`
}

// CrossrefConfig holds settings for the Crossref search and fetch collaborators.
type CrossrefConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// PlusToken is an optional Crossref Metadata Plus token, sent as the
	// Crossref-Plus-API-Token header. Loaded from secrets, never serialized.
	PlusToken string `json:"-" yaml:"-"`

	// Rows is the number of candidates requested per title search (default 5).
	Rows int `json:"rows" yaml:"rows"`

	// MaxRetries is the retry budget for rate-limited requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// VerifyConfig toggles the independent verification checks. A disabled check
// is skipped entirely and never blocks verification.
type VerifyConfig struct {
	// Volume, Issue and Pages toggle the bibliographic field comparisons.
	// Pages covers the start and end page as a pair.
	Volume bool `json:"volume" yaml:"volume"`
	Issue  bool `json:"issue" yaml:"issue"`
	Pages  bool `json:"pages" yaml:"pages"`

	// ISSN requires the source and candidate ISSN sets to intersect.
	ISSN bool `json:"issn" yaml:"issn"`

	// Authors requires at least one overlapping surname.
	Authors bool `json:"authors" yaml:"authors"`
}

// MatchConfig holds settings for the matching engine.
type MatchConfig struct {
	// SimilarityThreshold is the minimum title similarity for a candidate
	// to survive gating (default 0.9).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// MaxAccepted caps the number of records accepted in either tier.
	// Once reached, no further searches are issued.
	MaxAccepted int `json:"max_accepted" yaml:"max_accepted"`

	// RecordDelay is the mandatory pause after each record iteration,
	// bounding the outbound request rate (default 1s).
	RecordDelay time.Duration `json:"record_delay" yaml:"record_delay"`

	// Verify toggles the individual verification checks.
	Verify VerifyConfig `json:"verify" yaml:"verify"`
}

// OutputConfig holds settings for the output artifacts.
type OutputConfig struct {
	// Dir is the directory for result artifacts (CSV, workbook, database, report).
	Dir string `json:"dir" yaml:"dir"`

	// Workbook enables the Excel workbook with hyperlink columns.
	Workbook bool `json:"workbook" yaml:"workbook"`

	// Database enables the SQLite decisions artifact.
	Database bool `json:"database" yaml:"database"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Diva     DivaConfig     `json:"diva" yaml:"diva"`
	Crossref CrossrefConfig `json:"crossref" yaml:"crossref"`
	Match    MatchConfig    `json:"match" yaml:"match"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// DefaultConfig returns the pipeline defaults. Flags and the config file
// override individual fields.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Diva: DivaConfig{
			HTTPConfig: HTTPConfig{Timeout: 60 * time.Second, UserAgent: "doi-resolver/0.1"},
			Portal:     "kth",
			Selection:  "no-id",
			ExportsDir: "exports",
		},
		Crossref: CrossrefConfig{
			HTTPConfig: HTTPConfig{Timeout: 20 * time.Second, UserAgent: "doi-resolver/0.1"},
			Rows:       5,
			MaxRetries: 5,
		},
		Match: MatchConfig{
			SimilarityThreshold: 0.9,
			MaxAccepted:         9999,
			RecordDelay:         time.Second,
			Verify: VerifyConfig{
				Volume:  true,
				Issue:   true,
				Pages:   true,
				ISSN:    true,
				Authors: true,
			},
		},
		Output: OutputConfig{
			Dir:      "results",
			Workbook: true,
			Database: true,
		},
	}
}
