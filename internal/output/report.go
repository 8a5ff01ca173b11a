// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-resolver/internal/match"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// Report is the YAML run summary: the parameters that shaped the run and
// the outcome tallies.
type Report struct {
	Portal    string `yaml:"portal"`
	FromYear  int    `yaml:"from_year"`
	ToYear    int    `yaml:"to_year"`
	Selection string `yaml:"selection"`

	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxAccepted         int     `yaml:"max_accepted"`

	Processed  int  `yaml:"processed"`
	Candidates int  `yaml:"candidates_considered"`
	Verified   int  `yaml:"verified"`
	Possible   int  `yaml:"possible"`
	Rejected   int  `yaml:"rejected"`
	Skipped    int  `yaml:"skipped"`
	Failed     int  `yaml:"failed"`
	Accepted   int  `yaml:"accepted"`
	CapReached bool `yaml:"cap_reached"`

	CompletedAt time.Time `yaml:"completed_at"`
}

// BuildReport assembles the run summary from the pipeline configuration and
// the batch result.
func BuildReport(cfg types.PipelineConfig, result match.RunResult) Report {
	return Report{
		Portal:              cfg.Diva.Portal,
		FromYear:            cfg.Diva.FromYear,
		ToYear:              cfg.Diva.ToYear,
		Selection:           cfg.Diva.Selection,
		SimilarityThreshold: cfg.Match.SimilarityThreshold,
		MaxAccepted:         cfg.Match.MaxAccepted,
		Processed:           result.Processed(),
		Candidates:          result.Candidates,
		Verified:            result.Verified,
		Possible:            result.Possible,
		Rejected:            result.Rejected,
		Skipped:             result.Skipped,
		Failed:              result.Failed,
		Accepted:            result.Accepted(),
		CapReached:          result.CapReached,
		CompletedAt:         time.Now().UTC(),
	}
}

// WriteReport writes the run summary as YAML to path.
func WriteReport(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
