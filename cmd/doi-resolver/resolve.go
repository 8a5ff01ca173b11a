// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-resolver/internal/crossref"
	"github.com/pdiddy/doi-resolver/internal/diva"
	"github.com/pdiddy/doi-resolver/internal/match"
	"github.com/pdiddy/doi-resolver/internal/output"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Match DOI-less records against Crossref",
	Long: `Resolve runs the full pipeline for a year range: it downloads the DiVA
export (unless one is already present or given with --export), selects the
working records, searches Crossref by title for each, verifies promising
candidates against the record's bibliographic fields, and writes the
accepted DOIs to the results directory as CSV, an Excel workbook with
hyperlinks, a SQLite decisions database, and a YAML run report.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("portal", "", "DiVA portal short name (default from config)")
	resolveCmd.Flags().Int("from", 0, "first publication year (required)")
	resolveCmd.Flags().Int("to", 0, "last publication year (defaults to --from)")
	resolveCmd.Flags().String("selection", "", "identifier selection: no-id, scopus-only, isi-only, either")
	resolveCmd.Flags().String("export", "", "use an already-downloaded export CSV instead of fetching")
	resolveCmd.Flags().Float64("threshold", 0, "minimum title similarity (default 0.9)")
	resolveCmd.Flags().Int("max-accepted", 0, "stop after accepting this many records")
	resolveCmd.Flags().Duration("delay", 0, "pause after each record (default 1s)")
	resolveCmd.Flags().Int("rows", 0, "candidates requested per title search (default 5)")
	resolveCmd.Flags().String("output-dir", "", "directory for result artifacts")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if portal, _ := cmd.Flags().GetString("portal"); portal != "" {
		cfg.Diva.Portal = portal
	}
	if selection, _ := cmd.Flags().GetString("selection"); selection != "" {
		cfg.Diva.Selection = selection
	}
	if threshold, _ := cmd.Flags().GetFloat64("threshold"); threshold != 0 {
		cfg.Match.SimilarityThreshold = threshold
	}
	if maxAccepted, _ := cmd.Flags().GetInt("max-accepted"); maxAccepted != 0 {
		cfg.Match.MaxAccepted = maxAccepted
	}
	if cmd.Flags().Changed("delay") {
		cfg.Match.RecordDelay, _ = cmd.Flags().GetDuration("delay")
	}
	if rows, _ := cmd.Flags().GetInt("rows"); rows != 0 {
		cfg.Crossref.Rows = rows
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Output.Dir = dir
	}
	if err := applyYearFlags(cmd, &cfg); err != nil {
		return err
	}

	exportPath, err := ensureExport(cmd, cfg)
	if err != nil {
		return err
	}

	records, err := diva.ReadRecords(exportPath)
	if err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	fmt.Fprintf(os.Stdout, "export rows: %d\n", len(records))

	selected, err := diva.Select(records, cfg.Diva, os.Stdout)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(os.Stdout, "no working records; nothing to resolve")
		return nil
	}

	client := crossref.Client{
		HTTP:   &http.Client{Timeout: cfg.Crossref.Timeout},
		Config: cfg.Crossref,
	}
	orch := match.Orchestrator{
		Search: &client,
		Fetch:  &client,
		Config: cfg.Match,
		Rows:   cfg.Crossref.Rows,
		Log:    logger,
	}

	result := orch.Run(cmd.Context(), selected, os.Stdout)

	if err := writeArtifacts(cmd, cfg, selected, result); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, output.SummaryTable(result))
	if result.Failed > 0 {
		return fmt.Errorf("%d record(s) failed during resolution", result.Failed)
	}
	return nil
}

// ensureExport returns the export CSV path, downloading it when --export was
// not given and no export for the year range exists yet.
func ensureExport(cmd *cobra.Command, cfg types.PipelineConfig) (string, error) {
	if path, _ := cmd.Flags().GetString("export"); path != "" {
		return path, nil
	}

	path := diva.ExportPath(cfg.Diva)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stdout, "using existing export %s\n", path)
		return path, nil
	}

	client := &http.Client{Timeout: cfg.Diva.Timeout}
	url := diva.ExportURL(cfg.Diva.Portal, cfg.Diva.FromYear, cfg.Diva.ToYear)
	fmt.Fprintf(os.Stdout, "downloading DiVA export for %d-%d to %s\n",
		cfg.Diva.FromYear, cfg.Diva.ToYear, path)
	if err := diva.Download(client, url, path); err != nil {
		return "", fmt.Errorf("downloading export: %w", err)
	}
	return path, nil
}

// writeArtifacts writes the result files for the run into the output
// directory, named after the year range.
func writeArtifacts(cmd *cobra.Command, cfg types.PipelineConfig, records []types.SourceRecord, result match.RunResult) error {
	prefix := fmt.Sprintf("%d-%d_", cfg.Diva.FromYear, cfg.Diva.ToYear)
	rows := output.AcceptedRows(records, result.Decisions())

	csvPath := filepath.Join(cfg.Output.Dir, prefix+"doi_candidates.csv")
	if err := output.WriteCSV(csvPath, rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	fmt.Fprintf(os.Stdout, "wrote %d rows with candidates to %s\n", len(rows), csvPath)

	if cfg.Output.Workbook {
		xlsxPath := filepath.Join(cfg.Output.Dir, prefix+"doi_candidates_links.xlsx")
		if err := output.WriteWorkbook(xlsxPath, cfg.Diva.Portal, rows); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		fmt.Fprintf(os.Stdout, "wrote workbook with links to %s\n", xlsxPath)
	}

	if cfg.Output.Database {
		dbPath := filepath.Join(cfg.Output.Dir, prefix+"decisions.db")
		if err := output.WriteDatabase(cmd.Context(), dbPath, result.Outcomes); err != nil {
			return fmt.Errorf("writing decisions database: %w", err)
		}
		fmt.Fprintf(os.Stdout, "wrote decisions database to %s\n", dbPath)
	}

	reportPath := filepath.Join(cfg.Output.Dir, prefix+"report.yaml")
	if err := output.WriteReport(reportPath, output.BuildReport(cfg, result)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
