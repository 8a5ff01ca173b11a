// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-resolver/internal/diva"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a DiVA CSV export for a year range",
	Long: `Fetch builds the DiVA export query for the configured portal and year
range and downloads the CSV into the exports directory. Resolve downloads
the export itself when it is missing; fetch exists to refresh one explicitly.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("portal", "", "DiVA portal short name (default from config)")
	fetchCmd.Flags().Int("from", 0, "first publication year (required)")
	fetchCmd.Flags().Int("to", 0, "last publication year (defaults to --from)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if portal, _ := cmd.Flags().GetString("portal"); portal != "" {
		cfg.Diva.Portal = portal
	}
	if err := applyYearFlags(cmd, &cfg); err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Diva.Timeout}
	url := diva.ExportURL(cfg.Diva.Portal, cfg.Diva.FromYear, cfg.Diva.ToYear)
	dest := diva.ExportPath(cfg.Diva)

	fmt.Fprintf(os.Stdout, "downloading DiVA export for %d-%d to %s\n",
		cfg.Diva.FromYear, cfg.Diva.ToYear, dest)
	if err := diva.Download(client, url, dest); err != nil {
		return fmt.Errorf("downloading export: %w", err)
	}
	fmt.Fprintln(os.Stdout, "done")
	return nil
}

// applyYearFlags resolves the year range from flags and config. The range
// must be explicit somewhere: matching a whole portal is never intended.
func applyYearFlags(cmd *cobra.Command, cfg *types.PipelineConfig) error {
	if from, _ := cmd.Flags().GetInt("from"); from != 0 {
		cfg.Diva.FromYear = from
	}
	if to, _ := cmd.Flags().GetInt("to"); to != 0 {
		cfg.Diva.ToYear = to
	}
	if cfg.Diva.ToYear == 0 {
		cfg.Diva.ToYear = cfg.Diva.FromYear
	}

	if cfg.Diva.FromYear == 0 {
		return fmt.Errorf("provide a publication year range (--from, optionally --to)")
	}
	if cfg.Diva.ToYear < cfg.Diva.FromYear {
		return fmt.Errorf("year range %d-%d is inverted", cfg.Diva.FromYear, cfg.Diva.ToYear)
	}
	return nil
}
