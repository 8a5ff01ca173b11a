// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doi-resolver CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-resolver/internal/secrets"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide structured logger, configured in the root
// command before any subcommand runs.
var logger zerolog.Logger

// rootCmd is the base command for the doi-resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "doi-resolver",
	Short: "Find DOIs for institutional repository records",
	Long: `doi-resolver matches DiVA repository records that lack a DOI against the
Crossref registry. It downloads a CSV export for a year range, searches
Crossref by title for each working record, verifies promising candidates
against the record's bibliographic fields, and writes the accepted DOIs as
CSV, Excel, and SQLite artifacts.

Each pipeline surface is a subcommand: fetch downloads an export, resolve
runs the full matching pipeline on it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()

		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doi-resolver.yaml or ~/.config/doi-resolver/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doi-resolver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doi-resolver"))
		}
	}

	viper.SetEnvPrefix("DOI_RESOLVER")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults seeds viper with the pipeline defaults so the config
// file and environment only need to name what they change.
func setConfigDefaults() {
	def := types.DefaultConfig()

	viper.SetDefault("diva.portal", def.Diva.Portal)
	viper.SetDefault("diva.selection", def.Diva.Selection)
	viper.SetDefault("diva.exports_dir", def.Diva.ExportsDir)
	viper.SetDefault("diva.timeout", def.Diva.Timeout)

	viper.SetDefault("crossref.rows", def.Crossref.Rows)
	viper.SetDefault("crossref.max_retries", def.Crossref.MaxRetries)
	viper.SetDefault("crossref.timeout", def.Crossref.Timeout)

	viper.SetDefault("match.similarity_threshold", def.Match.SimilarityThreshold)
	viper.SetDefault("match.max_accepted", def.Match.MaxAccepted)
	viper.SetDefault("match.record_delay", def.Match.RecordDelay)
	viper.SetDefault("match.verify.volume", def.Match.Verify.Volume)
	viper.SetDefault("match.verify.issue", def.Match.Verify.Issue)
	viper.SetDefault("match.verify.pages", def.Match.Verify.Pages)
	viper.SetDefault("match.verify.issn", def.Match.Verify.ISSN)
	viper.SetDefault("match.verify.authors", def.Match.Verify.Authors)

	viper.SetDefault("output.dir", def.Output.Dir)
	viper.SetDefault("output.workbook", def.Output.Workbook)
	viper.SetDefault("output.database", def.Output.Database)
}

// pipelineConfig assembles the effective configuration from viper and the
// loaded secrets. Command flags override individual fields afterwards.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()

	cfg.Diva.Portal = viper.GetString("diva.portal")
	cfg.Diva.Selection = viper.GetString("diva.selection")
	cfg.Diva.ExportsDir = viper.GetString("diva.exports_dir")
	cfg.Diva.Timeout = viper.GetDuration("diva.timeout")
	cfg.Diva.FromYear = viper.GetInt("diva.from_year")
	cfg.Diva.ToYear = viper.GetInt("diva.to_year")

	cfg.Crossref.Rows = viper.GetInt("crossref.rows")
	cfg.Crossref.MaxRetries = viper.GetInt("crossref.max_retries")
	cfg.Crossref.Timeout = viper.GetDuration("crossref.timeout")
	cfg.Crossref.Mailto = viper.GetString("crossref.mailto")
	if cfg.Crossref.Mailto == "" {
		cfg.Crossref.Mailto = loadedSecrets["crossref-mailto"]
	}
	cfg.Crossref.PlusToken = loadedSecrets["crossref-plus-api-token"]

	cfg.Match.SimilarityThreshold = viper.GetFloat64("match.similarity_threshold")
	cfg.Match.MaxAccepted = viper.GetInt("match.max_accepted")
	cfg.Match.RecordDelay = viper.GetDuration("match.record_delay")
	cfg.Match.Verify.Volume = viper.GetBool("match.verify.volume")
	cfg.Match.Verify.Issue = viper.GetBool("match.verify.issue")
	cfg.Match.Verify.Pages = viper.GetBool("match.verify.pages")
	cfg.Match.Verify.ISSN = viper.GetBool("match.verify.issn")
	cfg.Match.Verify.Authors = viper.GetBool("match.verify.authors")

	cfg.Output.Dir = viper.GetString("output.dir")
	cfg.Output.Workbook = viper.GetBool("output.workbook")
	cfg.Output.Database = viper.GetBool("output.database")

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
