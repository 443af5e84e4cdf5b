// Package main provides the ash CLI entry point.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/config"
	"github.com/matsen/ash/internal/retraction"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	dbFlag      string
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ash",
	Short: "Find retracted papers among a document's citations",
	Long: `ash extracts DOIs from a document (PDF, DOCX, RTF, plain text or LaTeX)
and checks each one against the Retraction Watch database.

Cited papers that have been retracted ("zombie" citations) are reported
with the nature and date of every retraction notice.
All commands output JSON by default; use --human for a readable listing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func init() {
	// Load .env file if present (for ASH_RETRACTION_DB)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the Retraction Watch CSV (overrides "+config.EnvRetractionDB+")")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration with flag overrides, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg.Override(dbFlag, "")
}

// mustOpenRetractionDB returns the unbuilt retraction database, exits if no
// source is configured.
func mustOpenRetractionDB(cfg *config.Config) *retraction.Database {
	path, err := cfg.ValidateRetractionDB()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		exitWithError(ExitConfigError, "%v", err)
	}
	return retraction.New(path)
}
