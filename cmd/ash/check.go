package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/config"
	"github.com/matsen/ash/internal/document"
	"github.com/matsen/ash/internal/extract"
	"github.com/matsen/ash/internal/report"
	"github.com/matsen/ash/internal/retraction"
	"github.com/matsen/ash/internal/storage"
)

var (
	checkType     string
	checkUseCache bool
)

func init() {
	checkCmd.Flags().StringVar(&checkType, "type", "", "Content type of the documents (default: inferred from each path)")
	checkCmd.Flags().BoolVar(&checkUseCache, "cache", false, "Look up DOIs in the SQLite cache built by 'ash rebuild'")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Report retracted papers cited by documents",
	Long: `Extract the DOIs cited by each document and check them against the
retraction database.

Exits with status 4 if any cited paper has been retracted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// CheckResult is the report for one document.
type CheckResult struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	*report.Report
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	var idx report.Index
	var cache *storage.DB
	if checkUseCache {
		cache = mustOpenFreshCache(cfg)
		idx = cache
	} else {
		idx = mustOpenRetractionDB(cfg)
	}

	var human io.Writer
	if humanOutput {
		human = os.Stdout
	}
	results, err := checkDocuments(args, checkType, idx, extract.NewRegistry(), human)

	// Close before any exit below; os.Exit skips deferred calls.
	if cache != nil {
		if cerr := cache.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing cache")
		}
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		outputJSON(results)
	}
	for _, r := range results {
		if !r.Clean() {
			os.Exit(ExitZombiesFound)
		}
	}
	return nil
}

// checkDocuments reports on each path in order, stopping at the first
// failure. When human is non-nil each report is also printed to it.
func checkDocuments(paths []string, contentType string, idx report.Index, reg *extract.Registry, human io.Writer) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(paths))
	for _, path := range paths {
		doc, err := document.FromPath(path, contentType, reg)
		if err != nil {
			return nil, err
		}

		rep, err := doc.Report(idx)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", path, err)
		}

		if human != nil {
			printReportHuman(human, filepath.Base(path), doc.DOIs(), rep)
		}
		results = append(results, CheckResult{Path: path, ContentType: doc.ContentType(), Report: rep})
	}
	return results, nil
}

// mustOpenFreshCache opens the SQLite cache and exits if it is stale.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenFreshCache(cfg *config.Config) *storage.DB {
	source, err := cfg.ValidateRetractionDB()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if _, err := os.Stat(cfg.CachePath); err != nil {
		exitWithError(ExitCacheStale, "cache not found at %s\n\nRun 'ash rebuild' to create it.", cfg.CachePath)
	}

	cache, err := storage.OpenDB(cfg.CachePath)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	if err := cache.CheckFresh(source); err != nil {
		cache.Close()
		if errors.Is(err, storage.ErrCacheStale) {
			exitWithError(ExitCacheStale, "%v\n\nRun 'ash rebuild' to refresh it.", err)
		}
		exitWithError(ExitError, "checking cache: %v", err)
	}

	log.Debug().Str("path", cfg.CachePath).Msg("using retraction cache")
	return cache
}

// exitCodeFor maps library errors to exit codes.
func exitCodeFor(err error) int {
	var extractErr *extract.Error
	switch {
	case errors.Is(err, document.ErrNotFound),
		errors.Is(err, document.ErrTypeUndetermined),
		errors.Is(err, document.ErrUnsupportedType),
		errors.Is(err, retraction.ErrSourceUnavailable),
		errors.As(err, &extractErr):
		return ExitDataError
	default:
		return ExitError
	}
}
