package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/config"
	"github.com/matsen/ash/internal/storage"
)

var rebuildCachePath string

func init() {
	rebuildCmd.Flags().StringVar(&rebuildCachePath, "cache", "", "Path of the SQLite cache (overrides "+config.EnvCachePath+")")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from the retraction database",
	Long: `Rebuild the SQLite query cache from the Retraction Watch CSV.

Use this after downloading a new CSV; 'ash check --cache' refuses a stale cache.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	DOIs    int    `json:"dois"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig().Override("", rebuildCachePath)
	src := mustOpenRetractionDB(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	cache, err := storage.OpenDB(cfg.CachePath)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	defer cache.Close()

	records, err := cache.RebuildFromDatabase(src)
	if err != nil {
		exitWithError(exitCodeFor(err), "rebuilding cache: %v", err)
	}
	dois, err := cache.Count()
	if err != nil {
		exitWithError(ExitError, "counting cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt %s with %d records for %d DOIs\n", cfg.CachePath, records, dois)
		return nil
	}
	return outputJSON(RebuildResult{
		Status:  "rebuilt",
		Path:    cfg.CachePath,
		Source:  src.Path(),
		Records: records,
		DOIs:    dois,
	})
}
