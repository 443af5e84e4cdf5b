package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/doi"
	"github.com/matsen/ash/internal/report"
	"github.com/matsen/ash/internal/retraction"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi>...",
	Short: "Show retraction records for DOIs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

// LookupResult is the response for one looked-up DOI.
type LookupResult struct {
	DOI       string              `json:"doi"`
	Retracted bool                `json:"retracted"`
	Records   []retraction.Record `json:"records"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenRetractionDB(cfg)

	results := make([]LookupResult, 0, len(args))
	for _, arg := range args {
		id := doi.Clean(arg)
		records, err := db.RecordsFor(id)
		if err != nil {
			exitWithError(exitCodeFor(err), "looking up %s: %v", id, err)
		}
		if records == nil {
			records = []retraction.Record{}
		}
		results = append(results, LookupResult{DOI: id, Retracted: len(records) > 0, Records: records})
	}

	if !humanOutput {
		return outputJSON(results)
	}

	for _, r := range results {
		if !r.Retracted {
			fmt.Printf("✔️ %s: no retraction records\n", r.DOI)
			continue
		}
		fmt.Printf("   %s\n", r.DOI)
		for _, rec := range r.Records {
			fmt.Printf("  ❗ %s - %s - see %s%s\n", rec.Nature(), rec.Date(), report.NoticeURLPrefix, rec.NoticeDOI())
		}
	}
	return nil
}
