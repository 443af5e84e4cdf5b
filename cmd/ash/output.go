package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/ash/internal/report"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// printReportHuman lists every cited DOI in discovery order, marking clean
// ones with a check and following zombies with their retraction notices.
func printReportHuman(w io.Writer, title string, dois []string, rep *report.Report) {
	if title != "" {
		fmt.Fprintf(w, "%s\n", title)
	}
	if len(dois) == 0 {
		fmt.Fprintln(w, "  (no DOIs found)")
		return
	}

	byDOI := make(map[string][]report.Zombie)
	for _, z := range rep.Zombies {
		byDOI[z.DOI] = append(byDOI[z.DOI], z)
	}

	for _, id := range dois {
		if !rep.DOIs[id] {
			fmt.Fprintf(w, "✔️ %s\n", id)
			continue
		}
		fmt.Fprintf(w, "   %s\n", id)
		for _, z := range byDOI[id] {
			fmt.Fprintf(w, "  ❗ %s\n", strings.Join([]string{z.Nature, "-", z.Date, "-", "see " + z.Notice}, " "))
		}
	}

	if n := len(rep.ZombieDOIs()); n > 0 {
		fmt.Fprintf(w, "\n%d of %d cited DOIs retracted\n", n, len(rep.DOIs))
	}
}
