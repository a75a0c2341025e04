package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-finder/internal/table"
)

// runClean implements the -c mode: drop rows whose DOI already
// appeared earlier in the table, keeping first occurrences. Rows
// marked "Not Found" are never dropped.
func runClean(cmd *cobra.Command, csvPath string) error {
	fmt.Printf("Cleaning duplicate DOIs in %s...\n", csvPath)

	tbl, err := table.ReadCSV(csvPath)
	if err != nil {
		return err
	}

	removed := tbl.Dedupe()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !dryRun {
		if err := tbl.WriteFiles(csvPath); err != nil {
			return err
		}
		fmt.Printf("\nCleaned CSV file saved to %s\n", csvPath)
	} else {
		fmt.Printf("\nDry run: no files written\n")
	}

	fmt.Printf("Summary:\n")
	fmt.Printf("Duplicate citations removed: %d\n", removed)
	fmt.Printf("Citations remaining after removal: %d\n", len(tbl.Records))
	return nil
}
