package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-finder/internal/cache"
	"github.com/pdiddy/doi-finder/internal/citation"
	"github.com/pdiddy/doi-finder/internal/crossref"
	"github.com/pdiddy/doi-finder/internal/resolver"
	"github.com/pdiddy/doi-finder/internal/table"
)

// runResolve implements the -i mode: resolve every citation in
// inputPath and merge the results into the table at outputPath.
func runResolve(cmd *cobra.Command, inputPath, outputPath string) error {
	citations, err := citation.ReadFile(inputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Processing %d citations from %s...\n", len(citations), inputPath)

	client := crossref.NewClient(resolverConfig())

	var lookups resolver.Cache
	if !viper.GetBool("no-cache") {
		c, err := openLookupCache()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: lookup cache unavailable: %v\n", err)
		} else {
			defer c.Close()
			lookups = c
		}
	}

	records, _, err := resolver.Run(cmd.Context(), client, lookups, citations, os.Stdout)
	if err != nil {
		return err
	}

	tbl := table.New()
	if _, statErr := os.Stat(outputPath); statErr == nil {
		fmt.Printf("Loading existing results from %s...\n", outputPath)
		if tbl, err = table.ReadCSV(outputPath); err != nil {
			return err
		}
	}

	stats := tbl.Append(records)

	if err := tbl.WriteFiles(outputPath); err != nil {
		return err
	}
	fmt.Printf("\nResults saved to %s\n", outputPath)
	fmt.Printf("Results saved to %s\n", table.XLSXPath(outputPath))

	fmt.Printf("\nSummary:\n")
	fmt.Printf("Total citations in CSV file: %d\n", len(tbl.Records))
	fmt.Printf("New citations successfully added: %d\n", stats.Added)
	fmt.Printf("Duplicate citations not added: %d\n", stats.Skipped)
	for _, c := range stats.SkippedCitations {
		fmt.Printf("  already present: %s\n", c)
	}
	return nil
}

// openLookupCache opens the cache at --cache-path, or at the per-user
// default location.
func openLookupCache() (*cache.Cache, error) {
	path := viper.GetString("cache-path")
	if path == "" {
		var err error
		if path, err = cache.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return cache.Open(path)
}
