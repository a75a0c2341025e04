package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-finder/internal/crossref"
	"github.com/pdiddy/doi-finder/internal/export"
	"github.com/pdiddy/doi-finder/internal/table"
)

var exportCmd = &cobra.Command{
	Use:   "export [table.csv]",
	Short: "Export a resolved table as a CSL-YAML or BibTeX bibliography",
	Long: `Export reads a resolved CSV table (default dois.csv), fetches full
metadata for each DOI from CrossRef, and writes a bibliography. Rows
without a DOI are skipped; rows whose metadata cannot be fetched fall
back to a minimal entry carrying the original citation text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "csl", "bibliography format: csl or bibtex")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	csvPath := "dois.csv"
	if len(args) > 0 {
		csvPath = args[0]
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	tbl, err := table.ReadCSV(csvPath)
	if err != nil {
		return err
	}

	client := crossref.NewClient(resolverConfig())

	entries, err := export.Collect(cmd.Context(), client, tbl.Records, os.Stderr)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(entries, format, &buf); err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), outPath)
	return nil
}
