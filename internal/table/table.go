// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table persists citation records as a CSV file with a spreadsheet
// twin. table.go covers reading, merging and de-duplication; xlsx.go the
// workbook output.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doi-finder/pkg/types"
)

// ownColumns are the columns this tool owns, always emitted first and in
// this order. Columns beyond these in an existing file are preserved
// per-row in Record.Extra.
var ownColumns = []string{"citation", "doi", "doi_url"}

// Table is an ordered sequence of citation records plus the column layout
// of the file it came from. Appends go to the end; existing rows are never
// rewritten except by Dedupe.
type Table struct {
	// Columns is the full header: the owned columns followed by any extra
	// columns in their original file order.
	Columns []string

	// Records holds the rows in file order.
	Records []types.Record
}

// New returns an empty table with the standard columns.
func New() *Table {
	return &Table{Columns: append([]string(nil), ownColumns...)}
}

// ReadCSV loads a table from path. The header names decide column meaning:
// citation, doi and doi_url map onto Record fields regardless of position,
// anything else lands in Record.Extra keyed by header name.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	if len(rows) == 0 {
		return New(), nil
	}

	header := rows[0]
	var extras []string
	for _, h := range header {
		switch normalizeHeader(h) {
		case "citation", "doi", "doi_url":
		default:
			extras = append(extras, cleanHeader(h))
		}
	}

	t := New()
	t.Columns = append(t.Columns, extras...)

	for _, row := range rows[1:] {
		var rec types.Record
		for i, h := range header {
			if i >= len(row) {
				break
			}
			val := row[i]
			switch normalizeHeader(h) {
			case "citation":
				rec.Citation = val
			case "doi":
				rec.DOI = val
			case "doi_url":
				rec.DOIURL = val
			default:
				if val != "" {
					if rec.Extra == nil {
						rec.Extra = make(map[string]string)
					}
					rec.Extra[cleanHeader(h)] = val
				}
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// cleanHeader trims whitespace and a UTF-8 BOM (spreadsheet tools prepend
// one) from a header cell.
func cleanHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
}

func normalizeHeader(h string) string {
	return strings.ToLower(cleanHeader(h))
}

// MergeStats reports what Append did with a batch of new records.
type MergeStats struct {
	Added   int
	Skipped int

	// SkippedCitations lists the citation text of each skipped record in
	// input order, for reporting.
	SkippedCitations []string
}

// Append merges new records into the table. A record whose DOI already
// exists, in the table or earlier in the same batch, is skipped and
// reported; everything else lands at the end. DOI comparison is
// case-insensitive. Records without a real DOI ("Not Found") are always
// appended. Existing rows are never modified or removed.
func (t *Table) Append(records []types.Record) MergeStats {
	index := make(map[string]bool, len(t.Records))
	for _, r := range t.Records {
		if k := r.Key(); k != "" {
			index[k] = true
		}
	}

	var stats MergeStats
	for _, r := range records {
		k := r.Key()
		if k != "" && index[k] {
			stats.Skipped++
			stats.SkippedCitations = append(stats.SkippedCitations, r.Citation)
			continue
		}
		if k != "" {
			index[k] = true
		}
		t.Records = append(t.Records, r)
		stats.Added++
	}
	return stats
}

// Dedupe drops rows repeating an earlier row's DOI, keeping the first
// occurrence. Rows without a real DOI are never dropped. Returns the number
// of rows removed; running it on an already de-duplicated table is a no-op.
func (t *Table) Dedupe() int {
	seen := make(map[string]bool, len(t.Records))
	kept := t.Records[:0]
	removed := 0
	for _, r := range t.Records {
		k := r.Key()
		if k != "" && seen[k] {
			removed++
			continue
		}
		if k != "" {
			seen[k] = true
		}
		kept = append(kept, r)
	}
	t.Records = kept
	return removed
}

// WriteCSV writes the table to path via a temporary file renamed into
// place, so a failed write cannot leave a half-written table behind.
func (t *Table) WriteCSV(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(t.Columns)
	for _, rec := range t.Records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(t.row(rec))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}

	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing table: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WriteFiles writes the CSV at csvPath and the workbook twin next to it,
// sharing the base name.
func (t *Table) WriteFiles(csvPath string) error {
	if err := t.WriteCSV(csvPath); err != nil {
		return err
	}
	return t.WriteXLSX(XLSXPath(csvPath))
}

// XLSXPath returns csvPath with its extension replaced by .xlsx.
func XLSXPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
}

// row renders a record in column order.
func (t *Table) row(r types.Record) []string {
	out := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		switch col {
		case "citation":
			out = append(out, r.Citation)
		case "doi":
			out = append(out, r.DOI)
		case "doi_url":
			out = append(out, r.DOIURL)
		default:
			out = append(out, r.Extra[col])
		}
	}
	return out
}
