// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns a resolved DOI table into a bibliography in
// CSL-YAML or BibTeX form, fetching full work metadata per DOI.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/doi-finder/pkg/types"
)

// Fetcher retrieves full work metadata for a DOI.
type Fetcher interface {
	WorkByDOI(ctx context.Context, doi string) (types.Work, error)
}

// Format selects the bibliography output format.
type Format string

const (
	FormatCSL    Format = "csl"
	FormatBibTeX Format = "bibtex"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSL:
		return FormatCSL, nil
	case FormatBibTeX:
		return FormatBibTeX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csl or bibtex)", s)
}

// Entry pairs a table record with its fetched metadata. Work is nil
// when the metadata fetch failed; such entries degrade to a minimal
// form carrying the original citation text and the DOI.
type Entry struct {
	Record types.Record
	Work   *types.Work
}

// Collect fetches metadata for every record with a DOI, in table
// order, reporting progress to w. Rows without a DOI are skipped with
// a notice, and per-DOI fetch failures degrade to minimal entries.
func Collect(ctx context.Context, f Fetcher, records []types.Record, w io.Writer) ([]Entry, error) {
	var entries []Entry
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return entries, ctx.Err()
		default:
		}

		if !rec.Found() {
			fmt.Fprintf(w, "skipping (no DOI): %s\n", rec.Citation)
			continue
		}

		work, err := f.WorkByDOI(ctx, rec.DOI)
		if err != nil {
			if ctx.Err() != nil {
				return entries, ctx.Err()
			}
			fmt.Fprintf(w, "warning: metadata fetch failed for %s: %v\n", rec.DOI, err)
			entries = append(entries, Entry{Record: rec})
			continue
		}

		entries = append(entries, Entry{Record: rec, Work: &work})
	}
	return entries, nil
}

// Write renders entries in the requested format.
func Write(entries []Entry, format Format, w io.Writer) error {
	switch format {
	case FormatCSL:
		return writeCSL(entries, w)
	case FormatBibTeX:
		return writeBibTeX(entries, w)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// doiSlug returns a citation-key-safe form of a DOI.
func doiSlug(doi string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(doi)
}
