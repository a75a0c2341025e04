// Package resolver drives citation-to-DOI resolution: each citation is
// looked up against CrossRef, or served from the lookup cache, and
// becomes one table record, strictly in input order.
package resolver

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/doi-finder/internal/citation"
	"github.com/pdiddy/doi-finder/internal/crossref"
	"github.com/pdiddy/doi-finder/pkg/types"
)

// Finder resolves a bibliographic query to its best match.
type Finder interface {
	BestMatch(ctx context.Context, query string) (types.Match, error)
}

// Cache is the subset of the lookup cache the resolver uses. A nil
// Cache disables caching.
type Cache interface {
	Get(ctx context.Context, query string) (types.Match, bool, error)
	Put(ctx context.Context, query string, m types.Match) error
}

// Summary holds the outcome of a resolution run.
type Summary struct {
	Total     int
	Found     int
	NotFound  int
	FromCache int
}

// SuccessRate returns the share of citations that resolved to a DOI,
// as a percentage.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Found) / float64(s.Total) * 100
}

// Run resolves citations one at a time, printing per-item progress to
// w. Individual lookup failures are reported and recorded as
// "Not Found"; they never abort the run. Only context cancellation
// stops it early, returning the records resolved so far.
func Run(ctx context.Context, finder Finder, cache Cache, citations []citation.Citation, w io.Writer) ([]types.Record, Summary, error) {
	summary := Summary{Total: len(citations)}
	records := make([]types.Record, 0, len(citations))

	for i, cit := range citations {
		select {
		case <-ctx.Done():
			return records, summary, ctx.Err()
		default:
		}

		fmt.Fprintf(w, "[%d/%d] searching: %s\n", i+1, len(citations), truncate(cit.Text, 80))

		rec, fromCache, err := resolveOne(ctx, finder, cache, cit, w)
		if err != nil {
			return records, summary, err
		}

		if fromCache {
			summary.FromCache++
		}
		if rec.Found() {
			summary.Found++
		} else {
			summary.NotFound++
		}
		records = append(records, rec)
	}

	fmt.Fprintf(w, "\nResolution summary: %d found, %d not found, %d from cache (total: %d, %.1f%% success)\n",
		summary.Found, summary.NotFound, summary.FromCache, summary.Total, summary.SuccessRate())

	return records, summary, nil
}

// resolveOne produces the record for a single citation. The error is
// non-nil only when the context is done; every other failure degrades
// to a "Not Found" record.
func resolveOne(ctx context.Context, finder Finder, cache Cache, cit citation.Citation, w io.Writer) (types.Record, bool, error) {
	// BibTeX entries that already carry a DOI skip the API.
	if cit.DOI != "" {
		fmt.Fprintf(w, "  doi from entry: %s\n", cit.DOI)
		return types.NewRecord(cit.Text, types.Match{DOI: cit.DOI, Source: "bibtex"}), false, nil
	}

	if cache != nil {
		m, ok, err := cache.Get(ctx, cit.Query)
		if err != nil {
			fmt.Fprintf(w, "  warning: cache read failed: %v\n", err)
		} else if ok {
			fmt.Fprintf(w, "  cached: %s\n", m.DOI)
			return types.NewRecord(cit.Text, m), true, nil
		}
	}

	m, err := finder.BestMatch(ctx, cit.Query)
	switch {
	case crossref.IsNoMatch(err):
		fmt.Fprintf(w, "  no match\n")
		return types.NotFoundRecord(cit.Text), false, nil
	case err != nil && ctx.Err() != nil:
		return types.Record{}, false, ctx.Err()
	case err != nil:
		fmt.Fprintf(w, "  warning: lookup failed: %v\n", err)
		return types.NotFoundRecord(cit.Text), false, nil
	}

	fmt.Fprintf(w, "  found: %s\n", m.DOI)

	if cache != nil {
		if err := cache.Put(ctx, cit.Query, m); err != nil {
			fmt.Fprintf(w, "  warning: cache write failed: %v\n", err)
		}
	}

	return types.NewRecord(cit.Text, m), false, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
