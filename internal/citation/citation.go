// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation reads resolver input: plain-text files with one citation
// per line, or BibTeX files whose entries become bibliographic queries.
package citation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nickng/bibtex"
)

// Citation is one input item. Text is what the output table records; Query
// is what the lookup service receives. The two are equal for plain-text
// input. DOI is set when the input itself already names one (.bib entries
// with a doi field), in which case no lookup is needed.
type Citation struct {
	Text  string
	Query string
	DOI   string
}

// ReadFile loads citations from path. Files with a .bib extension are
// parsed as BibTeX; anything else is treated as plain text, one citation
// per line.
func ReadFile(path string) ([]Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading citations file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".bib") {
		return parseBib(data)
	}
	return ParseLines(string(data)), nil
}

// ParseLines extracts citations from plain text. Blank lines are skipped,
// non-printable runes are dropped, and leading characters before the first
// letter are removed so list prefixes like "(1) ", "[12] " or "3. " pollute
// neither the query nor the saved citation text.
func ParseLines(text string) []Citation {
	var out []Citation
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(sanitize(line))
		if line == "" {
			continue
		}
		line = stripLeadingJunk(line)
		out = append(out, Citation{Text: line, Query: line})
	}
	return out
}

// stripLeadingJunk removes everything before the first letter. Lines with
// no letters at all pass through unchanged.
func stripLeadingJunk(s string) string {
	i := strings.IndexFunc(s, unicode.IsLetter)
	if i < 0 {
		return s
	}
	return strings.TrimSpace(s[i:])
}

// sanitize drops non-printable runes.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// parseBib converts BibTeX entries to citations. The query joins title,
// author and year the way reference managers compose free-text lookups.
// Entries that already declare a doi field carry it through; the file is
// authoritative for its own DOIs.
func parseBib(data []byte) ([]Citation, error) {
	bib, err := bibtex.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing BibTeX: %w", err)
	}

	var out []Citation
	for _, e := range bib.Entries {
		title := fieldString(e, "title")
		author := fieldString(e, "author")
		year := fieldString(e, "year")
		doi := fieldString(e, "doi")

		query := joinNonEmpty(", ", title, author, year)
		if query == "" && doi == "" {
			// Nothing to search with and nothing worth recording.
			continue
		}
		out = append(out, Citation{
			Text:  displayText(e.CiteName, title, author, year),
			Query: query,
			DOI:   doi,
		})
	}
	return out, nil
}

// displayText renders a .bib entry as citation-like text for the table:
// author, year, title in reading order, falling back to the cite key when
// the entry has none of them.
func displayText(key, title, author, year string) string {
	s := joinNonEmpty(", ", author, year, title)
	if s == "" {
		return key
	}
	return s
}

func fieldString(e *bibtex.BibEntry, name string) string {
	v, ok := e.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
