// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// NotFoundDOI is the sentinel DOI recorded for citations whose lookup
// produced no usable candidate. Rows carrying it stay in the table and are
// exempt from de-duplication.
const NotFoundDOI = "Not Found"

// DOIURLBase is the resolver prefix doi_url values are built from.
const DOIURLBase = "https://doi.org/"

// Record is one row of the citation table.
type Record struct {
	// Citation is the citation text as written to the table.
	Citation string `json:"citation" yaml:"citation"`

	// DOI is the resolved identifier, or NotFoundDOI.
	DOI string `json:"doi" yaml:"doi"`

	// DOIURL is the https://doi.org/ link for DOI, empty when no DOI was found.
	DOIURL string `json:"doi_url" yaml:"doi_url"`

	// Extra carries values for columns this tool does not own, keyed by
	// column name. Reads and merges preserve them; fresh records have none.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Found reports whether the record carries a real DOI.
func (r Record) Found() bool {
	return r.DOI != "" && r.DOI != NotFoundDOI
}

// Key returns the identity used for duplicate detection: the lowercased DOI,
// or "" for records that have none. An empty key never matches anything.
func (r Record) Key() string {
	if !r.Found() {
		return ""
	}
	return strings.ToLower(r.DOI)
}

// NewRecord builds a table row from a citation and its lookup outcome.
func NewRecord(citation string, m Match) Record {
	if m.DOI == "" {
		return NotFoundRecord(citation)
	}
	return Record{
		Citation: citation,
		DOI:      m.DOI,
		DOIURL:   DOIURLBase + m.DOI,
	}
}

// NotFoundRecord builds the row recorded when a lookup fails.
func NotFoundRecord(citation string) Record {
	return Record{Citation: citation, DOI: NotFoundDOI}
}

// Match is the outcome of a single successful lookup.
type Match struct {
	// DOI is the matched work's DOI.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the matched work's primary title, used for reporting.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Score is the service's relevance score for the match.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Source names the service that produced the match (e.g. "crossref").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
