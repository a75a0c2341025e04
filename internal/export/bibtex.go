// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/doi-finder/pkg/types"
)

func writeBibTeX(entries []Entry, w io.Writer) error {
	bib := bibtex.NewBibTex()
	for _, e := range entries {
		bib.AddEntry(toBibEntry(e))
	}
	_, err := io.WriteString(w, bib.PrettyString())
	return err
}

// toBibEntry converts an entry to a BibTeX entry keyed by a DOI slug.
// Entries without fetched metadata become @misc with the original
// citation in the note field.
func toBibEntry(e Entry) *bibtex.BibEntry {
	key := doiSlug(e.Record.DOI)

	if e.Work == nil {
		entry := bibtex.NewBibEntry("misc", key)
		entry.AddField("note", bibtex.NewBibConst(e.Record.Citation))
		entry.AddField("doi", bibtex.NewBibConst(e.Record.DOI))
		return entry
	}

	work := *e.Work
	typ := bibType(work.Type)
	entry := bibtex.NewBibEntry(typ, key)

	if work.Title != "" {
		entry.AddField("title", bibtex.NewBibConst(work.Title))
	}
	if author := bibAuthors(work.Authors); author != "" {
		entry.AddField("author", bibtex.NewBibConst(author))
	}
	if work.ContainerTitle != "" {
		field := "journal"
		if typ == "inproceedings" || typ == "incollection" {
			field = "booktitle"
		}
		entry.AddField(field, bibtex.NewBibConst(work.ContainerTitle))
	}
	if !work.Issued.IsZero() {
		entry.AddField("year", bibtex.NewBibConst(fmt.Sprintf("%d", work.Issued.Year())))
	}
	if work.Volume != "" {
		entry.AddField("volume", bibtex.NewBibConst(work.Volume))
	}
	if work.Issue != "" {
		entry.AddField("number", bibtex.NewBibConst(work.Issue))
	}
	if work.Pages != "" {
		entry.AddField("pages", bibtex.NewBibConst(work.Pages))
	}
	if work.Publisher != "" {
		entry.AddField("publisher", bibtex.NewBibConst(work.Publisher))
	}
	entry.AddField("doi", bibtex.NewBibConst(work.DOI))

	return entry
}

// bibAuthors joins authors in "Family, Given" form with BibTeX "and"
// separators.
func bibAuthors(authors []types.WorkAuthor) string {
	var parts []string
	for _, a := range authors {
		switch {
		case a.Family != "" && a.Given != "":
			parts = append(parts, a.Family+", "+a.Given)
		case a.Family != "":
			parts = append(parts, a.Family)
		case a.Given != "":
			parts = append(parts, a.Given)
		}
	}
	return strings.Join(parts, " and ")
}

// bibType maps a CrossRef work type to a BibTeX entry type.
func bibType(workType string) string {
	switch workType {
	case "journal-article":
		return "article"
	case "proceedings-article":
		return "inproceedings"
	case "book":
		return "book"
	case "book-chapter":
		return "incollection"
	default:
		return "misc"
	}
}
