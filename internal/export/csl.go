package export

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-finder/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style
// Language) format. The field names and structure follow the
// CSL-JSON/CSL-YAML schema so that output is consumable by Pandoc and
// reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	Note           string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

func writeCSL(entries []Entry, w io.Writer) error {
	items := make([]CSLItem, len(entries))
	for i, e := range entries {
		items[i] = toCSLItem(e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts an entry to a CSLItem. Entries without fetched
// metadata keep the original citation text in the note field.
func toCSLItem(e Entry) CSLItem {
	item := CSLItem{
		ID:   doiSlug(e.Record.DOI),
		Type: "article",
		DOI:  e.Record.DOI,
	}

	if e.Work == nil {
		item.Note = e.Record.Citation
		return item
	}

	work := *e.Work
	item.Type = cslType(work.Type)
	item.Title = work.Title
	item.ContainerTitle = work.ContainerTitle
	item.Volume = work.Volume
	item.Issue = work.Issue
	item.Page = work.Pages
	item.Publisher = work.Publisher

	for _, a := range work.Authors {
		if a.Family == "" && a.Given == "" {
			continue
		}
		item.Author = append(item.Author, cslName(a))
	}

	if !work.Issued.IsZero() {
		item.Issued = &CSLDate{
			DateParts: [][]int{{work.Issued.Year(), int(work.Issued.Month()), work.Issued.Day()}},
		}
	}

	return item
}

func cslName(a types.WorkAuthor) CSLName {
	if a.Family == "" {
		return CSLName{Literal: a.Given}
	}
	return CSLName{Family: a.Family, Given: a.Given}
}

// cslType maps a CrossRef work type to its CSL equivalent.
func cslType(workType string) string {
	switch workType {
	case "journal-article":
		return "article-journal"
	case "proceedings-article":
		return "paper-conference"
	case "book":
		return "book"
	case "book-chapter":
		return "chapter"
	default:
		return "article"
	}
}
