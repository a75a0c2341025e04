// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Work holds the bibliographic metadata the lookup service reports for a
// DOI. The export command turns Works into bibliography entries.
type Work struct {
	// DOI identifies the work.
	DOI string `json:"doi" yaml:"doi"`

	// Type is the service's work type (e.g. "journal-article").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Title is the primary title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in source order.
	Authors []WorkAuthor `json:"authors,omitempty" yaml:"authors,omitempty"`

	// ContainerTitle is the journal or proceedings name.
	ContainerTitle string `json:"container_title,omitempty" yaml:"container_title,omitempty"`

	// Volume, Issue and Pages locate the work within its container.
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Publisher is the publishing body.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Issued is the publication date; zero when the service did not report one.
	Issued time.Time `json:"issued" yaml:"issued"`
}

// WorkAuthor is one author of a Work.
type WorkAuthor struct {
	// Given is the author's given name(s).
	Given string `json:"given,omitempty" yaml:"given,omitempty"`

	// Family is the author's family name.
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
}
