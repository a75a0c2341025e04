// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import "errors"

// Sentinel errors callers branch on. Everything else the client returns is
// a transport or decoding failure wrapped with context.
var (
	// ErrNoMatch means the service answered but offered no candidate DOI
	// for the query.
	ErrNoMatch = errors.New("no matching work")

	// ErrNotFound means a DOI is not registered with the service.
	ErrNotFound = errors.New("DOI not registered")
)

// IsNoMatch reports whether err means a lookup completed without a usable
// candidate, as opposed to failing outright.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsNotFound reports whether err means the service does not know the DOI.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
