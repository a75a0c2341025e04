package types

import "time"

// HTTPConfig holds shared HTTP settings for commands that call the lookup API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doi-finder/0.1 (mailto:you@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for citation-to-DOI resolution.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is the contact address sent with lookup requests. Setting it
	// routes traffic through the service's polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// PlusToken is an optional Metadata Plus subscriber token.
	PlusToken string `json:"plus_token,omitempty" yaml:"plus_token,omitempty"`

	// Rows is the number of candidates requested per query (default 5).
	Rows int `json:"rows" yaml:"rows"`

	// RequestsPerSecond caps the outbound request rate (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the number of retry attempts for export metadata
	// fetches (default 3). Resolution lookups are never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the lookup cache.
type CacheConfig struct {
	// Enabled controls whether lookups consult and populate the cache.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file
	// (default <user cache dir>/doi-finder/lookups.db).
	Path string `json:"path" yaml:"path"`
}

// Config groups all tool settings.
type Config struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
}
