// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration structures shared by the CLI
// commands and the internal packages.
package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doibib/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for the DOI resolution service.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the DOI resolver endpoint (default "https://dx.doi.org/").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Accept is the content-negotiation header value used to request a
	// BibTeX rendering (default "text/x-bibliography;style=bibtex").
	Accept string `json:"accept" yaml:"accept"`
}

// AbbrevConfig holds settings for the journal abbreviation database.
type AbbrevConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceURL is where the gzipped LTWA abbreviation list is downloaded
	// from. When empty, journal abbreviation is skipped unless a list was
	// cached by a previous run.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// UpdatedOn is the publication date of the upstream list, as
	// "YYYY-MM-DD". A cached list older than this date is re-downloaded.
	UpdatedOn string `json:"updated_on,omitempty" yaml:"updated_on,omitempty"`

	// DataDir is the directory holding the cached list and its SQLite
	// index. Defaults to the per-user data directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// UpdatedOnDate parses UpdatedOn. A zero time with nil error means the
// field is unset and the cached list never goes stale.
func (c AbbrevConfig) UpdatedOnDate() (time.Time, error) {
	if c.UpdatedOn == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.UpdatedOn)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing abbrev.updated_on %q: %w", c.UpdatedOn, err)
	}
	return t, nil
}

// Config groups all configuration for doibib.
type Config struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Abbrev   AbbrevConfig   `json:"abbrev" yaml:"abbrev"`
}
