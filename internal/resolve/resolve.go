// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns DOI identifiers into BibTeX citation records by
// querying a DOI resolution service with content negotiation.
package resolve

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the resolver endpoint used when none is configured.
const DefaultBaseURL = "https://dx.doi.org/"

// DefaultAccept requests a BibTeX rendering via content negotiation.
const DefaultAccept = "text/x-bibliography;style=bibtex"

// doiPattern matches DOIs: "10.1016/j.ultrasmedbio.2010.02.012".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// IsDOI reports whether s looks like a bare DOI. Inputs that do not match
// are still sent to the resolver; the remote service reports malformed
// identifiers through its failure response.
func IsDOI(s string) bool {
	return doiPattern.MatchString(strings.TrimSpace(s))
}

// IsURL reports whether s is a full http(s) URL rather than a bare DOI.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// CitationURL returns the URL to request for identifier. A full URL is
// used as-is; a bare identifier is appended to base.
func CitationURL(identifier, base string) string {
	identifier = strings.TrimSpace(identifier)
	if IsURL(identifier) {
		return identifier
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + identifier
}
