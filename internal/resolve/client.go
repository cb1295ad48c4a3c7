// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/doibib/pkg/types"
)

// ResolutionError reports a failed citation fetch. StatusCode is zero when
// the request never produced an HTTP response (network failure, timeout).
type ResolutionError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("resolving %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("resolving %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client fetches BibTeX citation records from a DOI resolution service.
type Client struct {
	http *http.Client
	cfg  types.ResolverConfig
}

// NewClient builds a Client from cfg, filling in defaults for unset fields.
func NewClient(cfg types.ResolverConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Accept == "" {
		cfg.Accept = DefaultAccept
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// FetchBibTeX requests the BibTeX rendering of identifier and returns the
// response body verbatim, trimmed of surrounding whitespace. The record is
// treated as an opaque text blob; callers decide whether to reformat it.
//
// There is deliberately no retry here: one identifier, one request.
func (c *Client) FetchBibTeX(ctx context.Context, identifier string) (string, error) {
	u := CitationURL(identifier, c.cfg.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", c.cfg.Accept)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ResolutionError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &ResolutionError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ResolutionError{URL: u, Err: fmt.Errorf("reading response: %w", err)}
	}
	return strings.TrimSpace(string(body)), nil
}
