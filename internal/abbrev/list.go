// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/doibib/internal/httputil"
	"github.com/pdiddy/doibib/pkg/types"
)

const (
	// ListFile is the cached abbreviation list filename.
	ListFile = "abbrev.txt.gz"

	// IndexFile is the SQLite index built from the list.
	IndexFile = "abbrev.db"
)

// DefaultDataDir returns the per-user directory for the cached list and
// its index.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "doibib")
}

// DataDir resolves the configured data directory, defaulting to the
// per-user location.
func DataDir(cfg types.AbbrevConfig) string {
	if cfg.DataDir != "" {
		return cfg.DataDir
	}
	return DefaultDataDir()
}

// EnsureList makes sure a current abbreviation list exists on disk,
// downloading it when missing or older than the configured list revision
// date. It returns the list path. Progress goes to w.
func EnsureList(ctx context.Context, client *http.Client, cfg types.AbbrevConfig, w io.Writer) (string, error) {
	path := filepath.Join(DataDir(cfg), ListFile)

	st, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(w, "%s not found; downloading...\n", path)
	case err != nil:
		return "", fmt.Errorf("checking abbreviation list: %w", err)
	default:
		updated, err := cfg.UpdatedOnDate()
		if err != nil {
			return "", err
		}
		// Staleness is a whole-day comparison: a file downloaded on the
		// revision day itself may predate the revision, so it counts as
		// stale too.
		y, m, d := st.ModTime().UTC().Date()
		modDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if updated.IsZero() || modDate.After(updated) {
			return path, nil
		}
		fmt.Fprintf(w, "%s is out of date; redownloading...\n", path)
	}

	if err := Download(ctx, client, cfg, path); err != nil {
		return "", err
	}
	return path, nil
}

// Download fetches the abbreviation list from cfg.SourceURL to destPath
// using a temporary file and rename. HTTP 429 responses are retried with
// backoff; other failures are terminal.
func Download(ctx context.Context, client *http.Client, cfg types.AbbrevConfig, destPath string) error {
	if cfg.SourceURL == "" {
		return errors.New("no abbreviation list source URL configured")
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.SourceURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, cfg.SourceURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".abbrev-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ListEntry is one abbreviation rule. A Prefix rule matches any word that
// starts with Word; otherwise the whole word must match.
type ListEntry struct {
	Word   string
	Abbrev string
	Prefix bool
}

// ParseList reads the gzipped, UTF-16 encoded, tab-separated abbreviation
// list. Lines are WORD<tab>ABBREVIATION<tab>LANGS; header lines starting
// with "WORD" and malformed lines are skipped. Words ending in "-" become
// prefix rules with the dash stripped. Words and abbreviations are
// lowercased.
func ParseList(path string) ([]ListEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening abbreviation list: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompressing abbreviation list: %w", err)
	}
	defer gz.Close()

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	sc := bufio.NewScanner(transform.NewReader(gz, decoder))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []ListEntry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "WORD") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(parts[0]))
		abbreviation := strings.ToLower(strings.TrimSpace(parts[1]))
		if word == "" || abbreviation == "" {
			continue
		}
		prefix := strings.HasSuffix(word, "-")
		entries = append(entries, ListEntry{
			Word:   strings.TrimSuffix(word, "-"),
			Abbrev: abbreviation,
			Prefix: prefix,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading abbreviation list: %w", err)
	}
	return entries, nil
}
