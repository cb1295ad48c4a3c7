// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doibib/internal/abbrev"
	"github.com/pdiddy/doibib/internal/bibtex"
	"github.com/pdiddy/doibib/internal/resolve"
	"github.com/pdiddy/doibib/pkg/types"
)

func init() {
	rootCmd.Flags().Bool("raw", false, "print the resolver response verbatim, skipping reformatting")
	rootCmd.Flags().Bool("no-abbrev", false, "skip journal title abbreviation")
}

// runCite is the core flow: one DOI in, one BibTeX record out.
func runCite(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	noAbbrev, _ := cmd.Flags().GetBool("no-abbrev")
	cfg := loadConfig()

	// Classification only warns; malformed identifiers are detected by
	// the remote service, not locally.
	identifier := strings.TrimSpace(args[0])
	switch {
	case resolve.IsURL(identifier):
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: full URL provided; using as is")
	case !resolve.IsDOI(identifier):
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: input does not look like a DOI; sending to the resolver anyway")
	}

	client := resolve.NewClient(cfg.Resolver)
	record, err := client.FetchBibTeX(cmd.Context(), identifier)
	if err != nil {
		return err
	}

	if raw {
		fmt.Fprintln(cmd.OutOrStdout(), record)
		return nil
	}

	entry, err := bibtex.Parse(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not reformat citation: %v\n", err)
		fmt.Fprintln(cmd.OutOrStdout(), record)
		return nil
	}

	if !noAbbrev {
		addShortJournal(cmd.Context(), entry, cfg.Abbrev)
	}
	bibtex.NormalizeMonth(entry)
	entry.Key = bibtex.CiteKey(entry)

	fmt.Fprintln(cmd.OutOrStdout(), entry.Format())
	return nil
}

// addShortJournal abbreviates the journal title into a shortjournal field.
// Failures degrade to a stderr warning; the citation still prints without it.
func addShortJournal(ctx context.Context, entry *bibtex.Entry, cfg types.AbbrevConfig) {
	journal := entry.Fields["journal"]
	if journal == "" {
		return
	}

	short, err := abbreviateJournal(ctx, journal, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal abbreviation unavailable: %v\n", err)
		return
	}
	if short != "" && short != journal {
		entry.Fields["shortjournal"] = short
	}
}

// abbreviateJournal opens the abbreviation database, refreshing the cached
// list and its index as needed, and shortens journal.
func abbreviateJournal(ctx context.Context, journal string, cfg types.AbbrevConfig) (string, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	listPath, err := abbrev.EnsureList(ctx, client, cfg, os.Stderr)
	if err != nil {
		return "", err
	}

	store, err := abbrev.OpenStore(filepath.Join(abbrev.DataDir(cfg), abbrev.IndexFile))
	if err != nil {
		return "", err
	}
	defer store.Close()

	if err := store.Sync(ctx, listPath, os.Stderr); err != nil {
		return "", err
	}
	return abbrev.New(store).Abbreviate(ctx, journal)
}
