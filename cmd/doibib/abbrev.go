// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doibib/internal/abbrev"
)

var abbrevCmd = &cobra.Command{
	Use:   "abbrev",
	Short: "Manage the journal abbreviation database",
}

var abbrevUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the abbreviation list and rebuild its index",
	Long: `Update downloads the journal abbreviation list from the configured source
URL into the per-user data directory and rebuilds the SQLite lookup index.
The cite flow does this on demand; update forces a refresh.`,
	Args: cobra.NoArgs,
	RunE: runAbbrevUpdate,
}

func init() {
	abbrevCmd.AddCommand(abbrevUpdateCmd)
	rootCmd.AddCommand(abbrevCmd)
}

func runAbbrevUpdate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Abbrev
	client := &http.Client{Timeout: cfg.Timeout}
	dataDir := abbrev.DataDir(cfg)
	listPath := filepath.Join(dataDir, abbrev.ListFile)

	fmt.Printf("downloading %s\n", cfg.SourceURL)
	if err := abbrev.Download(cmd.Context(), client, cfg, listPath); err != nil {
		return err
	}

	store, err := abbrev.OpenStore(filepath.Join(dataDir, abbrev.IndexFile))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Sync(cmd.Context(), listPath, cmd.OutOrStdout()); err != nil {
		return err
	}

	n, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("abbreviation database ready (%d rules)\n", n)
	return nil
}
