// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doibib CLI, which turns a DOI
// into a BibTeX citation printed on standard output.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doibib/internal/abbrev"
	"github.com/pdiddy/doibib/internal/resolve"
	"github.com/pdiddy/doibib/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "doibib/0.1"

// rootCmd is the base command. The DOI is its single positional argument;
// management commands (abbrev, config, version) hang off it.
var rootCmd = &cobra.Command{
	Use:   "doibib <DOI>",
	Short: "Fetch a BibTeX citation for a DOI",
	Long: `doibib resolves a DOI to a BibTeX citation record and prints it to standard
output. The record is fetched from a DOI resolution service via content
negotiation, then lightly reformatted: the journal title is abbreviated into
a shortjournal field, the month is normalized to its 3-letter macro form, and
the citation key is regenerated from author, year, and journal initials.

Pass --raw to print the resolver response verbatim.`,
	Args: usageOnError(cobra.ExactArgs(1)),
	RunE: runCite,

	// Usage errors print the usage text themselves (to stderr, below);
	// runtime failures print only the error.
	SilenceUsage: true,
}

// usageOnError wraps an argument validator so that a rejected invocation
// writes the usage text to stderr, keeping stdout clean for citations.
func usageOnError(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			return err
		}
		return nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doibib.yaml or ~/.config/doibib/config.yaml)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doibib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doibib"))
		}
	}

	viper.SetEnvPrefix("DOIBIB")
	viper.AutomaticEnv()

	viper.SetDefault("resolver.base_url", resolve.DefaultBaseURL)
	viper.SetDefault("resolver.accept", resolve.DefaultAccept)
	viper.SetDefault("resolver.timeout", 30*time.Second)
	viper.SetDefault("resolver.user_agent", defaultUserAgent)
	viper.SetDefault("abbrev.timeout", 60*time.Second)
	viper.SetDefault("abbrev.user_agent", defaultUserAgent)
	viper.SetDefault("abbrev.data_dir", abbrev.DefaultDataDir())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("resolver.timeout"),
				UserAgent: viper.GetString("resolver.user_agent"),
			},
			BaseURL: viper.GetString("resolver.base_url"),
			Accept:  viper.GetString("resolver.accept"),
		},
		Abbrev: types.AbbrevConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("abbrev.timeout"),
				UserAgent: viper.GetString("abbrev.user_agent"),
			},
			SourceURL: viper.GetString("abbrev.source_url"),
			UpdatedOn: viper.GetString("abbrev.updated_on"),
			DataDir:   viper.GetString("abbrev.data_dir"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
