// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doibib/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the doibib configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().String("path", "doibib.yaml", "where to write the config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configView mirrors types.Config with durations rendered as strings
// ("30s" instead of nanosecond integers).
type configView struct {
	Resolver struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
		BaseURL   string `yaml:"base_url"`
		Accept    string `yaml:"accept"`
	} `yaml:"resolver"`
	Abbrev struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
		SourceURL string `yaml:"source_url,omitempty"`
		UpdatedOn string `yaml:"updated_on,omitempty"`
		DataDir   string `yaml:"data_dir"`
	} `yaml:"abbrev"`
}

func newConfigView(cfg types.Config) configView {
	var v configView
	v.Resolver.Timeout = cfg.Resolver.Timeout.String()
	v.Resolver.UserAgent = cfg.Resolver.UserAgent
	v.Resolver.BaseURL = cfg.Resolver.BaseURL
	v.Resolver.Accept = cfg.Resolver.Accept
	v.Abbrev.Timeout = cfg.Abbrev.Timeout.String()
	v.Abbrev.UserAgent = cfg.Abbrev.UserAgent
	v.Abbrev.SourceURL = cfg.Abbrev.SourceURL
	v.Abbrev.UpdatedOn = cfg.Abbrev.UpdatedOn
	v.Abbrev.DataDir = cfg.Abbrev.DataDir
	return v
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(newConfigView(loadConfig()))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; remove it first", path)
	}

	data, err := yaml.Marshal(newConfigView(loadConfig()))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
