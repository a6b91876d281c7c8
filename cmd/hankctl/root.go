// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hankhq/hank-pdk-go/internal/xdg"
)

// defaultConfigName is looked up in the XDG config directory when --config
// is not given.
const defaultConfigName = "hankctl.yaml"

// NewRootCmd creates the root command for the hankctl CLI.
func NewRootCmd() *cobra.Command {
	var configFile string
	cfg := defaultConfig()

	cmd := &cobra.Command{
		Use:   "hankctl",
		Short: "hankctl - tooling for Hank plugin authors",
		Long: `hankctl validates plugin manifests, prints the metadata a plugin
reports to the Hank host, and inspects built plugins.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path := configFile
			if path == "" {
				path = xdg.FindConfig(defaultConfigName)
			}
			loaded, err := loadConfig(path, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded

			logger, err := cfg.logger()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/hank/hankctl.yaml)")
	flags.String("log-format", cfg.LogFormat, `log format ("json" or "text")`)
	flags.String("log-level", cfg.LogLevel, "minimum log level")
	flags.StringP("output", "o", cfg.Output, `output format ("json" or "yaml")`)

	current := func() config { return cfg }
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewMetadataCmd(current))
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewHostsCmd())
	cmd.AddCommand(NewInspectCmd(current))

	return cmd
}
