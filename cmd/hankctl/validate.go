// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hankhq/hank-pdk-go/pkg/errutil"
	"github.com/hankhq/hank-pdk-go/pkg/metadata"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plugin.yaml...]",
		Short: "Validate plugin manifests",
		Long: `Checks each manifest against the plugin manifest schema and the rules
the Hank host applies when it loads a plugin. Defaults to ./plugin.yaml.
Exits with code 0 on success, non-zero on failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"plugin.yaml"}
			}
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, paths []string) error {
	var failed int
	for _, path := range paths {
		m, err := metadata.LoadManifest(path)
		if err != nil {
			failed++
			errutil.LogError(slog.Default(), "manifest invalid", err)
			cmd.PrintErrf("%s: %s\n", path, metadata.FormatSchemaError(err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s %s)\n", path, m.Name, m.Version)
	}

	if failed > 0 {
		return oops.Code(metadata.CodeManifestInvalid).
			Errorf("validation failed: %d of %d manifests invalid", failed, len(paths))
	}
	slog.Debug("all manifests valid", "count", len(paths))
	return nil
}

// loadMetadata reads a manifest and returns its wire metadata.
func loadMetadata(path string) (*metadata.Manifest, error) {
	m, err := metadata.LoadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
