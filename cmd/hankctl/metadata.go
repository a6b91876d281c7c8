// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"encoding/json"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// NewMetadataCmd creates the metadata subcommand.
func NewMetadataCmd(cfg func() config) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata [plugin.yaml]",
		Short: "Print the metadata a manifest describes",
		Long: `Prints the metadata the plugin will report from get_metadata, in the
host's wire form. Defaults to ./plugin.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "plugin.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			m, err := loadMetadata(path)
			if err != nil {
				return err
			}
			meta, err := m.Metadata()
			if err != nil {
				return err
			}
			return writeMetadata(cmd.OutOrStdout(), cfg().Output, meta)
		},
	}
}

func writeMetadata(w io.Writer, format string, meta wire.Metadata) error {
	if format == outputYAML {
		// Go through JSON so the YAML keys match the wire names.
		raw, err := wire.JSON.Marshal(meta)
		if err != nil {
			return oops.Wrapf(err, "encoding metadata")
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return oops.Wrapf(err, "encoding metadata")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return oops.Wrapf(err, "writing metadata")
		}
		return oops.Wrap(enc.Close())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return oops.Wrapf(err, "writing metadata")
	}
	return nil
}
