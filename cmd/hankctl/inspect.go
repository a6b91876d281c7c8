// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hankhq/hank-pdk-go/pkg/metadata"
	"github.com/hankhq/hank-pdk-go/pkg/transport/goplugin"
)

// NewInspectCmd creates the inspect subcommand.
func NewInspectCmd(cfg func() config) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "inspect PLUGIN",
		Short: "Launch a native plugin and print its metadata",
		Long: `Starts a plugin built with the goplugin transport, calls get_metadata
and prints the result. The plugin gets no host, so only get_metadata is
called.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guest, kill, err := goplugin.Launch(args[0], nil)
			if err != nil {
				return err
			}
			defer kill()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			meta, err := guest.Metadata(ctx)
			if err != nil {
				return err
			}
			if err := metadata.Validate(meta); err != nil {
				slog.Warn("plugin reports invalid metadata", "error", err)
			}
			return writeMetadata(cmd.OutOrStdout(), cfg().Output, meta)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "time to wait for the plugin")
	return cmd
}
