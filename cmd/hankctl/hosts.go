// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hankhq/hank-pdk-go/pkg/metadata"
)

// NewHostsCmd creates the hosts subcommand.
func NewHostsCmd() *cobra.Command {
	var manifest string
	cmd := &cobra.Command{
		Use:   "hosts HOST...",
		Short: "Check which hosts a plugin may reach over HTTP",
		Long: `Matches each host against the manifest's allowed-hosts patterns.
Exits non-zero if any host is denied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMetadata(manifest)
			if err != nil {
				return err
			}
			meta, err := m.Metadata()
			if err != nil {
				return err
			}

			var denied int
			for _, host := range args {
				verdict := "allowed"
				if !metadata.AllowsHost(meta, host) {
					verdict = "denied"
					denied++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", host, verdict)
			}
			if denied > 0 {
				return oops.Code("HOST_DENIED").Errorf("%d of %d hosts denied", denied, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "plugin.yaml", "plugin manifest")
	return cmd
}
