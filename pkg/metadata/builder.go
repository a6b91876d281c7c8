// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package metadata builds, loads and validates the metadata a Hank plugin
// reports from get_metadata.
//
// Metadata can be written in Go:
//
//	var meta = metadata.PluginMetadata{
//		Name:            "echo",
//		Description:     "Repeats what you say",
//		Version:         "1.0.0",
//		HandlesMessages: true,
//		AccessChecks:    metadata.Check(metadata.Role("1234")),
//	}.Build()
//
// or kept in a plugin.yaml manifest and loaded with LoadManifest.
package metadata

import (
	"slices"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// PluginMetadata is the author-facing form of wire.Metadata. Zero values
// mean "not set"; Build turns them into absent fields.
type PluginMetadata struct {
	Name                string
	Description         string
	Version             string
	Author              string
	AccessChecks        AccessChecks
	EscalationKey       string
	EscalatedPrivileges []wire.EscalatedPrivilege
	HandlesCommands     bool
	HandlesMessages     bool
	CommandName         string
	Aliases             []string
	Arguments           []wire.Argument
	Subcommands         []wire.Command
	AllowedHosts        []string
	PoolSize            int32
}

// Build produces the wire form. The deprecated database flag is always
// false: the host gives every plugin a database.
func (m PluginMetadata) Build() wire.Metadata {
	out := wire.Metadata{
		Name:                m.Name,
		Description:         m.Description,
		Version:             m.Version,
		Author:              m.Author,
		Database:            false,
		EscalatedPrivileges: slices.Clone(m.EscalatedPrivileges),
		HandlesCommands:     m.HandlesCommands,
		HandlesMessages:     m.HandlesMessages,
		Aliases:             slices.Clone(m.Aliases),
		Arguments:           slices.Clone(m.Arguments),
		Subcommands:         slices.Clone(m.Subcommands),
		AllowedHosts:        slices.Clone(m.AllowedHosts),
	}
	if m.AccessChecks != nil {
		out.AccessChecks = m.AccessChecks.chain()
	}
	if m.EscalationKey != "" {
		key := m.EscalationKey
		out.EscalationKey = &key
	}
	if m.CommandName != "" {
		name := m.CommandName
		out.CommandName = &name
	}
	if m.PoolSize != 0 {
		size := m.PoolSize
		out.PoolSize = &size
	}
	// Clone deep-copies subcommand trees.
	return out.Clone()
}
