// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankhq/hank-pdk-go/pkg/metadata"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

func TestBuild_Minimal(t *testing.T) {
	meta := metadata.PluginMetadata{Name: "echo", Version: "1.0.0"}.Build()

	assert.Equal(t, wire.Metadata{Name: "echo", Version: "1.0.0"}, meta)
	assert.Nil(t, meta.AccessChecks)
	assert.Nil(t, meta.EscalationKey)
	assert.Nil(t, meta.CommandName)
	assert.Nil(t, meta.PoolSize)
}

func TestBuild_AllFields(t *testing.T) {
	pm := metadata.PluginMetadata{
		Name:                "admin",
		Description:         "Manages plugins",
		Version:             "2.1.0",
		Author:              "hank",
		AccessChecks:        metadata.Checks(metadata.Role("1"), metadata.User("2")),
		EscalationKey:       "secret",
		EscalatedPrivileges: []wire.EscalatedPrivilege{wire.PrivilegeReloadPlugin},
		HandlesCommands:     true,
		CommandName:         "plugins",
		Aliases:             []string{"p"},
		Arguments:           []wire.Argument{{Name: "name", Required: true}},
		Subcommands:         []wire.Command{{Name: "reload", Aliases: []string{"r"}}},
		AllowedHosts:        []string{"*.example.com"},
		PoolSize:            4,
	}
	meta := pm.Build()

	require.NotNil(t, meta.AccessChecks)
	assert.Equal(t, wire.AccessCheckOperatorOr, meta.AccessChecks.Operator)
	assert.Len(t, meta.AccessChecks.Checks, 2)
	require.NotNil(t, meta.EscalationKey)
	assert.Equal(t, "secret", *meta.EscalationKey)
	require.NotNil(t, meta.CommandName)
	assert.Equal(t, "plugins", *meta.CommandName)
	require.NotNil(t, meta.PoolSize)
	assert.Equal(t, int32(4), *meta.PoolSize)
	assert.True(t, meta.HandlesCommands)
	assert.False(t, meta.HandlesMessages)
	assert.Equal(t, "hank", meta.Author)
	require.NoError(t, metadata.Validate(meta))

	// The result shares nothing with the builder.
	pm.Aliases[0] = "changed"
	pm.Subcommands[0].Aliases[0] = "changed"
	assert.Equal(t, "p", meta.Aliases[0])
	assert.Equal(t, "r", meta.Subcommands[0].Aliases[0])
}

func TestBuild_DatabaseAlwaysFalse(t *testing.T) {
	meta := metadata.PluginMetadata{Name: "notes", Version: "1.0.0"}.Build()
	assert.False(t, meta.Database)
}

func TestAccessChecks(t *testing.T) {
	c := metadata.Role("42")

	t.Run("single check equals a one-element Checks", func(t *testing.T) {
		single := metadata.PluginMetadata{AccessChecks: metadata.Check(c)}.Build()
		list := metadata.PluginMetadata{AccessChecks: metadata.Checks(c)}.Build()
		assert.Equal(t, list.AccessChecks, single.AccessChecks)
		assert.Equal(t, &wire.AccessCheckChain{
			Operator: wire.AccessCheckOperatorOr,
			Checks:   []wire.AccessCheck{c},
		}, single.AccessChecks)
	})

	t.Run("None yields no chain", func(t *testing.T) {
		meta := metadata.PluginMetadata{AccessChecks: metadata.None()}.Build()
		assert.Nil(t, meta.AccessChecks)
	})

	t.Run("Chain keeps its operator", func(t *testing.T) {
		chain := wire.AccessCheckChain{
			Operator: wire.AccessCheckOperatorAnd,
			Checks:   []wire.AccessCheck{c, metadata.User("7")},
		}
		meta := metadata.PluginMetadata{AccessChecks: metadata.Chain(chain)}.Build()
		assert.Equal(t, &chain, meta.AccessChecks)

		chain.Checks[0].Value = "changed"
		assert.Equal(t, "42", meta.AccessChecks.Checks[0].Value)
	})

	t.Run("Checks copies its arguments", func(t *testing.T) {
		checks := []wire.AccessCheck{c}
		ac := metadata.Checks(checks...)
		checks[0].Value = "changed"
		meta := metadata.PluginMetadata{AccessChecks: ac}.Build()
		assert.Equal(t, "42", meta.AccessChecks.Checks[0].Value)
	})
}
