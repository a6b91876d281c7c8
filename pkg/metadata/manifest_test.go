// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankhq/hank-pdk-go/pkg/errutil"
	"github.com/hankhq/hank-pdk-go/pkg/metadata"
	"github.com/hankhq/hank-pdk-go/pkg/metadata/accessrule"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

const fullManifest = `
name: remind
version: 1.2.0
description: Reminds the channel
author: hank
access: role:100 or user:200
escalation-key: s3cret
escalated-privileges:
  - reload_plugin
handles-messages: true
command:
  name: remind
  aliases: [r]
  arguments:
    - name: text
      required: true
  subcommands:
    - name: list
      description: Lists reminders
allowed-hosts:
  - api.example.com
pool-size: 2
`

func TestParseManifest_Full(t *testing.T) {
	m, err := metadata.ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	meta, err := m.Metadata()
	require.NoError(t, err)

	key, cmd, pool := "s3cret", "remind", int32(2)
	assert.Equal(t, wire.Metadata{
		Name:        "remind",
		Description: "Reminds the channel",
		Version:     "1.2.0",
		Author:      "hank",
		AccessChecks: &wire.AccessCheckChain{
			Operator: wire.AccessCheckOperatorOr,
			Checks:   []wire.AccessCheck{metadata.Role("100"), metadata.User("200")},
		},
		EscalationKey:       &key,
		EscalatedPrivileges: []wire.EscalatedPrivilege{wire.PrivilegeReloadPlugin},
		HandlesCommands:     true,
		HandlesMessages:     true,
		CommandName:         &cmd,
		Aliases:             []string{"r"},
		Arguments:           []wire.Argument{{Name: "text", Required: true}},
		Subcommands:         []wire.Command{{Name: "list", Description: "Lists reminders"}},
		AllowedHosts:        []string{"api.example.com"},
		PoolSize:            &pool,
	}, meta)
}

func TestParseManifest_Minimal(t *testing.T) {
	m, err := metadata.ParseManifest([]byte("name: echo\nversion: 1.0.0\n"))
	require.NoError(t, err)

	meta, err := m.Metadata()
	require.NoError(t, err)
	assert.Equal(t, wire.Metadata{Name: "echo", Version: "1.0.0"}, meta)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{name: "empty", yaml: "  \n\t", code: metadata.CodeManifestInvalid},
		{name: "not yaml", yaml: "name: [", code: metadata.CodeManifestInvalid},
		{name: "unknown key", yaml: "name: echo\nversion: 1.0.0\ntype: lua\n", code: metadata.CodeManifestInvalid},
		{name: "bad version", yaml: "name: echo\nversion: latest\n", code: metadata.CodeMetadataInvalid},
		{name: "bad access rule", yaml: "name: echo\nversion: 1.0.0\naccess: group:1\n", code: accessrule.CodeInvalidRule},
		{name: "unknown privilege", yaml: "name: echo\nversion: 1.0.0\nescalation-key: k\nescalated-privileges: [root]\n", code: metadata.CodeMetadataInvalid},
		{name: "privilege without key", yaml: "name: echo\nversion: 1.0.0\nescalated-privileges: [load_plugin]\n", code: metadata.CodeMetadataInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "plugin.yaml")
	require.NoError(t, os.WriteFile(good, []byte(fullManifest), 0o600))
	m, err := metadata.LoadManifest(good)
	require.NoError(t, err)
	assert.Equal(t, "remind", m.Name)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: Echo\nversion: 1.0.0\n"), 0o600))
	_, err = metadata.LoadManifest(bad)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, metadata.CodeSchemaInvalid)
	errutil.AssertErrorContext(t, err, "path", bad)

	_, err = metadata.LoadManifest(filepath.Join(dir, "missing.yaml"))
	errutil.AssertErrorCode(t, err, metadata.CodeManifestInvalid)
}

func TestGenerateSchema(t *testing.T) {
	data, err := metadata.GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, metadata.SchemaID, schema["$id"])
	assert.Equal(t, "Hank Plugin Manifest", schema["title"])
	assert.ElementsMatch(t, []any{"name", "version"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "escalation-key")
	assert.Contains(t, props, "allowed-hosts")
	assert.Contains(t, props, "command")
}

func TestValidateSchema(t *testing.T) {
	metadata.ResetSchemaCache()
	t.Cleanup(metadata.ResetSchemaCache)

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "full", yaml: fullManifest},
		{name: "minimal", yaml: "name: echo\nversion: 1.0.0\n"},
		{name: "missing version", yaml: "name: echo\n", wantErr: true},
		{name: "bad name", yaml: "name: -echo\nversion: 1.0.0\n", wantErr: true},
		{name: "unknown key", yaml: "name: echo\nversion: 1.0.0\nextra: 1\n", wantErr: true},
		{name: "zero pool", yaml: "name: echo\nversion: 1.0.0\npool-size: 0\n", wantErr: true},
		{name: "wrong type", yaml: "name: echo\nversion: 1.0.0\nhandles-messages: maybe\n", wantErr: true},
		{name: "empty", yaml: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := metadata.ValidateSchema([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.NotEmpty(t, metadata.FormatSchemaError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormatSchemaError(t *testing.T) {
	assert.Empty(t, metadata.FormatSchemaError(nil))
}
