// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata

import (
	"bytes"
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/hankhq/hank-pdk-go/pkg/metadata/accessrule"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Manifest represents a plugin.yaml file.
type Manifest struct {
	Name                string         `yaml:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version             string         `yaml:"version" jsonschema:"minLength=1"`
	Description         string         `yaml:"description,omitempty"`
	Author              string         `yaml:"author,omitempty"`
	Access              string         `yaml:"access,omitempty" jsonschema:"description=Access rule such as 'role:123 or user:456'"`
	EscalationKey       string         `yaml:"escalation-key,omitempty"`
	EscalatedPrivileges []string       `yaml:"escalated-privileges,omitempty" jsonschema:"uniqueItems=true"`
	HandlesMessages     bool           `yaml:"handles-messages,omitempty"`
	Command             *CommandConfig `yaml:"command,omitempty"`
	AllowedHosts        []string       `yaml:"allowed-hosts,omitempty"`
	PoolSize            int32          `yaml:"pool-size,omitempty" jsonschema:"minimum=1"`
}

// CommandConfig declares the chat command a plugin handles. Its presence
// sets handles_commands.
type CommandConfig struct {
	Name        string             `yaml:"name,omitempty"`
	Aliases     []string           `yaml:"aliases,omitempty"`
	Arguments   []ArgumentConfig   `yaml:"arguments,omitempty"`
	Subcommands []SubcommandConfig `yaml:"subcommands,omitempty"`
}

// SubcommandConfig declares one subcommand.
type SubcommandConfig struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Aliases     []string         `yaml:"aliases,omitempty"`
	Arguments   []ArgumentConfig `yaml:"arguments,omitempty"`
}

// ArgumentConfig declares one command argument.
type ArgumentConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}

// ParseManifest parses and validates a plugin.yaml file. Unknown keys are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, oops.Code(CodeManifestInvalid).Errorf("manifest data is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, oops.Code(CodeManifestInvalid).Wrapf(err, "invalid YAML")
	}

	if _, err := m.Metadata(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads path, checks it against the manifest schema and
// parses it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the plugin author
	if err != nil {
		return nil, oops.Code(CodeManifestInvalid).With("path", path).Wrapf(err, "reading manifest")
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return m, nil
}

// Metadata converts the manifest to wire form and validates the result.
func (m *Manifest) Metadata() (wire.Metadata, error) {
	chain, err := accessrule.Parse(m.Access)
	if err != nil {
		return wire.Metadata{}, oops.With("field", "access").Wrap(err)
	}

	var privileges []wire.EscalatedPrivilege
	for _, s := range m.EscalatedPrivileges {
		p, ok := wire.ParseEscalatedPrivilege(s)
		if !ok {
			return wire.Metadata{}, oops.Code(CodeMetadataInvalid).
				With("field", "escalated-privileges").
				With("privilege", s).
				Errorf("unknown escalated privilege %q", s)
		}
		privileges = append(privileges, p)
	}

	pm := PluginMetadata{
		Name:                m.Name,
		Description:         m.Description,
		Version:             m.Version,
		Author:              m.Author,
		EscalationKey:       m.EscalationKey,
		EscalatedPrivileges: privileges,
		HandlesMessages:     m.HandlesMessages,
		AllowedHosts:        m.AllowedHosts,
		PoolSize:            m.PoolSize,
	}
	if chain != nil {
		pm.AccessChecks = Chain(*chain)
	}
	if c := m.Command; c != nil {
		pm.HandlesCommands = true
		pm.CommandName = c.Name
		pm.Aliases = c.Aliases
		pm.Arguments = arguments(c.Arguments)
		for _, sc := range c.Subcommands {
			pm.Subcommands = append(pm.Subcommands, wire.Command{
				Name:        sc.Name,
				Description: sc.Description,
				Aliases:     sc.Aliases,
				Arguments:   arguments(sc.Arguments),
			})
		}
	}

	meta := pm.Build()
	if err := Validate(meta); err != nil {
		return wire.Metadata{}, err
	}
	return meta, nil
}

func arguments(in []ArgumentConfig) []wire.Argument {
	if len(in) == 0 {
		return nil
	}
	out := make([]wire.Argument, len(in))
	for i, a := range in {
		out[i] = wire.Argument{Name: a.Name, Description: a.Description, Required: a.Required}
	}
	return out
}
