// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package wire

import "slices"

// AccessCheckKind identifies what an access check compares against.
type AccessCheckKind int32

// Access check kinds.
const (
	AccessCheckUnspecified AccessCheckKind = iota
	AccessCheckRoleID
	AccessCheckUserID
)

// String returns the textual form used in manifests and access rules.
func (k AccessCheckKind) String() string {
	switch k {
	case AccessCheckRoleID:
		return "role"
	case AccessCheckUserID:
		return "user"
	default:
		return "unknown"
	}
}

// AccessCheck gates plugin functionality on a role or user identity.
type AccessCheck struct {
	Kind  AccessCheckKind `json:"kind"`
	Value string          `json:"value"`
}

// AccessCheckOperator combines the checks of a chain.
type AccessCheckOperator int32

// Access check operators.
const (
	AccessCheckOperatorUnspecified AccessCheckOperator = iota
	AccessCheckOperatorAnd
	AccessCheckOperatorOr
)

// String returns "and", "or", or "unknown".
func (o AccessCheckOperator) String() string {
	switch o {
	case AccessCheckOperatorAnd:
		return "and"
	case AccessCheckOperatorOr:
		return "or"
	default:
		return "unknown"
	}
}

// AccessCheckChain is a list of checks joined by a single operator.
type AccessCheckChain struct {
	Operator AccessCheckOperator `json:"operator"`
	Checks   []AccessCheck       `json:"checks"`
}

// EscalatedPrivilege is a capability that must be requested in metadata and
// granted by the host's escalation key before the matching host call works.
type EscalatedPrivilege int32

// Escalated privileges.
const (
	PrivilegeUnspecified EscalatedPrivilege = iota
	PrivilegeReloadPlugin
	PrivilegeLoadPlugin
	PrivilegeUnloadPlugin
	PrivilegeInstruction
)

// String returns the manifest spelling of the privilege.
func (p EscalatedPrivilege) String() string {
	switch p {
	case PrivilegeReloadPlugin:
		return "reload_plugin"
	case PrivilegeLoadPlugin:
		return "load_plugin"
	case PrivilegeUnloadPlugin:
		return "unload_plugin"
	case PrivilegeInstruction:
		return "instruction"
	default:
		return "unspecified"
	}
}

// ParseEscalatedPrivilege is the inverse of EscalatedPrivilege.String.
func ParseEscalatedPrivilege(s string) (EscalatedPrivilege, bool) {
	for _, p := range []EscalatedPrivilege{PrivilegeReloadPlugin, PrivilegeLoadPlugin, PrivilegeUnloadPlugin, PrivilegeInstruction} {
		if p.String() == s {
			return p, true
		}
	}
	return PrivilegeUnspecified, false
}

// Argument describes a positional or named argument of a plugin command.
type Argument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Command describes a plugin command or subcommand.
type Command struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Aliases     []string   `json:"aliases,omitempty"`
	Arguments   []Argument `json:"arguments,omitempty"`
	Subcommands []Command  `json:"subcommands,omitempty"`
}

// Metadata is the descriptor a plugin reports to the host.
type Metadata struct {
	Name                string               `json:"name"`
	Description         string               `json:"description,omitempty"`
	Version             string               `json:"version"`
	Database            bool                 `json:"database,omitempty"` // deprecated: every plugin gets a database
	AccessChecks        *AccessCheckChain    `json:"access_checks,omitempty"`
	EscalationKey       *string              `json:"escalation_key,omitempty"`
	EscalatedPrivileges []EscalatedPrivilege `json:"escalated_privileges,omitempty"`
	Author              string               `json:"author,omitempty"`
	HandlesCommands     bool                 `json:"handles_commands,omitempty"`
	HandlesMessages     bool                 `json:"handles_messages,omitempty"`
	CommandName         *string              `json:"command_name,omitempty"`
	Aliases             []string             `json:"aliases,omitempty"`
	Arguments           []Argument           `json:"arguments,omitempty"`
	Subcommands         []Command            `json:"subcommands,omitempty"`
	AllowedHosts        []string             `json:"allowed_hosts,omitempty"`
	PoolSize            *int32               `json:"pool_size,omitempty"`
}

// Requests reports whether the metadata asks for the given privilege.
func (m *Metadata) Requests(p EscalatedPrivilege) bool {
	return slices.Contains(m.EscalatedPrivileges, p)
}

// Clone returns a deep copy so callers can never mutate the original.
func (m *Metadata) Clone() Metadata {
	out := *m
	if m.AccessChecks != nil {
		chain := AccessCheckChain{
			Operator: m.AccessChecks.Operator,
			Checks:   slices.Clone(m.AccessChecks.Checks),
		}
		out.AccessChecks = &chain
	}
	if m.EscalationKey != nil {
		key := *m.EscalationKey
		out.EscalationKey = &key
	}
	if m.CommandName != nil {
		name := *m.CommandName
		out.CommandName = &name
	}
	if m.PoolSize != nil {
		size := *m.PoolSize
		out.PoolSize = &size
	}
	out.EscalatedPrivileges = slices.Clone(m.EscalatedPrivileges)
	out.Aliases = slices.Clone(m.Aliases)
	out.Arguments = slices.Clone(m.Arguments)
	out.Subcommands = cloneCommands(m.Subcommands)
	out.AllowedHosts = slices.Clone(m.AllowedHosts)
	return out
}

func cloneCommands(cmds []Command) []Command {
	if cmds == nil {
		return nil
	}
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = Command{
			Name:        c.Name,
			Description: c.Description,
			Aliases:     slices.Clone(c.Aliases),
			Arguments:   slices.Clone(c.Arguments),
			Subcommands: cloneCommands(c.Subcommands),
		}
	}
	return out
}
