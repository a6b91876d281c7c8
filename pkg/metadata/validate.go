// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// Validate checks metadata constraints the host enforces when it loads a
// plugin. The first violation is returned with code METADATA_INVALID and
// the offending field in its context.
func Validate(m wire.Metadata) error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return invalid("name", "name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return invalid("name", "name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return invalid("version", "version is required")
	}
	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return oops.Code(CodeMetadataInvalid).With("field", "version").
			Wrapf(err, "version %q is not a semantic version", m.Version)
	}

	if err := validateAccessChecks(m.AccessChecks); err != nil {
		return err
	}
	if err := validatePrivileges(m); err != nil {
		return err
	}

	if m.CommandName != nil && strings.TrimSpace(*m.CommandName) == "" {
		return invalid("command_name", "command name is set but blank")
	}
	if err := validateCommand("", m.Aliases, m.Arguments, m.Subcommands); err != nil {
		return err
	}

	for i, pattern := range m.AllowedHosts {
		if pattern == "" {
			return invalid("allowed_hosts", "allowed host %d: empty pattern", i)
		}
		if _, err := glob.Compile(pattern, '.'); err != nil {
			return oops.Code(CodeMetadataInvalid).
				With("field", "allowed_hosts").
				With("pattern", pattern).
				Wrapf(err, "allowed host %d", i)
		}
	}

	if m.PoolSize != nil && *m.PoolSize < 1 {
		return invalid("pool_size", "pool size must be at least 1, got %d", *m.PoolSize)
	}
	return nil
}

// AllowsHost reports whether m lets the plugin make HTTP requests to host.
// Patterns are globs over dot-separated labels, so "*.example.com" matches
// "api.example.com" but not "a.b.example.com"; "**.example.com" matches
// both.
func AllowsHost(m wire.Metadata, host string) bool {
	host = strings.ToLower(host)
	for _, pattern := range m.AllowedHosts {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			continue
		}
		if g.Match(host) {
			return true
		}
	}
	return false
}

func validateAccessChecks(chain *wire.AccessCheckChain) error {
	if chain == nil {
		return nil
	}
	if chain.Operator != wire.AccessCheckOperatorAnd && chain.Operator != wire.AccessCheckOperatorOr {
		return invalid("access_checks", "access check chain has no operator")
	}
	for i, c := range chain.Checks {
		if c.Kind != wire.AccessCheckRoleID && c.Kind != wire.AccessCheckUserID {
			return invalid("access_checks", "access check %d has no kind", i)
		}
		if strings.TrimSpace(c.Value) == "" {
			return invalid("access_checks", "access check %d (%s) has no value", i, c.Kind)
		}
	}
	return nil
}

func validatePrivileges(m wire.Metadata) error {
	seen := make(map[wire.EscalatedPrivilege]bool, len(m.EscalatedPrivileges))
	for _, p := range m.EscalatedPrivileges {
		if p == wire.PrivilegeUnspecified {
			return invalid("escalated_privileges", "escalated privilege is unspecified")
		}
		if seen[p] {
			return invalid("escalated_privileges", "escalated privilege %s listed twice", p)
		}
		seen[p] = true
	}
	if len(m.EscalatedPrivileges) > 0 && (m.EscalationKey == nil || *m.EscalationKey == "") {
		return invalid("escalation_key", "escalated privileges require an escalation key")
	}
	return nil
}

func validateCommand(path string, aliases []string, args []wire.Argument, subs []wire.Command) error {
	if err := unique(path+"aliases", aliases); err != nil {
		return err
	}

	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	if err := unique(path+"arguments", names); err != nil {
		return err
	}

	names = make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	if err := unique(path+"subcommands", names); err != nil {
		return err
	}
	for _, s := range subs {
		if err := validateCommand(path+"subcommands."+s.Name+".", s.Aliases, s.Arguments, s.Subcommands); err != nil {
			return err
		}
	}
	return nil
}

func unique(field string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return invalid(field, "%s contains a blank name", field)
		}
		if seen[n] {
			return invalid(field, "%s contains %q twice", field, n)
		}
		seen[n] = true
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return oops.Code(CodeMetadataInvalid).With("field", field).Errorf(format, args...)
}
