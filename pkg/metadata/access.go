// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata

import (
	"slices"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// AccessChecks is the shorthand for a plugin's access-check chain. The
// constructors below are its only implementations.
type AccessChecks interface {
	chain() *wire.AccessCheckChain
}

type noChecks struct{}

func (noChecks) chain() *wire.AccessCheckChain { return nil }

type orChecks []wire.AccessCheck

func (c orChecks) chain() *wire.AccessCheckChain {
	return &wire.AccessCheckChain{
		Operator: wire.AccessCheckOperatorOr,
		Checks:   slices.Clone([]wire.AccessCheck(c)),
	}
}

type fullChain wire.AccessCheckChain

func (c fullChain) chain() *wire.AccessCheckChain {
	return &wire.AccessCheckChain{
		Operator: c.Operator,
		Checks:   slices.Clone(c.Checks),
	}
}

// None leaves the plugin open to everyone.
func None() AccessChecks { return noChecks{} }

// Checks passes when any of checks passes.
func Checks(checks ...wire.AccessCheck) AccessChecks { return orChecks(slices.Clone(checks)) }

// Check is Checks with a single check.
func Check(check wire.AccessCheck) AccessChecks { return orChecks{check} }

// Chain uses chain as given, including its operator.
func Chain(chain wire.AccessCheckChain) AccessChecks {
	return fullChain{Operator: chain.Operator, Checks: slices.Clone(chain.Checks)}
}

// Role matches members of the role with the given id.
func Role(id string) wire.AccessCheck {
	return wire.AccessCheck{Kind: wire.AccessCheckRoleID, Value: id}
}

// User matches the user with the given id.
func User(id string) wire.AccessCheck {
	return wire.AccessCheck{Kind: wire.AccessCheckUserID, Value: id}
}
