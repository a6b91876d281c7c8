// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package accessrule parses and formats the text form of access-check
// chains used in plugin manifests:
//
//	role:123456 or user:789
//	role:admins and role:moderators
//
// A rule is one or more role/user checks joined by a single operator.
// Keywords are case-insensitive.
package accessrule

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/oops"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Error codes.
const (
	CodeInvalidRule    = "ACCESS_RULE_INVALID"
	CodeMixedOperators = "ACCESS_RULE_MIXED_OPERATORS"
)

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[A-Za-z0-9_\-]+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Grammar: term { ("and" | "or") term }
type rule struct {
	Pos   lexer.Position `parser:""`
	First *term          `parser:"@@"`
	Rest  []*tail        `parser:"@@*"`
}

type tail struct {
	Pos  lexer.Position `parser:""`
	Op   string         `parser:"@('and' | 'or')"`
	Term *term          `parser:"@@"`
}

// term matches: ("role" | "user") ":" value
type term struct {
	Pos   lexer.Position `parser:""`
	Kind  string         `parser:"@('role' | 'user') Colon"`
	Value string         `parser:"@Word"`
}

var parser = participle.MustBuild[rule](
	participle.Lexer(ruleLexer),
	participle.CaseInsensitive("Word"),
	participle.UseLookahead(2),
)

// Parse turns a rule into an access-check chain. A blank rule means no
// checks and yields nil. A single check yields an "or" chain of one, the
// same shape metadata.Check produces.
func Parse(text string) (*wire.AccessCheckChain, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	r, err := parser.ParseString("", text)
	if err != nil {
		return nil, oops.Code(CodeInvalidRule).With("rule", text).Wrapf(err, "parsing access rule")
	}

	chain := &wire.AccessCheckChain{
		Operator: wire.AccessCheckOperatorOr,
		Checks:   []wire.AccessCheck{r.First.check()},
	}
	for i, t := range r.Rest {
		op := parseOperator(t.Op)
		if i == 0 {
			chain.Operator = op
		} else if op != chain.Operator {
			return nil, oops.Code(CodeMixedOperators).
				With("rule", text).
				With("column", t.Pos.Column).
				Errorf("access rule mixes %q and %q; a chain uses one operator", chain.Operator, op)
		}
		chain.Checks = append(chain.Checks, t.Term.check())
	}
	return chain, nil
}

// MustParse is like Parse but panics on error. For rules fixed at compile
// time.
func MustParse(text string) *wire.AccessCheckChain {
	chain, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("accessrule: %v", err))
	}
	return chain
}

// Format renders chain in the form Parse accepts. A nil or empty chain
// formats as "".
func Format(chain *wire.AccessCheckChain) string {
	if chain == nil || len(chain.Checks) == 0 {
		return ""
	}
	sep := " " + chain.Operator.String() + " "
	parts := make([]string, len(chain.Checks))
	for i, c := range chain.Checks {
		parts[i] = c.Kind.String() + ":" + c.Value
	}
	return strings.Join(parts, sep)
}

func (t *term) check() wire.AccessCheck {
	kind := wire.AccessCheckUserID
	if strings.EqualFold(t.Kind, "role") {
		kind = wire.AccessCheckRoleID
	}
	return wire.AccessCheck{Kind: kind, Value: t.Value}
}

func parseOperator(s string) wire.AccessCheckOperator {
	if strings.EqualFold(s, "and") {
		return wire.AccessCheckOperatorAnd
	}
	return wire.AccessCheckOperatorOr
}
