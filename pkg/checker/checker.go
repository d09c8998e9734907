// Package checker walks statement trees and collects the findings of the
// rules that fire on them.
package checker

import (
	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

// Checker matches trees against a registry. It holds no mutable state and
// is safe for concurrent use.
type Checker struct {
	registry *rule.Registry
}

// New returns a checker over reg.
func New(reg *rule.Registry) *Checker {
	return &Checker{registry: reg}
}

// Registry returns the registry the checker matches against.
func (c *Checker) Registry() *rule.Registry {
	return c.registry
}

// Check visits v depth first, pre-order, and returns the findings in
// document order. String leaves are matched against literal rules; every
// object member is matched against key rules with its value before the
// value itself is visited.
func (c *Checker) Check(v tree.Value) []rule.Info {
	var out []rule.Info
	c.walk(v, &out)
	return out
}

func (c *Checker) walk(v tree.Value, out *[]rule.Info) {
	switch v.Kind() {
	case tree.KindString:
		*out = append(*out, c.registry.MatchLiteral(v)...)
	case tree.KindArray:
		for _, item := range v.Items() {
			c.walk(item, out)
		}
	case tree.KindObject:
		for _, m := range v.Members() {
			*out = append(*out, c.registry.MatchKey(m.Key, m.Value)...)
			c.walk(m.Value, out)
		}
	}
}

// CheckStatement serializes stmt and checks its tree.
func (c *Checker) CheckStatement(stmt ast.Statement) ([]rule.Info, error) {
	v, err := ast.ToTree(stmt)
	if err != nil {
		return nil, err
	}
	return c.Check(v), nil
}
