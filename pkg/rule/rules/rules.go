// Package rules provides the built-in TiDB compatibility catalog.
//
// Rules fall into three groups, registered in this order:
//
//   - head: statements TiDB rejects outright (stored routines, triggers,
//     events, fulltext indexes, savepoints, XA)
//   - mid: constructs inside otherwise valid statements (foreign keys,
//     functions, spatial types, charsets, the sys schema, optimizer trace,
//     column privileges)
//   - special: statements the checker itself could not judge
package rules

import (
	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

// Default returns the built-in catalog in registration order.
func Default() []rule.Rule {
	out := make([]rule.Rule, 0, len(head)+len(mid)+len(special))
	out = append(out, head...)
	out = append(out, mid...)
	out = append(out, special...)
	return out
}

// DefaultRegistry builds a registry over Default.
func DefaultRegistry() *rule.Registry {
	reg, err := rule.NewRegistry(Default()...)
	if err != nil {
		panic("rules: invalid built-in catalog: " + err.Error())
	}
	return reg
}

// Group names.
const (
	GroupHead    = "head"
	GroupMid     = "mid"
	GroupSpecial = "special"
)

// synthetic fires on placeholder statements of category c.
func synthetic(c ast.Category) rule.Trigger {
	want := c.String()
	return rule.KeyEqualJudge("Synthetic", func(v tree.Value) bool {
		cat, ok := v.Get("category")
		if !ok {
			return false
		}
		s, ok := cat.AsString()
		return ok && s == want
	})
}

func errorInfo(uid string, future rule.Future, description, url string) rule.Info {
	return rule.Info{
		UID:         uid,
		Severity:    rule.SeverityError,
		Versions:    rule.AllVersions,
		Future:      future,
		Description: description,
		URL:         url,
	}
}

func warningInfo(uid, description string) rule.Info {
	return rule.Info{
		UID:         uid,
		Severity:    rule.SeverityWarning,
		Versions:    rule.AllVersions,
		Future:      rule.NoPlan,
		Description: description,
	}
}

var head = []rule.Rule{
	{
		Info:    errorInfo("h1", rule.NoPlan, "TiDB not supported functions", ""),
		Name:    "function",
		Group:   GroupHead,
		Trigger: synthetic(ast.CreateFunction),
	},
	{
		Info:    errorInfo("h2", rule.NoPlan, "TiDB not supported trigger", ""),
		Name:    "trigger",
		Group:   GroupHead,
		Trigger: synthetic(ast.CreateTrigger),
	},
	{
		Info:    errorInfo("h3", rule.NoPlan, "TiDB not supported events", ""),
		Name:    "event",
		Group:   GroupHead,
		Trigger: synthetic(ast.CreateEvent),
	},
	{
		Info:    errorInfo("h4", rule.NoPlan, "TiDB not supported procedure", ""),
		Name:    "procedure",
		Group:   GroupHead,
		Trigger: synthetic(ast.CreateProcedure),
	},
	{
		Info:    errorInfo("h5", rule.WillSupport, "TiDB not supported FULLTEXT index", "https://github.com/pingcap/tidb/issues/1793"),
		Name:    "fulltext",
		Group:   GroupHead,
		Trigger: synthetic(ast.CreateFullText),
	},
	{
		Info:    errorInfo("h6", rule.WillSupport, "TiDB not supported savepoint", "https://github.com/pingcap/tidb/issues/6840"),
		Name:    "savepoint",
		Group:   GroupHead,
		Trigger: rule.KeyEqual("Savepoint"),
	},
	{
		Info:    errorInfo("h7", rule.NoPlan, "TiDB not supported XA transactions", ""),
		Name:    "xa",
		Group:   GroupHead,
		Trigger: synthetic(ast.XA),
	},
}

var special = []rule.Rule{
	{
		Info:    warningInfo("s1", "Tikey is unable to parse this statement, please check it manually"),
		Name:    "unknown",
		Group:   GroupSpecial,
		Trigger: synthetic(ast.Unknown),
	},
	{
		Info: warningInfo("s2", "Tikey is unable to detect statements inside a DELIMITER block "+
			"(illegal in most cases, such as functions)! "+
			"If you want to check them precisely, please change to the undelimited version"),
		Name:    "delimiter",
		Group:   GroupSpecial,
		Trigger: synthetic(ast.Delimiter),
	},
	{
		Info:    warningInfo("s3", "Tikey parsed only part of this statement, please check it manually"),
		Name:    "end-early",
		Group:   GroupSpecial,
		Trigger: synthetic(ast.EndEarly),
	},
}
