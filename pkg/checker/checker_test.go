package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/checker"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

func info(uid string) rule.Info {
	return rule.Info{UID: uid, Versions: rule.AllVersions}
}

func uids(infos []rule.Info) []string {
	out := make([]string, len(infos))
	for i, in := range infos {
		out[i] = in.UID
	}
	return out
}

func registry(t *testing.T) *rule.Registry {
	t.Helper()
	reg, err := rule.NewRegistry(
		rule.Rule{Info: info("key"), Trigger: rule.KeyEqual("Function")},
		rule.Rule{Info: info("judge"), Trigger: rule.KeyEqualJudge("value", func(v tree.Value) bool {
			s, ok := v.AsString()
			return ok && s == "geometry"
		})},
		rule.Rule{Info: info("lit"), Trigger: rule.StringElemEqual("latin1", "geometry")},
	)
	require.NoError(t, err)
	return reg
}

func TestCheckOrder(t *testing.T) {
	c := checker.New(registry(t))

	v := tree.Object(
		tree.M("charset", tree.String("latin1")),
		tree.M("Function", tree.Object(
			tree.M("name", tree.Array(tree.Object(tree.M("value", tree.String("geometry"))))),
			tree.M("args", tree.Array(tree.String("latin1"), tree.Number(1), tree.Bool(true), tree.Null())),
		)),
	)

	// charset leaf, then the Function key, then inside it the value key
	// followed by its own leaf, then the args leaf.
	assert.Equal(t, []string{"lit", "key", "judge", "lit", "lit"}, uids(c.Check(v)))
}

func TestCheckScalarsAndEmpty(t *testing.T) {
	c := checker.New(registry(t))

	assert.Empty(t, c.Check(tree.Null()))
	assert.Empty(t, c.Check(tree.Number(3)))
	assert.Empty(t, c.Check(tree.Bool(false)))
	assert.Empty(t, c.Check(tree.Array()))
	assert.Equal(t, []string{"lit"}, uids(c.Check(tree.String("latin1"))))
	assert.Empty(t, c.Check(tree.Object(tree.M("latin1", tree.Null()))), "keys are not literal leaves")
}

func TestCheckDeterministic(t *testing.T) {
	c := checker.New(registry(t))
	v := tree.Array(
		tree.Object(tree.M("Function", tree.Null())),
		tree.Object(tree.M("value", tree.String("geometry"))),
	)
	first := c.Check(v)
	for range 10 {
		assert.Equal(t, first, c.Check(v))
	}
}

func TestCheckStatement(t *testing.T) {
	reg, err := rule.NewRegistry(rule.Rule{Info: info("s1"), Trigger: rule.KeyEqual("Synthetic")})
	require.NoError(t, err)
	c := checker.New(reg)
	assert.Same(t, reg, c.Registry())

	got, err := c.CheckStatement(ast.NewSynthetic(ast.Unknown, "frobnicate"))
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, uids(got))

	got, err = c.CheckStatement(&ast.NoopStmt{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = c.CheckStatement(nil)
	assert.ErrorIs(t, err, ast.ErrUnserializable)
}
