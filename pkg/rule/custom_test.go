package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

func funcNode(name string) tree.Value {
	return tree.Object(
		tree.M("name", tree.Array(tree.Object(
			tree.M("value", tree.String(name)),
			tree.M("quote_style", tree.Null()),
		))),
		tree.M("args", tree.Array()),
	)
}

func TestCustomKeyWhen(t *testing.T) {
	r, err := rule.Custom{
		UID:         "c1",
		Key:         "Function",
		When:        `has(value, "name") && value.name[0].value == "benchmark"`,
		Severity:    "warning",
		Future:      "no plan",
		Description: "BENCHMARK is not meaningful on TiDB",
		URL:         "https://example.com/c1",
	}.Rule()
	require.NoError(t, err)

	assert.Equal(t, "custom", r.Group)
	assert.Equal(t, rule.KindKeyEqualJudge, r.Trigger.Kind)
	assert.Equal(t, rule.SeverityWarning, r.Info.Severity)
	assert.Equal(t, rule.NoPlan, r.Info.Future)
	assert.True(t, r.Trigger.Predicate(funcNode("benchmark")))
	assert.False(t, r.Trigger.Predicate(funcNode("now")))
	assert.False(t, r.Trigger.Predicate(tree.Null()), "evaluation errors do not match")
	assert.False(t, r.Trigger.Predicate(tree.String("benchmark")))
}

func TestCustomKeyOnlyAndLiterals(t *testing.T) {
	r, err := rule.Custom{UID: "c2", Key: "Savepoint", Description: "d"}.Rule()
	require.NoError(t, err)
	assert.Equal(t, rule.KindKeyEqual, r.Trigger.Kind)
	assert.Equal(t, rule.SeverityError, r.Info.Severity)

	r, err = rule.Custom{UID: "c3", Literals: []string{"MyISAM"}, Description: "d"}.Rule()
	require.NoError(t, err)
	assert.Equal(t, rule.KindStringElemEqual, r.Trigger.Kind)
	assert.Equal(t, []string{"myisam"}, r.Trigger.Literals)
}

func TestCustomInvalid(t *testing.T) {
	tests := []struct {
		name string
		c    rule.Custom
		msg  string
	}{
		{"no uid", rule.Custom{Key: "k", Description: "d"}, "uid is required"},
		{"no description", rule.Custom{UID: "c", Key: "k"}, "description is required"},
		{"neither", rule.Custom{UID: "c", Description: "d"}, "exactly one of key or literals"},
		{"both", rule.Custom{UID: "c", Key: "k", Literals: []string{"x"}, Description: "d"}, "exactly one of key or literals"},
		{"when without key", rule.Custom{UID: "c", Literals: []string{"x"}, When: "true", Description: "d"}, "when requires key"},
		{"bad severity", rule.Custom{UID: "c", Key: "k", Severity: "fatal", Description: "d"}, "invalid severity"},
		{"bad future", rule.Custom{UID: "c", Key: "k", Future: "soon", Description: "d"}, "invalid future plan"},
		{"bad expression", rule.Custom{UID: "c", Key: "k", When: "value ==", Description: "d"}, "when:"},
		{"not boolean", rule.Custom{UID: "c", Key: "k", When: `"text"`, Description: "d"}, "when:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Rule()
			require.ErrorIs(t, err, rule.ErrInvalidCustomRule)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
