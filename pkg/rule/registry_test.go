package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

func info(uid string) rule.Info {
	return rule.Info{UID: uid, Severity: rule.SeverityError, Versions: rule.AllVersions, Description: uid}
}

func uids(infos []rule.Info) []string {
	out := make([]string, len(infos))
	for i, in := range infos {
		out[i] = in.UID
	}
	return out
}

func isString(want string) rule.Predicate {
	return func(v tree.Value) bool {
		s, ok := v.AsString()
		return ok && s == want
	}
}

func TestRegistryMatchKey(t *testing.T) {
	reg, err := rule.NewRegistry(
		rule.Rule{Info: info("a"), Trigger: rule.KeyEqual("Savepoint")},
		rule.Rule{Info: info("b"), Trigger: rule.KeyEqualJudge("value", isString("geometry"))},
		rule.Rule{Info: info("c"), Trigger: rule.KeyEqualJudge("value", isString("optimizer_trace"))},
		rule.Rule{Info: info("d"), Trigger: rule.KeyEqual("value")},
	)
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   string
		value tree.Value
		want  []string
	}{
		{"key only", "Savepoint", tree.Null(), []string{"a"}},
		{"predicate passes", "value", tree.String("geometry"), []string{"b", "d"}},
		{"other predicate", "value", tree.String("optimizer_trace"), []string{"c", "d"}},
		{"predicate fails", "value", tree.String("int"), []string{"d"}},
		{"absent key", "name", tree.String("geometry"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uids(reg.MatchKey(tt.key, tt.value)))
		})
	}
}

func TestRegistryMatchLiteral(t *testing.T) {
	reg, err := rule.NewRegistry(
		rule.Rule{Info: info("m4"), Trigger: rule.StringElemEqual("latin1", "greek", "greek")},
		rule.Rule{Info: info("x"), Trigger: rule.StringElemEqual("latin1")},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"m4", "x"}, uids(reg.MatchLiteral(tree.String("latin1"))))
	assert.Equal(t, []string{"m4"}, uids(reg.MatchLiteral(tree.String("greek"))), "duplicate literals register once")
	assert.Empty(t, reg.MatchLiteral(tree.String("LATIN1")), "no case folding")
	assert.Empty(t, reg.MatchLiteral(tree.String("latin")), "no partial match")
	assert.Empty(t, reg.MatchLiteral(tree.Number(1)))
	assert.Empty(t, reg.MatchLiteral(tree.Array(tree.String("latin1"))))
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg, err := rule.NewRegistry(rule.Rule{Info: info("m4"), Trigger: rule.StringElemEqual("latin1")})
	require.NoError(t, err)

	got := reg.MatchLiteral(tree.String("latin1"))
	got[0].UID = "changed"
	assert.Equal(t, "m4", reg.MatchLiteral(tree.String("latin1"))[0].UID)
}

func TestRegistryLookup(t *testing.T) {
	reg, err := rule.NewRegistry(
		rule.Rule{Info: info("h1"), Name: "function", Trigger: rule.KeyEqual("Synthetic")},
		rule.Rule{Info: info("h6"), Name: "savepoint", Trigger: rule.KeyEqual("Savepoint")},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	r, ok := reg.Lookup("h6")
	require.True(t, ok)
	assert.Equal(t, "savepoint", r.Name)
	_, ok = reg.Lookup("zz")
	assert.False(t, ok)

	rules := reg.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "h1", rules[0].UID())
}

func TestRegistryRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []rule.Rule
		err   error
	}{
		{"missing uid", []rule.Rule{{Trigger: rule.KeyEqual("k")}}, rule.ErrInvalidRule},
		{"missing key", []rule.Rule{{Info: info("a"), Trigger: rule.KeyEqual("")}}, rule.ErrInvalidRule},
		{"missing predicate", []rule.Rule{{Info: info("a"), Trigger: rule.KeyEqualJudge("k", nil)}}, rule.ErrInvalidRule},
		{"missing literals", []rule.Rule{{Info: info("a"), Trigger: rule.StringElemEqual()}}, rule.ErrInvalidRule},
		{"duplicate", []rule.Rule{
			{Info: info("a"), Trigger: rule.KeyEqual("k")},
			{Info: info("a"), Trigger: rule.KeyEqual("j")},
		}, rule.ErrDuplicateRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rule.NewRegistry(tt.rules...)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestInfoStrings(t *testing.T) {
	assert.Equal(t, "error", rule.SeverityError.String())
	assert.Equal(t, "warning", rule.SeverityWarning.String())
	assert.Equal(t, "will support", rule.WillSupport.String())
	assert.Equal(t, "no plan to support", rule.NoPlan.String())
	assert.Equal(t, "earliest - latest", rule.AllVersions.String())
	assert.Equal(t, "earliest - 7.5.0", rule.VersionRange{From: rule.Earliest(), To: rule.Version("7.5.0")}.String())

	sev, err := rule.ParseSeverity(" Warning ")
	require.NoError(t, err)
	assert.Equal(t, rule.SeverityWarning, sev)
	_, err = rule.ParseSeverity("fatal")
	assert.Error(t, err)

	future, err := rule.ParseFuture("no_plan")
	require.NoError(t, err)
	assert.Equal(t, rule.NoPlan, future)
	_, err = rule.ParseFuture("someday")
	assert.Error(t, err)
}
