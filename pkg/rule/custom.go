package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/leapstack-labs/tikey/pkg/tree"
)

// Custom is a rule declared in configuration.
//
// A custom rule matches either an object key, optionally narrowed by the
// When expression, or a set of string literals. When is an expr-lang boolean
// expression evaluated with the member's value bound to `value`, e.g.
//
//	key: Function
//	when: has(value, "name") && value.name[0].value == "benchmark"
type Custom struct {
	UID         string   `koanf:"uid" mapstructure:"uid" json:"uid" yaml:"uid"`
	Key         string   `koanf:"key" mapstructure:"key" json:"key,omitempty" yaml:"key,omitempty"`
	When        string   `koanf:"when" mapstructure:"when" json:"when,omitempty" yaml:"when,omitempty"`
	Literals    []string `koanf:"literals" mapstructure:"literals" json:"literals,omitempty" yaml:"literals,omitempty"`
	Severity    string   `koanf:"severity" mapstructure:"severity" json:"severity,omitempty" yaml:"severity,omitempty"`
	Future      string   `koanf:"future" mapstructure:"future" json:"future,omitempty" yaml:"future,omitempty"`
	Description string   `koanf:"description" mapstructure:"description" json:"description" yaml:"description"`
	URL         string   `koanf:"url" mapstructure:"url" json:"url,omitempty" yaml:"url,omitempty"`
}

// ErrInvalidCustomRule wraps every custom rule configuration error.
var ErrInvalidCustomRule = errors.New("invalid custom rule")

// Rule validates c and compiles it into a Rule in the custom group.
func (c Custom) Rule() (Rule, error) {
	fail := func(format string, args ...any) (Rule, error) {
		return Rule{}, fmt.Errorf("%w %q: %s", ErrInvalidCustomRule, c.UID, fmt.Sprintf(format, args...))
	}

	if c.UID == "" {
		return fail("uid is required")
	}
	if c.Description == "" {
		return fail("description is required")
	}
	if (c.Key == "") == (len(c.Literals) == 0) {
		return fail("exactly one of key or literals is required")
	}
	if c.When != "" && c.Key == "" {
		return fail("when requires key")
	}

	sev := SeverityError
	if c.Severity != "" {
		s, err := ParseSeverity(c.Severity)
		if err != nil {
			return fail("%v", err)
		}
		sev = s
	}
	future, err := ParseFuture(c.Future)
	if err != nil {
		return fail("%v", err)
	}

	r := Rule{
		Info: Info{
			UID:         c.UID,
			Severity:    sev,
			Versions:    AllVersions,
			Future:      future,
			Description: c.Description,
			URL:         c.URL,
		},
		Name:  c.UID,
		Group: "custom",
	}

	switch {
	case len(c.Literals) > 0:
		lits := make([]string, len(c.Literals))
		for i, l := range c.Literals {
			lits[i] = strings.ToLower(l) // input is lowercased before parsing
		}
		r.Trigger = StringElemEqual(lits...)
	case c.When == "":
		r.Trigger = KeyEqual(c.Key)
	default:
		pred, err := CompilePredicate(c.When)
		if err != nil {
			return fail("when: %v", err)
		}
		r.Trigger = KeyEqualJudge(c.Key, pred)
	}
	return r, nil
}

// CompilePredicate compiles an expr-lang boolean expression into a
// Predicate. The node value is bound to `value` as plain Go data; the helper
// has(obj, key) reports whether an object has a member. Evaluation errors
// count as a non-match.
func CompilePredicate(expression string) (Predicate, error) {
	program, err := expr.Compile(expression,
		expr.Function("has", has),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, err
	}
	return programPredicate(program), nil
}

func programPredicate(program *vm.Program) Predicate {
	return func(v tree.Value) bool {
		out, err := expr.Run(program, map[string]any{"value": v.Interface()})
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}
}

func has(params ...any) (any, error) {
	if len(params) != 2 {
		return false, fmt.Errorf("has requires 2 parameters")
	}
	obj, ok := params[0].(map[string]any)
	if !ok {
		return false, nil
	}
	key, ok := params[1].(string)
	if !ok {
		return false, fmt.Errorf("has requires a string key")
	}
	_, found := obj[key]
	return found, nil
}
