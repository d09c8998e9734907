package rule

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/tikey/pkg/tree"
)

var (
	// ErrDuplicateRule is returned by NewRegistry when two rules share a uid.
	ErrDuplicateRule = errors.New("duplicate rule uid")
	// ErrInvalidRule is returned for rules without a uid or with a malformed trigger.
	ErrInvalidRule = errors.New("invalid rule")
)

type keyEntry struct {
	pred Predicate // nil matches every value
	info Info
}

// Registry dispatches tree keys and string leaves to rules. It is immutable
// once built and safe for concurrent use.
type Registry struct {
	rules     []Rule
	byUID     map[string]int
	byKey     map[string][]keyEntry
	byLiteral map[string][]Info
}

// NewRegistry indexes rules in order. Registration order is the order in
// which rules matching the same node are reported.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{
		byUID:     make(map[string]int, len(rules)),
		byKey:     make(map[string][]keyEntry),
		byLiteral: make(map[string][]Info),
	}
	for _, rule := range rules {
		if err := r.register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(rule Rule) error {
	uid := rule.UID()
	if uid == "" {
		return fmt.Errorf("%w: missing uid", ErrInvalidRule)
	}
	if _, ok := r.byUID[uid]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, uid)
	}

	t := rule.Trigger
	switch t.Kind {
	case KindKeyEqual, KindKeyEqualJudge:
		if t.Key == "" {
			return fmt.Errorf("%w: %s: trigger has no key", ErrInvalidRule, uid)
		}
		if t.Kind == KindKeyEqualJudge && t.Predicate == nil {
			return fmt.Errorf("%w: %s: trigger has no predicate", ErrInvalidRule, uid)
		}
		pred := t.Predicate
		if t.Kind == KindKeyEqual {
			pred = nil
		}
		r.byKey[t.Key] = append(r.byKey[t.Key], keyEntry{pred: pred, info: rule.Info})
	case KindStringElemEqual:
		if len(t.Literals) == 0 {
			return fmt.Errorf("%w: %s: trigger has no literals", ErrInvalidRule, uid)
		}
		seen := make(map[string]bool, len(t.Literals))
		for _, lit := range t.Literals {
			if seen[lit] {
				continue
			}
			seen[lit] = true
			r.byLiteral[lit] = append(r.byLiteral[lit], rule.Info)
		}
	default:
		return fmt.Errorf("%w: %s: unknown trigger kind %d", ErrInvalidRule, uid, t.Kind)
	}

	r.byUID[uid] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// MatchKey returns the rules registered for key whose predicate accepts v.
func (r *Registry) MatchKey(key string, v tree.Value) []Info {
	entries := r.byKey[key]
	if len(entries) == 0 {
		return nil
	}
	var out []Info
	for _, e := range entries {
		if e.pred == nil || e.pred(v) {
			out = append(out, e.info)
		}
	}
	return out
}

// MatchLiteral returns the rules whose literal set contains v. Non-string
// values never match.
func (r *Registry) MatchLiteral(v tree.Value) []Info {
	s, ok := v.AsString()
	if !ok {
		return nil
	}
	infos := r.byLiteral[s]
	if len(infos) == 0 {
		return nil
	}
	return append([]Info(nil), infos...)
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup returns the rule with the given uid.
func (r *Registry) Lookup(uid string) (Rule, bool) {
	i, ok := r.byUID[uid]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
