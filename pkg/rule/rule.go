// Package rule defines compatibility rules and the registry that dispatches
// tree nodes to them.
//
// A rule pairs a finding template (Info) with a Trigger describing where in a
// statement's tree it fires. Rules are plain data; the built-in catalog lives
// in pkg/rule/rules and custom rules can be declared in configuration.
package rule

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/tree"
)

// Severity indicates how serious a finding is.
type Severity int

// Severity levels.
const (
	// SeverityError marks constructs TiDB rejects or runs differently.
	SeverityError Severity = iota
	// SeverityWarning marks statements the checker could not judge precisely.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses "error" or "warning", ignoring case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	default:
		return 0, fmt.Errorf("invalid severity %q (expected error or warning)", s)
	}
}

// Future is TiDB's plan for a construct.
type Future int

// Future plans.
const (
	WillSupport Future = iota
	NoPlan
)

func (f Future) String() string {
	if f == NoPlan {
		return "no plan to support"
	}
	return "will support"
}

// MarshalText implements encoding.TextMarshaler.
func (f Future) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFuture parses "will support" or "no plan", ignoring case and spacing.
func ParseFuture(s string) (Future, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	switch norm {
	case "", "will support", "willsupport":
		return WillSupport, nil
	case "no plan", "noplan", "no plan to support":
		return NoPlan, nil
	default:
		return 0, fmt.Errorf("invalid future plan %q (expected \"will support\" or \"no plan\")", s)
	}
}

// VersionBound is one end of a supported TiDB version range.
type VersionBound struct {
	version string // empty for Earliest and Latest
	latest  bool
}

// Earliest is the open lower bound.
func Earliest() VersionBound { return VersionBound{} }

// Latest is the open upper bound.
func Latest() VersionBound { return VersionBound{latest: true} }

// Version is a concrete release such as "7.5.0".
func Version(v string) VersionBound { return VersionBound{version: v} }

func (b VersionBound) String() string {
	switch {
	case b.version != "":
		return b.version
	case b.latest:
		return "latest"
	default:
		return "earliest"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b VersionBound) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// VersionRange is the span of TiDB versions a finding applies to.
type VersionRange struct {
	From VersionBound `json:"from" yaml:"from"`
	To   VersionBound `json:"to" yaml:"to"`
}

// AllVersions spans every TiDB release.
var AllVersions = VersionRange{From: Earliest(), To: Latest()}

func (r VersionRange) String() string {
	return r.From.String() + " - " + r.To.String()
}

// Info is the finding template of a rule. It is copied into every finding.
type Info struct {
	UID         string       `json:"uid" yaml:"uid"`
	Severity    Severity     `json:"severity" yaml:"severity"`
	Versions    VersionRange `json:"versions" yaml:"versions"`
	Future      Future       `json:"future" yaml:"future"`
	Description string       `json:"description" yaml:"description"`
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`
}

// Predicate decides whether a rule fires for a node's value. It must be pure.
type Predicate func(v tree.Value) bool

// TriggerKind selects the matching strategy of a Trigger.
type TriggerKind int

// Trigger kinds.
const (
	// KindKeyEqual fires on every object member with the key.
	KindKeyEqual TriggerKind = iota
	// KindKeyEqualJudge fires on members with the key whose value passes a predicate.
	KindKeyEqualJudge
	// KindStringElemEqual fires on string leaves found in a literal set.
	KindStringElemEqual
)

func (k TriggerKind) String() string {
	switch k {
	case KindKeyEqual:
		return "key"
	case KindKeyEqualJudge:
		return "key+predicate"
	case KindStringElemEqual:
		return "literal"
	default:
		return "unknown"
	}
}

// Trigger is a rule's activation condition.
type Trigger struct {
	Kind      TriggerKind
	Key       string
	Predicate Predicate
	Literals  []string
}

// KeyEqual fires for every occurrence of key.
func KeyEqual(key string) Trigger {
	return Trigger{Kind: KindKeyEqual, Key: key}
}

// KeyEqualJudge fires for occurrences of key whose value satisfies p.
func KeyEqualJudge(key string, p Predicate) Trigger {
	return Trigger{Kind: KindKeyEqualJudge, Key: key, Predicate: p}
}

// StringElemEqual fires for string leaves equal to one of literals.
func StringElemEqual(literals ...string) Trigger {
	return Trigger{Kind: KindStringElemEqual, Literals: literals}
}

// Rule is a registered compatibility rule.
type Rule struct {
	Info    Info
	Name    string // e.g. "function"
	Group   string // head, mid, special or custom
	Trigger Trigger

	// ConfigKeys lists the options Configure accepts.
	ConfigKeys []string
	// Configure rebuilds the trigger from rule options. Nil for rules
	// without options.
	Configure func(opts map[string]any) (Trigger, error)
}

// UID returns the rule's identifier.
func (r Rule) UID() string { return r.Info.UID }
