package rule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRule is returned when configuration names a uid nobody registered.
var ErrUnknownRule = errors.New("unknown rule")

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule uids to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// Options holds rule-specific options keyed by uid
	Options map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		Options:           make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(uid string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[uid]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(uid string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[uid]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by uid.
func (c *Config) Disable(uid string) *Config {
	c.DisabledRules[uid] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(uid string, severity Severity) *Config {
	c.SeverityOverrides[uid] = severity
	return c
}

// SetOptions sets the options passed to a rule's Configure.
func (c *Config) SetOptions(uid string, opts map[string]any) *Config {
	c.Options[uid] = opts
	return c
}

// Apply returns rules with cfg applied: disabled rules are dropped,
// severities overridden and configurable rules rebuilt from their options.
// Every uid cfg mentions must belong to one of rules.
func Apply(rules []Rule, cfg *Config) ([]Rule, error) {
	if cfg == nil {
		return append([]Rule(nil), rules...), nil
	}

	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		known[r.UID()] = true
	}
	if err := checkKnown(known, cfg); err != nil {
		return nil, err
	}

	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		uid := r.UID()
		if cfg.IsDisabled(uid) {
			continue
		}
		r.Info.Severity = cfg.GetSeverity(uid, r.Info.Severity)

		if opts, ok := cfg.Options[uid]; ok && len(opts) > 0 {
			if r.Configure == nil {
				return nil, fmt.Errorf("rule %s takes no options", uid)
			}
			t, err := r.Configure(opts)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", uid, err)
			}
			r.Trigger = t
		}
		out = append(out, r)
	}
	return out, nil
}

func checkKnown(known map[string]bool, cfg *Config) error {
	var unknown []string
	add := func(uid string) {
		if !known[uid] {
			unknown = append(unknown, uid)
		}
	}
	for uid := range cfg.DisabledRules {
		add(uid)
	}
	for uid := range cfg.SeverityOverrides {
		add(uid)
	}
	for uid := range cfg.Options {
		add(uid)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %v", ErrUnknownRule, unknown)
}
