package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/internal/cli/output"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/rule/rules"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := output.ParseMode(c.Output); err != nil {
		errs = append(errs, err)
	}
	if c.Dialect == "" {
		errs = append(errs, errors.New("dialect is required"))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	switch strings.ToLower(c.FailOn) {
	case FailOnNone, FailOnWarning, FailOnError:
	default:
		errs = append(errs, fmt.Errorf("fail_on must be none, warning or error, got %q", c.FailOn))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	for uid, sev := range c.Rules.Severity {
		if _, err := rule.ParseSeverity(sev); err != nil {
			errs = append(errs, fmt.Errorf("rules.severity.%s: %w", uid, err))
		}
	}
	return errors.Join(errs...)
}

// RuleConfig converts the rules section into a rule.Config.
func (c *Config) RuleConfig() (*rule.Config, error) {
	rc := rule.NewConfig()
	for _, uid := range c.Rules.Disabled {
		if uid = strings.TrimSpace(uid); uid != "" {
			rc.Disable(uid)
		}
	}
	for uid, s := range c.Rules.Severity {
		sev, err := rule.ParseSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("rules.severity.%s: %w", uid, err)
		}
		rc.SetSeverity(uid, sev)
	}
	for uid, opts := range c.Rules.Options {
		rc.SetOptions(uid, opts)
	}
	return rc, nil
}

// BuildRegistry builds the rule registry: the built-in catalog plus custom
// rules, with disabled rules, severity overrides and options applied.
func (c *Config) BuildRegistry() (*rule.Registry, error) {
	all := rules.Default()
	for _, custom := range c.Rules.Custom {
		r, err := custom.Rule()
		if err != nil {
			return nil, err
		}
		all = append(all, r)
	}

	rc, err := c.RuleConfig()
	if err != nil {
		return nil, err
	}
	configured, err := rule.Apply(all, rc)
	if err != nil {
		return nil, err
	}
	return rule.NewRegistry(configured...)
}
