// Package config loads tikey CLI configuration.
//
// Values are layered, lowest to highest: built-in defaults, a tikey.yaml,
// tikey.yml or tikey.toml file, TIKEY_ environment variables, then flags
// that were set explicitly.
package config

import (
	"time"

	"github.com/leapstack-labs/tikey/pkg/rule"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose bool        `koanf:"verbose"`
	Output  string      `koanf:"output"`
	Dialect string      `koanf:"dialect"`
	Jobs    int         `koanf:"jobs"`
	Out     string      `koanf:"out"` // report file; empty means stdout
	FailOn  string      `koanf:"fail_on"`
	Rules   RulesConfig `koanf:"rules"`
	Watch   WatchConfig `koanf:"watch"`
}

// RulesConfig tunes the rule catalog.
type RulesConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Options  map[string]map[string]any `koanf:"options"`
	Custom   []rule.Custom             `koanf:"custom"`
}

// WatchConfig holds options for check --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput     = "auto" // TTY=text, non-TTY=markdown
	DefaultDialect    = "mysql"
	DefaultReportFile = "report.txt"
	DefaultFailOn     = FailOnNone
	DefaultDebounce   = 200 * time.Millisecond
)

// Exit policies for fail_on.
const (
	FailOnNone    = "none"
	FailOnWarning = "warning"
	FailOnError   = "error"
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Output:  DefaultOutput,
		Dialect: DefaultDialect,
		FailOn:  DefaultFailOn,
		Watch:   WatchConfig{Debounce: DefaultDebounce},
	}
}
