// Package compat checks MySQL sources for TiDB compatibility.
//
// A Checker parses input with the recovering dialect, serializes each
// statement and walks it against the rule registry. Results are a per-run
// Summary plus one OnceInfo per statement that produced findings.
//
// # Usage
//
//	c, err := compat.New(compat.WithLogger(logger))
//	summary, infos, err := c.CheckFiles(ctx, paths)
package compat

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/checker"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/parser"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/rule/rules"

	// registers the mysql and generic dialects
	_ "github.com/leapstack-labs/tikey/pkg/dialects/mysql"
)

// DefaultDialect is the dialect used when none is configured.
const DefaultDialect = "mysql"

// ErrEmptyInput is returned by CheckFiles for an empty file set.
var ErrEmptyInput = errors.New("empty input: no files to check")

// Checker checks SQL text, files and file sets. It is safe for concurrent use.
type Checker struct {
	registry *rule.Registry
	checker  *checker.Checker
	dialect  dialect.Dialect
	logger   *slog.Logger
	jobs     int
}

// Option configures a Checker.
type Option func(*options)

type options struct {
	registry *rule.Registry
	dialect  string
	logger   *slog.Logger
	jobs     int
}

// WithRegistry sets the rule registry. The built-in catalog is used otherwise.
func WithRegistry(reg *rule.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithDialect selects a registered dialect by name.
func WithDialect(name string) Option {
	return func(o *options) { o.dialect = name }
}

// WithLogger sets the logger for per-file events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithJobs bounds how many files CheckFiles reads and checks at once.
// Values below one mean GOMAXPROCS.
func WithJobs(n int) Option {
	return func(o *options) { o.jobs = n }
}

// New creates a Checker.
func New(opts ...Option) (*Checker, error) {
	o := options{dialect: DefaultDialect}
	for _, opt := range opts {
		opt(&o)
	}

	if o.dialect == "" {
		return nil, dialect.ErrDialectRequired
	}
	d, err := dialect.Lookup(o.dialect)
	if err != nil {
		return nil, err
	}
	if o.registry == nil {
		o.registry = rules.DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.jobs < 1 {
		o.jobs = runtime.GOMAXPROCS(0)
	}

	return &Checker{
		registry: o.registry,
		checker:  checker.New(o.registry),
		dialect:  d,
		logger:   o.logger,
		jobs:     o.jobs,
	}, nil
}

// Registry returns the rule registry in use.
func (c *Checker) Registry() *rule.Registry {
	return c.registry
}

// Dialect returns the dialect in use.
func (c *Checker) Dialect() dialect.Dialect {
	return c.dialect
}

// Lower normalizes input the way the checker does before parsing. Rule
// literals and predicates are written against lowercase text.
func Lower(sql string) string {
	return cases.Lower(language.Und).String(sql)
}

// Parse lowercases sql and parses it with the checker's dialect.
func (c *Checker) Parse(sql string) ([]ast.Statement, error) {
	return parser.Parse(Lower(sql), c.dialect)
}

// CheckStatements checks every statement of sql. Any unrecoverable parse
// error fails the whole call.
func (c *Checker) CheckStatements(sql string) (Summary, []OnceInfo, error) {
	start := time.Now()

	stmts, err := c.Parse(sql)
	if err != nil {
		return Summary{}, nil, err
	}

	var infos []OnceInfo
	for i, stmt := range stmts {
		findings, err := c.checker.CheckStatement(stmt)
		if err != nil {
			return Summary{}, nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		if len(findings) == 0 {
			continue
		}
		infos = append(infos, OnceInfo{SQL: ast.SQL(stmt), Findings: findings})
	}

	summary := Summary{SQLCount: len(stmts)}
	summary.Errors, summary.Warnings = countFindings(infos)
	summary.Elapsed = time.Since(start)
	return summary, infos, nil
}

func countFindings(infos []OnceInfo) (errs, warnings int) {
	for _, info := range infos {
		for _, f := range info.Findings {
			switch f.Severity {
			case rule.SeverityError:
				errs++
			case rule.SeverityWarning:
				warnings++
			}
		}
	}
	return errs, warnings
}
