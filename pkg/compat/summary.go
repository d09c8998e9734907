package compat

import (
	"time"

	"github.com/leapstack-labs/tikey/pkg/rule"
)

// Summary holds run-wide counters. The zero value is the identity of Add.
type Summary struct {
	FileCount int           `json:"file_count" yaml:"file_count"`
	SQLCount  int           `json:"sql_count" yaml:"sql_count"`
	Errors    int           `json:"errors" yaml:"errors"`
	Warnings  int           `json:"warnings" yaml:"warnings"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Add returns the pointwise sum of s and other.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		FileCount: s.FileCount + other.FileCount,
		SQLCount:  s.SQLCount + other.SQLCount,
		Errors:    s.Errors + other.Errors,
		Warnings:  s.Warnings + other.Warnings,
		Elapsed:   s.Elapsed + other.Elapsed,
	}
}

// Findings returns Errors + Warnings.
func (s Summary) Findings() int {
	return s.Errors + s.Warnings
}

// OnceInfo is the findings of one statement.
type OnceInfo struct {
	SQL      string      `json:"sql" yaml:"sql"`
	Findings []rule.Info `json:"findings" yaml:"findings"`
	File     string      `json:"file,omitempty" yaml:"file,omitempty"`
}
