package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/tikey/pkg/compat"
)

// valueWidth wraps long SQL and descriptions in finding tables.
const valueWidth = 60

// Report is the full result of one check run.
type Report struct {
	RunID    string         `json:"run_id" yaml:"run_id"`
	Summary  ReportSummary  `json:"summary" yaml:"summary"`
	Findings []FindingEntry `json:"findings" yaml:"findings"`
}

// ReportSummary is compat.Summary with a printable time cost.
type ReportSummary struct {
	FileCount int    `json:"file_count" yaml:"file_count"`
	SQLCount  int    `json:"sql_count" yaml:"sql_count"`
	Errors    int    `json:"errors" yaml:"errors"`
	Warnings  int    `json:"warnings" yaml:"warnings"`
	TimeCost  string `json:"time_cost" yaml:"time_cost"`
}

// FindingEntry is one finding flattened for presentation.
type FindingEntry struct {
	UID         string `json:"uid" yaml:"uid"`
	Level       string `json:"level" yaml:"level"`
	Versions    string `json:"tidb_version" yaml:"tidb_version"`
	Future      string `json:"future_plan" yaml:"future_plan"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	SQL         string `json:"sql" yaml:"sql"`
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
}

// NewReport flattens a run into a Report with a fresh run id.
func NewReport(summary compat.Summary, infos []compat.OnceInfo) Report {
	rep := Report{
		RunID: uuid.NewString(),
		Summary: ReportSummary{
			FileCount: summary.FileCount,
			SQLCount:  summary.SQLCount,
			Errors:    summary.Errors,
			Warnings:  summary.Warnings,
			TimeCost:  summary.Elapsed.Round(time.Microsecond).String(),
		},
		Findings: []FindingEntry{},
	}
	for _, info := range infos {
		for _, f := range info.Findings {
			rep.Findings = append(rep.Findings, FindingEntry{
				UID:         f.UID,
				Level:       f.Severity.String(),
				Versions:    f.Versions.String(),
				Future:      f.Future.String(),
				Description: f.Description,
				URL:         f.URL,
				SQL:         info.SQL,
				File:        info.File,
			})
		}
	}
	return rep
}

func summaryTable(s ReportSummary) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"File Count", "SQL Count", "Errors", "Warnings", "Time Cost"})
	t.AppendRow(table.Row{s.FileCount, s.SQLCount, s.Errors, s.Warnings, s.TimeCost})
	return t
}

func findingTable(f FindingEntry) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: valueWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	t.AppendRows([]table.Row{
		{"Error code", f.UID},
		{"Level", f.Level},
		{"TiDB version", f.Versions},
		{"Future plan", f.Future},
		{"Description", f.Description},
		{"URL", f.URL},
		{"SQL", f.SQL},
		{"File", f.File},
	})
	return t
}

// FormatSummary renders the summary table.
func FormatSummary(s ReportSummary) string {
	return summaryTable(s).Render()
}

// FormatFinding renders the table of one finding.
func FormatFinding(f FindingEntry) string {
	return findingTable(f).Render()
}

// WriteReport writes rep to w in the given mode. ModeAuto is treated as
// text.
func WriteReport(w io.Writer, mode Mode, rep Report) error {
	var b strings.Builder
	switch mode {
	case ModeJSON, ModeYAML:
		r := NewRendererWithTTY(w, io.Discard, false, mode)
		if mode == ModeJSON {
			return r.JSON(rep)
		}
		return r.YAML(rep)
	case ModeMarkdown:
		b.WriteString(FormatHeader(1, "Compatibility Report") + "\n\n")
		b.WriteString(FormatKeyValue("Run", rep.RunID) + "\n\n")
		b.WriteString(FormatHeader(2, "Summary") + "\n\n")
		b.WriteString(summaryTable(rep.Summary).RenderMarkdown() + "\n")
		if len(rep.Findings) > 0 {
			b.WriteString("\n" + FormatHeader(2, "Findings") + "\n")
		}
		for _, f := range rep.Findings {
			b.WriteString("\n" + findingTable(f).RenderMarkdown() + "\n")
		}
	default:
		b.WriteString(FormatSummary(rep.Summary) + "\n")
		for _, f := range rep.Findings {
			b.WriteString(FormatFinding(f) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Report writes rep in the renderer's effective mode.
func (r *Renderer) Report(rep Report) error {
	return WriteReport(r.out, r.EffectiveMode(), rep)
}
