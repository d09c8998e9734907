package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/tikey/pkg/compat"
	"github.com/leapstack-labs/tikey/pkg/rule"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty pipe", "", false, ModeMarkdown},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"explicit text on pipe", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRendererDetectsPipe(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRendererPlainOutput(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)

	r.Header(1, "Rules")
	r.Success("done")
	r.Muted("quiet")
	r.Warning("careful")
	r.Error("broken")

	assert.Equal(t, "Rules\n✓ done\nquiet\n", out.String())
	assert.Equal(t, "! careful\n✗ broken\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRendererMarkdownHeader(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, out, false, ModeMarkdown)
	r.Header(2, "Head")
	assert.Equal(t, "## Head\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "```sql\nselect 1\n```", FormatCodeBlock("sql", "select 1\n"))
	assert.Equal(t, "- **uid:** h1", FormatKeyValue("uid", "h1"))
}

func sampleRun() (compat.Summary, []compat.OnceInfo) {
	summary := compat.Summary{FileCount: 1, SQLCount: 2, Errors: 1, Warnings: 1, Elapsed: 1500 * time.Millisecond}
	infos := []compat.OnceInfo{{
		SQL:  "create procedure p ( ) select 1",
		File: "a.sql",
		Findings: []rule.Info{
			{UID: "h4", Severity: rule.SeverityError, Versions: rule.AllVersions, Future: rule.NoPlan, Description: "procedures"},
			{UID: "s1", Severity: rule.SeverityWarning, Versions: rule.AllVersions, Future: rule.NoPlan, Description: "unknown", URL: "https://example.com"},
		},
	}}
	return summary, infos
}

func TestNewReport(t *testing.T) {
	rep := NewReport(sampleRun())

	assert.Len(t, rep.RunID, 36)
	assert.Equal(t, ReportSummary{FileCount: 1, SQLCount: 2, Errors: 1, Warnings: 1, TimeCost: "1.5s"}, rep.Summary)
	require.Len(t, rep.Findings, 2)
	assert.Equal(t, FindingEntry{
		UID:         "h4",
		Level:       "error",
		Versions:    "earliest - latest",
		Future:      "no plan to support",
		Description: "procedures",
		SQL:         "create procedure p ( ) select 1",
		File:        "a.sql",
	}, rep.Findings[0])
	assert.Equal(t, "https://example.com", rep.Findings[1].URL)

	empty := NewReport(compat.Summary{}, nil)
	assert.NotNil(t, empty.Findings)
	assert.NotEqual(t, rep.RunID, empty.RunID)
}

func TestWriteReport(t *testing.T) {
	rep := NewReport(sampleRun())

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, ModeText, rep))
		out := buf.String()
		for _, want := range []string{"File Count", "Time Cost", "1.5s", "Error code", "h4", "TiDB version", "earliest - latest", "a.sql"} {
			assert.Contains(t, out, want)
		}
		assert.Contains(t, out, "│ File Count │ SQL Count │ Errors │ Warnings │ Time Cost │")
		assert.NotContains(t, out, "FILE COUNT")
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, ModeMarkdown, rep))
		out := buf.String()
		assert.Contains(t, out, "# Compatibility Report")
		assert.Contains(t, out, "## Findings")
		assert.Contains(t, out, "| Error code |")
		assert.Contains(t, out, "| File Count | SQL Count |")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, ModeJSON, rep))
		var got Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, rep, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, ModeYAML, rep))
		var got Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, rep, got)
		assert.Contains(t, buf.String(), "run_id: ")
	})
}
