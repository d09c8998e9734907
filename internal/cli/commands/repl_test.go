package commands

import (
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/internal/cli/config"
)

type fakeReader struct {
	lines   []any // string or error
	prompts []string
}

func (f *fakeReader) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	next := f.lines[0]
	f.lines = f.lines[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func (f *fakeReader) SetPrompt(p string) { f.prompts = append(f.prompts, p) }

func TestReplLoop(t *testing.T) {
	tc := newTestContext(t, config.Default())
	rl := &fakeReader{lines: []any{
		"select 1;",
		"create procedure p()",
		"select 1;",
		"",
		"select (",
		readline.ErrInterrupt,
		".help",
		".bogus",
		"delimiter //",
		"create function f() returns int return 1 //",
		"delimiter ;",
	}}

	require.NoError(t, replLoop(rl, tc.CommandContext))

	out := tc.out.String()
	assert.Contains(t, out, "1 statement(s), no findings")
	assert.Contains(t, out, "h4")
	assert.Contains(t, out, "s2")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "Unknown command: .bogus")
	assert.Equal(t, []string{
		replPrompt,
		replContinuePrompt, replPrompt,
		replContinuePrompt, replPrompt,
		replContinuePrompt, replContinuePrompt, replPrompt,
	}, rl.prompts)
}

func TestReplLoopQuit(t *testing.T) {
	tc := newTestContext(t, config.Default())
	rl := &fakeReader{lines: []any{".quit", "savepoint a;"}}

	require.NoError(t, replLoop(rl, tc.CommandContext))
	assert.NotContains(t, tc.out.String(), "h6")
	assert.Len(t, rl.lines, 1)
}

func TestReplLoopReportsCheckErrors(t *testing.T) {
	tc := newTestContext(t, config.Default())
	rl := &fakeReader{lines: []any{"delimiter ;", "select 1;"}}

	require.NoError(t, replLoop(rl, tc.CommandContext))
	out := tc.out.String()
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "no findings")
}

func TestStatementComplete(t *testing.T) {
	tests := []struct {
		buffered, line string
		want           bool
	}{
		{"select 1;", "select 1;", true},
		{"select 1", "select 1", false},
		{"delimiter //\nbegin select 1;", "begin select 1;", false},
		{"DELIMITER //\nend //\nDELIMITER  ;", "DELIMITER  ;", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statementComplete(tt.buffered, tt.line), tt.buffered)
	}
}
