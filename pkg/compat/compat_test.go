package compat_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/internal/testutil"
	"github.com/leapstack-labs/tikey/pkg/compat"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/parser"
	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/rule/rules"
)

var (
	errorsFile    = filepath.Join("testdata", "scripts", "errors.sql")
	warningsFile  = filepath.Join("testdata", "scripts", "warnings.sql")
	savepointFile = filepath.Join("testdata", "scripts", "nested", "savepoint.sql")
)

func newChecker(t *testing.T, opts ...compat.Option) *compat.Checker {
	t.Helper()
	c, err := compat.New(opts...)
	require.NoError(t, err)
	return c
}

func uids(infos []compat.OnceInfo) [][]string {
	out := make([][]string, len(infos))
	for i, info := range infos {
		for _, f := range info.Findings {
			out[i] = append(out[i], f.UID)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	c := newChecker(t)
	assert.Equal(t, "mysql", c.Dialect().Name())
	assert.Equal(t, 17, c.Registry().Len())

	_, err := compat.New(compat.WithDialect("oracle"))
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)

	_, err = compat.New(compat.WithDialect(""))
	assert.ErrorIs(t, err, dialect.ErrDialectRequired)
}

func TestCheckStatements(t *testing.T) {
	c := newChecker(t)

	tests := []struct {
		name     string
		sql      string
		sqlCount int
		errors   int
		warnings int
		want     [][]string
	}{
		{"clean", "select 1; select a from t;", 2, 0, 0, [][]string{}},
		{"error", "savepoint a;", 1, 1, 0, [][]string{{"h6"}}},
		{"warning", "frobnicate;", 1, 0, 1, [][]string{{"s1"}}},
		{"uppercase input", "SELECT LOAD_FILE('x'), SOUNDEX(A) FROM T;", 1, 2, 0, [][]string{{"m2", "m2"}}},
		{"mixed", "xa start 'x'; select 1; create table t (a int) select 1;", 3, 1, 1, [][]string{{"h7"}, {"s3"}}},
		{"empty", "", 0, 0, 0, [][]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, infos, err := c.CheckStatements(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.sqlCount, summary.SQLCount)
			assert.Equal(t, tt.errors, summary.Errors)
			assert.Equal(t, tt.warnings, summary.Warnings)
			assert.Zero(t, summary.FileCount)
			assert.Equal(t, tt.want, uids(infos))
		})
	}
}

func TestCheckStatementsReportsText(t *testing.T) {
	c := newChecker(t)
	_, infos, err := c.CheckStatements("select 1;\nCREATE PROCEDURE p() SELECT 1;")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "create procedure p ( ) select 1", infos[0].SQL)
	assert.Empty(t, infos[0].File)
}

func TestCheckStatementsFatal(t *testing.T) {
	c := newChecker(t)
	_, infos, err := c.CheckStatements("select 1; create procedure p() begin select 1")
	assert.ErrorIs(t, err, parser.ErrUnexpectedEOF)
	assert.Nil(t, infos)
}

func TestCheckFile(t *testing.T) {
	c := newChecker(t)

	summary, infos, err := c.CheckFile(errorsFile)
	require.NoError(t, err)
	assert.Equal(t, compat.Summary{FileCount: 1, SQLCount: 4, Errors: 3, Elapsed: summary.Elapsed}, summary)
	assert.Equal(t, [][]string{{"h4"}, {"m1"}, {"m2"}}, uids(infos))
	for _, info := range infos {
		assert.Equal(t, errorsFile, info.File)
	}
	assert.Contains(t, infos[2].SQL, "load_file")

	summary, infos, err = c.CheckFile(warningsFile)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.SQLCount)
	assert.Equal(t, 2, summary.Warnings)
	assert.Equal(t, [][]string{{"s1"}, {"s3"}}, uids(infos))
	for _, info := range infos {
		assert.Equal(t, rule.SeverityWarning, info.Findings[0].Severity)
	}
}

func TestCheckStatementsConfiguredFunctions(t *testing.T) {
	cfg := rule.NewConfig().SetOptions("m2", map[string]any{"functions": []any{"BENCHMARK"}})
	configured, err := rule.Apply(rules.Default(), cfg)
	require.NoError(t, err)
	reg, err := rule.NewRegistry(configured...)
	require.NoError(t, err)
	c := newChecker(t, compat.WithRegistry(reg))

	summary, infos, err := c.CheckStatements("SELECT BENCHMARK(1, 1);")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, [][]string{{"m2"}}, uids(infos))
}

func TestCheckFileLogs(t *testing.T) {
	logger, rec := testutil.NewRecorder()
	c := newChecker(t, compat.WithLogger(logger))

	_, _, err := c.CheckFile(errorsFile)
	require.NoError(t, err)

	entries := rec.Messages("checked file")
	require.Len(t, entries, 1)
	assert.Equal(t, errorsFile, entries[0].Attrs["path"])
	assert.EqualValues(t, 4, entries[0].Attrs["statements"])
	assert.EqualValues(t, 3, entries[0].Attrs["findings"])
}

func TestCheckFileErrors(t *testing.T) {
	c := newChecker(t)

	_, _, err := c.CheckFile(filepath.Join("testdata", "missing.sql"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "at file: ")

	broken := filepath.Join(t.TempDir(), "broken.sql")
	require.NoError(t, os.WriteFile(broken, []byte("delimiter //\nselect 1;"), 0o600))
	_, _, err = c.CheckFile(broken)
	assert.ErrorIs(t, err, parser.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), broken)
}

func TestCheckFiles(t *testing.T) {
	c := newChecker(t, compat.WithJobs(2), compat.WithLogger(testutil.NewTestLogger(t)))
	paths := []string{errorsFile, warningsFile, savepointFile}

	summary, infos, err := c.CheckFiles(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.FileCount)
	assert.Equal(t, 8, summary.SQLCount)
	assert.Equal(t, 4, summary.Errors)
	assert.Equal(t, 2, summary.Warnings)
	assert.Equal(t, [][]string{{"h4"}, {"m1"}, {"m2"}, {"s1"}, {"s3"}, {"h6"}}, uids(infos))
	assert.Equal(t, savepointFile, infos[5].File)
}

func TestCheckFilesMatchesFold(t *testing.T) {
	c := newChecker(t)
	paths := []string{warningsFile, errorsFile, savepointFile}

	var want compat.Summary
	var wantInfos []compat.OnceInfo
	for _, p := range paths {
		s, infos, err := c.CheckFile(p)
		require.NoError(t, err)
		want = want.Add(s)
		wantInfos = append(wantInfos, infos...)
	}

	got, infos, err := c.CheckFiles(context.Background(), paths)
	require.NoError(t, err)
	want.Elapsed, got.Elapsed = 0, 0
	assert.Equal(t, want, got)
	assert.Equal(t, uids(wantInfos), uids(infos))
}

func TestCheckFilesIdempotent(t *testing.T) {
	c := newChecker(t)
	paths := []string{errorsFile, warningsFile}

	first, a, err := c.CheckFiles(context.Background(), paths)
	require.NoError(t, err)
	second, b, err := c.CheckFiles(context.Background(), paths)
	require.NoError(t, err)

	first.Elapsed, second.Elapsed = 0, 0
	assert.Equal(t, first, second)
	assert.Equal(t, a, b)
}

func TestCheckFilesErrors(t *testing.T) {
	c := newChecker(t)

	_, _, err := c.CheckFiles(context.Background(), nil)
	assert.ErrorIs(t, err, compat.ErrEmptyInput)

	_, infos, err := c.CheckFiles(context.Background(), []string{errorsFile, "testdata/none.sql"})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, infos)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = c.CheckFiles(ctx, []string{errorsFile})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckFilesReportsFirstFailureInOrder(t *testing.T) {
	dir := t.TempDir()
	slow := filepath.Join(dir, "a.sql")
	fast := filepath.Join(dir, "b.sql")
	var big strings.Builder
	for i := 0; i < 5000; i++ {
		big.WriteString("select a from t;\n")
	}
	big.WriteString("create procedure p() begin select 1")
	require.NoError(t, os.WriteFile(slow, []byte(big.String()), 0o600))
	require.NoError(t, os.WriteFile(fast, []byte("create procedure q() begin select 1"), 0o600))

	c := newChecker(t, compat.WithJobs(4))
	for range 10 {
		_, infos, err := c.CheckFiles(context.Background(), []string{errorsFile, slow, fast, filepath.Join(dir, "missing.sql")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), slow)
		assert.ErrorIs(t, err, parser.ErrUnexpectedEOF)
		assert.Nil(t, infos)
	}
}

func TestCollectSQLFiles(t *testing.T) {
	files, err := compat.CollectSQLFiles(filepath.Join("testdata", "scripts"))
	require.NoError(t, err)
	assert.Equal(t, []string{errorsFile, savepointFile, warningsFile}, files)

	single, err := compat.CollectSQLFiles(errorsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{errorsFile}, single)

	_, err = compat.CollectSQLFiles("testdata/absent")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSummaryAdd(t *testing.T) {
	a := compat.Summary{FileCount: 1, SQLCount: 4, Errors: 3, Warnings: 1, Elapsed: 5}
	b := compat.Summary{FileCount: 2, SQLCount: 1, Warnings: 2, Elapsed: 7}

	assert.Equal(t, a, a.Add(compat.Summary{}))
	assert.Equal(t, a, compat.Summary{}.Add(a))
	assert.Equal(t, a.Add(b), b.Add(a))
	assert.Equal(t, compat.Summary{FileCount: 3, SQLCount: 5, Errors: 3, Warnings: 3, Elapsed: 12}, a.Add(b))
	assert.Equal(t, 6, a.Add(b).Findings())
}
