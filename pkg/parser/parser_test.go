package parser_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/parser"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func parseOne(t *testing.T, sql string) ast.Statement {
	t.Helper()
	stmts, err := parser.Parse(sql, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func parseSelect(t *testing.T, sql string) *ast.SelectCore {
	t.Helper()
	stmt, ok := parseOne(t, sql).(*ast.SelectStmt)
	require.True(t, ok, "expected *ast.SelectStmt")
	require.NotNil(t, stmt.Body)
	return stmt.Body
}

// ---------- Statement Loop ----------

func TestParseStatementsSplitsAndRecordsSource(t *testing.T) {
	stmts, err := parser.Parse("SELECT 1; ;\n  SELECT 2 ;", nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT 1", stmts[0].Source())
	assert.Equal(t, "SELECT 2", stmts[1].Source())
}

func TestParseStatementsEmptyInput(t *testing.T) {
	stmts, err := parser.Parse(" ;; -- nothing\n", nil)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestParseStatementsRequiresTerminator(t *testing.T) {
	_, err := parser.Parse("SELECT 1 2", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after end of statement")
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parser.Parse("SELECT 1;\nSELECT FROM t", nil)
	require.Error(t, err)

	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Pos.Line)
	assert.Equal(t, 8, pe.Pos.Column)
	assert.Equal(t, "FROM t", pe.Snippet)
	assert.Contains(t, err.Error(), "parse error at line 2, column 8")
}

func TestParseErrorSnippetKeepsRunes(t *testing.T) {
	wide := strings.Repeat("é", 30)
	tests := []struct {
		name   string
		input  string
		prefix string
		suffix string
	}{
		{"mid input", "SELECT 1;\nSELECT FROM " + wide, "FROM ", "..."},
		{"at eof", "SELECT ('" + wide + "'", "...", "'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input, nil)
			require.Error(t, err)

			var pe *parser.ParseError
			require.True(t, errors.As(err, &pe))
			assert.True(t, utf8.ValidString(pe.Snippet), "snippet %q", pe.Snippet)
			assert.True(t, strings.HasPrefix(pe.Snippet, tt.prefix), pe.Snippet)
			assert.True(t, strings.HasSuffix(pe.Snippet, tt.suffix), pe.Snippet)
		})
	}
}

func TestParseErrorAtEOF(t *testing.T) {
	_, err := parser.Parse("SELECT (1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnexpectedEOF)
}

func TestParseErrorIllegalInput(t *testing.T) {
	_, err := parser.Parse("SELECT 'open", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestUnknownStatement(t *testing.T) {
	_, err := parser.Parse("FROBNICATE everything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at start of statement")
}

// ---------- Dialect Hook ----------

// hookDialect intercepts statements starting with the word "noop" and
// records whether the native grammar was reached through ParseNative.
type hookDialect struct {
	*dialect.Standard
	delegated int
}

func (d *hookDialect) ParseStatement(p dialect.Ops) (ast.Statement, bool, error) {
	if p.Delegating() {
		return nil, false, nil
	}
	if p.ParseWords("noop") {
		for !p.PeekToken().Is(token.SEMICOLON) && !p.PeekToken().Is(token.EOF) {
			p.NextToken()
		}
		return &ast.NoopStmt{}, true, nil
	}
	if p.ParseWords("native") {
		d.delegated++
		stmt, err := p.ParseNative()
		return stmt, true, err
	}
	if p.ParseWords("fail") {
		for !p.PeekToken().Is(token.EOF) {
			p.NextToken()
		}
		return nil, true, p.Errorf("reached end")
	}
	return nil, false, nil
}

func newHookDialect() *hookDialect {
	return &hookDialect{Standard: dialect.NewDialect("hook").Build()}
}

func TestDialectHookIntercepts(t *testing.T) {
	d := newHookDialect()
	stmts, err := parser.Parse("noop whatever ( ; SELECT 1; native SELECT 2", d)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.IsType(t, &ast.NoopStmt{}, stmts[0])
	assert.Equal(t, "noop whatever (", stmts[0].Source())
	assert.IsType(t, &ast.SelectStmt{}, stmts[1])
	assert.IsType(t, &ast.SelectStmt{}, stmts[2])
	assert.Equal(t, 1, d.delegated)
}

func TestDialectHookError(t *testing.T) {
	_, err := parser.Parse("SELECT 1; fail here", newHookDialect())
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnexpectedEOF)
}

func TestOpsCursor(t *testing.T) {
	p := parser.New("a b c", nil)
	start := p.Index()

	assert.Equal(t, "a", p.NextToken().Literal)
	assert.Equal(t, "b", p.PeekToken().Literal)
	p.PrevToken()
	assert.Equal(t, "a", p.PeekToken().Literal)

	assert.False(t, p.ParseWords("a", "c"))
	assert.Equal(t, start, p.Index(), "failed sequence consumes nothing")
	assert.True(t, p.ParseWords("A", "B"))
	assert.Equal(t, "c", p.PeekToken().Literal)

	p.Rewind(start)
	assert.Equal(t, "a", p.PeekToken().Literal)

	p.Rewind(100)
	assert.True(t, p.NextToken().Is(token.EOF))
	assert.True(t, p.NextToken().Is(token.EOF), "EOF sticks")
}

// ---------- Expressions ----------

func TestExpressionPrecedence(t *testing.T) {
	core := parseSelect(t, "SELECT 1 + 2 * 3")
	require.Len(t, core.Columns, 1)

	sum, ok := core.Columns[0].Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
	product, ok := sum.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", product.Op)
}

func TestBetweenBindsBeforeAnd(t *testing.T) {
	core := parseSelect(t, "SELECT a FROM t WHERE a BETWEEN 1 AND 2 AND b = 3")

	and, ok := core.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "AND", and.Op)
	between, ok := and.Left.(*ast.BetweenExpr)
	require.True(t, ok)
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralNumber, Value: "2"}, between.High)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		where string
		check func(t *testing.T, e ast.Expr)
	}{
		{"is not null", "a IS NOT NULL", func(t *testing.T, e ast.Expr) {
			is := e.(*ast.IsExpr)
			assert.True(t, is.Not)
			assert.Equal(t, "null", is.Value)
		}},
		{"not in list", "a NOT IN (1, 2)", func(t *testing.T, e ast.Expr) {
			in := e.(*ast.InExpr)
			assert.True(t, in.Not)
			assert.Len(t, in.Values, 2)
		}},
		{"in subquery", "a IN (SELECT b FROM u)", func(t *testing.T, e ast.Expr) {
			assert.NotNil(t, e.(*ast.InExpr).Query)
		}},
		{"like escape", "a LIKE 'x!%' ESCAPE '!'", func(t *testing.T, e ast.Expr) {
			like := e.(*ast.LikeExpr)
			assert.Equal(t, "LIKE", like.Op)
			assert.NotNil(t, like.Escape)
		}},
		{"not exists", "NOT EXISTS (SELECT 1)", func(t *testing.T, e ast.Expr) {
			assert.True(t, e.(*ast.ExistsExpr).Not)
		}},
		{"collate", "a = 'x' COLLATE utf8mb4_bin", func(t *testing.T, e ast.Expr) {
			cmp := e.(*ast.BinaryExpr)
			assert.Equal(t, "utf8mb4_bin", cmp.Right.(*ast.CollateExpr).Collation)
		}},
		{"tuple", "(a, b) = (1, 2)", func(t *testing.T, e ast.Expr) {
			assert.Len(t, e.(*ast.BinaryExpr).Left.(*ast.TupleExpr).Items, 2)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := parseSelect(t, "SELECT * FROM t WHERE "+tt.where)
			require.NotNil(t, core.Where)
			tt.check(t, core.Where)
		})
	}
}

func TestFunctionCalls(t *testing.T) {
	core := parseSelect(t, "SELECT COUNT(*), GROUP_CONCAT(DISTINCT a ORDER BY a DESC SEPARATOR ';'), "+
		"IF(a, 1, 2), sys.format_bytes(5), ROW_NUMBER() OVER (PARTITION BY a ORDER BY b), "+
		"EXTRACT(YEAR FROM d), CAST(a AS UNSIGNED), CONVERT(a USING utf8mb4), DATE_ADD(d, INTERVAL 1 DAY) FROM t")
	require.Len(t, core.Columns, 9)

	count := core.Columns[0].Expr.(*ast.FuncCall)
	assert.True(t, count.Star)

	gc := core.Columns[1].Expr.(*ast.FuncCall)
	assert.True(t, gc.Distinct)
	assert.Equal(t, ";", gc.Separator)
	require.Len(t, gc.OrderBy, 1)
	assert.True(t, gc.OrderBy[0].Desc)

	assert.Equal(t, "IF", core.Columns[2].Expr.(*ast.FuncCall).Name.String())
	assert.Equal(t, "sys.format_bytes", core.Columns[3].Expr.(*ast.FuncCall).Name.String())

	win := core.Columns[4].Expr.(*ast.FuncCall)
	require.NotNil(t, win.Over)
	assert.Len(t, win.Over.PartitionBy, 1)

	assert.Len(t, core.Columns[5].Expr.(*ast.FuncCall).Args, 2)

	cast := core.Columns[6].Expr.(*ast.CastExpr)
	assert.True(t, cast.Type.Unsigned)
	assert.Equal(t, "utf8mb4", core.Columns[7].Expr.(*ast.ConvertExpr).Charset)

	interval := core.Columns[8].Expr.(*ast.FuncCall).Args[1].(*ast.IntervalExpr)
	assert.Equal(t, "DAY", interval.Unit)
}

func TestCharsetIntroducer(t *testing.T) {
	core := parseSelect(t, "SELECT _utf8mb4'abc' 'def'")
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralString, Value: "abcdef"}, core.Columns[0].Expr)
}

func TestCaseExpression(t *testing.T) {
	core := parseSelect(t, "SELECT CASE a WHEN 1 THEN 'x' WHEN 2 THEN 'y' ELSE 'z' END")
	c := core.Columns[0].Expr.(*ast.CaseExpr)
	assert.NotNil(t, c.Operand)
	assert.Len(t, c.Whens, 2)
	assert.NotNil(t, c.Else)
}

// ---------- SELECT ----------

func TestSelectClauses(t *testing.T) {
	core := parseSelect(t, "SELECT DISTINCT t.*, a AS x, b y FROM db.t AS t "+
		"LEFT JOIN u USE INDEX (idx) ON t.id = u.id, v "+
		"WHERE a > 1 GROUP BY a WITH ROLLUP HAVING COUNT(*) > 1 "+
		"ORDER BY a DESC LIMIT 5, 10 FOR UPDATE")

	assert.True(t, core.Distinct)
	require.Len(t, core.Columns, 3)
	assert.Equal(t, "t", core.Columns[0].TableStar.String())
	assert.Equal(t, "x", core.Columns[1].Alias.Value)
	assert.Equal(t, "y", core.Columns[2].Alias.Value)

	require.NotNil(t, core.From)
	src := core.From.Source.(*ast.TableName)
	assert.Equal(t, "db.t", src.Name.String())
	assert.Equal(t, "t", src.Alias.Value)
	require.Len(t, core.From.Joins, 2)
	assert.Equal(t, ast.JoinLeft, core.From.Joins[0].Type)
	assert.NotNil(t, core.From.Joins[0].Condition)
	assert.Equal(t, ast.JoinComma, core.From.Joins[1].Type)

	assert.Len(t, core.GroupBy, 1)
	assert.NotNil(t, core.Having)
	assert.True(t, core.OrderBy[0].Desc)
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralNumber, Value: "5"}, core.Offset)
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralNumber, Value: "10"}, core.Limit)
	assert.Equal(t, "update", core.Lock)
}

func TestSelectUnionAndWith(t *testing.T) {
	stmt := parseOne(t, "WITH RECURSIVE c (n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM c) SELECT * FROM c UNION SELECT 2").(*ast.SelectStmt)
	require.NotNil(t, stmt.With)
	assert.True(t, stmt.With.Recursive)
	require.Len(t, stmt.With.CTEs, 1)
	assert.Equal(t, ast.SetOpUnionAll, stmt.With.CTEs[0].Select.Body.SetOp)
	assert.Equal(t, ast.SetOpUnion, stmt.Body.SetOp)
	assert.NotNil(t, stmt.Body.Right)
}

func TestDerivedTable(t *testing.T) {
	core := parseSelect(t, "SELECT x.a FROM (SELECT a FROM t) x JOIN u USING (a)")
	derived := core.From.Source.(*ast.DerivedTable)
	assert.Equal(t, "x", derived.Alias.Value)
	require.Len(t, core.From.Joins, 1)
	assert.Equal(t, "a", core.From.Joins[0].Using[0].Value)
}

// ---------- DML ----------

func TestInsert(t *testing.T) {
	stmt := parseOne(t, "INSERT IGNORE INTO t (a, b) VALUES (1, 'x'), (2, DEFAULT) ON DUPLICATE KEY UPDATE b = VALUES(b)").(*ast.InsertStmt)
	assert.True(t, stmt.Ignore)
	assert.Equal(t, "t", stmt.Table.String())
	assert.Len(t, stmt.Columns, 2)
	require.Len(t, stmt.Values, 2)
	assert.IsType(t, &ast.DefaultExpr{}, stmt.Values[1][1])
	require.Len(t, stmt.OnDuplicate, 1)
	assert.IsType(t, &ast.FuncCall{}, stmt.OnDuplicate[0].Value)
}

func TestInsertSelectAndSet(t *testing.T) {
	sel := parseOne(t, "REPLACE INTO t SELECT * FROM u").(*ast.InsertStmt)
	assert.True(t, sel.Replace)
	assert.NotNil(t, sel.Select)

	set := parseOne(t, "INSERT t SET a = 1, b = 2").(*ast.InsertStmt)
	assert.Len(t, set.Set, 2)
}

func TestUpdateAndDelete(t *testing.T) {
	upd := parseOne(t, "UPDATE t JOIN u ON t.id = u.id SET t.a = u.a WHERE u.b = 1 LIMIT 10").(*ast.UpdateStmt)
	assert.Len(t, upd.Tables.Joins, 1)
	assert.Equal(t, "t.a", upd.Set[0].Column.String())
	assert.NotNil(t, upd.Limit)

	del := parseOne(t, "DELETE FROM t WHERE a = 1 ORDER BY b LIMIT 1").(*ast.DeleteStmt)
	assert.Equal(t, "t", del.From.Source.(*ast.TableName).Name.String())
	assert.Len(t, del.OrderBy, 1)

	multi := parseOne(t, "DELETE t1, t2.* FROM t1 JOIN t2 ON t1.id = t2.id").(*ast.DeleteStmt)
	assert.Len(t, multi.Targets, 2)
}

// ---------- DDL ----------

func TestCreateTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE IF NOT EXISTS `t` ("+
		"id INT UNSIGNED NOT NULL AUTO_INCREMENT, "+
		"name VARCHAR(20) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin DEFAULT '' COMMENT 'Name', "+
		"kind ENUM('a', 'b') DEFAULT 'a', "+
		"PRIMARY KEY (id), "+
		"KEY idx_name (name(10)), "+
		"CONSTRAINT fk_u FOREIGN KEY (id) REFERENCES u (id) ON DELETE CASCADE"+
		") ENGINE=InnoDB DEFAULT CHARSET=latin1 COMMENT='Users'").(*ast.CreateTableStmt)

	assert.True(t, stmt.IfNotExists)
	assert.Equal(t, "`t`", stmt.Name.String())
	require.Len(t, stmt.Columns, 3)

	id := stmt.Columns[0]
	assert.Equal(t, "int", id.Type.Name)
	assert.True(t, id.Type.Unsigned)
	require.Len(t, id.Options, 2)
	assert.Equal(t, ast.OptNotNull, id.Options[0].Kind)
	assert.Equal(t, ast.OptAutoIncrement, id.Options[1].Kind)

	name := stmt.Columns[1]
	assert.Equal(t, []string{"20"}, name.Type.Args)
	assert.Equal(t, "utf8mb4", name.Type.Charset)
	assert.Equal(t, "utf8mb4_bin", name.Type.Collation)
	require.Len(t, name.Options, 2)
	assert.Equal(t, ast.OptComment, name.Options[1].Kind)
	assert.Equal(t, "Name", name.Options[1].Text)

	assert.Equal(t, []string{"a", "b"}, stmt.Columns[2].Type.Values)

	require.Len(t, stmt.Constraints, 3)
	assert.Equal(t, ast.ConstraintPrimaryKey, stmt.Constraints[0].Kind)
	assert.Equal(t, "idx_name", stmt.Constraints[1].Name.Value)
	assert.Equal(t, "10", stmt.Constraints[1].Columns[0].Length)
	fk := stmt.Constraints[2]
	assert.Equal(t, ast.ConstraintForeignKey, fk.Kind)
	assert.Equal(t, "fk_u", fk.Name.Value)
	assert.Equal(t, "cascade", fk.Ref.OnDelete)

	assert.Equal(t, []ast.TableOption{
		{Name: "engine", Value: "innodb"},
		{Name: "charset", Value: "latin1"},
		{Name: "comment", Value: "Users"},
	}, stmt.Options)
}

func TestCreateTableLeavesTrailingSelect(t *testing.T) {
	_, err := parser.Parse("CREATE TABLE t (a INT) SELECT 1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after end of statement")
}

func TestCreateOtherObjects(t *testing.T) {
	idx := parseOne(t, "CREATE UNIQUE INDEX i ON t (a, b DESC) USING BTREE").(*ast.CreateIndexStmt)
	assert.True(t, idx.Unique)
	assert.Len(t, idx.Columns, 2)
	assert.Equal(t, "btree", idx.Using)

	db := parseOne(t, "CREATE DATABASE IF NOT EXISTS d DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci").(*ast.CreateDatabaseStmt)
	assert.Equal(t, "d", db.Name.Value)
	assert.Equal(t, []ast.TableOption{
		{Name: "charset", Value: "utf8mb4"},
		{Name: "collate", Value: "utf8mb4_general_ci"},
	}, db.Options)

	view := parseOne(t, "CREATE OR REPLACE ALGORITHM=MERGE SQL SECURITY DEFINER VIEW v (a) AS SELECT 1").(*ast.CreateViewStmt)
	assert.True(t, view.OrReplace)
	assert.NotNil(t, view.Select)
}

func TestCreateUnsupportedObjectFails(t *testing.T) {
	_, err := parser.Parse("CREATE FUNCTION f() RETURNS INT RETURN 1", nil)
	require.Error(t, err)
}

func TestAlterTable(t *testing.T) {
	stmt := parseOne(t, "ALTER TABLE t ADD COLUMN c INT AFTER b, DROP INDEX i, "+
		"MODIFY c BIGINT NOT NULL, CHANGE c d INT FIRST, ADD UNIQUE KEY u (d), "+
		"DROP FOREIGN KEY fk, CONVERT TO CHARACTER SET utf8mb4 COLLATE utf8mb4_bin, ENGINE = InnoDB").(*ast.AlterTableStmt)

	kinds := make([]ast.AlterKind, len(stmt.Specs))
	for i, s := range stmt.Specs {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []ast.AlterKind{
		ast.AlterAddColumn, ast.AlterDropIndex, ast.AlterModifyColumn, ast.AlterChangeColumn,
		ast.AlterAddConstraint, ast.AlterDropForeignKey, ast.AlterConvertCharset, ast.AlterOption,
	}, kinds)
	assert.Equal(t, "utf8mb4", stmt.Specs[6].Charset)
	assert.Equal(t, "engine", stmt.Specs[7].Option.Name)
}

func TestDropAndTruncate(t *testing.T) {
	drop := parseOne(t, "DROP TABLE IF EXISTS a, b CASCADE").(*ast.DropStmt)
	assert.Equal(t, "table", drop.ObjectType)
	assert.True(t, drop.IfExists)
	assert.Len(t, drop.Names, 2)
	assert.True(t, drop.Cascade)

	idx := parseOne(t, "DROP INDEX i ON t").(*ast.DropStmt)
	assert.Equal(t, "index", idx.ObjectType)
	assert.Equal(t, "t", idx.Table.String())

	trunc := parseOne(t, "TRUNCATE TABLE t").(*ast.TruncateStmt)
	assert.Equal(t, "t", trunc.Name.String())
}

// ---------- Session & Transactions ----------

func TestSetStatements(t *testing.T) {
	names := parseOne(t, "SET NAMES utf8mb4 COLLATE utf8mb4_bin").(*ast.SetNamesStmt)
	assert.Equal(t, "utf8mb4", names.Charset)
	assert.Equal(t, "utf8mb4_bin", names.Collation)

	cs := parseOne(t, "SET CHARACTER SET latin1").(*ast.SetNamesStmt)
	assert.Equal(t, "latin1", cs.Charset)

	tx := parseOne(t, "SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED, READ ONLY").(*ast.SetTransactionStmt)
	assert.Equal(t, "session", tx.Scope)
	assert.Equal(t, []string{"isolation level read committed", "read only"}, tx.Characteristics)

	vars := parseOne(t, "SET GLOBAL max_connections = 10, sql_mode = DEFAULT, autocommit = ON").(*ast.SetStmt)
	require.Len(t, vars.Variables, 3)
	assert.Equal(t, "global", vars.Variables[0].Scope)
	assert.Equal(t, "max_connections", vars.Variables[0].Name.String())
	assert.IsType(t, &ast.DefaultExpr{}, vars.Variables[1].Value)
	assert.IsType(t, &ast.ColumnRef{}, vars.Variables[2].Value)
}

func TestTransactionStatements(t *testing.T) {
	stmts, err := parser.Parse("START TRANSACTION WITH CONSISTENT SNAPSHOT; BEGIN; SAVEPOINT sp; "+
		"ROLLBACK TO SAVEPOINT sp; RELEASE SAVEPOINT sp; COMMIT WORK; ROLLBACK", nil)
	require.NoError(t, err)
	require.Len(t, stmts, 7)

	start := stmts[0].(*ast.StartTransactionStmt)
	assert.Equal(t, []string{"with consistent snapshot"}, start.Modes)
	assert.True(t, stmts[1].(*ast.StartTransactionStmt).Begin)
	assert.Equal(t, "sp", stmts[2].(*ast.SavepointStmt).Name.Value)
	assert.Equal(t, "sp", stmts[3].(*ast.RollbackStmt).Savepoint.Value)
	assert.Equal(t, "sp", stmts[4].(*ast.ReleaseSavepointStmt).Name.Value)
	assert.IsType(t, &ast.CommitStmt{}, stmts[5])
	assert.Nil(t, stmts[6].(*ast.RollbackStmt).Savepoint)
}

func TestUseShowExplain(t *testing.T) {
	use := parseOne(t, "USE `db`").(*ast.UseStmt)
	assert.Equal(t, "db", use.Name.Value)

	show := parseOne(t, "SHOW FULL TABLES FROM db LIKE 'a%'").(*ast.ShowStmt)
	assert.True(t, show.Full)
	assert.Equal(t, "tables", show.Kind)
	assert.Equal(t, "db", show.From.String())
	assert.NotNil(t, show.Like)

	create := parseOne(t, "SHOW CREATE TABLE t").(*ast.ShowStmt)
	assert.Equal(t, "create table", create.Kind)
	assert.Equal(t, "t", create.Target.String())

	explain := parseOne(t, "EXPLAIN SELECT 1").(*ast.ExplainStmt)
	assert.IsType(t, &ast.SelectStmt{}, explain.Stmt)

	desc := parseOne(t, "DESC t").(*ast.ExplainStmt)
	assert.Equal(t, "t", desc.Table.String())
}

func TestGrant(t *testing.T) {
	d := dialect.NewDialect("at").Identifiers(
		func(r rune) bool { return dialect.IsASCIIIdentifierStart(r) || r == '@' },
		func(r rune) bool { return dialect.IsASCIIIdentifierPart(r) || r == '@' },
	).Build()

	stmts, err := parser.Parse("GRANT SELECT (a, b), INSERT, ALTER ROUTINE ON db.* TO 'u'@'%', bob@localhost WITH GRANT OPTION", d)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	g := stmts[0].(*ast.GrantStmt)

	require.Len(t, g.Privileges, 3)
	assert.Equal(t, "select", g.Privileges[0].Name)
	assert.Len(t, g.Privileges[0].Columns, 2)
	assert.Equal(t, "alter routine", g.Privileges[2].Name)
	assert.Equal(t, "db.*", g.Object.String())
	assert.Equal(t, []string{"'u'@'%'", "bob@localhost"}, g.Grantees)
	assert.True(t, g.WithGrantOption)

	all := parseOne(t, "GRANT ALL PRIVILEGES ON *.* TO bob").(*ast.GrantStmt)
	assert.True(t, all.All)
}
