package parser

// SELECT statement parsing.
//
// Grammar:
//
//	select_stmt  → [with_clause] select_body
//	with_clause  → WITH [RECURSIVE] cte ("," cte)*
//	cte          → name ["(" columns ")"] AS "(" select_stmt ")"
//	select_body  → select_core ((UNION [ALL | DISTINCT]) select_core)*
//	select_core  → "(" select_stmt ")"
//	             | SELECT [DISTINCT | ALL | modifiers] select_list
//	               [FROM from_clause] [WHERE expr]
//	               [GROUP BY exprs [WITH ROLLUP]] [HAVING expr]
//	               [ORDER BY order_list] [LIMIT n [OFFSET m] | LIMIT m, n]
//	               [FOR UPDATE | FOR SHARE | LOCK IN SHARE MODE]
//	from_clause  → table_ref (join)*
//	table_ref    → name [[AS] alias] [index_hint]* | "(" select_stmt ")" [AS] alias
//	join         → "," table_ref
//	             | [NATURAL] [INNER | CROSS | LEFT [OUTER] | RIGHT [OUTER]] JOIN table_ref
//	               [ON expr | USING "(" columns ")"]

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/token"
)

// selectModifiers are MySQL SELECT options that do not change the shape of
// the result.
var selectModifiers = []string{
	"high_priority", "straight_join", "sql_small_result", "sql_big_result",
	"sql_buffer_result", "sql_no_cache", "sql_cache", "sql_calc_found_rows",
}

// aliasStopWords are unreserved words that continue a FROM clause rather
// than alias a table.
var aliasStopWords = []string{"lock", "straight_join", "force", "window"}

// parseSelectStmt parses a SELECT statement with optional WITH clause.
func (p *Parser) parseSelectStmt() *ast.SelectStmt {
	stmt := &ast.SelectStmt{}
	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
		if p.failed() {
			return stmt
		}
	}
	stmt.Body = p.parseSelectBody()
	return stmt
}

func (p *Parser) parseWithClause() *ast.WithClause {
	p.nextToken() // consume WITH
	with := &ast.WithClause{Recursive: p.match(token.RECURSIVE)}

	for !p.failed() {
		cte := &ast.CTE{}
		name, ok := p.parseIdent()
		if !ok {
			return with
		}
		cte.Name = name
		if p.check(token.LPAREN) {
			cte.Columns = p.parseIdentList()
		}
		p.expect(token.AS)
		p.expect(token.LPAREN)
		cte.Select = p.parseSelectStmt()
		p.expect(token.RPAREN)
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}
	return with
}

// parseSelectBody parses select cores chained with UNION.
func (p *Parser) parseSelectBody() *ast.SelectCore {
	first := p.parseSelectCore()
	current := first
	for p.check(token.UNION) && !p.failed() {
		p.nextToken()
		op := ast.SetOpUnion
		if p.match(token.ALL) {
			op = ast.SetOpUnionAll
		} else {
			p.match(token.DISTINCT)
		}
		current.SetOp = op
		current.Right = p.parseSelectCore()
		current = current.Right
	}
	return first
}

func (p *Parser) parseSelectCore() *ast.SelectCore {
	core := &ast.SelectCore{}

	if p.match(token.LPAREN) {
		inner := p.parseSelectStmt()
		p.expect(token.RPAREN)
		if inner.Body != nil {
			core = inner.Body
		}
		p.parseSelectTail(core)
		return core
	}

	if !p.expect(token.SELECT) {
		return core
	}

	for {
		switch {
		case p.match(token.DISTINCT), p.matchWord("distinctrow"):
			core.Distinct = true
			continue
		case p.match(token.ALL):
			continue
		}
		if p.matchAnyWord(selectModifiers) {
			continue
		}
		break
	}

	core.Columns = p.parseSelectList()
	if p.failed() {
		return core
	}

	if p.match(token.FROM) {
		core.From = p.parseFromClause()
	}
	if p.match(token.WHERE) {
		core.Where = p.parseExpression()
	}
	if p.match(token.GROUP) {
		p.expect(token.BY)
		core.GroupBy = p.parseExpressionList()
		if p.check(token.WITH) && p.peek(1).IsWord("rollup") {
			p.nextToken()
			p.nextToken()
		}
	}
	if p.match(token.HAVING) {
		core.Having = p.parseExpression()
	}
	p.parseSelectTail(core)
	return core
}

// parseSelectTail parses ORDER BY, LIMIT and locking clauses.
func (p *Parser) parseSelectTail(core *ast.SelectCore) {
	if p.failed() {
		return
	}
	if p.match(token.ORDER) {
		p.expect(token.BY)
		core.OrderBy = p.parseOrderByList()
	}
	if p.match(token.LIMIT) {
		core.Limit = p.parseExpression()
		switch {
		case p.match(token.COMMA):
			core.Offset = core.Limit
			core.Limit = p.parseExpression()
		case p.match(token.OFFSET):
			core.Offset = p.parseExpression()
		}
	}

	switch {
	case p.check(token.FOR) && p.checkPeek(token.UPDATE):
		p.nextToken()
		p.nextToken()
		core.Lock = "update"
	case p.check(token.FOR) && p.peek(1).IsWord("share"):
		p.nextToken()
		p.nextToken()
		core.Lock = "share"
	case p.ParseWords("lock", "in", "share", "mode"):
		core.Lock = "share"
	default:
		return
	}
	if !p.matchWord("nowait") {
		p.ParseWords("skip", "locked")
	}
}

// isNameToken reports whether tok can be part of a qualified name.
func isNameToken(tok token.Token) bool {
	return tok.Type == token.IDENT || token.IsKeyword(tok.Type)
}

// matchAnyWord consumes the current token if it is one of words.
func (p *Parser) matchAnyWord(words []string) bool {
	for _, w := range words {
		if p.matchWord(w) {
			return true
		}
	}
	return false
}

func (p *Parser) parseSelectList() []ast.SelectItem {
	var items []ast.SelectItem
	for !p.failed() {
		items = append(items, p.parseSelectItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

func (p *Parser) parseSelectItem() ast.SelectItem {
	if p.match(token.STAR) {
		return ast.SelectItem{Star: true}
	}

	// t.* and db.t.*
	for n := 0; isNameToken(p.peek(n)) && p.peek(n+1).Is(token.DOT); n += 2 {
		if !p.peek(n + 2).Is(token.STAR) {
			continue
		}
		var name ast.ObjectName
		for i := 0; i <= n; i += 2 {
			name = append(name, ast.Ident{Value: p.token.Literal, Quote: p.token.Quote})
			p.nextToken() // name part
			p.nextToken() // .
		}
		p.nextToken() // *
		return ast.SelectItem{TableStar: name}
	}

	item := ast.SelectItem{Expr: p.parseExpression()}
	item.Alias = p.parseAlias(false)
	return item
}

// parseAlias parses [AS] alias. Bare aliases are limited to identifiers so
// a following keyword is never swallowed. With table set, words that
// continue a FROM clause are not aliases.
func (p *Parser) parseAlias(table bool) *ast.Ident {
	if p.match(token.AS) {
		if p.check(token.STRING) {
			id := ast.Ident{Value: p.token.Literal, Quote: '\''}
			p.nextToken()
			return &id
		}
		if id, ok := p.parseIdent(); ok {
			return &id
		}
		return nil
	}

	switch {
	case p.check(token.STRING) && !table:
		id := ast.Ident{Value: p.token.Literal, Quote: '\''}
		p.nextToken()
		return &id
	case p.check(token.IDENT):
		if table && p.token.Quote == 0 {
			for _, w := range aliasStopWords {
				if strings.EqualFold(p.token.Literal, w) {
					return nil
				}
			}
		}
		id := ast.Ident{Value: p.token.Literal, Quote: p.token.Quote}
		p.nextToken()
		return &id
	}
	return nil
}

// parseFromClause parses a table reference followed by joins.
func (p *Parser) parseFromClause() *ast.FromClause {
	from := &ast.FromClause{Source: p.parseTableRef()}
	for !p.failed() {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}
	return from
}

func (p *Parser) parseTableRef() ast.TableRef {
	if p.match(token.LPAREN) {
		if !p.check(token.SELECT) && !p.check(token.WITH) && !p.check(token.LPAREN) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "subquery"))
			return nil
		}
		derived := &ast.DerivedTable{Select: p.parseSelectStmt()}
		p.expect(token.RPAREN)
		derived.Alias = p.parseAlias(true)
		return derived
	}

	t := &ast.TableName{Name: p.parseObjectName()}
	if p.failed() {
		return t
	}
	if p.check(token.PARTITION) {
		p.nextToken()
		p.parseIdentList()
	}
	t.Alias = p.parseAlias(true)
	p.skipIndexHints()
	return t
}

// skipIndexHints consumes USE/FORCE/IGNORE INDEX|KEY [FOR ...] (list).
func (p *Parser) skipIndexHints() {
	for !p.failed() {
		if !p.check(token.USE) && !p.check(token.IGNORE) && !p.isWord("force") {
			return
		}
		if !p.checkPeek(token.INDEX) && !p.checkPeek(token.KEY) {
			return
		}
		p.nextToken()
		p.nextToken()
		if p.match(token.FOR) {
			switch {
			case p.match(token.JOIN):
			case p.match(token.ORDER), p.match(token.GROUP):
				p.expect(token.BY)
			}
		}
		p.expect(token.LPAREN)
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			p.nextToken()
		}
		p.expect(token.RPAREN)
	}
}

// parseJoin parses one join, or returns nil when none follows.
func (p *Parser) parseJoin() *ast.Join {
	if p.match(token.COMMA) {
		return &ast.Join{Type: ast.JoinComma, Right: p.parseTableRef()}
	}

	join := &ast.Join{Type: ast.JoinInner}
	start := p.pos
	join.Natural = p.match(token.NATURAL)

	switch {
	case p.match(token.INNER):
	case p.match(token.CROSS):
		join.Type = ast.JoinCross
	case p.match(token.LEFT):
		join.Type = ast.JoinLeft
		p.match(token.OUTER)
	case p.match(token.RIGHT):
		join.Type = ast.JoinRight
		p.match(token.OUTER)
	case p.matchWord("straight_join"):
		join.Right = p.parseTableRef()
		p.parseJoinCondition(join)
		return join
	}
	if !p.match(token.JOIN) {
		if p.pos != start {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "JOIN"))
		}
		return nil
	}

	join.Right = p.parseTableRef()
	p.parseJoinCondition(join)
	return join
}

func (p *Parser) parseJoinCondition(join *ast.Join) {
	if p.failed() {
		return
	}
	switch {
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.check(token.USING):
		p.nextToken()
		join.Using = p.parseIdentList()
	}
}
