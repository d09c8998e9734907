package parser

// Primary expression parsing.
//
// Grammar:
//
//	primary    → literal | "?" | DEFAULT | case_expr | cast_expr | convert_expr
//	           | "(" (select_stmt | expr ("," expr)*) ")"
//	           | _charset STRING | column_ref | func_call
//	func_call  → name "(" [DISTINCT | ALL] ("*" | args) [ORDER BY ...] [SEPARATOR str] ")"
//	             [OVER (name | window_spec)]
//	case_expr  → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/token"
)

// keywordFunctions are reserved words that also name builtin functions.
var keywordFunctions = map[token.TokenType]bool{
	token.IF: true, token.LEFT: true, token.RIGHT: true, token.REPLACE: true,
	token.INSERT: true, token.MOD: true, token.DATABASE: true, token.SCHEMA: true,
	token.CHARSET: true, token.VALUES: true, token.DEFAULT: true, token.BINARY: true,
	token.TRUNCATE: true,
}

// argumentWords separate arguments in the keyword-style builtin forms,
// e.g. EXTRACT(YEAR FROM d), SUBSTRING(s FROM 1 FOR 2), CHAR(65 USING utf8).
var argumentWords = map[token.TokenType]bool{
	token.FROM: true, token.FOR: true, token.USING: true, token.AS: true,
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.token
	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralNumber, Value: tok.Literal}
	case token.STRING:
		return p.parseStringLiteral()
	case token.TRUE, token.FALSE:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralBool, Value: strings.ToLower(tok.Literal)}
	case token.NULL:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralNull, Value: "NULL"}
	case token.QUESTION:
		p.nextToken()
		return &ast.Placeholder{}
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		if p.checkPeek(token.LPAREN) {
			return p.parseCast()
		}
	case token.CONVERT:
		return p.parseConvert()
	case token.LPAREN:
		return p.parseParenExpr()
	case token.IDENT:
		// _utf8mb4'text' charset introducer
		if tok.Quote == 0 && strings.HasPrefix(tok.Literal, "_") && p.checkPeek(token.STRING) {
			p.nextToken()
			return p.parseStringLiteral()
		}
		return p.parseNameExpr()
	}

	if keywordFunctions[tok.Type] && p.checkPeek(token.LPAREN) {
		p.nextToken()
		return p.parseFuncCall(ast.ObjectName{{Value: tok.Literal}})
	}
	if tok.Type == token.DEFAULT {
		p.nextToken()
		return &ast.DefaultExpr{}
	}
	if token.IsKeyword(tok.Type) && !token.IsReserved(tok.Type) {
		return p.parseNameExpr()
	}

	p.addError(fmt.Sprintf(ErrExpectedExpr, p.describe(tok)))
	p.nextToken()
	return nil
}

// parseStringLiteral parses one or more adjacent strings, which
// concatenate.
func (p *Parser) parseStringLiteral() ast.Expr {
	var sb strings.Builder
	for p.check(token.STRING) {
		sb.WriteString(p.token.Literal)
		p.nextToken()
	}
	return &ast.Literal{Kind: ast.LiteralString, Value: sb.String()}
}

// parseNameExpr parses a column reference or a function call.
func (p *Parser) parseNameExpr() ast.Expr {
	name := p.parseObjectName()
	if p.failed() {
		return nil
	}
	if p.check(token.LPAREN) {
		return p.parseFuncCall(name)
	}
	return &ast.ColumnRef{Name: name}
}

// parseParenExpr parses a parenthesized expression, tuple or subquery.
func (p *Parser) parseParenExpr() ast.Expr {
	p.nextToken() // consume (

	if p.check(token.SELECT) || p.check(token.WITH) {
		sel := p.parseSelectStmt()
		p.expect(token.RPAREN)
		return &ast.SubqueryExpr{Select: sel}
	}

	first := p.parseExpression()
	if p.match(token.COMMA) {
		items := append([]ast.Expr{first}, p.parseExpressionList()...)
		p.expect(token.RPAREN)
		return &ast.TupleExpr{Items: items}
	}
	p.expect(token.RPAREN)
	return &ast.ParenExpr{Expr: first}
}

// parseFuncCall parses the argument list of a function call. The current
// token is the opening parenthesis.
func (p *Parser) parseFuncCall(name ast.ObjectName) ast.Expr {
	p.nextToken() // consume (
	fn := &ast.FuncCall{Name: name}

	if p.match(token.DISTINCT) {
		fn.Distinct = true
	} else {
		p.match(token.ALL)
	}
	// TRIM([LEADING | TRAILING | BOTH] ...)
	if p.isWord("leading") || p.isWord("trailing") || p.isWord("both") {
		p.nextToken()
	}

	switch {
	case p.check(token.STAR):
		p.nextToken()
		fn.Star = true
	case !p.check(token.RPAREN):
		for !p.failed() {
			fn.Args = append(fn.Args, p.parseExpression())
			if p.match(token.COMMA) {
				continue
			}
			if argumentWords[p.token.Type] {
				p.nextToken()
				continue
			}
			break
		}
	}

	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		fn.OrderBy = p.parseOrderByList()
	}
	if p.matchWord("separator") {
		if p.check(token.STRING) {
			fn.Separator = p.token.Literal
			p.nextToken()
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "STRING"))
		}
	}
	p.expect(token.RPAREN)

	if p.match(token.OVER) {
		fn.Over = p.parseWindowSpec()
	}
	return fn
}

// parseWindowSpec parses OVER name or OVER ( [name] [PARTITION BY ...]
// [ORDER BY ...] [frame] ).
func (p *Parser) parseWindowSpec() *ast.WindowSpec {
	spec := &ast.WindowSpec{}
	if !p.check(token.LPAREN) {
		if id, ok := p.parseIdent(); ok {
			spec.Name = &id
		}
		return spec
	}
	p.nextToken() // consume (

	if p.check(token.IDENT) {
		id := ast.Ident{Value: p.token.Literal, Quote: p.token.Quote}
		spec.Name = &id
		p.nextToken()
	}
	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExpressionList()
	}
	if p.match(token.ORDER) {
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByList()
	}
	if p.check(token.ROWS) || p.isWord("range") {
		var words []string
		for !p.check(token.RPAREN) && !p.check(token.EOF) && !p.failed() {
			words = append(words, strings.ToLower(p.token.Text()))
			p.nextToken()
		}
		spec.Frame = strings.Join(words, " ")
	}
	p.expect(token.RPAREN)
	return spec
}

// parseCase parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCase() ast.Expr {
	p.nextToken() // consume CASE
	e := &ast.CaseExpr{}
	if !p.check(token.WHEN) {
		e.Operand = p.parseExpression()
	}
	for p.match(token.WHEN) && !p.failed() {
		w := ast.WhenClause{Condition: p.parseExpression()}
		p.expect(token.THEN)
		w.Result = p.parseExpression()
		e.Whens = append(e.Whens, w)
	}
	if len(e.Whens) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "WHEN"))
		return e
	}
	if p.match(token.ELSE) {
		e.Else = p.parseExpression()
	}
	p.expect(token.END)
	return e
}

// parseCast parses CAST(expr AS type).
func (p *Parser) parseCast() ast.Expr {
	p.nextToken() // consume CAST
	p.expect(token.LPAREN)
	e := &ast.CastExpr{Expr: p.parseExpression()}
	if p.expect(token.AS) {
		e.Type = p.parseDataType()
	}
	p.expect(token.RPAREN)
	return e
}

// parseConvert parses CONVERT(expr, type) or CONVERT(expr USING charset).
func (p *Parser) parseConvert() ast.Expr {
	p.nextToken() // consume CONVERT
	p.expect(token.LPAREN)
	e := &ast.ConvertExpr{Expr: p.parseExpression()}
	switch {
	case p.match(token.USING):
		e.Charset = p.parseWordValue()
	case p.expect(token.COMMA):
		e.Type = p.parseDataType()
	}
	p.expect(token.RPAREN)
	return e
}
