package parser

// Expression parsing using Pratt parsing with dialect-aware precedence.
//
// Grammar:
//
//	expr        → unary_expr (infix_op expr)*
//	unary_expr  → (NOT | "-" | "+" | "~" | "!" | BINARY) unary_expr | primary
//	infix_op    → OR | || | XOR | AND | && | comparison | bit_op | arith_op
//	            | [NOT] IN | [NOT] BETWEEN | [NOT] LIKE | [NOT] REGEXP
//	            | IS [NOT] (NULL | TRUE | FALSE) | COLLATE name | "->" | "->>"

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/token"
)

// defaultPrecedence is used when the parser has no dialect.
var defaultPrecedence = map[token.TokenType]int{
	token.OR:        dialect.PrecedenceOr,
	token.XOR:       dialect.PrecedenceXor,
	token.AND:       dialect.PrecedenceAnd,
	token.NOT:       dialect.PrecedenceComparison,
	token.EQ:        dialect.PrecedenceComparison,
	token.NE:        dialect.PrecedenceComparison,
	token.LT:        dialect.PrecedenceComparison,
	token.GT:        dialect.PrecedenceComparison,
	token.LE:        dialect.PrecedenceComparison,
	token.GE:        dialect.PrecedenceComparison,
	token.IS:        dialect.PrecedenceComparison,
	token.IN:        dialect.PrecedenceComparison,
	token.LIKE:      dialect.PrecedenceComparison,
	token.BETWEEN:   dialect.PrecedenceComparison,
	token.PIPE:      dialect.PrecedenceBitOr,
	token.AMP:       dialect.PrecedenceBitAnd,
	token.PLUS:      dialect.PrecedenceAddition,
	token.MINUS:     dialect.PrecedenceAddition,
	token.DPIPE:     dialect.PrecedenceAddition,
	token.STAR:      dialect.PrecedenceMultiply,
	token.SLASH:     dialect.PrecedenceMultiply,
	token.PERCENT:   dialect.PrecedenceMultiply,
	token.COLLATE:   dialect.PrecedencePostfix,
	token.ARROW:     dialect.PrecedencePostfix,
	token.LONGARROW: dialect.PrecedencePostfix,
}

// getInfixPrecedence returns the binding power of the current token.
func (p *Parser) getInfixPrecedence() int {
	if p.dialect != nil {
		return p.dialect.Precedence(p.token.Type)
	}
	return defaultPrecedence[p.token.Type]
}

// parseExpression parses a full expression.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseExpressionWithPrecedence(dialect.PrecedenceNone)
}

// parseExpressionWithPrecedence parses infix operators binding tighter than
// minPrec.
func (p *Parser) parseExpressionWithPrecedence(minPrec int) ast.Expr {
	left := p.parsePrefixExpr()

	for !p.failed() {
		prec := p.getInfixPrecedence()
		if prec <= minPrec {
			break
		}
		left = p.parseInfixExpr(left, prec)
	}

	return left
}

// parsePrefixExpr handles unary operators before falling through to primary.
func (p *Parser) parsePrefixExpr() ast.Expr {
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		if p.check(token.EXISTS) {
			e := p.parseExists()
			e.Not = true
			return e
		}
		return &ast.UnaryExpr{Op: "NOT", Expr: p.parseExpressionWithPrecedence(dialect.PrecedenceNot)}
	case token.MINUS, token.PLUS, token.TILDE, token.BANG:
		op := p.token.Literal
		p.nextToken()
		return &ast.UnaryExpr{Op: op, Expr: p.parseExpressionWithPrecedence(dialect.PrecedenceUnary)}
	case token.BINARY:
		if p.checkPeek(token.LPAREN) || !startsOperand(p.peek(1).Type) {
			return p.parsePrimary()
		}
		p.nextToken()
		return &ast.UnaryExpr{Op: "BINARY", Expr: p.parseExpressionWithPrecedence(dialect.PrecedenceUnary)}
	case token.INTERVAL:
		return p.parseInterval()
	case token.EXISTS:
		return p.parseExists()
	}
	return p.parsePrimary()
}

// startsOperand reports whether t can begin an operand.
func startsOperand(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.NUMBER, token.STRING, token.LPAREN, token.QUESTION,
		token.NULL, token.TRUE, token.FALSE, token.MINUS, token.PLUS:
		return true
	}
	return false
}

// parseInfixExpr parses one infix operator application.
func (p *Parser) parseInfixExpr(left ast.Expr, prec int) ast.Expr {
	switch p.token.Type {
	case token.NOT:
		return p.parseNotInfixExpr(left)
	case token.IS:
		return p.parseIsExpr(left)
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)
	case token.LIKE, token.REGEXP:
		return p.parseLikeExpr(left, false)
	case token.COLLATE:
		p.nextToken()
		return &ast.CollateExpr{Expr: left, Collation: p.parseWordValue()}
	}

	op := p.token.Literal
	if token.IsKeyword(p.token.Type) {
		op = strings.ToUpper(op)
	}
	p.nextToken()
	right := p.parseExpressionWithPrecedence(prec)
	return &ast.BinaryExpr{Left: left, Op: op, Right: right}
}

// parseNotInfixExpr parses NOT IN, NOT BETWEEN, NOT LIKE and NOT REGEXP.
func (p *Parser) parseNotInfixExpr(left ast.Expr) ast.Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)
	case token.LIKE, token.REGEXP:
		return p.parseLikeExpr(left, true)
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "IN, BETWEEN, LIKE or REGEXP after NOT"))
		return left
	}
}

// parseIsExpr parses IS [NOT] NULL/TRUE/FALSE.
func (p *Parser) parseIsExpr(left ast.Expr) ast.Expr {
	p.nextToken() // consume IS

	e := &ast.IsExpr{Expr: left, Not: p.match(token.NOT)}
	switch p.token.Type {
	case token.NULL:
		e.Value = "null"
	case token.TRUE:
		e.Value = "true"
	case token.FALSE:
		e.Value = "false"
	default:
		if !p.isWord("unknown") {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "NULL, TRUE or FALSE"))
			return e
		}
		e.Value = "null"
	}
	p.nextToken()
	return e
}

// parseInExpr parses IN (values...) or IN (subquery).
func (p *Parser) parseInExpr(left ast.Expr, not bool) ast.Expr {
	e := &ast.InExpr{Expr: left, Not: not}
	if !p.expect(token.LPAREN) {
		return e
	}

	if p.check(token.SELECT) || p.check(token.WITH) {
		e.Query = p.parseSelectStmt()
	} else if !p.check(token.RPAREN) {
		e.Values = p.parseExpressionList()
	}
	p.expect(token.RPAREN)
	return e
}

// parseBetweenExpr parses BETWEEN low AND high. The bounds bind tighter
// than AND so the AND separates them.
func (p *Parser) parseBetweenExpr(left ast.Expr, not bool) ast.Expr {
	e := &ast.BetweenExpr{Expr: left, Not: not}
	e.Low = p.parseExpressionWithPrecedence(dialect.PrecedenceComparison)
	if !p.expect(token.AND) {
		return e
	}
	e.High = p.parseExpressionWithPrecedence(dialect.PrecedenceComparison)
	return e
}

// parseLikeExpr parses LIKE / REGEXP pattern [ESCAPE char].
func (p *Parser) parseLikeExpr(left ast.Expr, not bool) ast.Expr {
	e := &ast.LikeExpr{Expr: left, Not: not, Op: strings.ToUpper(p.token.Literal)}
	p.nextToken()
	e.Pattern = p.parseExpressionWithPrecedence(dialect.PrecedenceComparison)
	if p.matchWord("escape") {
		e.Escape = p.parsePrimary()
	}
	return e
}

// parseInterval parses INTERVAL expr unit.
func (p *Parser) parseInterval() ast.Expr {
	p.nextToken() // consume INTERVAL
	e := &ast.IntervalExpr{Value: p.parseExpressionWithPrecedence(dialect.PrecedenceAddition)}
	if p.failed() {
		return e
	}
	e.Unit = strings.ToUpper(p.parseWordValue())
	return e
}

// parseExists parses EXISTS (subquery).
func (p *Parser) parseExists() *ast.ExistsExpr {
	p.nextToken() // consume EXISTS
	e := &ast.ExistsExpr{}
	if !p.expect(token.LPAREN) {
		return e
	}
	e.Select = p.parseSelectStmt()
	p.expect(token.RPAREN)
	return e
}
