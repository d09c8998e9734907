// Package parser provides a MySQL-flavoured SQL parser with a dialect hook.
//
// # Usage
//
//	d, _ := dialect.Get("mysql")
//	stmts, err := parser.Parse(sql, d)
//
// The statement loop hands every statement start to the dialect first (see
// dialect.Dialect.ParseStatement). Statements the dialect leaves alone are
// parsed by the native grammar.
//
// # Grammar Overview
//
//	script        → [statement] (";" [statement])* EOF
//	statement     → select_stmt | insert_stmt | update_stmt | delete_stmt
//	              | create_stmt | drop_stmt | alter_stmt | truncate_stmt
//	              | use_stmt | set_stmt | transaction_stmt | grant_stmt
//	              | show_stmt | explain_stmt
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/token"
)

const snippetLen = 40

// Parser parses SQL into statements. It implements dialect.Ops.
//
// A Parser is not safe for concurrent use; create one per input.
type Parser struct {
	input   string
	tokens  []token.Token
	pos     int         // index of the current token
	token   token.Token // current token
	errors  []error
	dialect dialect.Dialect // optional

	// delegating is set while ParseNative runs, so the dialect hook defers
	// instead of intercepting its own fallback.
	delegating bool
}

var _ dialect.Ops = (*Parser)(nil)

// New creates a parser for sql. The input is tokenized up front so the
// dialect can push back and rewind freely. A nil dialect parses with ASCII
// identifiers, default precedence and no statement hook.
func New(sql string, d dialect.Dialect) *Parser {
	var rules IdentRules
	if d != nil {
		rules = d
	}
	p := &Parser{
		input:   sql,
		tokens:  Tokenize(sql, rules),
		dialect: d,
	}
	p.setPos(0)
	return p
}

// Parse parses every statement of sql.
func Parse(sql string, d dialect.Dialect) ([]ast.Statement, error) {
	return New(sql, d).ParseStatements()
}

// Dialect returns the parser's dialect, if any.
func (p *Parser) Dialect() dialect.Dialect {
	return p.dialect
}

// ParseStatements runs the statement loop until end of input. Empty
// statements are skipped. Every statement must end with ";" or end of input.
func (p *Parser) ParseStatements() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		for p.match(token.SEMICOLON) {
		}
		if p.check(token.EOF) {
			return stmts, nil
		}

		start := p.pos
		stmt, err := p.parseNext()
		if err != nil {
			return nil, err
		}
		if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			return nil, p.Errorf(ErrExpectedTerminator, p.describe(p.token))
		}
		stmt.SetSource(p.source(start, p.pos))
		stmts = append(stmts, stmt)
	}
}

// parseNext offers the statement to the dialect, then to the native grammar.
func (p *Parser) parseNext() (ast.Statement, error) {
	if p.dialect != nil {
		stmt, handled, err := p.dialect.ParseStatement(p)
		if err != nil {
			return nil, err
		}
		if handled {
			return stmt, nil
		}
	}

	base := len(p.errors)
	stmt := p.parseStatement()
	if len(p.errors) > base {
		err := p.errors[base]
		p.errors = p.errors[:base]
		return nil, err
	}
	return stmt, nil
}

// source returns the raw text from token index start up to token index end.
func (p *Parser) source(start, end int) string {
	from := p.tokens[start].Pos.Offset
	to := p.tokens[end].Pos.Offset
	if to > len(p.input) {
		to = len(p.input)
	}
	if from > to {
		return ""
	}
	return strings.TrimSpace(p.input[from:to])
}

// ---------- Token Helpers ----------

func (p *Parser) setPos(i int) {
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	if i < 0 {
		i = 0
	}
	p.pos = i
	p.token = p.tokens[i]
}

// nextToken advances to the next token. It stops at EOF.
func (p *Parser) nextToken() {
	if p.token.Type != token.EOF {
		p.setPos(p.pos + 1)
	}
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the next token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek(1).Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), t))
	return false
}

// isWord reports whether the current token is the unquoted word w.
func (p *Parser) isWord(w string) bool {
	return p.token.IsWord(w)
}

// matchWord consumes the current token if it is the word w.
func (p *Parser) matchWord(w string) bool {
	if p.isWord(w) {
		p.nextToken()
		return true
	}
	return false
}

// expectWord consumes the word w, otherwise adds an error.
func (p *Parser) expectWord(w string) bool {
	if p.matchWord(w) {
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), strings.ToUpper(w)))
	return false
}

// failed reports whether any error was recorded.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, p.Errorf("%s", msg))
}

// describe renders a token for error messages.
func (p *Parser) describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "EOF"
	case token.ILLEGAL:
		return fmt.Sprintf(ErrIllegalInput, tok.Literal)
	case token.IDENT, token.NUMBER, token.STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// ---------- dialect.Ops Implementation ----------

// NextToken returns the current token and advances (implements dialect.Ops).
func (p *Parser) NextToken() token.Token {
	tok := p.token
	p.nextToken()
	return tok
}

// PeekToken returns the current token (implements dialect.Ops).
func (p *Parser) PeekToken() token.Token {
	return p.token
}

// PrevToken steps back one token (implements dialect.Ops).
func (p *Parser) PrevToken() {
	p.setPos(p.pos - 1)
}

// ParseKeyword consumes a keyword of type t (implements dialect.Ops).
func (p *Parser) ParseKeyword(t token.TokenType) bool {
	return p.match(t)
}

// ParseKeywords consumes the whole sequence or nothing (implements dialect.Ops).
func (p *Parser) ParseKeywords(ts ...token.TokenType) bool {
	start := p.pos
	for _, t := range ts {
		if !p.match(t) {
			p.setPos(start)
			return false
		}
	}
	return true
}

// ParseWords consumes the whole word sequence or nothing (implements dialect.Ops).
func (p *Parser) ParseWords(words ...string) bool {
	start := p.pos
	for _, w := range words {
		if !p.matchWord(w) {
			p.setPos(start)
			return false
		}
	}
	return true
}

// Index returns the cursor (implements dialect.Ops).
func (p *Parser) Index() int {
	return p.pos
}

// Rewind moves the cursor to index (implements dialect.Ops).
func (p *Parser) Rewind(index int) {
	p.setPos(index)
}

// Delegating reports whether ParseNative is running (implements dialect.Ops).
func (p *Parser) Delegating() bool {
	return p.delegating
}

// ParseNative parses the statement at the cursor through the statement
// hook chain with the delegating flag set, so the dialect defers to the
// native grammar (implements dialect.Ops).
func (p *Parser) ParseNative() (ast.Statement, error) {
	prev := p.delegating
	p.delegating = true
	defer func() { p.delegating = prev }()
	return p.parseNext()
}

// Snippet returns source text starting at the current token, or the tail of
// the input at EOF (implements dialect.Ops).
func (p *Parser) Snippet() string {
	if p.token.Type == token.EOF {
		tail := strings.TrimSpace(p.input)
		if len(tail) > snippetLen {
			i := len(tail) - snippetLen
			for i < len(tail) && !utf8.RuneStart(tail[i]) {
				i++
			}
			tail = "..." + tail[i:]
		}
		return tail
	}
	rest := p.input[p.token.Pos.Offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) > snippetLen {
		i := snippetLen
		for i > 0 && !utf8.RuneStart(rest[i]) {
			i--
		}
		rest = rest[:i] + "..."
	}
	return strings.TrimSpace(rest)
}

// Errorf returns a *ParseError at the current token. Errors raised at end
// of input wrap ErrUnexpectedEOF (implements dialect.Ops).
func (p *Parser) Errorf(format string, args ...any) error {
	e := &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(format, args...),
		Snippet: p.Snippet(),
	}
	if p.token.Type == token.EOF {
		e.Err = ErrUnexpectedEOF
	}
	return e
}

// ---------- Shared Grammar Helpers ----------

// parseIdent parses an identifier. Unreserved keywords are accepted.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	tok := p.token
	if tok.Type == token.IDENT || token.IsKeyword(tok.Type) && !token.IsReserved(tok.Type) {
		p.nextToken()
		return ast.Ident{Value: tok.Literal, Quote: tok.Quote}, true
	}
	p.addError(fmt.Sprintf(ErrExpectedIdent, p.describe(tok)))
	return ast.Ident{}, false
}

// parseNamePart parses an identifier after a dot, where reserved words
// are allowed too.
func (p *Parser) parseNamePart() (ast.Ident, bool) {
	tok := p.token
	if tok.Type == token.IDENT || token.IsKeyword(tok.Type) {
		p.nextToken()
		return ast.Ident{Value: tok.Literal, Quote: tok.Quote}, true
	}
	p.addError(fmt.Sprintf(ErrExpectedIdent, p.describe(tok)))
	return ast.Ident{}, false
}

// parseObjectName parses ident ("." ident)*.
func (p *Parser) parseObjectName() ast.ObjectName {
	first, ok := p.parseIdent()
	if !ok {
		return nil
	}
	name := ast.ObjectName{first}
	for p.check(token.DOT) && !p.checkPeek(token.STAR) {
		p.nextToken()
		part, ok := p.parseNamePart()
		if !ok {
			return name
		}
		name = append(name, part)
	}
	return name
}

// parseIdentList parses "(" ident ("," ident)* ")".
func (p *Parser) parseIdentList() []ast.Ident {
	var ids []ast.Ident
	if !p.expect(token.LPAREN) {
		return nil
	}
	for {
		id, ok := p.parseIdent()
		if !ok {
			return ids
		}
		ids = append(ids, id)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return ids
}

// parseExpressionList parses expr ("," expr)*.
func (p *Parser) parseExpressionList() []ast.Expr {
	var exprs []ast.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if p.failed() || !p.match(token.COMMA) {
			return exprs
		}
	}
}

// parseOrderByList parses order_item ("," order_item)* after ORDER BY.
func (p *Parser) parseOrderByList() []ast.OrderByItem {
	var items []ast.OrderByItem
	for {
		item := ast.OrderByItem{Expr: p.parseExpression()}
		if p.match(token.DESC) {
			item.Desc = true
		} else {
			p.match(token.ASC)
		}
		items = append(items, item)
		if p.failed() || !p.match(token.COMMA) {
			return items
		}
	}
}

// parseWordValue parses a bare word, string or number. Words are
// lowercased, strings keep their text. Used for option values such as
// ENGINE=InnoDB or COMMENT 'text'.
func (p *Parser) parseWordValue() string {
	tok := p.token
	switch {
	case tok.Type == token.STRING, tok.Type == token.NUMBER:
		p.nextToken()
		return tok.Literal
	case tok.Type == token.IDENT, token.IsKeyword(tok.Type):
		p.nextToken()
		return strings.ToLower(tok.Literal)
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(tok), "value"))
		return ""
	}
}
