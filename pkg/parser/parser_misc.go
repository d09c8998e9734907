package parser

// Session, transaction, privilege and introspection statements.
//
// Grammar:
//
//	use_stmt     → USE name
//	set_stmt     → SET NAMES charset [COLLATE x] | SET (CHARACTER SET | CHARSET) charset
//	             | SET [scope] TRANSACTION characteristic ("," characteristic)*
//	             | SET [scope] var ("=" | ":=") expr ("," [scope] var ("=" | ":=") expr)*
//	start_stmt   → START TRANSACTION [mode ("," mode)*] | BEGIN [WORK]
//	commit_stmt  → COMMIT [WORK] [AND [NO] CHAIN] [[NO] RELEASE]
//	rollback     → ROLLBACK [WORK] [TO [SAVEPOINT] name]
//	savepoint    → SAVEPOINT name | RELEASE SAVEPOINT name
//	grant_stmt   → GRANT privileges ON [TABLE | FUNCTION | PROCEDURE] object
//	               TO user ("," user)* [WITH GRANT OPTION]
//	show_stmt    → SHOW [FULL] words [name] [(FROM | IN) name] [LIKE expr | WHERE expr]
//	explain_stmt → (EXPLAIN | DESCRIBE | DESC) (statement | name [column])

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/token"
)

// parseStatement dispatches on the first token of a statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.token.Type {
	case token.SELECT, token.WITH, token.LPAREN:
		return p.parseSelectStmt()
	case token.INSERT, token.REPLACE:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.CREATE:
		return p.parseCreate()
	case token.DROP:
		return p.parseDrop()
	case token.ALTER:
		return p.parseAlter()
	case token.TRUNCATE:
		return p.parseTruncate()
	case token.USE:
		return p.parseUse()
	case token.SET:
		return p.parseSet()
	case token.START, token.BEGIN:
		return p.parseStartTransaction()
	case token.COMMIT:
		return p.parseCommit()
	case token.ROLLBACK:
		return p.parseRollback()
	case token.SAVEPOINT:
		p.nextToken()
		name, _ := p.parseIdent()
		return &ast.SavepointStmt{Name: name}
	case token.RELEASE:
		p.nextToken()
		p.expect(token.SAVEPOINT)
		name, _ := p.parseIdent()
		return &ast.ReleaseSavepointStmt{Name: name}
	case token.GRANT:
		return p.parseGrant()
	case token.DESC:
		return p.parseExplain()
	}

	switch {
	case p.isWord("show"):
		return p.parseShow()
	case p.isWord("explain"), p.isWord("describe"):
		return p.parseExplain()
	}

	p.addError(fmt.Sprintf(ErrExpectedStatement, p.describe(p.token)))
	return nil
}

func (p *Parser) parseUse() ast.Statement {
	p.nextToken() // consume USE
	name, _ := p.parseIdent()
	return &ast.UseStmt{Name: name}
}

// ---------- SET ----------

var scopeWords = []string{"global", "session", "local", "persist", "persist_only"}

func (p *Parser) parseSet() ast.Statement {
	p.nextToken() // consume SET

	switch {
	case p.match(token.NAMES):
		stmt := &ast.SetNamesStmt{Charset: p.parseCharsetName()}
		if p.match(token.COLLATE) {
			stmt.Collation = p.parseWordValue()
		}
		return stmt
	case p.check(token.CHARACTER) && p.checkPeek(token.SET), p.check(token.CHARSET):
		return &ast.SetNamesStmt{Charset: p.parseCharsetClause()}
	}

	start := p.pos
	var scope string
	if p.matchAnyWord(scopeWords) {
		scope = strings.ToLower(p.tokens[start].Literal)
	}
	if p.match(token.TRANSACTION) {
		return &ast.SetTransactionStmt{Scope: scope, Characteristics: p.parseCharacteristics()}
	}
	p.setPos(start)

	stmt := &ast.SetStmt{}
	for !p.failed() {
		v := ast.SetVariable{}
		if p.isAnyWord(scopeWords) && isNameToken(p.peek(1)) && !p.peek(1).Is(token.EQ) {
			v.Scope = strings.ToLower(p.token.Literal)
			p.nextToken()
		}
		v.Name = p.parseObjectName()
		if !p.match(token.EQ) && !p.expect(token.ASSIGN) {
			return stmt
		}
		v.Value = p.parseSetValue()
		stmt.Variables = append(stmt.Variables, v)
		if !p.match(token.COMMA) {
			break
		}
	}
	return stmt
}

// parseCharsetName parses a charset name or DEFAULT.
func (p *Parser) parseCharsetName() string {
	return p.parseWordValue()
}

// parseSetValue parses the right side of a SET assignment. ON, OFF and
// other bare reserved words are accepted as names.
func (p *Parser) parseSetValue() ast.Expr {
	if p.check(token.ON) || p.check(token.BINARY) && !p.checkPeek(token.LPAREN) {
		tok := p.token
		p.nextToken()
		return &ast.ColumnRef{Name: ast.ObjectName{{Value: tok.Literal}}}
	}
	return p.parseExpression()
}

func (p *Parser) isAnyWord(words []string) bool {
	for _, w := range words {
		if p.isWord(w) {
			return true
		}
	}
	return false
}

// parseCharacteristics collects comma separated word groups such as
// "isolation level read committed" until the end of the statement.
func (p *Parser) parseCharacteristics() []string {
	var out []string
	var words []string
	flush := func() {
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
			words = nil
		}
	}
	for !p.check(token.SEMICOLON) && !p.check(token.EOF) {
		if p.match(token.COMMA) {
			flush()
			continue
		}
		if !isNameToken(p.token) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "transaction characteristic"))
			return out
		}
		words = append(words, strings.ToLower(p.token.Literal))
		p.nextToken()
	}
	flush()
	return out
}

// ---------- Transactions ----------

func (p *Parser) parseStartTransaction() ast.Statement {
	if p.match(token.BEGIN) {
		p.match(token.WORK)
		return &ast.StartTransactionStmt{Begin: true}
	}
	p.nextToken() // consume START
	if !p.expect(token.TRANSACTION) {
		return nil
	}
	return &ast.StartTransactionStmt{Modes: p.parseCharacteristics()}
}

func (p *Parser) parseCommit() ast.Statement {
	p.nextToken() // consume COMMIT
	p.match(token.WORK)
	p.skipCompletion()
	return &ast.CommitStmt{}
}

// skipCompletion skips [AND [NO] CHAIN] [[NO] RELEASE].
func (p *Parser) skipCompletion() {
	if p.match(token.AND) {
		p.match(token.NO)
		p.expectWord("chain")
	}
	if p.ParseKeywords(token.NO, token.RELEASE) {
		return
	}
	p.match(token.RELEASE)
}

func (p *Parser) parseRollback() ast.Statement {
	p.nextToken() // consume ROLLBACK
	p.match(token.WORK)
	stmt := &ast.RollbackStmt{}
	if p.match(token.TO) {
		p.match(token.SAVEPOINT)
		if name, ok := p.parseIdent(); ok {
			stmt.Savepoint = &name
		}
		return stmt
	}
	p.skipCompletion()
	return stmt
}

// ---------- GRANT ----------

func (p *Parser) parseGrant() ast.Statement {
	p.nextToken() // consume GRANT
	stmt := &ast.GrantStmt{}

	if p.match(token.ALL) {
		p.match(token.PRIVILEGES)
		stmt.All = true
	} else {
		for !p.failed() {
			priv := p.parsePrivilege()
			if p.failed() {
				return stmt
			}
			stmt.Privileges = append(stmt.Privileges, priv)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.expect(token.ON) {
		return stmt
	}
	switch {
	case p.match(token.TABLE):
		stmt.ObjectType = "table"
	case p.match(token.FUNCTION):
		stmt.ObjectType = "function"
	case p.matchWord("procedure"):
		stmt.ObjectType = "procedure"
	}
	stmt.Object = p.parseGrantObject()

	if !p.expect(token.TO) {
		return stmt
	}
	for !p.failed() {
		stmt.Grantees = append(stmt.Grantees, p.parseUser())
		if p.ParseWords("identified", "by") {
			p.parseWordValue()
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if p.ParseKeywords(token.WITH, token.GRANT, token.OPTION) {
		stmt.WithGrantOption = true
	}
	return stmt
}

// parsePrivilege parses privilege words with an optional column list.
func (p *Parser) parsePrivilege() ast.Privilege {
	var words []string
	for isNameToken(p.token) && !p.check(token.ON) {
		words = append(words, strings.ToLower(p.token.Literal))
		p.nextToken()
	}
	if len(words) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "privilege"))
		return ast.Privilege{}
	}
	priv := ast.Privilege{Name: strings.Join(words, " ")}
	if p.check(token.LPAREN) {
		priv.Columns = p.parseIdentList()
	}
	return priv
}

// parseGrantObject parses *, *.*, db.*, db.name or name.
func (p *Parser) parseGrantObject() ast.ObjectName {
	var name ast.ObjectName
	for !p.failed() {
		if p.match(token.STAR) {
			name = append(name, ast.Ident{Value: "*"})
		} else {
			id, ok := p.parseNamePart()
			if !ok {
				return name
			}
			name = append(name, id)
		}
		if !p.match(token.DOT) {
			break
		}
	}
	return name
}

// parseUser parses 'user'@'host', user@host or CURRENT_USER[()] and returns
// its source text.
func (p *Parser) parseUser() string {
	tok := p.token
	if tok.Type != token.STRING && tok.Type != token.IDENT {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(tok), "user"))
		return ""
	}
	p.nextToken()
	user := tok.Text()
	if strings.EqualFold(tok.Literal, "current_user") && p.match(token.LPAREN) {
		p.expect(token.RPAREN)
		return user
	}

	next := p.token
	if next.Type == token.IDENT && next.Quote == 0 && strings.HasPrefix(next.Literal, "@") {
		p.nextToken()
		user += next.Literal
		if next.Literal == "@" && (p.check(token.STRING) || p.check(token.IDENT)) {
			user += p.token.Text()
			p.nextToken()
		}
	}
	return user
}

// ---------- SHOW / EXPLAIN ----------

var showClauseStart = map[token.TokenType]bool{
	token.FROM: true, token.IN: true, token.LIKE: true, token.WHERE: true,
	token.SEMICOLON: true, token.EOF: true,
}

func (p *Parser) parseShow() ast.Statement {
	p.nextToken() // consume SHOW
	stmt := &ast.ShowStmt{Full: p.match(token.FULL)}

	if p.match(token.CREATE) {
		if !isNameToken(p.token) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "object type"))
			return stmt
		}
		stmt.Kind = "create " + strings.ToLower(p.token.Literal)
		p.nextToken()
		stmt.Target = p.parseObjectName()
		return stmt
	}

	var words []string
	for !showClauseStart[p.token.Type] && isNameToken(p.token) {
		words = append(words, strings.ToLower(p.token.Literal))
		p.nextToken()
	}
	if len(words) == 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "SHOW target"))
		return stmt
	}
	stmt.Kind = strings.Join(words, " ")

	if p.match(token.FROM) || p.match(token.IN) {
		stmt.From = p.parseObjectName()
		if p.match(token.FROM) || p.match(token.IN) {
			stmt.From = append(p.parseObjectName(), stmt.From...)
		}
	}
	switch {
	case p.match(token.LIKE):
		stmt.Like = p.parsePrimary()
	case p.match(token.WHERE):
		stmt.Where = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parseExplain() ast.Statement {
	p.nextToken() // consume EXPLAIN, DESCRIBE or DESC
	stmt := &ast.ExplainStmt{}

	for p.matchAnyWord([]string{"extended", "partitions", "analyze"}) {
	}
	if p.matchWord("format") {
		p.expect(token.EQ)
		p.parseWordValue()
	}

	switch p.token.Type {
	case token.SELECT, token.WITH, token.LPAREN, token.INSERT, token.REPLACE,
		token.UPDATE, token.DELETE:
		stmt.Stmt = p.parseStatement()
		return stmt
	}

	stmt.Table = p.parseObjectName()
	if p.check(token.IDENT) || p.check(token.STRING) {
		p.nextToken()
	}
	return stmt
}
