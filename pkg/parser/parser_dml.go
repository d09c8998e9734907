package parser

// INSERT, REPLACE, UPDATE and DELETE parsing.
//
// Grammar:
//
//	insert_stmt  → (INSERT | REPLACE) [LOW_PRIORITY | DELAYED | HIGH_PRIORITY] [IGNORE]
//	               [INTO] name [PARTITION (names)] ["(" columns ")"]
//	               (VALUES | VALUE) row ("," row)* | select_stmt | SET assignments
//	               [ON DUPLICATE KEY UPDATE assignments]
//	row          → "(" [expr ("," expr)*] ")"
//	update_stmt  → UPDATE [LOW_PRIORITY] [IGNORE] from_clause SET assignments
//	               [WHERE expr] [ORDER BY order_list] [LIMIT expr]
//	delete_stmt  → DELETE [LOW_PRIORITY] [QUICK] [IGNORE]
//	               ( FROM name [WHERE expr] [ORDER BY order_list] [LIMIT expr]
//	               | targets FROM from_clause [WHERE expr]
//	               | FROM targets USING from_clause [WHERE expr] )
//	assignments  → name "=" expr ("," name "=" expr)*

import (
	"fmt"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func (p *Parser) parseInsert() *ast.InsertStmt {
	stmt := &ast.InsertStmt{Replace: p.check(token.REPLACE)}
	p.nextToken() // consume INSERT or REPLACE

	p.matchAnyWord([]string{"low_priority", "delayed", "high_priority"})
	stmt.Ignore = p.match(token.IGNORE)
	p.match(token.INTO)

	stmt.Table = p.parseObjectName()
	if p.failed() {
		return stmt
	}
	if p.match(token.PARTITION) {
		p.parseIdentList()
	}
	if p.check(token.LPAREN) && !p.checkPeek(token.SELECT) && !p.checkPeek(token.WITH) {
		if p.checkPeek(token.RPAREN) {
			p.nextToken()
			p.nextToken()
		} else {
			stmt.Columns = p.parseIdentList()
		}
	}

	switch {
	case p.match(token.VALUES), p.matchWord("value"):
		stmt.Values = p.parseValueRows()
	case p.check(token.SELECT), p.check(token.WITH), p.check(token.LPAREN):
		stmt.Select = p.parseSelectStmt()
	case p.match(token.SET):
		stmt.Set = p.parseAssignments()
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "VALUES, SELECT or SET"))
		return stmt
	}

	if !stmt.Replace && p.ParseKeywords(token.ON, token.DUPLICATE, token.KEY, token.UPDATE) {
		stmt.OnDuplicate = p.parseAssignments()
	}
	return stmt
}

func (p *Parser) parseValueRows() [][]ast.Expr {
	var rows [][]ast.Expr
	for !p.failed() {
		if !p.expect(token.LPAREN) {
			return rows
		}
		row := []ast.Expr{}
		if !p.check(token.RPAREN) {
			row = p.parseExpressionList()
		}
		p.expect(token.RPAREN)
		rows = append(rows, row)
		if !p.match(token.COMMA) {
			break
		}
	}
	return rows
}

func (p *Parser) parseAssignments() []ast.Assignment {
	var out []ast.Assignment
	for !p.failed() {
		a := ast.Assignment{Column: p.parseObjectName()}
		if !p.match(token.EQ) && !p.expect(token.ASSIGN) {
			return out
		}
		a.Value = p.parseExpression()
		out = append(out, a)
		if !p.match(token.COMMA) {
			break
		}
	}
	return out
}

func (p *Parser) parseUpdate() *ast.UpdateStmt {
	p.nextToken() // consume UPDATE
	stmt := &ast.UpdateStmt{}
	p.matchWord("low_priority")
	stmt.Ignore = p.match(token.IGNORE)

	stmt.Tables = p.parseFromClause()
	if !p.expect(token.SET) {
		return stmt
	}
	stmt.Set = p.parseAssignments()
	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	if p.match(token.ORDER) {
		p.expect(token.BY)
		stmt.OrderBy = p.parseOrderByList()
	}
	if p.match(token.LIMIT) {
		stmt.Limit = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parseDelete() *ast.DeleteStmt {
	p.nextToken() // consume DELETE
	stmt := &ast.DeleteStmt{}
	p.matchWord("low_priority")
	p.matchWord("quick")
	stmt.Ignore = p.match(token.IGNORE)

	if !p.match(token.FROM) {
		// DELETE t1, t2 FROM ...
		stmt.Targets = p.parseDeleteTargets()
		if !p.expect(token.FROM) {
			return stmt
		}
		stmt.From = p.parseFromClause()
	} else {
		from := p.parseFromClause()
		if p.match(token.USING) {
			// DELETE FROM t1, t2 USING ...
			stmt.Targets = fromTables(from)
			from = p.parseFromClause()
		}
		stmt.From = from
	}

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	if p.match(token.ORDER) {
		p.expect(token.BY)
		stmt.OrderBy = p.parseOrderByList()
	}
	if p.match(token.LIMIT) {
		stmt.Limit = p.parseExpression()
	}
	return stmt
}

// parseDeleteTargets parses name[.*] ("," name[.*])*.
func (p *Parser) parseDeleteTargets() []ast.ObjectName {
	var names []ast.ObjectName
	for !p.failed() {
		names = append(names, p.parseObjectName())
		if p.check(token.DOT) && p.checkPeek(token.STAR) {
			p.nextToken()
			p.nextToken()
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return names
}

// fromTables returns the plain table names of a FROM clause.
func fromTables(from *ast.FromClause) []ast.ObjectName {
	var names []ast.ObjectName
	add := func(ref ast.TableRef) {
		if t, ok := ref.(*ast.TableName); ok {
			names = append(names, t.Name)
		}
	}
	add(from.Source)
	for _, j := range from.Joins {
		add(j.Right)
	}
	return names
}
