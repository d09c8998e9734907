package parser

// DDL parsing.
//
// Grammar:
//
//	create_stmt   → CREATE [OR REPLACE] [TEMPORARY] TABLE create_table
//	              | CREATE [UNIQUE] INDEX name [USING x] ON name "(" index_cols ")" [index_opts]
//	              | CREATE (DATABASE | SCHEMA) [IF NOT EXISTS] name [db_opts]
//	              | CREATE [OR REPLACE] [view_opts] VIEW name ["(" columns ")"] AS select_stmt
//	create_table  → [IF NOT EXISTS] name ( LIKE name | "(" element ("," element)* ")" [table_opts] )
//	element       → column_def | table_constraint
//	column_def    → name data_type column_option*
//	data_type     → type_name ["(" args ")"] [UNSIGNED] [ZEROFILL]
//	                [CHARACTER SET x] [COLLATE x]
//	drop_stmt     → DROP [TEMPORARY] (TABLE | VIEW) [IF EXISTS] names [RESTRICT | CASCADE]
//	              | DROP INDEX name ON name
//	alter_stmt    → ALTER TABLE name alter_spec ("," alter_spec)*
//	truncate_stmt → TRUNCATE [TABLE] name

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func (p *Parser) parseCreate() ast.Statement {
	start := p.pos
	p.nextToken() // consume CREATE

	orReplace := p.ParseKeywords(token.OR, token.REPLACE)
	temporary := p.match(token.TEMPORARY)

	switch {
	case p.check(token.TABLE):
		return p.parseCreateTable(temporary)
	case !orReplace && !temporary && (p.check(token.INDEX) || p.check(token.UNIQUE)):
		return p.parseCreateIndex()
	case !orReplace && !temporary && (p.check(token.DATABASE) || p.check(token.SCHEMA)):
		return p.parseCreateDatabase()
	}

	p.skipViewOptions()
	if p.check(token.VIEW) && !temporary {
		return p.parseCreateView(orReplace)
	}

	p.setPos(start + 1)
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "TABLE, INDEX, DATABASE or VIEW"))
	return nil
}

// ---------- Data Types ----------

// parseDataType parses a column or cast type.
func (p *Parser) parseDataType() *ast.DataType {
	tok := p.token
	if tok.Type != token.IDENT && !token.IsKeyword(tok.Type) || tok.Quote != 0 {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(tok), "data type"))
		return nil
	}
	p.nextToken()
	dt := &ast.DataType{Name: strings.ToLower(tok.Literal)}

	switch dt.Name {
	case "double":
		if p.matchWord("precision") {
			dt.Name = "double precision"
		}
	case "signed", "unsigned":
		if !p.matchWord("integer") {
			p.matchWord("int")
		}
		dt.Unsigned = dt.Name == "unsigned"
	case "long":
		if p.isWord("varchar") || p.isWord("varbinary") {
			dt.Name += " " + strings.ToLower(p.token.Literal)
			p.nextToken()
		}
	case "national":
		if p.isWord("char") || p.isWord("varchar") || p.check(token.CHARACTER) {
			dt.Name += " " + strings.ToLower(p.token.Literal)
			p.nextToken()
		}
	}

	if p.match(token.LPAREN) {
		for !p.failed() {
			switch p.token.Type {
			case token.NUMBER:
				dt.Args = append(dt.Args, p.token.Literal)
			case token.STRING:
				dt.Values = append(dt.Values, p.token.Literal)
			default:
				p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "type argument"))
				return dt
			}
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	for !p.failed() {
		switch {
		case p.match(token.UNSIGNED):
			dt.Unsigned = true
		case p.matchWord("signed"):
		case p.match(token.ZEROFILL):
			dt.Zerofill = true
		case p.check(token.BINARY):
			p.nextToken()
		case p.check(token.CHARACTER) && p.checkPeek(token.SET), p.check(token.CHARSET):
			dt.Charset = p.parseCharsetClause()
		case p.match(token.COLLATE):
			dt.Collation = p.parseWordValue()
		default:
			return dt
		}
	}
	return dt
}

// parseCharsetClause parses (CHARACTER SET | CHARSET) [=] name.
func (p *Parser) parseCharsetClause() string {
	if !p.match(token.CHARSET) {
		p.nextToken() // CHARACTER
		p.nextToken() // SET
	}
	p.match(token.EQ)
	return p.parseWordValue()
}

// ---------- CREATE TABLE ----------

func (p *Parser) parseCreateTable(temporary bool) ast.Statement {
	p.nextToken() // consume TABLE
	stmt := &ast.CreateTableStmt{Temporary: temporary}
	stmt.IfNotExists = p.ParseKeywords(token.IF, token.NOT, token.EXISTS)
	stmt.Name = p.parseObjectName()
	if p.failed() {
		return stmt
	}

	if p.match(token.LIKE) {
		stmt.Like = p.parseObjectName()
		return stmt
	}
	// CREATE TABLE t [AS] SELECT is left for the caller to reject.
	if tableOptionStop[p.token.Type] && !p.check(token.LPAREN) {
		return stmt
	}
	if p.check(token.LPAREN) && p.checkPeek(token.LIKE) {
		p.nextToken()
		p.nextToken()
		stmt.Like = p.parseObjectName()
		p.expect(token.RPAREN)
		return stmt
	}

	if !p.expect(token.LPAREN) {
		return stmt
	}
	for !p.failed() {
		if isConstraintStart(p.token) {
			stmt.Constraints = append(stmt.Constraints, p.parseTableConstraint())
		} else {
			stmt.Columns = append(stmt.Columns, p.parseColumnDef())
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return stmt
	}

	stmt.Options = p.parseTableOptions()
	return stmt
}

func isConstraintStart(tok token.Token) bool {
	switch tok.Type {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.KEY, token.INDEX,
		token.FOREIGN, token.CHECK:
		return true
	}
	return false
}

func (p *Parser) parseColumnDef() *ast.ColumnDef {
	col := &ast.ColumnDef{}
	name, ok := p.parseIdent()
	if !ok {
		return col
	}
	col.Name = name
	col.Type = p.parseDataType()
	if p.failed() {
		return col
	}
	col.Options = p.parseColumnOptions()
	return col
}

// parseColumnOptions parses column attributes until none match.
func (p *Parser) parseColumnOptions() []ast.ColumnOption {
	var opts []ast.ColumnOption
	for !p.failed() {
		switch {
		case p.ParseKeywords(token.NOT, token.NULL):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptNotNull})
		case p.match(token.NULL):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptNull})
		case p.match(token.DEFAULT):
			// bind tighter than NOT so DEFAULT 0 NOT NULL works
			opts = append(opts, ast.ColumnOption{Kind: ast.OptDefault,
				Expr: p.parseExpressionWithPrecedence(dialect.PrecedenceComparison)})
		case p.matchWord("auto_increment"):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptAutoIncrement})
		case p.check(token.PRIMARY) || p.check(token.KEY):
			p.match(token.PRIMARY)
			p.expect(token.KEY)
			opts = append(opts, ast.ColumnOption{Kind: ast.OptPrimaryKey})
		case p.match(token.UNIQUE):
			p.match(token.KEY)
			opts = append(opts, ast.ColumnOption{Kind: ast.OptUnique})
		case p.matchWord("comment"):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptComment, Text: p.parseWordValue()})
		case p.ParseKeywords(token.ON, token.UPDATE):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptOnUpdate, Expr: p.parsePrimary()})
		case p.match(token.COLLATE):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptCollate, Text: p.parseWordValue()})
		case p.check(token.CHARACTER) && p.checkPeek(token.SET), p.check(token.CHARSET):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptCharset, Text: p.parseCharsetClause()})
		case p.check(token.REFERENCES):
			opts = append(opts, ast.ColumnOption{Kind: ast.OptReferences, Ref: p.parseReferences()})
		case p.check(token.CONSTRAINT) && p.peek(1).Is(token.CHECK), p.check(token.CHECK):
			p.match(token.CONSTRAINT)
			p.nextToken()
			opts = append(opts, ast.ColumnOption{Kind: ast.OptCheck, Expr: p.parseParenthesized()})
		case p.ParseWords("generated", "always"), p.check(token.AS):
			p.expect(token.AS)
			opt := ast.ColumnOption{Kind: ast.OptGenerated, Expr: p.parseParenthesized()}
			if p.matchWord("stored") {
				opt.Stored = true
			} else {
				p.matchWord("virtual")
			}
			opts = append(opts, opt)
		case p.matchAnyWord([]string{"visible", "invisible"}):
		case p.matchWord("column_format"), p.matchWord("storage"), p.matchWord("srid"):
			p.parseWordValue()
		default:
			return opts
		}
	}
	return opts
}

// parseParenthesized parses "(" expr ")".
func (p *Parser) parseParenthesized() ast.Expr {
	if !p.expect(token.LPAREN) {
		return nil
	}
	e := p.parseExpression()
	p.expect(token.RPAREN)
	return e
}

// parseReferences parses REFERENCES name (cols) [ON DELETE action] [ON UPDATE action].
func (p *Parser) parseReferences() *ast.ForeignKeyRef {
	p.nextToken() // consume REFERENCES
	ref := &ast.ForeignKeyRef{Table: p.parseObjectName()}
	if p.check(token.LPAREN) {
		ref.Columns = p.parseIdentList()
	}
	p.ParseWords("match", "full")
	for !p.failed() {
		switch {
		case p.ParseKeywords(token.ON, token.DELETE):
			ref.OnDelete = p.parseReferentialAction()
		case p.ParseKeywords(token.ON, token.UPDATE):
			ref.OnUpdate = p.parseReferentialAction()
		default:
			return ref
		}
	}
	return ref
}

func (p *Parser) parseReferentialAction() string {
	switch {
	case p.match(token.CASCADE):
		return "cascade"
	case p.match(token.RESTRICT):
		return "restrict"
	case p.ParseKeywords(token.SET, token.NULL):
		return "set null"
	case p.ParseKeywords(token.SET, token.DEFAULT):
		return "set default"
	case p.ParseKeywords(token.NO, token.ACTION):
		return "no action"
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "referential action"))
	return ""
}

func (p *Parser) parseTableConstraint() *ast.TableConstraint {
	c := &ast.TableConstraint{}
	if p.match(token.CONSTRAINT) {
		if p.check(token.IDENT) {
			id := ast.Ident{Value: p.token.Literal, Quote: p.token.Quote}
			c.Name = &id
			p.nextToken()
		}
	}

	switch {
	case p.match(token.PRIMARY):
		p.expect(token.KEY)
		c.Kind = ast.ConstraintPrimaryKey
	case p.match(token.UNIQUE):
		if !p.match(token.KEY) {
			p.match(token.INDEX)
		}
		c.Kind = ast.ConstraintUnique
	case p.match(token.KEY), p.match(token.INDEX):
		c.Kind = ast.ConstraintIndex
	case p.match(token.FOREIGN):
		p.expect(token.KEY)
		c.Kind = ast.ConstraintForeignKey
	case p.match(token.CHECK):
		c.Kind = ast.ConstraintCheck
		c.Check = p.parseParenthesized()
		p.matchWord("enforced")
		return c
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "constraint"))
		return c
	}

	// optional index name
	if !p.check(token.LPAREN) && !p.check(token.USING) {
		if id, ok := p.parseIdent(); ok && c.Name == nil {
			c.Name = &id
		}
	}
	if p.match(token.USING) {
		c.Using = p.parseWordValue()
	}
	c.Columns = p.parseIndexColumns()

	if c.Kind == ast.ConstraintForeignKey {
		if p.check(token.REFERENCES) {
			c.Ref = p.parseReferences()
		} else {
			p.expect(token.REFERENCES)
		}
		return c
	}
	if using := p.parseIndexOptions(); using != "" {
		c.Using = using
	}
	return c
}

// parseIndexColumns parses "(" name ["(" len ")"] [ASC | DESC] ("," ...)* ")".
func (p *Parser) parseIndexColumns() []ast.IndexColumn {
	var cols []ast.IndexColumn
	if !p.expect(token.LPAREN) {
		return nil
	}
	for !p.failed() {
		name, ok := p.parseIdent()
		if !ok {
			return cols
		}
		col := ast.IndexColumn{Name: name}
		if p.match(token.LPAREN) {
			if p.check(token.NUMBER) {
				col.Length = p.token.Literal
			}
			p.expect(token.NUMBER)
			p.expect(token.RPAREN)
		}
		if p.match(token.DESC) {
			col.Desc = true
		} else {
			p.match(token.ASC)
		}
		cols = append(cols, col)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return cols
}

// parseIndexOptions skips index options and returns the USING method if any.
func (p *Parser) parseIndexOptions() string {
	var using string
	for !p.failed() {
		switch {
		case p.match(token.USING):
			using = p.parseWordValue()
		case p.matchWord("comment"), p.matchWord("key_block_size"):
			p.match(token.EQ)
			p.parseWordValue()
		case p.matchAnyWord([]string{"visible", "invisible"}):
		case p.matchWord("algorithm"), p.matchWord("lock"):
			p.match(token.EQ)
			p.parseWordValue()
		default:
			return using
		}
	}
	return using
}

// tableOptionStop lists tokens that end the table option list.
var tableOptionStop = map[token.TokenType]bool{
	token.SELECT: true, token.AS: true, token.IGNORE: true, token.REPLACE: true,
	token.PARTITION: true, token.WITH: true, token.LPAREN: true,
}

// parseTableOptions parses [DEFAULT] name [=] value, optionally comma separated.
func (p *Parser) parseTableOptions() []ast.TableOption {
	var opts []ast.TableOption
	for !p.failed() {
		if !isNameToken(p.token) || tableOptionStop[p.token.Type] {
			return opts
		}
		opt, ok := p.parseTableOption()
		if !ok {
			return opts
		}
		opts = append(opts, opt)
		if p.check(token.COMMA) && isNameToken(p.peek(1)) {
			p.nextToken()
		}
	}
	return opts
}

// parseTableOption parses one table option. DEFAULT is dropped and
// CHARACTER SET is normalised to charset.
func (p *Parser) parseTableOption() (ast.TableOption, bool) {
	p.match(token.DEFAULT)

	var name string
	switch {
	case p.check(token.CHARACTER) && p.checkPeek(token.SET):
		p.nextToken()
		p.nextToken()
		name = "charset"
	case isNameToken(p.token):
		name = strings.ToLower(p.token.Literal)
		p.nextToken()
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "table option"))
		return ast.TableOption{}, false
	}

	p.match(token.EQ)
	if p.check(token.LPAREN) {
		// UNION = (t1, t2)
		var names []string
		for _, id := range p.parseIdentList() {
			names = append(names, id.Value)
		}
		return ast.TableOption{Name: name, Value: strings.Join(names, ",")}, !p.failed()
	}
	value := p.parseWordValue()
	return ast.TableOption{Name: name, Value: value}, !p.failed()
}

// ---------- CREATE INDEX / DATABASE / VIEW ----------

func (p *Parser) parseCreateIndex() ast.Statement {
	stmt := &ast.CreateIndexStmt{Unique: p.match(token.UNIQUE)}
	if !p.expect(token.INDEX) {
		return stmt
	}
	name, ok := p.parseIdent()
	if !ok {
		return stmt
	}
	stmt.Name = name
	if p.match(token.USING) {
		stmt.Using = p.parseWordValue()
	}
	if !p.expect(token.ON) {
		return stmt
	}
	stmt.Table = p.parseObjectName()
	stmt.Columns = p.parseIndexColumns()
	if using := p.parseIndexOptions(); using != "" {
		stmt.Using = using
	}
	return stmt
}

func (p *Parser) parseCreateDatabase() ast.Statement {
	p.nextToken() // consume DATABASE or SCHEMA
	stmt := &ast.CreateDatabaseStmt{}
	stmt.IfNotExists = p.ParseKeywords(token.IF, token.NOT, token.EXISTS)
	name, ok := p.parseIdent()
	if !ok {
		return stmt
	}
	stmt.Name = name
	stmt.Options = p.parseTableOptions()
	return stmt
}

// skipViewOptions skips ALGORITHM = x, DEFINER = user and SQL SECURITY x.
func (p *Parser) skipViewOptions() {
	for !p.failed() {
		switch {
		case p.matchWord("algorithm"):
			p.match(token.EQ)
			p.parseWordValue()
		case p.matchWord("definer"):
			p.match(token.EQ)
			p.parseUser()
		case p.ParseWords("sql", "security"):
			p.parseWordValue()
		default:
			return
		}
	}
}

func (p *Parser) parseCreateView(orReplace bool) ast.Statement {
	p.nextToken() // consume VIEW
	stmt := &ast.CreateViewStmt{OrReplace: orReplace}
	stmt.Name = p.parseObjectName()
	if p.check(token.LPAREN) {
		stmt.Columns = p.parseIdentList()
	}
	if !p.expect(token.AS) {
		return stmt
	}
	stmt.Select = p.parseSelectStmt()
	if p.check(token.WITH) {
		// WITH [CASCADED | LOCAL] CHECK OPTION
		p.nextToken()
		p.matchAnyWord([]string{"cascaded", "local"})
		p.expect(token.CHECK)
		p.expect(token.OPTION)
	}
	return stmt
}

// ---------- DROP / ALTER / TRUNCATE ----------

func (p *Parser) parseDrop() ast.Statement {
	p.nextToken() // consume DROP
	stmt := &ast.DropStmt{Temporary: p.match(token.TEMPORARY)}

	switch {
	case p.match(token.TABLE):
		stmt.ObjectType = "table"
	case p.match(token.VIEW):
		stmt.ObjectType = "view"
	case !stmt.Temporary && p.match(token.INDEX):
		stmt.ObjectType = "index"
		name := p.parseObjectName()
		stmt.Names = []ast.ObjectName{name}
		if p.expect(token.ON) {
			stmt.Table = p.parseObjectName()
		}
		return stmt
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "TABLE, VIEW or INDEX"))
		return stmt
	}

	stmt.IfExists = p.ParseKeywords(token.IF, token.EXISTS)
	for !p.failed() {
		stmt.Names = append(stmt.Names, p.parseObjectName())
		if !p.match(token.COMMA) {
			break
		}
	}
	if p.match(token.CASCADE) {
		stmt.Cascade = true
	} else {
		p.match(token.RESTRICT)
	}
	return stmt
}

func (p *Parser) parseAlter() ast.Statement {
	p.nextToken() // consume ALTER
	stmt := &ast.AlterTableStmt{}
	p.matchWord("online")
	p.match(token.IGNORE)
	if !p.expect(token.TABLE) {
		return stmt
	}
	stmt.Name = p.parseObjectName()
	for !p.failed() {
		if p.check(token.SEMICOLON) || p.check(token.EOF) {
			break
		}
		stmt.Specs = append(stmt.Specs, p.parseAlterSpec())
		if !p.match(token.COMMA) {
			break
		}
	}
	return stmt
}

func (p *Parser) parseAlterSpec() *ast.AlterSpec {
	spec := &ast.AlterSpec{}
	switch {
	case p.match(token.ADD):
		if isConstraintStart(p.token) {
			spec.Kind = ast.AlterAddConstraint
			spec.Constraint = p.parseTableConstraint()
			return spec
		}
		p.match(token.COLUMN)
		spec.Kind = ast.AlterAddColumn
		spec.Column = p.parseColumnDef()
		p.parseColumnPosition()

	case p.match(token.DROP):
		switch {
		case p.ParseKeywords(token.PRIMARY, token.KEY):
			spec.Kind = ast.AlterDropPrimaryKey
		case p.ParseKeywords(token.FOREIGN, token.KEY):
			spec.Kind = ast.AlterDropForeignKey
			spec.Name, _ = p.parseIdent()
		case p.match(token.INDEX), p.match(token.KEY):
			spec.Kind = ast.AlterDropIndex
			spec.Name, _ = p.parseIdent()
		default:
			p.match(token.COLUMN)
			spec.Kind = ast.AlterDropColumn
			spec.Name, _ = p.parseIdent()
		}

	case p.matchWord("modify"):
		p.match(token.COLUMN)
		spec.Kind = ast.AlterModifyColumn
		spec.Column = p.parseColumnDef()
		p.parseColumnPosition()

	case p.matchWord("change"):
		p.match(token.COLUMN)
		spec.Kind = ast.AlterChangeColumn
		spec.Name, _ = p.parseIdent()
		spec.Column = p.parseColumnDef()
		p.parseColumnPosition()

	case p.matchWord("rename"):
		if !p.match(token.TO) {
			p.match(token.AS)
		}
		spec.Kind = ast.AlterRename
		spec.NewName = p.parseObjectName()

	case p.check(token.CONVERT):
		p.nextToken()
		p.expect(token.TO)
		spec.Kind = ast.AlterConvertCharset
		if p.check(token.CHARACTER) || p.check(token.CHARSET) {
			spec.Charset = p.parseCharsetClause()
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "CHARACTER SET"))
			return spec
		}
		if p.match(token.COLLATE) {
			spec.Collation = p.parseWordValue()
		}

	default:
		if !isNameToken(p.token) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.describe(p.token), "alter specification"))
			return spec
		}
		opt, ok := p.parseTableOption()
		if ok {
			spec.Kind = ast.AlterOption
			spec.Option = &opt
		}
	}
	return spec
}

// parseColumnPosition skips FIRST or AFTER name.
func (p *Parser) parseColumnPosition() {
	if p.match(token.FIRST) {
		return
	}
	if p.matchWord("after") {
		p.parseIdent()
	}
}

func (p *Parser) parseTruncate() ast.Statement {
	p.nextToken() // consume TRUNCATE
	p.match(token.TABLE)
	return &ast.TruncateStmt{Name: p.parseObjectName()}
}
