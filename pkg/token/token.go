// Package token defines the token types for SQL parsing.
//
// Grammar keywords are defined as constants (IDs 0-999) for switch performance.
// Dialect-specific keywords are registered dynamically via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier, quoted or not
	NUMBER // 123, 45.67, 1e10, 0xff
	STRING // 'hello'

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	DAMP      // &&
	EQ        // =
	NE        // != or <>
	NSEQ      // <=>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	ASSIGN    // :=
	SHL       // <<
	SHR       // >>
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	BANG      // !
	ARROW     // ->
	LONGARROW // ->>
	DOT       // .
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	QUESTION  // ?
	LPAREN    // (
	RPAREN    // )

	// Keywords (alphabetical)
	ACTION
	ADD
	ALL
	ALTER
	AND
	AS
	ASC
	BEGIN
	BETWEEN
	BINARY
	BY
	CASCADE
	CASE
	CAST
	CHARACTER
	CHARSET
	CHECK
	COLLATE
	COLUMN
	COMMIT
	CONSTRAINT
	CONVERT
	CREATE
	CROSS
	DATABASE
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DIV
	DROP
	DUPLICATE
	ELSE
	END
	EXISTS
	FALSE
	FIRST
	FOR
	FOREIGN
	FROM
	FULL
	FUNCTION
	GRANT
	GROUP
	HAVING
	IF
	IGNORE
	IN
	INDEX
	INNER
	INSERT
	INTERVAL
	INTO
	IS
	JOIN
	KEY
	LAST
	LEFT
	LIKE
	LIMIT
	MOD
	NAMES
	NATURAL
	NO
	NOT
	NULL
	OFFSET
	ON
	OPTION
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRIMARY
	PRIVILEGES
	RECURSIVE
	REFERENCES
	REGEXP
	RELEASE
	REPLACE
	RESTRICT
	RIGHT
	ROLLBACK
	ROWS
	SAVEPOINT
	SCHEMA
	SELECT
	SET
	START
	TABLE
	TEMPORARY
	THEN
	TO
	TRANSACTION
	TRUE
	TRUNCATE
	UNION
	UNIQUE
	UNSIGNED
	UPDATE
	USE
	USING
	VALUES
	VIEW
	WHEN
	WHERE
	WITH
	WORK
	XOR
	ZEROFILL

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	DAMP:      "&&",
	EQ:        "=",
	NE:        "!=",
	NSEQ:      "<=>",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	ASSIGN:    ":=",
	SHL:       "<<",
	SHR:       ">>",
	AMP:       "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	BANG:      "!",
	ARROW:     "->",
	LONGARROW: "->>",
	DOT:       ".",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	QUESTION:  "?",
	LPAREN:    "(",
	RPAREN:    ")",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"action":      ACTION,
	"add":         ADD,
	"all":         ALL,
	"alter":       ALTER,
	"and":         AND,
	"as":          AS,
	"asc":         ASC,
	"begin":       BEGIN,
	"between":     BETWEEN,
	"binary":      BINARY,
	"by":          BY,
	"cascade":     CASCADE,
	"case":        CASE,
	"cast":        CAST,
	"character":   CHARACTER,
	"charset":     CHARSET,
	"check":       CHECK,
	"collate":     COLLATE,
	"column":      COLUMN,
	"commit":      COMMIT,
	"constraint":  CONSTRAINT,
	"convert":     CONVERT,
	"create":      CREATE,
	"cross":       CROSS,
	"database":    DATABASE,
	"default":     DEFAULT,
	"delete":      DELETE,
	"desc":        DESC,
	"distinct":    DISTINCT,
	"div":         DIV,
	"drop":        DROP,
	"duplicate":   DUPLICATE,
	"else":        ELSE,
	"end":         END,
	"exists":      EXISTS,
	"false":       FALSE,
	"first":       FIRST,
	"for":         FOR,
	"foreign":     FOREIGN,
	"from":        FROM,
	"full":        FULL,
	"function":    FUNCTION,
	"grant":       GRANT,
	"group":       GROUP,
	"having":      HAVING,
	"if":          IF,
	"ignore":      IGNORE,
	"in":          IN,
	"index":       INDEX,
	"inner":       INNER,
	"insert":      INSERT,
	"interval":    INTERVAL,
	"into":        INTO,
	"is":          IS,
	"join":        JOIN,
	"key":         KEY,
	"last":        LAST,
	"left":        LEFT,
	"like":        LIKE,
	"limit":       LIMIT,
	"mod":         MOD,
	"names":       NAMES,
	"natural":     NATURAL,
	"no":          NO,
	"not":         NOT,
	"null":        NULL,
	"offset":      OFFSET,
	"on":          ON,
	"option":      OPTION,
	"or":          OR,
	"order":       ORDER,
	"outer":       OUTER,
	"over":        OVER,
	"partition":   PARTITION,
	"primary":     PRIMARY,
	"privileges":  PRIVILEGES,
	"recursive":   RECURSIVE,
	"references":  REFERENCES,
	"regexp":      REGEXP,
	"release":     RELEASE,
	"replace":     REPLACE,
	"restrict":    RESTRICT,
	"right":       RIGHT,
	"rollback":    ROLLBACK,
	"rows":        ROWS,
	"savepoint":   SAVEPOINT,
	"schema":      SCHEMA,
	"select":      SELECT,
	"set":         SET,
	"start":       START,
	"table":       TABLE,
	"temporary":   TEMPORARY,
	"then":        THEN,
	"to":          TO,
	"transaction": TRANSACTION,
	"true":        TRUE,
	"truncate":    TRUNCATE,
	"union":       UNION,
	"unique":      UNIQUE,
	"unsigned":    UNSIGNED,
	"update":      UPDATE,
	"use":         USE,
	"using":       USING,
	"values":      VALUES,
	"view":        VIEW,
	"when":        WHEN,
	"where":       WHERE,
	"with":        WITH,
	"work":        WORK,
	"xor":         XOR,
	"zerofill":    ZEROFILL,
}

func init() {
	for word, tt := range keywords {
		tokenNames[tt] = strings.ToUpper(word)
	}
}

// reserved lists keywords that can never be used as a bare identifier.
// Every other keyword doubles as an identifier where the grammar expects one.
var reserved = map[TokenType]bool{
	ADD: true, ALL: true, ALTER: true, AND: true, AS: true, ASC: true,
	BETWEEN: true, BY: true, CASCADE: true, CASE: true, CHARACTER: true,
	CHECK: true, COLLATE: true, COLUMN: true, CONSTRAINT: true, CONVERT: true,
	CREATE: true, CROSS: true, DATABASE: true, DEFAULT: true, DELETE: true,
	DESC: true, DISTINCT: true, DIV: true, DROP: true, ELSE: true, EXISTS: true,
	FALSE: true, FOR: true, FOREIGN: true, FROM: true, GRANT: true, GROUP: true,
	HAVING: true, IF: true, IGNORE: true, IN: true, INDEX: true, INNER: true,
	INSERT: true, INTERVAL: true, INTO: true, IS: true, JOIN: true, KEY: true,
	LEFT: true, LIKE: true, LIMIT: true, MOD: true, NATURAL: true, NOT: true,
	NULL: true, ON: true, OPTION: true, OR: true, ORDER: true, OUTER: true,
	PARTITION: true, PRIMARY: true, REFERENCES: true, REGEXP: true,
	RELEASE: true, REPLACE: true, RESTRICT: true, RIGHT: true, SCHEMA: true,
	SELECT: true, SET: true, TABLE: true, THEN: true, TO: true, TRUE: true,
	UNION: true, UNIQUE: true, UNSIGNED: true, UPDATE: true, USE: true,
	USING: true, VALUES: true, WHEN: true, WHERE: true, WITH: true, XOR: true,
	ZEROFILL: true,
}

// LookupIdent returns the token type for the given identifier.
// Builtin keywords are checked first, then dynamically registered ones.
// The lookup is case-insensitive.
func LookupIdent(ident string) TokenType {
	lower := strings.ToLower(ident)
	if tok, ok := keywords[lower]; ok {
		return tok
	}
	if tok, ok := LookupDynamicKeyword(lower); ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a builtin or dynamic keyword.
func IsKeyword(t TokenType) bool {
	return (t >= ACTION && t <= ZEROFILL) || IsDynamic(t)
}

// IsReserved returns true if the keyword cannot stand in for an identifier.
func IsReserved(t TokenType) bool {
	return reserved[t]
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RPAREN
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string // unescaped value for strings and quoted identifiers
	Quote   byte   // opening quote of a delimited identifier, 0 otherwise
	Pos     Position
}

// Text renders the token back to SQL source form. Strings and delimited
// identifiers are re-quoted so joined token texts stay valid SQL.
func (t Token) Text() string {
	switch t.Type {
	case EOF:
		return ""
	case STRING:
		return "'" + strings.ReplaceAll(t.Literal, "'", "''") + "'"
	case IDENT:
		if t.Quote == 0 {
			return t.Literal
		}
		q := string(closingQuote(t.Quote))
		return string(t.Quote) + strings.ReplaceAll(t.Literal, q, q+q) + q
	default:
		return t.Literal
	}
}

// Is reports whether the token is of the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// IsWord reports whether the token is an unquoted word equal to w,
// ignoring case. Keywords and plain identifiers both qualify.
func (t Token) IsWord(w string) bool {
	if t.Type != IDENT && !IsKeyword(t.Type) {
		return false
	}
	if t.Quote != 0 {
		return false
	}
	return strings.EqualFold(t.Literal, w)
}

func closingQuote(open byte) byte {
	if open == '[' {
		return ']'
	}
	return open
}
