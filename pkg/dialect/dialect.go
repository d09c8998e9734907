// Package dialect provides the hook interface through which SQL dialects
// extend the parser.
//
// A dialect controls identifier lexing, operator precedence and, most
// importantly, gets first refusal on every statement the parser's statement
// loop is about to parse. Concrete dialects are registered from
// pkg/dialects/*/ packages.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/token"
)

// Precedence levels for the Pratt expression parser, lowest binding first.
const (
	PrecedenceNone       = 0
	PrecedenceOr         = 1  // OR, ||
	PrecedenceXor        = 2  // XOR
	PrecedenceAnd        = 3  // AND, &&
	PrecedenceNot        = 4  // NOT
	PrecedenceComparison = 5  // =, <=>, <>, <, IS, LIKE, REGEXP, IN, BETWEEN
	PrecedenceBitOr      = 6  // |
	PrecedenceBitAnd     = 7  // &
	PrecedenceShift      = 8  // <<, >>
	PrecedenceAddition   = 9  // +, -
	PrecedenceMultiply   = 10 // *, /, %, DIV, MOD
	PrecedenceBitXor     = 11 // ^
	PrecedenceUnary      = 12 // -, ~, !
	PrecedencePostfix    = 13 // COLLATE, ->, ->>
)

// Ops is the token-stream contract a dialect uses to inspect and consume
// tokens. It is implemented by *parser.Parser.
type Ops interface {
	// NextToken returns the current token and advances past it.
	// At end of input it keeps returning EOF.
	NextToken() token.Token
	// PeekToken returns the current token without consuming it.
	PeekToken() token.Token
	// PrevToken pushes back the most recently consumed token.
	PrevToken()
	// ParseKeyword consumes the current token if it has type t.
	ParseKeyword(t token.TokenType) bool
	// ParseKeywords consumes the whole sequence or nothing.
	ParseKeywords(ts ...token.TokenType) bool
	// ParseWords consumes a sequence of unquoted words, compared without
	// regard to case, or nothing. Keywords qualify as words.
	ParseWords(words ...string) bool
	// Index returns the cursor, for use with Rewind.
	Index() int
	// Rewind moves the cursor back to a value returned by Index.
	Rewind(index int)
	// Delegating reports whether the parser is inside ParseNative.
	Delegating() bool
	// ParseNative parses the statement at the cursor with the native
	// grammar. The dialect hook is not consulted while it runs.
	ParseNative() (ast.Statement, error)
	// Snippet returns source text around the current token.
	Snippet() string
	// Errorf returns a positioned parse error at the current token.
	Errorf(format string, args ...any) error
}

// Dialect is a SQL dialect.
type Dialect interface {
	Name() string
	// IsIdentifierStart reports whether r may start an unquoted identifier.
	IsIdentifierStart(r rune) bool
	// IsIdentifierPart reports whether r may continue an unquoted identifier.
	IsIdentifierPart(r rune) bool
	// Precedence returns the infix binding power of t, or PrecedenceNone.
	Precedence(t token.TokenType) int
	// ParseStatement gets first refusal on the statement at the cursor.
	// It returns handled=false to leave the statement to the native grammar,
	// a statement with handled=true, or an error for unrecoverable input.
	ParseStatement(p Ops) (stmt ast.Statement, handled bool, err error)
}

// Standard is a table-driven Dialect built with NewDialect. It never
// intercepts statements; embed it to override ParseStatement.
type Standard struct {
	name       string
	precedence map[token.TokenType]int
	identStart func(rune) bool
	identPart  func(rune) bool
	keywords   []string
}

// Name returns the lowercase dialect name.
func (d *Standard) Name() string { return d.name }

// IsIdentifierStart implements Dialect.
func (d *Standard) IsIdentifierStart(r rune) bool { return d.identStart(r) }

// IsIdentifierPart implements Dialect.
func (d *Standard) IsIdentifierPart(r rune) bool { return d.identPart(r) }

// Precedence implements Dialect.
func (d *Standard) Precedence(t token.TokenType) int { return d.precedence[t] }

// ParseStatement implements Dialect by deferring every statement.
func (d *Standard) ParseStatement(Ops) (ast.Statement, bool, error) {
	return nil, false, nil
}

// Keywords returns the dynamic keywords the dialect registered.
func (d *Standard) Keywords() []string {
	return append([]string(nil), d.keywords...)
}

// Builder provides a fluent API for constructing a Standard dialect.
type Builder struct {
	dialect *Standard
}

// NewDialect starts building a dialect with ASCII identifier rules and an
// empty operator table.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Standard{
			name:       strings.ToLower(name),
			precedence: make(map[token.TokenType]int),
			identStart: IsASCIIIdentifierStart,
			identPart:  IsASCIIIdentifierPart,
		},
	}
}

// Extend starts a new builder from an existing dialect's settings.
func Extend(base *Standard, name string) *Builder {
	b := NewDialect(name)
	for t, prec := range base.precedence {
		b.dialect.precedence[t] = prec
	}
	b.dialect.identStart = base.identStart
	b.dialect.identPart = base.identPart
	b.dialect.keywords = append(b.dialect.keywords, base.keywords...)
	return b
}

// AddInfix registers an infix operator with its precedence.
func (b *Builder) AddInfix(t token.TokenType, precedence int) *Builder {
	b.dialect.precedence[t] = precedence
	return b
}

// AddKeyword registers a dialect keyword with the token package and returns
// the builder. Registration is idempotent.
func (b *Builder) AddKeyword(name string) *Builder {
	token.Register(name)
	b.dialect.keywords = append(b.dialect.keywords, strings.ToUpper(name))
	return b
}

// Identifiers overrides the identifier lexing rules.
func (b *Builder) Identifiers(start, part func(rune) bool) *Builder {
	b.dialect.identStart = start
	b.dialect.identPart = part
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Standard {
	return b.dialect
}

// IsASCIIIdentifierStart accepts ASCII letters and underscore.
func IsASCIIIdentifierStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

// IsASCIIIdentifierPart accepts identifier start characters and digits.
func IsASCIIIdentifierPart(r rune) bool {
	return IsASCIIIdentifierStart(r) || r >= '0' && r <= '9'
}
