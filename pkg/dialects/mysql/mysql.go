// Package mysql provides the recovering MySQL dialect.
//
// The dialect extends generic with MySQL's permissive identifier charset and
// a statement hook that never lets one statement abort a script. In trial
// order, the hook:
//
//   - swallows a DELIMITER block as one Delimiter placeholder
//   - captures CREATE [DEFINER = user] PROCEDURE, FUNCTION, TRIGGER and EVENT
//     as text
//   - discards DROP DATABASE, LOCK TABLES and UNLOCK TABLES
//   - captures CREATE FULLTEXT INDEX and XA statements as text
//   - delegates everything else to the native grammar, turning a failed
//     parse into an Unknown placeholder and a partial one into EndEarly
//
// The only fatal condition is end of input inside a DELIMITER block or a
// routine body.
package mysql

import (
	"strings"

	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/dialects/generic"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func init() {
	dialect.Register(MySQL)
}

// Dialect is the recovering MySQL dialect.
type Dialect struct {
	*dialect.Standard
}

var _ dialect.Dialect = (*Dialect)(nil)

// MySQL is the registered instance. It holds no per-parse state and is safe
// for concurrent use.
var MySQL = &Dialect{
	Standard: dialect.Extend(generic.Generic, "mysql").
		AddKeyword("DELIMITER").
		AddKeyword("PROCEDURE").
		AddKeyword("TRIGGER").
		AddKeyword("EVENT").
		AddKeyword("FULLTEXT").
		Identifiers(isIdentifierStart, isIdentifierPart).
		Build(),
}

// Dialect keywords, resolved once at package init.
var (
	DELIMITER = token.Register("DELIMITER")
	PROCEDURE = token.Register("PROCEDURE")
	TRIGGER   = token.Register("TRIGGER")
	EVENT     = token.Register("EVENT")
	FULLTEXT  = token.Register("FULLTEXT")
)

// routines maps the object keyword after CREATE to its category.
var routines = map[token.TokenType]ast.Category{
	PROCEDURE:      ast.CreateProcedure,
	token.FUNCTION: ast.CreateFunction,
	TRIGGER:        ast.CreateTrigger,
	EVENT:          ast.CreateEvent,
}

// definerLimit bounds the tokens skipped looking for the routine keyword
// after DEFINER = user.
const definerLimit = 8

func isIdentifierStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
		r == '_' || r == '$' || r == '@' ||
		r >= 0x80 && r <= 0xFFFF
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || r >= '0' && r <= '9'
}

// ParseStatement implements dialect.Dialect.
func (d *Dialect) ParseStatement(p dialect.Ops) (ast.Statement, bool, error) {
	if p.Delegating() {
		return nil, false, nil
	}
	start := p.Index()

	if p.ParseKeyword(DELIMITER) {
		if err := scanDelimiterBlock(p); err != nil {
			return nil, false, err
		}
		return &ast.SyntheticStmt{Category: ast.Delimiter}, true, nil
	}

	if c, ok := parseRoutineStart(p); ok {
		p.Rewind(start)
		text, err := accumulate(p, true)
		if err != nil {
			return nil, false, err
		}
		return ast.NewSynthetic(c, text), true, nil
	}
	p.Rewind(start)

	if p.ParseKeywords(token.DROP, token.DATABASE) || p.ParseKeywords(token.DROP, token.SCHEMA) ||
		p.ParseWords("lock", "tables") || p.ParseWords("unlock", "tables") || p.ParseWords("unlock", "table") {
		if _, err := accumulate(p, false); err != nil {
			return nil, false, err
		}
		return &ast.NoopStmt{}, true, nil
	}

	if p.ParseKeywords(token.CREATE, FULLTEXT, token.INDEX) {
		return d.capture(p, start, ast.CreateFullText)
	}
	if p.ParseWords("xa") {
		return d.capture(p, start, ast.XA)
	}

	return d.fallback(p, start)
}

// fallback parses the statement natively. A failed parse becomes Unknown; a
// parse that stops short of the delimiter becomes EndEarly.
func (d *Dialect) fallback(p dialect.Ops, start int) (ast.Statement, bool, error) {
	stmt, err := p.ParseNative()
	if err != nil {
		return d.capture(p, start, ast.Unknown)
	}
	if atDelimiter(p.PeekToken()) {
		return stmt, true, nil
	}
	return d.capture(p, start, ast.EndEarly)
}

// capture rewinds to start and accumulates the statement's text.
func (d *Dialect) capture(p dialect.Ops, start int, c ast.Category) (ast.Statement, bool, error) {
	p.Rewind(start)
	text, err := accumulate(p, false)
	if err != nil {
		return nil, false, err
	}
	return ast.NewSynthetic(c, text), true, nil
}

// parseRoutineStart matches CREATE [DEFINER = user] followed by a routine
// keyword. The cursor position is unspecified afterwards.
func parseRoutineStart(p dialect.Ops) (ast.Category, bool) {
	if !p.ParseKeyword(token.CREATE) {
		return 0, false
	}
	if c, ok := routines[p.PeekToken().Type]; ok {
		return c, true
	}
	if !p.ParseWords("definer") || !p.ParseKeyword(token.EQ) {
		return 0, false
	}
	for i := 0; i < definerLimit; i++ {
		tok := p.NextToken()
		if atDelimiter(tok) {
			return 0, false
		}
		if c, ok := routines[p.PeekToken().Type]; ok {
			return c, true
		}
	}
	return 0, false
}

// scanDelimiterBlock consumes tokens up to the first ";" that follows a
// DELIMITER keyword inside the block, leaving that ";" unconsumed. The
// replacement delimiter itself is not tracked, so statements inside the block
// are not checked.
func scanDelimiterBlock(p dialect.Ops) error {
	seen := false
	for {
		tok := p.NextToken()
		switch {
		case tok.Is(token.EOF):
			return p.Errorf("unexpected end of input in DELIMITER block")
		case tok.Is(token.SEMICOLON):
			if seen {
				p.PrevToken()
				return nil
			}
		case tok.Is(DELIMITER):
			seen = true
		}
	}
}

// accumulate consumes tokens up to the next ";" and returns their text joined
// by single spaces. The ";" is left for the statement loop. End of input ends
// the statement unless fatal is set.
func accumulate(p dialect.Ops, fatal bool) (string, error) {
	var parts []string
	for {
		tok := p.PeekToken()
		if tok.Is(token.EOF) {
			if fatal {
				return "", p.Errorf("unexpected end of input, expected %s", token.SEMICOLON)
			}
			break
		}
		if tok.Is(token.SEMICOLON) {
			break
		}
		parts = append(parts, p.NextToken().Text())
	}
	return strings.Join(parts, " "), nil
}

func atDelimiter(tok token.Token) bool {
	return tok.Is(token.SEMICOLON) || tok.Is(token.EOF)
}
