package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/tikey/pkg/token"
)

// IdentRules decides which characters may appear in an unquoted identifier.
// Every dialect.Dialect satisfies it.
type IdentRules interface {
	IsIdentifierStart(r rune) bool
	IsIdentifierPart(r rune) bool
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based)

	rules IdentRules
	last  token.TokenType // type of the previously emitted token
}

// NewLexer creates a new Lexer for the given input. A nil rules value uses
// ASCII identifier rules.
func NewLexer(input string, rules IdentRules) *Lexer {
	if rules == nil {
		rules = asciiRules{}
	}
	l := &Lexer{
		input: input,
		line:  1,
		rules: rules,
		last:  token.ILLEGAL,
	}
	l.readChar()
	return l
}

type asciiRules struct{}

func (asciiRules) IsIdentifierStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

func (a asciiRules) IsIdentifierPart(r rune) bool {
	return a.IsIdentifierStart(r) || isDigit(byte(r)) && r < utf8.RuneSelf
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.pos < len(l.input) && l.readPos > 0 {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		}
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	tok := l.scan()
	l.last = tok.Type
	return tok
}

func (l *Lexer) scan() token.Token {
	if start, ok := l.skipWhitespaceAndComments(); !ok {
		return token.Token{Type: token.ILLEGAL, Literal: l.input[start.Offset:], Pos: start}
	}

	pos := l.currentPos()
	illegal := func() token.Token {
		return token.Token{Type: token.ILLEGAL, Literal: l.input[pos.Offset:l.pos], Pos: pos}
	}
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	op := func(t token.TokenType, lit string) token.Token {
		for range lit {
			l.readChar()
		}
		return token.Token{Type: t, Literal: lit, Pos: pos}
	}

	switch l.ch {
	case '+':
		return op(token.PLUS, "+")
	case '-':
		if l.peekChar() == '>' {
			if l.readPos+1 < len(l.input) && l.input[l.readPos+1] == '>' {
				return op(token.LONGARROW, "->>")
			}
			return op(token.ARROW, "->")
		}
		return op(token.MINUS, "-")
	case '*':
		return op(token.STAR, "*")
	case '/':
		return op(token.SLASH, "/")
	case '%':
		return op(token.PERCENT, "%")
	case '=':
		return op(token.EQ, "=")
	case '<':
		switch {
		case strings.HasPrefix(l.input[l.pos:], "<=>"):
			return op(token.NSEQ, "<=>")
		case l.peekChar() == '=':
			return op(token.LE, "<=")
		case l.peekChar() == '>':
			return op(token.NE, "<>")
		case l.peekChar() == '<':
			return op(token.SHL, "<<")
		default:
			return op(token.LT, "<")
		}
	case '>':
		switch l.peekChar() {
		case '=':
			return op(token.GE, ">=")
		case '>':
			return op(token.SHR, ">>")
		default:
			return op(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			return op(token.NE, "!=")
		}
		return op(token.BANG, "!")
	case '|':
		if l.peekChar() == '|' {
			return op(token.DPIPE, "||")
		}
		return op(token.PIPE, "|")
	case '&':
		if l.peekChar() == '&' {
			return op(token.DAMP, "&&")
		}
		return op(token.AMP, "&")
	case '^':
		return op(token.CARET, "^")
	case '~':
		return op(token.TILDE, "~")
	case ':':
		if l.peekChar() == '=' {
			return op(token.ASSIGN, ":=")
		}
		return op(token.COLON, ":")
	case '.':
		if isDigit(l.peekChar()) && !l.afterOperand() {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		return op(token.DOT, ".")
	case ',':
		return op(token.COMMA, ",")
	case ';':
		return op(token.SEMICOLON, ";")
	case '?':
		return op(token.QUESTION, "?")
	case '(':
		return op(token.LPAREN, "(")
	case ')':
		return op(token.RPAREN, ")")
	case '\'':
		lit, ok := l.readQuoted('\'', true)
		if !ok {
			return illegal()
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
	case '"', '`':
		quote := l.ch
		lit, ok := l.readQuoted(quote, false)
		if !ok {
			return illegal()
		}
		return token.Token{Type: token.IDENT, Literal: lit, Quote: quote, Pos: pos}
	}

	if isDigit(l.ch) {
		if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
			return token.Token{Type: token.NUMBER, Literal: l.readHex(), Pos: pos}
		}
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	// x'0f', b'01' and N'text' prefixed strings
	if l.peekChar() == '\'' && strings.IndexByte("xXbBnN", l.ch) >= 0 {
		prefix := l.ch
		l.readChar()
		lit, ok := l.readQuoted('\'', prefix == 'n' || prefix == 'N')
		if !ok {
			return illegal()
		}
		if prefix == 'n' || prefix == 'N' {
			return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
		}
		return token.Token{Type: token.NUMBER, Literal: string(prefix) + "'" + lit + "'", Pos: pos}
	}

	if r, _ := l.currentRune(); l.rules.IsIdentifierStart(r) {
		lit := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
	}

	_, size := l.currentRune()
	for range size {
		l.readChar()
	}
	return illegal()
}

// afterOperand reports whether the previous token ends an operand, in which
// case a following '.' is a qualifier and not the start of a number.
func (l *Lexer) afterOperand() bool {
	return l.last == token.IDENT || l.last == token.RPAREN || token.IsKeyword(l.last)
}

func (l *Lexer) currentRune() (rune, int) {
	if l.ch < utf8.RuneSelf {
		return rune(l.ch), 1
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// skipWhitespaceAndComments skips whitespace, -- and # line comments, and
// /* */ block comments including MySQL /*! */ conditional comments. For an
// unterminated block comment it returns the comment's position and false.
func (l *Lexer) skipWhitespaceAndComments() (token.Position, bool) {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		switch {
		case l.ch == '-' && l.peekChar() == '-', l.ch == '#':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.currentPos()
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			closed := false
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // skip '*'
					l.readChar() // skip '/'
					closed = true
					break
				}
				l.readChar()
			}
			if !closed {
				return start, false
			}
		default:
			return token.Position{}, true
		}
	}
}

// readQuoted reads a quoted literal starting at the opening quote. A doubled
// quote is an escaped quote. With backslash set, MySQL backslash escapes are
// decoded too.
func (l *Lexer) readQuoted(quote byte, backslash bool) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		switch {
		case l.ch == quote:
			if l.peekChar() == quote {
				result.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		case backslash && l.ch == '\\' && l.readPos < len(l.input):
			l.readChar()
			result.WriteString(unescape(l.ch))
			l.readChar()
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

func unescape(ch byte) string {
	switch ch {
	case '0':
		return "\x00"
	case 'b':
		return "\b"
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'Z':
		return "\x1a"
	case '%', '_':
		// kept escaped so LIKE patterns stay intact
		return "\\" + string(ch)
	default:
		return string(ch)
	}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() {
		r, size := l.currentRune()
		if !l.rules.IsIdentifierPart(r) {
			break
		}
		for range size {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && (isDigit(l.peekChar()) || l.pos == start || !isIdentByte(l.peekChar())) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// readHex reads a 0x hexadecimal literal.
func (l *Lexer) readHex() string {
	start := l.pos
	l.readChar() // '0'
	l.readChar() // 'x'
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string, rules IdentRules) []token.Token {
	l := NewLexer(input, rules)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}
