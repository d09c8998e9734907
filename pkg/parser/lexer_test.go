package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tikey/pkg/parser"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLexerBasic(t *testing.T) {
	toks := parser.Tokenize("SELECT a, 'it''s' FROM `t` -- trailing\n", nil)

	assert.Equal(t, []token.TokenType{
		token.SELECT, token.IDENT, token.COMMA, token.STRING, token.FROM, token.IDENT, token.EOF,
	}, types(toks))
	assert.Equal(t, "it's", toks[3].Literal)
	assert.Equal(t, "t", toks[5].Literal)
	assert.Equal(t, byte('`'), toks[5].Quote)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"1.5e3", "1.5e3"},
		{".5", ".5"},
		{"0x1F", "0x1F"},
		{"x'0a'", "x'0a'"},
		{"b'01'", "b'01'"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := parser.Tokenize(tt.input, nil)
			require.Len(t, toks, 2)
			assert.Equal(t, token.NUMBER, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}
}

func TestLexerQualifiedNameIsNotNumber(t *testing.T) {
	toks := parser.Tokenize("t.5", nil)
	assert.Equal(t, []token.TokenType{token.IDENT, token.DOT, token.NUMBER, token.EOF}, types(toks))
}

func TestLexerOperators(t *testing.T) {
	toks := parser.Tokenize("<=> <> != := ->> -> << >> >= <= || && | & ^ ~ !", nil)
	assert.Equal(t, []token.TokenType{
		token.NSEQ, token.NE, token.NE, token.ASSIGN, token.LONGARROW, token.ARROW,
		token.SHL, token.SHR, token.GE, token.LE, token.DPIPE, token.DAMP,
		token.PIPE, token.AMP, token.CARET, token.TILDE, token.BANG, token.EOF,
	}, types(toks))
}

func TestLexerComments(t *testing.T) {
	toks := parser.Tokenize("# hash\nSELECT /* block */ 1 /*!40101 hidden */", nil)
	assert.Equal(t, []token.TokenType{token.SELECT, token.NUMBER, token.EOF}, types(toks))
}

func TestLexerStringEscapes(t *testing.T) {
	toks := parser.Tokenize(`'a\nb' '50\%' N'nat'`, nil)
	require.Len(t, toks, 4)
	assert.Equal(t, "a\nb", toks[0].Literal)
	assert.Equal(t, `50\%`, toks[1].Literal)
	assert.Equal(t, token.STRING, toks[2].Type)
	assert.Equal(t, "nat", toks[2].Literal)
}

func TestLexerUnterminated(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", "SELECT 'abc", "'abc"},
		{"identifier", "SELECT `abc", "`abc"},
		{"comment", "SELECT /* abc", "/* abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := parser.Tokenize(tt.input, nil)
			require.Len(t, toks, 3)
			assert.Equal(t, token.ILLEGAL, toks[1].Type)
			assert.Equal(t, tt.want, toks[1].Literal)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks := parser.Tokenize("SELECT\n  a", nil)
	require.Len(t, toks, 3)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, toks[1].Pos)
	assert.Equal(t, 10, toks[2].Pos.Offset)
}

type dollarRules struct{}

func (dollarRules) IsIdentifierStart(r rune) bool { return r == '$' || r >= 'a' && r <= 'z' }
func (dollarRules) IsIdentifierPart(r rune) bool  { return r == '$' || r >= 'a' && r <= 'z' }

func TestLexerIdentifierRules(t *testing.T) {
	ascii := parser.Tokenize("$x", nil)
	assert.Equal(t, []token.TokenType{token.ILLEGAL, token.IDENT, token.EOF}, types(ascii))

	custom := parser.Tokenize("$x", dollarRules{})
	require.Len(t, custom, 2)
	assert.Equal(t, token.IDENT, custom[0].Type)
	assert.Equal(t, "$x", custom[0].Literal)
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	toks := parser.Tokenize("select Select SELECT", nil)
	assert.Equal(t, []token.TokenType{token.SELECT, token.SELECT, token.SELECT, token.EOF}, types(toks))
	assert.Equal(t, "Select", toks[1].Literal)
}
