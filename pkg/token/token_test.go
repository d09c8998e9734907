package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		in   string
		want TokenType
	}{
		{"select", SELECT},
		{"SELECT", SELECT},
		{"Savepoint", SAVEPOINT},
		{"customer", IDENT},
		{"latin1", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.in))
		})
	}
}

func TestReserved(t *testing.T) {
	assert.True(t, IsReserved(SELECT))
	assert.True(t, IsReserved(KEY))
	assert.False(t, IsReserved(COMMIT), "COMMIT is usable as a column name")
	assert.False(t, IsReserved(IDENT))
	assert.True(t, IsKeyword(COMMIT))
	assert.False(t, IsKeyword(IDENT))
}

func TestTokenText(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want string
	}{
		{"plain ident", Token{Type: IDENT, Literal: "t1"}, "t1"},
		{"backtick ident", Token{Type: IDENT, Literal: "my`col", Quote: '`'}, "`my``col`"},
		{"double quoted ident", Token{Type: IDENT, Literal: "c", Quote: '"'}, `"c"`},
		{"string", Token{Type: STRING, Literal: "it's"}, "'it''s'"},
		{"keyword keeps spelling", Token{Type: SELECT, Literal: "select"}, "select"},
		{"operator", Token{Type: NE, Literal: "<>"}, "<>"},
		{"eof", Token{Type: EOF}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tok.Text())
		})
	}
}

func TestIsWord(t *testing.T) {
	assert.True(t, Token{Type: IDENT, Literal: "LOCK"}.IsWord("lock"))
	assert.True(t, Token{Type: TABLE, Literal: "table"}.IsWord("TABLE"))
	assert.False(t, Token{Type: IDENT, Literal: "lock", Quote: '`'}.IsWord("lock"))
	assert.False(t, Token{Type: STRING, Literal: "lock"}.IsWord("lock"))
}

func TestSpan(t *testing.T) {
	s := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 7, Offset: 6}}
	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(6))
	assert.False(t, Position{}.IsValid())
}
