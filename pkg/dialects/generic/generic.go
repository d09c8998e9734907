// Package generic provides the base MySQL-family dialect: the operator table
// and ASCII identifier rules shared by every dialect in pkg/dialects.
//
// It never intercepts statements. Dialects like mysql extend it and add a
// statement hook.
package generic

import (
	"github.com/leapstack-labs/tikey/pkg/dialect"
	"github.com/leapstack-labs/tikey/pkg/token"
)

func init() {
	dialect.Register(Generic)
}

// Generic is the base dialect.
var Generic = dialect.NewDialect("generic").
	// Logical
	AddInfix(token.OR, dialect.PrecedenceOr).
	AddInfix(token.DPIPE, dialect.PrecedenceOr).
	AddInfix(token.XOR, dialect.PrecedenceXor).
	AddInfix(token.AND, dialect.PrecedenceAnd).
	AddInfix(token.DAMP, dialect.PrecedenceAnd).
	// Comparison and predicates
	AddInfix(token.NOT, dialect.PrecedenceComparison). // NOT IN, NOT LIKE, NOT BETWEEN
	AddInfix(token.EQ, dialect.PrecedenceComparison).
	AddInfix(token.NE, dialect.PrecedenceComparison).
	AddInfix(token.NSEQ, dialect.PrecedenceComparison).
	AddInfix(token.LT, dialect.PrecedenceComparison).
	AddInfix(token.GT, dialect.PrecedenceComparison).
	AddInfix(token.LE, dialect.PrecedenceComparison).
	AddInfix(token.GE, dialect.PrecedenceComparison).
	AddInfix(token.IS, dialect.PrecedenceComparison).
	AddInfix(token.IN, dialect.PrecedenceComparison).
	AddInfix(token.LIKE, dialect.PrecedenceComparison).
	AddInfix(token.REGEXP, dialect.PrecedenceComparison).
	AddInfix(token.BETWEEN, dialect.PrecedenceComparison).
	// Bitwise and arithmetic
	AddInfix(token.PIPE, dialect.PrecedenceBitOr).
	AddInfix(token.AMP, dialect.PrecedenceBitAnd).
	AddInfix(token.SHL, dialect.PrecedenceShift).
	AddInfix(token.SHR, dialect.PrecedenceShift).
	AddInfix(token.PLUS, dialect.PrecedenceAddition).
	AddInfix(token.MINUS, dialect.PrecedenceAddition).
	AddInfix(token.STAR, dialect.PrecedenceMultiply).
	AddInfix(token.SLASH, dialect.PrecedenceMultiply).
	AddInfix(token.PERCENT, dialect.PrecedenceMultiply).
	AddInfix(token.DIV, dialect.PrecedenceMultiply).
	AddInfix(token.MOD, dialect.PrecedenceMultiply).
	AddInfix(token.CARET, dialect.PrecedenceBitXor).
	// Postfix
	AddInfix(token.COLLATE, dialect.PrecedencePostfix).
	AddInfix(token.ARROW, dialect.PrecedencePostfix).
	AddInfix(token.LONGARROW, dialect.PrecedencePostfix).
	Build()
