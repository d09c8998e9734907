package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/tikey/pkg/token"
)

// ErrUnexpectedEOF is wrapped by every parse error raised at end of input.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
	Snippet string // source text around Pos
	Err     error  // optional sentinel, see Unwrap
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if e.Snippet != "" {
		msg += fmt.Sprintf(" near %q", e.Snippet)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrIllegalInput       = "invalid or unterminated input %q"
	ErrExpectedStatement  = "unexpected token %s at start of statement"
	ErrExpectedTerminator = "unexpected token %s after end of statement"
	ErrExpectedIdent      = "expected identifier, got %s"
	ErrExpectedExpr       = "unexpected token %s in expression"
)
