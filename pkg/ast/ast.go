// Package ast defines the statement and expression nodes produced by the
// parser, plus the synthetic statements a recovering dialect emits for source
// the grammar cannot parse natively.
//
// Every statement serializes to a tree.Value (see ToTree) which is what the
// rule engine matches against.
package ast

import (
	"fmt"
	"strings"
)

// Statement is a parsed SQL statement.
type Statement interface {
	stmtNode()
	// Source returns the raw source text the statement was parsed from.
	Source() string
	// SetSource records the raw source text. Called by the parser.
	SetSource(src string)
}

// Expr is an expression node.
type Expr interface {
	exprNode()
}

// TableRef is a table reference in a FROM clause.
type TableRef interface {
	tableRefNode()
}

// StmtInfo carries fields shared by all statements.
// Embed this in every statement type.
type StmtInfo struct {
	Src string
}

// Source returns the raw source text.
func (s *StmtInfo) Source() string { return s.Src }

// SetSource records the raw source text.
func (s *StmtInfo) SetSource(src string) { s.Src = src }

// Ident is a possibly quoted identifier.
type Ident struct {
	Value string
	Quote byte // '`' or '"' for delimited identifiers, 0 otherwise
}

// NewIdent returns an unquoted identifier.
func NewIdent(v string) Ident {
	return Ident{Value: v}
}

func (i Ident) String() string {
	if i.Quote == 0 {
		return i.Value
	}
	q := string(i.Quote)
	return q + strings.ReplaceAll(i.Value, q, q+q) + q
}

// ObjectName is a dotted name such as db.table.
type ObjectName []Ident

func (n ObjectName) String() string {
	parts := make([]string, len(n))
	for i, id := range n {
		parts[i] = id.String()
	}
	return strings.Join(parts, ".")
}

// Category tags a synthetic statement with the construct it stands in for.
type Category int

// Statement categories.
const (
	Delimiter Category = iota
	CreateFunction
	CreateProcedure
	CreateTrigger
	CreateEvent
	CreateFullText
	XA
	Unknown
	EndEarly
)

var categoryNames = [...]string{
	Delimiter:       "Delimiter",
	CreateFunction:  "CreateFunction",
	CreateProcedure: "CreateProcedure",
	CreateTrigger:   "CreateTrigger",
	CreateEvent:     "CreateEvent",
	CreateFullText:  "CreateFullText",
	XA:              "XA",
	Unknown:         "Unknown",
	EndEarly:        "EndEarly",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// SyntheticStmt stands in for source the grammar could not parse natively.
// Text holds the statement's tokens joined by single spaces; Delimiter blocks
// carry no text.
type SyntheticStmt struct {
	StmtInfo
	Category Category
	Text     string
	HasText  bool
}

func (*SyntheticStmt) stmtNode() {}

// NewSynthetic returns a synthetic statement carrying text.
func NewSynthetic(c Category, text string) *SyntheticStmt {
	return &SyntheticStmt{Category: c, Text: text, HasText: true}
}

// NoopStmt is a legal statement that is never reported, such as DROP DATABASE.
type NoopStmt struct {
	StmtInfo
}

func (*NoopStmt) stmtNode() {}

// SQL returns the text used to report a statement: the accumulated text of a
// synthetic statement when it has one, the raw source otherwise.
func SQL(s Statement) string {
	if syn, ok := s.(*SyntheticStmt); ok && syn.HasText {
		return strings.TrimSpace(syn.Text)
	}
	return strings.TrimSpace(s.Source())
}
