package ast

// LiteralKind identifies the type of a literal.
type LiteralKind int

// Literal kinds.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal is a constant value.
type Literal struct {
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// ColumnRef is a possibly qualified column or variable reference.
type ColumnRef struct {
	Name ObjectName
}

func (*ColumnRef) exprNode() {}

// Placeholder is a ? parameter marker.
type Placeholder struct{}

func (*Placeholder) exprNode() {}

// DefaultExpr is DEFAULT used as a value in INSERT or UPDATE.
type DefaultExpr struct{}

func (*DefaultExpr) exprNode() {}

// UnaryExpr is a prefix operator applied to an operand.
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// ParenExpr is a parenthesised expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// TupleExpr is a row constructor (a, b, ...).
type TupleExpr struct {
	Items []Expr
}

func (*TupleExpr) exprNode() {}

// IsExpr is expr IS [NOT] {NULL | TRUE | FALSE}.
type IsExpr struct {
	Expr  Expr
	Not   bool
	Value string // "null", "true" or "false"
}

func (*IsExpr) exprNode() {}

// InExpr is expr [NOT] IN (values | subquery).
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

func (*InExpr) exprNode() {}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// LikeExpr is expr [NOT] {LIKE | REGEXP} pattern [ESCAPE e].
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Op      string
	Pattern Expr
	Escape  Expr
}

func (*LikeExpr) exprNode() {}

// WindowSpec is the OVER clause of a window function.
type WindowSpec struct {
	Name        *Ident
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       string
}

// FuncCall is a function invocation.
type FuncCall struct {
	Name      ObjectName
	Distinct  bool
	Star      bool
	Args      []Expr
	OrderBy   []OrderByItem // GROUP_CONCAT(... ORDER BY ...)
	Separator string
	Over      *WindowSpec
}

func (*FuncCall) exprNode() {}

// WhenClause is one WHEN ... THEN ... branch.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpr is a CASE expression.
type CaseExpr struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// CastExpr is CAST(expr AS type).
type CastExpr struct {
	Expr Expr
	Type *DataType
}

func (*CastExpr) exprNode() {}

// ConvertExpr is CONVERT(expr, type) or CONVERT(expr USING charset).
type ConvertExpr struct {
	Expr    Expr
	Type    *DataType
	Charset string
}

func (*ConvertExpr) exprNode() {}

// CollateExpr is expr COLLATE collation.
type CollateExpr struct {
	Expr      Expr
	Collation string
}

func (*CollateExpr) exprNode() {}

// IntervalExpr is INTERVAL expr unit.
type IntervalExpr struct {
	Value Expr
	Unit  string
}

func (*IntervalExpr) exprNode() {}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// ExistsExpr is [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) exprNode() {}
