package ast

// SelectStmt is a query: an optional WITH clause followed by one or more
// select cores joined by set operators.
type SelectStmt struct {
	StmtInfo
	With *WithClause
	Body *SelectCore
}

func (*SelectStmt) stmtNode() {}

// SetOpType is a set operator between select cores.
type SetOpType string

// Set operators.
const (
	SetOpNone     SetOpType = ""
	SetOpUnion    SetOpType = "UNION"
	SetOpUnionAll SetOpType = "UNION ALL"
)

// SelectCore is a single SELECT ... FROM ... block.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
	Lock     string // "update" or "share" for FOR UPDATE / LOCK IN SHARE MODE

	SetOp SetOpType
	Right *SelectCore
}

// WithClause is a list of common table expressions.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE is one common table expression.
type CTE struct {
	Name    Ident
	Columns []Ident
	Select  *SelectStmt
}

// SelectItem is one projection in the select list.
type SelectItem struct {
	Star      bool       // SELECT *
	TableStar ObjectName // SELECT t.*
	Expr      Expr
	Alias     *Ident
}

// FromClause is the FROM clause with its joins.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// TableName is a named table reference.
type TableName struct {
	Name  ObjectName
	Alias *Ident
}

func (*TableName) tableRefNode() {}

// DerivedTable is a subquery in FROM.
type DerivedTable struct {
	Select *SelectStmt
	Alias  *Ident
}

func (*DerivedTable) tableRefNode() {}

// JoinType is the flavor of a join.
type JoinType string

// Join types.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinCross JoinType = "CROSS"
	JoinComma JoinType = "COMMA"
)

// Join is a joined table reference.
type Join struct {
	Type      JoinType
	Natural   bool
	Right     TableRef
	Condition Expr
	Using     []Ident
}

// OrderByItem is one ORDER BY key.
type OrderByItem struct {
	Expr Expr
	Desc bool
}

// Assignment is column = value in SET or ON DUPLICATE KEY UPDATE.
type Assignment struct {
	Column ObjectName
	Value  Expr
}

// InsertStmt is INSERT or REPLACE.
type InsertStmt struct {
	StmtInfo
	Replace     bool
	Ignore      bool
	Table       ObjectName
	Columns     []Ident
	Values      [][]Expr
	Select      *SelectStmt
	Set         []Assignment
	OnDuplicate []Assignment
}

func (*InsertStmt) stmtNode() {}

// UpdateStmt is UPDATE, possibly over several joined tables.
type UpdateStmt struct {
	StmtInfo
	Ignore  bool
	Tables  *FromClause
	Set     []Assignment
	Where   Expr
	OrderBy []OrderByItem
	Limit   Expr
}

func (*UpdateStmt) stmtNode() {}

// DeleteStmt is DELETE. Targets is set for the multi-table form.
type DeleteStmt struct {
	StmtInfo
	Ignore  bool
	Targets []ObjectName
	From    *FromClause
	Where   Expr
	OrderBy []OrderByItem
	Limit   Expr
}

func (*DeleteStmt) stmtNode() {}

// UseStmt is USE db.
type UseStmt struct {
	StmtInfo
	Name Ident
}

func (*UseStmt) stmtNode() {}

// SetVariable is one assignment of a SET statement.
type SetVariable struct {
	Scope string // "global", "session", "local" or ""
	Name  ObjectName
	Value Expr
}

// SetStmt is SET var = expr [, ...].
type SetStmt struct {
	StmtInfo
	Variables []SetVariable
}

func (*SetStmt) stmtNode() {}

// SetNamesStmt is SET NAMES or SET CHARACTER SET.
type SetNamesStmt struct {
	StmtInfo
	Charset   string
	Collation string
}

func (*SetNamesStmt) stmtNode() {}

// SetTransactionStmt is SET [scope] TRANSACTION characteristics.
type SetTransactionStmt struct {
	StmtInfo
	Scope           string
	Characteristics []string
}

func (*SetTransactionStmt) stmtNode() {}

// StartTransactionStmt is START TRANSACTION or BEGIN.
type StartTransactionStmt struct {
	StmtInfo
	Begin bool
	Modes []string
}

func (*StartTransactionStmt) stmtNode() {}

// CommitStmt is COMMIT [WORK].
type CommitStmt struct {
	StmtInfo
}

func (*CommitStmt) stmtNode() {}

// RollbackStmt is ROLLBACK [WORK] [TO [SAVEPOINT] name].
type RollbackStmt struct {
	StmtInfo
	Savepoint *Ident
}

func (*RollbackStmt) stmtNode() {}

// SavepointStmt is SAVEPOINT name.
type SavepointStmt struct {
	StmtInfo
	Name Ident
}

func (*SavepointStmt) stmtNode() {}

// ReleaseSavepointStmt is RELEASE SAVEPOINT name.
type ReleaseSavepointStmt struct {
	StmtInfo
	Name Ident
}

func (*ReleaseSavepointStmt) stmtNode() {}

// Privilege is one entry of a GRANT privilege list.
type Privilege struct {
	Name    string // lowercase, words joined by a space
	Columns []Ident
}

// GrantStmt is GRANT privileges ON object TO grantees.
type GrantStmt struct {
	StmtInfo
	All             bool
	Privileges      []Privilege
	ObjectType      string // "table", "function", "procedure" or ""
	Object          ObjectName
	Grantees        []string
	WithGrantOption bool
}

func (*GrantStmt) stmtNode() {}

// ShowStmt is a SHOW statement.
type ShowStmt struct {
	StmtInfo
	Full   bool
	Kind   string // lowercase words such as "tables" or "create table"
	Target ObjectName
	From   ObjectName
	Like   Expr
	Where  Expr
}

func (*ShowStmt) stmtNode() {}

// ExplainStmt is EXPLAIN stmt or DESCRIBE table.
type ExplainStmt struct {
	StmtInfo
	Stmt  Statement
	Table ObjectName
}

func (*ExplainStmt) stmtNode() {}
