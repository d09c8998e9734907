package ast

// DataType is a column or cast type.
type DataType struct {
	Name      string   // lowercase, e.g. "varchar" or "double precision"
	Args      []string // length, precision or scale
	Values    []string // ENUM and SET members
	Unsigned  bool
	Zerofill  bool
	Charset   string
	Collation string
}

// ColumnOptionKind identifies a column option.
type ColumnOptionKind int

// Column options.
const (
	OptNull ColumnOptionKind = iota
	OptNotNull
	OptDefault
	OptPrimaryKey
	OptUnique
	OptAutoIncrement
	OptComment
	OptOnUpdate
	OptCollate
	OptReferences
	OptCheck
	OptGenerated
	OptCharset
)

// ColumnOption is one option that follows a column's type.
type ColumnOption struct {
	Kind   ColumnOptionKind
	Expr   Expr
	Text   string
	Ref    *ForeignKeyRef
	Stored bool
}

// ColumnDef defines one table column.
type ColumnDef struct {
	Name    Ident
	Type    *DataType
	Options []ColumnOption
}

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Name   Ident
	Length string
	Desc   bool
}

// ForeignKeyRef is the REFERENCES part of a foreign key.
type ForeignKeyRef struct {
	Table    ObjectName
	Columns  []Ident
	OnDelete string
	OnUpdate string
}

// ConstraintKind identifies a table constraint.
type ConstraintKind int

// Table constraints.
const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintUnique
	ConstraintIndex
	ConstraintForeignKey
	ConstraintCheck
)

// TableConstraint is a key or constraint defined at table level.
type TableConstraint struct {
	Kind    ConstraintKind
	Name    *Ident
	Columns []IndexColumn
	Ref     *ForeignKeyRef
	Check   Expr
	Using   string
}

// TableOption is name [=] value after the column list, e.g. ENGINE=InnoDB.
type TableOption struct {
	Name  string // lowercase, DEFAULT dropped, CHARACTER SET normalised to charset
	Value string
}

// CreateTableStmt is CREATE TABLE.
type CreateTableStmt struct {
	StmtInfo
	Temporary   bool
	IfNotExists bool
	Name        ObjectName
	Columns     []*ColumnDef
	Constraints []*TableConstraint
	Options     []TableOption
	Like        ObjectName
}

func (*CreateTableStmt) stmtNode() {}

// CreateIndexStmt is CREATE [UNIQUE] INDEX.
type CreateIndexStmt struct {
	StmtInfo
	Unique  bool
	Name    Ident
	Table   ObjectName
	Columns []IndexColumn
	Using   string
}

func (*CreateIndexStmt) stmtNode() {}

// CreateDatabaseStmt is CREATE DATABASE or CREATE SCHEMA.
type CreateDatabaseStmt struct {
	StmtInfo
	IfNotExists bool
	Name        Ident
	Options     []TableOption
}

func (*CreateDatabaseStmt) stmtNode() {}

// CreateViewStmt is CREATE [OR REPLACE] VIEW.
type CreateViewStmt struct {
	StmtInfo
	OrReplace bool
	Name      ObjectName
	Columns   []Ident
	Select    *SelectStmt
}

func (*CreateViewStmt) stmtNode() {}

// DropStmt is DROP TABLE, DROP VIEW or DROP INDEX.
type DropStmt struct {
	StmtInfo
	ObjectType string // "table", "view" or "index"
	Temporary  bool
	IfExists   bool
	Names      []ObjectName
	Table      ObjectName // DROP INDEX ... ON table
	Cascade    bool
}

func (*DropStmt) stmtNode() {}

// AlterKind identifies one ALTER TABLE specification.
type AlterKind int

// ALTER TABLE specifications.
const (
	AlterAddColumn AlterKind = iota
	AlterAddConstraint
	AlterDropColumn
	AlterDropIndex
	AlterDropPrimaryKey
	AlterDropForeignKey
	AlterModifyColumn
	AlterChangeColumn
	AlterRename
	AlterOption
	AlterConvertCharset
)

// AlterSpec is one comma separated change of an ALTER TABLE.
type AlterSpec struct {
	Kind       AlterKind
	Column     *ColumnDef
	Constraint *TableConstraint
	Name       Ident
	NewName    ObjectName
	Option     *TableOption
	Charset    string // CONVERT TO CHARACTER SET
	Collation  string
}

// AlterTableStmt is ALTER TABLE.
type AlterTableStmt struct {
	StmtInfo
	Name  ObjectName
	Specs []*AlterSpec
}

func (*AlterTableStmt) stmtNode() {}

// TruncateStmt is TRUNCATE [TABLE] name.
type TruncateStmt struct {
	StmtInfo
	Name ObjectName
}

func (*TruncateStmt) stmtNode() {}
