package ast

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tikey/pkg/tree"
)

// ErrUnserializable is returned by ToTree for statements it has no shape for.
var ErrUnserializable = errors.New("statement cannot be serialized")

// ToTree serializes a statement into the tree matched by rules.
//
// Each statement becomes a single member object keyed by its kind, e.g.
// {"Query": {...}}. Ident nodes are {"value", "quote_style"}; dotted object
// names appear as an array under "name"; function calls under "Function";
// types under "DataType"; foreign keys under "ForeignKey".
func ToTree(stmt Statement) (tree.Value, error) {
	if stmt == nil {
		return tree.Value{}, ErrUnserializable
	}
	e := &encoder{}
	v := e.statement(stmt)
	if e.err != nil {
		return tree.Value{}, e.err
	}
	return v, nil
}

type encoder struct {
	err error
}

func (e *encoder) fail(format string, args ...any) tree.Value {
	if e.err == nil {
		e.err = fmt.Errorf("%w: "+format, append([]any{ErrUnserializable}, args...)...)
	}
	return tree.Null()
}

func kind(name string, v tree.Value) tree.Value {
	return tree.Object(tree.M(name, v))
}

func str(s string) tree.Value {
	if s == "" {
		return tree.Null()
	}
	return tree.String(s)
}

func strs(ss []string) tree.Value {
	items := make([]tree.Value, len(ss))
	for i, s := range ss {
		items[i] = tree.String(s)
	}
	return tree.Array(items...)
}

func ident(i Ident) tree.Value {
	quote := tree.Null()
	if i.Quote != 0 {
		quote = tree.String(string(i.Quote))
	}
	return tree.Object(
		tree.M("value", tree.String(i.Value)),
		tree.M("quote_style", quote),
	)
}

func optIdent(i *Ident) tree.Value {
	if i == nil {
		return tree.Null()
	}
	return ident(*i)
}

func idents(ids []Ident) tree.Value {
	items := make([]tree.Value, len(ids))
	for i, id := range ids {
		items[i] = ident(id)
	}
	return tree.Array(items...)
}

func objectName(n ObjectName) tree.Value {
	if n == nil {
		return tree.Null()
	}
	return idents(n)
}

func (e *encoder) statement(stmt Statement) tree.Value {
	switch s := stmt.(type) {
	case *SyntheticStmt:
		text := tree.Null()
		if s.HasText {
			text = tree.String(s.Text)
		}
		return kind("Synthetic", tree.Object(
			tree.M("category", tree.String(s.Category.String())),
			tree.M("sql", text),
		))
	case *NoopStmt:
		return kind("Noop", tree.Null())
	case *SelectStmt:
		return kind("Query", e.query(s))
	case *InsertStmt:
		return e.insert(s)
	case *UpdateStmt:
		return kind("Update", tree.Object(
			tree.M("ignore", tree.Bool(s.Ignore)),
			tree.M("table", e.from(s.Tables)),
			tree.M("assignments", e.assignments(s.Set)),
			tree.M("selection", e.expr(s.Where)),
			tree.M("order_by", e.orderBy(s.OrderBy)),
			tree.M("limit", e.expr(s.Limit)),
		))
	case *DeleteStmt:
		targets := make([]tree.Value, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = tree.Object(tree.M("name", objectName(t)))
		}
		return kind("Delete", tree.Object(
			tree.M("ignore", tree.Bool(s.Ignore)),
			tree.M("tables", tree.Array(targets...)),
			tree.M("from", e.from(s.From)),
			tree.M("selection", e.expr(s.Where)),
			tree.M("order_by", e.orderBy(s.OrderBy)),
			tree.M("limit", e.expr(s.Limit)),
		))
	case *CreateTableStmt:
		return e.createTable(s)
	case *CreateIndexStmt:
		return kind("CreateIndex", tree.Object(
			tree.M("unique", tree.Bool(s.Unique)),
			tree.M("index_name", ident(s.Name)),
			tree.M("name", objectName(s.Table)),
			tree.M("columns", indexColumns(s.Columns)),
			tree.M("using", str(s.Using)),
		))
	case *CreateDatabaseStmt:
		return kind("CreateDatabase", tree.Object(
			tree.M("if_not_exists", tree.Bool(s.IfNotExists)),
			tree.M("name", idents([]Ident{s.Name})),
			tree.M("options", tableOptions(s.Options)),
		))
	case *CreateViewStmt:
		return kind("CreateView", tree.Object(
			tree.M("or_replace", tree.Bool(s.OrReplace)),
			tree.M("name", objectName(s.Name)),
			tree.M("columns", idents(s.Columns)),
			tree.M("query", e.queryValue(s.Select)),
		))
	case *DropStmt:
		names := make([]tree.Value, len(s.Names))
		for i, n := range s.Names {
			names[i] = tree.Object(tree.M("name", objectName(n)))
		}
		return kind("Drop", tree.Object(
			tree.M("object_type", tree.String(s.ObjectType)),
			tree.M("temporary", tree.Bool(s.Temporary)),
			tree.M("if_exists", tree.Bool(s.IfExists)),
			tree.M("names", tree.Array(names...)),
			tree.M("table", objectName(s.Table)),
			tree.M("cascade", tree.Bool(s.Cascade)),
		))
	case *AlterTableStmt:
		return e.alterTable(s)
	case *TruncateStmt:
		return kind("Truncate", tree.Object(tree.M("name", objectName(s.Name))))
	case *UseStmt:
		return kind("Use", tree.Object(tree.M("name", idents([]Ident{s.Name}))))
	case *SetStmt:
		vars := make([]tree.Value, len(s.Variables))
		for i, v := range s.Variables {
			vars[i] = tree.Object(
				tree.M("scope", str(v.Scope)),
				tree.M("variable", objectName(v.Name)),
				tree.M("value", e.expr(v.Value)),
			)
		}
		return kind("SetVariable", tree.Object(tree.M("variables", tree.Array(vars...))))
	case *SetNamesStmt:
		return kind("SetNames", tree.Object(
			tree.M("charset", str(s.Charset)),
			tree.M("collation", str(s.Collation)),
		))
	case *SetTransactionStmt:
		return kind("SetTransaction", tree.Object(
			tree.M("scope", str(s.Scope)),
			tree.M("characteristics", strs(s.Characteristics)),
		))
	case *StartTransactionStmt:
		return kind("StartTransaction", tree.Object(
			tree.M("begin", tree.Bool(s.Begin)),
			tree.M("modes", strs(s.Modes)),
		))
	case *CommitStmt:
		return kind("Commit", tree.Null())
	case *RollbackStmt:
		return kind("Rollback", tree.Object(tree.M("savepoint", optIdent(s.Savepoint))))
	case *SavepointStmt:
		return kind("Savepoint", tree.Object(tree.M("name", ident(s.Name))))
	case *ReleaseSavepointStmt:
		return kind("ReleaseSavepoint", tree.Object(tree.M("name", ident(s.Name))))
	case *GrantStmt:
		return e.grant(s)
	case *ShowStmt:
		return kind("Show", tree.Object(
			tree.M("full", tree.Bool(s.Full)),
			tree.M("kind", tree.String(s.Kind)),
			tree.M("name", objectName(s.Target)),
			tree.M("from", objectName(s.From)),
			tree.M("like", e.expr(s.Like)),
			tree.M("where", e.expr(s.Where)),
		))
	case *ExplainStmt:
		inner := tree.Null()
		if s.Stmt != nil {
			inner = e.statement(s.Stmt)
		}
		return kind("Explain", tree.Object(
			tree.M("statement", inner),
			tree.M("name", objectName(s.Table)),
		))
	default:
		return e.fail("%T", stmt)
	}
}

func (e *encoder) queryValue(s *SelectStmt) tree.Value {
	if s == nil {
		return tree.Null()
	}
	return kind("Query", e.query(s))
}

func (e *encoder) query(s *SelectStmt) tree.Value {
	with := tree.Null()
	if s.With != nil {
		ctes := make([]tree.Value, len(s.With.CTEs))
		for i, c := range s.With.CTEs {
			ctes[i] = tree.Object(
				tree.M("alias", ident(c.Name)),
				tree.M("columns", idents(c.Columns)),
				tree.M("query", e.queryValue(c.Select)),
			)
		}
		with = tree.Object(
			tree.M("recursive", tree.Bool(s.With.Recursive)),
			tree.M("cte_tables", tree.Array(ctes...)),
		)
	}
	return tree.Object(
		tree.M("with", with),
		tree.M("body", e.selectCore(s.Body)),
	)
}

func (e *encoder) selectCore(c *SelectCore) tree.Value {
	if c == nil {
		return tree.Null()
	}
	items := make([]tree.Value, len(c.Columns))
	for i, item := range c.Columns {
		switch {
		case item.Star:
			items[i] = kind("Wildcard", tree.Null())
		case item.TableStar != nil:
			items[i] = kind("QualifiedWildcard", objectName(item.TableStar))
		default:
			items[i] = kind("Expr", tree.Object(
				tree.M("expr", e.expr(item.Expr)),
				tree.M("alias", optIdent(item.Alias)),
			))
		}
	}
	sel := kind("Select", tree.Object(
		tree.M("distinct", tree.Bool(c.Distinct)),
		tree.M("projection", tree.Array(items...)),
		tree.M("from", e.from(c.From)),
		tree.M("selection", e.expr(c.Where)),
		tree.M("group_by", e.exprs(c.GroupBy)),
		tree.M("having", e.expr(c.Having)),
		tree.M("order_by", e.orderBy(c.OrderBy)),
		tree.M("limit", e.expr(c.Limit)),
		tree.M("offset", e.expr(c.Offset)),
		tree.M("lock", str(c.Lock)),
	))
	if c.SetOp == SetOpNone || c.Right == nil {
		return sel
	}
	return kind("SetOperation", tree.Object(
		tree.M("op", tree.String(string(c.SetOp))),
		tree.M("left", sel),
		tree.M("right", e.selectCore(c.Right)),
	))
}

func (e *encoder) from(f *FromClause) tree.Value {
	if f == nil {
		return tree.Null()
	}
	joins := make([]tree.Value, len(f.Joins))
	for i, j := range f.Joins {
		constraint := tree.Null()
		switch {
		case j.Condition != nil:
			constraint = kind("On", e.expr(j.Condition))
		case len(j.Using) > 0:
			constraint = kind("Using", idents(j.Using))
		}
		joins[i] = tree.Object(
			tree.M("join_operator", tree.String(string(j.Type))),
			tree.M("natural", tree.Bool(j.Natural)),
			tree.M("relation", e.tableRef(j.Right)),
			tree.M("constraint", constraint),
		)
	}
	return tree.Object(
		tree.M("relation", e.tableRef(f.Source)),
		tree.M("joins", tree.Array(joins...)),
	)
}

func (e *encoder) tableRef(ref TableRef) tree.Value {
	switch t := ref.(type) {
	case nil:
		return tree.Null()
	case *TableName:
		return kind("Table", tree.Object(
			tree.M("name", objectName(t.Name)),
			tree.M("alias", optIdent(t.Alias)),
		))
	case *DerivedTable:
		return kind("Derived", tree.Object(
			tree.M("subquery", e.queryValue(t.Select)),
			tree.M("alias", optIdent(t.Alias)),
		))
	default:
		return e.fail("table reference %T", ref)
	}
}

func (e *encoder) orderBy(items []OrderByItem) tree.Value {
	out := make([]tree.Value, len(items))
	for i, o := range items {
		out[i] = tree.Object(
			tree.M("expr", e.expr(o.Expr)),
			tree.M("desc", tree.Bool(o.Desc)),
		)
	}
	return tree.Array(out...)
}

func (e *encoder) assignments(as []Assignment) tree.Value {
	out := make([]tree.Value, len(as))
	for i, a := range as {
		out[i] = tree.Object(
			tree.M("id", objectName(a.Column)),
			tree.M("value", e.expr(a.Value)),
		)
	}
	return tree.Array(out...)
}

func (e *encoder) insert(s *InsertStmt) tree.Value {
	source := tree.Null()
	switch {
	case s.Select != nil:
		source = e.queryValue(s.Select)
	case s.Values != nil:
		rows := make([]tree.Value, len(s.Values))
		for i, row := range s.Values {
			rows[i] = e.exprs(row)
		}
		source = kind("Values", tree.Object(tree.M("rows", tree.Array(rows...))))
	}
	return kind("Insert", tree.Object(
		tree.M("replace", tree.Bool(s.Replace)),
		tree.M("ignore", tree.Bool(s.Ignore)),
		tree.M("name", objectName(s.Table)),
		tree.M("columns", idents(s.Columns)),
		tree.M("source", source),
		tree.M("assignments", e.assignments(s.Set)),
		tree.M("on_duplicate", e.assignments(s.OnDuplicate)),
	))
}

func (e *encoder) createTable(s *CreateTableStmt) tree.Value {
	cols := make([]tree.Value, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = e.columnDef(c)
	}
	cons := make([]tree.Value, len(s.Constraints))
	for i, c := range s.Constraints {
		cons[i] = e.constraint(c)
	}
	return kind("CreateTable", tree.Object(
		tree.M("temporary", tree.Bool(s.Temporary)),
		tree.M("if_not_exists", tree.Bool(s.IfNotExists)),
		tree.M("name", objectName(s.Name)),
		tree.M("columns", tree.Array(cols...)),
		tree.M("constraints", tree.Array(cons...)),
		tree.M("options", tableOptions(s.Options)),
		tree.M("like", objectName(s.Like)),
	))
}

func (e *encoder) columnDef(c *ColumnDef) tree.Value {
	if c == nil {
		return tree.Null()
	}
	opts := make([]tree.Value, len(c.Options))
	for i, o := range c.Options {
		opts[i] = e.columnOption(o)
	}
	return tree.Object(
		tree.M("name", ident(c.Name)),
		tree.M("data_type", dataType(c.Type)),
		tree.M("options", tree.Array(opts...)),
	)
}

func (e *encoder) columnOption(o ColumnOption) tree.Value {
	switch o.Kind {
	case OptNull:
		return kind("Null", tree.Null())
	case OptNotNull:
		return kind("NotNull", tree.Null())
	case OptDefault:
		return kind("Default", e.expr(o.Expr))
	case OptPrimaryKey:
		return kind("Unique", tree.Object(tree.M("is_primary", tree.Bool(true))))
	case OptUnique:
		return kind("Unique", tree.Object(tree.M("is_primary", tree.Bool(false))))
	case OptAutoIncrement:
		return kind("AutoIncrement", tree.Null())
	case OptComment:
		return kind("Comment", tree.String(o.Text))
	case OptOnUpdate:
		return kind("OnUpdate", e.expr(o.Expr))
	case OptCollate:
		return tree.Object(tree.M("collation", tree.String(o.Text)))
	case OptCharset:
		return tree.Object(tree.M("charset", tree.String(o.Text)))
	case OptReferences:
		return kind("ForeignKey", foreignKeyRef(o.Ref, nil, nil))
	case OptCheck:
		return kind("Check", e.expr(o.Expr))
	case OptGenerated:
		return kind("Generated", tree.Object(
			tree.M("expr", e.expr(o.Expr)),
			tree.M("stored", tree.Bool(o.Stored)),
		))
	default:
		return e.fail("column option %d", o.Kind)
	}
}

func foreignKeyRef(ref *ForeignKeyRef, name *Ident, columns []Ident) tree.Value {
	members := []tree.Member{}
	if ref == nil {
		ref = &ForeignKeyRef{}
	}
	if columns != nil {
		members = append(members,
			tree.M("name", optIdent(name)),
			tree.M("columns", idents(columns)),
		)
	}
	members = append(members,
		tree.M("foreign_table", objectName(ref.Table)),
		tree.M("referred_columns", idents(ref.Columns)),
		tree.M("on_delete", str(ref.OnDelete)),
		tree.M("on_update", str(ref.OnUpdate)),
	)
	return tree.Object(members...)
}

func indexColumns(cols []IndexColumn) tree.Value {
	out := make([]tree.Value, len(cols))
	for i, c := range cols {
		out[i] = tree.Object(
			tree.M("column", ident(c.Name)),
			tree.M("length", str(c.Length)),
			tree.M("desc", tree.Bool(c.Desc)),
		)
	}
	return tree.Array(out...)
}

func (e *encoder) constraint(c *TableConstraint) tree.Value {
	switch c.Kind {
	case ConstraintPrimaryKey, ConstraintUnique, ConstraintIndex:
		name := map[ConstraintKind]string{
			ConstraintPrimaryKey: "PrimaryKey",
			ConstraintUnique:     "Unique",
			ConstraintIndex:      "Index",
		}[c.Kind]
		return kind(name, tree.Object(
			tree.M("name", optIdent(c.Name)),
			tree.M("columns", indexColumns(c.Columns)),
			tree.M("using", str(c.Using)),
		))
	case ConstraintForeignKey:
		cols := make([]Ident, len(c.Columns))
		for i, ic := range c.Columns {
			cols[i] = ic.Name
		}
		return kind("ForeignKey", foreignKeyRef(c.Ref, c.Name, cols))
	case ConstraintCheck:
		return kind("Check", tree.Object(
			tree.M("name", optIdent(c.Name)),
			tree.M("expr", e.expr(c.Check)),
		))
	default:
		return e.fail("constraint %d", c.Kind)
	}
}

func tableOptions(opts []TableOption) tree.Value {
	out := make([]tree.Value, len(opts))
	for i, o := range opts {
		out[i] = tree.Object(
			tree.M("option", tree.String(o.Name)),
			tree.M("value", tree.String(o.Value)),
		)
	}
	return tree.Array(out...)
}

func (e *encoder) alterTable(s *AlterTableStmt) tree.Value {
	ops := make([]tree.Value, len(s.Specs))
	for i, spec := range s.Specs {
		switch spec.Kind {
		case AlterAddColumn:
			ops[i] = kind("AddColumn", e.columnDef(spec.Column))
		case AlterAddConstraint:
			ops[i] = kind("AddConstraint", e.constraint(spec.Constraint))
		case AlterDropColumn:
			ops[i] = kind("DropColumn", tree.Object(tree.M("column", ident(spec.Name))))
		case AlterDropIndex:
			ops[i] = kind("DropIndex", tree.Object(tree.M("index", ident(spec.Name))))
		case AlterDropPrimaryKey:
			ops[i] = kind("DropPrimaryKey", tree.Null())
		case AlterDropForeignKey:
			ops[i] = kind("DropForeignKey", tree.Object(tree.M("constraint", ident(spec.Name))))
		case AlterModifyColumn:
			ops[i] = kind("ModifyColumn", e.columnDef(spec.Column))
		case AlterChangeColumn:
			ops[i] = kind("ChangeColumn", tree.Object(
				tree.M("old_name", ident(spec.Name)),
				tree.M("column", e.columnDef(spec.Column)),
			))
		case AlterRename:
			ops[i] = kind("RenameTable", tree.Object(tree.M("name", objectName(spec.NewName))))
		case AlterOption:
			ops[i] = kind("TableOption", tableOptions([]TableOption{*spec.Option}).Items()[0])
		case AlterConvertCharset:
			ops[i] = kind("ConvertTo", tree.Object(
				tree.M("charset", str(spec.Charset)),
				tree.M("collation", str(spec.Collation)),
			))
		default:
			return e.fail("alter specification %d", spec.Kind)
		}
	}
	return kind("AlterTable", tree.Object(
		tree.M("name", objectName(s.Name)),
		tree.M("operations", tree.Array(ops...)),
	))
}

var titleCaser = cases.Title(language.English)

// actionName turns a lowercase privilege such as "alter routine" into its
// tree key, "AlterRoutine".
func actionName(priv string) string {
	return strings.ReplaceAll(titleCaser.String(priv), " ", "")
}

func (e *encoder) grant(s *GrantStmt) tree.Value {
	var privileges tree.Value
	if s.All {
		privileges = kind("All", tree.Null())
	} else {
		actions := make([]tree.Value, len(s.Privileges))
		for i, p := range s.Privileges {
			cols := tree.Null()
			if p.Columns != nil {
				cols = idents(p.Columns)
			}
			actions[i] = kind(actionName(p.Name), tree.Object(tree.M("columns", cols)))
		}
		privileges = kind("Actions", tree.Array(actions...))
	}
	return kind("Grant", tree.Object(
		tree.M("privileges", privileges),
		tree.M("object_type", str(s.ObjectType)),
		tree.M("objects", objectName(s.Object)),
		tree.M("grantees", strs(s.Grantees)),
		tree.M("with_grant_option", tree.Bool(s.WithGrantOption)),
	))
}

func dataType(t *DataType) tree.Value {
	if t == nil {
		return tree.Null()
	}
	return kind("DataType", tree.Object(
		tree.M("value", tree.String(t.Name)),
		tree.M("args", strs(t.Args)),
		tree.M("values", strs(t.Values)),
		tree.M("unsigned", tree.Bool(t.Unsigned)),
		tree.M("zerofill", tree.Bool(t.Zerofill)),
		tree.M("charset", str(t.Charset)),
		tree.M("collation", str(t.Collation)),
	))
}
