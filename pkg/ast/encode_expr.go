package ast

import "github.com/leapstack-labs/tikey/pkg/tree"

func (e *encoder) exprs(list []Expr) tree.Value {
	out := make([]tree.Value, len(list))
	for i, x := range list {
		out[i] = e.expr(x)
	}
	return tree.Array(out...)
}

func (e *encoder) expr(x Expr) tree.Value {
	switch n := x.(type) {
	case nil:
		return tree.Null()
	case *Literal:
		switch n.Kind {
		case LiteralNumber:
			return kind("Value", kind("Number", tree.String(n.Value)))
		case LiteralString:
			return kind("Value", kind("SingleQuotedString", tree.String(n.Value)))
		case LiteralBool:
			return kind("Value", kind("Boolean", tree.Bool(n.Value == "true")))
		default:
			return kind("Value", kind("Null", tree.Null()))
		}
	case *ColumnRef:
		if len(n.Name) == 1 {
			return kind("Identifier", ident(n.Name[0]))
		}
		return kind("CompoundIdentifier", idents(n.Name))
	case *Placeholder:
		return kind("Placeholder", tree.String("?"))
	case *DefaultExpr:
		return kind("Default", tree.Null())
	case *UnaryExpr:
		return kind("UnaryOp", tree.Object(
			tree.M("op", tree.String(n.Op)),
			tree.M("expr", e.expr(n.Expr)),
		))
	case *BinaryExpr:
		return kind("BinaryOp", tree.Object(
			tree.M("left", e.expr(n.Left)),
			tree.M("op", tree.String(n.Op)),
			tree.M("right", e.expr(n.Right)),
		))
	case *ParenExpr:
		return kind("Nested", e.expr(n.Expr))
	case *TupleExpr:
		return kind("Tuple", e.exprs(n.Items))
	case *IsExpr:
		return kind("Is", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("negated", tree.Bool(n.Not)),
			tree.M("value", tree.String(n.Value)),
		))
	case *InExpr:
		if n.Query != nil {
			return kind("InSubquery", tree.Object(
				tree.M("expr", e.expr(n.Expr)),
				tree.M("subquery", e.queryValue(n.Query)),
				tree.M("negated", tree.Bool(n.Not)),
			))
		}
		return kind("InList", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("list", e.exprs(n.Values)),
			tree.M("negated", tree.Bool(n.Not)),
		))
	case *BetweenExpr:
		return kind("Between", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("negated", tree.Bool(n.Not)),
			tree.M("low", e.expr(n.Low)),
			tree.M("high", e.expr(n.High)),
		))
	case *LikeExpr:
		return kind("Like", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("negated", tree.Bool(n.Not)),
			tree.M("op", tree.String(n.Op)),
			tree.M("pattern", e.expr(n.Pattern)),
			tree.M("escape", e.expr(n.Escape)),
		))
	case *FuncCall:
		return e.funcCall(n)
	case *CaseExpr:
		whens := make([]tree.Value, len(n.Whens))
		for i, w := range n.Whens {
			whens[i] = tree.Object(
				tree.M("condition", e.expr(w.Condition)),
				tree.M("result", e.expr(w.Result)),
			)
		}
		return kind("Case", tree.Object(
			tree.M("operand", e.expr(n.Operand)),
			tree.M("conditions", tree.Array(whens...)),
			tree.M("else_result", e.expr(n.Else)),
		))
	case *CastExpr:
		return kind("Cast", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("data_type", dataType(n.Type)),
		))
	case *ConvertExpr:
		return kind("Convert", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("data_type", dataType(n.Type)),
			tree.M("charset", str(n.Charset)),
		))
	case *CollateExpr:
		return kind("Collate", tree.Object(
			tree.M("expr", e.expr(n.Expr)),
			tree.M("collation", tree.String(n.Collation)),
		))
	case *IntervalExpr:
		return kind("Interval", tree.Object(
			tree.M("value", e.expr(n.Value)),
			tree.M("unit", tree.String(n.Unit)),
		))
	case *SubqueryExpr:
		return kind("Subquery", e.queryValue(n.Select))
	case *ExistsExpr:
		return kind("Exists", tree.Object(
			tree.M("subquery", e.queryValue(n.Select)),
			tree.M("negated", tree.Bool(n.Not)),
		))
	default:
		return e.fail("expression %T", x)
	}
}

func (e *encoder) funcCall(f *FuncCall) tree.Value {
	args := e.exprs(f.Args)
	if f.Star {
		args = tree.Array(kind("Wildcard", tree.Null()))
	}
	over := tree.Null()
	if f.Over != nil {
		over = tree.Object(
			tree.M("name", optIdent(f.Over.Name)),
			tree.M("partition_by", e.exprs(f.Over.PartitionBy)),
			tree.M("order_by", e.orderBy(f.Over.OrderBy)),
			tree.M("frame", str(f.Over.Frame)),
		)
	}
	return kind("Function", tree.Object(
		tree.M("name", objectName(f.Name)),
		tree.M("args", args),
		tree.M("distinct", tree.Bool(f.Distinct)),
		tree.M("order_by", e.orderBy(f.OrderBy)),
		tree.M("separator", str(f.Separator)),
		tree.M("over", over),
	))
}
