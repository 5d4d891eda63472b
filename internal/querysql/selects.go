package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// visitSelect renders a Select. When the Select carries an alias it is in
// table position, so the body is parenthesized, indented, and suffixed
// with "AS <alias>".
func (g *Generator) visitSelect(sel *queryir.Select) error {
	if sel.Alias == "" {
		return g.visitSelectBody(sel)
	}
	g.sql.Append("(")
	release := g.sql.Indent()
	defer release()
	g.sql.Line()
	if err := g.visitSelectBody(sel); err != nil {
		return err
	}
	release()
	g.sql.Line()
	g.sql.Append(") AS " + g.dialect.DelimitIdentifier(sel.Alias))
	return nil
}

func (g *Generator) visitSelectBody(sel *queryir.Select) error {
	// A pure pass-through over a set operation elides the wrapping
	// SELECT entirely and renders the operation naked.
	if setOp, ok := passThroughSetOperation(sel); ok {
		return g.visitSetOperation(setOp)
	}

	g.sql.Append("SELECT ")
	if sel.Distinct {
		g.sql.Append("DISTINCT ")
	}
	if err := g.dialect.EmitTop(g, sel); err != nil {
		return err
	}
	if len(sel.Projection) == 0 {
		g.sql.Append("1")
	} else {
		for i, p := range sel.Projection {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitProjection(p); err != nil {
				return err
			}
		}
	}

	if len(sel.Tables) > 0 {
		g.sql.Line()
		g.sql.Append("FROM ")
		for i, t := range sel.Tables {
			if i > 0 {
				g.sql.Line()
			}
			if err := g.visitTableSource(t); err != nil {
				return err
			}
		}
	} else if err := g.dialect.EmitEmptyFrom(g); err != nil {
		return err
	}

	if sel.Where != nil {
		g.sql.Line()
		g.sql.Append("WHERE ")
		if err := g.visitExpr(sel.Where); err != nil {
			return err
		}
	}

	if len(sel.GroupBy) > 0 {
		g.sql.Line()
		g.sql.Append("GROUP BY ")
		for i, e := range sel.GroupBy {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitExpr(e); err != nil {
				return err
			}
		}
	}

	if sel.Having != nil {
		g.sql.Line()
		g.sql.Append("HAVING ")
		if err := g.visitExpr(sel.Having); err != nil {
			return err
		}
	}

	if orderings := renderableOrderings(sel); len(orderings) > 0 {
		g.sql.Line()
		g.sql.Append("ORDER BY ")
		for i, o := range orderings {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitOrdering(o); err != nil {
				return err
			}
		}
	}

	return g.dialect.EmitLimitOffset(g, sel)
}

// renderableOrderings filters the ORDER BY list. Without pagination,
// constant and parameter terms are dropped outright: they cannot affect
// row order. With a limit or offset every term is kept (the pagination
// clause of most dialects requires a concrete ORDER BY), and
// visitOrdering rewrites the degenerate ones to "(SELECT 1)".
func renderableOrderings(sel *queryir.Select) []queryir.Ordering {
	if sel.Limit != nil || sel.Offset != nil {
		return sel.OrderBy
	}
	var kept []queryir.Ordering
	for _, o := range sel.OrderBy {
		switch o.Expr.(type) {
		case *queryir.Constant, *queryir.Parameter:
			continue
		default:
			kept = append(kept, o)
		}
	}
	return kept
}

// visitProjection renders one output column. The alias is omitted when it
// adds nothing: empty, or identical to the projected column's own name.
func (g *Generator) visitProjection(p queryir.Projection) error {
	if err := g.visitExpr(p.Expr); err != nil {
		return err
	}
	if p.Alias == "" {
		return nil
	}
	if col, ok := p.Expr.(*queryir.Column); ok && col.Name == p.Alias {
		return nil
	}
	g.sql.Append(" AS " + g.dialect.DelimitIdentifier(p.Alias))
	return nil
}

// passThroughSetOperation reports whether sel is a pure 1:1 wrapper
// around a single set operation and may be elided: no pagination, not
// distinct, no filter/having/group-by/orderings, exactly one table which
// is a set operation, and a projection that matches the first operand's
// projection exactly in count, order, table alias, and output name.
func passThroughSetOperation(sel *queryir.Select) (*queryir.SetOperation, bool) {
	if sel.Distinct || sel.Where != nil || sel.Having != nil ||
		len(sel.GroupBy) > 0 || len(sel.OrderBy) > 0 ||
		sel.Limit != nil || sel.Offset != nil || len(sel.Tables) != 1 {
		return nil, false
	}
	setOp, ok := sel.Tables[0].(*queryir.SetOperation)
	if !ok || setOp.Left == nil {
		return nil, false
	}
	inner := setOp.Left.Projection
	if len(sel.Projection) != len(inner) {
		return nil, false
	}
	for i, p := range sel.Projection {
		col, ok := p.Expr.(*queryir.Column)
		if !ok || col.Table != setOp.Alias {
			return nil, false
		}
		name := projectionName(inner[i])
		if name == "" || col.Name != name || projectionName(p) != name {
			return nil, false
		}
	}
	return setOp, true
}

// projectionName resolves the output name of a projection: its alias, or
// the bare column name when no alias is set.
func projectionName(p queryir.Projection) string {
	if p.Alias != "" {
		return p.Alias
	}
	if col, ok := p.Expr.(*queryir.Column); ok {
		return col.Name
	}
	return ""
}

// Join keywords for JoinKind values.
var joinKindSQL = map[queryir.JoinKind]string{
	queryir.JoinInner:      "INNER JOIN",
	queryir.JoinLeft:       "LEFT JOIN",
	queryir.JoinCross:      "CROSS JOIN",
	queryir.JoinCrossApply: "CROSS APPLY",
	queryir.JoinOuterApply: "OUTER APPLY",
}

// visitTableSource renders one entry of a FROM list.
func (g *Generator) visitTableSource(t queryir.TableSource) error {
	switch x := t.(type) {
	case *queryir.BaseTable:
		g.sql.Append(g.dialect.DelimitQualified(x.Schema, x.Name))
		g.appendAlias(x.Alias)
		return nil
	case *queryir.Join:
		keyword, ok := joinKindSQL[x.Kind]
		if !ok {
			return newNodeError(ErrCodeUnhandledNode, x, "unknown join kind %d", x.Kind)
		}
		g.sql.Append(keyword + " ")
		if err := g.visitTableSource(x.Table); err != nil {
			return err
		}
		if x.Kind.PredicateBearing() && x.On != nil {
			g.sql.Append(" ON ")
			return g.visitExpr(x.On)
		}
		return nil
	case *queryir.SetOperation:
		g.sql.Append("(")
		release := g.sql.Indent()
		defer release()
		g.sql.Line()
		if err := g.visitSetOperation(x); err != nil {
			return err
		}
		release()
		g.sql.Line()
		g.sql.Append(")")
		g.appendAlias(x.Alias)
		return nil
	case *queryir.TableFunction:
		g.sql.Append(g.dialect.DelimitQualified(x.Schema, x.Name))
		g.sql.Append("(")
		for i, arg := range x.Args {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitExpr(arg); err != nil {
				return err
			}
		}
		g.sql.Append(")")
		g.appendAlias(x.Alias)
		return nil
	case *queryir.RawTable:
		g.sql.Append("(")
		release := g.sql.Indent()
		defer release()
		g.sql.Line()
		if err := g.appendRawSQL(x, false); err != nil {
			return err
		}
		release()
		g.sql.Line()
		g.sql.Append(")")
		g.appendAlias(x.Alias)
		return nil
	default:
		return newNodeError(ErrCodeUnhandledNode, t, "unhandled table source kind")
	}
}

func (g *Generator) appendAlias(alias string) {
	if alias != "" {
		g.sql.Append(" AS " + g.dialect.DelimitIdentifier(alias))
	}
}
