package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// Infix tokens for BinaryOp values, pre-padded with surrounding spaces.
var binaryOpSQL = map[queryir.BinaryOp]string{
	queryir.OpEqual:          " = ",
	queryir.OpNotEqual:       " <> ",
	queryir.OpGreaterThan:    " > ",
	queryir.OpGreaterOrEqual: " >= ",
	queryir.OpLessThan:       " < ",
	queryir.OpLessOrEqual:    " <= ",
	queryir.OpAnd:            " AND ",
	queryir.OpOr:             " OR ",
	queryir.OpAdd:            " + ",
	queryir.OpSubtract:       " - ",
	queryir.OpMultiply:       " * ",
	queryir.OpDivide:         " / ",
	queryir.OpModulo:         " % ",
	queryir.OpBitAnd:         " & ",
	queryir.OpBitOr:          " | ",
}

// visitChild renders inner as a direct operand of outer, adding
// parentheses when the precedence resolver demands them.
func (g *Generator) visitChild(outer, inner queryir.Expr) error {
	if RequiresParentheses(outer, inner) {
		g.sql.Append("(")
		if err := g.visitExpr(inner); err != nil {
			return err
		}
		g.sql.Append(")")
		return nil
	}
	return g.visitExpr(inner)
}

// visitExpr is the central scalar/boolean expression dispatch: one case
// per expression kind, each emitting its SQL surface form and recursing
// into children in a fixed order.
func (g *Generator) visitExpr(e queryir.Expr) error {
	switch x := e.(type) {
	case *queryir.Column:
		return g.visitColumn(x)
	case *queryir.Constant:
		lit, err := g.dialect.Literal(x.Value, x.Type)
		if err != nil {
			return newNodeError(ErrCodeUnhandledNode, x, "formatting constant: %v", err)
		}
		g.sql.Append(lit)
		return nil
	case *queryir.Parameter:
		return g.visitParameter(x)
	case *queryir.Binary:
		return g.visitBinary(x)
	case *queryir.Unary:
		return g.visitUnary(x)
	case *queryir.Function:
		return g.visitFunction(x)
	case *queryir.Case:
		return g.visitCase(x)
	case *queryir.Like:
		return g.visitLike(x)
	case *queryir.Collate:
		if err := g.visitChild(x, x.Operand); err != nil {
			return err
		}
		g.sql.Append(" COLLATE " + x.Collation)
		return nil
	case *queryir.Distinct:
		g.sql.Append("DISTINCT (")
		if err := g.visitExpr(x.Operand); err != nil {
			return err
		}
		g.sql.Append(")")
		return nil
	case *queryir.Exists:
		return g.visitExists(x)
	case *queryir.In:
		return g.visitIn(x)
	case *queryir.RowNumber:
		return g.visitRowNumber(x)
	case *queryir.AtTimeZone:
		if err := g.visitChild(x, x.Operand); err != nil {
			return err
		}
		g.sql.Append(" AT TIME ZONE ")
		return g.visitChild(x, x.Zone)
	case *queryir.Subquery:
		return g.visitScalarSubquery(x)
	case *queryir.Fragment:
		g.sql.Append(x.SQL)
		return nil
	case *queryir.JSONScalar:
		return newNodeError(ErrCodeUnhandledNode, x,
			"JSON scalar access has no generic SQL form and must be handled by a dialect override")
	default:
		return newNodeError(ErrCodeUnhandledNode, e, "unhandled expression kind")
	}
}

func (g *Generator) visitColumn(c *queryir.Column) error {
	if c.Table != "" {
		g.sql.Append(g.dialect.DelimitIdentifier(c.Table))
		g.sql.Append(".")
	}
	g.sql.Append(g.dialect.DelimitIdentifier(c.Name))
	return nil
}

// visitParameter registers the placeholder with the parameter registry
// before emitting its text. First occurrences record a binding.
func (g *Generator) visitParameter(p *queryir.Parameter) error {
	name, fresh := g.params.Register(p.Name, p.Type)
	placeholder := g.dialect.Placeholder(name)
	if fresh {
		g.sql.AddParam(Param{
			Name:        g.dialect.ParameterName(name),
			Placeholder: placeholder,
			Type:        p.Type,
			Nullable:    p.Nullable,
		})
	}
	g.sql.Append(placeholder)
	return nil
}

func (g *Generator) visitBinary(b *queryir.Binary) error {
	token, ok := binaryOpSQL[b.Op]
	if !ok {
		return newNodeError(ErrCodeUnhandledNode, b, "unknown binary operator %d", b.Op)
	}
	if err := g.visitChild(b, b.Left); err != nil {
		return err
	}
	g.sql.Append(token)
	return g.visitChild(b, b.Right)
}

func (g *Generator) visitUnary(u *queryir.Unary) error {
	switch u.Op {
	case queryir.OpConvert:
		g.sql.Append("CAST(")
		if err := g.visitChild(u, u.Operand); err != nil {
			return err
		}
		g.sql.Append(" AS " + u.Target.StoreType + ")")
		return nil
	case queryir.OpNot:
		if queryir.TypeOf(u.Operand).Boolean {
			g.sql.Append("NOT (")
			if err := g.visitExpr(u.Operand); err != nil {
				return err
			}
			g.sql.Append(")")
			return nil
		}
		g.sql.Append("~")
		return g.visitChild(u, u.Operand)
	case queryir.OpNegate:
		g.sql.Append("-")
		return g.visitChild(u, u.Operand)
	case queryir.OpIsNull:
		if err := g.visitChild(u, u.Operand); err != nil {
			return err
		}
		g.sql.Append(" IS NULL")
		return nil
	case queryir.OpIsNotNull:
		if err := g.visitChild(u, u.Operand); err != nil {
			return err
		}
		g.sql.Append(" IS NOT NULL")
		return nil
	default:
		return newNodeError(ErrCodeUnhandledNode, u, "unknown unary operator %d", u.Op)
	}
}

func (g *Generator) visitFunction(f *queryir.Function) error {
	switch {
	case f.Instance != nil:
		if err := g.visitChild(f, f.Instance); err != nil {
			return err
		}
		g.sql.Append("." + f.Name)
	case f.BuiltIn:
		g.sql.Append(f.Name)
	default:
		g.sql.Append(g.dialect.DelimitQualified(f.Schema, f.Name))
	}
	if f.Niladic {
		return nil
	}
	g.sql.Append("(")
	for i, arg := range f.Args {
		if i > 0 {
			g.sql.Append(", ")
		}
		if err := g.visitExpr(arg); err != nil {
			return err
		}
	}
	g.sql.Append(")")
	return nil
}

func (g *Generator) visitCase(c *queryir.Case) error {
	g.sql.Append("CASE")
	if c.Operand != nil {
		g.sql.Append(" ")
		if err := g.visitExpr(c.Operand); err != nil {
			return err
		}
	}
	release := g.sql.Indent()
	defer release()
	for _, when := range c.Whens {
		g.sql.Line()
		g.sql.Append("WHEN ")
		if err := g.visitExpr(when.When); err != nil {
			return err
		}
		g.sql.Append(" THEN ")
		if err := g.visitExpr(when.Then); err != nil {
			return err
		}
	}
	if c.Else != nil {
		g.sql.Line()
		g.sql.Append("ELSE ")
		if err := g.visitExpr(c.Else); err != nil {
			return err
		}
	}
	release()
	g.sql.Line()
	g.sql.Append("END")
	return nil
}

func (g *Generator) visitLike(l *queryir.Like) error {
	if err := g.visitChild(l, l.Match); err != nil {
		return err
	}
	g.sql.Append(" LIKE ")
	if err := g.visitChild(l, l.Pattern); err != nil {
		return err
	}
	if l.Escape != nil {
		g.sql.Append(" ESCAPE ")
		if err := g.visitChild(l, l.Escape); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitExists(e *queryir.Exists) error {
	if e.Negated {
		g.sql.Append("NOT ")
	}
	g.sql.Append("EXISTS (")
	if err := g.appendNestedSelect(e.Subquery); err != nil {
		return err
	}
	g.sql.Append(")")
	return nil
}

func (g *Generator) visitIn(in *queryir.In) error {
	// A literal membership test over zero values has a constant truth
	// value; emit it directly rather than producing invalid "IN ()".
	if in.Subquery == nil && len(in.Values) == 0 {
		if in.Negated {
			g.sql.Append("1 = 1")
		} else {
			g.sql.Append("0 = 1")
		}
		return nil
	}
	if err := g.visitChild(in, in.Item); err != nil {
		return err
	}
	if in.Negated {
		g.sql.Append(" NOT IN (")
	} else {
		g.sql.Append(" IN (")
	}
	if in.Subquery != nil {
		if err := g.appendNestedSelect(in.Subquery); err != nil {
			return err
		}
	} else {
		for i, v := range in.Values {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitExpr(v); err != nil {
				return err
			}
		}
	}
	g.sql.Append(")")
	return nil
}

func (g *Generator) visitRowNumber(r *queryir.RowNumber) error {
	g.sql.Append("ROW_NUMBER() OVER(")
	if len(r.Partitions) > 0 {
		g.sql.Append("PARTITION BY ")
		for i, p := range r.Partitions {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitExpr(p); err != nil {
				return err
			}
		}
		g.sql.Append(" ")
	}
	g.sql.Append("ORDER BY ")
	if len(r.Orderings) == 0 {
		g.sql.Append("(SELECT 1)")
	} else {
		for i, o := range r.Orderings {
			if i > 0 {
				g.sql.Append(", ")
			}
			if err := g.visitOrdering(o); err != nil {
				return err
			}
		}
	}
	g.sql.Append(")")
	return nil
}

func (g *Generator) visitScalarSubquery(s *queryir.Subquery) error {
	g.sql.Append("(")
	if err := g.appendNestedSelect(s.Select); err != nil {
		return err
	}
	g.sql.Append(")")
	return nil
}

// appendNestedSelect renders a subquery SELECT indented on its own lines,
// leaving the caller's parentheses on the surrounding lines.
func (g *Generator) appendNestedSelect(sel *queryir.Select) error {
	release := g.sql.Indent()
	defer release()
	g.sql.Line()
	if err := g.visitSelect(sel); err != nil {
		return err
	}
	release()
	g.sql.Line()
	return nil
}

// visitOrdering renders one ORDER BY term. Bare constants and parameters
// are meaningless as ordering keys but some dialects insist on a concrete
// term, so they render as the marker "(SELECT 1)".
func (g *Generator) visitOrdering(o queryir.Ordering) error {
	switch o.Expr.(type) {
	case *queryir.Constant, *queryir.Parameter:
		g.sql.Append("(SELECT 1)")
	default:
		if err := g.visitExpr(o.Expr); err != nil {
			return err
		}
	}
	if !o.Ascending {
		g.sql.Append(" DESC")
	}
	return nil
}
