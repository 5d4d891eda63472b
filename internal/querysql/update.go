package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// visitUpdate renders an UPDATE statement.
//
// The embedded source Select must carry no pagination, grouping, having,
// orderings, or projection, and the target table must be its first table
// or be reached through an inner or cross join. When the source references
// tables beyond the target they are emitted as a FROM clause; join
// predicates that would be lost by pulling the target out of the table
// list are lifted into the WHERE clause, ANDed in front of the existing
// filter.
func (g *Generator) visitUpdate(u *queryir.Update) error {
	sel := u.Source
	if err := validateModifySource(u, sel); err != nil {
		return err
	}
	if len(u.Set) == 0 {
		return newNodeError(ErrCodeUnsupportedShape, u, "UPDATE requires at least one set clause")
	}

	idx, entry := findTargetEntry(sel.Tables, u.Table)
	if idx < 0 {
		return newNodeError(ErrCodeUnsupportedShape, u,
			"UPDATE target %q does not appear in the source table list", u.Table.Name)
	}
	if idx > 0 {
		join, ok := entry.(*queryir.Join)
		if !ok || (join.Kind != queryir.JoinInner && join.Kind != queryir.JoinCross) {
			return newNodeError(ErrCodeUnsupportedShape, u,
				"UPDATE target %q is only reachable through an outer join", u.Table.Name)
		}
	}

	// Pull the target's entry out of the FROM list. Two join predicates
	// can be orphaned by that: the one on the skipped entry itself, and
	// the one on a join left dangling at the head of the remaining list
	// (a FROM clause cannot open with a join). Both are lifted into the
	// filter; each lift builds a fresh AND node with the lifted predicate
	// as the left operand, never mutating either side.
	var lifted []queryir.Expr
	remaining := make([]queryir.TableSource, 0, len(sel.Tables)-1)
	for i, t := range sel.Tables {
		if i != idx {
			remaining = append(remaining, t)
		}
	}
	if join, ok := entry.(*queryir.Join); ok && join.Kind.PredicateBearing() && join.On != nil {
		lifted = append(lifted, join.On)
	}
	if len(remaining) > 0 {
		if join, ok := remaining[0].(*queryir.Join); ok {
			remaining[0] = join.Table
			if join.Kind.PredicateBearing() && join.On != nil {
				lifted = append(lifted, join.On)
			}
		}
	}
	predicate := sel.Where
	for i := len(lifted) - 1; i >= 0; i-- {
		if predicate == nil {
			predicate = lifted[i]
		} else {
			predicate = queryir.And(lifted[i], predicate)
		}
	}

	g.sql.Append("UPDATE ")
	g.sql.Append(g.dialect.DelimitQualified(u.Table.Schema, u.Table.Name))
	g.appendAlias(u.Table.Alias)
	g.sql.Line()

	g.sql.Append("SET ")
	release := g.sql.Indent()
	defer release()
	for i, a := range u.Set {
		if i > 0 {
			g.sql.Append(",")
			g.sql.Line()
		}
		g.sql.Append(g.dialect.DelimitIdentifier(a.Column) + " = ")
		if err := g.visitExpr(a.Value); err != nil {
			return err
		}
	}
	release()

	if len(remaining) > 0 {
		g.sql.Line()
		g.sql.Append("FROM ")
		for i, t := range remaining {
			if i > 0 {
				g.sql.Line()
			}
			if err := g.visitTableSource(t); err != nil {
				return err
			}
		}
	}

	if predicate != nil {
		g.sql.Line()
		g.sql.Append("WHERE ")
		return g.visitExpr(predicate)
	}
	return nil
}

// validateModifySource rejects source Selects that cannot be expressed as
// a simple UPDATE or DELETE: anything with pagination, grouping, having,
// orderings, or a non-empty projection.
func validateModifySource(stmt queryir.Statement, sel *queryir.Select) error {
	if sel == nil {
		return newNodeError(ErrCodeUnsupportedShape, stmt, "statement has no source")
	}
	switch {
	case sel.Limit != nil:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries a limit")
	case sel.Offset != nil:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries an offset")
	case sel.Having != nil:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries a having clause")
	case len(sel.GroupBy) > 0:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries grouping")
	case len(sel.OrderBy) > 0:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries orderings")
	case len(sel.Projection) > 0:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source carries a projection")
	case len(sel.Tables) == 0:
		return newNodeError(ErrCodeUnsupportedShape, stmt, "source references no tables")
	}
	return nil
}

// findTargetEntry locates the table-list entry that resolves to the
// statement target: the base table itself, or a join directly over it.
// Matching is by alias when the target has one (aliases are unique per
// table list), by schema and name otherwise.
func findTargetEntry(tables []queryir.TableSource, target *queryir.BaseTable) (int, queryir.TableSource) {
	for i, t := range tables {
		var base *queryir.BaseTable
		switch x := t.(type) {
		case *queryir.BaseTable:
			base = x
		case *queryir.Join:
			if b, ok := x.Table.(*queryir.BaseTable); ok {
				base = b
			}
		}
		if base == nil {
			continue
		}
		if target.Alias != "" {
			if base.Alias == target.Alias {
				return i, t
			}
			continue
		}
		if base.Schema == target.Schema && base.Name == target.Name {
			return i, t
		}
	}
	return -1, nil
}
