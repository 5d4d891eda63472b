package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// visitDelete renders a DELETE statement.
//
// The embedded source Select must reference exactly the target table and
// nothing else: no joins, no pagination, grouping, having, orderings, or
// projection. Richer shapes cannot be expressed as a plain DELETE and are
// rejected rather than mistranslated.
func (g *Generator) visitDelete(d *queryir.Delete) error {
	sel := d.Source
	if err := validateModifySource(d, sel); err != nil {
		return err
	}
	if len(sel.Tables) != 1 {
		return newNodeError(ErrCodeUnsupportedShape, d,
			"DELETE source must reference exactly one table, got %d", len(sel.Tables))
	}
	idx, entry := findTargetEntry(sel.Tables, d.Table)
	if idx != 0 {
		return newNodeError(ErrCodeUnsupportedShape, d,
			"DELETE source table does not match target %q", d.Table.Name)
	}
	if _, ok := entry.(*queryir.BaseTable); !ok {
		return newNodeError(ErrCodeUnsupportedShape, d,
			"DELETE target %q is wrapped in a join", d.Table.Name)
	}

	g.sql.Append("DELETE FROM ")
	g.sql.Append(g.dialect.DelimitQualified(d.Table.Schema, d.Table.Name))
	g.appendAlias(d.Table.Alias)

	if sel.Where != nil {
		g.sql.Line()
		g.sql.Append("WHERE ")
		return g.visitExpr(sel.Where)
	}
	return nil
}
