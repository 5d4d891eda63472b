package querysql

import (
	"strings"

	"github.com/roach88/sqlgen/internal/queryir"
)

// Generator translates one IR tree into SQL text plus parameter bindings.
//
// A Generator is single-use: Generate constructs one per call so the
// output builder and parameter registry never leak across invocations.
// Generation is a synchronous, single-pass recursive descent over the
// read-only input tree; there is no partial or streaming output.
type Generator struct {
	dialect Dialect
	sql     *commandBuilder
	params  *paramRegistry
}

// Generate converts the tree rooted at node into a Command.
//
// Statement roots dispatch to the SELECT/UPDATE/DELETE translators;
// expression roots fall back to scalar dispatch. Any failure aborts the
// call with a *GenError and no Command.
func Generate(d Dialect, node queryir.Node) (*Command, error) {
	g := &Generator{
		dialect: d,
		sql:     newCommandBuilder(),
		params:  newParamRegistry(),
	}
	if err := g.visitRoot(node); err != nil {
		return nil, err
	}
	return g.sql.Finish(), nil
}

// visitRoot classifies the root node and emits the leading tag comment
// block for statements.
func (g *Generator) visitRoot(node queryir.Node) error {
	switch n := node.(type) {
	case *queryir.Select:
		g.emitTags(n.Tags)
		if raw, ok := rawWrapper(n); ok {
			// A bare wrapper around a raw fragment emits the fragment
			// directly; composability is not required at top level.
			return g.appendRawSQL(raw, true)
		}
		return g.visitSelect(n)
	case *queryir.Update:
		if n.Source != nil {
			g.emitTags(n.Source.Tags)
		}
		return g.visitUpdate(n)
	case *queryir.Delete:
		if n.Source != nil {
			g.emitTags(n.Source.Tags)
		}
		return g.visitDelete(n)
	case queryir.Expr:
		return g.visitExpr(n)
	default:
		return newNodeError(ErrCodeUnhandledNode, node, "node kind has no top-level SQL form")
	}
}

// rawWrapper detects a Select that is nothing but a pass-through around a
// raw-SQL table: a single RawTable source and no other clauses.
func rawWrapper(sel *queryir.Select) (*queryir.RawTable, bool) {
	if len(sel.Tables) != 1 {
		return nil, false
	}
	raw, ok := sel.Tables[0].(*queryir.RawTable)
	if !ok {
		return nil, false
	}
	if sel.Distinct || len(sel.Projection) > 0 || sel.Where != nil ||
		len(sel.GroupBy) > 0 || sel.Having != nil || len(sel.OrderBy) > 0 ||
		sel.Limit != nil || sel.Offset != nil {
		return nil, false
	}
	return raw, true
}

// emitTags writes one comment line per tag followed by a blank line.
func (g *Generator) emitTags(tags []string) {
	if len(tags) == 0 {
		return
	}
	for _, tag := range tags {
		for _, line := range strings.Split(tag, "\n") {
			g.sql.Append(g.dialect.Comment(line))
			g.sql.Line()
		}
	}
	g.sql.Line()
}

// Append writes raw text to the output. Exported for dialect hooks.
func (g *Generator) Append(s string) { g.sql.Append(s) }

// AppendLine terminates the current output line. Exported for dialect
// hooks.
func (g *Generator) AppendLine() { g.sql.Line() }

// VisitExpr renders an expression subtree. Exported for dialect hooks.
func (g *Generator) VisitExpr(e queryir.Expr) error { return g.visitExpr(e) }
