package querysql

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sqlgen/internal/queryir"
)

// Dialect supplies the quoting, literal-formatting, and clause hooks a
// specific database needs. The generator core calls only this interface;
// everything else about a database lives behind it.
//
// The Emit* methods are extension hooks: the generator invokes them at
// fixed points and a dialect writes through the passed Generator (Append,
// AppendLine, VisitExpr). Standard provides the defaults; a dialect
// usually embeds Standard and overrides what differs.
type Dialect interface {
	// Name identifies the dialect ("standard", "sqlite", ...).
	Name() string

	// DelimitIdentifier quotes a single identifier.
	DelimitIdentifier(name string) string

	// DelimitQualified quotes a schema-qualified identifier. An empty
	// schema yields the bare delimited name.
	DelimitQualified(schema, name string) string

	// Literal formats a constant value as SQL text.
	Literal(value any, mapping queryir.TypeMapping) (string, error)

	// Placeholder returns the placeholder text embedded in the SQL for a
	// resolved parameter name.
	Placeholder(name string) string

	// ParameterName returns the binding name the execution layer uses for
	// a resolved parameter name.
	ParameterName(name string) string

	// Comment formats one line of comment text.
	Comment(text string) string

	// EmitTop writes a TOP-style row limit between SELECT and the
	// projection list. Dialects that paginate elsewhere emit nothing.
	EmitTop(g *Generator, sel *queryir.Select) error

	// EmitLimitOffset writes the trailing pagination clause.
	EmitLimitOffset(g *Generator, sel *queryir.Select) error

	// EmitEmptyFrom writes a pseudo-FROM clause for table-less SELECTs.
	// The default emits nothing.
	EmitEmptyFrom(g *Generator) error
}

// Standard is the portable default dialect: double-quoted identifiers,
// @name placeholders, and OFFSET/FETCH pagination.
//
// Identifier names are NFC-normalized before quoting so that visually
// identical identifiers produced by different upstream sources delimit to
// the same text.
type Standard struct{}

// Name implements Dialect.
func (Standard) Name() string { return "standard" }

// DelimitIdentifier implements Dialect.
func (Standard) DelimitIdentifier(name string) string {
	name = norm.NFC.String(name)
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// DelimitQualified implements Dialect.
func (d Standard) DelimitQualified(schema, name string) string {
	if schema == "" {
		return d.DelimitIdentifier(name)
	}
	return d.DelimitIdentifier(schema) + "." + d.DelimitIdentifier(name)
}

// Literal implements Dialect. The mapping is available for dialects that
// format by store type; the standard dialect formats by Go value alone.
func (Standard) Literal(value any, _ queryir.TypeMapping) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'", nil
	case time.Time:
		return "TIMESTAMP '" + v.UTC().Format("2006-01-02 15:04:05") + "'", nil
	default:
		return "", fmt.Errorf("no SQL literal form for value of type %T", value)
	}
}

// Placeholder implements Dialect.
func (Standard) Placeholder(name string) string { return "@" + name }

// ParameterName implements Dialect.
func (Standard) ParameterName(name string) string { return name }

// Comment implements Dialect.
func (Standard) Comment(text string) string { return "-- " + text }

// EmitTop implements Dialect. The standard dialect paginates with
// OFFSET/FETCH, so no TOP clause is emitted.
func (Standard) EmitTop(*Generator, *queryir.Select) error { return nil }

// EmitLimitOffset implements Dialect. Emits
// "OFFSET n ROWS [FETCH NEXT m ROWS ONLY]" when an offset is present and
// "FETCH FIRST m ROWS ONLY" for a bare limit.
func (Standard) EmitLimitOffset(g *Generator, sel *queryir.Select) error {
	switch {
	case sel.Offset != nil:
		g.AppendLine()
		g.Append("OFFSET ")
		if err := g.VisitExpr(sel.Offset); err != nil {
			return err
		}
		g.Append(" ROWS")
		if sel.Limit != nil {
			g.Append(" FETCH NEXT ")
			if err := g.VisitExpr(sel.Limit); err != nil {
				return err
			}
			g.Append(" ROWS ONLY")
		}
	case sel.Limit != nil:
		g.AppendLine()
		g.Append("FETCH FIRST ")
		if err := g.VisitExpr(sel.Limit); err != nil {
			return err
		}
		g.Append(" ROWS ONLY")
	}
	return nil
}

// EmitEmptyFrom implements Dialect. Table-less SELECTs need no FROM
// clause in the standard dialect.
func (Standard) EmitEmptyFrom(*Generator) error { return nil }

// SQLite renders for SQLite: same quoting and placeholders as Standard
// (SQLite accepts @name parameters) but LIMIT/OFFSET pagination. It exists
// both as a real target and as proof that the clause hooks compose.
type SQLite struct {
	Standard
}

// Name implements Dialect.
func (SQLite) Name() string { return "sqlite" }

// EmitLimitOffset implements Dialect. SQLite requires a LIMIT clause
// whenever OFFSET is present; -1 means unbounded.
func (SQLite) EmitLimitOffset(g *Generator, sel *queryir.Select) error {
	if sel.Limit == nil && sel.Offset == nil {
		return nil
	}
	g.AppendLine()
	g.Append("LIMIT ")
	if sel.Limit != nil {
		if err := g.VisitExpr(sel.Limit); err != nil {
			return err
		}
	} else {
		g.Append("-1")
	}
	if sel.Offset != nil {
		g.Append(" OFFSET ")
		if err := g.VisitExpr(sel.Offset); err != nil {
			return err
		}
	}
	return nil
}

// Dialects maps dialect names to constructors, for CLI selection.
var Dialects = map[string]func() Dialect{
	"standard": func() Dialect { return Standard{} },
	"sqlite":   func() Dialect { return SQLite{} },
}
