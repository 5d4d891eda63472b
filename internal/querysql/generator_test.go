package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgen/internal/queryir"
)

// Shared tree-building shorthand for generator tests.

func col(table, name string) *queryir.Column {
	return &queryir.Column{Table: table, Name: name, Type: queryir.IntType}
}

func textCol(table, name string) *queryir.Column {
	return &queryir.Column{Table: table, Name: name, Type: queryir.TextType}
}

func boolCol(table, name string) *queryir.Column {
	return &queryir.Column{Table: table, Name: name, Type: queryir.BoolType}
}

func intConst(n int) *queryir.Constant {
	return &queryir.Constant{Value: n, Type: queryir.IntType}
}

func textConst(s string) *queryir.Constant {
	return &queryir.Constant{Value: s, Type: queryir.TextType}
}

func intParam(name string) *queryir.Parameter {
	return &queryir.Parameter{Name: name, Type: queryir.IntType}
}

func eq(left, right queryir.Expr) *queryir.Binary {
	return &queryir.Binary{Op: queryir.OpEqual, Left: left, Right: right}
}

func table(name, alias string) *queryir.BaseTable {
	return &queryir.BaseTable{Name: name, Alias: alias}
}

func mustGenerate(t *testing.T, node queryir.Node) *Command {
	t.Helper()
	cmd, err := Generate(Standard{}, node)
	require.NoError(t, err)
	return cmd
}

func TestGenerate_BasicSelect(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: col("u", "id"), Alias: "id"},
			{Expr: textCol("u", "name"), Alias: "name"},
		},
		Tables: []queryir.TableSource{table("users", "u")},
		Where:  eq(col("u", "id"), intParam("id")),
	}

	cmd := mustGenerate(t, sel)
	assert.Equal(t, "SELECT \"u\".\"id\", \"u\".\"name\"\n"+
		"FROM \"users\" AS \"u\"\n"+
		"WHERE \"u\".\"id\" = @id", cmd.Text)
	require.Len(t, cmd.Params, 1)
	assert.Equal(t, "id", cmd.Params[0].Name)
	assert.Equal(t, "@id", cmd.Params[0].Placeholder)
	assert.Equal(t, queryir.IntType, cmd.Params[0].Type)
}

func TestGenerate_Deterministic(t *testing.T) {
	sel := &queryir.Select{
		Distinct: true,
		Projection: []queryir.Projection{
			{Expr: textCol("u", "name"), Alias: "n"},
		},
		Tables: []queryir.TableSource{
			table("users", "u"),
			&queryir.Join{
				Kind:  queryir.JoinLeft,
				Table: table("orders", "o"),
				On:    eq(col("o", "uid"), col("u", "id")),
			},
		},
		Where:   eq(col("u", "id"), intParam("id")),
		OrderBy: []queryir.Ordering{{Expr: textCol("u", "name"), Ascending: true}},
	}

	first := mustGenerate(t, sel)
	second := mustGenerate(t, sel)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Params, second.Params)
}

func TestGenerate_TagsEmitAsCommentBlock(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{{Expr: col("u", "id"), Alias: "id"}},
		Tables:     []queryir.TableSource{table("users", "u")},
		Tags:       []string{"query: list-users", "caller: api"},
	}

	cmd := mustGenerate(t, sel)
	assert.Equal(t, "-- query: list-users\n"+
		"-- caller: api\n"+
		"\n"+
		"SELECT \"u\".\"id\"\n"+
		"FROM \"users\" AS \"u\"", cmd.Text)
}

func TestGenerate_NoTagsNoCommentBlock(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{{Expr: col("u", "id"), Alias: "id"}},
		Tables:     []queryir.TableSource{table("users", "u")},
	}

	cmd := mustGenerate(t, sel)
	assert.Equal(t, "SELECT \"u\".\"id\"\nFROM \"users\" AS \"u\"", cmd.Text)
}

func TestGenerate_ExpressionRoot(t *testing.T) {
	// Non-statement roots fall back to scalar dispatch.
	cmd := mustGenerate(t, eq(col("t", "a"), intConst(1)))
	assert.Equal(t, "\"t\".\"a\" = 1", cmd.Text)
}

func TestGenerate_RawWrapperEmitsFragmentDirectly(t *testing.T) {
	// A Select that only wraps a raw fragment emits it verbatim; the
	// composability check does not apply at top level.
	sel := &queryir.Select{
		Tables: []queryir.TableSource{
			&queryir.RawTable{SQL: "UPDATE counters SET n = n + 1"},
		},
	}

	cmd := mustGenerate(t, sel)
	assert.Equal(t, "UPDATE counters SET n = n + 1", cmd.Text)
}

func TestGenerate_RawWrapperWithOtherClausesIsNotAWrapper(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{{Expr: col("r", "n"), Alias: "n"}},
		Tables: []queryir.TableSource{
			&queryir.RawTable{SQL: "SELECT n FROM counters", Alias: "r"},
		},
	}

	cmd := mustGenerate(t, sel)
	assert.Equal(t, "SELECT \"r\".\"n\"\n"+
		"FROM (\n"+
		"    SELECT n FROM counters\n"+
		") AS \"r\"", cmd.Text)
}

func TestGenerate_UnhandledRootKind(t *testing.T) {
	_, err := Generate(Standard{}, table("users", "u"))
	require.Error(t, err)
	assert.True(t, IsUnhandledNode(err))
}
