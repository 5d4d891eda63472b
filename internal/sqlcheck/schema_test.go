package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgen/internal/queryir"
)

func TestDeriveTables_CollectsColumnsPerAlias(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "u", Name: "name", Type: queryir.TextType}, Alias: "name"},
		},
		Tables: []queryir.TableSource{
			&queryir.BaseTable{Name: "users", Alias: "u"},
			&queryir.Join{
				Kind:  queryir.JoinInner,
				Table: &queryir.BaseTable{Name: "orders", Alias: "o"},
				On: &queryir.Binary{
					Op:    queryir.OpEqual,
					Left:  &queryir.Column{Table: "o", Name: "uid", Type: queryir.IntType},
					Right: &queryir.Column{Table: "u", Name: "id", Type: queryir.IntType},
				},
			},
		},
		Where: &queryir.Binary{
			Op:    queryir.OpGreaterThan,
			Left:  &queryir.Column{Table: "o", Name: "total", Type: queryir.IntType},
			Right: &queryir.Constant{Value: 100, Type: queryir.IntType},
		},
	}

	tables := DeriveTables(sel)
	require.Len(t, tables, 2)

	// Sorted by name: orders before users.
	assert.Equal(t, "orders", tables[0].Name)
	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, "total", tables[0].Columns[0].Name)
	assert.Equal(t, "uid", tables[0].Columns[1].Name)

	assert.Equal(t, "users", tables[1].Name)
	require.Len(t, tables[1].Columns, 2)
	assert.Equal(t, "id", tables[1].Columns[0].Name)
	assert.Equal(t, "name", tables[1].Columns[1].Name)
}

func TestDeriveTables_UpdateIncludesAssignmentColumns(t *testing.T) {
	u := &queryir.Update{
		Table: &queryir.BaseTable{Name: "users", Alias: "u"},
		Set: []queryir.Assignment{
			{Column: "active", Value: &queryir.Constant{Value: false, Type: queryir.BoolType}},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{
				&queryir.BaseTable{Name: "users", Alias: "u"},
			},
		},
	}

	tables := DeriveTables(u)
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Columns, 1)
	assert.Equal(t, "active", tables[0].Columns[0].Name)
	assert.Equal(t, queryir.BoolType, tables[0].Columns[0].Type)
}

func TestDeriveTables_SkipsDerivedAliases(t *testing.T) {
	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "r", Name: "n", Type: queryir.IntType}, Alias: "n"},
		},
		Tables: []queryir.TableSource{
			&queryir.RawTable{SQL: "SELECT n FROM counters", Alias: "r"},
		},
	}

	tables := DeriveTables(sel)
	assert.Empty(t, tables)
}

func TestSQLiteColumnType(t *testing.T) {
	assert.Equal(t, "INTEGER", sqliteColumnType(queryir.BoolType))
	assert.Equal(t, "INTEGER", sqliteColumnType(queryir.IntType))
	assert.Equal(t, "TEXT", sqliteColumnType(queryir.TextType))
	assert.Equal(t, "REAL", sqliteColumnType(queryir.FloatType))
	assert.Equal(t, "BLOB", sqliteColumnType(queryir.BlobType))
	assert.Equal(t, "TEXT", sqliteColumnType(queryir.TimeType))
	assert.Equal(t, "TEXT", sqliteColumnType(queryir.TypeMapping{}))
	assert.Equal(t, "decimal(10,2)", sqliteColumnType(queryir.TypeMapping{StoreType: "decimal(10,2)"}))
}
