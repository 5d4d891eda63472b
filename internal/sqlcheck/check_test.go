package sqlcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgen/internal/queryir"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	c, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func listUsersStatement() *queryir.Select {
	return &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "u", Name: "id", Type: queryir.IntType}, Alias: "id"},
			{Expr: &queryir.Column{Table: "u", Name: "name", Type: queryir.TextType}, Alias: "name"},
		},
		Tables: []queryir.TableSource{
			&queryir.BaseTable{Name: "users", Alias: "u"},
		},
		Where: &queryir.Binary{
			Op:    queryir.OpEqual,
			Left:  &queryir.Column{Table: "u", Name: "id", Type: queryir.IntType},
			Right: &queryir.Parameter{Name: "id", Type: queryir.IntType},
		},
	}
}

func TestCheck_SelectPrepares(t *testing.T) {
	c := newChecker(t)

	result, err := c.Check(context.Background(), listUsersStatement())
	require.NoError(t, err)
	require.NotNil(t, result.Command)
	assert.Contains(t, result.Command.Text, "WHERE \"u\".\"id\" = @id")
	require.Len(t, result.Tables, 1)
	assert.Equal(t, "users", result.Tables[0].Name)
}

func TestCheck_JoinedStatementPrepares(t *testing.T) {
	c := newChecker(t)

	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "u", Name: "name", Type: queryir.TextType}, Alias: "name"},
			{Expr: &queryir.Column{Table: "o", Name: "total", Type: queryir.IntType}, Alias: "total"},
		},
		Tables: []queryir.TableSource{
			&queryir.BaseTable{Name: "users", Alias: "u"},
			&queryir.Join{
				Kind:  queryir.JoinLeft,
				Table: &queryir.BaseTable{Name: "orders", Alias: "o"},
				On: &queryir.Binary{
					Op:    queryir.OpEqual,
					Left:  &queryir.Column{Table: "o", Name: "uid", Type: queryir.IntType},
					Right: &queryir.Column{Table: "u", Name: "id", Type: queryir.IntType},
				},
			},
		},
		OrderBy: []queryir.Ordering{
			{Expr: &queryir.Column{Table: "u", Name: "name", Type: queryir.TextType}, Ascending: true},
		},
		Limit: &queryir.Constant{Value: 10, Type: queryir.IntType},
	}

	result, err := c.Check(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, result.Tables, 2)
}

func TestCheck_UpdatePrepares(t *testing.T) {
	c := newChecker(t)

	u := &queryir.Update{
		Table: &queryir.BaseTable{Name: "users", Alias: "u"},
		Set: []queryir.Assignment{
			{Column: "active", Value: &queryir.Constant{Value: 0, Type: queryir.IntType}},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{
				&queryir.BaseTable{Name: "users", Alias: "u"},
			},
			Where: &queryir.Binary{
				Op:    queryir.OpEqual,
				Left:  &queryir.Column{Table: "u", Name: "id", Type: queryir.IntType},
				Right: &queryir.Parameter{Name: "id", Type: queryir.IntType},
			},
		},
	}

	_, err := c.Check(context.Background(), u)
	require.NoError(t, err)
}

func TestCheck_SchemaQualifiedTable(t *testing.T) {
	c := newChecker(t)

	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "e", Name: "kind", Type: queryir.TextType}, Alias: "kind"},
		},
		Tables: []queryir.TableSource{
			&queryir.BaseTable{Schema: "audit", Name: "events", Alias: "e"},
		},
	}

	result, err := c.Check(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, result.Tables, 1)
	assert.Equal(t, "audit", result.Tables[0].Schema)
}

func TestCheck_RawFragmentNeedsExtraDDL(t *testing.T) {
	c := newChecker(t)

	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "r", Name: "n", Type: queryir.IntType}, Alias: "n"},
		},
		Tables: []queryir.TableSource{
			&queryir.RawTable{SQL: "SELECT n FROM counters", Alias: "r"},
		},
	}

	// The counters table lives only inside the raw fragment, so the tree
	// walk cannot derive it.
	_, err := c.Check(context.Background(), sel)
	require.Error(t, err)

	_, err = c.Check(context.Background(), sel, "CREATE TABLE IF NOT EXISTS counters (n INTEGER)")
	require.NoError(t, err)
}

func TestCheck_RepeatedChecksRedefineStubs(t *testing.T) {
	c := newChecker(t)

	_, err := c.Check(context.Background(), listUsersStatement())
	require.NoError(t, err)

	// Same table, different referenced columns.
	sel := &queryir.Select{
		Projection: []queryir.Projection{
			{Expr: &queryir.Column{Table: "u", Name: "email", Type: queryir.TextType}, Alias: "email"},
		},
		Tables: []queryir.TableSource{
			&queryir.BaseTable{Name: "users", Alias: "u"},
		},
	}
	_, err = c.Check(context.Background(), sel)
	require.NoError(t, err)
}
