package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgen/internal/queryir"
)

func TestUpdate_SingleTable(t *testing.T) {
	u := &queryir.Update{
		Table: table("users", "u"),
		Set: []queryir.Assignment{
			{Column: "name", Value: &queryir.Parameter{Name: "name", Type: queryir.TextType}},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{table("users", "u")},
			Where:  eq(col("u", "id"), intParam("id")),
		},
	}

	cmd := mustGenerate(t, u)
	assert.Equal(t, "UPDATE \"users\" AS \"u\"\n"+
		"SET \"name\" = @name\n"+
		"WHERE \"u\".\"id\" = @id", cmd.Text)
	require.Len(t, cmd.Params, 2)
	assert.Equal(t, "name", cmd.Params[0].Name)
	assert.Equal(t, "id", cmd.Params[1].Name)
}

func TestUpdate_MultipleAssignments(t *testing.T) {
	u := &queryir.Update{
		Table: table("users", "u"),
		Set: []queryir.Assignment{
			{Column: "active", Value: intConst(0)},
			{Column: "note", Value: textConst("closed")},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{table("users", "u")},
		},
	}

	cmd := mustGenerate(t, u)
	assert.Equal(t, "UPDATE \"users\" AS \"u\"\n"+
		"SET \"active\" = 0,\n"+
		"    \"note\" = 'closed'", cmd.Text)
}

func TestUpdate_TargetInsideJoinLiftsPredicate(t *testing.T) {
	// The target sits behind an inner join; pulling it out of the FROM
	// list orphans the join predicate, which is lifted in front of the
	// existing filter.
	u := &queryir.Update{
		Table: table("users", "u"),
		Set: []queryir.Assignment{
			{Column: "active", Value: intConst(0)},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{
				table("profiles", "p"),
				&queryir.Join{
					Kind:  queryir.JoinInner,
					Table: table("users", "u"),
					On:    eq(col("u", "id"), col("p", "uid")),
				},
			},
			Where: eq(col("p", "active"), intConst(1)),
		},
	}

	cmd := mustGenerate(t, u)
	assert.Equal(t, "UPDATE \"users\" AS \"u\"\n"+
		"SET \"active\" = 0\n"+
		"FROM \"profiles\" AS \"p\"\n"+
		"WHERE (\"u\".\"id\" = \"p\".\"uid\") AND (\"p\".\"active\" = 1)", cmd.Text)
}

func TestUpdate_TargetFirstUnwrapsLeadingJoin(t *testing.T) {
	// Removing the leading target leaves a join at the head of the FROM
	// list; its table is kept and the predicate lifted, since a FROM
	// clause cannot open with a join.
	u := &queryir.Update{
		Table: table("users", "u"),
		Set: []queryir.Assignment{
			{Column: "active", Value: intConst(0)},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{
				table("users", "u"),
				&queryir.Join{
					Kind:  queryir.JoinInner,
					Table: table("profiles", "p"),
					On:    eq(col("p", "uid"), col("u", "id")),
				},
			},
			Where: eq(col("p", "active"), intConst(1)),
		},
	}

	cmd := mustGenerate(t, u)
	assert.Equal(t, "UPDATE \"users\" AS \"u\"\n"+
		"SET \"active\" = 0\n"+
		"FROM \"profiles\" AS \"p\"\n"+
		"WHERE (\"p\".\"uid\" = \"u\".\"id\") AND (\"p\".\"active\" = 1)", cmd.Text)
}

func TestUpdate_LiftedPredicateWithoutFilter(t *testing.T) {
	u := &queryir.Update{
		Table: table("users", "u"),
		Set: []queryir.Assignment{
			{Column: "active", Value: intConst(0)},
		},
		Source: &queryir.Select{
			Tables: []queryir.TableSource{
				table("profiles", "p"),
				&queryir.Join{
					Kind:  queryir.JoinInner,
					Table: table("users", "u"),
					On:    eq(col("u", "id"), col("p", "uid")),
				},
			},
		},
	}

	cmd := mustGenerate(t, u)
	assert.Equal(t, "UPDATE \"users\" AS \"u\"\n"+
		"SET \"active\" = 0\n"+
		"FROM \"profiles\" AS \"p\"\n"+
		"WHERE \"u\".\"id\" = \"p\".\"uid\"", cmd.Text)
}

func TestUpdate_ShapeRejections(t *testing.T) {
	target := table("users", "u")
	set := []queryir.Assignment{{Column: "active", Value: intConst(0)}}
	simpleSource := func() *queryir.Select {
		return &queryir.Select{Tables: []queryir.TableSource{table("users", "u")}}
	}

	tests := []struct {
		name string
		stmt *queryir.Update
	}{
		{
			"no assignments",
			&queryir.Update{Table: target, Source: simpleSource()},
		},
		{
			"source with limit",
			&queryir.Update{Table: target, Set: set, Source: func() *queryir.Select {
				s := simpleSource()
				s.Limit = intConst(1)
				return s
			}()},
		},
		{
			"source with projection",
			&queryir.Update{Table: target, Set: set, Source: func() *queryir.Select {
				s := simpleSource()
				s.Projection = []queryir.Projection{{Expr: col("u", "id"), Alias: "id"}}
				return s
			}()},
		},
		{
			"source with orderings",
			&queryir.Update{Table: target, Set: set, Source: func() *queryir.Select {
				s := simpleSource()
				s.OrderBy = []queryir.Ordering{{Expr: col("u", "id"), Ascending: true}}
				return s
			}()},
		},
		{
			"source without tables",
			&queryir.Update{Table: target, Set: set, Source: &queryir.Select{}},
		},
		{
			"target not in source",
			&queryir.Update{Table: target, Set: set, Source: &queryir.Select{
				Tables: []queryir.TableSource{table("profiles", "p")},
			}},
		},
		{
			"target behind outer join",
			&queryir.Update{Table: target, Set: set, Source: &queryir.Select{
				Tables: []queryir.TableSource{
					table("profiles", "p"),
					&queryir.Join{
						Kind:  queryir.JoinLeft,
						Table: table("users", "u"),
						On:    eq(col("u", "id"), col("p", "uid")),
					},
				},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(Standard{}, tt.stmt)
			require.Error(t, err)
			assert.True(t, IsUnsupportedShape(err))
		})
	}
}
