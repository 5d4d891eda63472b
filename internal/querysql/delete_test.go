package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgen/internal/queryir"
)

func TestDelete_Basic(t *testing.T) {
	d := &queryir.Delete{
		Table: table("sessions", "s"),
		Source: &queryir.Select{
			Tables: []queryir.TableSource{table("sessions", "s")},
			Where:  eq(col("s", "uid"), intParam("uid")),
		},
	}

	cmd := mustGenerate(t, d)
	assert.Equal(t, "DELETE FROM \"sessions\" AS \"s\"\n"+
		"WHERE \"s\".\"uid\" = @uid", cmd.Text)
	require.Len(t, cmd.Params, 1)
	assert.Equal(t, "uid", cmd.Params[0].Name)
}

func TestDelete_WithoutFilter(t *testing.T) {
	d := &queryir.Delete{
		Table: table("sessions", "s"),
		Source: &queryir.Select{
			Tables: []queryir.TableSource{table("sessions", "s")},
		},
	}

	cmd := mustGenerate(t, d)
	assert.Equal(t, "DELETE FROM \"sessions\" AS \"s\"", cmd.Text)
}

func TestDelete_SchemaQualifiedTarget(t *testing.T) {
	target := &queryir.BaseTable{Schema: "audit", Name: "events", Alias: "e"}
	d := &queryir.Delete{
		Table: target,
		Source: &queryir.Select{
			Tables: []queryir.TableSource{target},
		},
	}

	cmd := mustGenerate(t, d)
	assert.Equal(t, "DELETE FROM \"audit\".\"events\" AS \"e\"", cmd.Text)
}

func TestDelete_ShapeRejections(t *testing.T) {
	target := table("sessions", "s")

	tests := []struct {
		name string
		stmt *queryir.Delete
	}{
		{
			"nil source",
			&queryir.Delete{Table: target},
		},
		{
			"source with multiple tables",
			&queryir.Delete{Table: target, Source: &queryir.Select{
				Tables: []queryir.TableSource{
					table("sessions", "s"),
					&queryir.Join{
						Kind:  queryir.JoinInner,
						Table: table("users", "u"),
						On:    eq(col("u", "id"), col("s", "uid")),
					},
				},
			}},
		},
		{
			"source table is not the target",
			&queryir.Delete{Table: target, Source: &queryir.Select{
				Tables: []queryir.TableSource{table("users", "u")},
			}},
		},
		{
			"target wrapped in a join",
			&queryir.Delete{Table: target, Source: &queryir.Select{
				Tables: []queryir.TableSource{
					&queryir.Join{
						Kind:  queryir.JoinInner,
						Table: table("sessions", "s"),
						On:    eq(col("s", "uid"), intConst(1)),
					},
				},
			}},
		},
		{
			"source with grouping",
			&queryir.Delete{Table: target, Source: &queryir.Select{
				Tables:  []queryir.TableSource{table("sessions", "s")},
				GroupBy: []queryir.Expr{col("s", "uid")},
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
