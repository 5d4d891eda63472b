package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeQueryFile writes CUE source into dir and returns the file path.
func writeQueryFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

const pagingQuery = `
query: page: {
	kind: "select"
	projection: [
		{expr: {kind: "column", table: "t", name: "id", type: "int"}, alias: "id"},
	]
	from: [{kind: "table", name: "things", alias: "t"}]
	limit:  {kind: "parameter", name: "page_size", type: "int"}
	offset: {kind: "parameter", name: "page_offset", type: "int"}
}
`

const outerJoinUpdate = `
query: badUpdate: {
	kind:  "update"
	table: {kind: "table", name: "users", alias: "u"}
	set: [
		{column: "active", value: {kind: "constant", value: false, type: "bool"}},
	]
	from: [
		{kind: "table", name: "profiles", alias: "p"},
		{
			kind:  "join"
			join:  "left"
			table: {kind: "table", name: "users", alias: "u"}
			on: {
				kind:  "binary"
				op:    "eq"
				left:  {kind: "column", table: "u", name: "id", type: "int"}
				right: {kind: "column", table: "p", name: "uid", type: "int"}
			}
		},
	]
}
`

func TestRun_GeneratesSortedQueries(t *testing.T) {
	dir := t.TempDir()
	src := `
query: zTotals: {
	kind: "select"
	projection: [
		{expr: {kind: "function", name: "COUNT", builtin: true, args: [{kind: "column", table: "o", name: "id", type: "int"}], type: "int"}, alias: "total"},
	]
	from: [{kind: "table", name: "orders", alias: "o"}]
}

query: aListing: {
	kind: "select"
	projection: [
		{expr: {kind: "column", table: "o", name: "id", type: "int"}},
	]
	from: [{kind: "table", name: "orders", alias: "o"}]
}
`
	path := writeQueryFile(t, dir, "orders.cue", src)

	result, err := Run(&Scenario{
		Name:        "orders",
		Description: "sorting",
		Queries:     []string{path},
	})
	require.NoError(t, err)
	require.Len(t, result.Queries, 2)
	assert.Equal(t, "aListing", result.Queries[0].Name)
	assert.Equal(t, "zTotals", result.Queries[1].Name)
	assert.Empty(t, result.Failures)
	assert.Equal(t, "standard", result.Dialect)
	assert.Contains(t, result.Queries[1].SQL, "COUNT(\"o\".\"id\")")
}

func TestRun_DialectSelection(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "paging.cue", pagingQuery)

	result, err := Run(&Scenario{
		Name:        "paging",
		Description: "sqlite pagination",
		Queries:     []string{path},
		Dialect:     "sqlite",
	})
	require.NoError(t, err)
	require.Len(t, result.Queries, 1)
	assert.Contains(t, result.Queries[0].SQL, "LIMIT @page_size OFFSET @page_offset")
	assert.Equal(t, []string{"page_size", "page_offset"}, result.Queries[0].Params)
}

func TestRun_UnknownDialect(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "paging.cue", pagingQuery)

	_, err := Run(&Scenario{
		Name:        "paging",
		Description: "bad dialect",
		Queries:     []string{path},
		Dialect:     "oracle",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestRun_ErrorExpectationMatched(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "bad.cue", outerJoinUpdate)

	result, err := Run(&Scenario{
		Name:        "bad_update",
		Description: "outer join target rejection",
		Queries:     []string{path},
		Expect: []ExpectClause{
			{Query: "badUpdate", Error: "only reachable through an outer join"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Queries, 1)
	assert.NotEmpty(t, result.Queries[0].Err)
	assert.Empty(t, result.Queries[0].SQL)
}

func TestRun_ErrorExpectationUnmet(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "paging.cue", pagingQuery)

	result, err := Run(&Scenario{
		Name:        "paging",
		Description: "expected failure does not happen",
		Queries:     []string{path},
		Expect: []ExpectClause{
			{Query: "page", Error: "boom"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "generation succeeded")
}

func TestRun_ParamMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "paging.cue", pagingQuery)

	result, err := Run(&Scenario{
		Name:        "paging",
		Description: "wrong param expectation",
		Queries:     []string{path},
		Expect: []ExpectClause{
			{Query: "page", Params: []string{"page_offset", "page_size"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "params")
}

func TestRun_ExpectUnknownQuery(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "paging.cue", pagingQuery)

	result, err := Run(&Scenario{
		Name:        "paging",
		Description: "expect clause names a missing query",
		Queries:     []string{path},
		Expect: []ExpectClause{
			{Query: "nope", Params: []string{"x"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "no such query")
}

func TestRun_UnexpectedErrorWithoutClause(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "bad.cue", outerJoinUpdate)

	result, err := Run(&Scenario{
		Name:        "bad_update",
		Description: "failure without an expect clause",
		Queries:     []string{path},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "badUpdate")
	assert.Contains(t, result.Failures[0], "generation error")
}

func TestRun_MissingQueryStruct(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "empty.cue", `other: {x: 1}`)

	_, err := Run(&Scenario{
		Name:        "empty",
		Description: "no query struct",
		Queries:     []string{path},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no \"query\" struct found")
}

func TestRun_MalformedCUE(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "broken.cue", `query: {`)

	_, err := Run(&Scenario{
		Name:        "broken",
		Description: "malformed CUE",
		Queries:     []string{path},
	})
	require.Error(t, err)
}
