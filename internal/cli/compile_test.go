package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_TextOutput(t *testing.T) {
	dir := writeQueriesDir(t, validQueries)

	out, err := executeCommand(t, "compile", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 2 queries for dialect standard")
	assert.Contains(t, out, "-- listUsers (1 param(s))")
	assert.Contains(t, out, "SELECT \"u\".\"id\", \"u\".\"name\"")
	assert.Contains(t, out, "WHERE \"u\".\"id\" = @id")
	assert.Contains(t, out, "DELETE FROM \"sessions\" AS \"s\"")
}

func TestCompile_JSONOutput(t *testing.T) {
	dir := writeQueriesDir(t, validQueries)

	out, err := executeCommand(t, "--format", "json", "compile", dir)
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.TraceID)

	data, marshalErr := json.Marshal(response.Data)
	require.NoError(t, marshalErr)
	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "standard", result.Dialect)
	require.Len(t, result.Queries, 2)

	// Statements are sorted by label.
	assert.Equal(t, "listUsers", result.Queries[0].Name)
	assert.Equal(t, "purgeSessions", result.Queries[1].Name)
	require.Len(t, result.Queries[0].Params, 1)
	assert.Equal(t, "id", result.Queries[0].Params[0].Name)
}

func TestCompile_SQLiteDialect(t *testing.T) {
	src := `
query: page: {
	kind: "select"
	projection: [
		{expr: {kind: "column", table: "t", name: "id", type: "int"}, alias: "id"},
	]
	from: [{kind: "table", name: "things", alias: "t"}]
	limit:  {kind: "constant", value: 10, type: "int"}
	offset: {kind: "constant", value: 5, type: "int"}
}
`
	dir := writeQueriesDir(t, src)

	out, err := executeCommand(t, "compile", "--dialect", "sqlite", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "LIMIT 10 OFFSET 5")
}

func TestCompile_UnknownDialect(t *testing.T) {
	dir := writeQueriesDir(t, validQueries)

	out, err := executeCommand(t, "compile", "--dialect", "oracle", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E112")
}

func TestCompile_OutputDirectory(t *testing.T) {
	dir := writeQueriesDir(t, validQueries)
	outDir := filepath.Join(t.TempDir(), "sql")

	_, err := executeCommand(t, "compile", "--output", outDir, dir)
	require.NoError(t, err)

	data, readErr := os.ReadFile(filepath.Join(outDir, "listUsers.sql"))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "SELECT \"u\".\"id\", \"u\".\"name\"")

	_, statErr := os.Stat(filepath.Join(outDir, "purgeSessions.sql"))
	require.NoError(t, statErr)
}

func TestCompile_MissingDirectory(t *testing.T) {
	out, err := executeCommand(t, "compile", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}

func TestCompile_EmptyDirectory(t *testing.T) {
	out, err := executeCommand(t, "compile", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E003")
}

func TestCompile_BadStatementReportsCode(t *testing.T) {
	src := `
query: broken: {
	kind: "merge"
}
`
	dir := writeQueriesDir(t, src)

	out, err := executeCommand(t, "compile", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "E101")
}
