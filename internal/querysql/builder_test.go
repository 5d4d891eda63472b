package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandBuilder_LazyIndentation(t *testing.T) {
	b := newCommandBuilder()
	b.Append("SELECT 1")
	b.Line()
	release := b.Indent()
	b.Append("FROM")
	b.Append(" t")
	release()
	b.Line()
	b.Append("WHERE x")

	assert.Equal(t, "SELECT 1\n    FROM t\nWHERE x", b.Finish().Text)
}

func TestCommandBuilder_IndentOnlyAppliesAtLineStart(t *testing.T) {
	b := newCommandBuilder()
	b.Append("a")
	release := b.Indent()
	b.Append("b") // same line, no indent inserted
	b.Line()
	b.Append("c")
	release()

	assert.Equal(t, "ab\n    c", b.Finish().Text)
}

func TestCommandBuilder_ReleaseIsIdempotent(t *testing.T) {
	b := newCommandBuilder()
	release := b.Indent()
	release()
	release()
	b.Line()
	b.Append("x")

	assert.Equal(t, "\nx", b.Finish().Text)
}

func TestCommandBuilder_AppendLinesReanchors(t *testing.T) {
	b := newCommandBuilder()
	b.Append("(")
	release := b.Indent()
	b.Line()
	b.AppendLines("SELECT a\nFROM t\r\nWHERE x = 1")
	release()
	b.Line()
	b.Append(")")

	assert.Equal(t, "(\n    SELECT a\n    FROM t\n    WHERE x = 1\n)", b.Finish().Text)
}

func TestCommandBuilder_EmptyAppendDoesNotFlushIndent(t *testing.T) {
	b := newCommandBuilder()
	release := b.Indent()
	defer release()
	b.Line()
	b.Append("")
	b.Append("x")

	assert.Equal(t, "\n    x", b.Finish().Text)
}
