package querysql

import "strings"

// indentUnit is the whitespace prepended per indentation level.
const indentUnit = "    "

// commandBuilder accumulates SQL text and parameter bindings for one
// generation call.
//
// Text is written through Append/Line; indentation is applied lazily at
// the start of each line so that multi-token lines cost nothing extra.
// The builder is call-local state: every Generate call constructs a fresh
// one and no builder is ever shared between calls.
type commandBuilder struct {
	sb          strings.Builder
	indent      int
	atLineStart bool
	params      []Param
}

func newCommandBuilder() *commandBuilder {
	return &commandBuilder{}
}

// Append writes s, emitting pending indentation first.
func (b *commandBuilder) Append(s string) {
	if s == "" {
		return
	}
	if b.atLineStart {
		for i := 0; i < b.indent; i++ {
			b.sb.WriteString(indentUnit)
		}
		b.atLineStart = false
	}
	b.sb.WriteString(s)
}

// Line terminates the current line. The next Append starts a new line at
// the current indentation level.
func (b *commandBuilder) Line() {
	b.sb.WriteByte('\n')
	b.atLineStart = true
}

// AppendLines writes multi-line text, re-anchoring each embedded line at
// the current indentation level. Used for raw SQL fragments.
func (b *commandBuilder) AppendLines(s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.Line()
		}
		b.Append(strings.TrimSuffix(line, "\r"))
	}
}

// Indent raises the indentation level and returns a release function that
// restores it. Callers defer the release so the level is rebalanced on
// every exit path, including early error returns:
//
//	release := b.Indent()
//	defer release()
func (b *commandBuilder) Indent() func() {
	b.indent++
	released := false
	return func() {
		if !released {
			released = true
			b.indent--
		}
	}
}

// AddParam records a parameter binding in first-use order.
func (b *commandBuilder) AddParam(p Param) {
	b.params = append(b.params, p)
}

// Finish freezes the accumulated text and bindings into a Command.
func (b *commandBuilder) Finish() *Command {
	return &Command{Text: b.sb.String(), Params: b.params}
}
