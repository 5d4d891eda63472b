// Package querysql is the SQL generation back end: it converts a
// queryir statement tree into literal SQL text plus an ordered parameter
// binding list, ready for execution.
//
// The translation is one pure, deterministic pass: a single recursive
// descent over the read-only tree, dispatching exhaustively on node kind.
// Generating twice from the same tree yields byte-identical output.
//
// ARCHITECTURE:
//
//	[queryir tree] -> Generate(dialect, tree) -> Command{Text, Params}
//
// Components:
//   - Generator: the traversal engine and statement translators
//   - paramRegistry: call-local dedup/renaming of parameter placeholders
//   - commandBuilder: indent-aware text accumulation
//   - RequiresParentheses: pure per-nesting-pair precedence resolution
//   - Dialect: quoting, literal formatting, and clause hooks (TOP,
//     LIMIT/OFFSET, pseudo-FROM) pluggable per database
//
// The generator also recognizes degenerate statement shapes and emits the
// simpler natural SQL for them: a pass-through wrapper around a set
// operation renders the operation naked, and single-table UPDATE/DELETE
// trees render as plain statements. IR shapes that cannot be losslessly
// expressed that way are rejected with a typed *GenError rather than
// silently mistranslated.
//
// CONCURRENCY:
//
// Every Generate call owns a fresh builder and registry; no state crosses
// invocations. Independent calls from different goroutines are safe as
// long as they do not share a tree under mutation, which the IR's
// immutability rules out.
package querysql
