package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// RequiresParentheses decides whether inner must be parenthesized when it
// appears as a direct operand of outer.
//
// The rules, in order:
//
//   - AT TIME ZONE and LIKE nodes are always parenthesized: both bind
//     loosely and read ambiguously next to other operators.
//   - IS [NOT] NULL applied to a boolean-typed operand is parenthesized to
//     disambiguate the test from the operand's own truth value.
//   - A negate nested directly inside another negate is parenthesized:
//     "--x" would read as a line comment in SQL text.
//   - A binary operation nested in anything is parenthesized, except AND
//     directly inside AND and OR directly inside OR. In particular AND in
//     OR and OR in AND are parenthesized even where SQL operator
//     precedence would not strictly demand it; the output is stable and
//     downstream tooling asserts on the exact text.
//
// All other nestings need no parentheses. The function is pure.
func RequiresParentheses(outer, inner queryir.Expr) bool {
	switch in := inner.(type) {
	case *queryir.AtTimeZone, *queryir.Like:
		return true
	case *queryir.Unary:
		switch in.Op {
		case queryir.OpIsNull, queryir.OpIsNotNull:
			return queryir.TypeOf(in.Operand).Boolean
		case queryir.OpNegate:
			out, ok := outer.(*queryir.Unary)
			return ok && out.Op == queryir.OpNegate
		}
		return false
	case *queryir.Binary:
		if out, ok := outer.(*queryir.Binary); ok {
			if out.Op.Logical() && in.Op == out.Op {
				return false
			}
		}
		return true
	}
	return false
}
