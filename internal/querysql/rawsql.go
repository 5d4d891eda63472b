package querysql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/sqlgen/internal/queryir"
)

// appendRawSQL embeds a raw-SQL fragment, substituting its positional
// slots ("{0}", "{1}", ...) from the argument source. When the fragment is
// used as a subquery (topLevel false) it must pass the composability check
// first; a fragment standing alone as the whole statement is emitted
// as-is.
func (g *Generator) appendRawSQL(raw *queryir.RawTable, topLevel bool) error {
	if !topLevel {
		if err := CheckComposable(raw.SQL); err != nil {
			return err
		}
	}
	slots, err := g.resolveRawArgs(raw)
	if err != nil {
		return err
	}
	text, err := substituteSlots(raw.SQL, slots)
	if err != nil {
		return err
	}
	g.sql.AppendLines(text)
	return nil
}

// resolveRawArgs produces the per-slot replacement text for a raw
// fragment: placeholder text for parameters (registered as bindings) and
// literal text for inline constants. A nil argument source means the
// fragment is used verbatim.
func (g *Generator) resolveRawArgs(raw *queryir.RawTable) ([]string, error) {
	switch args := raw.Args.(type) {
	case nil:
		return nil, nil
	case *queryir.CompositeParam:
		// One composite parameter object expands to one sub-parameter
		// placeholder per positional slot.
		slots := make([]string, len(args.Slots))
		for i, mapping := range args.Slots {
			sub := &queryir.Parameter{
				Name:     fmt.Sprintf("%s_%d", args.Name, i),
				Type:     mapping,
				Nullable: true,
			}
			name, fresh := g.params.Register(sub.Name, sub.Type)
			placeholder := g.dialect.Placeholder(name)
			if fresh {
				g.sql.AddParam(Param{
					Name:        g.dialect.ParameterName(name),
					Placeholder: placeholder,
					Type:        sub.Type,
					Nullable:    sub.Nullable,
				})
			}
			slots[i] = placeholder
		}
		return slots, nil
	case *queryir.ArgList:
		slots := make([]string, len(args.Items))
		for i, item := range args.Items {
			switch x := item.(type) {
			case *queryir.Parameter:
				name, fresh := g.params.Register(x.Name, x.Type)
				placeholder := g.dialect.Placeholder(name)
				if fresh {
					g.sql.AddParam(Param{
						Name:        g.dialect.ParameterName(name),
						Placeholder: placeholder,
						Type:        x.Type,
						Nullable:    x.Nullable,
					})
				}
				slots[i] = placeholder
			case *queryir.Constant:
				lit, err := g.dialect.Literal(x.Value, x.Type)
				if err != nil {
					return nil, newNodeError(ErrCodeRawArguments, x, "formatting inline constant: %v", err)
				}
				slots[i] = lit
			default:
				return nil, newNodeError(ErrCodeRawArguments, item,
					"raw SQL arguments must be parameters or constants")
			}
		}
		return slots, nil
	default:
		return nil, newNodeError(ErrCodeRawArguments, raw.Args, "unsupported raw SQL argument source")
	}
}

// substituteSlots replaces "{n}" markers with the resolved slot text.
// Text without a well-formed marker passes through unchanged.
func substituteSlots(sql string, slots []string) (string, error) {
	if !strings.ContainsRune(sql, '{') {
		return sql, nil
	}
	var out strings.Builder
	for i := 0; i < len(sql); {
		c := sql[i]
		if c != '{' {
			out.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(sql[i:], '}')
		if end < 0 {
			out.WriteByte(c)
			i++
			continue
		}
		digits := sql[i+1 : i+end]
		n, err := strconv.Atoi(digits)
		if err != nil || digits == "" {
			out.WriteByte(c)
			i++
			continue
		}
		if n < 0 || n >= len(slots) {
			return "", newGenError(ErrCodeRawArguments,
				"raw SQL references slot {%d} but only %d argument(s) were supplied", n, len(slots))
		}
		out.WriteString(slots[n])
		i += end + 1
	}
	return out.String(), nil
}

// CheckComposable verifies that a raw SQL fragment can be embedded as a
// subquery: after stripping leading whitespace, line comments, and block
// comments, the text must begin with SELECT or WITH (case-insensitive)
// followed by whitespace or the start of a comment.
//
// Returns a *GenError with ErrCodeNonComposable on failure, including for
// unterminated block comments.
func CheckComposable(sql string) error {
	s := sql
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if strings.HasPrefix(s, "--") {
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				s = ""
				break
			}
			s = s[idx+1:]
			continue
		}
		if strings.HasPrefix(s, "/*") {
			idx := strings.Index(s[2:], "*/")
			if idx < 0 {
				return newGenError(ErrCodeNonComposable, "unterminated block comment in raw SQL")
			}
			s = s[2+idx+2:]
			continue
		}
		break
	}
	for _, keyword := range []string{"SELECT", "WITH"} {
		if len(s) <= len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
			continue
		}
		rest := s[len(keyword):]
		if strings.HasPrefix(rest, "--") || strings.HasPrefix(rest, "/*") {
			return nil
		}
		for _, r := range rest {
			if unicode.IsSpace(r) {
				return nil
			}
			break
		}
	}
	return newGenError(ErrCodeNonComposable,
		"raw SQL used as a subquery must begin with SELECT or WITH")
}
