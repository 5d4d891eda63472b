package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/sqlgen/internal/queryir"
)

// binaryOps maps spelled-out operator names to IR operators.
var binaryOps = map[string]queryir.BinaryOp{
	"eq":     queryir.OpEqual,
	"ne":     queryir.OpNotEqual,
	"gt":     queryir.OpGreaterThan,
	"ge":     queryir.OpGreaterOrEqual,
	"lt":     queryir.OpLessThan,
	"le":     queryir.OpLessOrEqual,
	"and":    queryir.OpAnd,
	"or":     queryir.OpOr,
	"add":    queryir.OpAdd,
	"sub":    queryir.OpSubtract,
	"mul":    queryir.OpMultiply,
	"div":    queryir.OpDivide,
	"mod":    queryir.OpModulo,
	"bitand": queryir.OpBitAnd,
	"bitor":  queryir.OpBitOr,
}

var unaryOps = map[string]queryir.UnaryOp{
	"not":         queryir.OpNot,
	"negate":      queryir.OpNegate,
	"convert":     queryir.OpConvert,
	"is_null":     queryir.OpIsNull,
	"is_not_null": queryir.OpIsNotNull,
}

// namedTypes are the shorthand type names fixtures may use in place of a
// full {store, converter, boolean} mapping struct.
var namedTypes = map[string]queryir.TypeMapping{
	"bool":  queryir.BoolType,
	"int":   queryir.IntType,
	"text":  queryir.TextType,
	"float": queryir.FloatType,
	"blob":  queryir.BlobType,
	"time":  queryir.TimeType,
}

// compileExpr parses an expression struct, dispatching on its "kind"
// discriminator field.
func compileExpr(v cue.Value) (queryir.Expr, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "column":
		return compileColumn(v)
	case "constant":
		return compileConstant(v)
	case "parameter":
		return compileParameter(v)
	case "binary":
		return compileBinary(v)
	case "unary":
		return compileUnary(v)
	case "function":
		return compileFunction(v)
	case "case":
		return compileCase(v)
	case "like":
		return compileLike(v)
	case "collate":
		return compileCollate(v)
	case "distinct":
		operand, err := requiredExpr(v, "operand")
		if err != nil {
			return nil, err
		}
		return &queryir.Distinct{Operand: operand}, nil
	case "exists":
		return compileExists(v)
	case "in":
		return compileIn(v)
	case "row_number":
		return compileRowNumber(v)
	case "at_time_zone":
		return compileAtTimeZone(v)
	case "subquery":
		sub, err := requiredSelect(v, "select")
		if err != nil {
			return nil, err
		}
		return &queryir.Subquery{Select: sub}, nil
	case "fragment":
		sql, err := requiredString(v, "sql")
		if err != nil {
			return nil, err
		}
		return &queryir.Fragment{SQL: sql}, nil
	case "json_scalar":
		return compileJSONScalar(v)
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown expression kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func compileColumn(v cue.Value) (*queryir.Column, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	tableAlias, err := optionalString(v, "table")
	if err != nil {
		return nil, err
	}
	mapping, err := compileTypeMapping(v, "type")
	if err != nil {
		return nil, err
	}
	return &queryir.Column{Table: tableAlias, Name: name, Type: mapping}, nil
}

func compileConstant(v cue.Value) (*queryir.Constant, error) {
	mapping, err := compileTypeMapping(v, "type")
	if err != nil {
		return nil, err
	}
	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return &queryir.Constant{Value: nil, Type: mapping}, nil
	}

	switch valueVal.Kind() {
	case cue.NullKind:
		return &queryir.Constant{Value: nil, Type: mapping}, nil
	case cue.StringKind:
		s, err := valueVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &queryir.Constant{Value: s, Type: mapping}, nil
	case cue.BoolKind:
		b, err := valueVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &queryir.Constant{Value: b, Type: mapping}, nil
	case cue.IntKind:
		n, err := valueVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &queryir.Constant{Value: n, Type: mapping}, nil
	case cue.FloatKind, cue.NumberKind:
		f, err := valueVal.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &queryir.Constant{Value: f, Type: mapping}, nil
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported constant kind: %v", valueVal.Kind()),
			Pos:     valueVal.Pos(),
		}
	}
}

func compileParameter(v cue.Value) (*queryir.Parameter, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	mapping, err := compileTypeMapping(v, "type")
	if err != nil {
		return nil, err
	}
	nullable, err := optionalBool(v, "nullable")
	if err != nil {
		return nil, err
	}
	return &queryir.Parameter{Name: name, Type: mapping, Nullable: nullable}, nil
}

func compileBinary(v cue.Value) (*queryir.Binary, error) {
	opName, err := requiredString(v, "op")
	if err != nil {
		return nil, err
	}
	op, ok := binaryOps[opName]
	if !ok {
		return nil, &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("unknown binary operator %q", opName),
			Pos:     v.Pos(),
		}
	}
	left, err := requiredExpr(v, "left")
	if err != nil {
		return nil, err
	}
	right, err := requiredExpr(v, "right")
	if err != nil {
		return nil, err
	}
	return &queryir.Binary{Op: op, Left: left, Right: right}, nil
}

func compileUnary(v cue.Value) (*queryir.Unary, error) {
	opName, err := requiredString(v, "op")
	if err != nil {
		return nil, err
	}
	op, ok := unaryOps[opName]
	if !ok {
		return nil, &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("unknown unary operator %q", opName),
			Pos:     v.Pos(),
		}
	}
	operand, err := requiredExpr(v, "operand")
	if err != nil {
		return nil, err
	}
	u := &queryir.Unary{Op: op, Operand: operand}
	if op == queryir.OpConvert {
		target, err := compileTypeMapping(v, "target")
		if err != nil {
			return nil, err
		}
		u.Target = target
	}
	return u, nil
}

func compileFunction(v cue.Value) (*queryir.Function, error) {
	fn := &queryir.Function{}

	var err error
	if fn.Name, err = requiredString(v, "name"); err != nil {
		return nil, err
	}
	if fn.Schema, err = optionalString(v, "schema"); err != nil {
		return nil, err
	}
	if fn.BuiltIn, err = optionalBool(v, "builtin"); err != nil {
		return nil, err
	}
	if fn.Niladic, err = optionalBool(v, "niladic"); err != nil {
		return nil, err
	}

	instanceVal := v.LookupPath(cue.ParsePath("instance"))
	if instanceVal.Exists() {
		if fn.Instance, err = compileExpr(instanceVal); err != nil {
			return nil, err
		}
	}

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, iterErr := argsVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			arg, argErr := compileExpr(iter.Value())
			if argErr != nil {
				return nil, argErr
			}
			fn.Args = append(fn.Args, arg)
		}
	}

	if fn.Type, err = compileTypeMapping(v, "type"); err != nil {
		return nil, err
	}
	return fn, nil
}

func compileCase(v cue.Value) (*queryir.Case, error) {
	c := &queryir.Case{}

	operandVal := v.LookupPath(cue.ParsePath("operand"))
	if operandVal.Exists() {
		operand, err := compileExpr(operandVal)
		if err != nil {
			return nil, err
		}
		c.Operand = operand
	}

	whensVal := v.LookupPath(cue.ParsePath("whens"))
	if !whensVal.Exists() {
		return nil, &CompileError{
			Field:   "whens",
			Message: "case expression requires at least one when clause",
			Pos:     v.Pos(),
		}
	}
	iter, iterErr := whensVal.List()
	if iterErr != nil {
		return nil, formatCUEError(iterErr)
	}
	for iter.Next() {
		item := iter.Value()
		when, err := requiredExpr(item, "when")
		if err != nil {
			return nil, err
		}
		then, err := requiredExpr(item, "then")
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, queryir.WhenClause{When: when, Then: then})
	}

	elseVal := v.LookupPath(cue.ParsePath("else"))
	if elseVal.Exists() {
		els, err := compileExpr(elseVal)
		if err != nil {
			return nil, err
		}
		c.Else = els
	}
	return c, nil
}

func compileLike(v cue.Value) (*queryir.Like, error) {
	match, err := requiredExpr(v, "match")
	if err != nil {
		return nil, err
	}
	pattern, err := requiredExpr(v, "pattern")
	if err != nil {
		return nil, err
	}
	l := &queryir.Like{Match: match, Pattern: pattern}

	escapeVal := v.LookupPath(cue.ParsePath("escape"))
	if escapeVal.Exists() {
		if l.Escape, err = compileExpr(escapeVal); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func compileCollate(v cue.Value) (*queryir.Collate, error) {
	operand, err := requiredExpr(v, "operand")
	if err != nil {
		return nil, err
	}
	collation, err := requiredString(v, "collation")
	if err != nil {
		return nil, err
	}
	return &queryir.Collate{Operand: operand, Collation: collation}, nil
}

func compileExists(v cue.Value) (*queryir.Exists, error) {
	sub, err := requiredSelect(v, "select")
	if err != nil {
		return nil, err
	}
	negated, err := optionalBool(v, "negated")
	if err != nil {
		return nil, err
	}
	return &queryir.Exists{Subquery: sub, Negated: negated}, nil
}

func compileIn(v cue.Value) (*queryir.In, error) {
	item, err := requiredExpr(v, "item")
	if err != nil {
		return nil, err
	}
	in := &queryir.In{Item: item}

	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if valuesVal.Exists() {
		iter, iterErr := valuesVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			value, vErr := compileExpr(iter.Value())
			if vErr != nil {
				return nil, vErr
			}
			in.Values = append(in.Values, value)
		}
	}

	selectVal := v.LookupPath(cue.ParsePath("select"))
	if selectVal.Exists() {
		if in.Subquery, err = compileSelect(selectVal); err != nil {
			return nil, err
		}
	}

	if in.Negated, err = optionalBool(v, "negated"); err != nil {
		return nil, err
	}
	return in, nil
}

func compileRowNumber(v cue.Value) (*queryir.RowNumber, error) {
	rn := &queryir.RowNumber{}

	partitionsVal := v.LookupPath(cue.ParsePath("partitions"))
	if partitionsVal.Exists() {
		iter, iterErr := partitionsVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			p, pErr := compileExpr(iter.Value())
			if pErr != nil {
				return nil, pErr
			}
			rn.Partitions = append(rn.Partitions, p)
		}
	}

	orderVal := v.LookupPath(cue.ParsePath("order_by"))
	if orderVal.Exists() {
		iter, iterErr := orderVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			o, oErr := compileOrdering(iter.Value())
			if oErr != nil {
				return nil, oErr
			}
			rn.Orderings = append(rn.Orderings, o)
		}
	}
	return rn, nil
}

func compileAtTimeZone(v cue.Value) (*queryir.AtTimeZone, error) {
	operand, err := requiredExpr(v, "operand")
	if err != nil {
		return nil, err
	}
	zone, err := requiredExpr(v, "zone")
	if err != nil {
		return nil, err
	}
	return &queryir.AtTimeZone{Operand: operand, Zone: zone}, nil
}

func compileJSONScalar(v cue.Value) (*queryir.JSONScalar, error) {
	target, err := requiredExpr(v, "target")
	if err != nil {
		return nil, err
	}
	js := &queryir.JSONScalar{Target: target}

	pathVal := v.LookupPath(cue.ParsePath("path"))
	if !pathVal.Exists() {
		return nil, &CompileError{
			Field:   "path",
			Message: "json_scalar requires a path",
			Pos:     v.Pos(),
		}
	}
	iter, iterErr := pathVal.List()
	if iterErr != nil {
		return nil, formatCUEError(iterErr)
	}
	for iter.Next() {
		step, sErr := iter.Value().String()
		if sErr != nil {
			return nil, formatCUEError(sErr)
		}
		js.Path = append(js.Path, step)
	}

	if js.Type, err = compileTypeMapping(v, "type"); err != nil {
		return nil, err
	}
	return js, nil
}

// compileTypeMapping parses a type field: either a shorthand name
// ("int", "text", ...) or a full {store, converter, boolean} struct. A
// missing field yields the zero mapping.
func compileTypeMapping(v cue.Value, field string) (queryir.TypeMapping, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return queryir.TypeMapping{}, nil
	}

	if name, err := fieldVal.String(); err == nil {
		mapping, ok := namedTypes[name]
		if !ok {
			return queryir.TypeMapping{}, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("unknown type name %q", name),
				Pos:     fieldVal.Pos(),
			}
		}
		return mapping, nil
	}

	mapping := queryir.TypeMapping{}
	var err error
	if mapping.StoreType, err = requiredString(fieldVal, "store"); err != nil {
		return queryir.TypeMapping{}, err
	}
	if mapping.Converter, err = optionalString(fieldVal, "converter"); err != nil {
		return queryir.TypeMapping{}, err
	}
	if mapping.Boolean, err = optionalBool(fieldVal, "boolean"); err != nil {
		return queryir.TypeMapping{}, err
	}
	return mapping, nil
}

func requiredExpr(v cue.Value, field string) (queryir.Expr, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	return compileExpr(fieldVal)
}

func requiredSelect(v cue.Value, field string) (*queryir.Select, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	return compileSelect(fieldVal)
}
