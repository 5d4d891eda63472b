package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/sqlgen/internal/queryir"
)

var joinKinds = map[string]queryir.JoinKind{
	"inner":       queryir.JoinInner,
	"left":        queryir.JoinLeft,
	"cross":       queryir.JoinCross,
	"cross_apply": queryir.JoinCrossApply,
	"outer_apply": queryir.JoinOuterApply,
}

var setOpKinds = map[string]queryir.SetOpKind{
	"union":     queryir.SetUnion,
	"intersect": queryir.SetIntersect,
	"except":    queryir.SetExcept,
}

// compileTableSource parses one entry of a from list, dispatching on its
// "kind" discriminator field.
func compileTableSource(v cue.Value) (queryir.TableSource, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "table":
		return compileBaseTable(v)
	case "join":
		return compileJoin(v)
	case "set":
		return compileSetOperation(v)
	case "table_function":
		return compileTableFunction(v)
	case "raw":
		return compileRawTable(v)
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown table source kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func compileBaseTable(v cue.Value) (*queryir.BaseTable, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	schema, err := optionalString(v, "schema")
	if err != nil {
		return nil, err
	}
	alias, err := optionalString(v, "alias")
	if err != nil {
		return nil, err
	}
	return &queryir.BaseTable{Schema: schema, Name: name, Alias: alias}, nil
}

func compileJoin(v cue.Value) (*queryir.Join, error) {
	joinName, err := requiredString(v, "join")
	if err != nil {
		return nil, err
	}
	kind, ok := joinKinds[joinName]
	if !ok {
		return nil, &CompileError{
			Field:   "join",
			Message: fmt.Sprintf("unknown join kind %q", joinName),
			Pos:     v.Pos(),
		}
	}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   "table",
			Message: "join has no table",
			Pos:     v.Pos(),
		}
	}
	inner, err := compileTableSource(tableVal)
	if err != nil {
		return nil, err
	}

	j := &queryir.Join{Kind: kind, Table: inner}

	onVal := v.LookupPath(cue.ParsePath("on"))
	if onVal.Exists() {
		if j.On, err = compileExpr(onVal); err != nil {
			return nil, err
		}
	}
	if kind.PredicateBearing() && j.On == nil {
		return nil, &CompileError{
			Field:   "on",
			Message: fmt.Sprintf("%s join requires an on predicate", joinName),
			Pos:     v.Pos(),
		}
	}
	return j, nil
}

func compileSetOperation(v cue.Value) (*queryir.SetOperation, error) {
	opName, err := requiredString(v, "op")
	if err != nil {
		return nil, err
	}
	kind, ok := setOpKinds[opName]
	if !ok {
		return nil, &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("unknown set operation %q", opName),
			Pos:     v.Pos(),
		}
	}

	left, err := requiredSelect(v, "left")
	if err != nil {
		return nil, err
	}
	right, err := requiredSelect(v, "right")
	if err != nil {
		return nil, err
	}
	distinct, err := optionalBool(v, "distinct")
	if err != nil {
		return nil, err
	}
	alias, err := optionalString(v, "alias")
	if err != nil {
		return nil, err
	}
	return &queryir.SetOperation{
		Kind:     kind,
		Distinct: distinct,
		Left:     left,
		Right:    right,
		Alias:    alias,
	}, nil
}

func compileTableFunction(v cue.Value) (*queryir.TableFunction, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	tf := &queryir.TableFunction{Name: name}

	if tf.Schema, err = optionalString(v, "schema"); err != nil {
		return nil, err
	}
	if tf.Alias, err = optionalString(v, "alias"); err != nil {
		return nil, err
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
			tf.Args = append(tf.Args, arg)
		}
	}
	return tf, nil
}

func compileRawTable(v cue.Value) (*queryir.RawTable, error) {
	sql, err := requiredString(v, "sql")
	if err != nil {
		return nil, err
	}
	raw := &queryir.RawTable{SQL: sql}

	if raw.Alias, err = optionalString(v, "alias"); err != nil {
		return nil, err
	}

	// Two mutually exclusive argument forms: "param" declares a composite
	// parameter with typed slots, "args" supplies inline expressions.
	paramVal := v.LookupPath(cue.ParsePath("param"))
	argsVal := v.LookupPath(cue.ParsePath("args"))
	switch {
	case paramVal.Exists() && argsVal.Exists():
		return nil, &CompileError{
			Field:   "args",
			Message: "raw table cannot declare both param and args",
			Pos:     v.Pos(),
		}
	case paramVal.Exists():
		composite, cErr := compileCompositeParam(paramVal)
		if cErr != nil {
			return nil, cErr
		}
		raw.Args = composite
	case argsVal.Exists():
		list := &queryir.ArgList{}
		iter, iterErr := argsVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			item, itemErr := compileExpr(iter.Value())
			if itemErr != nil {
				return nil, itemErr
			}
			list.Items = append(list.Items, item)
		}
		raw.Args = list
	}
	return raw, nil
}

func compileCompositeParam(v cue.Value) (*queryir.CompositeParam, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	composite := &queryir.CompositeParam{Name: name}

	slotsVal := v.LookupPath(cue.ParsePath("slots"))
	if !slotsVal.Exists() {
		return nil, &CompileError{
			Field:   "slots",
			Message: "composite parameter requires slot types",
			Pos:     v.Pos(),
		}
	}
	iter, iterErr := slotsVal.List()
	if iterErr != nil {
		return nil, formatCUEError(iterErr)
	}
	for iter.Next() {
		slotVal := iter.Value()
		if typeName, sErr := slotVal.String(); sErr == nil {
			mapping, ok := namedTypes[typeName]
			if !ok {
				return nil, &CompileError{
					Field:   "slots",
					Message: fmt.Sprintf("unknown type name %q", typeName),
					Pos:     slotVal.Pos(),
				}
			}
			composite.Slots = append(composite.Slots, mapping)
			continue
		}
		mapping := queryir.TypeMapping{}
		if mapping.StoreType, err = requiredString(slotVal, "store"); err != nil {
			return nil, err
		}
		if mapping.Converter, err = optionalString(slotVal, "converter"); err != nil {
			return nil, err
		}
		if mapping.Boolean, err = optionalBool(slotVal, "boolean"); err != nil {
			return nil, err
		}
		composite.Slots = append(composite.Slots, mapping)
	}
	return composite, nil
}
