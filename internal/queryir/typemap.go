package queryir

// TypeMapping identifies how a value maps onto a database storage type.
//
// The generator treats mappings as opaque handles: it compares them when
// deduplicating parameters and hands them to the dialect when formatting
// literals. StoreType is the dialect-level type name (e.g. "integer",
// "text"). Converter names an optional value converter applied upstream;
// two parameters with the same name but different converters must not
// share a binding.
type TypeMapping struct {
	// StoreType is the database storage type name.
	StoreType string

	// Converter names the value converter, empty when none is applied.
	Converter string

	// Boolean marks mappings whose store type holds a truth value.
	// The generator needs this to distinguish logical NOT from bitwise
	// complement and to parenthesize IS NULL tests on boolean operands.
	Boolean bool
}

// Same reports whether two mappings are interchangeable for parameter
// binding purposes: identical store type and identical converter.
func (m TypeMapping) Same(o TypeMapping) bool {
	return m.StoreType == o.StoreType && m.Converter == o.Converter
}

// Common mappings used by upstream tree builders and tests.
var (
	BoolType  = TypeMapping{StoreType: "boolean", Boolean: true}
	IntType   = TypeMapping{StoreType: "integer"}
	TextType  = TypeMapping{StoreType: "text"}
	FloatType = TypeMapping{StoreType: "real"}
	BlobType  = TypeMapping{StoreType: "blob"}
	TimeType  = TypeMapping{StoreType: "timestamp"}
)

// TypeOf probes the storage type of an expression.
//
// It is a pure function used by the precedence resolver (boolean-operand
// checks) and by NOT dispatch (logical NOT vs bitwise complement). For
// nodes that do not carry an explicit mapping the result is derived
// structurally; when nothing is known the zero mapping is returned.
func TypeOf(e Expr) TypeMapping {
	switch x := e.(type) {
	case *Column:
		return x.Type
	case *Constant:
		return x.Type
	case *Parameter:
		return x.Type
	case *Binary:
		if x.Op.Logical() || x.Op.Comparison() {
			return BoolType
		}
		return TypeOf(x.Left)
	case *Unary:
		switch x.Op {
		case OpIsNull, OpIsNotNull:
			return BoolType
		case OpConvert:
			return x.Target
		default:
			return TypeOf(x.Operand)
		}
	case *Function:
		return x.Type
	case *Like, *Exists, *In:
		return BoolType
	case *Case:
		if len(x.Whens) > 0 {
			return TypeOf(x.Whens[0].Then)
		}
		if x.Else != nil {
			return TypeOf(x.Else)
		}
	case *Collate:
		return TypeOf(x.Operand)
	case *Distinct:
		return TypeOf(x.Operand)
	case *AtTimeZone:
		return TypeOf(x.Operand)
	case *JSONScalar:
		return x.Type
	case *Subquery:
		if x.Select != nil && len(x.Select.Projection) == 1 {
			return TypeOf(x.Select.Projection[0].Expr)
		}
	}
	return TypeMapping{}
}
