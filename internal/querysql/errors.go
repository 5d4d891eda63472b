package querysql

import (
	"errors"
	"fmt"
)

// GenError represents a failure detected during SQL generation.
//
// All generation failures are synchronous and unrecoverable within a single
// Generate call: the call aborts immediately and no partial output is
// reused. The Code field identifies the failure kind so callers can react
// without parsing messages.
type GenError struct {
	// Code identifies the error category.
	Code GenErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the %T name of the offending node, when one exists.
	Node string
}

// GenErrorCode categorizes generation errors.
type GenErrorCode string

const (
	// ErrCodeUnsupportedShape indicates an Update/Delete whose embedded
	// Select cannot be expressed as a simple UPDATE/DELETE statement.
	ErrCodeUnsupportedShape GenErrorCode = "UNSUPPORTED_SHAPE"

	// ErrCodeNonComposable indicates raw SQL that cannot be embedded as a
	// subquery: it does not start with SELECT/WITH after comment
	// stripping, or contains an unterminated comment.
	ErrCodeNonComposable GenErrorCode = "NON_COMPOSABLE_SQL"

	// ErrCodeRawArguments indicates a raw-SQL argument source that is
	// neither a composite parameter nor a list of parameters/constants.
	ErrCodeRawArguments GenErrorCode = "INVALID_RAW_ARGUMENTS"

	// ErrCodeUnknownSetOp indicates a set-operation kind outside
	// union/intersect/except.
	ErrCodeUnknownSetOp GenErrorCode = "UNKNOWN_SET_OPERATION"

	// ErrCodeUnhandledNode indicates a node kind with no generic textual
	// form that reached the base generator undispatched.
	ErrCodeUnhandledNode GenErrorCode = "UNHANDLED_NODE"
)

// Error implements the error interface.
func (e *GenError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newGenError builds a GenError with a formatted message.
func newGenError(code GenErrorCode, format string, args ...any) *GenError {
	return &GenError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// newNodeError builds a GenError that records the offending node type.
func newNodeError(code GenErrorCode, node any, format string, args ...any) *GenError {
	return &GenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Node:    fmt.Sprintf("%T", node),
	}
}

// hasCode reports whether err is a GenError with the given code.
// Uses errors.As to handle wrapped errors.
func hasCode(err error, code GenErrorCode) bool {
	var ge *GenError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// IsUnsupportedShape reports whether err is an unsupported-shape error.
func IsUnsupportedShape(err error) bool { return hasCode(err, ErrCodeUnsupportedShape) }

// IsNonComposable reports whether err is a non-composable raw SQL error.
func IsNonComposable(err error) bool { return hasCode(err, ErrCodeNonComposable) }

// IsRawArguments reports whether err is a malformed raw-SQL-arguments error.
func IsRawArguments(err error) bool { return hasCode(err, ErrCodeRawArguments) }

// IsUnknownSetOp reports whether err is an unknown set-operation error.
func IsUnknownSetOp(err error) bool { return hasCode(err, ErrCodeUnknownSetOp) }

// IsUnhandledNode reports whether err is an unhandled-node error.
func IsUnhandledNode(err error) bool { return hasCode(err, ErrCodeUnhandledNode) }
