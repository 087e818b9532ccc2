package errors

import (
	stderrors "errors"
	"fmt"
)

// Code classifies a failure so callers can branch on the kind of error
// without matching message text.
type Code string

const (
	// ErrCodeInvalidPath indicates a filesystem path that failed validation
	// (null byte, escape from its base directory, or excessive length).
	ErrCodeInvalidPath Code = "INVALID_PATH"

	// ErrCodeInvalidIdentifier indicates a chart, environment, or manifest
	// identifier that violates its grammar.
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"

	// ErrCodeUnsupportedNode indicates an unknown node type encountered
	// during YAML synthesis.
	ErrCodeUnsupportedNode Code = "UNSUPPORTED_NODE"

	// ErrCodeSubchartWrite indicates a subchart write failed during umbrella
	// composition. The error message carries the failing subchart's name.
	ErrCodeSubchartWrite Code = "SUBCHART_WRITE_FAILURE"

	// ErrCodeInvalidMetadata indicates chart metadata that failed validation
	// at construction (bad name or version).
	ErrCodeInvalidMetadata Code = "INVALID_METADATA"

	// ErrCodeInvalidRequest indicates malformed caller input outside the
	// more specific categories above.
	ErrCodeInvalidRequest Code = "INVALID_REQUEST"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal Code = "INTERNAL"
)

// Error is a code-tagged error with an optional wrapped cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf creates an error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code and message wrapping a cause.
// The cause remains reachable through errors.Is/errors.As.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the error's classification code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the error's message without the code prefix or cause.
func (e *Error) Message() string {
	return e.msg
}

// CodeOf returns the code of the first *Error in err's chain, or the empty
// string when the chain carries no coded error.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.code
	}
	return ""
}

// IsCode reports whether err's chain contains an *Error with the given code.
func IsCode(err error, code Code) bool {
	for ; err != nil; err = stderrors.Unwrap(err) {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
	}
	return false
}
