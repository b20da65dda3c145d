package pkg

import (
	"errors"
	"log/slog"
	"strings"
)

// Sentinel errors shared by ycomp and its subpackages.
// These errors can be tested using errors.Is for reliable error checking.
var (
	ErrReadInput       = NewError("failed to read input")
	ErrWriteOutput     = NewError("failed to write output")
	ErrParse           = NewError("parse error")
	ErrUnknownTag      = NewError("unknown tag")
	ErrUndefinedAlias  = NewError("undefined alias")
	ErrInvalidFormat   = NewError("invalid format")
	ErrYAMLMarshal     = NewError("YAML marshal error")
	ErrExprCompile     = NewError("expression compilation failed")
	ErrExprEvaluate    = NewError("expression evaluation failed")
	ErrUndefined       = NewError("undefined variable")
	ErrInvalidPattern  = NewError("invalid substitution pattern")
	ErrMaxDepth        = NewError("maximum nesting depth exceeded")
	ErrCircularInclude = NewError("circular inclusion detected")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// An error that already is (or wraps) an Error is returned unchanged.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e.
// Copies made by Wrap and With compare equal to the sentinel they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg && t.err == nil && len(t.attrs) == 0
}

// Message returns the error message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// Attrs returns a copy of the structured logging attributes.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
