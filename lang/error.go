package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Refined errors produced with [Error.With] or [Error.Wrap] still match their
// sentinel with [errors.Is].
var (
	// ErrTypeNameParse reports a malformed runtime type name. It is always
	// recoverable: the caller treats the candidate as non-materializable and
	// moves on to the next one.
	ErrTypeNameParse = NewError("malformed type name")

	// ErrTypeDeferred reports a request for the concrete type of a lambda
	// whose type has not been pinned down by its context yet.
	ErrTypeDeferred = NewError("cast is needed")

	// ErrNotSupported reports a node kind the linearizer declines to handle.
	ErrNotSupported = NewError("expression not supported")

	ErrInaccessibleMember = NewError("inaccessible member")
	ErrInaccessibleType   = NewError("inaccessible type")
	ErrAmbiguousCall      = NewError("ambiguous resolution not supported")
	ErrUnknownIdentifier  = NewError("unknown identifier")

	// ErrSyntax reports surface-grammar input that does not parse.
	ErrSyntax = NewError("syntax error")

	ErrNotLambda = NewError("expression is not a lambda")
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
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The attributes are appended in brackets so that the offending name of an
// evaluator error survives in the plain-text message shown to the user.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	s := strings.Join(part, ": ")

	if len(e.attrs) == 0 {
		return s
	}

	attr := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		attr = append(attr, a.String())
	}

	return s + " [" + strings.Join(attr, " ") + "]"
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
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
		attrs: e.attrs, // Share attrs
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

// WithPosition adds line and column attributes.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
}
