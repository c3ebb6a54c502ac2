package diag

import (
	"errors"
	"fmt"

	"sysyc/internal/source"
)

// Error is the failure value returned by the lexer, parser and IR generator.
// Compilation of a unit stops at the first Error.
type Error struct {
	Code   Code
	Span   source.Span
	Name   string // offending identifier, may be empty
	Detail string
	// Prev points at the earlier declaration for redefinitions.
	Prev *source.Span
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Message())
}

// Message renders the human-readable part without the code prefix.
func (e *Error) Message() string {
	msg := e.Code.Title()
	switch {
	case e.Name != "" && e.Detail != "":
		msg = fmt.Sprintf("%s '%s': %s", msg, e.Name, e.Detail)
	case e.Name != "":
		msg = fmt.Sprintf("%s '%s'", msg, e.Name)
	case e.Detail != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so callers can write
// errors.Is(err, &diag.Error{Code: diag.SemaRedefinition}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// AsError unwraps err into a *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or UnknownCode.
func CodeOf(err error) Code {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return UnknownCode
}

func New(code Code, span source.Span, detail string) *Error {
	return &Error{Code: code, Span: span, Detail: detail}
}

func Newf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: span, Detail: fmt.Sprintf(format, args...)}
}

func Redefinition(span source.Span, name string, prev *source.Span) *Error {
	return &Error{Code: SemaRedefinition, Span: span, Name: name, Prev: prev}
}

func UndefinedIdentifier(span source.Span, name string) *Error {
	return &Error{Code: SemaUndefinedIdentifier, Span: span, Name: name}
}

func IllegalAssignment(span source.Span, name string) *Error {
	return &Error{Code: SemaIllegalAssignment, Span: span, Name: name}
}

func ConstexprRequired(span source.Span, detail string) *Error {
	return &Error{Code: SemaConstexprRequired, Span: span, Detail: detail}
}

func InitializerRequired(span source.Span, name string) *Error {
	return &Error{Code: SemaInitializerRequired, Span: span, Name: name}
}

func IllegalVoidDeclaration(span source.Span, name string) *Error {
	return &Error{Code: SemaIllegalVoidDeclaration, Span: span, Name: name}
}

func InvalidControlTransfer(span source.Span, keyword string) *Error {
	return &Error{Code: SemaInvalidControlTransfer, Span: span, Detail: keyword + " statement not within a loop"}
}

func TypeMismatch(span source.Span, detail string) *Error {
	return &Error{Code: SemaTypeMismatch, Span: span, Detail: detail}
}

// Internal wraps an IR engine failure. It always indicates a compiler bug.
func Internal(span source.Span, err error) *Error {
	return &Error{Code: IRInternalInvariantViolation, Span: span, Err: err}
}
