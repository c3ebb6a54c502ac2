package diag

import (
	"sysyc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// FromError converts a phase error into a diagnostic. Errors that are not a
// *Error become an unknown-code diagnostic with an empty span.
func FromError(err error) Diagnostic {
	if e, ok := AsError(err); ok {
		d := Diagnostic{
			Severity: SevError,
			Code:     e.Code,
			Message:  e.Message(),
			Primary:  e.Span,
		}
		if e.Prev != nil {
			d.Notes = append(d.Notes, Note{Span: *e.Prev, Msg: "previous definition is here"})
		}
		return d
	}
	return Diagnostic{Severity: SevError, Code: UnknownCode, Message: err.Error()}
}
