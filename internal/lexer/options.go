package lexer

import (
	"sysyc/internal/diag"
	"sysyc/internal/source"
)

type Options struct {
	// Reporter may be nil. The first lexical error is also kept on the
	// Lexer and returned by Err.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.err == nil {
		lx.err = diag.New(code, sp, msg)
	}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
