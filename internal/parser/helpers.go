package parser

import (
	"strconv"

	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan points at the next token, or just past the last one at EOF.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

// expect consumes a token of kind k or records an error.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

// err records the first failure. An invalid token means the lexer already
// produced a better error, so that one wins.
func (p *Parser) err(code diag.Code, msg string) {
	if p.failure != nil {
		return
	}
	if p.at(token.Invalid) {
		if e, ok := diag.AsError(p.lx.Err()); ok {
			p.failure = e
			return
		}
	}
	p.failure = diag.New(code, p.getDiagnosticSpan(), msg)
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, p.failure.Span, msg, nil)
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit:
		return tok.Kind.String() + " " + strconv.Quote(tok.Text)
	}
	return "'" + tok.Kind.String() + "'"
}
