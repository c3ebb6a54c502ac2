package parser

import (
	"context"
	"slices"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

type Options struct {
	// Reporter receives the syntax error, if any. May be nil.
	Reporter diag.Reporter
}

type Result struct {
	File ast.FileID
	// Err is the first lexical or syntax error. Parsing stops there.
	Err error
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span of the last consumed token
	failure  *diag.Error
}

// ParseFile parses one SysY compilation unit from lx into arenas.
func ParseFile(
	ctx context.Context,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	start := lx.Peek().Span
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(start),
		opts:     opts,
		lastSpan: start,
	}

	p.parseItems(ctx)
	res := Result{File: p.file}
	switch {
	case p.failure != nil:
		res.Err = p.failure
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	}
	return res
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems is the top-level loop. The first error ends it.
func (p *Parser) parseItems(ctx context.Context) {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if ctx.Err() != nil {
			return
		}
		itemID, ok := p.parseItem()
		if !ok {
			return
		}
		p.arenas.PushItem(p.file, itemID)
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lastSpan)
}

// parseItem tells a function from a declaration after reading
// "type ident": a following '(' means function.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	start := p.lx.Peek().Span
	if p.at(token.KwConst) {
		decl, ok := p.parseDecl()
		if !ok {
			return ast.NoItemID, false
		}
		return p.arenas.Items.NewDecl(start.Cover(p.lastSpan), decl), true
	}

	typ, ok := p.parseBasicType()
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after type")
	if !ok {
		return ast.NoItemID, false
	}
	if p.at(token.LParen) {
		return p.parseFnRest(start, typ, name)
	}
	decl, ok := p.parseDeclRest(start, false, typ, name)
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewDecl(start.Cover(p.lastSpan), decl), true
}

func (p *Parser) parseBasicType() (ast.BasicType, bool) {
	switch p.lx.Peek().Kind {
	case token.KwInt:
		p.advance()
		return ast.TypeInt, true
	case token.KwVoid:
		p.advance()
		return ast.TypeVoid, true
	}
	p.err(diag.SynExpectType, "expected 'int' or 'void', got "+describe(p.lx.Peek()))
	return ast.TypeInt, false
}
