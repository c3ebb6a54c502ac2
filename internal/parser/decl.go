package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

// parseDecl parses "[const] type def {, def} ;" from its first token.
func (p *Parser) parseDecl() (ast.DeclID, bool) {
	start := p.lx.Peek().Span
	isConst := false
	if p.at(token.KwConst) {
		p.advance()
		isConst = true
	}
	typ, ok := p.parseBasicType()
	if !ok {
		return ast.NoDeclID, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier in declaration")
	if !ok {
		return ast.NoDeclID, false
	}
	return p.parseDeclRest(start, isConst, typ, name)
}

// parseDeclRest continues a declaration whose first identifier is consumed.
func (p *Parser) parseDeclRest(start source.Span, isConst bool, typ ast.BasicType, first token.Token) (ast.DeclID, bool) {
	data := ast.DeclData{IsConst: isConst, Type: typ}
	name := first
	for {
		def, ok := p.parseVarDefRest(name)
		if !ok {
			return ast.NoDeclID, false
		}
		data.Defs = append(data.Defs, def)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		name, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after ','")
		if !ok {
			return ast.NoDeclID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return ast.NoDeclID, false
	}
	data.Span = start.Cover(p.lastSpan)
	return p.arenas.Decls.New(data), true
}

func (p *Parser) parseVarDefRest(name token.Token) (ast.VarDef, bool) {
	def := ast.VarDef{Declarator: ast.Declarator{Name: name.Text, NameSpan: name.Span}}
	dims, ok := p.parseDims()
	if !ok {
		return def, false
	}
	def.Dims = dims
	if p.at(token.Assign) {
		p.advance()
		def.Init, ok = p.parseInit()
		if !ok {
			return def, false
		}
	}
	return def, true
}

// parseDims parses any number of "[Exp]" suffixes.
func (p *Parser) parseDims() ([]ast.ExprID, bool) {
	var dims []ast.ExprID
	for p.at(token.LBracket) {
		p.advance()
		dim, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after array bound"); !ok {
			return nil, false
		}
		dims = append(dims, dim)
	}
	return dims, true
}

func (p *Parser) parseInit() (ast.InitID, bool) {
	if !p.at(token.LBrace) {
		expr, ok := p.parseExpr()
		if !ok {
			return ast.NoInitID, false
		}
		return p.arenas.Decls.NewExprInit(p.arenas.Exprs.Get(expr).Span, expr), true
	}
	open := p.advance()
	var list []ast.InitID
	if !p.at(token.RBrace) {
		for {
			sub, ok := p.parseInit()
			if !ok {
				return ast.NoInitID, false
			}
			list = append(list, sub)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer list")
	if !ok {
		return ast.NoInitID, false
	}
	return p.arenas.Decls.NewListInit(open.Span.Cover(closeTok.Span), list), true
}
