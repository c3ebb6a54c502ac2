package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/token"
)

// parseFnRest parses the parameter list and either ';' (declaration) or a
// block body. The return type and name are already consumed.
func (p *Parser) parseFnRest(start source.Span, ret ast.BasicType, name token.Token) (ast.ItemID, bool) {
	p.advance() // '('
	fn := ast.FnItem{Name: name.Text, NameSpan: name.Span, ReturnType: ret}
	if !p.at(token.RParen) {
		for {
			param, ok := p.parseFnParam()
			if !ok {
				return ast.NoItemID, false
			}
			fn.Params = append(fn.Params, param)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return ast.NoItemID, false
	}

	if p.at(token.Semicolon) {
		p.advance()
		return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Body = body
	return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
}

func (p *Parser) parseFnParam() (ast.FnParam, bool) {
	start := p.lx.Peek().Span
	typ, ok := p.parseBasicType()
	if !ok {
		return ast.FnParam{}, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return ast.FnParam{}, false
	}
	param := ast.FnParam{
		Declarator: ast.Declarator{Name: name.Text, NameSpan: name.Span},
		Type:       typ,
	}
	if p.at(token.LBracket) {
		p.advance()
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected '[]' for array parameter"); !ok {
			return ast.FnParam{}, false
		}
		param.IsArray = true
		dims, ok := p.parseDims()
		if !ok {
			return ast.FnParam{}, false
		}
		param.Dims = dims
	}
	param.Span = start.Cover(p.lastSpan)
	return param, true
}
