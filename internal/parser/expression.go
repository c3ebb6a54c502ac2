package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr is a precedence-climbing loop over left-associative operators.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		prec := getBinaryOperatorPrec(p.lx.Peek().Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		opTok := p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.Exprs.NewBinary(leftSpan.Cover(rightSpan), tokenKindToBinaryOp(opTok.Kind), left, right)
	}

	return left, true
}

func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	var op ast.ExprUnaryOp
	switch p.lx.Peek().Kind {
	case token.Plus:
		op = ast.ExprUnaryPlus
	case token.Minus:
		op = ast.ExprUnaryMinus
	case token.Bang:
		op = ast.ExprUnaryNot
	default:
		return p.parsePrimaryExpr()
	}
	opTok := p.advance()
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// parsePrimaryExpr handles '(' Exp ')', numbers, calls and lvalues.
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close '('")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), true

	case token.IntLit:
		p.advance()
		v, err := lexer.ParseInt(tok.Text)
		if err != nil {
			p.err(diag.LexBadNumber, "malformed integer literal")
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, v, tok.Text), true

	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCallRest(tok)
		}
		return p.parseIndexSuffix(p.arenas.Exprs.NewIdent(tok.Span, tok.Text))
	}

	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoExprID, false
}

func (p *Parser) parseCallRest(name token.Token) (ast.ExprID, bool) {
	p.advance() // '('
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after call arguments")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCall(name.Span.Cover(closeTok.Span), name.Text, name.Span, args), true
}

func (p *Parser) parseIndexSuffix(base ast.ExprID) (ast.ExprID, bool) {
	for p.at(token.LBracket) {
		p.advance()
		idx, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(base).Span.Cover(closeTok.Span)
		base = p.arenas.Exprs.NewIndex(span, base, idx)
	}
	return base, true
}
