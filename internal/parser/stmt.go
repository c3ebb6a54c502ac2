package parser

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	var stmts []ast.StmtID
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedBrace, "expected '}' to close block")
			return ast.NoStmtID, false
		}
		st, ok := p.parseBlockItem()
		if !ok {
			return ast.NoStmtID, false
		}
		stmts = append(stmts, st)
	}
	closeTok := p.advance()
	return p.arenas.Stmts.NewBlock(open.Span.Cover(closeTok.Span), stmts), true
}

// parseBlockItem is a local declaration or a statement.
func (p *Parser) parseBlockItem() (ast.StmtID, bool) {
	if p.atOr(token.KwConst, token.KwInt, token.KwVoid) {
		start := p.lx.Peek().Span
		decl, ok := p.parseDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewDecl(start.Cover(p.lastSpan), decl), true
	}
	return p.parseStmt()
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.arenas.Stmts.NewExpr(tok.Span, ast.NoExprID), true
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwBreak, token.KwContinue:
		p.advance()
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+tok.Text); !ok {
			return ast.NoStmtID, false
		}
		span := tok.Span.Cover(p.lastSpan)
		if tok.Kind == token.KwBreak {
			return p.arenas.Stmts.NewBreak(span), true
		}
		return p.arenas.Stmts.NewContinue(span), true
	case token.KwReturn:
		p.advance()
		expr := ast.NoExprID
		if !p.at(token.Semicolon) {
			var ok bool
			if expr, ok = p.parseExpr(); !ok {
				return ast.NoStmtID, false
			}
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewReturn(tok.Span.Cover(p.lastSpan), expr), true
	}
	return p.parseSimpleStmt()
}

// parseSimpleStmt parses "LVal = Exp ;" or "Exp ;".
func (p *Parser) parseSimpleStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if p.at(token.Assign) {
		if _, _, _, isLValue := p.arenas.Exprs.LValue(expr); !isLValue {
			p.err(diag.SynUnexpectedToken, "left side of '=' is not assignable")
			return ast.NoStmtID, false
		}
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(start.Cover(p.lastSpan), expr, value), true
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(start.Cover(p.lastSpan), expr), true
}

func (p *Parser) parseCond() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before condition"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

// parseIfStmt binds a dangling else to the nearest if.
func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	start := p.advance().Span
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(start.Cover(p.lastSpan), cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	start := p.advance().Span
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(start.Cover(p.lastSpan), cond, body), true
}
