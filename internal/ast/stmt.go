package ast

import (
	"sysyc/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtDecl
	StmtAssign
	// StmtExpr also covers the empty statement ";" (Expr is NoExprID).
	StmtExpr
	StmtIf
	StmtWhile
	StmtBreak
	StmtContinue
	StmtReturn
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

type DeclStmt struct {
	Decl DeclID
}

type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

type ExprStmt struct {
	Expr ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

// ReturnStmt.Expr is NoExprID for a bare "return;".
type ReturnStmt struct {
	Expr ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Decls   *Arena[DeclStmt]
	Assigns *Arena[AssignStmt]
	Exprs   *Arena[ExprStmt]
	Ifs     *Arena[IfStmt]
	Whiles  *Arena[WhileStmt]
	Returns *Arena[ReturnStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint / 4),
		Decls:   NewArena[DeclStmt](capHint / 4),
		Assigns: NewArena[AssignStmt](capHint / 4),
		Exprs:   NewArena[ExprStmt](capHint / 4),
		Ifs:     NewArena[IfStmt](capHint / 4),
		Whiles:  NewArena[WhileStmt](capHint / 4),
		Returns: NewArena[ReturnStmt](capHint / 4),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(BlockStmt{Stmts: stmts})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewDecl(span source.Span, decl DeclID) StmtID {
	payload := s.Decls.Allocate(DeclStmt{Decl: decl})
	return s.new(StmtDecl, span, PayloadID(payload))
}

func (s *Stmts) Decl(id StmtID) *DeclStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtDecl {
		return nil
	}
	return s.Decls.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	payload := s.Assigns.Allocate(AssignStmt{Target: target, Value: value})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) *AssignStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAssign {
		return nil
	}
	return s.Assigns.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(ExprStmt{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) *IfStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) While(id StmtID) *WhileStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtWhile {
		return nil
	}
	return s.Whiles.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, NoPayloadID)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, NoPayloadID)
}

func (s *Stmts) NewReturn(span source.Span, expr ExprID) StmtID {
	payload := s.Returns.Allocate(ReturnStmt{Expr: expr})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) *ReturnStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(stmt.Payload))
}
