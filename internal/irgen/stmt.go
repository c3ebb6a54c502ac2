package irgen

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

func (c *Context) lowerStmts(stmts []ast.StmtID) error {
	for _, id := range stmts {
		if err := c.lowerStmt(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) lowerStmt(id ast.StmtID) error {
	st := c.ast.Stmts.Get(id)
	if st == nil {
		return diag.Internal(c.span, fmt.Errorf("unknown statement %d", id))
	}
	switch st.Kind {
	case ast.StmtBlock:
		return c.lowerBlock(c.ast.Stmts.Block(id))
	case ast.StmtDecl:
		return c.lowerLocalDecl(c.ast.Stmts.Decl(id).Decl)
	case ast.StmtAssign:
		return c.lowerAssign(c.ast.Stmts.Assign(id))
	case ast.StmtExpr:
		return c.lowerExprStmt(c.ast.Stmts.Expr(id))
	case ast.StmtIf:
		return c.lowerIf(c.ast.Stmts.If(id))
	case ast.StmtWhile:
		return c.lowerWhile(c.ast.Stmts.While(id))
	case ast.StmtBreak, ast.StmtContinue:
		keyword := "break"
		if st.Kind == ast.StmtContinue {
			keyword = "continue"
		}
		loop, ok := c.innermostLoop()
		if !ok {
			return diag.InvalidControlTransfer(st.Span, keyword)
		}
		if st.Kind == ast.StmtBreak {
			return c.jump(loop.brk)
		}
		return c.jump(loop.cont)
	case ast.StmtReturn:
		return c.lowerReturn(st, c.ast.Stmts.Return(id))
	}
	return diag.Internal(st.Span, fmt.Errorf("unexpected statement kind %d", st.Kind))
}

func (c *Context) lowerBlock(blk *ast.BlockStmt) error {
	defer c.syms.Enter(symbols.ScopeBlock)()
	return c.lowerStmts(blk.Stmts)
}

func (c *Context) lowerAssign(as *ast.AssignStmt) error {
	name, nameSpan, _, ok := c.ast.Exprs.LValue(as.Target)
	if !ok {
		return diag.TypeMismatch(c.ast.Exprs.Get(as.Target).Span, "expression is not assignable")
	}
	sym, err := c.lookupName(name, nameSpan)
	if err != nil {
		return err
	}
	if sym.Kind == symbols.SymbolConst {
		return diag.IllegalAssignment(nameSpan, name)
	}
	p, err := c.resolvePlace(as.Target)
	if err != nil {
		return err
	}
	if !p.ty.IsScalar() {
		return diag.Newf(diag.SemaTypeMismatch, p.span, "cannot assign to array '%s'", name)
	}
	v, err := c.lowerExpr(as.Value)
	if err != nil {
		return err
	}
	return c.Emit(c.values().Store(v, p.addr))
}

// lowerExprStmt evaluates an expression for its side effects. A call to a
// void function is allowed here and only here.
func (c *Context) lowerExprStmt(es *ast.ExprStmt) error {
	if !es.Expr.IsValid() {
		return nil
	}
	id := c.stripGroups(es.Expr)
	if _, ok := c.ast.Exprs.Call(id); ok {
		_, _, err := c.lowerCall(id)
		return err
	}
	_, err := c.lowerExpr(es.Expr)
	return err
}

func (c *Context) lowerReturn(st *ast.Stmt, ret *ast.ReturnStmt) error {
	var v ir.Value
	switch {
	case ret.Expr.IsValid() && c.ret.Kind == types.KindVoid:
		return diag.Newf(diag.SemaTypeMismatch, st.Span, "void function '%s' returns a value", c.fd.Name()[1:])
	case ret.Expr.IsValid():
		var err error
		if v, err = c.lowerExpr(ret.Expr); err != nil {
			return err
		}
	case c.ret.Kind != types.KindVoid:
		v = c.values().Integer(0)
	}
	return c.SealUnreachable(c.values().Ret(v))
}

func (c *Context) lowerIf(s *ast.IfStmt) error {
	reachable := c.Open()
	cond, err := c.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	thenBB, err := c.NewBlock()
	if err != nil {
		return err
	}
	elseBB := ir.NoBlock
	if s.Else.IsValid() {
		if elseBB, err = c.NewBlock(); err != nil {
			return err
		}
	}
	endBB, err := c.NewBlock()
	if err != nil {
		return err
	}
	falseBB := endBB
	if elseBB.IsValid() {
		falseBB = elseBB
	}
	if err := c.SealUnreachable(c.values().Branch(cond, thenBB, falseBB)); err != nil {
		return err
	}

	// end is reachable through the false edge when there is no else, or
	// through an arm that falls off its end.
	joined := reachable && !elseBB.IsValid()
	arm := func(bb ir.BasicBlock, body ast.StmtID) error {
		if reachable {
			c.SwitchTo(bb)
		}
		if err := c.lowerStmt(body); err != nil {
			return err
		}
		if c.Open() {
			joined = true
			return c.jump(endBB)
		}
		return nil
	}
	if err := arm(thenBB, s.Then); err != nil {
		return err
	}
	if elseBB.IsValid() {
		if err := arm(elseBB, s.Else); err != nil {
			return err
		}
	}
	if joined {
		c.SwitchTo(endBB)
	}
	return nil
}

func (c *Context) lowerWhile(s *ast.WhileStmt) error {
	reachable := c.Open()
	condBB, err := c.NewBlock()
	if err != nil {
		return err
	}
	bodyBB, err := c.NewBlock()
	if err != nil {
		return err
	}
	endBB, err := c.NewBlock()
	if err != nil {
		return err
	}
	if err := c.Seal(c.values().Jump(condBB), condBB); err != nil {
		return err
	}
	cond, err := c.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	if err := c.SealUnreachable(c.values().Branch(cond, bodyBB, endBB)); err != nil {
		return err
	}

	if reachable {
		c.SwitchTo(bodyBB)
	}
	if err := c.lowerLoopBody(s.Body, condBB, endBB); err != nil {
		return err
	}
	if c.Open() {
		if err := c.jump(condBB); err != nil {
			return err
		}
	}
	if reachable {
		c.SwitchTo(endBB)
	}
	return nil
}

func (c *Context) lowerLoopBody(body ast.StmtID, cont, brk ir.BasicBlock) error {
	defer c.pushLoop(cont, brk)()
	return c.lowerStmt(body)
}
