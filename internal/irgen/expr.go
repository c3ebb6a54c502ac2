package irgen

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

var binaryOps = map[ast.ExprBinaryOp]ir.BinaryOp{
	ast.ExprBinaryAdd:       ir.OpAdd,
	ast.ExprBinarySub:       ir.OpSub,
	ast.ExprBinaryMul:       ir.OpMul,
	ast.ExprBinaryDiv:       ir.OpDiv,
	ast.ExprBinaryMod:       ir.OpMod,
	ast.ExprBinaryEq:        ir.OpEq,
	ast.ExprBinaryNotEq:     ir.OpNotEq,
	ast.ExprBinaryLess:      ir.OpLt,
	ast.ExprBinaryLessEq:    ir.OpLe,
	ast.ExprBinaryGreater:   ir.OpGt,
	ast.ExprBinaryGreaterEq: ir.OpGe,
}

// lowerExpr lowers an int-valued expression. Whatever folds becomes an
// immediate and emits nothing.
func (c *Context) lowerExpr(id ast.ExprID) (ir.Value, error) {
	v, err := consteval.Eval(c.ast, id, c)
	switch {
	case err == nil:
		return c.values().Integer(v), nil
	case !consteval.IsNotConstexpr(err):
		return ir.NoValue, err
	}
	return c.lowerRuntime(id)
}

func (c *Context) lowerRuntime(id ast.ExprID) (ir.Value, error) {
	expr := c.ast.Exprs.Get(id)
	if expr == nil {
		return ir.NoValue, diag.Internal(c.span, fmt.Errorf("unknown expression %d", id))
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := c.ast.Exprs.Literal(id)
		return c.values().Integer(lit.Value), nil

	case ast.ExprGroup:
		g, _ := c.ast.Exprs.Group(id)
		return c.lowerExpr(g.Inner)

	case ast.ExprIdent, ast.ExprIndex:
		return c.loadLValue(id)

	case ast.ExprUnary:
		un, _ := c.ast.Exprs.Unary(id)
		x, err := c.lowerExpr(un.Operand)
		if err != nil {
			return ir.NoValue, err
		}
		switch un.Op {
		case ast.ExprUnaryMinus:
			return c.emitValue(c.values().Binary(ir.OpSub, c.values().Integer(0), x))
		case ast.ExprUnaryNot:
			return c.emitValue(c.values().Binary(ir.OpEq, x, c.values().Integer(0)))
		default:
			return x, nil
		}

	case ast.ExprBinary:
		bin, _ := c.ast.Exprs.Binary(id)
		if bin.Op.IsShortCircuit() {
			return c.lowerShortCircuit(bin)
		}
		lhs, err := c.lowerExpr(bin.Left)
		if err != nil {
			return ir.NoValue, err
		}
		rhs, err := c.lowerExpr(bin.Right)
		if err != nil {
			return ir.NoValue, err
		}
		op, ok := binaryOps[bin.Op]
		if !ok {
			return ir.NoValue, diag.Internal(expr.Span, fmt.Errorf("no IR operator for %s", bin.Op))
		}
		return c.emitValue(c.values().Binary(op, lhs, rhs))

	case ast.ExprCall:
		v, sym, err := c.lowerCall(id)
		if err != nil {
			return ir.NoValue, err
		}
		if sym.Type.Kind == types.KindVoid {
			return ir.NoValue, diag.Newf(diag.SemaTypeMismatch, expr.Span, "void function '%s' used as a value", sym.Name)
		}
		return v, nil
	}
	return ir.NoValue, diag.Internal(expr.Span, fmt.Errorf("unexpected expression kind %d", expr.Kind))
}

// lowerCall emits a call. Calls are never folded.
func (c *Context) lowerCall(id ast.ExprID) (ir.Value, *symbols.Symbol, error) {
	call, _ := c.ast.Exprs.Call(id)
	sym, ok := c.syms.Lookup(call.Name)
	if !ok {
		return ir.NoValue, nil, diag.UndefinedIdentifier(call.NameSpan, call.Name)
	}
	if sym.Kind != symbols.SymbolFunc {
		return ir.NoValue, nil, diag.Newf(diag.SemaTypeMismatch, call.NameSpan, "'%s' is not a function", call.Name)
	}
	if len(call.Args) != len(sym.Params) {
		span := c.ast.Exprs.Get(id).Span
		return ir.NoValue, nil, diag.Newf(diag.SemaTypeMismatch, span, "'%s' expects %d arguments, got %d", call.Name, len(sym.Params), len(call.Args))
	}
	args := make([]ir.Value, len(call.Args))
	for i, arg := range call.Args {
		var err error
		if sym.Params[i].Kind == types.KindPointer {
			args[i], err = c.lowerArrayArg(arg, sym.Params[i])
		} else {
			args[i], err = c.lowerExpr(arg)
		}
		if err != nil {
			return ir.NoValue, nil, err
		}
	}
	v, err := c.emitValue(c.values().Call(sym.Func, args))
	return v, sym, err
}

// stripGroups removes redundant parentheses around id.
func (c *Context) stripGroups(id ast.ExprID) ast.ExprID {
	for {
		g, ok := c.ast.Exprs.Group(id)
		if !ok {
			return id
		}
		id = g.Inner
	}
}
