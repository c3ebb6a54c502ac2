package consteval

import (
	"errors"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
)

// ErrNotConstexpr marks an expression that cannot be folded.
var ErrNotConstexpr = errors.New("consteval: not a constant expression")

// Resolver maps a name to its constant binding. found reports whether the
// name is bound at all; isConst whether that binding is a constant.
type Resolver interface {
	ResolveConst(name string) (val Value, isConst, found bool)
}

// Eval folds expr. A nil resolver binds no names.
func Eval(b *ast.Builder, expr ast.ExprID, r Resolver) (int32, error) {
	ev := evaluator{b: b, r: r}
	return ev.eval(expr)
}

// IsNotConstexpr reports whether err only says "not foldable".
func IsNotConstexpr(err error) bool {
	return errors.Is(err, ErrNotConstexpr)
}

type evaluator struct {
	b *ast.Builder
	r Resolver
}

func (ev *evaluator) eval(id ast.ExprID) (int32, error) {
	expr := ev.b.Exprs.Get(id)
	if expr == nil {
		return 0, ErrNotConstexpr
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := ev.b.Exprs.Literal(id)
		return lit.Value, nil
	case ast.ExprGroup:
		g, _ := ev.b.Exprs.Group(id)
		return ev.eval(g.Inner)
	case ast.ExprIdent, ast.ExprIndex:
		return ev.lvalue(id)
	case ast.ExprCall:
		return 0, ErrNotConstexpr
	case ast.ExprUnary:
		un, _ := ev.b.Exprs.Unary(id)
		v, err := ev.eval(un.Operand)
		if err != nil {
			return 0, err
		}
		switch un.Op {
		case ast.ExprUnaryMinus:
			return -v, nil
		case ast.ExprUnaryNot:
			return boolInt(v == 0), nil
		default:
			return v, nil
		}
	case ast.ExprBinary:
		return ev.binary(id)
	}
	return 0, ErrNotConstexpr
}

func (ev *evaluator) lvalue(id ast.ExprID) (int32, error) {
	name, span, indices, ok := ev.b.Exprs.LValue(id)
	if !ok {
		return 0, ErrNotConstexpr
	}
	if ev.r == nil {
		return 0, diag.UndefinedIdentifier(span, name)
	}
	val, isConst, found := ev.r.ResolveConst(name)
	if !found {
		return 0, diag.UndefinedIdentifier(span, name)
	}
	if !isConst {
		return 0, ErrNotConstexpr
	}
	idx := make([]int32, len(indices))
	for i, e := range indices {
		v, err := ev.eval(e)
		if err != nil {
			return 0, err
		}
		idx[i] = v
	}
	elem, ok := val.Index(idx)
	if !ok || !elem.IsScalar() {
		return 0, ErrNotConstexpr
	}
	return elem.Item(), nil
}

func (ev *evaluator) binary(id ast.ExprID) (int32, error) {
	bin, _ := ev.b.Exprs.Binary(id)
	lhs, err := ev.eval(bin.Left)
	if err != nil {
		return 0, err
	}
	switch {
	case bin.Op == ast.ExprBinaryLogicalAnd && lhs == 0:
		return 0, nil
	case bin.Op == ast.ExprBinaryLogicalOr && lhs != 0:
		return 1, nil
	}
	rhs, err := ev.eval(bin.Right)
	if err != nil {
		return 0, err
	}
	return Fold(bin.Op, lhs, rhs)
}

// Fold applies op to two known operands with int32 wrap-around.
func Fold(op ast.ExprBinaryOp, lhs, rhs int32) (int32, error) {
	switch op {
	case ast.ExprBinaryAdd:
		return lhs + rhs, nil
	case ast.ExprBinarySub:
		return lhs - rhs, nil
	case ast.ExprBinaryMul:
		return lhs * rhs, nil
	case ast.ExprBinaryDiv:
		if rhs == 0 {
			return 0, ErrNotConstexpr
		}
		return lhs / rhs, nil
	case ast.ExprBinaryMod:
		if rhs == 0 {
			return 0, ErrNotConstexpr
		}
		return lhs % rhs, nil
	case ast.ExprBinaryLogicalAnd:
		return boolInt(lhs != 0 && rhs != 0), nil
	case ast.ExprBinaryLogicalOr:
		return boolInt(lhs != 0 || rhs != 0), nil
	case ast.ExprBinaryEq:
		return boolInt(lhs == rhs), nil
	case ast.ExprBinaryNotEq:
		return boolInt(lhs != rhs), nil
	case ast.ExprBinaryLess:
		return boolInt(lhs < rhs), nil
	case ast.ExprBinaryLessEq:
		return boolInt(lhs <= rhs), nil
	case ast.ExprBinaryGreater:
		return boolInt(lhs > rhs), nil
	case ast.ExprBinaryGreaterEq:
		return boolInt(lhs >= rhs), nil
	}
	return 0, ErrNotConstexpr
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
