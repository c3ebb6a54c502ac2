package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/ir"
)

// lowerShortCircuit lowers a || b and a && b:
//
//	%r = alloc i32
//	store 1, %r            // 0 for &&
//	%c = eq a, 0           // ne for &&
//	br %c, %rhs, %join
//	%rhs:
//	  store (ne b, 0), %r
//	  jump %join
//	%join:
//	  load %r
//
// b is evaluated at most once and only when a does not decide the result.
func (c *Context) lowerShortCircuit(bin *ast.ExprBinaryData) (ir.Value, error) {
	short, test := int32(0), ir.OpNotEq
	if bin.Op == ast.ExprBinaryLogicalOr {
		short, test = 1, ir.OpEq
	}

	slot, err := c.emitValue(c.values().Alloc(ir.Int32()))
	if err != nil {
		return ir.NoValue, err
	}
	if err := c.Emit(c.values().Store(c.values().Integer(short), slot)); err != nil {
		return ir.NoValue, err
	}

	lhs, err := c.lowerExpr(bin.Left)
	if err != nil {
		return ir.NoValue, err
	}
	cond, err := c.emitValue(c.values().Binary(test, lhs, c.values().Integer(0)))
	if err != nil {
		return ir.NoValue, err
	}

	rhsBB, err := c.NewBlock()
	if err != nil {
		return ir.NoValue, err
	}
	joinBB, err := c.NewBlock()
	if err != nil {
		return ir.NoValue, err
	}
	if err := c.Seal(c.values().Branch(cond, rhsBB, joinBB), rhsBB); err != nil {
		return ir.NoValue, err
	}

	rhs, err := c.lowerExpr(bin.Right)
	if err != nil {
		return ir.NoValue, err
	}
	norm, err := c.emitValue(c.values().Binary(ir.OpNotEq, rhs, c.values().Integer(0)))
	if err != nil {
		return ir.NoValue, err
	}
	if err := c.Emit(c.values().Store(norm, slot)); err != nil {
		return ir.NoValue, err
	}
	if err := c.Seal(c.values().Jump(joinBB), joinBB); err != nil {
		return ir.NoValue, err
	}
	return c.emitValue(c.values().Load(slot))
}
