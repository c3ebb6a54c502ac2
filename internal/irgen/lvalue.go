package irgen

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/source"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

// place is a resolved lvalue. addr is NoValue for a scalar constant,
// which has no storage.
type place struct {
	sym  *symbols.Symbol
	addr ir.Value
	ty   types.Type
	span source.Span
}

func (c *Context) lookupName(name string, span source.Span) (*symbols.Symbol, error) {
	sym, ok := c.syms.Lookup(name)
	if !ok {
		return nil, diag.UndefinedIdentifier(span, name)
	}
	if sym.Kind == symbols.SymbolFunc {
		return nil, diag.Newf(diag.SemaTypeMismatch, span, "function '%s' used as a variable", name)
	}
	return sym, nil
}

// resolvePlace walks the subscripts of an lvalue, emitting the pointer
// arithmetic for each of them.
func (c *Context) resolvePlace(id ast.ExprID) (place, error) {
	span := c.ast.Exprs.Get(id).Span
	name, nameSpan, indices, ok := c.ast.Exprs.LValue(id)
	if !ok {
		return place{}, diag.TypeMismatch(span, "expression is not an lvalue")
	}
	sym, err := c.lookupName(name, nameSpan)
	if err != nil {
		return place{}, err
	}
	p := place{sym: sym, addr: sym.Var, ty: sym.Type, span: span}
	if sym.Kind == symbols.SymbolConst && sym.Const.IsScalar() {
		if len(indices) > 0 {
			return place{}, diag.TypeMismatch(span, "subscripted value is not an array")
		}
		p.addr = ir.NoValue
		return p, nil
	}
	for _, ix := range indices {
		var base ir.Value
		switch p.ty.Kind {
		case types.KindPointer:
			if base, err = c.emitValue(c.values().Load(p.addr)); err != nil {
				return place{}, err
			}
		case types.KindArray:
			base = p.addr
		default:
			return place{}, diag.TypeMismatch(c.ast.Exprs.Get(ix).Span, "subscripted value is not an array")
		}
		idx, err := c.lowerExpr(ix)
		if err != nil {
			return place{}, err
		}
		if p.ty.Kind == types.KindPointer {
			p.addr, err = c.emitValue(c.values().GetPtr(base, idx))
		} else {
			p.addr, err = c.emitValue(c.values().GetElemPtr(base, idx))
		}
		if err != nil {
			return place{}, err
		}
		p.ty, _ = p.ty.Index()
	}
	return p, nil
}

// loadLValue reads a scalar lvalue.
func (c *Context) loadLValue(id ast.ExprID) (ir.Value, error) {
	p, err := c.resolvePlace(id)
	if err != nil {
		return ir.NoValue, err
	}
	if !p.addr.IsValid() {
		return c.values().Integer(p.sym.Const.Item()), nil
	}
	if !p.ty.IsScalar() {
		return ir.NoValue, diag.Newf(diag.SemaTypeMismatch, p.span, "array '%s' used as a value", p.sym.Name)
	}
	return c.emitValue(c.values().Load(p.addr))
}

// lowerArrayArg passes an array or a partially indexed array to a
// parameter of type want. Arrays decay to a pointer to their first element.
func (c *Context) lowerArrayArg(id ast.ExprID, want types.Type) (ir.Value, error) {
	span := c.ast.Exprs.Get(id).Span
	if _, _, _, ok := c.ast.Exprs.LValue(id); !ok {
		return ir.NoValue, diag.Newf(diag.SemaTypeMismatch, span, "expected an array of type %s", want)
	}
	p, err := c.resolvePlace(id)
	if err != nil {
		return ir.NoValue, err
	}
	if !p.addr.IsValid() || p.ty.IsScalar() {
		return ir.NoValue, diag.Newf(diag.SemaTypeMismatch, span, "expected an array of type %s, got int", want)
	}
	if got := p.ty.Decay(); got != want.ToIR() {
		return ir.NoValue, diag.Newf(diag.SemaTypeMismatch, span, "expected an array of type %s, got %s", want, p.ty)
	}
	switch p.ty.Kind {
	case types.KindPointer:
		return c.emitValue(c.values().Load(p.addr))
	case types.KindArray:
		return c.emitValue(c.values().GetElemPtr(p.addr, c.values().Integer(0)))
	}
	return ir.NoValue, diag.Internal(span, fmt.Errorf("array argument of kind %s", p.ty.Kind))
}

// elemPtr addresses element flat of the row-major array at base.
func (c *Context) elemPtr(base ir.Value, dims []int, flat int) (ir.Value, error) {
	ptr := base
	stride := 1
	for _, d := range dims {
		stride *= d
	}
	for _, d := range dims {
		stride /= d
		idx := flat / stride
		flat %= stride
		var err error
		if ptr, err = c.emitValue(c.values().GetElemPtr(ptr, c.values().Integer(int32(idx)))); err != nil { // #nosec G115 -- bounded by the array type
			return ir.NoValue, err
		}
	}
	return ptr, nil
}
