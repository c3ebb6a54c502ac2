package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

// evalConst folds the initializer of a const definition. Every element
// must be a constant expression.
func evalConst(b *ast.Builder, def ast.VarDef, r consteval.Resolver) (types.Type, consteval.Value, error) {
	ty, err := types.ResolveDeclarator(b, ast.TypeInt, def.Declarator, r)
	if err != nil {
		return types.Type{}, consteval.Value{}, err
	}
	if !def.Init.IsValid() {
		return types.Type{}, consteval.Value{}, diag.InitializerRequired(def.NameSpan, def.Name)
	}
	data, err := foldInit(b, def.Init, ty, r, "constant initializer")
	if err != nil {
		return types.Type{}, consteval.Value{}, err
	}
	return ty, consteval.Value{Dims: ty.Dims, Data: data}, nil
}

// foldInit folds a scalar or brace initializer for ty into row-major data.
func foldInit(b *ast.Builder, init ast.InitID, ty types.Type, r consteval.Resolver, what string) ([]int32, error) {
	fold := func(e ast.ExprID) (int32, error) {
		v, err := consteval.Eval(b, e, r)
		if consteval.IsNotConstexpr(err) {
			return 0, diag.ConstexprRequired(b.Exprs.Get(e).Span, what)
		}
		return v, err
	}
	in := b.Decls.Init(init)
	if ty.IsScalar() {
		if in.IsList {
			return nil, diag.TypeMismatch(in.Span, "brace list initializing a scalar")
		}
		v, err := fold(in.Expr)
		if err != nil {
			return nil, err
		}
		return []int32{v}, nil
	}
	return consteval.Flatten(b, init, ty.Dims, int32(0), fold)
}

// materialize creates "global @name = alloc T, init" for folded data.
func materialize(prog *ir.Program, name string, ty types.Type, data []int32) ir.Value {
	gb := prog.NewValue()
	var init ir.Value
	if allZero(data) {
		init = gb.ZeroInit(ty.ToIR())
	} else {
		init = aggregate(gb, ty.Dims, data)
	}
	alloc := gb.GlobalAlloc(init)
	prog.SetValueName(alloc, "@"+name)
	return alloc
}

func aggregate(gb ir.GlobalBuilder, dims []int, data []int32) ir.Value {
	if len(dims) == 0 {
		return gb.Integer(data[0])
	}
	stride := len(data) / dims[0]
	elems := make([]ir.Value, dims[0])
	for i := range elems {
		elems[i] = aggregate(gb, dims[1:], data[i*stride:(i+1)*stride])
	}
	return gb.Aggregate(elems)
}

func allZero(data []int32) bool {
	for _, v := range data {
		if v != 0 {
			return false
		}
	}
	return true
}

func redefinition(def ast.VarDef, prev *symbols.Symbol) error {
	return diag.Redefinition(def.NameSpan, def.Name, &prev.Span)
}

func (c *Context) lowerLocalDecl(id ast.DeclID) error {
	d := c.ast.Decls.Get(id)
	if d.Type == ast.TypeVoid {
		return diag.IllegalVoidDeclaration(d.Defs[0].NameSpan, d.Defs[0].Name)
	}
	for _, def := range d.Defs {
		var err error
		if d.IsConst {
			err = c.lowerLocalConst(def)
		} else {
			err = c.lowerLocalVar(def)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// lowerLocalConst binds a folded constant. Scalars emit nothing; arrays are
// also placed in a global so that runtime subscripts can load from them.
func (c *Context) lowerLocalConst(def ast.VarDef) error {
	ty, val, err := evalConst(c.ast, def, c)
	if err != nil {
		return err
	}
	sym := symbols.NewConst(def.Name, def.NameSpan, ty, val)
	if !ty.IsScalar() {
		sym.Var = materialize(c.prog, def.Name, ty, val.Data)
	}
	if prev, ok := c.syms.Insert(sym); !ok {
		return redefinition(def, prev)
	}
	return nil
}

func (c *Context) lowerLocalVar(def ast.VarDef) error {
	ty, err := types.ResolveDeclarator(c.ast, ast.TypeInt, def.Declarator, c)
	if err != nil {
		return err
	}
	slot, err := c.emitValue(c.values().Alloc(ty.ToIR()))
	if err != nil {
		return err
	}
	c.dfg().SetValueName(slot, "@"+def.Name)

	if def.Init.IsValid() {
		if err := c.initLocal(slot, ty, def.Init); err != nil {
			return err
		}
	}
	if prev, ok := c.syms.Insert(symbols.NewVar(def.Name, def.NameSpan, ty, slot)); !ok {
		return redefinition(def, prev)
	}
	return nil
}

// initLocal stores an initializer into a fresh slot. For arrays every
// element is written, missing ones as zero.
func (c *Context) initLocal(slot ir.Value, ty types.Type, init ast.InitID) error {
	in := c.ast.Decls.Init(init)
	if ty.IsScalar() {
		if in.IsList {
			return diag.TypeMismatch(in.Span, "brace list initializing a scalar")
		}
		v, err := c.lowerExpr(in.Expr)
		if err != nil {
			return err
		}
		return c.Emit(c.values().Store(v, slot))
	}

	elems, err := consteval.Flatten(c.ast, init, ty.Dims, ir.NoValue, c.lowerExpr)
	if err != nil {
		return err
	}
	for i, v := range elems {
		if !v.IsValid() {
			v = c.values().Integer(0)
		}
		ptr, err := c.elemPtr(slot, ty.Dims, i)
		if err != nil {
			return err
		}
		if err := c.Emit(c.values().Store(v, ptr)); err != nil {
			return err
		}
	}
	return nil
}
