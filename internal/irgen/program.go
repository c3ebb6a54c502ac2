package irgen

import (
	"context"
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/source"
	"sysyc/internal/symbols"
	"sysyc/internal/trace"
	"sysyc/internal/types"
)

// Generate lowers the compilation unit file to a fresh program. The first
// error aborts the whole unit.
func Generate(ctx context.Context, b *ast.Builder, file ast.FileID, opts Options) (*ir.Program, error) {
	f := b.Files.Get(file)
	if f == nil {
		return nil, fmt.Errorf("irgen: unknown file %d", file)
	}
	pb := newProgramBuilder(b, opts)
	if err := pb.run(ctx, f); err != nil {
		return nil, err
	}
	return pb.prog, nil
}

func newProgramBuilder(b *ast.Builder, opts Options) *programBuilder {
	return &programBuilder{
		prog: ir.NewProgram(),
		ast:  b,
		syms: symbols.NewTable(),
		opts: opts,
	}
}

func (pb *programBuilder) run(ctx context.Context, f *ast.File) error {
	if !pb.opts.NoPrelude {
		pb.declarePrelude()
	}
	for _, item := range f.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pb.item(item); err != nil {
			return err
		}
	}
	return insertImplicitReturns(pb.prog)
}

type programBuilder struct {
	prog *ir.Program
	ast  *ast.Builder
	syms *symbols.Table
	opts Options
}

func (pb *programBuilder) item(id ast.ItemID) error {
	it := pb.ast.Items.Get(id)
	switch it.Kind {
	case ast.ItemFn:
		fn, _ := pb.ast.Items.Fn(id)
		return pb.function(fn)
	case ast.ItemDecl:
		d, _ := pb.ast.Items.Decl(id)
		return pb.globalDecl(pb.ast.Decls.Get(d.Decl))
	}
	return diag.Internal(it.Span, fmt.Errorf("unexpected item kind %d", it.Kind))
}

// function declares fn and, when it has a body, lowers it. A definition
// that follows a declaration fills the function created for it.
func (pb *programBuilder) function(fn *ast.FnItem) error {
	ret := types.Int
	if fn.ReturnType == ast.TypeVoid {
		ret = types.Void
	}
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		ty, err := types.ResolveParam(pb.ast, p, pb.syms.GlobalView())
		if err != nil {
			return err
		}
		params[i] = ty
	}
	sym := symbols.NewFunc(fn.Name, fn.NameSpan, ret, params, ir.NoFunction, !fn.IsDecl())

	if prev, ok := pb.syms.LookupGlobal(fn.Name); ok {
		if prev.Kind != symbols.SymbolFunc || (prev.Defined && sym.Defined) {
			return diag.Redefinition(fn.NameSpan, fn.Name, &prev.Span)
		}
		if !prev.SameSignature(&sym) {
			err := diag.Redefinition(fn.NameSpan, fn.Name, &prev.Span)
			err.Detail = "conflicting signature"
			return err
		}
		sym.Func = prev.Func
	} else {
		irParams := make([]*ir.Type, len(params))
		names := make([]string, len(params))
		for i, p := range params {
			irParams[i] = p.ToIR()
			names[i] = "@" + fn.Params[i].Name
		}
		sym.Func = pb.prog.NewFunc("@"+fn.Name, ir.FuncType(irParams, ret.ToIR()), names)
	}

	if fn.IsDecl() {
		if prev, ok := pb.syms.InsertGlobalDecl(sym); !ok {
			return diag.Redefinition(fn.NameSpan, fn.Name, &prev.Span)
		}
		return nil
	}
	// Bound before the body so that the function can call itself.
	if prev, ok := pb.syms.InsertGlobalDef(sym); !ok {
		return diag.Redefinition(fn.NameSpan, fn.Name, &prev.Span)
	}
	return pb.body(fn, &sym)
}

func (pb *programBuilder) body(fn *ast.FnItem, sym *symbols.Symbol) (err error) {
	span := trace.Begin(pb.opts.Tracer, trace.ScopeModule, "lower:"+fn.Name, pb.opts.ParentSpan)
	defer func() {
		detail := "ok"
		if err != nil {
			detail = "error"
		}
		span.End(detail)
	}()

	c := newContext(pb.prog, sym.Func, pb.ast, pb.syms, sym.Type, fn.NameSpan)
	entry, err := c.NewBlock()
	if err != nil {
		return err
	}
	c.SwitchTo(entry)

	defer pb.syms.Enter(symbols.ScopeFunction)()
	if err := c.spillParams(fn, sym.Params); err != nil {
		return err
	}
	// The body shares the parameter scope.
	blk := pb.ast.Stmts.Block(fn.Body)
	if blk == nil {
		return diag.Internal(fn.NameSpan, fmt.Errorf("function %s has no block body", fn.Name))
	}
	return c.lowerStmts(blk.Stmts)
}

// spillParams copies every parameter into its own slot so that the body
// can treat it as an ordinary variable.
func (c *Context) spillParams(fn *ast.FnItem, params []types.Type) error {
	args := c.fd.Params()
	for i, p := range fn.Params {
		c.dfg().SetValueName(args[i], "@"+p.Name)
		slot, err := c.emitValue(c.values().Alloc(params[i].ToIR()))
		if err != nil {
			return err
		}
		c.dfg().SetValueName(slot, "@"+p.Name)
		if err := c.Emit(c.values().Store(args[i], slot)); err != nil {
			return err
		}
		if prev, ok := c.syms.Insert(symbols.NewVar(p.Name, p.NameSpan, params[i], slot)); !ok {
			return diag.Redefinition(p.NameSpan, p.Name, &prev.Span)
		}
	}
	return nil
}

func (pb *programBuilder) globalDecl(d *ast.DeclData) error {
	if d.Type == ast.TypeVoid {
		return diag.IllegalVoidDeclaration(d.Defs[0].NameSpan, d.Defs[0].Name)
	}
	r := pb.syms.GlobalView()
	for _, def := range d.Defs {
		sym, err := pb.globalDef(def, d.IsConst, r)
		if err != nil {
			return err
		}
		if prev, ok := pb.syms.InsertGlobalDef(sym); !ok {
			return redefinition(def, prev)
		}
	}
	return nil
}

// globalDef folds one global definition. Global initializers are always
// constant, const or not.
func (pb *programBuilder) globalDef(def ast.VarDef, isConst bool, r consteval.Resolver) (symbols.Symbol, error) {
	if isConst {
		ty, val, err := evalConst(pb.ast, def, r)
		if err != nil {
			return symbols.Symbol{}, err
		}
		sym := symbols.NewConst(def.Name, def.NameSpan, ty, val)
		sym.Global = true
		if !ty.IsScalar() {
			sym.Var = materialize(pb.prog, def.Name, ty, val.Data)
		}
		return sym, nil
	}

	ty, err := types.ResolveDeclarator(pb.ast, ast.TypeInt, def.Declarator, r)
	if err != nil {
		return symbols.Symbol{}, err
	}
	data := make([]int32, consteval.Product(ty.Dims))
	if def.Init.IsValid() {
		if data, err = foldInit(pb.ast, def.Init, ty, r, "global initializer"); err != nil {
			return symbols.Symbol{}, err
		}
	}
	sym := symbols.NewVar(def.Name, def.NameSpan, ty, materialize(pb.prog, def.Name, ty, data))
	sym.Global = true
	return sym, nil
}

// declarePrelude declares the SysY runtime library.
func (pb *programBuilder) declarePrelude() {
	for _, fn := range prelude {
		irParams := make([]*ir.Type, len(fn.params))
		for i, p := range fn.params {
			irParams[i] = p.ToIR()
		}
		f := pb.prog.NewFunc("@"+fn.name, ir.FuncType(irParams, fn.ret.ToIR()), nil)
		pb.syms.InsertGlobalDecl(symbols.NewFunc(fn.name, source.Span{}, fn.ret, fn.params, f, false))
	}
}
