package types

import (
	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
)

// ResolveDeclarator turns "base name[d0][d1]..." into a Type. Every bound
// must fold to a positive constant.
func ResolveDeclarator(b *ast.Builder, base ast.BasicType, d ast.Declarator, r consteval.Resolver) (Type, error) {
	if base == ast.TypeVoid {
		if len(d.Dims) > 0 {
			return Type{}, diag.IllegalVoidDeclaration(d.NameSpan, d.Name)
		}
		return Void, nil
	}
	dims, err := resolveDims(b, d.Dims, r)
	if err != nil {
		return Type{}, err
	}
	return ArrayOf(dims), nil
}

// ResolveParam resolves a function parameter. "int a[]" and "int a[][N]"
// become pointers.
func ResolveParam(b *ast.Builder, p ast.FnParam, r consteval.Resolver) (Type, error) {
	if p.Type == ast.TypeVoid {
		return Type{}, diag.IllegalVoidDeclaration(p.NameSpan, p.Name)
	}
	dims, err := resolveDims(b, p.Dims, r)
	if err != nil {
		return Type{}, err
	}
	if p.IsArray {
		return PointerTo(dims), nil
	}
	return Int, nil
}

func resolveDims(b *ast.Builder, exprs []ast.ExprID, r consteval.Resolver) ([]int, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	dims := make([]int, len(exprs))
	for i, e := range exprs {
		span := b.Exprs.Get(e).Span
		v, err := consteval.Eval(b, e, r)
		switch {
		case consteval.IsNotConstexpr(err):
			return nil, diag.ConstexprRequired(span, "array bound")
		case err != nil:
			return nil, err
		case v <= 0:
			return nil, diag.Newf(diag.SemaTypeMismatch, span, "array bound must be positive, got %d", v)
		}
		dims[i] = int(v)
	}
	return dims, nil
}
