package consteval

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
)

// Flatten lays out a brace initializer for an array of shape dims and
// returns product(dims) elements in row-major order. Positions without an
// initializer hold zero.
//
// A nested list starts at the current position and fills the largest
// sub-array the position is aligned to, as in C.
func Flatten[T any](b *ast.Builder, init ast.InitID, dims []int, zero T, elem func(ast.ExprID) (T, error)) ([]T, error) {
	in := b.Decls.Init(init)
	if !in.IsList {
		return nil, diag.TypeMismatch(in.Span, "array initializer must be a brace list")
	}
	out := make([]T, Product(dims))
	for i := range out {
		out[i] = zero
	}
	f := flattener[T]{b: b, out: out, elem: elem}
	if err := f.fill(in, dims, 0); err != nil {
		return nil, err
	}
	return out, nil
}

type flattener[T any] struct {
	b    *ast.Builder
	out  []T
	elem func(ast.ExprID) (T, error)
}

// fill writes list into the sub-array of shape dims that starts at base.
func (f *flattener[T]) fill(list *ast.InitData, dims []int, base int) error {
	size := Product(dims)
	pos := 0
	for _, id := range list.List {
		item := f.b.Decls.Init(id)
		if pos >= size {
			return diag.TypeMismatch(item.Span, "excess elements in array initializer")
		}
		if !item.IsList {
			v, err := f.elem(item.Expr)
			if err != nil {
				return err
			}
			f.out[base+pos] = v
			pos++
			continue
		}

		sub := -1
		for k := 1; k < len(dims); k++ {
			if pos%Product(dims[k:]) == 0 {
				sub = k
				break
			}
		}
		if sub < 0 {
			return diag.TypeMismatch(item.Span, "braces around scalar initializer")
		}
		if err := f.fill(item, dims[sub:], base+pos); err != nil {
			return err
		}
		pos += Product(dims[sub:])
	}
	return nil
}
