package irgen

import (
	"fmt"

	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/source"
)

// insertImplicitReturns closes every block that lowering left empty or
// unterminated: "ret 0" in i32 functions, "ret" otherwise.
func insertImplicitReturns(prog *ir.Program) error {
	for _, f := range prog.Funcs() {
		fd := prog.Func(f)
		if fd.IsDecl() {
			continue
		}
		for _, bb := range fd.Layout().Blocks() {
			insts := fd.Layout().Insts(bb)
			if last, ok := insts.Back(); ok && fd.DFG().Value(last).Kind.IsTerminator() {
				continue
			}
			vb := fd.DFG().NewValue()
			v := ir.NoValue
			if !fd.RetType().IsUnit() {
				v = vb.Integer(0)
			}
			if err := insts.PushBack(vb.Ret(v)); err != nil {
				return diag.Internal(source.Span{}, fmt.Errorf("function %s: %w", fd.Name(), err))
			}
		}
	}
	return nil
}
