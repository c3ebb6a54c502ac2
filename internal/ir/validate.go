package ir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants every lowered program must
// satisfy. All violations are reported, joined.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, fd := range p.funcs {
		if fd.IsDecl() {
			continue
		}
		if err := validateFunc(fd); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", fd.name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *FunctionData) error {
	var errs []error
	owner := make(map[Value]BasicBlock)

	for _, bb := range f.layout.blocks {
		name := f.dfg.BB(bb).Name
		insts := f.layout.insts[bb].items
		if len(insts) == 0 {
			errs = append(errs, fmt.Errorf("%s: empty block", name))
			continue
		}
		for i, v := range insts {
			if prev, dup := owner[v]; dup {
				errs = append(errs, fmt.Errorf("%s: value %d already placed in %s", name, v, f.dfg.BB(prev).Name))
			}
			owner[v] = bb

			d, ok := f.dfg.values[v]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: instruction %d is not defined in this function", name, v))
				continue
			}
			if d.Kind.IsConst() || d.Kind == ValueFuncArgRef || d.Kind == ValueGlobalAlloc {
				errs = append(errs, fmt.Errorf("%s: value %d is not an instruction", name, v))
			}
			last := i == len(insts)-1
			if d.Kind.IsTerminator() && !last {
				errs = append(errs, fmt.Errorf("%s: terminator before end of block", name))
			}
			if last && !d.Kind.IsTerminator() {
				errs = append(errs, fmt.Errorf("%s: unterminated block", name))
			}
			for _, op := range d.Operands() {
				if !f.dfg.Has(op) && !f.dfg.prog.IsGlobal(op) {
					errs = append(errs, fmt.Errorf("%s: operand %d is undefined", name, op))
				}
			}
			for _, target := range d.Targets() {
				if f.layout.insts[target] == nil {
					errs = append(errs, fmt.Errorf("%s: branch target %d is not in the layout", name, target))
				}
			}
			if d.Kind == ValueReturn {
				if err := validateReturn(f, d); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func validateReturn(f *FunctionData, d *ValueData) error {
	ret := f.ty.Ret
	if !d.Return.Value.IsValid() {
		if !ret.IsUnit() {
			return fmt.Errorf("bare ret in function returning %s", ret)
		}
		return nil
	}
	if ret.IsUnit() {
		return errors.New("ret with value in function returning unit")
	}
	if got := f.dfg.Value(d.Return.Value).Ty; got != ret {
		return fmt.Errorf("ret of %s in function returning %s", got, ret)
	}
	return nil
}
