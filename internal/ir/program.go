package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Function is a handle to a FunctionData owned by a Program.
type Function uint32

const NoFunction Function = 0

func (f Function) IsValid() bool { return f != NoFunction }

// Program is one IR module.
type Program struct {
	funcs   []*FunctionData // index = Function-1, creation order
	globals map[Value]*ValueData
	// globalLayout lists global allocs in creation order.
	globalLayout []Value

	nextValue uint32
	nextBlock uint32
}

func NewProgram() *Program {
	return &Program{
		globals: make(map[Value]*ValueData),
	}
}

func (p *Program) allocValue() Value {
	p.nextValue++
	if p.nextValue == 0 {
		panic("ir: value id overflow")
	}
	return Value(p.nextValue)
}

func (p *Program) allocBlock() BasicBlock {
	p.nextBlock++
	if p.nextBlock == 0 {
		panic("ir: block id overflow")
	}
	return BasicBlock(p.nextBlock)
}

// NewFunc creates a function named name (with the leading '@') of type ty.
// paramNames may be nil; parameters are then anonymous.
func (p *Program) NewFunc(name string, ty *Type, paramNames []string) Function {
	if ty.Kind != TypeFunction {
		panic(fmt.Sprintf("ir: NewFunc %s: %s is not a function type", name, ty))
	}
	n, err := safecast.Conv[uint32](len(p.funcs) + 1)
	if err != nil {
		panic(fmt.Errorf("ir: function count overflow: %w", err))
	}
	fd := &FunctionData{
		name:   name,
		ty:     ty,
		layout: newLayout(),
	}
	fd.dfg = newDataFlowGraph(p)
	for i, pt := range ty.Params {
		v := fd.dfg.insert(&ValueData{Kind: ValueFuncArgRef, Ty: pt, FuncArgRef: FuncArgRefData{Index: i}})
		if i < len(paramNames) && paramNames[i] != "" {
			fd.dfg.values[v].Name = paramNames[i]
		}
		fd.params = append(fd.params, v)
	}
	p.funcs = append(p.funcs, fd)
	return Function(n)
}

// Func returns the data of f. It panics on an unknown handle.
func (p *Program) Func(f Function) *FunctionData {
	if !f.IsValid() || int(f) > len(p.funcs) {
		panic(fmt.Sprintf("ir: unknown function %d", f))
	}
	return p.funcs[f-1]
}

// Funcs returns all functions in creation order.
func (p *Program) Funcs() []Function {
	out := make([]Function, len(p.funcs))
	for i := range p.funcs {
		out[i] = Function(i + 1) // #nosec G115 -- bounded by NewFunc
	}
	return out
}

// LookupFunc finds a function by its IR name ("@main").
func (p *Program) LookupFunc(name string) (Function, bool) {
	for i, fd := range p.funcs {
		if fd.name == name {
			return Function(i + 1), true // #nosec G115 -- bounded by NewFunc
		}
	}
	return NoFunction, false
}

// Inst returns the data of a global value. It panics on an unknown handle.
func (p *Program) Inst(v Value) *ValueData {
	d, ok := p.globals[v]
	if !ok {
		panic(fmt.Sprintf("ir: unknown global value %d", v))
	}
	return d
}

// IsGlobal reports whether v is a global value of p.
func (p *Program) IsGlobal(v Value) bool {
	_, ok := p.globals[v]
	return ok
}

// Globals returns the global allocs in creation order.
func (p *Program) Globals() []Value {
	return p.globalLayout
}

func (p *Program) SetValueName(v Value, name string) {
	p.Inst(v).Name = name
}

// NewValue returns a builder for global values.
func (p *Program) NewValue() GlobalBuilder {
	return GlobalBuilder{p: p}
}

func (p *Program) insertGlobal(d *ValueData) Value {
	v := p.allocValue()
	p.globals[v] = d
	if d.Kind == ValueGlobalAlloc {
		p.globalLayout = append(p.globalLayout, v)
	}
	return v
}
