package ir

import (
	"fmt"
)

// BasicBlock is a handle to a block defined in a DataFlowGraph.
type BasicBlock uint32

const NoBlock BasicBlock = 0

func (b BasicBlock) IsValid() bool { return b != NoBlock }

type BasicBlockData struct {
	Name string // "%bb0"
}

// DataFlowGraph holds the definitions of one function's values and blocks.
// Lookups of global values fall through to the owning Program.
type DataFlowGraph struct {
	prog   *Program
	values map[Value]*ValueData
	blocks map[BasicBlock]*BasicBlockData
}

func newDataFlowGraph(p *Program) *DataFlowGraph {
	return &DataFlowGraph{
		prog:   p,
		values: make(map[Value]*ValueData),
		blocks: make(map[BasicBlock]*BasicBlockData),
	}
}

func (g *DataFlowGraph) insert(d *ValueData) Value {
	v := g.prog.allocValue()
	g.values[v] = d
	return v
}

// Value returns the definition of v, local or global. It panics on an
// unknown handle: that is always a compiler bug.
func (g *DataFlowGraph) Value(v Value) *ValueData {
	if d, ok := g.values[v]; ok {
		return d
	}
	if d, ok := g.prog.globals[v]; ok {
		return d
	}
	panic(fmt.Sprintf("ir: unknown value %d", v))
}

// Has reports whether v is defined locally in g.
func (g *DataFlowGraph) Has(v Value) bool {
	_, ok := g.values[v]
	return ok
}

func (g *DataFlowGraph) SetValueName(v Value, name string) {
	g.Value(v).Name = name
}

// NewBasicBlock defines a block. It is not part of the layout until pushed.
func (g *DataFlowGraph) NewBasicBlock(name string) BasicBlock {
	bb := g.prog.allocBlock()
	g.blocks[bb] = &BasicBlockData{Name: name}
	return bb
}

func (g *DataFlowGraph) BB(bb BasicBlock) *BasicBlockData {
	d, ok := g.blocks[bb]
	if !ok {
		panic(fmt.Sprintf("ir: unknown basic block %d", bb))
	}
	return d
}

// HasBB reports whether bb is defined in g.
func (g *DataFlowGraph) HasBB(bb BasicBlock) bool {
	_, ok := g.blocks[bb]
	return ok
}

// FuncType returns the type of a function of the owning program.
func (g *DataFlowGraph) FuncType(f Function) *Type {
	return g.prog.Func(f).ty
}

// FuncName returns the IR name of a function of the owning program.
func (g *DataFlowGraph) FuncName(f Function) string {
	return g.prog.Func(f).name
}

// NewValue returns a builder for values local to this graph.
func (g *DataFlowGraph) NewValue() LocalBuilder {
	return LocalBuilder{g: g}
}
