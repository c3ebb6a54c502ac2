package irgen

import (
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/source"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

// loopTargets is where continue and break jump to inside one while loop.
type loopTargets struct {
	cont, brk ir.BasicBlock
}

// Context is the state of lowering one function body. It holds the only
// mutable handle on the program while the function is being built.
type Context struct {
	prog *ir.Program
	fn   ir.Function
	fd   *ir.FunctionData
	ast  *ast.Builder
	syms *symbols.Table

	ret  types.Type
	span source.Span

	// bb is meaningful only while open is set.
	bb     ir.BasicBlock
	open   bool
	nextBB int

	loops []loopTargets
}

func newContext(prog *ir.Program, fn ir.Function, b *ast.Builder, syms *symbols.Table, ret types.Type, span source.Span) *Context {
	return &Context{
		prog: prog,
		fn:   fn,
		fd:   prog.Func(fn),
		ast:  b,
		syms: syms,
		ret:  ret,
		span: span,
	}
}

func (c *Context) dfg() *ir.DataFlowGraph { return c.fd.DFG() }

func (c *Context) values() ir.LocalBuilder { return c.fd.DFG().NewValue() }

// NewBlock creates the next %bbN and appends it to the function layout.
// It does not make the block current.
func (c *Context) NewBlock() (ir.BasicBlock, error) {
	name := fmt.Sprintf("%%bb%d", c.nextBB)
	c.nextBB++
	bb := c.dfg().NewBasicBlock(name)
	if err := c.fd.Layout().PushBlock(bb); err != nil {
		return ir.NoBlock, diag.Internal(c.span, fmt.Errorf("push block %s: %w", name, err))
	}
	return bb, nil
}

// Open reports whether a block currently accepts instructions.
func (c *Context) Open() bool { return c.open }

// Current returns the open block, if any.
func (c *Context) Current() (ir.BasicBlock, bool) {
	return c.bb, c.open
}

// Emit appends v to the current block. Without an open block the code is
// unreachable and v is dropped.
func (c *Context) Emit(v ir.Value) error {
	if !c.open {
		return nil
	}
	if err := c.fd.Layout().Insts(c.bb).PushBack(v); err != nil {
		return diag.Internal(c.span, fmt.Errorf("push instruction into %s: %w", c.dfg().BB(c.bb).Name, err))
	}
	return nil
}

// Seal emits the terminator term and continues in next. Sealing
// unreachable code leaves next unreachable as well: next becomes the
// current block but stays closed, so nothing lowered after a return is
// emitted into it. A later SwitchTo from a reachable branch reopens it.
func (c *Context) Seal(term ir.Value, next ir.BasicBlock) error {
	reachable := c.open
	if err := c.Emit(term); err != nil {
		return err
	}
	c.bb, c.open = next, reachable
	return nil
}

// SealUnreachable emits term and leaves no block open.
func (c *Context) SealUnreachable(term ir.Value) error {
	if err := c.Emit(term); err != nil {
		return err
	}
	c.bb, c.open = ir.NoBlock, false
	return nil
}

// SwitchTo makes bb current. Callers use it only for blocks that some
// emitted branch reaches.
func (c *Context) SwitchTo(bb ir.BasicBlock) {
	c.bb, c.open = bb, true
}

// emitValue emits v and returns it, for instructions that yield a value.
func (c *Context) emitValue(v ir.Value) (ir.Value, error) {
	if err := c.Emit(v); err != nil {
		return ir.NoValue, err
	}
	return v, nil
}

// jump ends the current block with "jump target" and closes it.
func (c *Context) jump(target ir.BasicBlock) error {
	return c.SealUnreachable(c.values().Jump(target))
}

// pushLoop registers loop targets and returns the matching pop.
func (c *Context) pushLoop(cont, brk ir.BasicBlock) func() {
	c.loops = append(c.loops, loopTargets{cont: cont, brk: brk})
	depth := len(c.loops)
	return func() {
		if len(c.loops) != depth {
			panic(fmt.Sprintf("irgen: unbalanced loop stack, depth %d want %d", len(c.loops), depth))
		}
		c.loops = c.loops[:depth-1]
	}
}

func (c *Context) innermostLoop() (loopTargets, bool) {
	if len(c.loops) == 0 {
		return loopTargets{}, false
	}
	return c.loops[len(c.loops)-1], true
}

// LoopDepth is the number of enclosing while loops.
func (c *Context) LoopDepth() int { return len(c.loops) }

// ResolveConst lets constant evaluation see the symbols visible here.
func (c *Context) ResolveConst(name string) (val consteval.Value, isConst, found bool) {
	return c.syms.ResolveConst(name)
}
