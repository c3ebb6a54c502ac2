package ir

// FunctionData is a function definition or declaration. A function whose
// layout has no blocks is printed as a declaration.
type FunctionData struct {
	name   string
	ty     *Type
	params []Value
	dfg    *DataFlowGraph
	layout *Layout
}

func (f *FunctionData) Name() string        { return f.name }
func (f *FunctionData) Type() *Type         { return f.ty }
func (f *FunctionData) RetType() *Type      { return f.ty.Ret }
func (f *FunctionData) Params() []Value     { return f.params }
func (f *FunctionData) DFG() *DataFlowGraph { return f.dfg }
func (f *FunctionData) Layout() *Layout     { return f.layout }
func (f *FunctionData) IsDecl() bool        { return len(f.layout.blocks) == 0 }
