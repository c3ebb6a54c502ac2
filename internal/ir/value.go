package ir

// Value is a handle to a value defined in a DataFlowGraph or, for global
// values, in the Program. Ids are unique across a Program.
type Value uint32

const NoValue Value = 0

func (v Value) IsValid() bool { return v != NoValue }

type ValueKind uint8

const (
	ValueInteger ValueKind = iota
	ValueZeroInit
	ValueUndef
	ValueAggregate
	ValueFuncArgRef
	ValueAlloc
	ValueGlobalAlloc
	ValueLoad
	ValueStore
	ValueGetPtr
	ValueGetElemPtr
	ValueBinary
	ValueBranch
	ValueJump
	ValueCall
	ValueReturn
)

// IsTerminator reports whether the kind ends a basic block.
func (k ValueKind) IsTerminator() bool {
	return k == ValueBranch || k == ValueJump || k == ValueReturn
}

// IsConst reports whether values of this kind live outside any layout.
func (k ValueKind) IsConst() bool {
	switch k {
	case ValueInteger, ValueZeroInit, ValueUndef, ValueAggregate:
		return true
	}
	return false
}

type BinaryOp uint8

const (
	OpNotEq BinaryOp = iota
	OpEq
	OpGt
	OpLt
	OpGe
	OpLe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSar
)

var binaryOpNames = [...]string{
	OpNotEq: "ne",
	OpEq:    "eq",
	OpGt:    "gt",
	OpLt:    "lt",
	OpGe:    "ge",
	OpLe:    "le",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpAnd:   "and",
	OpOr:    "or",
	OpXor:   "xor",
	OpShl:   "shl",
	OpShr:   "shr",
	OpSar:   "sar",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

type IntegerData struct {
	Value int32
}

type AggregateData struct {
	Elems []Value
}

type FuncArgRefData struct {
	Index int
}

type GlobalAllocData struct {
	Init Value
}

type LoadData struct {
	Src Value
}

type StoreData struct {
	Value Value
	Dest  Value
}

// GetPtrData is shared by getptr and getelemptr.
type GetPtrData struct {
	Src   Value
	Index Value
}

type BinaryData struct {
	Op  BinaryOp
	LHS Value
	RHS Value
}

type BranchData struct {
	Cond  Value
	True  BasicBlock
	False BasicBlock
}

type JumpData struct {
	Target BasicBlock
}

type CallData struct {
	Callee Function
	Args   []Value
}

// ReturnData.Value is NoValue for a bare "ret".
type ReturnData struct {
	Value Value
}

// ValueData is the definition of a value. Only the payload matching Kind
// is meaningful.
type ValueData struct {
	Kind ValueKind
	Ty   *Type
	// Name is "@x" or "%x"; empty for anonymous values.
	Name string

	Integer     IntegerData
	Aggregate   AggregateData
	FuncArgRef  FuncArgRefData
	GlobalAlloc GlobalAllocData
	Load        LoadData
	Store       StoreData
	GetPtr      GetPtrData // ValueGetPtr and ValueGetElemPtr
	Binary      BinaryData
	Branch      BranchData
	Jump        JumpData
	Call        CallData
	Return      ReturnData
}

// Operands lists the values this value reads, in order.
func (d *ValueData) Operands() []Value {
	switch d.Kind {
	case ValueAggregate:
		return d.Aggregate.Elems
	case ValueGlobalAlloc:
		return []Value{d.GlobalAlloc.Init}
	case ValueLoad:
		return []Value{d.Load.Src}
	case ValueStore:
		return []Value{d.Store.Value, d.Store.Dest}
	case ValueGetPtr, ValueGetElemPtr:
		return []Value{d.GetPtr.Src, d.GetPtr.Index}
	case ValueBinary:
		return []Value{d.Binary.LHS, d.Binary.RHS}
	case ValueBranch:
		return []Value{d.Branch.Cond}
	case ValueCall:
		return d.Call.Args
	case ValueReturn:
		if d.Return.Value.IsValid() {
			return []Value{d.Return.Value}
		}
	}
	return nil
}

// Targets lists the blocks a terminator may transfer control to.
func (d *ValueData) Targets() []BasicBlock {
	switch d.Kind {
	case ValueBranch:
		return []BasicBlock{d.Branch.True, d.Branch.False}
	case ValueJump:
		return []BasicBlock{d.Jump.Target}
	}
	return nil
}
