package ir

import (
	"fmt"
)

// LocalBuilder creates values in a function's DataFlowGraph. It does not
// place them in the layout.
type LocalBuilder struct {
	g *DataFlowGraph
}

func (b LocalBuilder) typeOf(v Value) *Type {
	return b.g.Value(v).Ty
}

func (b LocalBuilder) Integer(n int32) Value {
	return b.g.insert(&ValueData{Kind: ValueInteger, Ty: Int32(), Integer: IntegerData{Value: n}})
}

func (b LocalBuilder) ZeroInit(ty *Type) Value {
	return b.g.insert(&ValueData{Kind: ValueZeroInit, Ty: ty})
}

func (b LocalBuilder) Undef(ty *Type) Value {
	return b.g.insert(&ValueData{Kind: ValueUndef, Ty: ty})
}

// Aggregate builds {elems...}; all elements must share one type.
func (b LocalBuilder) Aggregate(elems []Value) Value {
	return b.g.insert(&ValueData{Kind: ValueAggregate, Ty: aggregateType(elems, b.typeOf), Aggregate: AggregateData{Elems: elems}})
}

func (b LocalBuilder) Alloc(ty *Type) Value {
	return b.g.insert(&ValueData{Kind: ValueAlloc, Ty: PointerTo(ty)})
}

func (b LocalBuilder) Load(src Value) Value {
	st := b.typeOf(src)
	if st.Kind != TypePointer {
		panic(fmt.Sprintf("ir: load from non-pointer %s", st))
	}
	return b.g.insert(&ValueData{Kind: ValueLoad, Ty: st.Elem, Load: LoadData{Src: src}})
}

func (b LocalBuilder) Store(value, dest Value) Value {
	dt := b.typeOf(dest)
	if dt.Kind != TypePointer {
		panic(fmt.Sprintf("ir: store to non-pointer %s", dt))
	}
	return b.g.insert(&ValueData{Kind: ValueStore, Ty: Unit(), Store: StoreData{Value: value, Dest: dest}})
}

// GetPtr offsets a pointer by index elements of its pointee.
func (b LocalBuilder) GetPtr(src, index Value) Value {
	st := b.typeOf(src)
	if st.Kind != TypePointer {
		panic(fmt.Sprintf("ir: getptr on non-pointer %s", st))
	}
	return b.g.insert(&ValueData{Kind: ValueGetPtr, Ty: st, GetPtr: GetPtrData{Src: src, Index: index}})
}

// GetElemPtr turns *[T, N] into *T at index.
func (b LocalBuilder) GetElemPtr(src, index Value) Value {
	st := b.typeOf(src)
	if st.Kind != TypePointer || st.Elem.Kind != TypeArray {
		panic(fmt.Sprintf("ir: getelemptr on %s", st))
	}
	return b.g.insert(&ValueData{Kind: ValueGetElemPtr, Ty: PointerTo(st.Elem.Elem), GetPtr: GetPtrData{Src: src, Index: index}})
}

func (b LocalBuilder) Binary(op BinaryOp, lhs, rhs Value) Value {
	return b.g.insert(&ValueData{Kind: ValueBinary, Ty: Int32(), Binary: BinaryData{Op: op, LHS: lhs, RHS: rhs}})
}

func (b LocalBuilder) Branch(cond Value, t, f BasicBlock) Value {
	return b.g.insert(&ValueData{Kind: ValueBranch, Ty: Unit(), Branch: BranchData{Cond: cond, True: t, False: f}})
}

func (b LocalBuilder) Jump(target BasicBlock) Value {
	return b.g.insert(&ValueData{Kind: ValueJump, Ty: Unit(), Jump: JumpData{Target: target}})
}

func (b LocalBuilder) Call(callee Function, args []Value) Value {
	ft := b.g.FuncType(callee)
	return b.g.insert(&ValueData{Kind: ValueCall, Ty: ft.Ret, Call: CallData{Callee: callee, Args: args}})
}

// Ret builds "ret v", or a bare "ret" when v is NoValue.
func (b LocalBuilder) Ret(v Value) Value {
	return b.g.insert(&ValueData{Kind: ValueReturn, Ty: Unit(), Return: ReturnData{Value: v}})
}

// GlobalBuilder creates module-level values.
type GlobalBuilder struct {
	p *Program
}

func (b GlobalBuilder) Integer(n int32) Value {
	return b.p.insertGlobal(&ValueData{Kind: ValueInteger, Ty: Int32(), Integer: IntegerData{Value: n}})
}

func (b GlobalBuilder) ZeroInit(ty *Type) Value {
	return b.p.insertGlobal(&ValueData{Kind: ValueZeroInit, Ty: ty})
}

func (b GlobalBuilder) Undef(ty *Type) Value {
	return b.p.insertGlobal(&ValueData{Kind: ValueUndef, Ty: ty})
}

func (b GlobalBuilder) Aggregate(elems []Value) Value {
	return b.p.insertGlobal(&ValueData{Kind: ValueAggregate, Ty: aggregateType(elems, func(v Value) *Type { return b.p.Inst(v).Ty }), Aggregate: AggregateData{Elems: elems}})
}

// GlobalAlloc creates "global @x = alloc T, init" where T is init's type.
func (b GlobalBuilder) GlobalAlloc(init Value) Value {
	it := b.p.Inst(init).Ty
	return b.p.insertGlobal(&ValueData{Kind: ValueGlobalAlloc, Ty: PointerTo(it), GlobalAlloc: GlobalAllocData{Init: init}})
}

func aggregateType(elems []Value, typeOf func(Value) *Type) *Type {
	if len(elems) == 0 {
		panic("ir: empty aggregate")
	}
	et := typeOf(elems[0])
	for _, e := range elems[1:] {
		if typeOf(e) != et {
			panic(fmt.Sprintf("ir: aggregate mixes %s and %s", et, typeOf(e)))
		}
	}
	return ArrayOf(et, len(elems))
}
