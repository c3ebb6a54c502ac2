package ir_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/ir"
)

func TestTypeInterning(t *testing.T) {
	a := ir.ArrayOf(ir.ArrayOf(ir.Int32(), 3), 2)
	b := ir.ArrayOf(ir.ArrayOf(ir.Int32(), 3), 2)
	assert.Same(t, a, b)
	assert.Equal(t, "[[i32, 3], 2]", a.String())
	assert.Equal(t, 24, a.Size())

	assert.Same(t, ir.PointerTo(ir.Int32()), ir.PointerTo(ir.Int32()))
	assert.NotSame(t, ir.PointerTo(ir.Int32()), ir.PointerTo(a))

	ft := ir.FuncType([]*ir.Type{ir.Int32(), ir.PointerTo(ir.Int32())}, nil)
	assert.Equal(t, "(i32, *i32)", ft.String())
	assert.Equal(t, "(): i32", ir.FuncType(nil, ir.Int32()).String())
	assert.Equal(t, "(i32)", ir.FuncType([]*ir.Type{ir.Int32()}, ir.Unit()).String())
	assert.Same(t, ir.FuncType(nil, nil), ir.FuncType(nil, ir.Unit()))
	assert.True(t, ir.Unit().IsUnit())
}

// TestLayoutDuplicateKey tests that both layout levels reject re-insertion.
func TestLayoutDuplicateKey(t *testing.T) {
	p := ir.NewProgram()
	f := p.Func(p.NewFunc("@main", ir.FuncType(nil, ir.Int32()), nil))
	bb := f.DFG().NewBasicBlock("%bb0")
	require.NoError(t, f.Layout().PushBlock(bb))
	assert.True(t, errors.Is(f.Layout().PushBlock(bb), ir.ErrDuplicateKey))

	ret := f.DFG().NewValue().Ret(f.DFG().NewValue().Integer(0))
	insts := f.Layout().Insts(bb)
	require.NoError(t, insts.PushBack(ret))
	assert.ErrorIs(t, insts.PushBack(ret), ir.ErrDuplicateKey)

	back, ok := insts.Back()
	require.True(t, ok)
	assert.Equal(t, ret, back)
}

func buildSample(t *testing.T) *ir.Program {
	t.Helper()
	p := ir.NewProgram()

	zero := p.NewValue().ZeroInit(ir.Int32())
	g := p.NewValue().GlobalAlloc(zero)
	p.SetValueName(g, "@x")
	elems := []ir.Value{p.NewValue().Integer(1), p.NewValue().Integer(2)}
	arr := p.NewValue().GlobalAlloc(p.NewValue().Aggregate(elems))
	p.SetValueName(arr, "@arr")

	putint := p.NewFunc("@putint", ir.FuncType([]*ir.Type{ir.Int32()}, nil), nil)

	fh := p.NewFunc("@main", ir.FuncType([]*ir.Type{ir.Int32()}, ir.Int32()), []string{"@n"})
	f := p.Func(fh)
	dfg := f.DFG()
	entry := dfg.NewBasicBlock("%bb0")
	exit := dfg.NewBasicBlock("%bb1")
	require.NoError(t, f.Layout().PushBlock(entry))
	require.NoError(t, f.Layout().PushBlock(exit))

	b := dfg.NewValue()
	slot := b.Alloc(ir.Int32())
	dfg.SetValueName(slot, "@x")
	store := b.Store(f.Params()[0], slot)
	ld := b.Load(slot)
	gl := b.Load(g)
	sum := b.Binary(ir.OpAdd, ld, gl)
	ptr := b.GetElemPtr(arr, b.Integer(1))
	call := b.Call(putint, []ir.Value{sum})
	cond := b.Binary(ir.OpNotEq, sum, b.Integer(0))
	br := b.Branch(cond, exit, exit)
	for _, v := range []ir.Value{slot, store, ld, gl, sum, ptr, call, cond, br} {
		require.NoError(t, f.Layout().Insts(entry).PushBack(v))
	}
	elem := b.Load(ptr)
	require.NoError(t, f.Layout().Insts(exit).PushBack(elem))
	require.NoError(t, f.Layout().Insts(exit).PushBack(b.Ret(elem)))
	return p
}

func TestPrint(t *testing.T) {
	p := buildSample(t)
	want := `global @x = alloc i32, zeroinit
global @arr = alloc [i32, 2], {1, 2}

decl @putint(i32)

fun @main(@n: i32): i32 {
%bb0:
  @x_1 = alloc i32
  store @n, @x_1
  %0 = load @x_1
  %1 = load @x
  %2 = add %0, %1
  %3 = getelemptr @arr, 1
  call @putint(%2)
  %4 = ne %2, 0
  br %4, %bb1, %bb1
%bb1:
  %5 = load %3
  ret %5
}
`
	assert.Equal(t, want, ir.Text(p))
	assert.NoError(t, ir.Validate(p))
}

func TestValidate(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		p := ir.NewProgram()
		f := p.Func(p.NewFunc("@main", ir.FuncType(nil, ir.Int32()), nil))
		bb := f.DFG().NewBasicBlock("%bb0")
		require.NoError(t, f.Layout().PushBlock(bb))
		b := f.DFG().NewValue()
		require.NoError(t, f.Layout().Insts(bb).PushBack(b.Ret(b.Integer(0))))
		assert.NoError(t, ir.Validate(p))
	})

	t.Run("unterminated and empty", func(t *testing.T) {
		p := ir.NewProgram()
		f := p.Func(p.NewFunc("@main", ir.FuncType(nil, ir.Int32()), nil))
		bb0 := f.DFG().NewBasicBlock("%bb0")
		bb1 := f.DFG().NewBasicBlock("%bb1")
		require.NoError(t, f.Layout().PushBlock(bb0))
		require.NoError(t, f.Layout().PushBlock(bb1))
		require.NoError(t, f.Layout().Insts(bb0).PushBack(f.DFG().NewValue().Alloc(ir.Int32())))

		err := ir.Validate(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "%bb0: unterminated block")
		assert.Contains(t, err.Error(), "%bb1: empty block")
	})

	t.Run("dangling target", func(t *testing.T) {
		p := ir.NewProgram()
		f := p.Func(p.NewFunc("@main", ir.FuncType(nil, nil), nil))
		bb0 := f.DFG().NewBasicBlock("%bb0")
		orphan := f.DFG().NewBasicBlock("%bb1")
		require.NoError(t, f.Layout().PushBlock(bb0))
		require.NoError(t, f.Layout().Insts(bb0).PushBack(f.DFG().NewValue().Jump(orphan)))

		err := ir.Validate(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "branch target")
	})

	t.Run("bare ret in i32 function", func(t *testing.T) {
		p := ir.NewProgram()
		f := p.Func(p.NewFunc("@main", ir.FuncType(nil, ir.Int32()), nil))
		bb := f.DFG().NewBasicBlock("%bb0")
		require.NoError(t, f.Layout().PushBlock(bb))
		require.NoError(t, f.Layout().Insts(bb).PushBack(f.DFG().NewValue().Ret(ir.NoValue)))
		assert.ErrorContains(t, ir.Validate(p), "bare ret")
	})
}
