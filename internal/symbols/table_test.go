package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/consteval"
	"sysyc/internal/ir"
	"sysyc/internal/source"
	"sysyc/internal/symbols"
	"sysyc/internal/types"
)

func TestInsertAndShadow(t *testing.T) {
	tab := symbols.NewTable()
	_, ok := tab.Insert(symbols.NewConst("a", source.Span{}, types.Int, consteval.Scalar(1)))
	require.True(t, ok)

	pop := tab.Enter(symbols.ScopeBlock)
	_, ok = tab.Insert(symbols.NewVar("a", source.Span{Start: 4}, types.Int, ir.Value(7)))
	require.True(t, ok, "shadowing in a nested scope")

	prev, ok := tab.Insert(symbols.NewVar("a", source.Span{Start: 9}, types.Int, ir.Value(8)))
	require.False(t, ok, "redefinition in the same scope")
	assert.Equal(t, uint32(4), prev.Span.Start)

	sym, ok := tab.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, symbols.SymbolVar, sym.Kind)
	assert.Equal(t, ir.Value(7), sym.Var)
	pop()

	sym, ok = tab.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, symbols.SymbolConst, sym.Kind)

	_, ok = tab.Lookup("missing")
	assert.False(t, ok)
}

func TestScopeBalance(t *testing.T) {
	tab := symbols.NewTable()
	func() {
		defer tab.Enter(symbols.ScopeFunction)()
		for range 3 {
			func() {
				defer tab.Enter(symbols.ScopeBlock)()
				assert.Equal(t, 2, tab.Depth())
			}()
		}
	}()
	pushes, pops := tab.Balance()
	assert.Equal(t, 4, pushes)
	assert.Equal(t, pushes, pops)
	assert.Zero(t, tab.Depth())
	assert.Panics(t, tab.Pop)
}

func TestGlobalDefAndDecl(t *testing.T) {
	tab := symbols.NewTable()
	decl := symbols.NewFunc("f", source.Span{}, types.Int, nil, ir.Function(1), false)

	_, ok := tab.InsertGlobalDecl(decl)
	require.True(t, ok)
	_, ok = tab.InsertGlobalDecl(decl)
	require.True(t, ok, "redeclaration keeps the function")

	def := decl
	def.Defined = true
	_, ok = tab.InsertGlobalDef(def)
	require.True(t, ok, "definition after declaration")

	sym, ok := tab.LookupGlobal("f")
	require.True(t, ok)
	assert.True(t, sym.Defined)

	_, ok = tab.InsertGlobalDef(def)
	assert.False(t, ok, "second body")

	_, ok = tab.InsertGlobalDef(symbols.NewVar("x", source.Span{}, types.Int, ir.Value(1)))
	require.True(t, ok)
	_, ok = tab.InsertGlobalDecl(symbols.NewFunc("x", source.Span{}, types.Int, nil, ir.Function(2), false))
	assert.False(t, ok, "function declaration over a variable")
	_, ok = tab.InsertGlobalDef(symbols.NewFunc("x", source.Span{}, types.Int, nil, ir.Function(2), true))
	assert.False(t, ok, "function definition over a variable")

	names := make([]string, 0, 2)
	for _, s := range tab.GlobalSymbols() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"f", "x"}, names)
}

func TestSameSignature(t *testing.T) {
	a := symbols.NewFunc("f", source.Span{}, types.Int, []types.Type{types.Int, types.PointerTo(nil)}, 1, false)
	b := a
	assert.True(t, a.SameSignature(&b))

	b.Params = []types.Type{types.Int, types.Int}
	assert.False(t, a.SameSignature(&b))

	b = a
	b.Type = types.Void
	assert.False(t, a.SameSignature(&b))
}

func TestResolveConst(t *testing.T) {
	tab := symbols.NewTable()
	tab.Insert(symbols.NewConst("N", source.Span{}, types.Int, consteval.Scalar(4)))
	tab.Insert(symbols.NewVar("g", source.Span{}, types.Int, ir.Value(1)))

	defer tab.Enter(symbols.ScopeBlock)()
	tab.Insert(symbols.NewConst("g", source.Span{}, types.Int, consteval.Scalar(9)))

	val, isConst, found := tab.ResolveConst("g")
	assert.True(t, found)
	assert.True(t, isConst)
	assert.Equal(t, int32(9), val.Item())

	_, isConst, found = tab.GlobalView().ResolveConst("g")
	assert.True(t, found)
	assert.False(t, isConst)

	val, isConst, _ = tab.GlobalView().ResolveConst("N")
	assert.True(t, isConst)
	assert.Equal(t, int32(4), val.Item())

	_, _, found = tab.GlobalView().ResolveConst("nope")
	assert.False(t, found)
}
