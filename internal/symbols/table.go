package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"sysyc/internal/consteval"
)

// Table is a stack of local scopes on top of a persistent global scope.
// Lookup walks innermost first; the global scope is always last.
type Table struct {
	syms   []Symbol
	global *Scope
	locals []*Scope

	pushes, pops int
}

// NewTable builds an empty table whose global scope is already open.
func NewTable() *Table {
	return &Table{
		syms:   make([]Symbol, 1, 64), // index 0 reserved for NoSymbolID
		global: newScope(ScopeGlobal),
	}
}

func (t *Table) alloc(sym Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(t.syms))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	t.syms = append(t.syms, sym)
	return SymbolID(value)
}

// Get returns the symbol for id, or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return &t.syms[id]
}

// Push opens a local scope.
func (t *Table) Push(kind ScopeKind) {
	t.locals = append(t.locals, newScope(kind))
	t.pushes++
}

// Pop closes the innermost local scope. The global scope cannot be popped.
func (t *Table) Pop() {
	if len(t.locals) == 0 {
		panic("symbols: pop without matching push")
	}
	t.locals[len(t.locals)-1] = nil
	t.locals = t.locals[:len(t.locals)-1]
	t.pops++
}

// Enter pushes a scope and returns the matching pop:
//
//	defer t.Enter(symbols.ScopeBlock)()
func (t *Table) Enter(kind ScopeKind) func() {
	t.Push(kind)
	depth := len(t.locals)
	return func() {
		if len(t.locals) != depth {
			panic(fmt.Sprintf("symbols: unbalanced scope, depth %d want %d", len(t.locals), depth))
		}
		t.Pop()
	}
}

// Depth is the number of open local scopes.
func (t *Table) Depth() int { return len(t.locals) }

// Balance returns how many scopes were pushed and popped so far.
func (t *Table) Balance() (pushes, pops int) { return t.pushes, t.pops }

func (t *Table) innermost() *Scope {
	if len(t.locals) == 0 {
		return t.global
	}
	return t.locals[len(t.locals)-1]
}

// Insert binds sym in the innermost scope. It fails, returning the
// existing binding, when that scope already has the name.
func (t *Table) Insert(sym Symbol) (*Symbol, bool) {
	scope := t.innermost()
	if id, ok := scope.lookup(sym.Name); ok {
		return t.Get(id), false
	}
	scope.bind(sym.Name, t.alloc(sym))
	return nil, true
}

// Lookup resolves name innermost first.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.locals) - 1; i >= 0; i-- {
		if id, ok := t.locals[i].lookup(name); ok {
			return t.Get(id), true
		}
	}
	return t.LookupGlobal(name)
}

// LookupGlobal resolves name in the global scope only.
func (t *Table) LookupGlobal(name string) (*Symbol, bool) {
	if id, ok := t.global.lookup(name); ok {
		return t.Get(id), true
	}
	return nil, false
}

// InsertGlobalDef binds a definition at global scope. A prior function
// declaration of the same name is replaced; anything else is a conflict.
func (t *Table) InsertGlobalDef(sym Symbol) (*Symbol, bool) {
	if id, ok := t.global.lookup(sym.Name); ok {
		prev := t.Get(id)
		if prev.Kind != SymbolFunc || prev.Defined || sym.Kind != SymbolFunc {
			return prev, false
		}
	}
	t.global.bind(sym.Name, t.alloc(sym))
	return nil, true
}

// InsertGlobalDecl records a function declaration. Redeclaring a function
// keeps the existing binding and succeeds; redeclaring a variable or
// constant fails.
func (t *Table) InsertGlobalDecl(sym Symbol) (*Symbol, bool) {
	if id, ok := t.global.lookup(sym.Name); ok {
		prev := t.Get(id)
		return prev, prev.Kind == SymbolFunc && sym.Kind == SymbolFunc
	}
	t.global.bind(sym.Name, t.alloc(sym))
	return nil, true
}

// GlobalSymbols lists global bindings in declaration order.
func (t *Table) GlobalSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.global.Symbols))
	for _, id := range t.global.Symbols {
		if cur, ok := t.global.lookup(t.syms[id].Name); ok {
			out = append(out, t.Get(cur))
		}
	}
	return out
}

// ResolveConst lets the table act as a constant-evaluation scope.
func (t *Table) ResolveConst(name string) (consteval.Value, bool, bool) {
	sym, ok := t.Lookup(name)
	return constOf(sym, ok)
}

// GlobalView resolves constants against the global scope only.
func (t *Table) GlobalView() consteval.Resolver { return globalView{t} }

type globalView struct{ t *Table }

func (g globalView) ResolveConst(name string) (consteval.Value, bool, bool) {
	sym, ok := g.t.LookupGlobal(name)
	return constOf(sym, ok)
}

func constOf(sym *Symbol, ok bool) (consteval.Value, bool, bool) {
	if !ok {
		return consteval.Value{}, false, false
	}
	if sym.Kind != SymbolConst {
		return consteval.Value{}, false, true
	}
	return sym.Const, true, true
}
