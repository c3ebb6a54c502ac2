package symbols

import (
	"sysyc/internal/consteval"
	"sysyc/internal/ir"
	"sysyc/internal/source"
	"sysyc/internal/types"
)

// SymbolID identifies a symbol inside a Table. Zero is reserved.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind enumerates what a name can be bound to.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolConst              // compile-time value, never loaded
	SymbolVar                // storage slot, always loaded/stored
	SymbolFunc
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolConst:
		return "const"
	case SymbolVar:
		return "var"
	case SymbolFunc:
		return "func"
	default:
		return "invalid"
	}
}

// Symbol is the compile-time meaning of an identifier.
type Symbol struct {
	Kind SymbolKind
	Name string
	Span source.Span

	// Type is the declared type of a const or var. For functions it is
	// the return type.
	Type types.Type

	Const consteval.Value
	// Var is the alloc (or global alloc) holding the variable.
	Var ir.Value
	// Global is set for vars and consts declared at file scope.
	Global bool

	Func   ir.Function
	Params []types.Type
	// Defined is false for a function seen only as a declaration.
	Defined bool
}

func NewConst(name string, span source.Span, ty types.Type, val consteval.Value) Symbol {
	return Symbol{Kind: SymbolConst, Name: name, Span: span, Type: ty, Const: val}
}

func NewVar(name string, span source.Span, ty types.Type, slot ir.Value) Symbol {
	return Symbol{Kind: SymbolVar, Name: name, Span: span, Type: ty, Var: slot}
}

func NewFunc(name string, span source.Span, ret types.Type, params []types.Type, fn ir.Function, defined bool) Symbol {
	return Symbol{
		Kind:    SymbolFunc,
		Name:    name,
		Span:    span,
		Type:    ret,
		Params:  params,
		Func:    fn,
		Defined: defined,
	}
}

// SameSignature reports whether two function symbols agree on return
// and parameter types.
func (s *Symbol) SameSignature(o *Symbol) bool {
	if s.Kind != SymbolFunc || o.Kind != SymbolFunc {
		return false
	}
	if !s.Type.Equal(o.Type) || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}
