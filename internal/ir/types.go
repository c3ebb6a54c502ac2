package ir

import (
	"fmt"
	"strings"
	"sync"
)

type TypeKind uint8

const (
	TypeInt32 TypeKind = iota
	TypeUnit
	TypeArray
	TypePointer
	TypeFunction
)

// Type is interned: two types are equal iff their pointers are equal.
// Construct types only through the helpers below.
type Type struct {
	Kind   TypeKind
	Elem   *Type // array element or pointee
	Len    int   // array length
	Params []*Type
	Ret    *Type
	str    string
}

var (
	typesMu   sync.Mutex
	typeTable = map[string]*Type{}

	i32Type  = intern(&Type{Kind: TypeInt32})
	unitType = intern(&Type{Kind: TypeUnit})
)

func intern(t *Type) *Type {
	t.str = t.render()
	typesMu.Lock()
	defer typesMu.Unlock()
	if existing, ok := typeTable[t.str]; ok {
		return existing
	}
	typeTable[t.str] = t
	return t
}

func Int32() *Type { return i32Type }
func Unit() *Type  { return unitType }

func ArrayOf(elem *Type, n int) *Type {
	if n <= 0 {
		panic(fmt.Sprintf("ir: array length must be positive, got %d", n))
	}
	return intern(&Type{Kind: TypeArray, Elem: elem, Len: n})
}

func PointerTo(elem *Type) *Type {
	return intern(&Type{Kind: TypePointer, Elem: elem})
}

// FuncType builds "(params...): ret". A nil ret means unit.
func FuncType(params []*Type, ret *Type) *Type {
	if ret == nil {
		ret = unitType
	}
	return intern(&Type{Kind: TypeFunction, Params: append([]*Type(nil), params...), Ret: ret})
}

func (t *Type) IsInt32() bool { return t == i32Type }
func (t *Type) IsUnit() bool  { return t == unitType }

// Size is the size in bytes on a 32-bit target. Function and unit types
// have size 0.
func (t *Type) Size() int {
	switch t.Kind {
	case TypeInt32, TypePointer:
		return 4
	case TypeArray:
		return t.Len * t.Elem.Size()
	}
	return 0
}

func (t *Type) String() string { return t.str }

func (t *Type) render() string {
	switch t.Kind {
	case TypeInt32:
		return "i32"
	case TypeUnit:
		return "unit"
	case TypeArray:
		return fmt.Sprintf("[%s, %d]", t.Elem, t.Len)
	case TypePointer:
		return "*" + t.Elem.String()
	case TypeFunction:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		s := "(" + strings.Join(params, ", ") + ")"
		if t.Ret.Kind != TypeUnit {
			s += ": " + t.Ret.String()
		}
		return s
	}
	return "?"
}
