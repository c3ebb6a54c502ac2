package types

import (
	"fmt"
	"strings"

	"sysyc/internal/ir"
)

type Kind uint8

const (
	KindInt Kind = iota
	KindVoid
	KindArray
	// KindPointer is an array parameter: a pointer to Dims-shaped elements.
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindVoid:
		return "void"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is the source-level type of a declared name.
type Type struct {
	Kind Kind
	// Dims are the array bounds; for KindPointer, the bounds after the
	// leading "[]".
	Dims []int
}

var (
	Int  = Type{Kind: KindInt}
	Void = Type{Kind: KindVoid}
)

func ArrayOf(dims []int) Type {
	if len(dims) == 0 {
		return Int
	}
	return Type{Kind: KindArray, Dims: dims}
}

func PointerTo(dims []int) Type {
	return Type{Kind: KindPointer, Dims: dims}
}

func (t Type) IsScalar() bool { return t.Kind == KindInt }

// Rank is the number of subscripts that turn t into a scalar.
func (t Type) Rank() int {
	switch t.Kind {
	case KindArray:
		return len(t.Dims)
	case KindPointer:
		return len(t.Dims) + 1
	}
	return 0
}

// Index returns the type after one subscript.
func (t Type) Index() (Type, bool) {
	switch t.Kind {
	case KindArray:
		return ArrayOf(t.Dims[1:]), true
	case KindPointer:
		return ArrayOf(t.Dims), true
	}
	return Type{}, false
}

// ToIR maps t to the IR type of a value of t. Arrays map to nested
// [T, N] types; parameters to a pointer to their element type.
func (t Type) ToIR() *ir.Type {
	switch t.Kind {
	case KindVoid:
		return ir.Unit()
	case KindArray:
		return arrayIR(t.Dims)
	case KindPointer:
		return ir.PointerTo(arrayIR(t.Dims))
	}
	return ir.Int32()
}

// Decay is the IR type t has when passed as an argument: arrays become a
// pointer to their first element.
func (t Type) Decay() *ir.Type {
	if t.Kind == KindArray {
		return ir.PointerTo(arrayIR(t.Dims[1:]))
	}
	return t.ToIR()
}

func arrayIR(dims []int) *ir.Type {
	ty := ir.Int32()
	for i := len(dims) - 1; i >= 0; i-- {
		ty = ir.ArrayOf(ty, dims[i])
	}
	return ty
}

func (t Type) String() string {
	var sb strings.Builder
	if t.Kind == KindVoid {
		return "void"
	}
	sb.WriteString("int")
	if t.Kind == KindPointer {
		sb.WriteString("[]")
	}
	for _, d := range t.Dims {
		fmt.Fprintf(&sb, "[%d]", d)
	}
	return sb.String()
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || len(t.Dims) != len(o.Dims) {
		return false
	}
	for i := range t.Dims {
		if t.Dims[i] != o.Dims[i] {
			return false
		}
	}
	return true
}
