package ast

import (
	"sysyc/internal/source"
)

// BasicType is a type keyword as written in source.
type BasicType uint8

const (
	TypeInt BasicType = iota
	TypeVoid
)

func (t BasicType) String() string {
	if t == TypeVoid {
		return "void"
	}
	return "int"
}

// Declarator is a name plus optional array bounds: a, a[2], a[2][N+1].
type Declarator struct {
	Name     string
	NameSpan source.Span
	Dims     []ExprID
}

// VarDef is one declarator of a declaration with its optional initializer.
type VarDef struct {
	Declarator
	Init InitID
}

// DeclData is "[const] type def, def, ...;" at global or local scope.
type DeclData struct {
	IsConst bool
	Type    BasicType
	Span    source.Span
	Defs    []VarDef
}

// InitData is either a single expression or a brace list.
type InitData struct {
	Span   source.Span
	Expr   ExprID
	IsList bool
	List   []InitID
}

type Decls struct {
	Arena *Arena[DeclData]
	Inits *Arena[InitData]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Decls{
		Arena: NewArena[DeclData](capHint),
		Inits: NewArena[InitData](capHint),
	}
}

func (d *Decls) New(data DeclData) DeclID {
	return DeclID(d.Arena.Allocate(data))
}

func (d *Decls) Get(id DeclID) *DeclData {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) NewExprInit(span source.Span, expr ExprID) InitID {
	return InitID(d.Inits.Allocate(InitData{Span: span, Expr: expr}))
}

func (d *Decls) NewListInit(span source.Span, list []InitID) InitID {
	return InitID(d.Inits.Allocate(InitData{Span: span, IsList: true, List: list}))
}

func (d *Decls) Init(id InitID) *InitData {
	return d.Inits.Get(uint32(id))
}
