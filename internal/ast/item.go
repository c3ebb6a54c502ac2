package ast

import (
	"sysyc/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemDecl
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FnParam is "int a", "int a[]" or "int a[][3]". IsArray marks the leading
// empty bracket pair; Dims holds the bounds that follow it.
type FnParam struct {
	Declarator
	Type    BasicType
	IsArray bool
	Span    source.Span
}

// FnItem is a function definition, or a declaration when Body is NoStmtID.
type FnItem struct {
	Name       string
	NameSpan   source.Span
	ReturnType BasicType
	Params     []FnParam
	Body       StmtID
}

// IsDecl reports whether the function has no body.
func (f *FnItem) IsDecl() bool { return !f.Body.IsValid() }

type DeclItem struct {
	Decl DeclID
}

type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
	Decls *Arena[DeclItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
		Decls: NewArena[DeclItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: payload}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(span source.Span, fn FnItem) ItemID {
	payload := i.Fns.Allocate(fn)
	return i.New(ItemFn, span, PayloadID(payload))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewDecl(span source.Span, decl DeclID) ItemID {
	payload := i.Decls.Allocate(DeclItem{Decl: decl})
	return i.New(ItemDecl, span, PayloadID(payload))
}

func (i *Items) Decl(id ItemID) (*DeclItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDecl {
		return nil, false
	}
	return i.Decls.Get(uint32(item.Payload)), true
}
