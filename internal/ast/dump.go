package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented tree of file to w. The format is meant for humans
// and for golden tests of the parser.
func Dump(w io.Writer, b *Builder, file FileID) error {
	d := dumper{b: b, w: w}
	f := b.Files.Get(file)
	if f == nil {
		return fmt.Errorf("ast: unknown file %d", file)
	}
	d.line(0, "CompUnit")
	for _, id := range f.Items {
		d.item(1, id)
	}
	return d.err
}

type dumper struct {
	b   *Builder
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) item(depth int, id ItemID) {
	if fn, ok := d.b.Items.Fn(id); ok {
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			s := p.Type.String() + " " + p.Name
			if p.IsArray {
				s += "[]"
			}
			for _, dim := range p.Dims {
				s += "[" + d.expr(dim) + "]"
			}
			params = append(params, s)
		}
		if fn.IsDecl() {
			d.line(depth, "FuncDecl %s %s(%s)", fn.ReturnType, fn.Name, strings.Join(params, ", "))
			return
		}
		d.line(depth, "FuncDef %s %s(%s)", fn.ReturnType, fn.Name, strings.Join(params, ", "))
		d.stmt(depth+1, fn.Body)
		return
	}
	if di, ok := d.b.Items.Decl(id); ok {
		d.decl(depth, di.Decl)
	}
}

func (d *dumper) decl(depth int, id DeclID) {
	decl := d.b.Decls.Get(id)
	kw := "Decl"
	if decl.IsConst {
		kw = "ConstDecl"
	}
	d.line(depth, "%s %s", kw, decl.Type)
	for _, def := range decl.Defs {
		name := def.Name
		for _, dim := range def.Dims {
			name += "[" + d.expr(dim) + "]"
		}
		if def.Init.IsValid() {
			d.line(depth+1, "%s = %s", name, d.init(def.Init))
		} else {
			d.line(depth+1, "%s", name)
		}
	}
}

func (d *dumper) init(id InitID) string {
	in := d.b.Decls.Init(id)
	if !in.IsList {
		return d.expr(in.Expr)
	}
	parts := make([]string, 0, len(in.List))
	for _, sub := range in.List {
		parts = append(parts, d.init(sub))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *dumper) stmt(depth int, id StmtID) {
	st := d.b.Stmts.Get(id)
	switch st.Kind {
	case StmtBlock:
		d.line(depth, "Block")
		for _, s := range d.b.Stmts.Block(id).Stmts {
			d.stmt(depth+1, s)
		}
	case StmtDecl:
		d.decl(depth, d.b.Stmts.Decl(id).Decl)
	case StmtAssign:
		a := d.b.Stmts.Assign(id)
		d.line(depth, "Assign %s = %s", d.expr(a.Target), d.expr(a.Value))
	case StmtExpr:
		e := d.b.Stmts.Expr(id)
		if !e.Expr.IsValid() {
			d.line(depth, "Empty")
			return
		}
		d.line(depth, "Expr %s", d.expr(e.Expr))
	case StmtIf:
		s := d.b.Stmts.If(id)
		d.line(depth, "If %s", d.expr(s.Cond))
		d.stmt(depth+1, s.Then)
		if s.Else.IsValid() {
			d.line(depth, "Else")
			d.stmt(depth+1, s.Else)
		}
	case StmtWhile:
		s := d.b.Stmts.While(id)
		d.line(depth, "While %s", d.expr(s.Cond))
		d.stmt(depth+1, s.Body)
	case StmtBreak:
		d.line(depth, "Break")
	case StmtContinue:
		d.line(depth, "Continue")
	case StmtReturn:
		r := d.b.Stmts.Return(id)
		if r.Expr.IsValid() {
			d.line(depth, "Return %s", d.expr(r.Expr))
		} else {
			d.line(depth, "Return")
		}
	}
}

// expr renders an expression fully parenthesized so precedence is visible.
func (d *dumper) expr(id ExprID) string {
	e := d.b.Exprs.Get(id)
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprIdent:
		ident, _ := d.b.Exprs.Ident(id)
		return ident.Name
	case ExprLit:
		lit, _ := d.b.Exprs.Literal(id)
		return fmt.Sprint(lit.Value)
	case ExprCall:
		call, _ := d.b.Exprs.Call(id)
		args := make([]string, 0, len(call.Args))
		for _, a := range call.Args {
			args = append(args, d.expr(a))
		}
		return call.Name + "(" + strings.Join(args, ", ") + ")"
	case ExprBinary:
		bin, _ := d.b.Exprs.Binary(id)
		return "(" + d.expr(bin.Left) + " " + bin.Op.String() + " " + d.expr(bin.Right) + ")"
	case ExprUnary:
		un, _ := d.b.Exprs.Unary(id)
		return "(" + un.Op.String() + d.expr(un.Operand) + ")"
	case ExprGroup:
		g, _ := d.b.Exprs.Group(id)
		return d.expr(g.Inner)
	case ExprIndex:
		idx, _ := d.b.Exprs.Index(id)
		return d.expr(idx.Target) + "[" + d.expr(idx.Index) + "]"
	}
	return "?"
}
