package ir

import (
	"fmt"
	"io"
	"strings"
)

// Print writes p in Koopa IR text form. Output is deterministic: globals in
// creation order, then functions in creation order.
func Print(w io.Writer, p *Program) error {
	pr := printer{w: w, p: p, globalNames: make(map[Value]string), used: make(map[string]bool)}
	for _, f := range p.funcs {
		pr.used[f.name] = true
	}
	for _, g := range p.globalLayout {
		name := pr.unique(p.globals[g].Name, "@g")
		pr.globalNames[g] = name
	}

	for _, g := range p.globalLayout {
		d := p.globals[g]
		pr.linef("global %s = alloc %s, %s", pr.globalNames[g], d.Ty.Elem, pr.globalInit(d.GlobalAlloc.Init))
	}
	for i, f := range p.funcs {
		if i > 0 || len(p.globalLayout) > 0 {
			pr.linef("")
		}
		pr.function(f)
	}
	return pr.err
}

// Text renders p to a string.
func Text(p *Program) string {
	var sb strings.Builder
	_ = Print(&sb, p)
	return sb.String()
}

type printer struct {
	w   io.Writer
	p   *Program
	err error

	globalNames map[Value]string
	used        map[string]bool

	// per function
	fn     *FunctionData
	names  map[Value]string
	bbName map[BasicBlock]string
}

func (pr *printer) linef(format string, args ...any) {
	if pr.err != nil {
		return
	}
	_, pr.err = fmt.Fprintf(pr.w, format+"\n", args...)
}

// unique returns name, or name with a numeric suffix when taken.
// An empty name takes fallback as its stem.
func (pr *printer) unique(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	cand := name
	for i := 1; pr.used[cand]; i++ {
		cand = fmt.Sprintf("%s_%d", name, i)
	}
	pr.used[cand] = true
	return cand
}

func (pr *printer) globalInit(v Value) string {
	d := pr.p.globals[v]
	return pr.constant(d, func(e Value) *ValueData { return pr.p.globals[e] })
}

func (pr *printer) constant(d *ValueData, lookup func(Value) *ValueData) string {
	switch d.Kind {
	case ValueInteger:
		return fmt.Sprint(d.Integer.Value)
	case ValueZeroInit:
		return "zeroinit"
	case ValueUndef:
		return "undef"
	case ValueAggregate:
		parts := make([]string, len(d.Aggregate.Elems))
		for i, e := range d.Aggregate.Elems {
			parts[i] = pr.constant(lookup(e), lookup)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "?"
}

func (pr *printer) function(f *FunctionData) {
	saved := pr.used
	pr.used = make(map[string]bool, len(saved))
	for k := range saved {
		pr.used[k] = true
	}
	defer func() { pr.used = saved }()

	pr.fn = f
	pr.names = make(map[Value]string)
	pr.bbName = make(map[BasicBlock]string)

	ret := ""
	if !f.ty.Ret.IsUnit() {
		ret = ": " + f.ty.Ret.String()
	}

	if f.IsDecl() {
		params := make([]string, len(f.ty.Params))
		for i, t := range f.ty.Params {
			params[i] = t.String()
		}
		pr.linef("decl %s(%s)%s", f.name, strings.Join(params, ", "), ret)
		return
	}

	params := make([]string, len(f.params))
	for i, v := range f.params {
		d := f.dfg.values[v]
		name := pr.unique(d.Name, fmt.Sprintf("%%arg%d", i))
		pr.names[v] = name
		params[i] = name + ": " + d.Ty.String()
	}
	pr.assignNames(f)

	pr.linef("fun %s(%s)%s {", f.name, strings.Join(params, ", "), ret)
	for _, bb := range f.layout.blocks {
		pr.linef("%s:", pr.bbName[bb])
		for _, v := range f.layout.insts[bb].items {
			pr.linef("  %s", pr.inst(v))
		}
	}
	pr.linef("}")
}

// assignNames names blocks and every value-producing instruction before
// anything is printed, so forward references resolve.
func (pr *printer) assignNames(f *FunctionData) {
	for i, bb := range f.layout.blocks {
		pr.bbName[bb] = pr.unique(f.dfg.blocks[bb].Name, fmt.Sprintf("%%bb_%d", i))
	}
	tmp := 0
	for _, bb := range f.layout.blocks {
		for _, v := range f.layout.insts[bb].items {
			d := f.dfg.values[v]
			if d.Ty.IsUnit() {
				continue
			}
			if d.Name != "" {
				pr.names[v] = pr.unique(d.Name, "")
				continue
			}
			for pr.used[fmt.Sprintf("%%%d", tmp)] {
				tmp++
			}
			pr.names[v] = pr.unique(fmt.Sprintf("%%%d", tmp), "")
			tmp++
		}
	}
}

func (pr *printer) operand(v Value) string {
	if name, ok := pr.names[v]; ok {
		return name
	}
	if name, ok := pr.globalNames[v]; ok {
		return name
	}
	d := pr.fn.dfg.Value(v)
	if d.Kind.IsConst() {
		return pr.constant(d, pr.fn.dfg.Value)
	}
	return "?" + fmt.Sprint(v)
}

func (pr *printer) inst(v Value) string {
	d := pr.fn.dfg.values[v]
	var body string
	switch d.Kind {
	case ValueAlloc:
		body = "alloc " + d.Ty.Elem.String()
	case ValueLoad:
		body = "load " + pr.operand(d.Load.Src)
	case ValueStore:
		body = fmt.Sprintf("store %s, %s", pr.operand(d.Store.Value), pr.operand(d.Store.Dest))
	case ValueGetPtr:
		body = fmt.Sprintf("getptr %s, %s", pr.operand(d.GetPtr.Src), pr.operand(d.GetPtr.Index))
	case ValueGetElemPtr:
		body = fmt.Sprintf("getelemptr %s, %s", pr.operand(d.GetPtr.Src), pr.operand(d.GetPtr.Index))
	case ValueBinary:
		body = fmt.Sprintf("%s %s, %s", d.Binary.Op, pr.operand(d.Binary.LHS), pr.operand(d.Binary.RHS))
	case ValueBranch:
		body = fmt.Sprintf("br %s, %s, %s", pr.operand(d.Branch.Cond), pr.bbName[d.Branch.True], pr.bbName[d.Branch.False])
	case ValueJump:
		body = "jump " + pr.bbName[d.Jump.Target]
	case ValueCall:
		args := make([]string, len(d.Call.Args))
		for i, a := range d.Call.Args {
			args[i] = pr.operand(a)
		}
		body = fmt.Sprintf("call %s(%s)", pr.p.Func(d.Call.Callee).name, strings.Join(args, ", "))
	case ValueReturn:
		body = "ret"
		if d.Return.Value.IsValid() {
			body += " " + pr.operand(d.Return.Value)
		}
	default:
		body = "?"
	}
	if name, ok := pr.names[v]; ok {
		return name + " = " + body
	}
	return body
}
