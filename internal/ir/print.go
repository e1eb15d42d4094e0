package ir

import (
	"fmt"
	"io"
	"strings"

	"druk/internal/types"
)

// Dump writes a human-readable listing of m.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	p := printer{w: w, types: m.Types, m: m}
	if len(m.Globals) > 0 {
		p.printf("globals=%d\n", len(m.Globals))
		for _, g := range m.Globals {
			init := ""
			if g.HasInit {
				init = " = " + g.Init.String()
			}
			p.printf("  @%s: %s%s\n", g.Name, p.typeName(g.Type), init)
		}
	}
	p.printf("funcs=%d\n", len(m.Funcs))
	for _, f := range m.Funcs {
		p.dumpFunc(f)
	}
	return p.err
}

// DumpFunc writes a single function.
func DumpFunc(w io.Writer, f *Func, typesIn *types.Interner) error {
	p := printer{w: w, types: typesIn}
	p.dumpFunc(f)
	return p.err
}

type printer struct {
	w     io.Writer
	types *types.Interner
	m     *Module
	err   error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) typeName(id types.TypeID) string {
	if p.types == nil {
		return fmt.Sprintf("type#%d", id)
	}
	return p.types.Name(id)
}

func (p *printer) dumpFunc(f *Func) {
	if f == nil {
		return
	}
	params := make([]string, 0, len(f.Params))
	for _, v := range f.Params {
		params = append(params, fmt.Sprintf("%s: %s", valueRef(f, v), p.typeName(f.TypeOf(v))))
	}
	p.printf("\nfn %s(%s) -> %s {\n", f.Name, strings.Join(params, ", "), p.typeName(f.Result))
	for _, bid := range f.Blocks() {
		blk := f.Block(bid)
		p.printf("%s:\n", blockRef(f, bid))
		for _, iid := range blk.Instrs {
			p.printf("  %s\n", p.formatInstr(f, f.Instr(iid)))
		}
	}
	p.printf("}\n")
}

func (p *printer) formatInstr(f *Func, in *Instr) string {
	var sb strings.Builder
	if in.op.ProducesValue() {
		fmt.Fprintf(&sb, "%s = ", valueRef(f, in.result))
	}
	sb.WriteString(in.Mnemonic())
	switch in.op {
	case OpAlloca:
		fmt.Fprintf(&sb, " %s", p.typeName(in.allocType))
	case OpBranch:
		fmt.Fprintf(&sb, " %s", blockRef(f, in.Dest()))
	case OpConditionalBranch:
		fmt.Fprintf(&sb, " %s, %s, %s", valueRef(f, in.operands[0]), blockRef(f, in.Then()), blockRef(f, in.Else()))
		return sb.String()
	case OpCall:
		name := fmt.Sprintf("fn#%d", in.callee)
		if p.m != nil {
			if callee := p.m.Func(in.callee); callee != nil {
				name = callee.Name
			}
		}
		fmt.Fprintf(&sb, " @%s", name)
	}
	for i, op := range in.operands {
		if i == 0 && in.op != OpCall {
			sb.WriteByte(' ')
		} else if i == 0 {
			sb.WriteString("(")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(valueRef(f, op))
	}
	if in.op == OpCall {
		if len(in.operands) == 0 {
			sb.WriteString("(")
		}
		sb.WriteString(")")
	}
	if in.op.ProducesValue() {
		fmt.Fprintf(&sb, " : %s", p.typeName(f.TypeOf(in.result)))
	}
	return sb.String()
}

func valueRef(f *Func, id ValueID) string {
	v := f.Value(id)
	if v == nil {
		return fmt.Sprintf("%%?%d", id)
	}
	switch v.Kind {
	case ValueConst:
		return v.Const.String()
	case ValueGlobal, ValueFunc:
		return "@" + v.Name
	}
	if v.Name != "" {
		return "%" + v.Name
	}
	return fmt.Sprintf("%%%d", id)
}

func blockRef(f *Func, id BlockID) string {
	blk := f.Block(id)
	if blk == nil || blk.Name == "" {
		return fmt.Sprintf("bb%d", id)
	}
	return blk.Name
}
