package chunk

import (
	"fmt"

	"fortio.org/safecast"

	"druk/internal/ir"
)

// Encode flattens m. Blocks keep their creation order and branch targets
// become block indexes.
func Encode(m *ir.Module, entry string) (*Chunk, error) {
	if m == nil {
		return nil, fmt.Errorf("chunk: nil module")
	}
	c := &Chunk{Magic: magic, Schema: SchemaVersion}
	for _, g := range m.Globals {
		c.Globals = append(c.Globals, Global{
			Name:    g.Name,
			Type:    m.Types.Name(g.Type),
			Init:    constant(g.Init),
			HasInit: g.HasInit,
		})
	}
	found := false
	for i, f := range m.Funcs {
		fn, err := encodeFunc(m, f)
		if err != nil {
			return nil, fmt.Errorf("chunk: %s: %w", f.Name, err)
		}
		c.Funcs = append(c.Funcs, fn)
		if f.Name == entry {
			c.Entry, found = index(i), true
		}
	}
	if !found {
		return nil, fmt.Errorf("chunk: entry function %q not found", entry)
	}
	return c, nil
}

func index(i int) uint32 {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("chunk index overflow: %w", err))
	}
	return v
}

func constant(c ir.Const) Constant {
	return Constant{Kind: c.Kind, Int: c.Int, Float: c.Float, Str: c.Str, Bool: c.Bool}
}

type funcEncoder struct {
	m      *ir.Module
	f      *ir.Func
	out    Function
	regs   map[ir.ValueID]uint32
	consts map[ir.Const]uint32
	blocks map[ir.BlockID]uint32
}

func encodeFunc(m *ir.Module, f *ir.Func) (Function, error) {
	e := &funcEncoder{
		m:      m,
		f:      f,
		out:    Function{Name: f.Name, NumParams: len(f.Params)},
		regs:   make(map[ir.ValueID]uint32),
		consts: make(map[ir.Const]uint32),
		blocks: make(map[ir.BlockID]uint32),
	}
	for _, p := range f.Params {
		e.reg(p)
	}
	for i, bid := range f.Blocks() {
		e.blocks[bid] = index(i)
	}
	for _, bid := range f.Blocks() {
		blk := f.Block(bid)
		out := Block{Name: blk.Name, Code: make([]Op, 0, len(blk.Instrs))}
		for _, iid := range blk.Instrs {
			op, err := e.encodeInstr(f.Instr(iid))
			if err != nil {
				return Function{}, fmt.Errorf("%s: %w", blk.Name, err)
			}
			out.Code = append(out.Code, op)
		}
		e.out.Blocks = append(e.out.Blocks, out)
	}
	e.out.NumRegs = index(len(e.regs))
	return e.out, nil
}

func (e *funcEncoder) reg(v ir.ValueID) uint32 {
	if r, ok := e.regs[v]; ok {
		return r
	}
	r := index(len(e.regs) + 1)
	e.regs[v] = r
	return r
}

func (e *funcEncoder) pool(c ir.Const) uint32 {
	if i, ok := e.consts[c]; ok {
		return i
	}
	i := index(len(e.out.Consts))
	e.out.Consts = append(e.out.Consts, constant(c))
	e.consts[c] = i
	return i
}

func (e *funcEncoder) ref(v ir.ValueID) (Ref, error) {
	val := e.f.Value(v)
	if val == nil {
		return Ref{}, fmt.Errorf("unknown value %%%d", v)
	}
	switch val.Kind {
	case ir.ValueConst:
		return Ref{Kind: RefConst, Index: e.pool(val.Const)}, nil
	case ir.ValueGlobal:
		return Ref{Kind: RefGlobal, Index: uint32(val.Global) - 1}, nil
	case ir.ValueFunc:
		return Ref{Kind: RefFunc, Index: uint32(val.Func) - 1}, nil
	case ir.ValueParam, ir.ValueInstr:
		return Ref{Kind: RefReg, Index: e.reg(v)}, nil
	default:
		return Ref{}, fmt.Errorf("value %%%d has kind %s", v, val.Kind)
	}
}

func (e *funcEncoder) encodeInstr(in *ir.Instr) (Op, error) {
	op := Op{Code: in.Opcode()}
	for i := 0; i < in.NumOperands(); i++ {
		r, err := e.ref(in.Operand(i))
		if err != nil {
			return Op{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
		}
		op.Args = append(op.Args, r)
	}
	for _, succ := range in.Successors() {
		op.Targets = append(op.Targets, e.blocks[succ])
	}
	switch in.Opcode() {
	case ir.OpCall:
		op.Callee = uint32(in.Callee()) - 1
	case ir.OpAlloca:
		op.AllocType = e.m.Types.Name(in.AllocType())
	}
	if in.Opcode().ProducesValue() {
		op.Dest = e.reg(in.Result())
	}
	return op, nil
}
