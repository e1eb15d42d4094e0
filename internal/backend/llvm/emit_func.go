package llvm

import (
	"fmt"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	ltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"druk/internal/ir"
)

func (e *Emitter) emitFunction(f *ir.Func) error {
	fe := &funcEmitter{
		emitter: e,
		f:       f,
		fn:      e.funcs[f.ID],
		isEntry: f.Name == e.opts.Entry,
		blocks:  make(map[ir.BlockID]*lir.Block, f.NumBlocks()),
		values:  make(map[ir.ValueID]value.Value),
	}
	for i, p := range f.Params {
		fe.values[p] = fe.fn.Params[i]
	}
	for _, bid := range f.Blocks() {
		fe.blocks[bid] = fe.fn.NewBlock(f.Block(bid).Name)
	}
	for _, bid := range f.Blocks() {
		bb := fe.blocks[bid]
		for _, iid := range f.Block(bid).Instrs {
			if err := fe.emitInstr(bb, f.Instr(iid)); err != nil {
				return fmt.Errorf("%s: %w", f.Block(bid).Name, err)
			}
		}
	}
	return nil
}

// operand resolves a druk value to an LLVM value.
func (fe *funcEmitter) operand(id ir.ValueID) (value.Value, error) {
	if v, ok := fe.values[id]; ok {
		return v, nil
	}
	val := fe.f.Value(id)
	if val == nil {
		return nil, fmt.Errorf("unknown value %%%d", id)
	}
	switch val.Kind {
	case ir.ValueConst:
		c, err := fe.emitter.constValue(val.Const)
		if err != nil {
			return nil, err
		}
		fe.values[id] = c
		return c, nil
	case ir.ValueGlobal:
		g := fe.emitter.globals[val.Global]
		fe.values[id] = g
		return g, nil
	case ir.ValueFunc:
		return nil, fmt.Errorf("%w: function value @%s", ErrUnsupported, val.Name)
	default:
		return nil, fmt.Errorf("value %%%d used before definition", id)
	}
}

func (fe *funcEmitter) operands(in *ir.Instr) ([]value.Value, error) {
	out := make([]value.Value, 0, in.NumOperands())
	for i := 0; i < in.NumOperands(); i++ {
		v, err := fe.operand(in.Operand(i))
		if err != nil {
			return nil, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (fe *funcEmitter) emitReturn(bb *lir.Block, ops []value.Value) error {
	switch {
	case fe.isEntry && len(ops) == 0:
		bb.NewRet(constant.NewInt(ltypes.I32, 0))
	case fe.isEntry:
		if !isInt(ops[0].Type()) {
			return fmt.Errorf("%w: entry returns %s", ErrUnsupported, ops[0].Type())
		}
		bb.NewRet(bb.NewTrunc(ops[0], ltypes.I32))
	case len(ops) == 0:
		if ltypes.Equal(fe.fn.Sig.RetType, ltypes.Void) {
			bb.NewRet(nil)
		} else {
			bb.NewRet(constant.NewZeroInitializer(fe.fn.Sig.RetType))
		}
	default:
		if want := fe.fn.Sig.RetType; !ltypes.Equal(ops[0].Type(), want) {
			return fmt.Errorf("%w: %s returns %s, declared %s", ErrUnsupported, fe.f.Name, ops[0].Type(), want)
		}
		bb.NewRet(ops[0])
	}
	return nil
}

// checkCallArgs matches argument types against the callee signature.
func checkCallArgs(callee *lir.Func, args []value.Value) error {
	params := callee.Sig.Params
	if len(args) != len(params) {
		return fmt.Errorf("%w: call to %s with %d arguments, want %d", ErrUnsupported, callee.Name(), len(args), len(params))
	}
	for i, arg := range args {
		if !ltypes.Equal(arg.Type(), params[i]) {
			return fmt.Errorf("%w: call to %s argument %d is %s, want %s", ErrUnsupported, callee.Name(), i, arg.Type(), params[i])
		}
	}
	return nil
}
