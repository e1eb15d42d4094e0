package llvm

import (
	"fmt"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	ltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"druk/internal/ir"
)

func (fe *funcEmitter) emitInstr(bb *lir.Block, in *ir.Instr) error {
	ops, err := fe.operands(in)
	if err != nil {
		return err
	}
	var result value.Value
	switch op := in.Opcode(); {
	case op.IsBinary():
		result, err = fe.emitBinary(bb, op, ops[0], ops[1])
	case op.IsUnary():
		result, err = fe.emitUnary(bb, op, ops[0])
	default:
		switch op {
		case ir.OpAlloca:
			ty, tyErr := fe.emitter.llvmType(in.AllocType())
			if tyErr != nil {
				return tyErr
			}
			result = bb.NewAlloca(ty)
		case ir.OpLoad:
			ptr, ok := ops[0].Type().(*ltypes.PointerType)
			if !ok {
				return fmt.Errorf("load from non-pointer %s", ops[0].Type())
			}
			result = bb.NewLoad(ptr.ElemType, ops[0])
		case ir.OpStore:
			bb.NewStore(ops[0], ops[1])
		case ir.OpBranch:
			bb.NewBr(fe.blocks[in.Dest()])
		case ir.OpConditionalBranch:
			bb.NewCondBr(ops[0], fe.blocks[in.Then()], fe.blocks[in.Else()])
		case ir.OpReturn:
			err = fe.emitReturn(bb, ops)
		case ir.OpCall:
			callee, ok := fe.emitter.funcs[in.Callee()]
			if !ok {
				return fmt.Errorf("call to unknown fn#%d", in.Callee())
			}
			if err := checkCallArgs(callee, ops); err != nil {
				return err
			}
			result = bb.NewCall(callee, ops...)
		case ir.OpPrint:
			err = fe.emitPrint(bb, ops[0])
		default:
			return fmt.Errorf("%w: %s", ErrUnsupported, in.Mnemonic())
		}
	}
	if err != nil {
		return err
	}
	if result != nil {
		fe.values[in.Result()] = result
	}
	return nil
}

var intPreds = map[ir.Opcode]enum.IPred{
	ir.OpEqual:        enum.IPredEQ,
	ir.OpNotEqual:     enum.IPredNE,
	ir.OpLessThan:     enum.IPredSLT,
	ir.OpLessEqual:    enum.IPredSLE,
	ir.OpGreaterThan:  enum.IPredSGT,
	ir.OpGreaterEqual: enum.IPredSGE,
}

var floatPreds = map[ir.Opcode]enum.FPred{
	ir.OpEqual:        enum.FPredOEQ,
	ir.OpNotEqual:     enum.FPredONE,
	ir.OpLessThan:     enum.FPredOLT,
	ir.OpLessEqual:    enum.FPredOLE,
	ir.OpGreaterThan:  enum.FPredOGT,
	ir.OpGreaterEqual: enum.FPredOGE,
}

func (fe *funcEmitter) emitBinary(bb *lir.Block, op ir.Opcode, x, y value.Value) (value.Value, error) {
	t := x.Type()
	switch {
	case isInt(t) || (isBool(t) && (op == ir.OpEqual || op == ir.OpNotEqual)):
		if pred, ok := intPreds[op]; ok {
			return bb.NewICmp(pred, x, y), nil
		}
		switch op {
		case ir.OpAdd:
			return bb.NewAdd(x, y), nil
		case ir.OpSub:
			return bb.NewSub(x, y), nil
		case ir.OpMul:
			return bb.NewMul(x, y), nil
		case ir.OpDiv:
			return bb.NewSDiv(x, y), nil
		case ir.OpMod:
			return bb.NewSRem(x, y), nil
		}
	case isBool(t):
		switch op {
		case ir.OpAnd:
			return bb.NewAnd(x, y), nil
		case ir.OpOr:
			return bb.NewOr(x, y), nil
		}
	case isFloat(t):
		if pred, ok := floatPreds[op]; ok {
			return bb.NewFCmp(pred, x, y), nil
		}
		switch op {
		case ir.OpAdd:
			return bb.NewFAdd(x, y), nil
		case ir.OpSub:
			return bb.NewFSub(x, y), nil
		case ir.OpMul:
			return bb.NewFMul(x, y), nil
		case ir.OpDiv:
			return bb.NewFDiv(x, y), nil
		case ir.OpMod:
			return bb.NewFRem(x, y), nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, op, t)
}

func (fe *funcEmitter) emitUnary(bb *lir.Block, op ir.Opcode, x value.Value) (value.Value, error) {
	t := x.Type()
	switch {
	case op == ir.OpNeg && isInt(t):
		return bb.NewSub(constant.NewInt(ltypes.I64, 0), x), nil
	case op == ir.OpNeg && isFloat(t):
		return bb.NewFNeg(x), nil
	case op == ir.OpNot && isBool(t):
		return bb.NewXor(x, constant.True), nil
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, op, t)
}

// emitPrint writes v and a newline through printf.
func (fe *funcEmitter) emitPrint(bb *lir.Block, v value.Value) error {
	e := fe.emitter
	t := v.Type()
	switch {
	case isInt(t):
		bb.NewCall(e.printf, e.stringPtr("%lld\n"), v)
	case isFloat(t):
		bb.NewCall(e.printf, e.stringPtr("%g\n"), v)
	case isString(t):
		bb.NewCall(e.printf, e.stringPtr("%s\n"), v)
	case isBool(t):
		text := bb.NewSelect(v, e.stringPtr("true"), e.stringPtr("false"))
		bb.NewCall(e.printf, e.stringPtr("%s\n"), text)
	default:
		return fmt.Errorf("%w: print of %s", ErrUnsupported, t)
	}
	return nil
}
