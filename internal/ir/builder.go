package ir

import (
	"fmt"

	"druk/internal/types"
)

// Builder appends instructions to the end of its current block. It is the
// only way to add instructions to a Func.
type Builder struct {
	fn    *Func
	block BlockID
}

func NewBuilder(fn *Func) *Builder {
	if fn == nil {
		panic("ir: builder needs a function")
	}
	return &Builder{fn: fn}
}

func (b *Builder) Func() *Func { return b.fn }

// SetInsertPoint makes block the current block.
func (b *Builder) SetInsertPoint(block BlockID) {
	if !b.fn.HasBlock(block) {
		panic(fmt.Sprintf("ir: bb%d does not belong to %s", block, b.fn.Name))
	}
	b.block = block
}

// InsertBlock returns the current block or NoBlockID.
func (b *Builder) InsertBlock() BlockID { return b.block }

// Terminated reports whether the current block already ends in a terminator.
func (b *Builder) Terminated() bool {
	blk := b.fn.Block(b.block)
	return blk != nil && blk.Terminated()
}

func (b *Builder) CreateBuildArray(elems []ValueID, name string) ValueID {
	return b.insert(Instr{op: OpBuildArray, operands: elems}, name)
}

// CreateIndex reads arr[idx].
func (b *Builder) CreateIndex(arr, idx ValueID, name string) ValueID {
	return b.insert(Instr{op: OpIndexGet, operands: []ValueID{arr, idx}}, name)
}

// CreateIndexSet writes arr[idx] = val.
func (b *Builder) CreateIndexSet(arr, idx, val ValueID) ValueID {
	return b.insert(Instr{op: OpIndexSet, operands: []ValueID{arr, idx, val}}, "")
}

func (b *Builder) CreateLen(v ValueID, name string) ValueID {
	return b.insert(Instr{op: OpLen, operands: []ValueID{v}}, name)
}

// CreateBinary emits a two-operand arithmetic, comparison or logical
// instruction.
func (b *Builder) CreateBinary(op Opcode, lhs, rhs ValueID, name string) ValueID {
	if !op.IsBinary() {
		panic(fmt.Sprintf("ir: %s is not a binary opcode", op))
	}
	return b.insert(Instr{op: op, operands: []ValueID{lhs, rhs}}, name)
}

func (b *Builder) CreateUnary(op Opcode, v ValueID, name string) ValueID {
	if !op.IsUnary() {
		panic(fmt.Sprintf("ir: %s is not a unary opcode", op))
	}
	return b.insert(Instr{op: op, operands: []ValueID{v}}, name)
}

func (b *Builder) CreateAlloca(ty types.TypeID, name string) ValueID {
	if ty == types.NoTypeID {
		panic("ir: alloca of NoTypeID")
	}
	return b.insert(Instr{op: OpAlloca, allocType: ty}, name)
}

func (b *Builder) CreateLoad(ptr ValueID, name string) ValueID {
	return b.insert(Instr{op: OpLoad, operands: []ValueID{ptr}}, name)
}

// CreateStore writes val into ptr.
func (b *Builder) CreateStore(val, ptr ValueID) ValueID {
	return b.insert(Instr{op: OpStore, operands: []ValueID{val, ptr}}, "")
}

func (b *Builder) CreateBranch(dest BlockID) ValueID {
	b.checkBlock(dest)
	return b.insert(Instr{op: OpBranch, dests: [2]BlockID{dest}}, "")
}

func (b *Builder) CreateCondBranch(cond ValueID, then, els BlockID) ValueID {
	b.checkBlock(then)
	b.checkBlock(els)
	return b.insert(Instr{op: OpConditionalBranch, operands: []ValueID{cond}, dests: [2]BlockID{then, els}}, "")
}

// CreateRet returns v, or nothing when v is NoValueID.
func (b *Builder) CreateRet(v ValueID) ValueID {
	var ops []ValueID
	if v.IsValid() {
		ops = []ValueID{v}
	}
	return b.insert(Instr{op: OpReturn, operands: ops}, "")
}

// CreateCall calls a function of the same module directly.
func (b *Builder) CreateCall(callee *Func, args []ValueID, name string) ValueID {
	if callee == nil || !callee.ID.IsValid() {
		panic("ir: call without callee")
	}
	return b.insert(Instr{op: OpCall, operands: args, callee: callee.ID}, name)
}

// CreateDynamicCall calls whatever callee evaluates to at run time.
func (b *Builder) CreateDynamicCall(callee ValueID, args []ValueID, name string) ValueID {
	ops := make([]ValueID, 0, len(args)+1)
	ops = append(ops, callee)
	ops = append(ops, args...)
	return b.insert(Instr{op: OpDynamicCall, operands: ops}, name)
}

func (b *Builder) CreatePrint(v ValueID) ValueID {
	return b.insert(Instr{op: OpPrint, operands: []ValueID{v}}, "")
}

func (b *Builder) checkBlock(id BlockID) {
	if !b.fn.HasBlock(id) {
		panic(fmt.Sprintf("ir: branch target bb%d does not belong to %s", id, b.fn.Name))
	}
}

func (b *Builder) insert(in Instr, name string) ValueID {
	fn := b.fn
	blk := fn.Block(b.block)
	if blk == nil {
		panic("ir: no insertion point")
	}
	if blk.Terminated() {
		panic(fmt.Sprintf("ir: insert %s after terminator of %s.bb%d", in.op, fn.Name, blk.ID))
	}
	for i, op := range in.operands {
		if !fn.HasValue(op) {
			panic(fmt.Sprintf("ir: %s operand %d: value %%%d does not belong to %s", in.op, i, op, fn.Name))
		}
	}
	if len(in.operands) > 0 {
		in.operands = append([]ValueID(nil), in.operands...)
	}

	id := InstrID(conv32(len(fn.instrs), "len(instrs)"))
	in.id = id
	in.parent = blk.ID
	fn.instrs = append(fn.instrs, in)

	ptr := &fn.instrs[id]
	ptr.result = fn.addValue(Value{
		Kind:  ValueInstr,
		Name:  fn.uniqueName(name),
		Type:  fn.resultType(ptr),
		Instr: id,
	})

	blk.Instrs = append(blk.Instrs, id)
	if in.op.IsTerminator() {
		blk.term = id
	}
	return ptr.result
}
