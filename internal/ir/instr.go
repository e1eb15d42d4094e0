package ir

import (
	"fmt"

	"druk/internal/types"
)

// Instr is a single operation. The opcode decides which of the out-of-band
// fields are meaningful:
//
//	OpAlloca            allocType
//	OpBranch            dests[0]
//	OpConditionalBranch dests[0] (then), dests[1] (else)
//	OpCall              callee
//
// Operands are handles into the owning Func; the instruction never owns them.
type Instr struct {
	id       InstrID
	op       Opcode
	operands []ValueID
	parent   BlockID
	result   ValueID

	allocType types.TypeID
	dests     [2]BlockID
	callee    FuncID
}

func (in *Instr) ID() InstrID    { return in.id }
func (in *Instr) Opcode() Opcode { return in.op }

// Parent returns the block the instruction was inserted into.
func (in *Instr) Parent() BlockID { return in.parent }

// Result returns the value defined by the instruction.
func (in *Instr) Result() ValueID { return in.result }

func (in *Instr) Mnemonic() string { return in.op.String() }

func (in *Instr) NumOperands() int { return len(in.operands) }

// Operand returns the i-th operand and panics when i is out of range.
func (in *Instr) Operand(i int) ValueID {
	if i < 0 || i >= len(in.operands) {
		panic(fmt.Sprintf("ir: %s operand %d out of range [0,%d)", in.op, i, len(in.operands)))
	}
	return in.operands[i]
}

// Operands returns a copy of the operand list.
func (in *Instr) Operands() []ValueID {
	out := make([]ValueID, len(in.operands))
	copy(out, in.operands)
	return out
}

func (in *Instr) IsTerminator() bool { return in.op.IsTerminator() }

func (in *Instr) AllocType() types.TypeID { return in.allocType }

// Dest returns the target of an unconditional branch.
func (in *Instr) Dest() BlockID { return in.dests[0] }

// Then and Else return the targets of a conditional branch.
func (in *Instr) Then() BlockID { return in.dests[0] }
func (in *Instr) Else() BlockID { return in.dests[1] }

// Successors lists the blocks control may reach after a terminator.
func (in *Instr) Successors() []BlockID {
	switch in.op {
	case OpBranch:
		return []BlockID{in.dests[0]}
	case OpConditionalBranch:
		return []BlockID{in.dests[0], in.dests[1]}
	default:
		return nil
	}
}

func (in *Instr) Callee() FuncID { return in.callee }
