package ir

import "fmt"

// Opcode is the discriminant of an instruction. The numeric values are part
// of the bytecode format and must not be reordered.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual
	OpAnd
	OpOr
	OpNot

	OpLoad
	OpStore
	OpAlloca

	OpBuildArray
	OpIndexGet
	OpIndexSet
	OpLen

	OpBranch
	OpConditionalBranch
	OpReturn
	OpCall
	OpDynamicCall
	OpPrint

	opCount
)

var mnemonics = [opCount]string{
	OpInvalid:           "invalid",
	OpAdd:               "add",
	OpSub:               "sub",
	OpMul:               "mul",
	OpDiv:               "div",
	OpMod:               "mod",
	OpNeg:               "neg",
	OpEqual:             "eq",
	OpNotEqual:          "ne",
	OpLessThan:          "lt",
	OpLessEqual:         "le",
	OpGreaterThan:       "gt",
	OpGreaterEqual:      "ge",
	OpAnd:               "and",
	OpOr:                "or",
	OpNot:               "not",
	OpLoad:              "load",
	OpStore:             "store",
	OpAlloca:            "alloca",
	OpBuildArray:        "buildarray",
	OpIndexGet:          "indexget",
	OpIndexSet:          "indexset",
	OpLen:               "len",
	OpBranch:            "br",
	OpConditionalBranch: "condbr",
	OpReturn:            "ret",
	OpCall:              "call",
	OpDynamicCall:       "dyncall",
	OpPrint:             "print",
}

func (op Opcode) String() string {
	if op < opCount {
		return mnemonics[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// Valid reports whether op is a known opcode other than OpInvalid.
func (op Opcode) Valid() bool {
	return op > OpInvalid && op < opCount
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpBranch, OpConditionalBranch, OpReturn:
		return true
	default:
		return false
	}
}

// IsBinary reports whether op takes a left and a right operand.
func (op Opcode) IsBinary() bool {
	return op >= OpAdd && op <= OpOr && op != OpNeg
}

// IsUnary reports whether op is Neg or Not.
func (op Opcode) IsUnary() bool {
	return op == OpNeg || op == OpNot
}

// IsOperator reports whether op belongs to the arithmetic, comparison or
// logical family.
func (op Opcode) IsOperator() bool {
	return op >= OpAdd && op <= OpNot
}

// ProducesValue reports whether the instruction defines a value that other
// instructions may use as an operand.
func (op Opcode) ProducesValue() bool {
	switch op {
	case OpStore, OpIndexSet, OpBranch, OpConditionalBranch, OpReturn, OpPrint:
		return false
	default:
		return op.Valid()
	}
}
