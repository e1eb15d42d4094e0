package sema

import (
	"druk/internal/ast"
	"druk/internal/types"
)

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint16

const (
	FamilyNone FamilyMask = 0
	FamilyInt  FamilyMask = 1 << iota
	FamilyFloat
	FamilyString
	FamilyBool
	FamilyArray
	FamilyFunction
	FamilyVoid
)

const (
	FamilyNumeric = FamilyInt | FamilyFloat
	FamilyAny     = FamilyNumeric | FamilyString | FamilyBool | FamilyArray | FamilyFunction | FamilyVoid
)

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultLeft
	BinaryResultBool
)

// BinarySpec lists the operand family and the result for an operation. Both
// operands must have the same type.
type BinarySpec struct {
	Operands FamilyMask
	Result   BinaryResult
}

var binarySpecTable = map[ast.ExprBinaryOp][]BinarySpec{
	ast.OpAdd: {
		{Operands: FamilyNumeric, Result: BinaryResultLeft},
		{Operands: FamilyString, Result: BinaryResultLeft},
	},
	ast.OpSub:       {{Operands: FamilyNumeric, Result: BinaryResultLeft}},
	ast.OpMul:       {{Operands: FamilyNumeric, Result: BinaryResultLeft}},
	ast.OpDiv:       {{Operands: FamilyNumeric, Result: BinaryResultLeft}},
	ast.OpMod:       {{Operands: FamilyNumeric, Result: BinaryResultLeft}},
	ast.OpEq:        {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpNotEq:     {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpLess:      {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpLessEq:    {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpGreater:   {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpGreaterEq: {{Operands: FamilyAny, Result: BinaryResultBool}},
	ast.OpAnd:       {{Operands: FamilyBool, Result: BinaryResultBool}},
	ast.OpOr:        {{Operands: FamilyBool, Result: BinaryResultBool}},
}

// UnaryResult indicates how to derive the resulting type.
type UnaryResult uint8

const (
	UnaryResultUnknown UnaryResult = iota
	UnaryResultSame
	UnaryResultBool
)

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand FamilyMask
	Result  UnaryResult
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.UnaryNeg: {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.UnaryNot: {Operand: FamilyBool, Result: UnaryResultBool},
}

// BinarySpecs returns operand rules for the given operator.
func BinarySpecs(op ast.ExprBinaryOp) []BinarySpec {
	return binarySpecTable[op]
}

// UnarySpecFor returns operand/result hints for unary operators.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}

func familyOf(in *types.Interner, id types.TypeID) FamilyMask {
	tt, ok := in.Lookup(id)
	if !ok {
		return FamilyNone
	}
	switch tt.Kind {
	case types.KindInt:
		return FamilyInt
	case types.KindFloat:
		return FamilyFloat
	case types.KindString:
		return FamilyString
	case types.KindBool:
		return FamilyBool
	case types.KindArray:
		return FamilyArray
	case types.KindFunction:
		return FamilyFunction
	case types.KindVoid:
		return FamilyVoid
	default:
		return FamilyNone
	}
}

// binaryResult applies the operator table. ok is false when no rule matches.
func binaryResult(in *types.Interner, op ast.ExprBinaryOp, left, right types.TypeID) (types.TypeID, bool) {
	if left != right {
		return types.Error, false
	}
	fam := familyOf(in, left)
	for _, spec := range BinarySpecs(op) {
		if spec.Operands&fam == 0 {
			continue
		}
		switch spec.Result {
		case BinaryResultLeft:
			return left, true
		case BinaryResultBool:
			return types.Bool, true
		}
	}
	return types.Error, false
}

func unaryResult(in *types.Interner, op ast.ExprUnaryOp, operand types.TypeID) (types.TypeID, bool) {
	spec, ok := UnarySpecFor(op)
	if !ok || spec.Operand&familyOf(in, operand) == 0 {
		return types.Error, false
	}
	switch spec.Result {
	case UnaryResultSame:
		return operand, true
	case UnaryResultBool:
		return types.Bool, true
	}
	return types.Error, false
}
