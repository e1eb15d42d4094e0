package ast

import (
	"fmt"

	"druk/internal/source"
	"druk/internal/types"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLit
	ExprIdent
	ExprBinary
	ExprLogical
	ExprUnary
	ExprGroup
	ExprCall
	ExprAssign
	ExprArray
	ExprIndex
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "Literal"
	case ExprIdent:
		return "VariableExpr"
	case ExprBinary:
		return "Binary"
	case ExprLogical:
		return "Logical"
	case ExprUnary:
		return "Unary"
	case ExprGroup:
		return "Grouping"
	case ExprCall:
		return "Call"
	case ExprAssign:
		return "Assignment"
	case ExprArray:
		return "ArrayLiteral"
	case ExprIndex:
		return "Index"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// Expr is the tagged header of an expression node. Payload indexes the
// per-kind arena selected by Kind. Type is filled in once by the analyzer.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Type    types.TypeID
}

type ExprBinaryOp uint8

const (
	OpAdd ExprBinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd // logical only
	OpOr  // logical only
)

func (op ExprBinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// IsComparison reports whether op yields a Bool from two equal operand types.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGreaterEq
}

// IsArithmetic reports whether op is one of + - * / %.
func (op ExprBinaryOp) IsArithmetic() bool {
	return op >= OpAdd && op <= OpMod
}

type ExprUnaryOp uint8

const (
	UnaryNeg ExprUnaryOp = iota + 1
	UnaryNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota + 1
	ExprLitFloat
	ExprLitString
	ExprLitBool
)

type ExprLiteralData struct {
	Kind ExprLitKind
	// Value is the decoded literal: digits for numbers, the unquoted text for
	// strings and "true"/"false" for booleans.
	Value string
}

type ExprIdentData struct {
	Name string
}

// ExprBinaryData backs both ExprBinary and ExprLogical.
type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprAssignData's Target is an ExprIdent or an ExprIndex.
type ExprAssignData struct {
	Target ExprID
	Value  ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}
