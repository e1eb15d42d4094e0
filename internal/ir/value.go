package ir

import (
	"strconv"

	"druk/internal/types"
)

// ValueKind tells where a value comes from.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueParam
	ValueConst
	ValueInstr
	ValueFunc
	ValueGlobal
)

func (k ValueKind) String() string {
	switch k {
	case ValueParam:
		return "param"
	case ValueConst:
		return "const"
	case ValueInstr:
		return "instr"
	case ValueFunc:
		return "func"
	case ValueGlobal:
		return "global"
	default:
		return "invalid"
	}
}

type ConstKind uint8

const (
	ConstInt ConstKind = iota + 1
	ConstFloat
	ConstString
	ConstBool
)

// Const is an immediate operand.
type Const struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (c Const) Type() types.TypeID {
	switch c.Kind {
	case ConstInt:
		return types.Int
	case ConstFloat:
		return types.Float
	case ConstString:
		return types.String
	case ConstBool:
		return types.Bool
	default:
		return types.Error
	}
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstBool:
		return strconv.FormatBool(c.Bool)
	default:
		return "<const?>"
	}
}

// Value is anything usable as an operand. Exactly one of the kind specific
// fields is meaningful.
type Value struct {
	Kind ValueKind
	Name string
	Type types.TypeID

	Instr  InstrID  // ValueInstr
	Const  Const    // ValueConst
	Func   FuncID   // ValueFunc
	Global GlobalID // ValueGlobal
	Param  int      // ValueParam, position in the parameter list
}
