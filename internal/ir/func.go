package ir

import (
	"fmt"

	"fortio.org/safecast"

	"druk/internal/types"
)

// Func owns its blocks, instructions and values. Index 0 of every arena is
// reserved so that the zero handle is never valid.
type Func struct {
	ID     FuncID
	Name   string
	Result types.TypeID
	Params []ValueID
	Entry  BlockID

	blocks []Block
	instrs []Instr
	values []Value

	names   map[string]int
	globals map[GlobalID]ValueID
	funcs   map[FuncID]ValueID
}

func newFunc(id FuncID, name string, result types.TypeID) *Func {
	return &Func{
		ID:      id,
		Name:    name,
		Result:  result,
		blocks:  make([]Block, 1, 4),
		instrs:  make([]Instr, 1, 16),
		values:  make([]Value, 1, 16),
		names:   make(map[string]int),
		globals: make(map[GlobalID]ValueID),
		funcs:   make(map[FuncID]ValueID),
	}
}

func conv32(n int, what string) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return v
}

// NewBlock appends an empty block. The first block becomes the entry.
func (f *Func) NewBlock(name string) BlockID {
	id := BlockID(conv32(len(f.blocks), "len(blocks)"))
	f.blocks = append(f.blocks, Block{ID: id, Name: f.uniqueName(name)})
	if !f.Entry.IsValid() {
		f.Entry = id
	}
	return id
}

// AddParam appends a parameter value.
func (f *Func) AddParam(name string, ty types.TypeID) ValueID {
	v := f.addValue(Value{Kind: ValueParam, Name: f.uniqueName(name), Type: ty, Param: len(f.Params)})
	f.Params = append(f.Params, v)
	return v
}

func (f *Func) ConstInt(x int64) ValueID {
	return f.addValue(Value{Kind: ValueConst, Type: types.Int, Const: Const{Kind: ConstInt, Int: x}})
}

func (f *Func) ConstFloat(x float64) ValueID {
	return f.addValue(Value{Kind: ValueConst, Type: types.Float, Const: Const{Kind: ConstFloat, Float: x}})
}

func (f *Func) ConstString(s string) ValueID {
	return f.addValue(Value{Kind: ValueConst, Type: types.String, Const: Const{Kind: ConstString, Str: s}})
}

func (f *Func) ConstBool(b bool) ValueID {
	return f.addValue(Value{Kind: ValueConst, Type: types.Bool, Const: Const{Kind: ConstBool, Bool: b}})
}

// GlobalRef returns the value standing for the address of g inside f.
func (f *Func) GlobalRef(g *Global) ValueID {
	if v, ok := f.globals[g.ID]; ok {
		return v
	}
	v := f.addValue(Value{Kind: ValueGlobal, Name: g.Name, Type: g.Type, Global: g.ID})
	f.globals[g.ID] = v
	return v
}

// FuncRef returns the value standing for callee when used as an operand.
func (f *Func) FuncRef(callee *Func) ValueID {
	if v, ok := f.funcs[callee.ID]; ok {
		return v
	}
	v := f.addValue(Value{Kind: ValueFunc, Name: callee.Name, Type: types.Function, Func: callee.ID})
	f.funcs[callee.ID] = v
	return v
}

func (f *Func) addValue(v Value) ValueID {
	id := ValueID(conv32(len(f.values), "len(values)"))
	f.values = append(f.values, v)
	return id
}

// uniqueName keeps display names distinct inside the function. Empty names
// stay empty and are printed by number.
func (f *Func) uniqueName(name string) string {
	if name == "" {
		return ""
	}
	n := f.names[name]
	f.names[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

func (f *Func) Block(id BlockID) *Block {
	if !f.HasBlock(id) {
		return nil
	}
	return &f.blocks[id]
}

func (f *Func) Instr(id InstrID) *Instr {
	if !id.IsValid() || int(id) >= len(f.instrs) {
		return nil
	}
	return &f.instrs[id]
}

func (f *Func) Value(id ValueID) *Value {
	if !f.HasValue(id) {
		return nil
	}
	return &f.values[id]
}

func (f *Func) HasBlock(id BlockID) bool { return id.IsValid() && int(id) < len(f.blocks) }
func (f *Func) HasValue(id ValueID) bool { return id.IsValid() && int(id) < len(f.values) }

// Blocks returns the block handles in creation order.
func (f *Func) Blocks() []BlockID {
	out := make([]BlockID, 0, len(f.blocks)-1)
	for i := 1; i < len(f.blocks); i++ {
		out = append(out, BlockID(i))
	}
	return out
}

func (f *Func) NumBlocks() int { return len(f.blocks) - 1 }
func (f *Func) NumValues() int { return len(f.values) - 1 }

// InstrOf returns the instruction that defines v, if any.
func (f *Func) InstrOf(v ValueID) *Instr {
	val := f.Value(v)
	if val == nil || val.Kind != ValueInstr {
		return nil
	}
	return f.Instr(val.Instr)
}

// TypeOf returns the type of a value.
func (f *Func) TypeOf(v ValueID) types.TypeID {
	val := f.Value(v)
	if val == nil {
		return types.NoTypeID
	}
	return val.Type
}

// resultType computes the type of an instruction from its opcode and
// operands. Aggregates and loads stay Void until the IR tracks element
// types.
func (f *Func) resultType(in *Instr) types.TypeID {
	switch {
	case in.op == OpAlloca:
		return in.allocType
	case in.op.IsOperator():
		if len(in.operands) == 0 {
			return types.Void
		}
		return f.TypeOf(in.operands[0])
	default:
		return types.Void
	}
}
