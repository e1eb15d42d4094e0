package ir

// FuncID identifies a function inside a Module. 0 is reserved.
type FuncID uint32

// GlobalID identifies a module-level variable. 0 is reserved.
type GlobalID uint32

// BlockID identifies a basic block inside its Func. 0 is reserved.
type BlockID uint32

// InstrID identifies an instruction inside its Func. 0 is reserved.
type InstrID uint32

// ValueID identifies a value inside its Func. 0 is reserved.
type ValueID uint32

const (
	NoFuncID   FuncID   = 0
	NoGlobalID GlobalID = 0
	NoBlockID  BlockID  = 0
	NoInstrID  InstrID  = 0
	NoValueID  ValueID  = 0
)

func (id FuncID) IsValid() bool   { return id != NoFuncID }
func (id GlobalID) IsValid() bool { return id != NoGlobalID }
func (id BlockID) IsValid() bool  { return id != NoBlockID }
func (id InstrID) IsValid() bool  { return id != NoInstrID }
func (id ValueID) IsValid() bool  { return id != NoValueID }
