package ir

import "druk/internal/types"

// Global is a module-level variable. Init is applied before main runs.
type Global struct {
	ID      GlobalID
	Name    string
	Type    types.TypeID
	Init    Const
	HasInit bool
}

// Module is one lowered compilation unit.
type Module struct {
	Types   *types.Interner
	Funcs   []*Func
	Globals []*Global

	funcIndex map[string]FuncID
}

func NewModule(typesIn *types.Interner) *Module {
	if typesIn == nil {
		typesIn = types.NewInterner()
	}
	return &Module{Types: typesIn, funcIndex: make(map[string]FuncID)}
}

// NewFunc adds a function. Names must be unique within the module.
func (m *Module) NewFunc(name string, result types.TypeID) *Func {
	if _, dup := m.funcIndex[name]; dup {
		panic("ir: duplicate function " + name)
	}
	id := FuncID(conv32(len(m.Funcs)+1, "len(funcs)"))
	fn := newFunc(id, name, result)
	m.Funcs = append(m.Funcs, fn)
	m.funcIndex[name] = id
	return fn
}

func (m *Module) NewGlobal(name string, ty types.TypeID) *Global {
	g := &Global{ID: GlobalID(conv32(len(m.Globals)+1, "len(globals)")), Name: name, Type: ty}
	m.Globals = append(m.Globals, g)
	return g
}

func (m *Module) Func(id FuncID) *Func {
	if !id.IsValid() || int(id) > len(m.Funcs) {
		return nil
	}
	return m.Funcs[id-1]
}

func (m *Module) Global(id GlobalID) *Global {
	if !id.IsValid() || int(id) > len(m.Globals) {
		return nil
	}
	return m.Globals[id-1]
}

// FuncByName finds a function by its source name.
func (m *Module) FuncByName(name string) (*Func, bool) {
	id, ok := m.funcIndex[name]
	if !ok {
		return nil, false
	}
	return m.Func(id), true
}
