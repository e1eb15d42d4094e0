package symbols

import "druk/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // root of a compilation unit
	ScopeFunction           // parameters of a function
	ScopeBlock              // `{ ... }`
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is one frame of the lexical scope tree. Frames stay in the arena
// after they are exited so that diagnostics and dumps can refer to them.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	NameIndex map[string]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
