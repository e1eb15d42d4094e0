package symbols

import (
	"druk/internal/source"
	"druk/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolVar
	SymbolParam
	SymbolBuiltin
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolVar:
		return "var"
	case SymbolParam:
		return "param"
	case SymbolBuiltin:
		return "builtin"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagGlobal SymbolFlags = 1 << iota
	SymbolFlagBuiltin
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 2)
	if f&SymbolFlagGlobal != 0 {
		labels = append(labels, "global")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	return labels
}

// Symbol describes a named entity available in a scope. Symbols are never
// mutated after Define.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Type  types.TypeID
	Flags SymbolFlags
}
