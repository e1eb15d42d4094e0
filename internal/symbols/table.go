package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"druk/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table is the scope stack used during analysis. It starts with a single
// global scope that can never be exited.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	stack   []ScopeID
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
	}
	t.stack = append(t.stack, t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{}))
	return t
}

// Global returns the root scope.
func (t *Table) Global() ScopeID { return t.stack[0] }

// Current returns the innermost open scope.
func (t *Table) Current() ScopeID { return t.stack[len(t.stack)-1] }

// Depth reports the number of open scopes, the global one included.
func (t *Table) Depth() int { return len(t.stack) }

// EnterScope pushes a new frame nested in the current one.
func (t *Table) EnterScope(kind ScopeKind, span source.Span) ScopeID {
	id := t.Scopes.New(kind, t.Current(), span)
	t.stack = append(t.stack, id)
	return id
}

// ExitScope pops the innermost frame. Popping the global scope means the
// caller did not pair its Enter/Exit calls and panics.
func (t *Table) ExitScope() {
	if len(t.stack) <= 1 {
		panic("symbols: ExitScope without matching EnterScope")
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// Define inserts sym into the innermost scope. It returns false and leaves
// the table untouched when the name already exists in that scope; bindings of
// outer scopes are shadowed.
func (t *Table) Define(sym Symbol) (SymbolID, bool) {
	scopeID := t.Current()
	scope := t.Scopes.Get(scopeID)
	if existing, ok := scope.NameIndex[sym.Name]; ok {
		return existing, false
	}
	sym.Scope = scopeID
	if scopeID == t.Global() {
		sym.Flags |= SymbolFlagGlobal
	}
	id := t.Symbols.New(&sym)
	scope.NameIndex[sym.Name] = id
	scope.Symbols = append(scope.Symbols, id)
	return id, true
}

// Lookup resolves name from the innermost open scope outwards.
func (t *Table) Lookup(name string) (SymbolID, *Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		scope := t.Scopes.Get(t.stack[i])
		if id, ok := scope.NameIndex[name]; ok {
			return id, t.Symbols.Get(id), true
		}
	}
	return NoSymbolID, nil, false
}

// LookupLocal resolves name in the innermost scope only.
func (t *Table) LookupLocal(name string) (SymbolID, *Symbol, bool) {
	scope := t.Scopes.Get(t.Current())
	if id, ok := scope.NameIndex[name]; ok {
		return id, t.Symbols.Get(id), true
	}
	return NoSymbolID, nil, false
}

// Validate checks arena consistency.
func (t *Table) Validate() error {
	var errs []error
	for i := 1; i <= t.Scopes.Len(); i++ {
		raw, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("scope id overflow: %w", err))
		}
		id := ScopeID(raw)
		scope := t.Scopes.Get(id)
		if scope.Parent.IsValid() && t.Scopes.Get(scope.Parent) == nil {
			errs = append(errs, fmt.Errorf("scope %d: dangling parent %d", id, scope.Parent))
		}
		for name, symID := range scope.NameIndex {
			sym := t.Symbols.Get(symID)
			switch {
			case sym == nil:
				errs = append(errs, fmt.Errorf("scope %d: %q maps to missing symbol %d", id, name, symID))
			case sym.Name != name:
				errs = append(errs, fmt.Errorf("scope %d: %q maps to symbol named %q", id, name, sym.Name))
			case sym.Scope != id:
				errs = append(errs, fmt.Errorf("scope %d: symbol %q owned by scope %d", id, name, sym.Scope))
			}
		}
	}
	return errors.Join(errs...)
}
