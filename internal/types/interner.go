package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Interner provides stable TypeIDs by hashing structural descriptors.
// Builtins always occupy the same IDs (see Void..Error).
type Interner struct {
	types []Type
	index map[Type]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 16), // index 0 reserved for NoTypeID
		index: make(map[Type]TypeID, 16),
	}
	seed := []struct {
		want TypeID
		kind Kind
	}{
		{Void, KindVoid},
		{Int, KindInt},
		{Float, KindFloat},
		{String, KindString},
		{Bool, KindBool},
		{Function, KindFunction},
		{Error, KindError},
	}
	for _, s := range seed {
		if got := in.Intern(Type{Kind: s.kind}); got != s.want {
			panic(fmt.Sprintf("types: builtin %s seeded as %d, want %d", s.kind, got, s.want))
		}
	}
	return in
}

// Array returns the interned array type with the given element.
func (in *Interner) Array(elem TypeID) TypeID {
	return in.Intern(MakeArray(elem))
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned descriptors.
func (in *Interner) Len() int { return len(in.types) - 1 }

// Name renders a type for diagnostics and IR dumps.
func (in *Interner) Name(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<none>"
	}
	switch tt.Kind {
	case KindVoid:
		return "Void"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindFunction:
		return "Function"
	case KindError:
		return "Error"
	case KindArray:
		return "[" + in.Name(tt.Elem) + "]"
	default:
		return tt.Kind.String()
	}
}
