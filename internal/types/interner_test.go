package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	cases := []struct {
		id   TypeID
		kind Kind
		name string
	}{
		{Void, KindVoid, "Void"},
		{Int, KindInt, "Int"},
		{Float, KindFloat, "Float"},
		{String, KindString, "String"},
		{Bool, KindBool, "Bool"},
		{Function, KindFunction, "Function"},
		{Error, KindError, "Error"},
	}
	for _, c := range cases {
		tt, ok := in.Lookup(c.id)
		if !ok {
			t.Fatalf("builtin %s missing", c.name)
		}
		if tt.Kind != c.kind {
			t.Fatalf("expected %v kind, got %v", c.kind, tt.Kind)
		}
		if got := in.Name(c.id); got != c.name {
			t.Fatalf("expected name %q, got %q", c.name, got)
		}
	}
}

func TestBuiltinIDsAreStableAcrossInterners(t *testing.T) {
	a, b := NewInterner(), NewInterner()
	a.Array(Int)
	for id := Void; id <= Error; id++ {
		ta, _ := a.Lookup(id)
		tb, _ := b.Lookup(id)
		if ta != tb {
			t.Fatalf("builtin %d differs between interners: %v vs %v", id, ta, tb)
		}
	}
}

func TestInternerDeduplicatesArrays(t *testing.T) {
	in := NewInterner()
	arr1 := in.Array(String)
	arr2 := in.Intern(MakeArray(String))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	if in.Array(Int) == arr1 {
		t.Fatalf("arrays of different element types must differ")
	}
	if got := in.Name(in.Array(arr1)); got != "[[String]]" {
		t.Fatalf("unexpected nested array name %q", got)
	}
}

func TestCompatibleTreatsErrorAsWildcard(t *testing.T) {
	if !Compatible(Int, Int) {
		t.Fatalf("identical types must be compatible")
	}
	if Compatible(Int, String) {
		t.Fatalf("Int and String must not be compatible")
	}
	if !Compatible(Error, String) || !Compatible(Bool, Error) {
		t.Fatalf("Error must unify with anything")
	}
	if Error == Int || Error == String {
		t.Fatalf("Error must stay distinct from other types")
	}
}

func TestInvalidKindIsNotInterned(t *testing.T) {
	in := NewInterner()
	before := in.Len()
	if id := in.Intern(Type{}); id != NoTypeID {
		t.Fatalf("expected NoTypeID, got %d", id)
	}
	if in.Len() != before {
		t.Fatalf("invalid descriptor must not be stored")
	}
}
