package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Builtin descriptors are seeded by NewInterner in this exact order, so their
// IDs are the same in every interner and can be compared directly.
const (
	Void TypeID = iota + 1
	Int
	Float
	String
	Bool
	Function
	Error
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindFloat
	KindString
	KindBool
	KindFunction
	KindError
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFunction:
		return "function"
	case KindError:
		return "error"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact, comparable descriptor.
type Type struct {
	Kind Kind
	Elem TypeID // for arrays
}

// MakeArray describes an array with the given element type.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// IsError reports whether id is the "already diagnosed" sentinel.
func IsError(id TypeID) bool { return id == Error }

// Compatible reports whether a value of type b may be used where a is
// expected. Error unifies with anything so that one root cause does not
// produce a cascade of follow-up diagnostics.
func Compatible(a, b TypeID) bool {
	return a == b || a == Error || b == Error
}
