package llvm

import (
	"fmt"

	ltypes "github.com/llir/llvm/ir/types"

	"druk/internal/types"
)

func (e *Emitter) llvmType(id types.TypeID) (ltypes.Type, error) {
	switch id {
	case types.Void:
		return ltypes.Void, nil
	case types.Int:
		return ltypes.I64, nil
	case types.Float:
		return ltypes.Double, nil
	case types.Bool:
		return ltypes.I1, nil
	case types.String:
		return ltypes.I8Ptr, nil
	}
	name := fmt.Sprintf("type#%d", id)
	if e.types != nil {
		name = e.types.Name(id)
	}
	return nil, fmt.Errorf("%w: type %s", ErrUnsupported, name)
}

func isInt(t ltypes.Type) bool {
	it, ok := t.(*ltypes.IntType)
	return ok && it.BitSize == 64
}

func isBool(t ltypes.Type) bool {
	it, ok := t.(*ltypes.IntType)
	return ok && it.BitSize == 1
}

func isFloat(t ltypes.Type) bool {
	ft, ok := t.(*ltypes.FloatType)
	return ok && ft.Kind == ltypes.FloatKindDouble
}

func isString(t ltypes.Type) bool {
	return t.Equal(ltypes.I8Ptr)
}
