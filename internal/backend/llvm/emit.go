// Package llvm lowers an ir.Module to textual LLVM IR.
package llvm

import (
	"errors"
	"fmt"
	"strings"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	ltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"druk/internal/ir"
	"druk/internal/target"
	"druk/internal/types"
)

// ErrUnsupported marks IR the native backend cannot express yet.
var ErrUnsupported = errors.New("llvm: unsupported")

const (
	globalPrefix = "g."
	stringPrefix = ".str."
	printfName   = "printf"
)

// Options select the target. Empty fields fall back to the host defaults.
type Options struct {
	Triple            string
	CallingConvention string
	// Entry is emitted as the C main function returning i32.
	Entry string
}

type Emitter struct {
	mod     *ir.Module
	types   *types.Interner
	opts    Options
	out     *lir.Module
	funcs   map[ir.FuncID]*lir.Func
	globals map[ir.GlobalID]*lir.Global
	strings map[string]*lir.Global
	printf  *lir.Func
}

type funcEmitter struct {
	emitter *Emitter
	f       *ir.Func
	fn      *lir.Func
	isEntry bool
	blocks  map[ir.BlockID]*lir.Block
	values  map[ir.ValueID]value.Value
}

func EmitModule(mod *ir.Module, opts Options) (string, error) {
	if mod == nil {
		return "", nil
	}
	if opts.Triple == "" {
		opts.Triple = target.DefaultTriple()
	}
	if opts.CallingConvention == "" {
		opts.CallingConvention = target.CallingConvention()
	}
	if opts.CallingConvention != "ccc" {
		return "", fmt.Errorf("%w: calling convention %q", ErrUnsupported, opts.CallingConvention)
	}
	if opts.Entry == "" {
		opts.Entry = "main"
	}
	e := &Emitter{
		mod:     mod,
		types:   mod.Types,
		opts:    opts,
		out:     lir.NewModule(),
		funcs:   make(map[ir.FuncID]*lir.Func),
		globals: make(map[ir.GlobalID]*lir.Global),
		strings: make(map[string]*lir.Global),
	}
	e.out.TargetTriple = opts.Triple
	e.emitRuntimeDecls()
	if err := e.prepareGlobals(); err != nil {
		return "", err
	}
	if err := e.prepareFunctions(); err != nil {
		return "", err
	}
	for _, f := range mod.Funcs {
		if err := e.emitFunction(f); err != nil {
			return "", fmt.Errorf("llvm: %s: %w", f.Name, err)
		}
	}
	return e.out.String(), nil
}

func (e *Emitter) emitRuntimeDecls() {
	e.printf = e.out.NewFunc(printfName, ltypes.I32, lir.NewParam("format", ltypes.I8Ptr))
	e.printf.Sig.Variadic = true
}

func (e *Emitter) prepareGlobals() error {
	for _, g := range e.mod.Globals {
		ty, err := e.llvmType(g.Type)
		if err != nil {
			return fmt.Errorf("global %s: %w", g.Name, err)
		}
		var init constant.Constant = constant.NewZeroInitializer(ty)
		if g.HasInit {
			if init, err = e.constValue(g.Init); err != nil {
				return fmt.Errorf("global %s: %w", g.Name, err)
			}
		}
		e.globals[g.ID] = e.out.NewGlobalDef(globalPrefix+g.Name, init)
	}
	return nil
}

// checkFuncName rejects function names that would share the LLVM global
// namespace with runtime declarations, globals, string constants or another
// function.
func checkFuncName(name string, seen map[string]bool) error {
	switch {
	case name == printfName:
		return fmt.Errorf("%w: function name %q is reserved for the runtime", ErrUnsupported, name)
	case strings.HasPrefix(name, globalPrefix), strings.HasPrefix(name, stringPrefix):
		return fmt.Errorf("%w: function name %q clashes with module symbols", ErrUnsupported, name)
	case seen[name]:
		return fmt.Errorf("%w: duplicate function %q", ErrUnsupported, name)
	}
	seen[name] = true
	return nil
}

func (e *Emitter) prepareFunctions() error {
	seen := make(map[string]bool, len(e.mod.Funcs))
	for _, f := range e.mod.Funcs {
		if err := checkFuncName(f.Name, seen); err != nil {
			return err
		}
		params := make([]*lir.Param, 0, len(f.Params))
		for _, p := range f.Params {
			ty, err := e.llvmType(f.TypeOf(p))
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			params = append(params, lir.NewParam(f.Value(p).Name, ty))
		}
		ret, err := e.llvmType(f.Result)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		if f.Name == e.opts.Entry {
			ret = ltypes.I32
		}
		e.funcs[f.ID] = e.out.NewFunc(f.Name, ret, params...)
	}
	return nil
}

// stringPtr returns an i8* to a NUL-terminated copy of s.
func (e *Emitter) stringPtr(s string) constant.Constant {
	g, ok := e.strings[s]
	if !ok {
		g = e.out.NewGlobalDef(fmt.Sprintf("%s%d", stringPrefix, len(e.strings)), constant.NewCharArrayFromString(s+"\x00"))
		g.Immutable = true
		e.strings[s] = g
	}
	zero := constant.NewInt(ltypes.I64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}

func (e *Emitter) constValue(c ir.Const) (constant.Constant, error) {
	switch c.Kind {
	case ir.ConstInt:
		return constant.NewInt(ltypes.I64, c.Int), nil
	case ir.ConstFloat:
		return constant.NewFloat(ltypes.Double, c.Float), nil
	case ir.ConstBool:
		return constant.NewBool(c.Bool), nil
	case ir.ConstString:
		return e.stringPtr(c.Str), nil
	default:
		return nil, fmt.Errorf("%w: constant kind %d", ErrUnsupported, c.Kind)
	}
}
