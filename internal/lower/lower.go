// Package lower turns a checked AST into an ir.Module.
package lower

import (
	"errors"
	"fmt"
	"strconv"

	"druk/internal/ast"
	"druk/internal/ir"
	"druk/internal/sema"
	"druk/internal/symbols"
	"druk/internal/types"
)

// MainFunc is the name of the function holding top-level statements.
const MainFunc = "main"

// ErrUnitHasErrors is returned for units that failed semantic analysis.
var ErrUnitHasErrors = errors.New("lower: compilation unit has errors")

// Module lowers file. Top-level variables become globals, functions become
// ir.Funcs and every other top-level statement runs inside MainFunc.
func Module(builder *ast.Builder, file *ast.File, sem *sema.Result) (*ir.Module, error) {
	if sem == nil || builder == nil || file == nil {
		return nil, errors.New("lower: missing input")
	}
	if sem.Errors > 0 {
		return nil, fmt.Errorf("%w (%d)", ErrUnitHasErrors, sem.Errors)
	}
	l := &lowerer{
		builder: builder,
		sem:     sem,
		mod:     ir.NewModule(sem.TypeInterner),
		funcs:   make(map[symbols.SymbolID]*ir.Func),
		globals: make(map[symbols.SymbolID]*ir.Global),
	}
	main := l.mod.NewFunc(MainFunc, types.Void)
	st := l.newFuncState(main)

	for _, decl := range file.Decls {
		if stmt := builder.Stmts.Get(decl); stmt != nil && stmt.Kind == ast.StmtVar {
			l.lowerGlobal(st, decl)
			continue
		}
		st.lowerStmt(decl)
	}
	st.finish()

	if len(l.errs) > 0 {
		return nil, errors.Join(l.errs...)
	}
	if err := ir.Validate(l.mod); err != nil {
		return nil, fmt.Errorf("lower: invalid module: %w", err)
	}
	return l.mod, nil
}

type lowerer struct {
	builder *ast.Builder
	sem     *sema.Result
	mod     *ir.Module
	funcs   map[symbols.SymbolID]*ir.Func
	globals map[symbols.SymbolID]*ir.Global
	errs    []error
}

func (l *lowerer) errorf(format string, args ...any) {
	l.errs = append(l.errs, fmt.Errorf("lower: "+format, args...))
}

func (l *lowerer) symbol(id symbols.SymbolID) *symbols.Symbol {
	return l.sem.Table.Symbols.Get(id)
}

// funcName picks a module-unique name for a source function.
func (l *lowerer) funcName(name string) string {
	if _, taken := l.mod.FuncByName(name); !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "." + strconv.Itoa(i)
		if _, taken := l.mod.FuncByName(candidate); !taken {
			return candidate
		}
	}
}

func (l *lowerer) lowerGlobal(st *funcState, id ast.StmtID) {
	v, _ := l.builder.Stmts.Var(id)
	symID, ok := l.sem.Decls[id]
	if !ok {
		l.errorf("global %q has no symbol", v.Name)
		return
	}
	g := l.mod.NewGlobal(v.Name, l.symbol(symID).Type)
	l.globals[symID] = g
	if !v.Init.IsValid() {
		return
	}
	if lit, ok := l.builder.Exprs.Literal(v.Init); ok {
		if c, ok := l.constant(lit); ok {
			g.Init, g.HasInit = c, true
			return
		}
	}
	st.enterLive()
	val := st.lowerExpr(v.Init)
	st.b.CreateStore(val, st.fn.GlobalRef(g))
}

func (l *lowerer) lowerFunction(id ast.StmtID) {
	data, _ := l.builder.Stmts.Function(id)
	symID, ok := l.sem.Decls[id]
	if !ok {
		l.errorf("function %q has no symbol", data.Name)
		return
	}
	fn := l.mod.NewFunc(l.funcName(data.Name), types.Int)
	l.funcs[symID] = fn

	st := l.newFuncState(fn)
	for _, paramSym := range l.sem.Params[id] {
		sym := l.symbol(paramSym)
		param := fn.AddParam(sym.Name, sym.Type)
		slot := st.b.CreateAlloca(sym.Type, sym.Name)
		st.b.CreateStore(param, slot)
		st.slots[paramSym] = slot
	}
	st.lowerStmt(data.Body)
	st.finish()
}

func (l *lowerer) constant(lit *ast.ExprLiteralData) (ir.Const, bool) {
	switch lit.Kind {
	case ast.ExprLitInt:
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			l.errorf("integer literal %q: %v", lit.Value, err)
			return ir.Const{}, false
		}
		return ir.Const{Kind: ir.ConstInt, Int: n}, true
	case ast.ExprLitFloat:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			l.errorf("float literal %q: %v", lit.Value, err)
			return ir.Const{}, false
		}
		return ir.Const{Kind: ir.ConstFloat, Float: f}, true
	case ast.ExprLitString:
		return ir.Const{Kind: ir.ConstString, Str: lit.Value}, true
	case ast.ExprLitBool:
		return ir.Const{Kind: ir.ConstBool, Bool: lit.Value == "true"}, true
	default:
		l.errorf("unexpected literal kind %d", lit.Kind)
		return ir.Const{}, false
	}
}
