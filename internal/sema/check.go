package sema

import (
	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/source"
	"druk/internal/symbols"
	"druk/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
}

// Result stores semantic artefacts produced by the checker. Expression types
// are written into the AST type slots.
type Result struct {
	TypeInterner *types.Interner
	Table        *symbols.Table
	// Bindings maps every resolved VariableExpr to its symbol. Builtins and
	// undefined names have no entry.
	Bindings map[ast.ExprID]symbols.SymbolID
	// Decls maps successfully defined functions and variables to their symbol.
	Decls map[ast.StmtID]symbols.SymbolID
	// Params lists the parameter symbols of each function declaration.
	Params map[ast.StmtID][]symbols.SymbolID
	Errors int
}

// Check type-checks every declaration of file. It never stops early: each
// problem is reported and analysis continues with the Error type.
func Check(builder *ast.Builder, file *ast.File, opts Options) Result {
	res := Result{
		Table:    symbols.NewTable(symbols.Hints{}),
		Bindings: make(map[ast.ExprID]symbols.SymbolID),
		Decls:    make(map[ast.StmtID]symbols.SymbolID),
		Params:   make(map[ast.StmtID][]symbols.SymbolID),
	}
	if opts.Types != nil {
		res.TypeInterner = opts.Types
	} else {
		res.TypeInterner = types.NewInterner()
	}
	if builder == nil || file == nil {
		return res
	}

	tc := typeChecker{
		builder:  builder,
		reporter: opts.Reporter,
		types:    res.TypeInterner,
		table:    res.Table,
		result:   &res,
	}
	for _, decl := range file.Decls {
		tc.walkStmt(decl)
	}
	if depth := tc.table.Depth(); depth != 1 {
		panic("sema: unbalanced scopes after check")
	}
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	reporter diag.Reporter
	types    *types.Interner
	table    *symbols.Table
	result   *Result
}

func (tc *typeChecker) report(code diag.Code, span source.Span, msg string) {
	tc.result.Errors++
	diag.ReportError(tc.reporter, code, span, msg).Emit()
}

func (tc *typeChecker) reportWithHint(code diag.Code, span source.Span, msg, hint string) {
	tc.result.Errors++
	diag.ReportError(tc.reporter, code, span, msg).WithHint(hint).Emit()
}
