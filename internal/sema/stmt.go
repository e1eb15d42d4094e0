package sema

import (
	"fmt"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/symbols"
	"druk/internal/types"
)

func (tc *typeChecker) walkStmt(id ast.StmtID) {
	stmt := tc.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtFunction:
		tc.walkFunction(id)
	case ast.StmtVar:
		tc.walkVar(id)
	case ast.StmtBlock:
		block, _ := tc.builder.Stmts.Block(id)
		tc.table.EnterScope(symbols.ScopeBlock, stmt.Span)
		for _, inner := range block.Stmts {
			tc.walkStmt(inner)
		}
		tc.table.ExitScope()
	case ast.StmtIf:
		data, _ := tc.builder.Stmts.If(id)
		tc.ensureBoolContext(data.Cond, "Condition must be a boolean")
		tc.walkStmt(data.Then)
		if data.Else.IsValid() {
			tc.walkStmt(data.Else)
		}
	case ast.StmtWhile:
		data, _ := tc.builder.Stmts.While(id)
		tc.ensureBoolContext(data.Cond, "Loop condition must be a boolean")
		tc.walkStmt(data.Body)
	case ast.StmtReturn, ast.StmtPrint, ast.StmtExpr:
		data, _ := tc.builder.Stmts.Value(id)
		if data.Value.IsValid() {
			tc.typeExpr(data.Value)
		}
	default:
		panic(fmt.Sprintf("sema: unexpected statement kind %s", stmt.Kind))
	}
}

func (tc *typeChecker) walkFunction(id ast.StmtID) {
	stmt := tc.builder.Stmts.Get(id)
	fn, _ := tc.builder.Stmts.Function(id)

	symID, ok := tc.table.Define(symbols.Symbol{
		Name: fn.Name,
		Kind: symbols.SymbolFunction,
		Span: fn.NameSpan,
		Type: types.Function,
	})
	if ok {
		tc.result.Decls[id] = symID
	} else {
		tc.report(diag.SemaDuplicateSymbol, fn.NameSpan, fmt.Sprintf("Function '%s' already defined", fn.Name))
	}

	tc.table.EnterScope(symbols.ScopeFunction, stmt.Span)
	params := make([]symbols.SymbolID, 0, len(fn.Params))
	for _, param := range fn.Params {
		// declared parameter types are not bound yet; every parameter is Int
		paramID, ok := tc.table.Define(symbols.Symbol{
			Name: param.Name,
			Kind: symbols.SymbolParam,
			Span: param.Span,
			Type: types.Int,
		})
		if !ok {
			tc.report(diag.SemaDuplicateParam, param.Span, "Duplicate parameter name")
			continue
		}
		params = append(params, paramID)
	}
	tc.result.Params[id] = params
	tc.walkStmt(fn.Body)
	tc.table.ExitScope()
}

func (tc *typeChecker) walkVar(id ast.StmtID) {
	v, _ := tc.builder.Stmts.Var(id)
	declared := declaredType(v.TypeName)

	if v.Init.IsValid() {
		initType := tc.typeExpr(v.Init)
		if !types.Compatible(declared, initType) {
			tc.reportWithHint(diag.SemaTypeMismatch, tc.builder.Exprs.Get(v.Init).Span,
				"Type mismatch in initialization",
				fmt.Sprintf("'%s' is declared as %s but the initializer is %s", v.Name, tc.types.Name(declared), tc.types.Name(initType)))
		}
	}

	symID, ok := tc.table.Define(symbols.Symbol{
		Name: v.Name,
		Kind: symbols.SymbolVar,
		Span: v.NameSpan,
		Type: declared,
	})
	if !ok {
		tc.report(diag.SemaDuplicateSymbol, v.NameSpan, fmt.Sprintf("Variable '%s' already defined", v.Name))
		return
	}
	tc.result.Decls[id] = symID
}

// declaredType maps a type annotation to a type. Unknown names are a grammar
// gap, not a user error, and become Error without a diagnostic.
func declaredType(name string) types.TypeID {
	switch name {
	case "Number":
		return types.Int
	case "String":
		return types.String
	case "Boolean":
		return types.Bool
	default:
		return types.Error
	}
}

// ensureBoolContext types cond and reports msg unless it is Bool or Error.
func (tc *typeChecker) ensureBoolContext(cond ast.ExprID, msg string) {
	ty := tc.typeExpr(cond)
	if ty == types.Bool || ty == types.Error {
		return
	}
	tc.reportWithHint(diag.SemaInvalidBoolContext, tc.builder.Exprs.Get(cond).Span, msg,
		"found "+tc.types.Name(ty))
}
