package format

import (
	"druk/internal/ast"
)

func (p *printer) printStmt(id ast.StmtID) {
	stmt := p.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	w := p.writer
	stmts := p.builder.Stmts
	switch stmt.Kind {
	case ast.StmtFunction:
		fn, _ := stmts.Function(id)
		w.WriteString("function " + fn.Name + "(")
		for i, param := range fn.Params {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(param.Name)
			if param.TypeName != "" {
				w.WriteString(": " + param.TypeName)
			}
		}
		w.WriteString(") ")
		p.printStmt(fn.Body)

	case ast.StmtVar:
		v, _ := stmts.Var(id)
		w.WriteString("var " + v.Name + ": " + v.TypeName)
		if v.Init != ast.NoExprID {
			w.WriteString(" = ")
			p.printExpr(v.Init)
		}
		w.WriteString(";")

	case ast.StmtBlock:
		block, _ := stmts.Block(id)
		if len(block.Stmts) == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteString("{")
		w.Newline()
		w.IndentPush()
		for _, inner := range block.Stmts {
			p.printStmt(inner)
			w.Newline()
		}
		w.IndentPop()
		w.WriteString("}")

	case ast.StmtIf:
		data, _ := stmts.If(id)
		w.WriteString("if (")
		p.printExpr(data.Cond)
		w.WriteString(") ")
		p.printStmt(data.Then)
		if data.Else != ast.NoStmtID {
			w.WriteString(" else ")
			p.printStmt(data.Else)
		}

	case ast.StmtWhile:
		data, _ := stmts.While(id)
		w.WriteString("while (")
		p.printExpr(data.Cond)
		w.WriteString(") ")
		p.printStmt(data.Body)

	case ast.StmtReturn:
		data, _ := stmts.Value(id)
		w.WriteString("return")
		if data.Value != ast.NoExprID {
			w.WriteString(" ")
			p.printExpr(data.Value)
		}
		w.WriteString(";")

	case ast.StmtPrint:
		data, _ := stmts.Value(id)
		w.WriteString("print ")
		p.printExpr(data.Value)
		w.WriteString(";")

	case ast.StmtExpr:
		data, _ := stmts.Value(id)
		p.printExpr(data.Value)
		w.WriteString(";")

	default:
		w.TrimmedCopySpan(stmt.Span)
	}
}
