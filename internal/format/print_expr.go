package format

import (
	"druk/internal/ast"
)

// sourceOp spells a binary operator the way the lexer reads it.
func sourceOp(op ast.ExprBinaryOp) string {
	switch op {
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return op.String()
	}
}

func (p *printer) printExpr(id ast.ExprID) {
	expr := p.builder.Exprs.Get(id)
	if expr == nil {
		return
	}
	w := p.writer
	exprs := p.builder.Exprs
	switch expr.Kind {
	case ast.ExprLit:
		// keeps the literal's original spelling and escapes
		w.CopySpan(expr.Span)

	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		w.WriteString(ident.Name)

	case ast.ExprBinary, ast.ExprLogical:
		data, _ := exprs.Binary(id)
		p.printExpr(data.Left)
		w.WriteString(" " + sourceOp(data.Op) + " ")
		p.printExpr(data.Right)

	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		w.WriteString(data.Op.String())
		if inner, ok := exprs.Unary(data.Operand); ok && data.Op == ast.UnaryNeg && inner.Op == ast.UnaryNeg {
			w.WriteString(" ")
		}
		p.printExpr(data.Operand)

	case ast.ExprGroup:
		data, _ := exprs.Group(id)
		w.WriteString("(")
		p.printExpr(data.Inner)
		w.WriteString(")")

	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		p.printExpr(data.Target)
		w.WriteString(" = ")
		p.printExpr(data.Value)

	case ast.ExprCall:
		data, _ := exprs.Call(id)
		p.printExpr(data.Callee)
		w.WriteString("(")
		p.printList(data.Args)
		w.WriteString(")")

	case ast.ExprArray:
		data, _ := exprs.Array(id)
		w.WriteString("[")
		p.printList(data.Elems)
		w.WriteString("]")

	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		p.printExpr(data.Target)
		w.WriteString("[")
		p.printExpr(data.Index)
		w.WriteString("]")

	default:
		w.TrimmedCopySpan(expr.Span)
	}
}

func (p *printer) printList(ids []ast.ExprID) {
	for i, id := range ids {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printExpr(id)
	}
}
