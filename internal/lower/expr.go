package lower

import (
	"druk/internal/ast"
	"druk/internal/ir"
	"druk/internal/symbols"
)

var binaryOpcodes = map[ast.ExprBinaryOp]ir.Opcode{
	ast.OpAdd:       ir.OpAdd,
	ast.OpSub:       ir.OpSub,
	ast.OpMul:       ir.OpMul,
	ast.OpDiv:       ir.OpDiv,
	ast.OpMod:       ir.OpMod,
	ast.OpEq:        ir.OpEqual,
	ast.OpNotEq:     ir.OpNotEqual,
	ast.OpLess:      ir.OpLessThan,
	ast.OpLessEq:    ir.OpLessEqual,
	ast.OpGreater:   ir.OpGreaterThan,
	ast.OpGreaterEq: ir.OpGreaterEqual,
	ast.OpAnd:       ir.OpAnd,
	ast.OpOr:        ir.OpOr,
}

func (st *funcState) lowerExpr(id ast.ExprID) ir.ValueID {
	exprs := st.l.builder.Exprs
	expr := exprs.Get(id)
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := exprs.Literal(id)
		c, ok := st.l.constant(lit)
		if !ok {
			return st.fn.ConstInt(0)
		}
		return st.constValue(c)

	case ast.ExprIdent:
		return st.lowerIdent(id)

	case ast.ExprBinary, ast.ExprLogical:
		data, _ := exprs.Binary(id)
		lhs := st.lowerExpr(data.Left)
		rhs := st.lowerExpr(data.Right)
		return st.b.CreateBinary(binaryOpcodes[data.Op], lhs, rhs, "")

	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		operand := st.lowerExpr(data.Operand)
		op := ir.OpNeg
		if data.Op == ast.UnaryNot {
			op = ir.OpNot
		}
		return st.b.CreateUnary(op, operand, "")

	case ast.ExprGroup:
		data, _ := exprs.Group(id)
		return st.lowerExpr(data.Inner)

	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		if index, ok := exprs.Index(data.Target); ok {
			arr := st.lowerExpr(index.Target)
			idx := st.lowerExpr(index.Index)
			val := st.lowerExpr(data.Value)
			st.b.CreateIndexSet(arr, idx, val)
			return val
		}
		val := st.lowerExpr(data.Value)
		if slot, ok := st.slotOf(data.Target); ok {
			st.b.CreateStore(val, slot)
		}
		return val

	case ast.ExprCall:
		return st.lowerCall(id)

	case ast.ExprArray:
		data, _ := exprs.Array(id)
		elems := make([]ir.ValueID, 0, len(data.Elems))
		for _, e := range data.Elems {
			elems = append(elems, st.lowerExpr(e))
		}
		return st.b.CreateBuildArray(elems, "")

	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		arr := st.lowerExpr(data.Target)
		idx := st.lowerExpr(data.Index)
		return st.b.CreateIndex(arr, idx, "")

	default:
		st.l.errorf("unexpected expression kind %s", expr.Kind)
		return st.fn.ConstInt(0)
	}
}

func (st *funcState) constValue(c ir.Const) ir.ValueID {
	switch c.Kind {
	case ir.ConstFloat:
		return st.fn.ConstFloat(c.Float)
	case ir.ConstString:
		return st.fn.ConstString(c.Str)
	case ir.ConstBool:
		return st.fn.ConstBool(c.Bool)
	default:
		return st.fn.ConstInt(c.Int)
	}
}

// lowerIdent reads a name. Functions become function references and builtins
// are referenced by name.
func (st *funcState) lowerIdent(id ast.ExprID) ir.ValueID {
	ident, _ := st.l.builder.Exprs.Ident(id)
	symID, bound := st.l.sem.Bindings[id]
	if !bound {
		if symbols.IsBuiltin(ident.Name) {
			return st.fn.ConstString(ident.Name)
		}
		st.l.errorf("unresolved name %q", ident.Name)
		return st.fn.ConstInt(0)
	}
	if fn, ok := st.l.funcs[symID]; ok {
		return st.fn.FuncRef(fn)
	}
	slot, ok := st.slotOf(id)
	if !ok {
		return st.fn.ConstInt(0)
	}
	return st.b.CreateLoad(slot, "")
}

// slotOf returns the storage of the variable an identifier is bound to.
func (st *funcState) slotOf(id ast.ExprID) (ir.ValueID, bool) {
	ident, _ := st.l.builder.Exprs.Ident(id)
	symID, ok := st.l.sem.Bindings[id]
	if !ok || ident == nil {
		st.l.errorf("assignment target %d is not a variable", id)
		return ir.NoValueID, false
	}
	if _, ok := st.l.funcs[symID]; ok {
		st.l.errorf("cannot assign to function '%s'", ident.Name)
		return ir.NoValueID, false
	}
	if slot, ok := st.slots[symID]; ok {
		return slot, true
	}
	if g, ok := st.l.globals[symID]; ok {
		return st.fn.GlobalRef(g), true
	}
	st.l.errorf("%s cannot capture local %q", st.fn.Name, ident.Name)
	return ir.NoValueID, false
}

// lowerCall picks Call for functions of this unit, Len for the len builtin
// and DynamicCall for everything else.
func (st *funcState) lowerCall(id ast.ExprID) ir.ValueID {
	exprs := st.l.builder.Exprs
	data, _ := exprs.Call(id)

	if ident, ok := exprs.Ident(data.Callee); ok {
		symID, bound := st.l.sem.Bindings[data.Callee]
		if fn, known := st.l.funcs[symID]; bound && known {
			return st.b.CreateCall(fn, st.lowerArgs(data.Args), "")
		}
		if !bound && ident.Name == "len" && len(data.Args) == 1 {
			return st.b.CreateLen(st.lowerExpr(data.Args[0]), "")
		}
	}
	callee := st.lowerExpr(data.Callee)
	return st.b.CreateDynamicCall(callee, st.lowerArgs(data.Args), "")
}

func (st *funcState) lowerArgs(args []ast.ExprID) []ir.ValueID {
	out := make([]ir.ValueID, 0, len(args))
	for _, arg := range args {
		out = append(out, st.lowerExpr(arg))
	}
	return out
}
