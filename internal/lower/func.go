package lower

import (
	"druk/internal/ast"
	"druk/internal/ir"
	"druk/internal/symbols"
	"druk/internal/types"
)

// funcState is the per-function lowering context.
type funcState struct {
	l     *lowerer
	fn    *ir.Func
	b     *ir.Builder
	slots map[symbols.SymbolID]ir.ValueID
}

func (l *lowerer) newFuncState(fn *ir.Func) *funcState {
	st := &funcState{
		l:     l,
		fn:    fn,
		b:     ir.NewBuilder(fn),
		slots: make(map[symbols.SymbolID]ir.ValueID),
	}
	st.b.SetInsertPoint(fn.NewBlock("entry"))
	return st
}

// enterLive makes sure the builder points at an open block. Code following a
// terminator goes into a fresh block nothing branches to.
func (st *funcState) enterLive() {
	if st.b.Terminated() {
		st.b.SetInsertPoint(st.fn.NewBlock("unreachable"))
	}
}

// finish closes the last block with an implicit return.
func (st *funcState) finish() {
	if st.b.Terminated() {
		return
	}
	if st.fn.Result == types.Void {
		st.b.CreateRet(ir.NoValueID)
		return
	}
	st.b.CreateRet(st.fn.ConstInt(0))
}

func (st *funcState) jump(dest ir.BlockID) {
	if !st.b.Terminated() {
		st.b.CreateBranch(dest)
	}
}

func (st *funcState) lowerStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	stmts := st.l.builder.Stmts
	stmt := stmts.Get(id)
	switch stmt.Kind {
	case ast.StmtFunction:
		st.l.lowerFunction(id)

	case ast.StmtVar:
		st.enterLive()
		v, _ := stmts.Var(id)
		symID, ok := st.l.sem.Decls[id]
		if !ok {
			st.l.errorf("variable %q has no symbol", v.Name)
			return
		}
		sym := st.l.symbol(symID)
		var init ir.ValueID
		if v.Init.IsValid() {
			init = st.lowerExpr(v.Init)
		}
		slot := st.b.CreateAlloca(sym.Type, v.Name)
		st.slots[symID] = slot
		if init.IsValid() {
			st.b.CreateStore(init, slot)
		}

	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		for _, child := range data.Stmts {
			st.lowerStmt(child)
		}

	case ast.StmtIf:
		st.enterLive()
		data, _ := stmts.If(id)
		cond := st.lowerExpr(data.Cond)
		then := st.fn.NewBlock("if.then")
		merge := st.fn.NewBlock("if.end")
		els := merge
		if data.Else.IsValid() {
			els = st.fn.NewBlock("if.else")
		}
		st.b.CreateCondBranch(cond, then, els)

		st.b.SetInsertPoint(then)
		st.lowerStmt(data.Then)
		st.jump(merge)

		if data.Else.IsValid() {
			st.b.SetInsertPoint(els)
			st.lowerStmt(data.Else)
			st.jump(merge)
		}
		st.b.SetInsertPoint(merge)

	case ast.StmtWhile:
		st.enterLive()
		data, _ := stmts.While(id)
		header := st.fn.NewBlock("while.cond")
		body := st.fn.NewBlock("while.body")
		exit := st.fn.NewBlock("while.end")
		st.b.CreateBranch(header)

		st.b.SetInsertPoint(header)
		cond := st.lowerExpr(data.Cond)
		st.b.CreateCondBranch(cond, body, exit)

		st.b.SetInsertPoint(body)
		st.lowerStmt(data.Body)
		st.jump(header)

		st.b.SetInsertPoint(exit)

	case ast.StmtReturn:
		st.enterLive()
		data, _ := stmts.Value(id)
		if data.Value.IsValid() {
			st.b.CreateRet(st.lowerExpr(data.Value))
		} else {
			st.b.CreateRet(ir.NoValueID)
		}

	case ast.StmtPrint:
		st.enterLive()
		data, _ := stmts.Value(id)
		st.b.CreatePrint(st.lowerExpr(data.Value))

	case ast.StmtExpr:
		st.enterLive()
		data, _ := stmts.Value(id)
		st.lowerExpr(data.Value)

	default:
		st.l.errorf("unexpected statement kind %s", stmt.Kind)
	}
}
