package ast

import (
	"fmt"

	"druk/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtFunction
	StmtVar
	StmtBlock
	StmtIf
	StmtWhile
	StmtReturn
	StmtPrint
	StmtExpr
)

func (k StmtKind) String() string {
	switch k {
	case StmtFunction:
		return "Function"
	case StmtVar:
		return "Variable"
	case StmtBlock:
		return "Block"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "Loop"
	case StmtReturn:
		return "Return"
	case StmtPrint:
		return "Print"
	case StmtExpr:
		return "ExpressionStmt"
	default:
		return fmt.Sprintf("StmtKind(%d)", k)
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// FnParam is one declared parameter. The annotation is kept for tooling but
// parameters always bind as Int.
type FnParam struct {
	Name     string
	Span     source.Span
	TypeName string
	TypeSpan source.Span
}

type StmtFunctionData struct {
	Name     string
	NameSpan source.Span
	Params   []FnParam
	Body     StmtID // StmtBlock
}

type StmtVarData struct {
	Name     string
	NameSpan source.Span
	TypeName string
	TypeSpan source.Span
	Init     ExprID // NoExprID without initializer
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID without else
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

// StmtValueData backs Return (Value may be NoExprID), Print and ExpressionStmt.
type StmtValueData struct {
	Value ExprID
}

type Stmts struct {
	Arena     *Arena[Stmt]
	Functions *Arena[StmtFunctionData]
	Vars      *Arena[StmtVarData]
	Blocks    *Arena[StmtBlockData]
	Ifs       *Arena[StmtIfData]
	Whiles    *Arena[StmtWhileData]
	Values    *Arena[StmtValueData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Functions: NewArena[StmtFunctionData](capHint / 8),
		Vars:      NewArena[StmtVarData](capHint / 2),
		Blocks:    NewArena[StmtBlockData](capHint / 4),
		Ifs:       NewArena[StmtIfData](capHint / 8),
		Whiles:    NewArena[StmtWhileData](capHint / 8),
		Values:    NewArena[StmtValueData](capHint / 2),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewFunction(span source.Span, data StmtFunctionData) StmtID {
	return s.new(StmtFunction, span, s.Functions.Allocate(data))
}

func (s *Stmts) Function(id StmtID) (*StmtFunctionData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFunction {
		return nil, false
	}
	return s.Functions.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewVar(span source.Span, data StmtVarData) StmtID {
	return s.new(StmtVar, span, s.Vars.Allocate(data))
}

func (s *Stmts) Var(id StmtID) (*StmtVarData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtVar {
		return nil, false
	}
	return s.Vars.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{
		Stmts: append([]StmtID(nil), stmts...),
	}))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body}))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(uint32(st.Payload)), true
}

// NewValue creates a Return, Print or ExpressionStmt node.
func (s *Stmts) NewValue(kind StmtKind, span source.Span, value ExprID) StmtID {
	switch kind {
	case StmtReturn, StmtPrint, StmtExpr:
	default:
		panic(fmt.Sprintf("ast: NewValue with kind %s", kind))
	}
	return s.new(kind, span, s.Values.Allocate(StmtValueData{Value: value}))
}

// Value returns the expression held by Return, Print and ExpressionStmt.
func (s *Stmts) Value(id StmtID) (*StmtValueData, bool) {
	st := s.Get(id)
	if st == nil {
		return nil, false
	}
	switch st.Kind {
	case StmtReturn, StmtPrint, StmtExpr:
		return s.Values.Get(uint32(st.Payload)), true
	}
	return nil, false
}
