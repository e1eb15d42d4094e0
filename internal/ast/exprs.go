package ast

import (
	"fmt"

	"druk/internal/source"
	"druk/internal/types"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Idents   *Arena[ExprIdentData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Groups   *Arena[ExprGroupData]
	Calls    *Arena[ExprCallData]
	Assigns  *Arena[ExprAssignData]
	Arrays   *Arena[ExprArrayData]
	Indices  *Arena[ExprIndexData]
}

// NewExprs creates per-kind arenas preallocated with capHint (default 256).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint / 4),
		Groups:   NewArena[ExprGroupData](capHint / 4),
		Calls:    NewArena[ExprCallData](capHint / 4),
		Assigns:  NewArena[ExprAssignData](capHint / 4),
		Arrays:   NewArena[ExprArrayData](capHint / 8),
		Indices:  NewArena[ExprIndexData](capHint / 8),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Annotate fills the type slot of id. The slot is write-once; a second write
// or an empty type is a bug in the caller and panics.
func (e *Exprs) Annotate(id ExprID, t types.TypeID) {
	expr := e.Get(id)
	if expr == nil {
		panic(fmt.Sprintf("ast: annotate invalid expression %d", id))
	}
	if t == types.NoTypeID {
		panic(fmt.Sprintf("ast: annotate expression %d with no type", id))
	}
	if expr.Type != types.NoTypeID {
		panic(fmt.Sprintf("ast: expression %d (%s) already annotated", id, expr.Kind))
	}
	expr.Type = t
}

// TypeOf returns the annotated type or NoTypeID.
func (e *Exprs) TypeOf(id ExprID) types.TypeID {
	if expr := e.Get(id); expr != nil {
		return expr.Type
	}
	return types.NoTypeID
}

func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewBinary creates an arithmetic or comparison expression. `and`/`or` are
// routed to ExprLogical.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	kind := ExprBinary
	if op == OpAnd || op == OpOr {
		kind = ExprLogical
	}
	return e.new(kind, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

// Binary returns the operands of an ExprBinary or ExprLogical node.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprBinary && expr.Kind != ExprLogical) {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{
		Callee: callee,
		Args:   append([]ExprID(nil), args...),
	}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewAssign(span source.Span, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Target: target, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAssign {
		return nil, false
	}
	return e.Assigns.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{
		Elems: append([]ExprID(nil), elems...),
	}))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}
