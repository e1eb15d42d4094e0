package ast

import (
	"druk/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

// File is the root of one parsed compilation unit.
type File struct {
	Source source.FileID
	Span   source.Span
	Decls  []StmtID
}

// Builder owns every node of one compilation unit.
type Builder struct {
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	return &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}
