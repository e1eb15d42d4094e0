// Package ast holds the syntax tree of a druk compilation unit.
//
// Nodes live in arenas owned by a Builder and are referenced by StmtID and
// ExprID handles; 0 is never a valid handle. Each node header carries a Kind
// and a Payload index into the per-kind arena, so consumers switch on Kind
// and fetch the payload through the typed accessors (Stmts.If, Exprs.Binary,
// ...). Both kind sets are closed.
//
// Expressions carry a write-once Type slot that the semantic analyzer fills
// through Exprs.Annotate.
package ast
