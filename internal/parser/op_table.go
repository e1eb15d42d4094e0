package parser

import (
	"druk/internal/ast"
	"druk/internal/token"
)

// Binary precedence levels, loosest first.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
)

type binaryOp struct {
	op   ast.ExprBinaryOp
	prec int
}

var binaryOps = map[token.Kind]binaryOp{
	token.OrOr:    {ast.OpOr, precOr},
	token.AndAnd:  {ast.OpAnd, precAnd},
	token.EqEq:    {ast.OpEq, precEquality},
	token.BangEq:  {ast.OpNotEq, precEquality},
	token.Lt:      {ast.OpLess, precComparison},
	token.LtEq:    {ast.OpLessEq, precComparison},
	token.Gt:      {ast.OpGreater, precComparison},
	token.GtEq:    {ast.OpGreaterEq, precComparison},
	token.Plus:    {ast.OpAdd, precTerm},
	token.Minus:   {ast.OpSub, precTerm},
	token.Star:    {ast.OpMul, precFactor},
	token.Slash:   {ast.OpDiv, precFactor},
	token.Percent: {ast.OpMod, precFactor},
}
