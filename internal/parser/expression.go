package parser

import (
	"strconv"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseAssignment()
}

// assignment = postfix "=" assignment | binary. Right associative.
func (p *Parser) parseAssignment() (ast.ExprID, bool) {
	lhs, ok := p.parseBinary(precOr)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Assign) {
		return lhs, true
	}
	eq := p.advance()
	rhs, ok := p.parseAssignment()
	if !ok {
		return ast.NoExprID, false
	}
	target := p.arenas.Exprs.Get(lhs)
	if target.Kind != ast.ExprIdent && target.Kind != ast.ExprIndex {
		p.report(diag.SynInvalidAssignment, eq.Span, "invalid assignment target")
		return ast.NoExprID, false
	}
	span := target.Span.Cover(p.arenas.Exprs.Get(rhs).Span)
	return p.arenas.Exprs.NewAssign(span, lhs, rhs), true
}

// parseBinary is precedence climbing over binaryOps; all levels are left
// associative.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		info, isOp := binaryOps[p.lx.Peek().Kind]
		if !isOp || info.prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(info.prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, info.op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.ExprUnaryOp
	switch p.lx.Peek().Kind {
	case token.Bang:
		op = ast.UnaryNot
	case token.Minus:
		op = ast.UnaryNeg
	default:
		return p.parsePostfix()
	}
	tok := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	span := tok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// postfix = primary { "(" args ")" | "[" expr "]" }
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			p.advance()
			args, closing, ok := p.parseList(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
			if !ok {
				return ast.NoExprID, false
			}
			span := p.arenas.Exprs.Get(expr).Span.Cover(closing.Span)
			expr = p.arenas.Exprs.NewCall(span, expr, args)
		case token.LBracket:
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index")
			if !ok {
				return ast.NoExprID, false
			}
			span := p.arenas.Exprs.Get(expr).Span.Cover(closing.Span)
			expr = p.arenas.Exprs.NewIndex(span, expr, index)
		default:
			return expr, true
		}
	}
}

// parseList parses `expr {"," expr}` up to and including the closing token.
func (p *Parser) parseList(closing token.Kind, code diag.Code, msg string) ([]ast.ExprID, token.Token, bool) {
	var items []ast.ExprID
	for !p.at(closing) {
		item, ok := p.parseExpr()
		if !ok {
			return nil, token.Token{}, false
		}
		items = append(items, item)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	tok, ok := p.expect(closing, code, msg)
	return items, tok, ok
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitInt, tok.Text), true
	case token.FloatLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitFloat, tok.Text), true
	case token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitString, unquote(tok.Text)), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitBool, tok.Text), true
	case token.Ident:
		p.advance()
		return exprs.NewIdent(tok.Span, tok.Text), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closing, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after expression")
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewGroup(tok.Span.Cover(closing.Span), inner), true
	case token.LBracket:
		p.advance()
		elems, closing, ok := p.parseList(token.RBracket, diag.SynUnclosedBracket, "expected ']' after array elements")
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewArray(tok.Span.Cover(closing.Span), elems), true
	case token.Invalid:
		// already reported by the lexer
		p.advance()
		p.opts.CurrentErrors++
		return ast.NoExprID, false
	default:
		p.err(diag.SynExpectExpression, "expected expression, found '"+tok.Kind.String()+"'")
		return ast.NoExprID, false
	}
}

// unquote decodes the escapes of a string literal; malformed escapes keep
// their raw text.
func unquote(text string) string {
	if s, err := strconv.Unquote(text); err == nil {
		return s
	}
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
