package parser

import (
	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/token"
)

// parseDecl parses a function, a var declaration or any statement.
func (p *Parser) parseDecl() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwFunction:
		return p.parseFunction()
	case token.KwVar:
		return p.parseVar()
	default:
		return p.parseStmt()
	}
}

// function IDENT "(" [param {"," param}] ")" block
func (p *Parser) parseFunction() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoStmtID, false
	}
	var params []ast.FnParam
	for !p.at(token.RParen) {
		param, ok := p.parseParam()
		if !ok {
			return ast.NoStmtID, false
		}
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' before function body")
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Stmts.NewFunction(span, ast.StmtFunctionData{
		Name:     name.Text,
		NameSpan: name.Span,
		Params:   params,
		Body:     body,
	}), true
}

// IDENT [":" typeName]
func (p *Parser) parseParam() (ast.FnParam, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return ast.FnParam{}, false
	}
	param := ast.FnParam{Name: name.Text, Span: name.Span}
	if p.at(token.Colon) {
		p.advance()
		ty, ok := p.expect(token.Ident, diag.SynExpectType, "expected parameter type")
		if !ok {
			return ast.FnParam{}, false
		}
		param.TypeName, param.TypeSpan = ty.Text, ty.Span
	}
	return param, true
}

// var IDENT ":" typeName ["=" expr] ";"
func (p *Parser) parseVar() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' and a type after variable name"); !ok {
		return ast.NoStmtID, false
	}
	ty, ok := p.expect(token.Ident, diag.SynExpectType, "expected variable type")
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtVarData{
		Name:     name.Text,
		NameSpan: name.Span,
		TypeName: ty.Text,
		TypeSpan: ty.Span,
	}
	if p.at(token.Assign) {
		p.advance()
		if data.Init, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewVar(kw.Span.Cover(semi.Span), data), true
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwPrint:
		return p.parseValueStmt(ast.StmtPrint, p.advance())
	default:
		return p.parseValueStmt(ast.StmtExpr, token.Token{})
	}
}

// "{" { decl } "}"
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open := p.advance()
	var stmts []ast.StmtID
	for !p.atOr(token.RBrace, token.EOF) {
		if p.opts.Enough() {
			return ast.NoStmtID, false
		}
		start := p.lx.Peek().Span.Start
		id, ok := p.parseDecl()
		if !ok {
			p.resync(start)
			continue
		}
		stmts = append(stmts, id)
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(open.Span.Cover(closing.Span), stmts), true
}

// "(" expr ")"
func (p *Parser) parseCondition(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseCondition("if")
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(p.arenas.Stmts.Get(then).Span)
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
		span = span.Cover(p.arenas.Stmts.Get(els).Span)
	}
	return p.arenas.Stmts.NewIf(span, cond, then, els), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseCondition("while")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(p.arenas.Stmts.Get(body).Span), cond, body), true
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewValue(ast.StmtReturn, kw.Span.Cover(semi.Span), value), true
}

// parseValueStmt handles `print expr;` (kw already consumed) and `expr;`.
func (p *Parser) parseValueStmt(kind ast.StmtKind, kw token.Token) (ast.StmtID, bool) {
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	if !ok {
		return ast.NoStmtID, false
	}
	span := p.arenas.Exprs.Get(value).Span
	if kw.Kind != token.Invalid {
		span = kw.Span
	}
	return p.arenas.Stmts.NewValue(kind, span.Cover(semi.Span), value), true
}
