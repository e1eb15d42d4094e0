package parser

import (
	"druk/internal/diag"
	"druk/internal/source"
	"druk/internal/token"
)

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the next token, or right after the last one
// when the input is exhausted.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil && !p.opts.Enough() {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, "", nil)
	}
}

// resync skips to the end of a broken statement: past the next ';', or up
// to a '}' or a token that starts a new statement. start is the offset the
// failed statement began at; when nothing was consumed since, one token is
// dropped first so the caller always makes progress.
func (p *Parser) resync(start uint32) {
	if tok := p.lx.Peek(); tok.Span.Start == start && tok.Kind != token.RBrace && tok.Kind != token.EOF {
		p.advance()
	}
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.atOr(token.RBrace, token.KwFunction, token.KwVar, token.KwIf, token.KwWhile, token.KwReturn, token.KwPrint, token.LBrace):
			return
		}
		p.advance()
	}
}
