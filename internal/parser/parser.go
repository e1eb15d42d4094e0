package parser

import (
	"slices"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/lexer"
	"druk/internal/source"
	"druk/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   *ast.File
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     *ast.File
	opts     Options
	lastSpan source.Span // span of the last consumed token
}

// ParseFile parses every declaration of file into arenas.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:     lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		arenas: arenas,
		file:   &ast.File{Source: file.ID, Span: file.Span()},
		opts:   opts,
	}
	p.lastSpan = source.Span{File: file.ID}
	p.parseDecls()
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseDecls is the top-level loop: declarations until EOF.
func (p *Parser) parseDecls() {
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			return
		}
		if p.at(token.RBrace) {
			p.err(diag.SynUnexpectedToken, "unexpected '}'")
			p.advance()
			continue
		}
		start := p.lx.Peek().Span.Start
		id, ok := p.parseDecl()
		if !ok {
			p.resync(start)
			continue
		}
		p.file.Decls = append(p.file.Decls, id)
	}
}
