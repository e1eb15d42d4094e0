package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/parser"
	"druk/internal/source"
)

// ErrSyntax is returned for sources that do not parse cleanly.
var ErrSyntax = errors.New("format: parse errors present")

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	builder *ast.Builder
	file    *ast.File
	writer  *Writer
	opt     Options
}

// FormatFile prints file, which must have been parsed from sf into b.
func FormatFile(sf *source.File, b *ast.Builder, file *ast.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if b == nil {
		return nil, errors.New("format: nil builder")
	}
	if file == nil || file.Source != sf.ID {
		return nil, errors.New("format: ast file does not belong to the source")
	}
	opt = opt.withDefaults()
	pr := printer{
		builder: b,
		file:    file,
		writer:  NewWriter(sf, opt),
		opt:     opt,
	}
	pr.printFile()
	return pr.writer.Bytes(), nil
}

// Source parses sf and formats it. Sources with syntax errors are refused
// with ErrSyntax.
func Source(sf *source.File, opt Options, maxDiag int) ([]byte, error) {
	bag := diag.NewBag(maxDiag)
	b, file := parseOnce(sf, bag)
	if bag.HasErrors() {
		return nil, ErrSyntax
	}
	return FormatFile(sf, b, file, opt)
}

func (p *printer) printFile() {
	content := p.writer.sf.Content
	prev := 0
	for i, id := range p.file.Decls {
		stmt := p.builder.Stmts.Get(id)
		if stmt == nil {
			continue
		}
		start := clampToContent(int(stmt.Span.Start), len(content))
		p.writeGap(content[prev:max(start, prev)], i == 0, false)
		p.printDecl(id, stmt)
		prev = max(clampToContent(int(stmt.Span.End), len(content)), start)
	}
	p.writeGap(content[prev:], len(p.file.Decls) == 0, true)
	p.writer.Newline()
}

// writeGap emits the trivia between two declarations: comments survive and
// runs of blank lines collapse to one.
func (p *printer) writeGap(gap []byte, first, last bool) {
	w := p.writer
	lines := strings.Split(string(gap), "\n")
	blank := false
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if i == 0 && !first {
			// rest of the line the previous declaration ended on
			if text != "" {
				w.Space()
				w.WriteString(text)
			}
			w.Newline()
			continue
		}
		if text == "" {
			if i > 0 && i < len(lines)-1 {
				blank = true
			}
			continue
		}
		if blank {
			w.BlankLine()
		}
		blank = false
		w.WriteString(text)
		w.Newline()
	}
	if blank && !last {
		w.BlankLine()
	}
}

func (p *printer) printDecl(id ast.StmtID, stmt *ast.Stmt) {
	if hasComment(p.writer.spanBytes(stmt.Span)) {
		p.writer.TrimmedCopySpan(stmt.Span)
		return
	}
	p.printStmt(id)
}

// hasComment reports whether src contains a line comment outside string
// literals.
func hasComment(src []byte) bool {
	inString := false
	for i := 0; i < len(src); i++ {
		switch b := src[i]; {
		case inString && b == '\\':
			i++
		case b == '"':
			inString = !inString
		case !inString && b == '/' && i+1 < len(src) && src[i+1] == '/':
			return true
		}
	}
	return false
}

// CheckRoundTrip formats the file with the given options and re-parses it,
// ensuring that the declaration kinds remain identical and that a second
// pass is a no-op.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) error {
	formatted, err := Source(sf, opt, maxDiag)
	if err != nil {
		return fmt.Errorf("fmt-check: %w", err)
	}
	fs := source.NewFileSet()
	rebuilt := fs.Get(fs.AddVirtual(sf.Path, formatted))
	bag := diag.NewBag(maxDiag)
	b2, f2 := parseOnce(rebuilt, bag)
	if bag.HasErrors() {
		return errors.New("fmt-check: reparse failed")
	}
	b1, f1 := parseOnce(sf, diag.NewBag(maxDiag))
	if !slices.Equal(declKinds(b1, f1), declKinds(b2, f2)) {
		return errors.New("fmt-check: declaration kinds differ after round-trip")
	}
	again, err := FormatFile(rebuilt, b2, f2, opt)
	if err != nil {
		return fmt.Errorf("fmt-check: %w", err)
	}
	if string(again) != string(formatted) {
		return errors.New("fmt-check: formatting is not idempotent")
	}
	return nil
}

func parseOnce(sf *source.File, bag *diag.Bag) (*ast.Builder, *ast.File) {
	maxErrors, err := safecast.Conv[uint](max(bag.Cap(), 0))
	if err != nil {
		maxErrors = 0
	}
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(sf, builder, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: maxErrors})
	return builder, res.File
}

func declKinds(b *ast.Builder, f *ast.File) []ast.StmtKind {
	kinds := make([]ast.StmtKind, 0, len(f.Decls))
	for _, id := range f.Decls {
		if stmt := b.Stmts.Get(id); stmt != nil {
			kinds = append(kinds, stmt.Kind)
		}
	}
	return kinds
}
