package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"druk/internal/diag"
	"druk/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	location *color.Color
	gutter   *color.Color
	caret    *color.Color
	hint     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevNote:    color.New(color.FgCyan, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevFatal:   color.New(color.FgMagenta, color.Bold),
		},
		location: color.New(color.Bold),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgRed, color.Bold),
		hint:     color.New(color.FgGreen),
	}
	all := []*color.Color{p.location, p.gutter, p.caret, p.hint}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.sev[diag.SevError]
}

// Pretty prints bag.Items() in order (call bag.Sort() first):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  <line> | source text
//	         | ^~~~
//	         = hint: ...
//
// followed by notes in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if !located(fs, d.Code, d.Primary) {
			fmt.Fprintf(w, "%s: %s %s: %s\n",
				p.location.Sprint("druk"),
				p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
				d.Code.ID(),
				d.Message,
			)
			if opts.ShowNotes {
				for _, n := range d.Notes {
					fmt.Fprintf(w, "  %s %s\n", p.sev[diag.SevNote].Sprint("note:"), n.Msg)
				}
			}
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		path := formatPath(fs.Get(d.Primary.File).Path, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.location.Sprintf("%s:%d:%d", path, start.Line, start.Col),
			p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			d.Code.ID(),
			d.Message,
		)
		writeSnippet(w, fs, d.Primary, int(opts.Context), p)
		if d.Hint != "" && (opts.ShowHints || d.Severity >= diag.SevError) {
			fmt.Fprintf(w, "%s %s\n", p.gutter.Sprint("  = "), p.hint.Sprint("hint: "+d.Hint))
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				npath := formatPath(fs.Get(n.Span.File).Path, opts.PathMode, opts.BaseDir)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.sev[diag.SevNote].Sprint("note:"), npath, ns.Line, ns.Col, n.Msg)
			}
		}
	}
}

// writeSnippet prints the primary line with context and a caret underline.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	lastLine := uint32(len(f.LineIdx) + 1)

	from := int64(start.Line) - int64(max(context, 0))
	if from < 1 {
		from = 1
	}
	to := min(uint32(int64(start.Line)+int64(max(context, 0))), lastLine)
	width := len(fmt.Sprint(to))

	for n := uint32(from); n <= to; n++ {
		text := f.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width+2, n), text)
		if n != start.Line {
			continue
		}
		pad, under := underline(text, start, end)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width+2, ""), pad, p.caret.Sprint(under))
	}
}

// underline computes the indentation and ^~~ marker for a span starting on
// line text. Widths follow the terminal cell width of each rune.
func underline(text string, start, end source.LineCol) (string, string) {
	col := int(start.Col) - 1
	col = min(max(col, 0), len(text))
	stop := len(text)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(text))
	}

	var pad strings.Builder
	for _, r := range text[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := runewidth.StringWidth(text[col:stop])
	if n < 1 {
		return pad.String(), "^"
	}
	return pad.String(), "^" + strings.Repeat("~", n-1)
}

// located reports whether span can be resolved to a source position.
func located(fs *source.FileSet, code diag.Code, span source.Span) bool {
	return code.Located() && fs != nil && int(span.File) < fs.Len()
}
