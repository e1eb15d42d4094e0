package format

import (
	"bytes"

	"druk/internal/source"
)

// Writer accumulates formatted output and provides helpers for copying source
// fragments and emitting canonical whitespace.
type Writer struct {
	sf          *source.File
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(sf *source.File, opt Options) *Writer {
	return &Writer{
		sf:          sf,
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, len(sf.Content)),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// BlankLine makes the output end with exactly one empty line.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 {
		return
	}
	w.Newline()
	if len(w.buf) >= 2 && w.buf[len(w.buf)-2] == '\n' {
		return
	}
	w.buf = append(w.buf, '\n')
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// CopySpan copies a span from the source file to the output.
func (w *Writer) CopySpan(sp source.Span) {
	if text := w.spanBytes(sp); len(text) > 0 {
		w.writeIndent()
		w.buf = append(w.buf, text...)
		w.atLineStart = text[len(text)-1] == '\n'
	}
}

// TrimmedCopySpan copies a span from the source file to the output, trimming
// leading and trailing whitespace.
func (w *Writer) TrimmedCopySpan(sp source.Span) {
	if text := bytes.TrimSpace(w.spanBytes(sp)); len(text) > 0 {
		w.writeIndent()
		w.buf = append(w.buf, text...)
		w.atLineStart = text[len(text)-1] == '\n'
	}
}

func (w *Writer) spanBytes(sp source.Span) []byte {
	if w.sf == nil || sp.File != w.sf.ID || sp.End <= sp.Start {
		return nil
	}
	start := clampToContent(int(sp.Start), len(w.sf.Content))
	end := clampToContent(int(sp.End), len(w.sf.Content))
	return w.sf.Content[start:end]
}

func clampToContent(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
