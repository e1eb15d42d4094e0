// Package testkit holds invariant checks shared by parser tests and fuzzers.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"druk/internal/ast"
	"druk/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within the file content and points at sf
// 2) every declaration span is non-empty and inside file.Span
// 3) declarations appear in source order without overlapping
func CheckSpanInvariants(b *ast.Builder, f *ast.File, sf *source.File) error {
	if b == nil || f == nil || sf == nil {
		return fmt.Errorf("nil builder, file or source")
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.Start > f.Span.End || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prevEnd uint32
	for i, id := range f.Decls {
		stmt := b.Stmts.Get(id)
		if stmt == nil {
			return fmt.Errorf("nil declaration for id=%d", id)
		}
		sp := stmt.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty declaration span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("declaration span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("declaration span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("declaration %d at %v overlaps the previous one ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}
