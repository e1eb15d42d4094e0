package diag

import (
	"testing"

	"druk/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestCodeIDPrefixes(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynExpectSemicolon, "SYN2002"},
		{SemaUnresolvedSymbol, "SEM3004"},
		{IOLoadFileError, "IO4001"},
		{ProjInvalidConfig, "PRJ5001"},
		{UnknownCode, "E0000"},
	}
	for _, c := range cases {
		if got := c.code.ID(); got != c.want {
			t.Fatalf("%d: expected %s, got %s", c.code, c.want, got)
		}
	}
	if got := Code(3999).Title(); got != "Unknown error" {
		t.Fatalf("unexpected fallback title %q", got)
	}
}

func TestSeverityNames(t *testing.T) {
	want := map[Severity]string{
		SevNote:    "note",
		SevWarning: "warning",
		SevError:   "error",
		SevFatal:   "fatal error",
	}
	for sev, name := range want {
		if sev.String() != name {
			t.Fatalf("expected %q, got %q", name, sev.String())
		}
	}
}

func TestBagHasErrorsIgnoresWarnings(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, SemaInfo, span(0, 1), "w"))
	b.Add(New(SevNote, SemaInfo, span(0, 1), "n"))
	if b.HasErrors() {
		t.Fatalf("warnings and notes are not errors")
	}
	if !b.HasWarnings() {
		t.Fatalf("expected a warning")
	}
	b.Add(New(SevFatal, SemaError, span(0, 1), "f"))
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("fatal must count as error")
	}
}

func TestBagCapAndOrder(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SemaTypeMismatch, span(10, 12), "first")) {
		t.Fatalf("first add rejected")
	}
	b.Add(NewError(SemaTypeMismatch, span(2, 4), "second"))
	if b.Add(NewError(SemaTypeMismatch, span(0, 1), "third")) {
		t.Fatalf("bag must refuse past its cap")
	}
	if b.Items()[0].Message != "first" || b.Items()[1].Message != "second" {
		t.Fatalf("insertion order not preserved: %+v", b.Items())
	}
	b.Sort()
	if b.Items()[0].Message != "second" {
		t.Fatalf("sort by start offset failed: %+v", b.Items())
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a, b := NewBag(1), NewBag(1)
	a.Add(NewError(SemaError, span(0, 1), "a"))
	b.Add(NewError(SemaError, span(1, 2), "b"))
	a.Merge(b)
	if a.Len() != 2 || a.Cap() != 2 {
		t.Fatalf("expected 2 items and cap 2, got %d/%d", a.Len(), a.Cap())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rb := ReportError(BagReporter{Bag: bag}, SemaUnresolvedSymbol, span(3, 4), "Undefined variable 'x'").
		WithHint("declare it first").
		WithNote(span(0, 1), "scope starts here")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected single diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Hint != "declare it first" || len(d.Notes) != 1 || d.Severity != SevError {
		t.Fatalf("builder lost details: %+v", d)
	}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		r.Report(SemaTypeMismatch, SevError, span(1, 2), "Type mismatch in initialization", "", nil)
	}
	r.Report(SemaTypeMismatch, SevError, span(5, 6), "Type mismatch in initialization", "", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}
