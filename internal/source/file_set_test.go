package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line uint32
		want string
	}{
		{name: "first line", src: "var x;\nprint x;\n", line: 1, want: "var x;"},
		{name: "middle line", src: "a\nb\nc", line: 2, want: "b"},
		{name: "last line without newline", src: "a\nb\nc", line: 3, want: "c"},
		{name: "zero line", src: "a\nb", line: 0, want: ""},
		{name: "past the end", src: "a\nb", line: 7, want: ""},
		{name: "trailing newline gives empty final line", src: "a\nb\n", line: 3, want: ""},
		{name: "empty source", src: "", line: 1, want: ""},
		{name: "empty middle line", src: "a\n\nb", line: 2, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractLine([]byte(tt.src), tt.line); got != tt.want {
				t.Fatalf("ExtractLine(%q, %d) = %q, want %q", tt.src, tt.line, got, tt.want)
			}
		})
	}
}

func TestLocationResolvesLineAndColumn(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.druk", []byte("var a: Number = 1;\nif (a) { }\n"))

	loc := fs.Location(Span{File: id, Start: 23, End: 24})
	if loc.Line != 2 || loc.Col != 5 {
		t.Fatalf("expected 2:5, got %d:%d", loc.Line, loc.Col)
	}
	if loc.Offset != 23 || loc.Length != 1 {
		t.Fatalf("expected offset 23 length 1, got %d/%d", loc.Offset, loc.Length)
	}

	first := fs.Location(Span{File: id, Start: 0, End: 3})
	if first.Line != 1 || first.Col != 1 {
		t.Fatalf("expected 1:1, got %d:%d", first.Line, first.Col)
	}
}

func TestNewlineBelongsToItsLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("nl.druk", []byte("ab\ncd"))
	start, _ := fs.Resolve(Span{File: id, Start: 2, End: 2})
	if start.Line != 1 || start.Col != 3 {
		t.Fatalf("expected 1:3, got %d:%d", start.Line, start.Col)
	}
}

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.druk")
	content := []byte("\xEF\xBB\xBFprint 1;\r\nprint 2;\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "print 1;\nprint 2;\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if got := f.GetLine(2); got != "print 2;" {
		t.Fatalf("GetLine(2) = %q", got)
	}
}

func TestAddVirtualComposesNFC(t *testing.T) {
	fs := NewFileSet()
	// "e" + combining acute accent
	id := fs.AddVirtual("nfc.druk", []byte("var cafe\u0301: String;"))
	f := fs.Get(id)
	if string(f.Content) != "var caf\u00e9: String;" {
		t.Fatalf("expected composed text, got %q", f.Content)
	}
	if f.Flags&FileNormalizedNFC == 0 {
		t.Fatalf("expected NFC flag")
	}
}

func TestFileSetKeepsLatestVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("a.druk", []byte("print 1;"), 0)
	second := fs.Add("a.druk", []byte("print 2;"), 0)
	latest, ok := fs.GetLatest("a.druk")
	if !ok || latest != second {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", second, latest, ok)
	}
	if string(fs.Get(first).Content) != "print 1;" {
		t.Fatalf("older version must stay addressable")
	}
}
