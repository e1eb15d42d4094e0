package format

import (
	"errors"
	"testing"

	"druk/internal/source"
)

func formatString(t *testing.T, src string, opt Options) string {
	t.Helper()
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("test.druk", []byte(src)))
	out, err := Source(sf, opt, 64)
	if err != nil {
		t.Fatalf("format %q: %v", src, err)
	}
	return string(out)
}

func TestFormatCanonicalLayout(t *testing.T) {
	src := "var   x:Number=1+2 ;function add( a,b:Number ){return a+b;}\nif(x>1){print add(x,[1,2][0]);}else print -x;\n"
	want := "var x: Number = 1 + 2;\n" +
		"function add(a, b: Number) {\n" +
		"    return a + b;\n" +
		"}\n" +
		"if (x > 1) {\n" +
		"    print add(x, [1, 2][0]);\n" +
		"} else print -x;\n"
	if got := formatString(t, src, Options{}); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatKeepsCommentsAndOneBlankLine(t *testing.T) {
	src := "// header\n\n\n\nprint 1;   // trailing\n\n\nprint 2;\n"
	want := "// header\n\nprint 1; // trailing\n\nprint 2;\n"
	if got := formatString(t, src, Options{}); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatCopiesDeclarationsWithComments(t *testing.T) {
	src := "function f() {\n  // keep me\n  return 1;\n}\n"
	if got := formatString(t, src, Options{}); got != src {
		t.Fatalf("declaration with comment was rewritten:\n%s", got)
	}
}

func TestFormatPreservesLiteralSpelling(t *testing.T) {
	src := "print \"a\\\"b\" ;\nprint 1.50;\nprint !!true && - -1 == 1;\n"
	want := "print \"a\\\"b\";\nprint 1.50;\nprint !!true && - -1 == 1;\n"
	if got := formatString(t, src, Options{}); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatWithTabs(t *testing.T) {
	got := formatString(t, "while (true) { print 1; }", Options{UseTabs: true})
	want := "while (true) {\n\tprint 1;\n}\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q", got)
	}
}

func TestFormatEmptyFile(t *testing.T) {
	if got := formatString(t, "\n\n", Options{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := formatString(t, "// only a comment", Options{}); got != "// only a comment\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatRefusesSyntaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("bad.druk", []byte("var x: Number = ;")))
	if _, err := Source(sf, Options{}, 16); !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("rt.druk", []byte(
		"var n:Number=3;\nfunction sq(x){return x*x;}\n// done\nwhile(n>0){n=n-1;print sq(n);}\n")))
	if err := CheckRoundTrip(sf, Options{IndentWidth: 2}, 64); err != nil {
		t.Fatalf("round trip: %v", err)
	}
}

func TestHasComment(t *testing.T) {
	cases := map[string]bool{
		`print "//not a comment";`: false,
		`print 1; // yes`:           true,
		`print "\"//";`:             false,
		`print 4 / 2;`:              false,
	}
	for src, want := range cases {
		if got := hasComment([]byte(src)); got != want {
			t.Fatalf("hasComment(%q) = %v, want %v", src, got, want)
		}
	}
}
