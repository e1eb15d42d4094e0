package lexer_test

import (
	"testing"

	"druk/internal/diag"
	"druk/internal/lexer"
	"druk/internal/source"
	"druk/internal/token"
)

func lex(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.druk", []byte(input))
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return toks, bag
}

func expectKinds(t *testing.T, input string, expected ...token.Kind) {
	t.Helper()
	toks, bag := lex(t, input)
	toks = toks[:len(toks)-1] // drop EOF
	if len(toks) != len(expected) {
		t.Fatalf("input %q: expected %d tokens, got %d (%v), diags %d", input, len(expected), len(toks), toks, bag.Len())
	}
	for i, tok := range toks {
		if tok.Kind != expected[i] {
			t.Fatalf("input %q token %d: expected %v, got %v (%q)", input, i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestVarDeclaration(t *testing.T) {
	expectKinds(t, `var x: Number = 42;`,
		token.KwVar, token.Ident, token.Colon, token.Ident, token.Assign, token.IntLit, token.Semicolon)
}

func TestFunctionAndControlFlow(t *testing.T) {
	expectKinds(t, "function f(a) { while (a <= 10) { a = a + 1; } return a; }",
		token.KwFunction, token.Ident, token.LParen, token.Ident, token.RParen, token.LBrace,
		token.KwWhile, token.LParen, token.Ident, token.LtEq, token.IntLit, token.RParen, token.LBrace,
		token.Ident, token.Assign, token.Ident, token.Plus, token.IntLit, token.Semicolon, token.RBrace,
		token.KwReturn, token.Ident, token.Semicolon, token.RBrace)
}

func TestOperators(t *testing.T) {
	expectKinds(t, "== != < <= > >= && || and or ! - * / % [ ] ,",
		token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.AndAnd, token.OrOr, token.Bang, token.Minus,
		token.Star, token.Slash, token.Percent, token.LBracket, token.RBracket, token.Comma)
}

func TestCommentsAreSkipped(t *testing.T) {
	expectKinds(t, "// leading\nprint 1; // trailing\n// eof",
		token.KwPrint, token.IntLit, token.Semicolon)
}

func TestNumbers(t *testing.T) {
	toks, bag := lex(t, "3.25 7 4.")
	if toks[0].Kind != token.FloatLit || toks[0].Text != "3.25" {
		t.Fatalf("expected float 3.25, got %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.IntLit || toks[2].Kind != token.IntLit {
		t.Fatalf("expected ints, got %v %v", toks[1].Kind, toks[2].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("trailing '.' must be reported as unknown character, got %d diags", bag.Len())
	}
}

func TestStringSpanCoversQuotes(t *testing.T) {
	toks, _ := lex(t, `print "hi\"there";`)
	str := toks[1]
	if str.Kind != token.StringLit || str.Text != `"hi\"there"` {
		t.Fatalf("unexpected string token %v %q", str.Kind, str.Text)
	}
	if str.Span.Start != 6 || str.Span.End != 17 {
		t.Fatalf("unexpected span %v", str.Span)
	}
}

func TestLexicalErrors(t *testing.T) {
	cases := []struct {
		input string
		code  diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{"@", diag.LexUnknownChar},
		{"12abc", diag.LexBadNumber},
	}
	for _, c := range cases {
		_, bag := lex(t, c.input)
		if bag.Len() == 0 || bag.Items()[0].Code != c.code {
			t.Fatalf("input %q: expected %s, got %v", c.input, c.code.ID(), bag.Items())
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks, bag := lex(t, "var café: String;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[1].Kind != token.Ident || toks[1].Text != "café" {
		t.Fatalf("expected identifier café, got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestEOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.druk", []byte("x"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Kind != token.Ident || lx.Next().Kind != token.Ident {
		t.Fatalf("peek must not consume")
	}
	for range 3 {
		if lx.Next().Kind != token.EOF {
			t.Fatalf("expected EOF")
		}
	}
}
