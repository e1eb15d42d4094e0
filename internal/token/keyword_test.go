package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"function": KwFunction,
		"var":      KwVar,
		"while":    KwWhile,
		"print":    KwPrint,
		"true":     KwTrue,
		"and":      AndAnd,
		"or":       OrOr,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	for _, lexeme := range []string{"Function", "Number", "String", "Boolean", "fn", "let", ""} {
		if k, ok := LookupKeyword(lexeme); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want !ok", lexeme, k)
		}
	}
}

func TestKindString(t *testing.T) {
	if KwFunction.String() != "function" || LBrace.String() != "{" || EOF.String() != "end of file" {
		t.Fatalf("unexpected kind names")
	}
	tok := Token{Kind: KwTrue}
	if !tok.IsLiteral() || !tok.IsKeyword() {
		t.Fatalf("true is both a literal and a keyword")
	}
}
