package fuzztests

import (
	"testing"

	"druk/internal/diag"
	"druk/internal/lexer"
	"druk/internal/source"
	"druk/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.druk", input))
		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

		var prevEnd uint32
		for {
			tok := lx.Next()
			if tok.Span.Start < prevEnd {
				t.Fatalf("token %s at %v starts before previous end %d", tok.Kind, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
