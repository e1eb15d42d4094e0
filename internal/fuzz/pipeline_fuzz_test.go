package fuzztests

import (
	"context"
	"errors"
	"io"
	"testing"

	"druk/internal/chunk"
	"druk/internal/driver"
	"druk/internal/ir"
	"druk/internal/lower"
	"druk/internal/source"
)

// FuzzPipeline runs lex, parse, sema and lowering. A unit without error
// diagnostics must either lower to a module that dumps and encodes, or be
// refused with a lowering error.
func FuzzPipeline(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.druk", input)
		res := driver.CompileSource(context.Background(), fs, fileID, driver.Options{Stage: driver.StageIR, MaxDiagnostics: 128})
		if res.Bag.HasErrors() {
			if !errors.Is(res.LowerErr, lower.ErrUnitHasErrors) {
				t.Fatalf("unit with errors was not refused: %v", res.LowerErr)
			}
			return
		}
		if res.LowerErr != nil {
			return
		}
		if res.Module == nil {
			t.Fatalf("clean unit produced no module")
		}
		if err := ir.Dump(io.Discard, res.Module); err != nil {
			t.Fatalf("dump: %v", err)
		}
		c, err := chunk.Encode(res.Module, lower.MainFunc)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, err := chunk.Marshal(c); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	})
}
