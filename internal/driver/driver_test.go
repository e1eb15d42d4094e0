package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"druk/internal/chunk"
	"druk/internal/diag"
	"druk/internal/lower"
	"druk/internal/project"
	"druk/internal/source"
	"druk/internal/trace"
)

const cleanProgram = `var total: Number = 0;
function add(a, b) {
  return a + b;
}
total = add(1, 2);
print total;
`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func compileString(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.druk", []byte(src))
	return CompileSource(context.Background(), fs, id, opts)
}

func TestCompileSourceStages(t *testing.T) {
	tests := []struct {
		stage                       Stage
		tokens, ast, sema, lowered bool
	}{
		{StageTokens, true, false, false, false},
		{StageSyntax, false, true, false, false},
		{StageSema, false, true, true, false},
		{StageIR, false, true, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			res := compileString(t, cleanProgram, Options{Stage: tt.stage})
			if got := res.Tokens != nil; got != tt.tokens {
				t.Fatalf("tokens present = %v", got)
			}
			if got := res.AST != nil; got != tt.ast {
				t.Fatalf("ast present = %v", got)
			}
			if got := res.Sema != nil; got != tt.sema {
				t.Fatalf("sema present = %v", got)
			}
			if got := res.Module != nil; got != tt.lowered {
				t.Fatalf("module present = %v", got)
			}
			if res.HasErrors() {
				t.Fatalf("unexpected errors: %+v %v", res.Bag.Items(), res.LowerErr)
			}
		})
	}
}

func TestCompileSourceSkipsLoweringOnErrors(t *testing.T) {
	res := compileString(t, "var x: Number = \"s\";\nprint y;\n", Options{})
	if !res.Bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	if res.Module != nil || !errors.Is(res.LowerErr, lower.ErrUnitHasErrors) {
		t.Fatalf("lowering should be refused, got module=%v err=%v", res.Module, res.LowerErr)
	}
	if res.Bag.ErrorCount() != 2 {
		t.Fatalf("expected 2 errors, got %+v", res.Bag.Items())
	}
}

func TestCompileSourceTimings(t *testing.T) {
	res := compileString(t, cleanProgram, Options{Timings: true})
	if res.Timings == nil || len(res.Timings.Phases) != 3 {
		t.Fatalf("expected parse, sema and lower timings, got %+v", res.Timings)
	}
	items := res.Bag.Items()
	last := items[len(items)-1]
	if last.Code != diag.ObsTimings || last.Severity != diag.SevNote {
		t.Fatalf("expected trailing timings note, got %+v", last)
	}
	if len(last.Notes) != 1 || !strings.Contains(last.Notes[0].Msg, `"phases"`) {
		t.Fatalf("timings payload missing: %+v", last.Notes)
	}
	if res.HasErrors() {
		t.Fatalf("timings must not count as errors")
	}
}

func TestCompileSourceTraces(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	fs := source.NewFileSet()
	CompileSource(ctx, fs, fs.AddVirtual("t.druk", []byte(cleanProgram)), Options{})

	out := buf.String()
	for _, phase := range []string{"→ parse", "← sema", "← lower (funcs=2)"} {
		if !strings.Contains(out, phase) {
			t.Fatalf("trace missing %q:\n%s", phase, out)
		}
	}
}

func TestCompileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := source.NewFileSet()
	res := CompileSource(ctx, fs, fs.AddVirtual("c.druk", []byte(cleanProgram)), Options{})
	if !errors.Is(res.Err, context.Canceled) || !res.HasErrors() {
		t.Fatalf("expected cancellation, got %v", res.Err)
	}
}

func TestDiagnoseDirOrdersResults(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.druk", "print 1;\n")
	writeSource(t, dir, "a.druk", "print missing;\n")
	writeSource(t, dir, "nested/c.druk", cleanProgram)
	writeSource(t, dir, "notes.txt", "ignored")

	_, results, err := DiagnoseDir(context.Background(), dir, Options{Stage: StageSema, Jobs: 2})
	if err != nil {
		t.Fatalf("DiagnoseDir: %v", err)
	}
	want := []string{"a.druk", "b.druk", filepath.Join("nested", "c.druk")}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, res := range results {
		rel, _ := filepath.Rel(dir, res.Path())
		if rel != want[i] {
			t.Fatalf("result %d is %q, want %q", i, rel, want[i])
		}
	}
	if !results[0].Bag.HasErrors() || results[1].Bag.HasErrors() || results[2].Bag.HasErrors() {
		t.Fatalf("errors attributed to the wrong unit")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestDiagnoseDirReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.druk", cleanProgram)
	bad := writeSource(t, dir, "bad.druk", "print missing;\n")

	sink := &recordingSink{}
	if _, _, err := DiagnoseDir(context.Background(), dir, Options{Stage: StageIR, Jobs: 2, Progress: sink}); err != nil {
		t.Fatalf("DiagnoseDir: %v", err)
	}
	last := make(map[string]Status)
	phases := make(map[string][]string)
	queued := 0
	for _, evt := range sink.events {
		if evt.Status == StatusQueued {
			queued++
		}
		if evt.Status == StatusWorking {
			phases[evt.File] = append(phases[evt.File], evt.Phase)
		}
		last[evt.File] = evt.Status
	}
	if queued != 2 {
		t.Fatalf("expected 2 queued events, got %d", queued)
	}
	if last[good] != StatusDone || last[bad] != StatusError {
		t.Fatalf("unexpected final statuses: %v", last)
	}
	if got := strings.Join(phases[good], ","); got != "parse,sema,lower" {
		t.Fatalf("good phases = %q", got)
	}
	if got := strings.Join(phases[bad], ","); got != "parse,sema" {
		t.Fatalf("bad phases = %q", got)
	}
}

func TestDiagnoseDirTestdata(t *testing.T) {
	root := filepath.Join("..", "..", "testdata")
	_, ok, err := DiagnoseDir(context.Background(), filepath.Join(root, "ok"), Options{Stage: StageIR})
	if err != nil {
		t.Fatalf("DiagnoseDir ok: %v", err)
	}
	if len(ok) == 0 {
		t.Fatalf("no programs under testdata/ok")
	}
	for _, res := range ok {
		if res.HasErrors() || res.Module == nil {
			t.Fatalf("%s: expected a clean unit, got %+v (lower: %v)", res.Path(), res.Bag.Items(), res.LowerErr)
		}
	}
	_, bad, err := DiagnoseDir(context.Background(), filepath.Join(root, "errors"), Options{Stage: StageIR})
	if err != nil {
		t.Fatalf("DiagnoseDir errors: %v", err)
	}
	for _, res := range bad {
		if !res.Bag.HasErrors() {
			t.Fatalf("%s: expected diagnostics", res.Path())
		}
	}
}

func TestDiagnoseDirEmpty(t *testing.T) {
	fs, results, err := DiagnoseDir(context.Background(), t.TempDir(), Options{})
	if err != nil || fs == nil || len(results) != 0 {
		t.Fatalf("unexpected %v %v %v", fs, results, err)
	}
}

func TestParseStage(t *testing.T) {
	if s, ok := ParseStage(""); !ok || s != StageIR {
		t.Fatalf("empty stage should default to ir")
	}
	if _, ok := ParseStage("codegen"); ok {
		t.Fatalf("unknown stage accepted")
	}
}

func TestBuildLLVM(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.druk", cleanProgram)
	out := filepath.Join(dir, "build", "main.ll")

	res, err := Build(context.Background(), src, BuildOptions{Output: out, Triple: "x86_64-unknown-linux-gnu"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.CacheHit || res.Unit == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"define i32 @main()", "define i64 @add(", `target triple = "x86_64-unknown-linux-gnu"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("output missing %q:\n%s", want, data)
		}
	}
}

func TestBuildRejectsErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.druk", "print nope;\n")
	res, err := Build(context.Background(), src, BuildOptions{Output: filepath.Join(dir, "bad.ll")})
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	if res.Unit == nil || !res.Unit.Bag.HasErrors() {
		t.Fatalf("diagnostics should be returned with the failure")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.ll")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no output expected, stat err = %v", err)
	}
}

func TestBuildChunkUsesCache(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.druk", cleanProgram)
	cache, err := NewDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	opts := BuildOptions{Backend: project.BackendChunk, Output: filepath.Join(dir, "out.dkc"), Cache: cache}

	first, err := Build(context.Background(), src, opts)
	if err != nil || first.CacheHit {
		t.Fatalf("first build: hit=%v err=%v", first.CacheHit, err)
	}
	second, err := Build(context.Background(), src, opts)
	if err != nil || !second.CacheHit || second.Unit != nil {
		t.Fatalf("second build should hit the cache: %+v %v", second, err)
	}
	c, err := chunk.ReadFile(opts.Output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if c.Funcs[c.Entry].Name != lower.MainFunc {
		t.Fatalf("entry is %q", c.Funcs[c.Entry].Name)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	third, err := Build(context.Background(), src, opts)
	if err != nil || third.CacheHit {
		t.Fatalf("cache should be empty after DropAll: %+v %v", third, err)
	}
}

func TestCacheKeyDependsOnContent(t *testing.T) {
	a := CacheKey([]byte("print 1;"), "main")
	if a == CacheKey([]byte("print 2;"), "main") {
		t.Fatalf("different sources share a key")
	}
	if a == CacheKey([]byte("print 1;"), "start") {
		t.Fatalf("different entries share a key")
	}
}

func TestFormatPathsCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	messy := writeSource(t, dir, "messy.druk", "print   1+2 ;\n")
	tidy := writeSource(t, dir, "tidy.druk", "print 1;\n")
	broken := writeSource(t, dir, "broken.druk", "print ;\n")

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Check: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	byPath := make(map[string]FormatResult)
	for _, res := range results {
		byPath[res.Path] = res
	}
	if !byPath[messy].Changed || byPath[tidy].Changed || byPath[broken].Err == nil {
		t.Fatalf("unexpected check results: %+v", results)
	}
	if data, _ := os.ReadFile(messy); string(data) != "print   1+2 ;\n" {
		t.Fatalf("check rewrote the file")
	}

	if _, err := FormatPaths(context.Background(), []string{messy}, FormatOptions{}); err != nil {
		t.Fatalf("FormatPaths write: %v", err)
	}
	if data, _ := os.ReadFile(messy); string(data) != "print 1 + 2;\n" {
		t.Fatalf("unexpected formatted file %q", data)
	}
}

func TestFormatPathsRequiresSources(t *testing.T) {
	if _, err := FormatPaths(context.Background(), []string{t.TempDir()}, FormatOptions{}); err == nil {
		t.Fatalf("expected error for directory without sources")
	}
}
