package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const program = `var n: Number = 3;
function square(x) {
  return x * x;
}
print square(n);
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root, finish := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	finish()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDiagCleanFile(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "ok.druk"), program)
	out, _, err := run(t, "diag", src)
	if err != nil {
		t.Fatalf("diag: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no diagnostics, got:\n%s", out)
	}
}

func TestDiagReportsErrors(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "bad.druk"), "var s: String = 1;\n")
	out, _, err := run(t, "diag", "--color=off", src)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	for _, want := range []string{"bad.druk:1:17", "ERROR SEM3005", "Type mismatch in initialization", "^"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.druk"), "print nope;\n")
	writeFile(t, filepath.Join(dir, "b.druk"), program)
	out, _, err := run(t, "diag", "--format=json", "--jobs=2", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	var doc struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "SEM3004" {
		t.Fatalf("unexpected diagnostics %+v", doc)
	}
}

func TestDiagRejectsUnknownStage(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "ok.druk"), program)
	if _, _, err := run(t, "diag", "--stage=codegen", src); err == nil || !strings.Contains(err.Error(), "unknown stage") {
		t.Fatalf("expected stage error, got %v", err)
	}
}

func TestTokensJSON(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "t.druk"), "print 1;\n")
	out, _, err := run(t, "tokens", "--format=json", src)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(toks) != 4 {
		t.Fatalf("expected print, 1, ;, EOF; got %d tokens", len(toks))
	}
}

func TestIRDump(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "p.druk"), program)
	out, _, err := run(t, "ir", src)
	if err != nil {
		t.Fatalf("ir: %v", err)
	}
	for _, want := range []string{"globals=1", "@n: Int = 3", "fn square(%x: Int) -> Int {", "fn main() -> Void {"} {
		if !strings.Contains(out, want) {
			t.Fatalf("IR missing %q:\n%s", want, out)
		}
	}
}

func TestIRFailsOnErrors(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "bad.druk"), "print missing;\n")
	out, stderr, err := run(t, "ir", "--color=off", src)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if out != "" || !strings.Contains(stderr, "Undefined variable 'missing'") {
		t.Fatalf("diagnostics belong on stderr; stdout=%q stderr=%q", out, stderr)
	}
}

func TestBuildFromManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "druk.toml"), "[package]\nname = \"demo\"\n\n[build]\nmain = \"src/app.druk\"\ntriple = \"aarch64-apple-darwin\"\n")
	writeFile(t, filepath.Join(root, "src", "app.druk"), program)
	t.Chdir(root)

	out, _, err := run(t, "build")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := filepath.Join(root, "build", "demo.ll")
	if strings.TrimSpace(out) != "built "+want {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `target triple = "aarch64-apple-darwin"`) {
		t.Fatalf("manifest triple not applied:\n%s", data)
	}
}

func TestBuildChunkNextToSource(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	src := writeFile(t, filepath.Join(t.TempDir(), "vm.druk"), program)
	if _, _, err := run(t, "build", "--backend=chunk", src); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(src, ".druk") + ".dkc"); err != nil {
		t.Fatalf("chunk not written: %v", err)
	}
	out, _, err := run(t, "build", "--backend=chunk", src)
	if err != nil || !strings.HasPrefix(out, "cached ") {
		t.Fatalf("second build should hit the cache: %q %v", out, err)
	}
}

func TestBuildWithoutInput(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, _, err := run(t, "build"); err == nil || !strings.Contains(err.Error(), "no druk.toml found") {
		t.Fatalf("expected missing manifest error, got %v", err)
	}
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "ok.druk"), program)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, _, err := run(t, "--trace", tracePath, "diag", src); err != nil {
		t.Fatalf("diag: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("trace is not ndjson: %v", err)
	}
	if first["name"] != "diag" || first["scope"] != "driver" {
		t.Fatalf("unexpected first event %v", first)
	}
	if !strings.Contains(string(data), `"name":"sema"`) {
		t.Fatalf("sema phase missing from trace:\n%s", data)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := run(t, "version", "--format=json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "druk" || payload.ChunkSchema == 0 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDiagDirectoryWithoutUI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.druk"), program)
	writeFile(t, filepath.Join(dir, "bad.druk"), "print missing;\n")
	out, _, err := run(t, "diag", "--color=off", "--ui=off", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(out, "bad.druk:1:7") || strings.Contains(out, "ok.druk") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDiagRejectsUnknownUIMode(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "ok.druk"), program)
	if _, _, err := run(t, "diag", "--ui=fancy", src); err == nil || !strings.Contains(err.Error(), "invalid --ui value") {
		t.Fatalf("expected ui mode error, got %v", err)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "ok.druk"), program)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := run(t, "diag", "--cpu-profile", cpu, "--mem-profile", mem, src); err != nil {
		t.Fatalf("diag: %v", err)
	}
	for _, path := range []string{cpu, mem} {
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("profile %s not written: %v", path, err)
		}
	}
}

func TestFmtStdoutAndCheck(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "messy.druk"), "while(true){print 1;}\n")
	out, _, err := run(t, "fmt", "--stdout", "--indent=2", src)
	if err != nil {
		t.Fatalf("fmt --stdout: %v", err)
	}
	if out != "while (true) {\n  print 1;\n}\n" {
		t.Fatalf("unexpected formatted output %q", out)
	}
	out, _, err = run(t, "fmt", "--check", src)
	if err == nil || !strings.Contains(out, "messy.druk") {
		t.Fatalf("expected check failure listing the file, got %v %q", err, out)
	}
	if _, _, err := run(t, "fmt", src); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if _, _, err := run(t, "fmt", "--check", src); err != nil {
		t.Fatalf("file should be formatted now: %v", err)
	}
}
