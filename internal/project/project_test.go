package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"demo\"\n")
	writeFile(t, filepath.Join(root, "main.druk"), "print 1;\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("Root = %q, want %q", m.Root, root)
	}
	if m.Config.Build.Backend != BackendLLVM || m.Config.Build.Main != "main.druk" {
		t.Fatalf("defaults not applied: %+v", m.Config.Build)
	}
	mainPath, err := m.MainPath()
	if err != nil || mainPath != filepath.Join(root, "main.druk") {
		t.Fatalf("MainPath = %q, %v", mainPath, err)
	}
	if got := m.OutputPath(); got != filepath.Join(root, "build", "demo.ll") {
		t.Fatalf("OutputPath = %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if m != nil || ok || err != nil {
		t.Fatalf("expected no manifest, got %v %v %v", m, ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[build]\nmain = \"a.druk\"\n", "missing [package]"},
		{"empty name", "[package]\nname = \" \"\n", "missing [package].name"},
		{"bad backend", "[package]\nname = \"x\"\n[build]\nbackend = \"wasm\"\n", "[build].backend"},
		{"negative cap", "[package]\nname = \"x\"\n[build]\nmax_diagnostics = -1\n", "max_diagnostics"},
		{"unknown key", "[package]\nname = \"x\"\nversion = \"1\"\n", "unknown key"},
		{"syntax", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[build]\n")
	if _, err := LoadConfig(path); !errors.Is(err, ErrPackageSectionMissing) {
		t.Fatalf("expected ErrPackageSectionMissing, got %v", err)
	}
}

func TestChunkBackendOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName),
		"[package]\nname = \"vm\"\n[build]\nbackend = \"chunk\"\nmain = \"src\"\n")
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	m, _, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.OutputPath(); got != filepath.Join(root, "build", "vm.dkc") {
		t.Fatalf("OutputPath = %q", got)
	}
	if _, err := m.MainPath(); err == nil {
		t.Fatalf("directory main should be rejected")
	}
}

func TestCombine(t *testing.T) {
	src := Sum([]byte("print 1;"))
	a := Combine(src, []byte("v1"))
	b := Combine(src, []byte("v2"))
	if a == b {
		t.Fatalf("salt does not change the digest")
	}
	if a != Combine(src, []byte("v1")) {
		t.Fatalf("Combine is not deterministic")
	}
	if len(a.String()) != 64 {
		t.Fatalf("unexpected hex length %d", len(a.String()))
	}
}
