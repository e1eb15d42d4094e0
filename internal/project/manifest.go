package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceExt is the extension of druk source files.
const SourceExt = ".druk"

var (
	ErrPackageSectionMissing = errors.New("missing [package]")
	ErrPackageNameMissing    = errors.New("missing [package].name")
	ErrNoManifest            = errors.New("no druk.toml found")
)

// Backend names accepted in [build].backend.
const (
	BackendLLVM  = "llvm"
	BackendChunk = "chunk"
)

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Main           string `toml:"main"`
	Backend        string `toml:"backend"`
	Output         string `toml:"output"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Triple         string `toml:"triple"`
}

// Manifest is a decoded druk.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Load finds and decodes the manifest above startDir. ok is false when no
// manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes path and fills defaults for the [build] section.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	b := &cfg.Build
	if strings.TrimSpace(b.Main) == "" {
		b.Main = "main" + SourceExt
	}
	switch b.Backend {
	case "":
		b.Backend = BackendLLVM
	case BackendLLVM, BackendChunk:
	default:
		return Config{}, fmt.Errorf("%s: [build].backend must be %q or %q, got %q", path, BackendLLVM, BackendChunk, b.Backend)
	}
	if b.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [build].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// MainPath resolves [build].main against the project root.
func (m *Manifest) MainPath() (string, error) {
	mainPath := filepath.Join(m.Root, filepath.FromSlash(m.Config.Build.Main))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [build].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [build].main: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(mainPath) != SourceExt {
		return "", fmt.Errorf("%s: [build].main must be a %s file", m.Path, SourceExt)
	}
	return mainPath, nil
}

// OutputPath resolves [build].output, defaulting to build/<name> with an
// extension that matches the backend.
func (m *Manifest) OutputPath() string {
	out := m.Config.Build.Output
	if out == "" {
		ext := ".ll"
		if m.Config.Build.Backend == BackendChunk {
			ext = ".dkc"
		}
		out = filepath.Join("build", m.Config.Package.Name+ext)
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}
