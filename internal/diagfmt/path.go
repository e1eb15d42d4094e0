package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		if rel, ok := relTo(path, baseDir); ok {
			return rel
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if !filepath.IsAbs(path) {
			return path
		}
		if rel, ok := relTo(path, baseDir); ok && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return filepath.Base(path)
	}
}

func relTo(path, baseDir string) (string, bool) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
