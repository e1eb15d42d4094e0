package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"druk/internal/format"
	"druk/internal/project"
	"druk/internal/source"
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check          bool
	MaxDiagnostics int
	Options        format.Options
	Stdout         bool
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats the given files and every *.druk file below the given
// directories. With opts.Check nothing is written and Changed reports
// whether the file would change; with opts.Stdout the output is returned in
// Formatted instead of rewriting the file.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := collectSourceFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := FormatResult{Path: path}
		formatted, changed, err := formatSingleFile(path, opts)
		switch {
		case err != nil:
			result.Err = err
		case opts.Check:
			result.Changed = changed
		case opts.Stdout:
			result.Formatted = formatted
			result.Changed = changed
		case changed:
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
				result.Err = err
			} else {
				result.Changed = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func formatSingleFile(path string, opts FormatOptions) (formatted []byte, changed bool, err error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, false, err
	}
	sf := fileSet.Get(fileID)
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	formatted, err = format.Source(sf, opts.Options, maxDiag)
	if err != nil {
		return nil, false, err
	}
	// compare against the bytes on disk, not the normalized content
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return formatted, !bytes.Equal(raw, formatted), nil
}

func collectSourceFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(p) == project.SourceExt {
				addFile(p)
			}
			continue
		}
		found, err := SourceFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			addFile(f)
		}
	}
	sort.Strings(files)
	return files, nil
}
