package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"druk/internal/backend/llvm"
	"druk/internal/chunk"
	"druk/internal/lower"
	"druk/internal/project"
	"druk/internal/source"
	"druk/internal/trace"
)

// ErrDiagnostics means the unit has errors and nothing was emitted.
var ErrDiagnostics = errors.New("compilation failed")

type BuildOptions struct {
	Options
	// Backend is project.BackendLLVM (default) or project.BackendChunk.
	Backend string
	Output  string
	Triple  string
	// Cache is consulted for chunk builds when non-nil.
	Cache *DiskCache
}

type BuildResult struct {
	// Unit is nil on a cache hit.
	Unit     *Result
	Output   string
	CacheHit bool
}

// Build compiles path and writes the backend artefact to opts.Output.
func Build(ctx context.Context, path string, opts BuildOptions) (*BuildResult, error) {
	opts.Stage = StageIR
	if opts.Backend == "" {
		opts.Backend = project.BackendLLVM
	}
	if opts.Output == "" {
		return nil, errors.New("build: no output path")
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	out := &BuildResult{Output: opts.Output}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "build:"+opts.Backend, trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	switch opts.Backend {
	case project.BackendChunk:
		key := CacheKey(file.Content, lower.MainFunc)
		if cached, ok, err := opts.Cache.Get(key); err != nil {
			return nil, err
		} else if ok {
			trace.Point(tracer, trace.ScopeUnit, "cache-hit", file.Path, span.ID())
			out.CacheHit = true
			return out, chunk.WriteFile(opts.Output, cached.Chunk)
		}
		unit, err := compileClean(ctx, fs, fileID, opts.Options)
		out.Unit = unit
		if err != nil {
			return out, err
		}
		c, err := chunk.Encode(unit.Module, lower.MainFunc)
		if err != nil {
			return out, err
		}
		if err := chunk.WriteFile(opts.Output, c); err != nil {
			return out, err
		}
		return out, opts.Cache.Put(key, &DiskPayload{
			Path:   file.Path,
			Source: project.Sum(file.Content),
			Entry:  lower.MainFunc,
			Chunk:  c,
		})

	case project.BackendLLVM:
		unit, err := compileClean(ctx, fs, fileID, opts.Options)
		out.Unit = unit
		if err != nil {
			return out, err
		}
		emitSpan := trace.Begin(tracer, trace.ScopePhase, "emit", span.ID())
		asm, err := llvm.EmitModule(unit.Module, llvm.Options{Triple: opts.Triple, Entry: lower.MainFunc})
		emitSpan.End("")
		if err != nil {
			return out, err
		}
		return out, writeAtomic(opts.Output, []byte(asm))

	default:
		return nil, fmt.Errorf("build: unknown backend %q", opts.Backend)
	}
}

func compileClean(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*Result, error) {
	unit := CompileSource(ctx, fs, fileID, opts)
	switch {
	case unit.Err != nil:
		return unit, unit.Err
	case unit.Bag.HasErrors():
		return unit, ErrDiagnostics
	case unit.LowerErr != nil:
		return unit, unit.LowerErr
	}
	return unit, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
