package driver

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/lexer"
	"druk/internal/lower"
	"druk/internal/observ"
	"druk/internal/parser"
	"druk/internal/sema"
	"druk/internal/source"
	"druk/internal/trace"
)

// CompileFile loads path into a fresh FileSet and compiles it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return CompileSource(ctx, fs, fileID, opts), nil
}

// CompileSource runs lex, parse, sema and lowering over one file, stopping
// after opts.Stage. Lowering only runs on a unit without error diagnostics.
// The unit is processed on the calling goroutine.
func CompileSource(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *Result {
	file := fs.Get(fileID)
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	if opts.Stage == "" {
		opts.Stage = StageIR
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	started := time.Now()
	defer func() {
		status, err := finalStatus(res)
		emit(opts.Progress, Event{File: file.Path, Status: status, Err: err, Elapsed: time.Since(started)})
	}()

	tracer := trace.FromContext(ctx)
	unitSpan := trace.Begin(tracer, trace.ScopeUnit, "unit:"+file.Path, trace.CurrentSpan(ctx))
	defer unitSpan.End("")
	parent := unitSpan.ID()
	if parent == 0 {
		parent = trace.CurrentSpan(ctx)
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	phase := func(name string, run func() string) {
		emit(opts.Progress, Event{File: file.Path, Phase: name, Status: StatusWorking})
		span := trace.Begin(tracer, trace.ScopePhase, name, parent)
		idx := -1
		if timer != nil {
			idx = timer.Begin(name)
		}
		note := run()
		if timer != nil {
			timer.End(idx, note)
		}
		span.End(note)
	}
	defer func() {
		if timer == nil {
			return
		}
		report := timer.Report()
		report.Path = file.Path
		res.Timings = &report
		appendTimingDiagnostic(res.Bag, report)
	}()

	if opts.Stage == StageTokens {
		phase("lex", func() string {
			res.Tokens = lexer.Tokenize(file, lexer.Options{Reporter: reporter})
			return fmt.Sprintf("tokens=%d", len(res.Tokens))
		})
		return res
	}

	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}
	phase("parse", func() string {
		maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
		if err != nil {
			panic(fmt.Errorf("max diagnostics overflow: %w", err))
		}
		res.Builder = ast.NewBuilder(ast.Hints{})
		pr := parser.ParseFile(file, res.Builder, parser.Options{
			Reporter:  reporter,
			MaxErrors: maxErrors,
		})
		res.AST = pr.File
		return fmt.Sprintf("decls=%d errors=%d", len(pr.File.Decls), pr.Errors)
	})
	if !opts.Stage.reaches(StageSema) {
		return res
	}

	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}
	phase("sema", func() string {
		sem := sema.Check(res.Builder, res.AST, sema.Options{Reporter: reporter})
		res.Sema = &sem
		return fmt.Sprintf("errors=%d", sem.Errors)
	})
	if !opts.Stage.reaches(StageIR) {
		return res
	}

	if res.Bag.HasErrors() {
		res.LowerErr = lower.ErrUnitHasErrors
		return res
	}
	if ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}
	phase("lower", func() string {
		mod, err := lower.Module(res.Builder, res.AST, res.Sema)
		if err != nil {
			res.LowerErr = err
			return "failed"
		}
		res.Module = mod
		return fmt.Sprintf("funcs=%d", len(mod.Funcs))
	})
	return res
}
