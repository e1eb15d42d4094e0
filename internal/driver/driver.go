// Package driver runs the druk pipeline over files and directories.
package driver

import (
	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/ir"
	"druk/internal/observ"
	"druk/internal/sema"
	"druk/internal/source"
	"druk/internal/token"
)

// Stage is the last phase CompileSource runs.
type Stage string

const (
	StageTokens Stage = "tokens"
	StageSyntax Stage = "syntax"
	StageSema   Stage = "sema"
	StageIR     Stage = "ir"
)

// ParseStage accepts the stage names; the empty string means StageIR.
func ParseStage(s string) (Stage, bool) {
	switch Stage(s) {
	case "":
		return StageIR, true
	case StageTokens, StageSyntax, StageSema, StageIR:
		return Stage(s), true
	default:
		return "", false
	}
}

func (s Stage) rank() int {
	switch s {
	case StageTokens:
		return 0
	case StageSyntax:
		return 1
	case StageSema:
		return 2
	default:
		return 3
	}
}

// reaches reports whether running up to s includes phase.
func (s Stage) reaches(phase Stage) bool { return s.rank() >= phase.rank() }

type Options struct {
	Stage          Stage
	MaxDiagnostics int
	// Timings records phase durations and appends an ObsTimings note.
	Timings bool
	// Jobs bounds DiagnoseDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Progress receives per-file phase events when set.
	Progress ProgressSink
}

// Result is everything one unit produced. Fields for phases that did not
// run are nil.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag

	Tokens  []token.Token
	Builder *ast.Builder
	AST     *ast.File
	Sema    *sema.Result
	Module  *ir.Module
	Timings *observ.Report

	// LowerErr is set when lowering was requested but refused or failed.
	LowerErr error
	// Err is the context error when compilation was cancelled mid-unit.
	Err error

	path string // set when the file could not be loaded
}

// Path returns the path of the compiled file.
func (r *Result) Path() string {
	if r == nil {
		return ""
	}
	if r.File == nil {
		return r.path
	}
	return r.File.Path
}

// HasErrors reports error diagnostics or a lowering failure.
func (r *Result) HasErrors() bool {
	return r.Bag.HasErrors() || r.LowerErr != nil || r.Err != nil
}
