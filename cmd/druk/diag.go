package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"druk/internal/diag"
	"druk/internal/diagfmt"
	"druk/internal/driver"
	"druk/internal/lower"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.druk|directory>",
		Short: "Run diagnostics on a druk source file or directory",
		Long:  `Run diagnostics to find syntax and semantic issues in a druk source file or in every *.druk file below a directory`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDiag,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("stage", "ir", "last stage to run (tokens|syntax|sema|ir)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
	return cmd
}

func runDiag(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, ok := driver.ParseStage(stageStr)
	if !ok {
		return fmt.Errorf("unknown stage value: %s", stageStr)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts := s.driverOptions(stage)
	opts.Jobs = jobs

	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	var results []*driver.Result
	if st.IsDir() {
		if format == "pretty" && shouldUseTUI(cmd, mode) {
			_, results, err = diagnoseDirWithUI(cmd.Context(), cmd, args[0], opts)
		} else {
			_, results, err = driver.DiagnoseDir(cmd.Context(), args[0], opts)
		}
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
	} else {
		res, err := driver.CompileFile(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
		results = []*driver.Result{res}
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	failed := false
	switch format {
	case "pretty":
		for _, res := range results {
			diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:     s.color,
				Context:   2,
				PathMode:  pathMode,
				ShowNotes: withNotes,
			})
			printLowerError(cmd, res)
			failed = failed || res.HasErrors()
		}
	case "json":
		if len(results) == 0 {
			return diagfmt.JSON(out, diag.NewBag(0), nil, diagfmt.JSONOpts{})
		}
		merged := diag.NewBag(0)
		for _, res := range results {
			merged.Merge(res.Bag)
			printLowerError(cmd, res)
			failed = failed || res.HasErrors()
		}
		if err := diagfmt.JSON(out, merged, results[0].FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	if failed {
		dumpTrace(cmd)
		return errFailed
	}
	return nil
}

// printLowerError reports lowering failures that are not already covered
// by a diagnostic.
func printLowerError(cmd *cobra.Command, res *driver.Result) {
	if res.LowerErr == nil || errors.Is(res.LowerErr, lower.ErrUnitHasErrors) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", res.Path(), res.LowerErr)
}

// report prints the diagnostics of res to stderr and turns errors into
// errFailed.
func report(cmd *cobra.Command, s *settings, res *driver.Result) error {
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:   s.color,
			Context: 2,
		})
	}
	printLowerError(cmd, res)
	if res.Err != nil {
		return res.Err
	}
	if res.HasErrors() {
		dumpTrace(cmd)
		return errFailed
	}
	return nil
}
