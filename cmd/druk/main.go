package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"druk/internal/version"
)

// errFailed reports that diagnostics were already printed and the process
// should exit non-zero without an extra message.
var errFailed = errors.New("failed")

// newRootCmd builds the command tree. finish releases the tracer and the
// profilers and must run after Execute, whether or not the command failed.
func newRootCmd() (root *cobra.Command, finish func()) {
	var cleanups []func()
	root = &cobra.Command{
		Use:           "druk",
		Short:         "druk language front end and IR toolchain",
		Long:          `druk checks druk programs, lowers them to IR and emits LLVM assembly or bytecode chunks`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyColor(cmd); err != nil {
				return err
			}
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopProfiling)
			stopTracing, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopTracing)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to report (0 = unlimited)")
	flags.Bool("timings", false, "report phase timings")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newTokensCmd(), newDiagCmd(), newIRCmd(), newBuildCmd(), newFmtCmd(), newVersionCmd())
	return root, func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}
}

func main() {
	root, finish := newRootCmd()
	err := root.Execute()
	finish()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
