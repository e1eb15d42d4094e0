package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"druk/internal/trace"
)

// setupTracing builds the tracer selected by the --trace flags and attaches
// it, with a root span for the command, to the command context.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace alone means phase-level tracing
	if level == trace.LevelOff && output != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelError && !flags.Changed("trace-mode") {
		mode = trace.ModeRing
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	span := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	ctx := trace.WithSpan(trace.WithTracer(cmd.Context(), tracer), span)
	cmd.SetContext(ctx)

	return func() {
		span.End("")
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// dumpTrace writes the in-memory ring, if any, to stderr. Commands call it
// when they fail so error-level tracing leaves a record.
func dumpTrace(cmd *cobra.Command) {
	ring := trace.RingOf(trace.FromContext(cmd.Context()))
	if ring == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "== trace ==")
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}
