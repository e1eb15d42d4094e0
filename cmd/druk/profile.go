package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/prof"
)

// setupProfiling starts the profilers requested by the persistent flags.
// The returned cleanup reports write failures on stderr.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	session, err := prof.Start(prof.Options{CPU: cpuProfile, Mem: memProfile, RuntimeTrace: tracePath})
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(stderr, "profiling: %v\n", err)
		}
	}, nil
}
