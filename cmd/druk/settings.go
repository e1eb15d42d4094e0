package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/driver"
	"druk/internal/project"
)

// settings are the persistent flags merged over druk.toml.
type settings struct {
	manifest       *project.Manifest
	maxDiagnostics int
	timings        bool
	color          bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return nil, err
	}
	manifest, _, err := project.Load(".")
	if err != nil {
		return nil, err
	}
	if manifest != nil && manifest.Config.Build.MaxDiagnostics > 0 && !flags.Changed("max-diagnostics") {
		maxDiagnostics = manifest.Config.Build.MaxDiagnostics
	}
	return &settings{
		manifest:       manifest,
		maxDiagnostics: maxDiagnostics,
		timings:        timings,
		color:          color,
	}, nil
}

func (s *settings) driverOptions(stage driver.Stage) driver.Options {
	return driver.Options{
		Stage:          stage,
		MaxDiagnostics: s.maxDiagnostics,
		Timings:        s.timings,
	}
}

// inputPath returns args[0], or [build].main of the project manifest.
func (s *settings) inputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if s.manifest == nil {
		return "", fmt.Errorf("%w\nplease specify the source file explicitly, e.g.:\n  druk build main.druk", project.ErrNoManifest)
	}
	return s.manifest.MainPath()
}
