package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"druk/internal/driver"
	"druk/internal/project"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [file.druk]",
		Short: "Compile a druk program to LLVM assembly or a bytecode chunk",
		Long: `Compile a druk program. The llvm backend writes textual LLVM IR (.ll),
the chunk backend writes a msgpack bytecode chunk (.dkc). Without an argument
the project described by druk.toml is built.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
	cmd.Flags().String("backend", "", "backend (llvm|chunk); defaults to [build].backend or llvm")
	cmd.Flags().StringP("output", "o", "", "output path")
	cmd.Flags().String("triple", "", "LLVM target triple (default: host)")
	cmd.Flags().Bool("no-cache", false, "bypass the chunk cache")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	backend, err := cmd.Flags().GetString("backend")
	if err != nil {
		return fmt.Errorf("failed to get backend flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	triple, err := cmd.Flags().GetString("triple")
	if err != nil {
		return fmt.Errorf("failed to get triple flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := s.inputPath(args)
	if err != nil {
		return err
	}

	// explicit flags win over druk.toml
	useManifest := s.manifest != nil && len(args) == 0
	if useManifest {
		cfg := s.manifest.Config.Build
		if backend == "" {
			backend = cfg.Backend
		}
		if triple == "" {
			triple = cfg.Triple
		}
	}
	if backend == "" {
		backend = project.BackendLLVM
	}
	if output == "" {
		if useManifest && s.manifest.Config.Build.Backend == backend {
			output = s.manifest.OutputPath()
		} else {
			output = defaultOutput(path, backend)
		}
	}

	opts := driver.BuildOptions{
		Options: s.driverOptions(driver.StageIR),
		Backend: backend,
		Output:  output,
		Triple:  triple,
	}
	if backend == project.BackendChunk && !noCache {
		if opts.Cache, err = driver.OpenDiskCache("druk"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	res, err := driver.Build(cmd.Context(), path, opts)
	if res != nil && res.Unit != nil {
		if repErr := report(cmd, s, res.Unit); repErr != nil {
			return repErr
		}
	}
	if err != nil {
		return err
	}
	status := "built"
	if res.CacheHit {
		status = "cached"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, res.Output)
	return nil
}

// defaultOutput places the artefact next to the source file.
func defaultOutput(path, backend string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if backend == project.BackendChunk {
		return base + ".dkc"
	}
	return base + ".ll"
}
