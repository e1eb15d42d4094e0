package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/chunk"
	"druk/internal/target"
	"druk/internal/version"
)

type versionPayload struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	GitCommit   string `json:"git_commit,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
	ChunkSchema uint16 `json:"chunk_schema"`
	Triple      string `json:"default_triple"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out := cmd.OutOrStdout()
	switch format {
	case "text":
		_, err = fmt.Fprintln(out, version.Line())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{
			Tool:        "druk",
			Version:     version.Version,
			GitCommit:   version.GitCommit,
			BuildDate:   version.BuildDate,
			ChunkSchema: chunk.SchemaVersion,
			Triple:      target.DefaultTriple(),
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
