package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/diagfmt"
	"druk/internal/driver"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [flags] [file.druk]",
		Short: "Print the token stream of a druk source file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokens,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := s.inputPath(args)
	if err != nil {
		return err
	}
	res, err := driver.CompileFile(cmd.Context(), path, s.driverOptions(driver.StageTokens))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	return report(cmd, s, res)
}
