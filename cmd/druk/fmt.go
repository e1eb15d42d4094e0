package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/driver"
	"druk/internal/format"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <path> [path...]",
		Short: "Format druk source files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFmt,
	}
	cmd.Flags().Bool("check", false, "check if files are properly formatted")
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	cmd.Flags().Int("indent", 4, "spaces per indentation level")
	cmd.Flags().Bool("tabs", false, "indent with tabs")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return fmt.Errorf("failed to get tabs flag: %w", err)
	}
	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}
	if indent < 1 {
		return fmt.Errorf("fmt: --indent must be positive")
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:          check,
		MaxDiagnostics: s.maxDiagnostics,
		Stdout:         writeToStdout,
		Options:        format.Options{IndentWidth: indent, UseTabs: tabs},
	})
	if err != nil {
		return err
	}

	var hasErrors, hasChanges bool
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			if outputFormat == "text" {
				fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			}
			continue
		}
		hasChanges = hasChanges || res.Changed
		if outputFormat != "text" {
			continue
		}
		switch {
		case writeToStdout:
			if _, err := out.Write(res.Formatted); err != nil {
				return err
			}
		case check && res.Changed:
			fmt.Fprintln(out, res.Path)
		case res.Changed:
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
	if outputFormat == "json" {
		if err := renderFmtJSON(cmd, results, check); err != nil {
			return err
		}
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func renderFmtJSON(cmd *cobra.Command, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}
	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
