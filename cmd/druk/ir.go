package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"druk/internal/driver"
	"druk/internal/ir"
)

func newIRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ir [file.druk]",
		Short: "Print the IR of a druk source file",
		Long:  `Check a druk source file, lower it and print the resulting IR module. Without an argument the [build].main file of druk.toml is used.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIR,
	}
}

func runIR(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := s.inputPath(args)
	if err != nil {
		return err
	}
	res, err := driver.CompileFile(cmd.Context(), path, s.driverOptions(driver.StageIR))
	if err != nil {
		return err
	}
	if err := report(cmd, s, res); err != nil {
		return err
	}
	if err := ir.Dump(cmd.OutOrStdout(), res.Module); err != nil {
		return fmt.Errorf("failed to dump IR: %w", err)
	}
	return nil
}
