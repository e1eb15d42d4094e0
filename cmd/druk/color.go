package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"druk/internal/version"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the command's output stream.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := cmd.OutOrStdout().(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("unknown color mode %q (expected auto|on|off)", mode)
	}
}

func applyColor(cmd *cobra.Command) error {
	on, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !on
	version.SetColor(on)
	return nil
}
