package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"druk/internal/driver"
	"druk/internal/source"
	"druk/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI resolves mode against the command's output stream.
func shouldUseTUI(cmd *cobra.Command, mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		f, ok := cmd.OutOrStdout().(*os.File)
		return ok && isTerminal(f)
	}
}

type dirOutcome struct {
	fs      *source.FileSet
	results []*driver.Result
	err     error
}

// diagnoseDirWithUI runs DiagnoseDir while a progress view renders its events.
func diagnoseDirWithUI(ctx context.Context, cmd *cobra.Command, dir string, opts driver.Options) (*source.FileSet, []*driver.Result, error) {
	files, err := driver.SourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.DiagnoseDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("diagnosing "+filepath.Clean(dir), files, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// drain so DiagnoseDir can finish
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
