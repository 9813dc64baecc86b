package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mindsgn-studio/passrate/tui"
)

const debugLogPath = "passrate-debug.log"

func newTUICmd(rf *rootFlags) *cobra.Command {
	cf := &countFlags{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rf, cf)
		},
	}
	cf.register(cmd)
	return cmd
}

// runTUI runs the dashboard with the Bubble Tea interface
func runTUI(cmd *cobra.Command, rf *rootFlags, cf *countFlags) error {
	if err := cf.validate(); err != nil {
		return err
	}
	cfg, err := loadConfig(rf)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to a file in verbose mode.
	var out io.Writer = io.Discard
	if rf.verbose {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return exitError(exitRuntime, "failed to open %s: %v", debugLogPath, err)
		}
		defer f.Close()
		out = f
	}
	log := newLogger(cfg, rf.verbose, out)

	smoke, e2e := cf.counts()
	model := tui.NewModel(cfg.Title, smoke, e2e, log)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmdContext(cmd)),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return exitError(exitRuntime, "error running TUI: %v", err)
	}
	return nil
}
