package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindsgn-studio/passrate/config"
)

var version = "0.1.0"

type rootFlags struct {
	configPath string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			return ee.code
		}
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "passrate",
		Short: "Visualize pass and fail rates of Smoke and End to End test suites",
		Long: `passrate computes pass and fail rates for a Smoke and an End to End test suite
and shows them as a summary plus donut charts.

Run without arguments to launch the interactive terminal dashboard, or use
subcommands for the web dashboard and one-shot reports.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, f, &countFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", config.DefaultPath, "Path to configuration file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTUICmd(f),
		newServeCmd(f),
		newReportCmd(f),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "passrate v%s\n", version)
		},
	}
}

// loadConfig reads the configuration named by the root flags.
func loadConfig(f *rootFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, exitError(exitUsage, "failed to load config: %v", err)
	}
	return cfg, nil
}
