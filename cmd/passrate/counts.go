package main

import (
	"github.com/spf13/cobra"

	"github.com/mindsgn-studio/passrate/metrics"
)

// countFlags are the four dashboard inputs given on the command line.
type countFlags struct {
	smokePassed int
	smokeFailed int
	e2ePassed   int
	e2eFailed   int
}

func (c *countFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&c.smokePassed, "smoke-passed", 0, "Passed Smoke Tests")
	flags.IntVar(&c.smokeFailed, "smoke-failed", 0, "Failed Smoke Tests")
	flags.IntVar(&c.e2ePassed, "e2e-passed", 0, "Passed End to End Tests")
	flags.IntVar(&c.e2eFailed, "e2e-failed", 0, "Failed End to End Tests")
}

// validate rejects counts the input fields never produce: negatives and
// anything above metrics.MaxCount.
func (c *countFlags) validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"--smoke-passed", c.smokePassed},
		{"--smoke-failed", c.smokeFailed},
		{"--e2e-passed", c.e2ePassed},
		{"--e2e-failed", c.e2eFailed},
	} {
		if f.value < 0 {
			return exitError(exitUsage, "%s must not be negative (got %d)", f.name, f.value)
		}
		if f.value > metrics.MaxCount {
			return exitError(exitUsage, "%s must not exceed %d (got %d)", f.name, metrics.MaxCount, f.value)
		}
	}
	return nil
}

func (c *countFlags) counts() (smoke, e2e metrics.Counts) {
	return metrics.Counts{Passed: c.smokePassed, Failed: c.smokeFailed},
		metrics.Counts{Passed: c.e2ePassed, Failed: c.e2eFailed}
}
