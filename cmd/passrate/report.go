package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mindsgn-studio/passrate/chart"
	"github.com/mindsgn-studio/passrate/config"
	"github.com/mindsgn-studio/passrate/report"
)

type reportFlags struct {
	countFlags
	format      string
	out         string
	chartDir    string
	chartFormat string
}

func newReportCmd(rf *rootFlags) *cobra.Command {
	f := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute pass rates once and print the regression report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, rf, f)
		},
	}

	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: text, md or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.chartDir, "chart-dir", "", "Write a donut chart per suite with data into this directory")
	flags.StringVar(&f.chartFormat, "chart-format", chart.FormatSVG, "Chart image format: svg or png")
	return cmd
}

func runReport(cmd *cobra.Command, rf *rootFlags, f *reportFlags) error {
	if err := f.validate(); err != nil {
		return err
	}
	cfg, err := loadConfig(rf)
	if err != nil {
		return err
	}
	log := newLogger(cfg, rf.verbose, cmd.ErrOrStderr())

	smoke, e2e := f.counts()
	rep := report.Build(smoke, e2e)
	log.WithField("sections", len(rep.Sections)).Debug("Built report")

	data, err := report.Render(rep, f.format)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}

	if f.out == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return exitError(exitRuntime, "failed to write report: %v", err)
		}
	} else {
		if err := os.WriteFile(f.out, data, 0o644); err != nil {
			return exitError(exitRuntime, "failed to write report: %v", err)
		}
		log.WithField("path", f.out).Info("Wrote report")
	}

	if f.chartDir == "" {
		return nil
	}
	paths, err := writeCharts(rep, f.chartDir, f.chartFormat, cfg.Chart)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.WithField("path", p).Info("Wrote chart")
	}
	return nil
}

// writeCharts renders one chart file per section and returns the written paths.
func writeCharts(rep report.Report, dir, format string, size config.Chart) ([]string, error) {
	if format != chart.FormatSVG && format != chart.FormatPNG {
		return nil, exitError(exitUsage, "unknown chart format %q (want svg or png)", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, exitError(exitRuntime, "failed to create %s: %v", dir, err)
	}

	var paths []string
	for _, sec := range rep.Sections {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", sec.Slug, format))
		if err := writeChart(path, sec.Chart, chart.Options{Width: size.Width, Height: size.Height}); err != nil {
			return paths, exitError(exitRuntime, "%v", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChart(path string, data report.ChartData, opts chart.Options) (err error) {
	format, err := chart.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write chart file failed: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write chart file failed: %w", cerr)
		}
	}()
	return chart.Render(f, data, format, opts)
}
