package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep the tests independent of any passrate.yaml in the working directory.
	args = append([]string{"--config", filepath.Join(t.TempDir(), "passrate.yaml")}, args...)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitErr
	require.True(t, errors.As(err, &ee), "expected exitErr, got %v", err)
	return ee.code
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "passrate v"+version+"\n", out)
}

func TestReportText(t *testing.T) {
	out, err := execute(t, "report", "--smoke-passed", "80", "--smoke-failed", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily Regression Report")
	assert.Contains(t, out, "Smoke Tests")
	assert.Contains(t, out, "Total test cases: 100")
	assert.Contains(t, out, "Passed: 80 (80.0%)")
	assert.Contains(t, out, "Failed: 20 (20.0%)")
	assert.NotContains(t, out, "End to End Tests")
}

func TestReportNoData(t *testing.T) {
	out, err := execute(t, "report")
	require.NoError(t, err)
	assert.Equal(t, "No test results entered.\n", out)
}

func TestReportJSON(t *testing.T) {
	out, err := execute(t, "report", "--e2e-passed", "10", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		Sections []struct {
			Slug string `json:"slug"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, "e2e", decoded.Sections[0].Slug)
}

func TestReportOutFileAndCharts(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "report.md")
	chartDir := filepath.Join(dir, "charts")

	out, err := execute(t, "report",
		"--e2e-passed", "7", "--e2e-failed", "3",
		"--format", "md",
		"--out", outPath,
		"--chart-dir", chartDir,
	)
	require.NoError(t, err)
	assert.Empty(t, out)

	md, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "- Passed: **7** (**70.0%**)")

	svg, err := os.ReadFile(filepath.Join(chartDir, "e2e.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = os.Stat(filepath.Join(chartDir, "smoke.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestReportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "negative count", args: []string{"report", "--smoke-failed", "-1"}, code: exitUsage},
		{name: "count too large", args: []string{"report", "--smoke-passed", "9223372036854775807", "--smoke-failed", "1"}, code: exitUsage},
		{name: "unknown format", args: []string{"report", "--format", "xml"}, code: exitUsage},
		{name: "unknown chart format", args: []string{"report", "--smoke-passed", "1", "--chart-dir", "x", "--chart-format", "gif"}, code: exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(t, err))
		})
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "report"})
	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(t, err))
}

func TestServeRejectsBadPort(t *testing.T) {
	_, err := execute(t, "serve", "--port", "70000")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(t, err))
}

func TestRunUnknownCommand(t *testing.T) {
	assert.Equal(t, exitUsage, run([]string{"frobnicate"}))
}
