// Package report maps computed suite metrics onto the "Daily Regression Report"
// view: a text block and donut chart input for every suite that has data.
package report

import (
	"fmt"

	"github.com/mindsgn-studio/passrate/metrics"
)

const (
	// Title heads the report section of every front end.
	Title = "Daily Regression Report"

	PassedLabel = "Passed"
	FailedLabel = "Failed"

	PassedColor = "#2ecc71"
	FailedColor = "#e74c3c"

	// HoleRatio is the inner radius of the donut relative to the outer one.
	HoleRatio = 0.3
)

// Slice is one category of a donut chart.
type Slice struct {
	Label string  `json:"label"`
	Value int     `json:"value"`
	Pct   float64 `json:"pct"`
	Color string  `json:"color"`
}

// ChartData is everything a chart renderer needs for one suite.
type ChartData struct {
	Title       string  `json:"title"`
	Slices      []Slice `json:"slices"`
	CenterLabel string  `json:"center_label"`
	Hole        float64 `json:"hole"`
}

// Section is the output for a single suite with a non-zero total.
type Section struct {
	Suite  metrics.Suite       `json:"-"`
	Name   string              `json:"suite"`
	Slug   string              `json:"slug"`
	Result metrics.SuiteResult `json:"result"`
	Chart  ChartData           `json:"chart"`
}

// Lines returns the metric block shown under the suite heading.
func (s Section) Lines() []string {
	r := s.Result
	return []string{
		fmt.Sprintf("Total test cases: %d", r.Total),
		fmt.Sprintf("Passed: %d (%s)", r.Passed, metrics.FormatPercent(r.PassRate)),
		fmt.Sprintf("Failed: %d (%s)", r.Failed, metrics.FormatPercent(r.FailRate)),
	}
}

// Report is the full dashboard output for one set of inputs.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// HasData reports whether any suite produced a section.
func (r Report) HasData() bool {
	return len(r.Sections) > 0
}

// Section returns the section for suite s, if that suite has data.
func (r Report) Section(s metrics.Suite) (Section, bool) {
	for _, sec := range r.Sections {
		if sec.Suite == s {
			return sec, true
		}
	}
	return Section{}, false
}

// Build computes both suites and keeps the ones with data, Smoke first.
func Build(smoke, e2e metrics.Counts) Report {
	r := Report{Title: Title, Sections: []Section{}}
	for _, in := range []struct {
		suite  metrics.Suite
		counts metrics.Counts
	}{
		{metrics.Smoke, smoke},
		{metrics.EndToEnd, e2e},
	} {
		if sec, ok := NewSection(in.suite, in.counts); ok {
			r.Sections = append(r.Sections, sec)
		}
	}
	return r
}

// NewSection computes a single suite. It returns false when the suite has no data.
func NewSection(s metrics.Suite, c metrics.Counts) (Section, bool) {
	res, ok := c.Compute()
	if !ok {
		return Section{}, false
	}
	return Section{
		Suite:  s,
		Name:   s.String(),
		Slug:   s.Slug(),
		Result: res,
		Chart:  NewChartData(s, res),
	}, true
}

// NewChartData builds the two-slice donut input for a computed suite.
func NewChartData(s metrics.Suite, res metrics.SuiteResult) ChartData {
	return ChartData{
		Title: s.String() + " Results",
		Slices: []Slice{
			{Label: PassedLabel, Value: res.Passed, Pct: res.PassRate, Color: PassedColor},
			{Label: FailedLabel, Value: res.Failed, Pct: res.FailRate, Color: FailedColor},
		},
		CenterLabel: fmt.Sprintf("Total: %d", res.Total),
		Hole:        HoleRatio,
	}
}
