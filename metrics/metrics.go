// Package metrics computes pass and fail rates for a test suite.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Suite identifies one of the dashboard's test suites.
type Suite int

const (
	Smoke Suite = iota
	EndToEnd
)

// Suites lists every suite in display order.
var Suites = []Suite{Smoke, EndToEnd}

// String returns the display name of the suite.
func (s Suite) String() string {
	switch s {
	case Smoke:
		return "Smoke Tests"
	case EndToEnd:
		return "End to End Tests"
	}
	return fmt.Sprintf("Suite(%d)", int(s))
}

// Slug returns the short identifier used in URLs and file names.
func (s Suite) Slug() string {
	switch s {
	case Smoke:
		return "smoke"
	case EndToEnd:
		return "e2e"
	}
	return ""
}

// ParseSuite resolves a slug back to its suite.
func ParseSuite(slug string) (Suite, bool) {
	for _, s := range Suites {
		if s.Slug() == slug {
			return s, true
		}
	}
	return 0, false
}

// Counts is the raw pass/fail input for one suite.
type Counts struct {
	Passed int `json:"passed" yaml:"passed"`
	Failed int `json:"failed" yaml:"failed"`
}

// Compute is shorthand for Compute(c.Passed, c.Failed).
func (c Counts) Compute() (SuiteResult, bool) {
	return Compute(c.Passed, c.Failed)
}

// SuiteResult holds the aggregates for a suite that has at least one test case.
type SuiteResult struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate_pct"`
	FailRate float64 `json:"fail_rate_pct"`
}

// MaxCount is the largest count a suite field accepts. Two of them always
// sum without overflowing int.
const MaxCount = 999_999_999

// Compute returns the suite aggregates. The second value is false when
// passed+failed is zero, in which case the suite has no data to show.
func Compute(passed, failed int) (SuiteResult, bool) {
	passed, failed = Clamp(passed), Clamp(failed)
	total := passed + failed
	if total == 0 {
		return SuiteResult{}, false
	}
	return SuiteResult{
		Total:    total,
		Passed:   passed,
		Failed:   failed,
		PassRate: percent(passed, total),
		FailRate: percent(failed, total),
	}, true
}

// Clamp maps counts into the range 0..MaxCount.
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	return min(n, MaxCount)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// FormatPercent renders a rate with one decimal place, e.g. "80.0%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// ErrInvalidCount is returned by ParseCount for input that is not a whole number.
var ErrInvalidCount = errors.New("count must be a whole number")

// ParseCount parses a count typed into an input field. Blank input is zero
// and negative numbers are clamped to zero. Counts above MaxCount are rejected.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, ErrInvalidCount)
	}
	if n > MaxCount {
		return 0, fmt.Errorf("count %d exceeds %d: %w", n, MaxCount, ErrInvalidCount)
	}
	return Clamp(n), nil
}
