package web

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mindsgn-studio/passrate/chart"
	"github.com/mindsgn-studio/passrate/metrics"
	"github.com/mindsgn-studio/passrate/report"
)

// Query parameter names of the four dashboard inputs.
const (
	ParamSmokePassed = "smoke_passed"
	ParamSmokeFailed = "smoke_failed"
	ParamE2EPassed   = "e2e_passed"
	ParamE2EFailed   = "e2e_failed"
)

// inputField is one number input on the page.
type inputField struct {
	Name  string
	Label string
	Value int
	Err   string
}

// suiteInputs groups the two inputs of a suite into a page column.
type suiteInputs struct {
	Name   string
	Fields []inputField
}

// sectionView is a report section plus the URL of its chart image.
type sectionView struct {
	report.Section
	ChartURL string
}

type pageData struct {
	Title    string
	Suites   []suiteInputs
	Report   report.Report
	Sections []sectionView
}

// parseInputs reads the four counts from q. Invalid values count as zero and
// carry a message for the page.
func parseInputs(q url.Values) (smoke, e2e metrics.Counts, suites []suiteInputs) {
	read := func(name, label string) inputField {
		f := inputField{Name: name, Label: label}
		n, err := metrics.ParseCount(q.Get(name))
		if err != nil {
			f.Err = err.Error()
		}
		f.Value = n
		return f
	}

	sp := read(ParamSmokePassed, "Passed Smoke Tests")
	sf := read(ParamSmokeFailed, "Failed Smoke Tests")
	ep := read(ParamE2EPassed, "Passed End to End Tests")
	ef := read(ParamE2EFailed, "Failed End to End Tests")

	smoke = metrics.Counts{Passed: sp.Value, Failed: sf.Value}
	e2e = metrics.Counts{Passed: ep.Value, Failed: ef.Value}
	suites = []suiteInputs{
		{Name: metrics.Smoke.String(), Fields: []inputField{sp, sf}},
		{Name: metrics.EndToEnd.String(), Fields: []inputField{ep, ef}},
	}
	return smoke, e2e, suites
}

func chartURL(sec report.Section) string {
	q := url.Values{}
	q.Set("passed", fmt.Sprint(sec.Result.Passed))
	q.Set("failed", fmt.Sprint(sec.Result.Failed))
	return "/chart/" + sec.Slug + ".svg?" + q.Encode()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	smoke, e2e, suites := parseInputs(r.URL.Query())
	rep := report.Build(smoke, e2e)

	data := pageData{
		Title:  s.cfg.Title,
		Suites: suites,
		Report: rep,
	}
	for _, sec := range rep.Sections {
		data.Sections = append(data.Sections, sectionView{Section: sec, ChartURL: chartURL(sec)})
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.WithError(err).Error("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	slug, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	suite, ok := metrics.ParseSuite(slug)
	if !ok {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	passed, err := metrics.ParseCount(q.Get("passed"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	failed, err := metrics.ParseCount(q.Get("failed"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sec, ok := report.NewSection(suite, metrics.Counts{Passed: passed, Failed: failed})
	if !ok {
		http.Error(w, "no test results for "+suite.String(), http.StatusNotFound)
		return
	}

	svg, err := chart.SVG(sec.Chart, chart.Options{Width: s.cfg.Chart.Width, Height: s.cfg.Chart.Height})
	if err != nil {
		s.log.WithError(err).WithField("suite", slug).Error("Failed to render chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	smoke, e2e, suites := parseInputs(r.URL.Query())
	for _, su := range suites {
		for _, f := range su.Fields {
			if f.Err != "" {
				http.Error(w, f.Name+": "+f.Err, http.StatusBadRequest)
				return
			}
		}
	}

	data, err := report.JSON(report.Build(smoke, e2e))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func pct(v float64) string {
	return metrics.FormatPercent(v)
}
