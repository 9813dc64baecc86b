package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsgn-studio/passrate/config"
)

func newTestServer(t *testing.T) (*Server, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	s, err := New(config.Default(), logger)
	require.NoError(t, err)
	return s, hook
}

func get(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexNoData(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Test Case Metrics Visualizer</title>")
	assert.Contains(t, body, `name="smoke_passed"`)
	assert.Contains(t, body, `name="e2e_failed"`)
	assert.NotContains(t, body, "Daily Regression Report")
	assert.NotContains(t, body, "/chart/")
}

func TestIndexOnlyEndToEnd(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/?smoke_passed=0&smoke_failed=0&e2e_passed=10&e2e_failed=0")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Daily Regression Report")
	assert.Contains(t, body, `id="metrics-e2e"`)
	assert.Contains(t, body, `id="chart-e2e"`)
	assert.NotContains(t, body, `id="metrics-smoke"`)
	assert.NotContains(t, body, `id="chart-smoke"`)
	assert.Contains(t, body, "/chart/e2e.svg?failed=0&amp;passed=10")
	assert.Contains(t, body, "Total test cases: <strong>10</strong>")
	assert.Contains(t, body, "(<strong>100.0%</strong>)")
}

func TestIndexInvalidInput(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/?smoke_passed=lots&smoke_failed=-3&e2e_passed=4")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="error-msg"`)
	assert.Contains(t, body, `id="smoke_failed" name="smoke_failed" min="0" step="1" value="0"`)
	assert.NotContains(t, body, `id="metrics-smoke"`)
	assert.Contains(t, body, `id="metrics-e2e"`)
}

func TestChart(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/chart/smoke.svg?passed=80&failed=20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Total: 100")
}

func TestChartGzip(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/chart/smoke.svg?passed=80&failed=20", "Accept-Encoding", "gzip")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestChartNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{name: "no data", target: "/chart/smoke.svg?passed=0&failed=0", code: http.StatusNotFound},
		{name: "unknown suite", target: "/chart/unit.svg?passed=1", code: http.StatusNotFound},
		{name: "wrong extension", target: "/chart/smoke.png?passed=1", code: http.StatusNotFound},
		{name: "bad count", target: "/chart/smoke.svg?passed=x", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, get(t, h, tt.target).Code)
		})
	}
}

func TestReportAPI(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/report?smoke_passed=7&smoke_failed=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded struct {
		Sections []struct {
			Slug   string `json:"slug"`
			Result struct {
				PassRate float64 `json:"pass_rate_pct"`
				FailRate float64 `json:"fail_rate_pct"`
			} `json:"result"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, "smoke", decoded.Sections[0].Slug)
	assert.InDelta(t, 70.0, decoded.Sections[0].Result.PassRate, 1e-9)
	assert.InDelta(t, 30.0, decoded.Sections[0].Result.FailRate, 1e-9)
}

func TestReportAPIBadInput(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/report?e2e_failed=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := get(t, h, "/api/report?smoke_passed=9223372036854775807&smoke_failed=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/chart/smoke.svg?passed=9223372036854775807&failed=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/?smoke_passed=9223372036854775807&smoke_failed=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="error-msg"`)
	assert.Contains(t, body, "Total test cases: <strong>1</strong>")
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAccessLog(t *testing.T) {
	s, _ := newTestServer(t)
	var buf bytes.Buffer
	s.AccessLog = &buf
	get(t, s.Handler(), "/healthz")
	assert.Contains(t, buf.String(), "/healthz")
}

func TestServeOpensBrowserAndShutsDown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Open = true

	logger, hook := test.NewNullLogger()
	s, err := New(cfg, logger)
	require.NoError(t, err)

	opened := make(chan string, 1)
	s.openURL = func(u string) error {
		opened <- u
		return nil
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	select {
	case u := <-opened:
		assert.Equal(t, "http://127.0.0.1:8080/", u)
	case <-time.After(5 * time.Second):
		t.Fatal("browser was not opened")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Dashboard listening")
	assert.Contains(t, messages, "Shutting down dashboard")
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
