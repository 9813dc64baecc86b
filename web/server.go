// Package web serves the dashboard as a single HTML page with SVG donut charts.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/jpillora/requestlog"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"

	"github.com/mindsgn-studio/passrate/config"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the HTTP dashboard.
type Server struct {
	cfg  config.Config
	log  logrus.FieldLogger
	page *template.Template

	// AccessLog receives one line per request. Defaults to io.Discard.
	AccessLog io.Writer

	// openURL is swapped out in tests.
	openURL func(string) error
}

// New creates a Server for cfg.
func New(cfg config.Config, log logrus.FieldLogger) (*Server, error) {
	page, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"pct": pct,
	}).ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("web.New: parse templates: %w", err)
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		page:      page,
		AccessLog: io.Discard,
		openURL:   open.Run,
	}, nil
}

// Handler returns the routed handler wrapped with gzip compression and
// request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart/{file}", s.handleChart)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	opts := requestlog.DefaultOptions
	opts.Writer = s.AccessLog
	return requestlog.WrapWith(gziphandler.GzipHandler(mux), opts)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web.Run: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	url := s.cfg.Server.URL()
	s.log.WithField("url", url).Info("Dashboard listening")
	if s.cfg.Server.Open {
		if err := s.openURL(url); err != nil {
			s.log.WithError(err).Warn("Failed to open browser")
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web.Serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web.Serve: shutdown: %w", err)
	}
	return nil
}
