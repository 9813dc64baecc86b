package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindsgn-studio/passrate/web"
)

type serveFlags struct {
	host string
	port int
	open bool
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rf, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.host, "host", "", "Listen host (overrides config)")
	flags.IntVar(&f.port, "port", 0, "Listen port (overrides config)")
	flags.BoolVar(&f.open, "open", false, "Open the dashboard in a browser")
	return cmd
}

func runServe(cmd *cobra.Command, rf *rootFlags, f *serveFlags) error {
	cfg, err := loadConfig(rf)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = f.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = f.port
	}
	if flags.Changed("open") {
		cfg.Server.Open = f.open
	}
	if err := cfg.Validate(); err != nil {
		return exitError(exitUsage, "invalid configuration: %v", err)
	}

	log := newLogger(cfg, rf.verbose, cmd.ErrOrStderr())
	srv, err := web.New(cfg, log)
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	srv.AccessLog = log.Out

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
