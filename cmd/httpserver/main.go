package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Brownie44l1/http-server/internal/filestore"
	"github.com/Brownie44l1/http-server/internal/handlers"
	"github.com/Brownie44l1/http-server/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, logger, err := parseFlags(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	store := filestore.NewDir(cfg.Directory)
	srv := server.New(cfg, handlers.New(store), logger)
	srv.Use(server.RecoveryMiddleware(logger), server.LoggingMiddleware(logger))

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", server.Field{Key: "addr", Value: cfg.Addr}, server.Field{Key: "directory", Value: store.Base()})
		errc <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		logger.Error("server error", server.Field{Key: "error", Value: err})
		os.Exit(1)
	case sig := <-sigChan:
		logger.Info("shutting down", server.Field{Key: "signal", Value: sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", server.Field{Key: "error", Value: err})
	}
	if err := <-errc; !errors.Is(err, server.ErrServerClosed) {
		logger.Error("server error", server.Field{Key: "error", Value: err})
	}

	stats := srv.Stats()
	logger.Info("server stopped",
		server.Field{Key: "connections", Value: stats.ConnectionsTotal},
		server.Field{Key: "requests", Value: stats.RequestsTotal},
		server.Field{Key: "status_2xx", Value: stats.Status2xx},
		server.Field{Key: "status_4xx", Value: stats.Status4xx},
		server.Field{Key: "status_5xx", Value: stats.Status5xx},
		server.Field{Key: "failures", Value: stats.FailuresTotal},
		server.Field{Key: "avg_latency", Value: stats.AverageLatency},
	)
}

// parseFlags builds the config once; the directory may also be given as the
// first positional argument
func parseFlags(args []string, out io.Writer) (server.Config, server.Logger, error) {
	cfg := server.DefaultConfig()

	fs := flag.NewFlagSet("httpserver", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Directory, "directory", "", "base directory for /files/")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-connection read timeout, 0 disables")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "per-connection write timeout, 0 disables")
	level := fs.String("log-level", "info", "debug, info, warn or error")
	format := fs.String("log-format", "console", "console or json")

	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	if cfg.Directory == "" && fs.NArg() > 0 {
		cfg.Directory = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := newLogger(out, *level, *format)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func newLogger(out io.Writer, level, format string) (server.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "console":
		return server.NewConsoleLogger(out, lvl), nil
	case "json":
		l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
		return server.NewZerologLogger(l), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
