package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/obsidianstack/logstash-exporter/internal/api"
	"github.com/obsidianstack/logstash-exporter/internal/collector"
	"github.com/obsidianstack/logstash-exporter/internal/config"
	"github.com/obsidianstack/logstash-exporter/internal/scraper"
)

const shutdownTimeout = 5 * time.Second

// listening is called once the listener is bound and signal handling is
// installed. Tests replace it to learn the bound address.
var listening = func(net.Addr) {}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Getenv, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg)}))
	slog.SetDefault(logger)

	if err != nil {
		slog.Error("invalid arguments", "err", err)
		return 1
	}

	slog.Info("logstash-exporter starting",
		"endpoint", cfg.Endpoint,
		"listen", cfg.ListenAddr,
		"metrics_path", cfg.MetricsPath,
		"timeout", cfg.Timeout,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	if _, err := collector.New(reg, scraper.New(cfg.Endpoint, cfg.Timeout), cfg.Timeout); err != nil {
		slog.Error("failed to register collector", "err", err)
		return 1
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		slog.Error("failed to listen", "listen", cfg.ListenAddr, "err", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpSrv := &http.Server{
		Handler:           api.New(reg, cfg.MetricsPath),
		ReadHeaderTimeout: 10 * time.Second,
	}
	listening(lis.Addr())

	errc := make(chan error, 1)
	go func() {
		slog.Info("now listening", "listen", lis.Addr().String())
		if err := httpSrv.Serve(lis); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		slog.Error("HTTP server stopped", "err", err)
		return 1
	}

	slog.Info("quitting")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	return 0
}

// logLevel returns the configured level, or info when arguments failed to parse.
func logLevel(cfg *config.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	return cfg.LogLevel
}
