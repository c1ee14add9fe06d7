package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soocke/framewatch/app"
	"github.com/soocke/framewatch/config"
)

func main() {
	var (
		cfgPath     = flag.String("config", "framewatch.yaml", "YAML config file (optional)")
		headless    = flag.Bool("headless", false, "run without the Tk window")
		metricsAddr = flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9464")
		saveConfig  = flag.Bool("save-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stdout, level)

	if *saveConfig {
		if err := cfg.Save(*cfgPath); err != nil {
			logger.Error("save config", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		go serveMetrics(ctx, *metricsAddr, logger)
	}

	if *headless {
		err = runHeadless(ctx, cfg, logger)
	} else {
		err = runWindow(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("framewatch", "error", err)
		os.Exit(1)
	}
}

func newSession(cfg *config.Config, logger *slog.Logger, deps app.Deps) (*app.Session, error) {
	deps.Registerer = prometheus.DefaultRegisterer
	s, err := app.NewSession(cfg, logger, deps)
	if err != nil {
		return nil, err
	}
	app.SetDefault(s)
	return s, nil
}

// shutdown waits for captures, then writes the export next to the snapshots.
func shutdown(s *app.Session, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	if _, err := s.Export(""); err != nil {
		logger.Error("export", "error", err)
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cfg.ShowOverlay = false
	s, err := newSession(cfg, logger, app.Deps{})
	if err != nil {
		return err
	}
	s.Start(ctx)
	// The main goroutine owns the snapshot surface.
	s.Queue.Run(ctx)
	shutdown(s, logger)
	return nil
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", "error", err)
	}
}
