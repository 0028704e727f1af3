package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/regionpulse/regionpulse/server/internal/alerts"
	"github.com/regionpulse/regionpulse/server/internal/api"
	"github.com/regionpulse/regionpulse/server/internal/config"
	"github.com/regionpulse/regionpulse/server/internal/dataset"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("regionpulse-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"dataset", cfg.Server.Dataset.Path,
		"default_threshold_ms", cfg.Server.DefaultThresholdMS,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The dataset must be readable at startup; after that, reloads that fail
	// keep the previous dataset in place.
	ds, err := dataset.Load(cfg.Server.Dataset.Path)
	if err != nil {
		slog.Error("failed to load dataset", "path", cfg.Server.Dataset.Path, "err", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded",
		"regions", len(ds.Regions()),
		"samples", ds.Len(),
		"skipped", ds.Skipped(),
	)
	st := dataset.NewStore(ds)

	// Alert engine evaluates rules against the dataset now and after each reload.
	alertEngine := alerts.New(cfg.Server.Alerts, cfg.Server.DefaultThresholdMS)
	alertEngine.Evaluate(ds)

	if cfg.Server.Dataset.WatchEnabled() {
		go func() {
			if err := dataset.Watch(ctx, cfg.Server.Dataset.Path, st, alertEngine.Evaluate); err != nil {
				slog.Error("dataset watcher stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: api.New(st, alertEngine, cfg.Server.DefaultThresholdMS),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("regionpulse-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
