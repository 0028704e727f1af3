package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/regionpulse/regionpulse/collector/internal/config"
	"github.com/regionpulse/regionpulse/collector/internal/probe"
	"github.com/regionpulse/regionpulse/collector/internal/sink"
	"github.com/regionpulse/regionpulse/collector/internal/uptime"
	"github.com/regionpulse/regionpulse/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("regionpulse-collector starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"output", cfg.Collector.Output,
		"targets", len(cfg.Collector.Targets),
		"probe_interval", cfg.Collector.ProbeInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var probers []*probe.Prober
	for _, tgt := range cfg.Collector.Targets {
		probers = append(probers, probe.New(tgt))
		slog.Info("registered target", "region", tgt.Region, "endpoint", tgt.Endpoint)
	}
	if len(probers) == 0 {
		slog.Warn("no targets configured, collector will idle")
	}

	tracker := uptime.NewTracker(cfg.Collector.UptimeWindow)

	ticker := time.NewTicker(cfg.Collector.ProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("regionpulse-collector shutting down")
			return
		case <-ticker.C:
			collect(ctx, cfg.Collector, probers, tracker)
		}
	}
}

// collect runs one probe cycle: every target is probed, uptime history is
// updated, and samples from successful probes are appended to the dataset.
func collect(ctx context.Context, cfg config.CollectorConfig, probers []*probe.Prober, tracker *uptime.Tracker) {
	var batch []types.Sample
	for _, p := range probers {
		res := p.Probe(ctx)
		tracker.Record(res.Region, res.OK)
		if !res.OK {
			if res.Err == nil {
				slog.Warn("probe reported target down", "region", res.Region)
			}
			// Failed probes count against uptime but produce no latency sample.
			continue
		}
		batch = append(batch, types.Sample{
			Region:    res.Region,
			LatencyMS: res.LatencyMS,
			UptimePct: tracker.Pct(res.Region),
		})
	}
	if len(batch) == 0 {
		return
	}

	if err := sink.Append(cfg.Output, batch, cfg.MaxSamplesPerRegion); err != nil {
		slog.Error("failed to append samples", "output", cfg.Output, "err", err)
		return
	}
	slog.Info("appended samples", "count", len(batch), "output", cfg.Output)
}
