package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal config: only the collector section present; server section absent.
	p := writeConfig(t, `collector:
  probe_interval: 30s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Dataset.Path != DefaultDatasetPath {
		t.Errorf("dataset.path: got %q, want %q", cfg.Server.Dataset.Path, DefaultDatasetPath)
	}
	if !cfg.Server.Dataset.WatchEnabled() {
		t.Error("dataset watch: want enabled by default")
	}
	if cfg.Server.DefaultThresholdMS != DefaultThresholdMS {
		t.Errorf("default_threshold_ms: got %v, want %v", cfg.Server.DefaultThresholdMS, float64(DefaultThresholdMS))
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  dataset:
    path: /data/latency.json
    watch: false
  default_threshold_ms: 150
  alerts:
    rules:
      - name: emea-p95-high
        condition: "p95_latency > 250"
        severity: warning
        cooldown: 5m
    webhooks:
      - type: slack
        url_env: SLACK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if cfg.Server.Dataset.Path != "/data/latency.json" {
		t.Errorf("dataset.path: got %q", cfg.Server.Dataset.Path)
	}
	if cfg.Server.Dataset.WatchEnabled() {
		t.Error("dataset watch: got enabled, want disabled")
	}
	if cfg.Server.DefaultThresholdMS != 150 {
		t.Errorf("default_threshold_ms: got %v, want 150", cfg.Server.DefaultThresholdMS)
	}
	if len(cfg.Server.Alerts.Rules) != 1 {
		t.Fatalf("rules: got %d, want 1", len(cfg.Server.Alerts.Rules))
	}
	r := cfg.Server.Alerts.Rules[0]
	if r.Name != "emea-p95-high" || r.Severity != "warning" {
		t.Errorf("rule: got %+v", r)
	}
	if r.Cooldown != 5*time.Minute {
		t.Errorf("cooldown: got %v, want 5m", r.Cooldown)
	}
}

func TestLoad_WebhookURLResolution(t *testing.T) {
	t.Setenv("TEST_SLACK_URL", "https://hooks.slack.example/T000")
	p := writeConfig(t, `server:
  alerts:
    webhooks:
      - type: slack
        url_env: TEST_SLACK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u := cfg.Server.Alerts.Webhooks[0].URL(); u != "https://hooks.slack.example/T000" {
		t.Errorf("URL(): got %q", u)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"empty dataset path", "server:\n  dataset:\n    path: \"\"\n"},
		{"negative threshold", "server:\n  default_threshold_ms: -10\n"},
		{"rule without name", "server:\n  alerts:\n    rules:\n      - condition: \"breaches > 3\"\n"},
		{"rule without condition", "server:\n  alerts:\n    rules:\n      - name: r1\n"},
		{"unknown severity", "server:\n  alerts:\n    rules:\n      - name: r1\n        condition: \"breaches > 3\"\n        severity: panic\n"},
		{"unknown webhook type", "server:\n  alerts:\n    webhooks:\n      - type: pigeon\n"},
		{"not yaml", "{{{"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
