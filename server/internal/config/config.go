package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort    = 8080
	DefaultDatasetPath = "telemetry.json"
	DefaultThresholdMS = 200
	DefaultCooldown    = 15 * time.Minute
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml. The `collector:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Dataset locates the telemetry file and controls hot reload.
	Dataset DatasetConfig `yaml:"dataset"`

	// DefaultThresholdMS is the breach threshold applied where a request does
	// not supply one: the region detail endpoint and alert evaluation.
	// Default 200.
	DefaultThresholdMS float64 `yaml:"default_threshold_ms"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// DatasetConfig locates the telemetry dataset file.
type DatasetConfig struct {
	// Path is the JSON dataset file the server aggregates (default telemetry.json).
	Path string `yaml:"path"`

	// Watch enables fsnotify-based hot reload of the dataset file (default true).
	Watch *bool `yaml:"watch"`
}

// WatchEnabled reports whether hot reload is on. Unset means enabled.
func (d DatasetConfig) WatchEnabled() bool {
	return d.Watch == nil || *d.Watch
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression over a region's aggregates:
	// "p95_latency > 250", "avg_uptime < 95", "breaches > 3", "samples < 5".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Dataset: DatasetConfig{
				Path: DefaultDatasetPath,
			},
			DefaultThresholdMS: DefaultThresholdMS,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.Dataset.Path == "" {
		return fmt.Errorf("server.dataset.path must not be empty")
	}
	if cfg.Server.DefaultThresholdMS < 0 {
		return fmt.Errorf("server.default_threshold_ms must not be negative")
	}
	for i, r := range cfg.Server.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d]: name must not be empty", i)
		}
		if r.Condition == "" {
			return fmt.Errorf("server.alerts.rules[%d] (%s): condition must not be empty", i, r.Name)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("server.alerts.rules[%d] (%s): severity %q unknown: want critical|warning|info", i, r.Name, r.Severity)
		}
	}
	for i, w := range cfg.Server.Alerts.Webhooks {
		switch w.Type {
		case "teams", "slack", "http":
		default:
			return fmt.Errorf("server.alerts.webhooks[%d]: type %q unknown: want teams|slack|http", i, w.Type)
		}
	}
	return nil
}
