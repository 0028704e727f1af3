package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultProbeInterval       = 30 * time.Second
	DefaultUptimeWindow        = 20
	DefaultMaxSamplesPerRegion = 1000
	DefaultOutput              = "telemetry.json"
)

// Config is the collector's view of the shared config file. A server:
// section in the same file is ignored here, so one config.yaml can drive
// both binaries.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig holds all collector-side settings.
type CollectorConfig struct {
	// Output is the path of the JSON dataset the collector appends samples to.
	// Point regionpulse-server's dataset path at the same file.
	Output string `yaml:"output"`

	// ProbeInterval controls how often each target is probed.
	ProbeInterval time.Duration `yaml:"probe_interval"`

	// UptimeWindow is the number of recent probe outcomes per region used to
	// derive the uptime percentage.
	UptimeWindow int `yaml:"uptime_window"`

	// MaxSamplesPerRegion caps the dataset size; once a region exceeds it,
	// its oldest samples are trimmed on the next write. 0 disables trimming.
	MaxSamplesPerRegion int `yaml:"max_samples_per_region"`

	// Targets is the list of regional endpoints to probe.
	Targets []Target `yaml:"targets"`
}

// Target describes one monitored regional endpoint.
type Target struct {
	// Region is the dataset key samples from this target are recorded under.
	Region string `yaml:"region"`

	// Endpoint is the full URL of the target's probe metrics endpoint.
	Endpoint string `yaml:"endpoint"`

	// Auth configures how the collector authenticates to this endpoint.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig specifies the authentication mode for a target.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// API key fields, used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields, used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields, used when Mode == "basic".
	// Username is the literal username (safe to store in config).
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// TLSConfig holds per-target TLS dial options.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Collector: CollectorConfig{
			Output:              DefaultOutput,
			ProbeInterval:       DefaultProbeInterval,
			UptimeWindow:        DefaultUptimeWindow,
			MaxSamplesPerRegion: DefaultMaxSamplesPerRegion,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	c := cfg.Collector
	if c.Output == "" {
		return fmt.Errorf("collector.output is required")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("collector.probe_interval must be positive")
	}
	if c.UptimeWindow <= 0 {
		return fmt.Errorf("collector.uptime_window must be positive")
	}
	if c.MaxSamplesPerRegion < 0 {
		return fmt.Errorf("collector.max_samples_per_region must not be negative")
	}
	for i, tgt := range c.Targets {
		if tgt.Region == "" {
			return fmt.Errorf("targets[%d]: region is required", i)
		}
		if tgt.Endpoint == "" {
			return fmt.Errorf("targets[%d] %q: endpoint is required", i, tgt.Region)
		}
		switch tgt.Auth.Mode {
		case "apikey", "bearer", "basic", "none", "":
		default:
			return fmt.Errorf("targets[%d] %q: unknown auth mode %q", i, tgt.Region, tgt.Auth.Mode)
		}
	}
	return nil
}
