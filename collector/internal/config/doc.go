// Package config loads and validates the collector's YAML configuration.
//
// The collector reads the collector: section of the shared config file and
// ignores the server: section, so both regionpulse binaries can share one
// config.yaml. Fields:
//
//	collector.output                  - dataset file to append to (default telemetry.json)
//	collector.probe_interval          - how often targets are probed (default 30s)
//	collector.uptime_window           - probe outcomes kept per region for uptime % (default 20)
//	collector.max_samples_per_region  - dataset cap per region, oldest trimmed (default 1000, 0 disables)
//	collector.targets                 - list of {region, endpoint, auth, tls}
//
// Secrets are never stored in the file itself: auth fields reference
// environment variable names (key_env, token_env, password_env) and are
// resolved at request time.
package config
